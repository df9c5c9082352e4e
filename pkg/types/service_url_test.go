package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
//                              ServiceURL 解析测试
// ============================================================================

func TestParseServiceURL(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantType string
		wantHost string
		wantPort int
		wantPath string
		wantURL  string
	}{
		{
			name:     "jar_path",
			raw:      "service:myService:jar:http://foo.com/my.jar!/",
			wantType: "service:myService:jar:http",
			wantHost: "foo.com",
			wantPath: "/my.jar!/",
		},
		{
			name:     "host_port_path",
			raw:      "service:configuration:http://192.168.56.1:56989/configuration",
			wantType: "service:configuration:http",
			wantHost: "192.168.56.1",
			wantPort: 56989,
			wantPath: "/configuration",
			wantURL:  "http://192.168.56.1:56989/configuration",
		},
		{
			name:     "no_path",
			raw:      "service:configuration:http://192.168.56.1:56989",
			wantType: "service:configuration:http",
			wantHost: "192.168.56.1",
			wantPort: 56989,
			wantPath: "/",
			wantURL:  "http://192.168.56.1:56989/",
		},
		{
			name:     "simple",
			raw:      "service:http://foo.bar/two",
			wantType: "service:http",
			wantHost: "foo.bar",
			wantPath: "/two",
			wantURL:  "http://foo.bar/two",
		},
		{
			name:     "no_host",
			raw:      "service:printer:/queue",
			wantType: "service:printer",
			wantPath: "/queue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ParseServiceURL(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, u.ServiceType().String())
			assert.Equal(t, tt.wantHost, u.Host())
			assert.Equal(t, tt.wantPort, u.Port())
			assert.Equal(t, tt.wantPath, u.Path())
			assert.Equal(t, LifetimeDefault, u.TTL())
			assert.Equal(t, TransportTCP, u.Transport())
			if tt.wantURL != "" {
				assert.Equal(t, tt.wantURL, u.URL().String())
			}
		})
	}
}

func TestParseServiceURL_Invalid(t *testing.T) {
	for _, raw := range []string{"", "service:http", ":/foo", "service:http://bad host/", "service:http://foo:99999/"} {
		_, err := ParseServiceURL(raw)
		assert.ErrorIs(t, err, ErrInvalidServiceURL, raw)
	}
}

func TestServiceURL_UDPHidesPort(t *testing.T) {
	u := MustParseServiceURL("service:dns://10.0.0.1:53/").WithTransport(TransportUDP)
	assert.Equal(t, NoPort, u.Port())
	assert.Equal(t, "_dns._udp.", u.DNSServiceType())
}

func TestServiceURL_EqualAndCompare(t *testing.T) {
	a := MustParseServiceURL("service:http://foo.bar/one")
	b := MustParseServiceURL("service:http://foo.bar/one").WithPriority(1)
	c := MustParseServiceURL("service:http://foo.bar/two")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, -1, a.Compare(c))
	assert.Equal(t, 0, a.Compare(a))
	assert.Equal(t, 1, a.WithWeight(5).Compare(a))
}

func TestServiceURL_WithIsCopy(t *testing.T) {
	a := MustParseServiceURL("service:http://foo.bar/one")
	b := a.WithZone("eu-1").WithInstanceName("web-1").WithTTL(LifetimePermanent)

	assert.Empty(t, a.Zone())
	assert.Equal(t, "eu-1", b.Zone())
	assert.Equal(t, "web-1", b.InstanceName())
	assert.Equal(t, LifetimePermanent, b.TTL())
}

func TestObjectServiceURL(t *testing.T) {
	payload := []byte("opaque-object")
	u, err := NewObjectServiceURL("service:jmx", payload, time.Minute, TransportTCP)
	require.NoError(t, err)

	assert.Equal(t, "service:jmx", u.ServiceType().String())
	assert.Empty(t, u.Host())
	got, err := u.PathObject()
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	_, err = MustParseServiceURL("service:http://foo.bar/").PathObject()
	assert.ErrorIs(t, err, ErrNoPathObject)
}

func TestServiceURL_JSON(t *testing.T) {
	u := MustParseServiceURL("service:http://foo.bar:8080/api").
		WithPriority(3).WithWeight(7).WithZone("eu").WithInstanceName("a").WithTTL(LifetimePermanent)

	data, err := json.Marshal(u)
	require.NoError(t, err)

	var back ServiceURL
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, u.Equal(back))
	assert.Equal(t, 0, u.Compare(back))
	assert.Equal(t, "eu", back.Zone())
	assert.Equal(t, "a", back.InstanceName())
	assert.Equal(t, LifetimePermanent, back.TTL())
}

// ============================================================================
//                              ServiceType 测试
// ============================================================================

func TestParseServiceType(t *testing.T) {
	tests := []struct {
		in        string
		service   bool
		abstract  bool
		principal string
		concrete  string
		na        string
		protocol  string
	}{
		{"service:http", true, false, "http", "", "", "http"},
		{"service:login:telnet", true, true, "login", "telnet", "", "telnet"},
		{"service:printer.acme:lpr", true, true, "printer", "lpr", "acme", "lpr"},
		{"service:printer.acme", true, false, "printer", "", "acme", "printer"},
		{"service:myService:jar:http", true, true, "myService", "jar:http", "", "http"},
		{"http:", false, false, "", "", "", "http"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			st := ParseServiceType(tt.in)
			assert.Equal(t, tt.service, st.IsServiceURL())
			assert.Equal(t, tt.abstract, st.IsAbstractType())
			assert.Equal(t, tt.principal, st.PrincipalTypeName())
			assert.Equal(t, tt.concrete, st.ConcreteTypeName())
			assert.Equal(t, tt.na, st.NamingAuthority())
			assert.Equal(t, tt.na == "", st.IsNADefault())
			assert.Equal(t, tt.protocol, st.Protocol())
			assert.Equal(t, tt.in, st.String())
		})
	}
}

func TestParseTransport(t *testing.T) {
	tr, err := ParseTransport("_udp")
	require.NoError(t, err)
	assert.Equal(t, TransportUDP, tr)
	assert.True(t, IsTransport("_tcp"))
	assert.False(t, IsTransport("tcp"))
	_, err = ParseTransport("sctp")
	assert.ErrorIs(t, err, ErrInvalidTransport)
}
