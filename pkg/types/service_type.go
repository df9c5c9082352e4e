package types

import "strings"

// ============================================================================
//                              服务类型
// ============================================================================

const (
	// ServicePrefix 服务类型前缀
	ServicePrefix = "service:"

	// NamingAuthorityIANA 默认命名机构（空字符串）
	NamingAuthorityIANA = ""
)

// ServiceType 服务类型
//
// 支持三种形式：
//
//	简单类型   : service:http
//	抽象类型   : service:login:telnet（抽象名 login，具体名 telnet）
//	普通 URL  : http:
//
// 命名机构写在主类型名之后：service:printer.acme:lpr
type ServiceType struct {
	typeName        string
	simpleType      string
	abstractType    string
	concreteType    string
	namingAuthority string
	isServiceType   bool
	isAbstract      bool
}

// ParseServiceType 解析服务类型字符串
func ParseServiceType(typeName string) ServiceType {
	st := ServiceType{typeName: typeName}
	if !strings.HasPrefix(typeName, ServicePrefix) {
		return st
	}
	st.isServiceType = true
	rest := typeName[len(ServicePrefix):]
	st.isAbstract = strings.Contains(rest, ":")

	// 命名机构只出现在主类型名中：'.' 之后、第一个 ':' 之前
	principal, concrete, _ := strings.Cut(rest, ":")
	if dot := strings.Index(principal, "."); dot != -1 {
		st.namingAuthority = principal[dot+1:]
		principal = principal[:dot]
	}

	if st.isAbstract {
		st.abstractType = principal
		st.concreteType = concrete
	} else {
		st.simpleType = principal
	}
	return st
}

// IsServiceURL 是否为 service: 形式的类型
func (t ServiceType) IsServiceURL() bool {
	return t.isServiceType
}

// IsAbstractType 是否为抽象类型
func (t ServiceType) IsAbstractType() bool {
	return t.isAbstract
}

// IsNADefault 是否使用默认命名机构
func (t ServiceType) IsNADefault() bool {
	return t.namingAuthority == NamingAuthorityIANA
}

// NamingAuthority 返回命名机构
func (t ServiceType) NamingAuthority() string {
	return t.namingAuthority
}

// AbstractTypeName 返回抽象类型名，非抽象类型返回空串
func (t ServiceType) AbstractTypeName() string {
	if t.isAbstract {
		return t.abstractType
	}
	return ""
}

// ConcreteTypeName 返回具体类型名，非抽象类型返回空串
func (t ServiceType) ConcreteTypeName() string {
	if t.isAbstract {
		return t.concreteType
	}
	return ""
}

// PrincipalTypeName 返回主类型名
func (t ServiceType) PrincipalTypeName() string {
	if t.isAbstract {
		return t.abstractType
	}
	return t.simpleType
}

// Protocol 返回访问该服务使用的协议名
//
//	service:http               -> http
//	service:configuration:http -> http
//	http:                      -> http
func (t ServiceType) Protocol() string {
	if !t.isServiceType {
		return strings.TrimSuffix(t.typeName, ":")
	}
	if t.isAbstract {
		concrete := t.concreteType
		if i := strings.LastIndex(concrete, ":"); i != -1 {
			return concrete[i+1:]
		}
		return concrete
	}
	return t.simpleType
}

// Equal 比较两个服务类型
func (t ServiceType) Equal(o ServiceType) bool {
	return t.String() == o.String()
}

// String 返回规范形式
func (t ServiceType) String() string {
	if !t.isServiceType {
		return t.typeName
	}
	var b strings.Builder
	b.WriteString(ServicePrefix)
	na := ""
	if !t.IsNADefault() {
		na = "." + t.namingAuthority
	}
	if t.isAbstract {
		b.WriteString(t.abstractType)
		b.WriteString(na)
		b.WriteByte(':')
		b.WriteString(t.concreteType)
	} else {
		b.WriteString(t.simpleType)
		b.WriteString(na)
	}
	return b.String()
}
