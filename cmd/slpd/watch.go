package main

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/spf13/cobra"

	slp "github.com/dep2p/go-slp"
)

var (
	watchServices   string
	watchFilter     string
	watchUnregister bool
)

// eventView 生命周期事件的输出格式
type eventView struct {
	Kind      string        `json:"kind"`
	Reference referenceView `json:"reference"`
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "订阅过滤器并输出生命周期事件",
	Long: `先订阅过滤器，再注册服务文件中的服务（可选随后全部注销），
每个投递到监听器的事件输出为一行 JSON。退出前等待全部通知投递完成。

示例：
  slpd watch --services services.json --filter "(&(zone=eu)(weight>=2))" --unregister`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		entries, err := loadServices(watchServices)
		if err != nil {
			return err
		}

		s, err := startScope(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		var mu sync.Mutex
		enc := json.NewEncoder(os.Stdout)
		l := slp.NewListener(func(ev slp.Event) error {
			mu.Lock()
			defer mu.Unlock()
			return enc.Encode(eventView{Kind: ev.Kind.String(), Reference: viewOf(ev.Reference)})
		})
		if err := s.Subscribe(l, watchFilter); err != nil {
			return err
		}

		ids, err := registerAll(s, entries)
		if err != nil {
			return err
		}
		if watchUnregister {
			for _, id := range ids {
				s.Unregister(id)
			}
		}

		// Close 排空通知队列
		return s.Close()
	},
}

func init() {
	watchCmd.Flags().StringVarP(&watchServices, "services", "s", "", "服务文件（JSON）")
	watchCmd.Flags().StringVarP(&watchFilter, "filter", "f", "", "LDAP 过滤器，空表示全部")
	watchCmd.Flags().BoolVar(&watchUnregister, "unregister", false, "注册后立即注销全部服务")
	rootCmd.AddCommand(watchCmd)
}
