package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var (
	queryServices string
	queryType     string
	queryFilter   string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "按服务类型与过滤器查询",
	Long: `加载服务文件后执行一次 FindAll 并以 JSON 输出匹配的注册。

示例：
  slpd query --services services.json --type service:http --filter "(zone=eu)"
  slpd query -s services.json -t "service:*"`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		entries, err := loadServices(queryServices)
		if err != nil {
			return err
		}

		s, err := startScope(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		if _, err := registerAll(s, entries); err != nil {
			return err
		}

		refs, err := s.FindAll(queryType, queryFilter)
		if err != nil {
			return err
		}
		views := make([]referenceView, len(refs))
		for i, ref := range refs {
			views[i] = viewOf(ref)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	},
}

func init() {
	queryCmd.Flags().StringVarP(&queryServices, "services", "s", "", "服务文件（JSON）")
	queryCmd.Flags().StringVarP(&queryType, "type", "t", "*", "服务类型，可含 '*' 通配符")
	queryCmd.Flags().StringVarP(&queryFilter, "filter", "f", "", "LDAP 过滤器，空表示全部")
	rootCmd.AddCommand(queryCmd)
}
