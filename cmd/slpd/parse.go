package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dep2p/go-slp/internal/filter"
)

var parseCmd = &cobra.Command{
	Use:   "parse <filter>",
	Short: "解析过滤器并打印语法树",
	Long: `解析 LDAP 过滤器，输出规范形式与缩进语法树。语法错误时输出出错位置。

示例：
  slpd parse "(&(objectClass=Person)(|(sn=Jensen)(cn=Babs J*)))"`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		root, err := filter.ParseNode(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, root.String())
		printNode(os.Stdout, root, 0)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

// printNode 按层级缩进输出节点
func printNode(w io.Writer, n *filter.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n.Op() {
	case filter.OpAnd, filter.OpOr, filter.OpNot:
		fmt.Fprintf(w, "%s%s\n", indent, n.Op())
		for _, c := range n.Children() {
			printNode(w, c, depth+1)
		}
	case filter.OpPresent:
		fmt.Fprintf(w, "%s%s %s\n", indent, n.Op(), n.Attr())
	case filter.OpSubstring:
		fmt.Fprintf(w, "%s%s %s %q\n", indent, n.Op(), n.Attr(), n.Segments())
	default:
		fmt.Fprintf(w, "%s%s %s %q\n", indent, n.Op(), n.Attr(), n.Value())
	}
}
