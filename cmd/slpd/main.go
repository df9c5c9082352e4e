// Package main 提供 slpd 命令行入口
//
// slpd 是进程内服务作用域的演示与调试工具：从 JSON 文件加载服务注册，
// 按过滤器查询、观察生命周期事件或打印过滤器语法树。不监听任何网络端口。
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
