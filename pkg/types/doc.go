// Package types 定义 go-slp 的基础类型
//
// 服务描述符 ServiceURL 及其组成部分：
//   - ServiceType: service:http、service:login:telnet、http: 三种形式
//   - Transport: DNS-SD 传输标签（_tcp / _udp）
//
// 所有类型都是不可变值，可以安全地在 goroutine 之间共享。
package types
