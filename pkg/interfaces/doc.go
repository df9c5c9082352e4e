// Package interfaces 定义 go-slp 的公共接口
//
// 接口与实现目录一一对应，采用扁平命名：
//   - scope.go  - ServiceScope、ServiceReference、Listener、Executor、IDGenerator
//
// # 依赖方向
//
//	slp（根包）→ internal/core/* → pkg/interfaces → pkg/types
//
// 本包只依赖 pkg/types，禁止反向依赖。
//
// # 使用示例
//
//	var scope interfaces.ServiceScope = ...
//	l := interfaces.NewListener(func(ev interfaces.Event) error {
//	    fmt.Println(ev.Kind, ev.Reference.URL())
//	    return nil
//	})
//	_ = scope.Subscribe(l, "(&(servicetype=service:http)(zone=eu))")
package interfaces
