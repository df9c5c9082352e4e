// Package slp 提供进程内服务发现作用域
//
// 服务提供方以服务 URL 与属性集注册服务；使用方按服务类型与
// LDAP 风格过滤器查询，或订阅匹配过滤器的注册生命周期事件。
//
// # 快速开始
//
//	import "github.com/dep2p/go-slp"
//
//	scope, err := slp.Start(ctx, slp.WithPreset("inline"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer scope.Close()
//
//	id, _ := scope.Register(slp.MustParseServiceURL("service:http://one.example.com:80/"),
//	    map[string]string{"zone": "eu"})
//
//	refs, _ := scope.FindAll("service:http", "(zone=eu)")
//
//	l := slp.NewListener(func(ev slp.Event) error {
//	    fmt.Println(ev.Kind, ev.Reference.URL())
//	    return nil
//	})
//	_ = scope.Subscribe(l, "(servicetype=service:http)")
//
// # 过滤器
//
//	(zone=eu)                      相等，值比较默认大小写不敏感
//	(cn=Ba*Jen*)                   子串，片段按顺序匹配
//	(load>=3)                      数值或字典序比较
//	(weight=*)                     存在
//	(&(a=1)(|(b=2)(!(c=3))))       组合
//
// 空过滤器匹配全部注册。属性键总是大小写不敏感。
//
// # 通知
//
// 回调经由执行器异步投递：默认为两个 worker 的工作池，
// WithInlineNotification 在变更调用方同步投递。同一监听器按变更顺序
// 收到事件；回调返回的错误与 panic 被记录后忽略。
//
// # 模块组装
//
//	executor → registry → subscription → metrics → scope
//
// 各模块以 go.uber.org/fx 组装，WithFxOptions 可追加自定义选项。
package slp
