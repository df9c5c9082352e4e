// Package registry 实现注册存储
//
// Registry 维护注册标识到注册记录的并发映射：
//   - 注册时生成标识，注入保留属性 serviceregistration 与 servicetype
//   - SetProperties 整体替换属性集，servicetype 保持注册时的值
//   - 未知标识的 SetProperties / Unregister / Get 均为空操作，不报错
//   - 查询返回不可变快照（*Record），从不暴露可变状态
//
// 属性键大小写不敏感，在写入时规范化为小写。
//
// # 存储后端
//
//   - MemoryStore: 按注册标识 murmur3 哈希分片的读写锁映射
//   - BadgerStore: 内存模式 BadgerDB，记录以 JSON 编码（不落盘）
//
// # 快速开始
//
//	reg := registry.New(registry.NewMemoryStore(16))
//	rec, _ := reg.Register(url, map[string]string{"zone": "eu"})
//	refs, _ := reg.FindQuery("service:http", "(zone=eu)")
package registry
