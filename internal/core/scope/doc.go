// Package scope 实现进程内服务作用域
//
// LocalScope 组合注册表、订阅管理器与指标记录器，实现
// pkgif.ServiceScope。全部回调经由注入的执行器投递，作用域本身
// 不启动 goroutine。
//
// # 事件语义
//
//   - Register: 通知过滤器匹配新注册的订阅
//   - SetProperties: 通知过滤器匹配新属性的订阅；未知标识不通知
//   - Unregister: 以移除前快照通知匹配的订阅；未知标识不通知
//   - Subscribe: 补发当前已匹配注册的 Registered 事件
//
// 只有变更在注册表中生效后才会入队通知。
package scope
