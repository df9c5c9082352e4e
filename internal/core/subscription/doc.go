// Package subscription 实现订阅索引与通知分发
//
// Index 维护 (监听器, 编译后的过滤器) 对；同一监听器可在多个不同查询上
// 各持有一个订阅。Dispatcher 把注册表变更转换为监听器回调，全部回调经由
// 调用方提供的 pkgif.Executor 异步执行。
//
// # 投递语义
//
//   - 每个匹配的订阅入队一次投递，变更调用不等待回调
//   - 同一监听器按入队顺序串行收到事件（每个监听器一个邮箱）
//   - 不同监听器之间没有顺序保证
//   - 回调返回错误或 panic 时记录日志并忽略，不影响其他投递，不重试
//   - 执行器拒绝任务时，该邮箱中待投递事件被丢弃并记录
//   - 订阅移除后，尚未投递的该订阅事件不再投递
//
// # 订阅状态
//
//	Active --Unsubscribe/UnsubscribeQuery--> Removed
//
// Removed 为终态，重复移除为空操作。
package subscription
