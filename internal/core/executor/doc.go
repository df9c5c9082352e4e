// Package executor 实现通知投递使用的任务执行器
//
// 注册表本身不创建 goroutine，全部异步工作（监听器回调）交给
// pkgif.Executor 执行。本包提供两种实现：
//   - Inline: 在调用方 goroutine 上同步执行，用于测试与确定性嵌入
//   - Pool: 固定数量工作 goroutine + 有界队列，队列满时拒绝任务
//
// # 快速开始
//
//	pool := executor.NewPool(2, 1024)
//	defer pool.Close(ctx)
//
//	if err := pool.Execute(func() { ... }); err != nil {
//	    // ErrQueueFull 或 ErrClosed，任务不会执行
//	}
//
// # Fx 模块
//
//	app := fx.New(
//	    executor.Module(),
//	    fx.Invoke(func(exec pkgif.Executor) { ... }),
//	)
package executor
