// Package metrics 提供注册表运行指标
//
// 两部分组成：
//   - Recorder: 按事件类型统计变更次数与最近 60 秒速率，并统计查询
//   - Collector: prometheus.Collector，抓取时从注册表、订阅管理器、
//     执行器与 Recorder 读取快照
//
// 每个服务作用域使用独立的 prometheus.Registry，不写入全局默认注册表，
// 同一进程中可并存多个作用域。
//
// # 快速开始
//
//	rec := metrics.NewRecorder(nil)
//	rec.LogMutation(pkgif.EventRegistered)
//	snap := rec.Snapshot()
//	fmt.Println(snap.Mutations[pkgif.EventRegistered].Total)
//
//	promReg := prometheus.NewRegistry()
//	promReg.MustRegister(metrics.NewCollector("slp", metrics.Sources{Reporter: rec}))
package metrics
