package metrics

import (
	pkgif "github.com/dep2p/go-slp/pkg/interfaces"
)

// Stats 计数快照
//
// Total 为累计次数，Rate 为最近 60 秒平均每秒次数。
type Stats struct {
	Total int64
	Rate  float64
}

// Snapshot 记录器快照
type Snapshot struct {
	Mutations map[pkgif.EventKind]Stats
	Queries   Stats
	// QueryErrors 查询语法错误次数
	QueryErrors int64
}
