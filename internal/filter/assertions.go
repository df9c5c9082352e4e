package filter

import (
	"slices"
)

// FindAssertions 收集对属性 attr 以 '=' 或 '~=' 断言的字面值
//
// 只收集顶层及直接位于 '&' 之下的断言；'|' 与 '!' 子树中的断言被排除。
// 返回去重并排序的结果，无断言时返回 nil。
//
// 调用方可据此在完整求值前预筛选候选项。
func FindAssertions(n *Node, attr string) []string {
	attr = normalizeAttr(attr)
	var values []string
	collect(n, attr, &values)
	if len(values) == 0 {
		return nil
	}
	slices.Sort(values)
	return slices.Compact(values)
}

func collect(n *Node, attr string, out *[]string) {
	switch n.op {
	case OpAnd:
		for _, c := range n.children {
			collect(c, attr, out)
		}
	case OpEqual, OpApprox:
		if n.attr == attr {
			*out = append(*out, n.value)
		}
	}
}
