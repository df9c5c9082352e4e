package filter

import (
	"math"
	"strconv"
	"strings"
)

// Evaluate 针对属性映射求值
//
// 属性键总是大小写不敏感；caseSensitive 仅影响值的比较。
// 对任何合法语法树都有定义，不修改 attrs。
func Evaluate(n *Node, attrs map[string]string, caseSensitive bool) bool {
	switch n.op {
	case OpAnd:
		for _, c := range n.children {
			if !Evaluate(c, attrs, caseSensitive) {
				return false
			}
		}
		return true
	case OpOr:
		for _, c := range n.children {
			if Evaluate(c, attrs, caseSensitive) {
				return true
			}
		}
		return false
	case OpNot:
		return !Evaluate(n.children[0], attrs, caseSensitive)
	}

	actual, ok := lookup(attrs, n.attr)
	if !ok {
		return false
	}

	switch n.op {
	case OpPresent:
		return true
	case OpEqual, OpApprox:
		return fold(actual, caseSensitive) == fold(n.value, caseSensitive)
	case OpGreaterOrEqual:
		return compare(actual, n.value, caseSensitive) >= 0
	case OpLessOrEqual:
		return compare(actual, n.value, caseSensitive) <= 0
	case OpSubstring:
		return matchSegments(fold(actual, caseSensitive), n.segments, caseSensitive)
	}
	return false
}

// lookup 查找属性值
//
// 先按规范化键精确查找，再退回到大小写折叠比较，
// 以兼容未经规范化的调用方映射。
func lookup(attrs map[string]string, key string) (string, bool) {
	if v, ok := attrs[key]; ok {
		return v, true
	}
	for k, v := range attrs {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

func fold(s string, caseSensitive bool) string {
	if caseSensitive {
		return s
	}
	return strings.ToLower(s)
}

// compare 两侧均为有限数字时按数值比较，否则按字典序
func compare(actual, asserted string, caseSensitive bool) int {
	a, okA := parseNumber(actual)
	b, okB := parseNumber(asserted)
	if okA && okB {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	}
	return strings.Compare(fold(actual, caseSensitive), fold(asserted, caseSensitive))
}

// parseNumber 解析有限数值；NaN 与 ±Inf 不视为数字
func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// matchSegments 按序、不重叠地匹配子串片段
//
// 首片段非空表示值必须以其开头，尾片段非空表示值必须以其结尾。
func matchSegments(value string, segments []string, caseSensitive bool) bool {
	if len(segments) == 0 {
		return true
	}
	last := len(segments) - 1

	first := fold(segments[0], caseSensitive)
	if !strings.HasPrefix(value, first) {
		return false
	}
	rest := value[len(first):]

	if last == 0 {
		return rest == ""
	}

	tail := fold(segments[last], caseSensitive)
	for _, seg := range segments[1:last] {
		seg = fold(seg, caseSensitive)
		if seg == "" {
			continue
		}
		idx := strings.Index(rest, seg)
		if idx < 0 {
			return false
		}
		rest = rest[idx+len(seg):]
	}
	return len(rest) >= len(tail) && strings.HasSuffix(rest, tail)
}
