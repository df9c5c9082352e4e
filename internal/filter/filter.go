package filter

import (
	"strings"
)

// ============================================================================
//                              Filter
// ============================================================================

// Filter 编译后的过滤器
//
// 不可变，可在多个 goroutine 间共享，对每次变更与查询复用而无需重新解析。
// 零值等同 MatchAll。
type Filter struct {
	root *Node
}

// Parse 编译过滤器文本
//
// 空文本（或仅含空白）返回 MatchAll。
func Parse(text string) (Filter, error) {
	if strings.TrimSpace(text) == "" {
		return MatchAll(), nil
	}
	root, err := ParseNode(text)
	if err != nil {
		return Filter{}, err
	}
	return Filter{root: root}, nil
}

// MustParse 编译过滤器文本，失败时 panic
func MustParse(text string) Filter {
	f, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return f
}

// MatchAll 返回匹配任意属性映射的过滤器
func MatchAll() Filter {
	return Filter{}
}

// FromNode 由语法树构造过滤器
func FromNode(root *Node) Filter {
	return Filter{root: root}
}

// Root 返回语法树根节点，MatchAll 返回 nil
func (f Filter) Root() *Node {
	return f.root
}

// IsMatchAll 是否为 MatchAll
func (f Filter) IsMatchAll() bool {
	return f.root == nil
}

// Match 以大小写不敏感方式求值
func (f Filter) Match(attrs map[string]string) bool {
	return f.MatchCase(attrs, false)
}

// MatchCase 求值，caseSensitive 控制值比较是否区分大小写
func (f Filter) MatchCase(attrs map[string]string, caseSensitive bool) bool {
	if f.root == nil {
		return true
	}
	return Evaluate(f.root, attrs, caseSensitive)
}

// And 返回 f 与 other 的合取
func (f Filter) And(other Filter) Filter {
	switch {
	case f.root == nil:
		return other
	case other.root == nil:
		return f
	}
	return Filter{root: And(f.root, other.root)}
}

// FindAssertions 参见包级 FindAssertions
func (f Filter) FindAssertions(attr string) []string {
	if f.root == nil {
		return nil
	}
	return FindAssertions(f.root, attr)
}

// String 返回规范文本，MatchAll 返回空串
//
// 两个过滤器规范文本相同即视为同一查询。
func (f Filter) String() string {
	if f.root == nil {
		return ""
	}
	return f.root.String()
}
