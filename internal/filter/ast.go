package filter

import (
	"strings"
)

// ============================================================================
//                              节点类型
// ============================================================================

// Op 节点操作类型
type Op int

const (
	// OpAnd 逻辑与
	OpAnd Op = iota
	// OpOr 逻辑或
	OpOr
	// OpNot 逻辑非
	OpNot
	// OpEqual 等值 (attr=value)
	OpEqual
	// OpApprox 近似 (attr~=value)，当前与 OpEqual 相同
	OpApprox
	// OpGreaterOrEqual 大于等于 (attr>=value)
	OpGreaterOrEqual
	// OpLessOrEqual 小于等于 (attr<=value)
	OpLessOrEqual
	// OpPresent 存在 (attr=*)
	OpPresent
	// OpSubstring 子串 (attr=a*b*c)
	OpSubstring
)

var opNames = [...]string{"and", "or", "not", "equal", "approx", "greater-or-equal", "less-or-equal", "present", "substring"}

// String 返回操作名
func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "unknown"
}

// ============================================================================
//                              Node
// ============================================================================

// Node 过滤器语法树节点
//
// 节点创建后不可变。访问器返回的切片为副本。
type Node struct {
	op       Op
	attr     string
	value    string
	segments []string
	children []*Node
}

// And 构造逻辑与节点
func And(children ...*Node) *Node {
	return &Node{op: OpAnd, children: append([]*Node(nil), children...)}
}

// Or 构造逻辑或节点
func Or(children ...*Node) *Node {
	return &Node{op: OpOr, children: append([]*Node(nil), children...)}
}

// Not 构造逻辑非节点
func Not(child *Node) *Node {
	return &Node{op: OpNot, children: []*Node{child}}
}

// Equal 构造等值节点
func Equal(attr, value string) *Node {
	return &Node{op: OpEqual, attr: normalizeAttr(attr), value: value}
}

// Approx 构造近似节点
func Approx(attr, value string) *Node {
	return &Node{op: OpApprox, attr: normalizeAttr(attr), value: value}
}

// GreaterOrEqual 构造大于等于节点
func GreaterOrEqual(attr, value string) *Node {
	return &Node{op: OpGreaterOrEqual, attr: normalizeAttr(attr), value: value}
}

// LessOrEqual 构造小于等于节点
func LessOrEqual(attr, value string) *Node {
	return &Node{op: OpLessOrEqual, attr: normalizeAttr(attr), value: value}
}

// Present 构造存在节点
func Present(attr string) *Node {
	return &Node{op: OpPresent, attr: normalizeAttr(attr)}
}

// Substring 构造子串节点
//
// segments 为通配符之间的字面片段；首（尾）片段为空表示前（后）导通配符。
// 至少需要两个片段（即至少一个通配符）。
func Substring(attr string, segments ...string) *Node {
	return &Node{op: OpSubstring, attr: normalizeAttr(attr), segments: append([]string(nil), segments...)}
}

// Op 返回节点类型
func (n *Node) Op() Op { return n.op }

// Attr 返回规范化的属性名（叶子节点）
func (n *Node) Attr() string { return n.attr }

// Value 返回断言值（比较类叶子节点）
func (n *Node) Value() string { return n.value }

// Segments 返回子串片段副本
func (n *Node) Segments() []string { return append([]string(nil), n.segments...) }

// Children 返回子节点副本
func (n *Node) Children() []*Node { return append([]*Node(nil), n.children...) }

// String 返回规范文本形式，可被 Parse 重新解析
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	b.WriteByte('(')
	switch n.op {
	case OpAnd, OpOr, OpNot:
		b.WriteByte("&|!"[n.op])
		for _, c := range n.children {
			c.write(b)
		}
	case OpPresent:
		b.WriteString(n.attr)
		b.WriteString("=*")
	case OpSubstring:
		b.WriteString(n.attr)
		b.WriteByte('=')
		for i, seg := range n.segments {
			if i > 0 {
				b.WriteByte('*')
			}
			b.WriteString(escapeValue(seg))
		}
	default:
		b.WriteString(n.attr)
		switch n.op {
		case OpApprox:
			b.WriteString("~=")
		case OpGreaterOrEqual:
			b.WriteString(">=")
		case OpLessOrEqual:
			b.WriteString("<=")
		default:
			b.WriteByte('=')
		}
		b.WriteString(escapeValue(n.value))
	}
	b.WriteByte(')')
}

// normalizeAttr 属性名规范化：去除首尾空白并转为小写
func normalizeAttr(attr string) string {
	return strings.ToLower(strings.TrimSpace(attr))
}

// escapeValue 转义值中的特殊字符
func escapeValue(v string) string {
	if !strings.ContainsAny(v, `*()\`) {
		return v
	}
	var b strings.Builder
	for i := 0; i < len(v); i++ {
		switch v[i] {
		case '*', '(', ')', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(v[i])
	}
	return b.String()
}
