package filter

import (
	"strings"
)

// maxDepth 最大嵌套深度
const maxDepth = 256

// parser 递归下降解析器
//
// 语法完全括号化，无需回溯。
type parser struct {
	src   string
	pos   int
	depth int
}

// ParseNode 将过滤器文本解析为语法树
func ParseNode(src string) (*Node, error) {
	p := &parser{src: src}
	p.skipSpace()
	if p.eof() {
		return nil, p.errorf("empty filter")
	}
	n, err := p.parseFilter()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected trailing characters")
	}
	return n, nil
}

// parseFilter filter ::= '(' filtercomp ')'
func (p *parser) parseFilter() (*Node, error) {
	if p.eof() || p.peek() != '(' {
		return nil, p.errorf("expected '('")
	}
	p.depth++
	if p.depth > maxDepth {
		return nil, p.errorf("filter nested too deeply")
	}
	p.pos++

	n, err := p.parseComp()
	if err != nil {
		return nil, err
	}

	if p.eof() {
		return nil, p.errorf("missing ')'")
	}
	if p.peek() != ')' {
		return nil, p.errorf("expected ')'")
	}
	p.pos++
	p.depth--
	return n, nil
}

// parseComp filtercomp ::= and | or | not | item
func (p *parser) parseComp() (*Node, error) {
	p.skipSpace()
	if p.eof() {
		return nil, p.errorf("missing filter component")
	}

	switch p.peek() {
	case '&':
		p.pos++
		children, err := p.parseList("&")
		if err != nil {
			return nil, err
		}
		return &Node{op: OpAnd, children: children}, nil
	case '|':
		p.pos++
		children, err := p.parseList("|")
		if err != nil {
			return nil, err
		}
		return &Node{op: OpOr, children: children}, nil
	case '!':
		start := p.pos
		p.pos++
		children, err := p.parseList("!")
		if err != nil {
			return nil, err
		}
		if len(children) != 1 {
			return nil, &SyntaxError{Filter: p.src, Pos: start, Msg: "'!' requires exactly one operand"}
		}
		return &Node{op: OpNot, children: children}, nil
	case '(', ')':
		return nil, p.errorf("missing attribute")
	}
	return p.parseItem()
}

// parseList filter+
func (p *parser) parseList(op string) ([]*Node, error) {
	var children []*Node
	for {
		p.skipSpace()
		if p.eof() || p.peek() != '(' {
			break
		}
		child, err := p.parseFilter()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	if len(children) == 0 {
		return nil, p.errorf("empty operand list for '" + op + "'")
	}
	return children, nil
}

// parseItem attr op value
func (p *parser) parseItem() (*Node, error) {
	start := p.pos
	for !p.eof() && !strings.ContainsRune("=~<>()", rune(p.peek())) {
		p.pos++
	}
	attr := normalizeAttr(p.src[start:p.pos])
	if attr == "" {
		return nil, &SyntaxError{Filter: p.src, Pos: start, Msg: "missing attribute"}
	}
	if p.eof() {
		return nil, p.errorf("missing operator")
	}

	opPos := p.pos
	var op Op
	switch p.peek() {
	case '=':
		op = OpEqual
		p.pos++
	case '~', '>', '<':
		if p.pos+1 >= len(p.src) || p.src[p.pos+1] != '=' {
			return nil, &SyntaxError{Filter: p.src, Pos: opPos, Msg: "unknown operator"}
		}
		op = map[byte]Op{'~': OpApprox, '>': OpGreaterOrEqual, '<': OpLessOrEqual}[p.peek()]
		p.pos += 2
	default:
		return nil, &SyntaxError{Filter: p.src, Pos: opPos, Msg: "missing operator"}
	}

	valuePos := p.pos
	segments, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	if op != OpEqual {
		value := strings.Join(segments, "*")
		if value == "" {
			return nil, &SyntaxError{Filter: p.src, Pos: valuePos, Msg: "missing value"}
		}
		return &Node{op: op, attr: attr, value: value}, nil
	}

	switch {
	case len(segments) == 1:
		return &Node{op: OpEqual, attr: attr, value: segments[0]}, nil
	case len(segments) == 2 && segments[0] == "" && segments[1] == "":
		return &Node{op: OpPresent, attr: attr}, nil
	default:
		return &Node{op: OpSubstring, attr: attr, segments: segments}, nil
	}
}

// parseValue 读取值直到未转义的 ')'，按未转义的 '*' 切分
//
// 仅允许 \*、\(、\)、\\ 四种转义，解析为字面字符。
func (p *parser) parseValue() ([]string, error) {
	var (
		segments []string
		cur      strings.Builder
	)
	for !p.eof() {
		c := p.peek()
		switch c {
		case ')':
			return append(segments, cur.String()), nil
		case '(':
			return nil, p.errorf("unescaped '(' in value")
		case '*':
			segments = append(segments, cur.String())
			cur.Reset()
			p.pos++
		case '\\':
			if p.pos+1 >= len(p.src) {
				return nil, p.errorf("dangling escape")
			}
			switch next := p.src[p.pos+1]; next {
			case '*', '(', ')', '\\':
				cur.WriteByte(next)
			default:
				return nil, p.errorf("invalid escape")
			}
			p.pos += 2
		default:
			cur.WriteByte(c)
			p.pos++
		}
	}
	return nil, p.errorf("missing ')'")
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() byte {
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for !p.eof() {
		switch p.peek() {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) errorf(msg string) error {
	return &SyntaxError{Filter: p.src, Pos: p.pos, Msg: msg}
}
