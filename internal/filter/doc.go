// Package filter 实现 LDAP 风格（RFC 1960）的属性过滤器
//
// 语法为前缀形式、完全括号化：
//
//	<filter>     ::= '(' <filtercomp> ')'
//	<filtercomp> ::= <and> | <or> | <not> | <item>
//	<and>        ::= '&' <filter>+
//	<or>         ::= '|' <filter>+
//	<not>        ::= '!' <filter>
//	<item>       ::= <attr> ('=' | '~=' | '>=' | '<=') <value>
//	               | <attr> '=*'
//	               | <attr> '=' <substring>
//
// 属性名不区分大小写，解析时统一转为小写。值中的 '*'、'('、')'、'\'
// 需要用反斜杠转义。示例：
//
//	(cn=Babs Jensen)
//	(!(cn=Tim Howes))
//	(&(servicetype=service:acs)(|(group=A)(group=B*)))
//	(load<=0.5)
//
// # 使用
//
//	f, err := filter.Parse("(&(zone=eu)(load<=0.5))")
//	if err != nil {
//	    return err
//	}
//	ok := f.Match(attrs)
//
// 解析结果不可变，可在多个 goroutine 间共享并反复求值。
// Cache 提供基于 LRU 的编译缓存，避免重复解析同一查询。
//
// # 已知简化
//
// '~='（近似匹配）与 '=' 语义相同，不做模糊匹配。
package filter
