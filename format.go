package logroute

import (
	"fmt"
	"strings"
)

const (
	anchor = "{}"
	escape = '\\'
)

// Format substitutes args into template positionally. Each "{}" takes the next
// argument; "\{}" renders a literal "{}" and "\\{}" a backslash followed by a
// substitution. Unmatched anchors stay verbatim and surplus args are ignored.
// nil and nil pointers render as "null"; errors render as their message.
func Format(template string, args ...any) string {
	return format(template, args, DefaultCause)
}

func format(template string, args []any, cause CauseFunc) string {
	if len(args) == 0 || !strings.Contains(template, anchor) {
		return template
	}
	var b strings.Builder
	b.Grow(len(template) + 16*len(args))

	i, next := 0, 0
	for next < len(args) {
		j := strings.Index(template[i:], anchor)
		if j < 0 {
			break
		}
		j += i
		switch {
		case escapedAt(template, j) && !escapedAt(template, j-1):
			// "\{}": drop the backslash, keep the braces, consume nothing.
			b.WriteString(template[i : j-1])
			b.WriteString(anchor)
			i = j + len(anchor)
			continue
		case escapedAt(template, j):
			// "\\{}": one literal backslash, then substitute.
			b.WriteString(template[i : j-1])
		default:
			b.WriteString(template[i:j])
		}
		writeArg(&b, args[next], cause)
		next++
		i = j + len(anchor)
	}
	b.WriteString(template[i:])
	return b.String()
}

// escapedAt reports whether the byte before position j is the escape character.
func escapedAt(s string, j int) bool {
	return j >= 1 && s[j-1] == escape
}

func writeArg(b *strings.Builder, arg any, cause CauseFunc) {
	if isNil(arg) {
		b.WriteString("null")
		return
	}
	switch v := arg.(type) {
	case string:
		b.WriteString(v)
	case error:
		b.WriteString(reduceCause(cause, v))
	default:
		fmt.Fprint(b, v)
	}
}
