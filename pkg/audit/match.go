package audit

import (
	"regexp"
	"strings"

	"github.com/dd0wney/jnetc/pkg/templates"
)

const (
	pathPattern   = `[A-Za-z0-9]+(?:_[A-Za-z0-9]+)*`
	demandPattern = `Is(?:Active|Inactive)\([^()]*\)(?: and Is(?:Active|Inactive)\([^()]*\))*`
)

var placeholder = regexp.MustCompile(`\{([a-z_]+)\}`)

// matcher is a skeleton text compiled into an anchored expression. Bound
// slots are matched literally; the rest become capture groups.
type matcher struct {
	re     *regexp.Regexp
	groups []templates.Slot // slot captured by group i+1
}

func compileMatcher(text string, bound map[templates.Slot]string) (*matcher, error) {
	var b strings.Builder
	m := &matcher{}
	b.WriteString("^")

	last := 0
	for _, loc := range placeholder.FindAllStringSubmatchIndex(text, -1) {
		b.WriteString(regexp.QuoteMeta(text[last:loc[0]]))
		slot := templates.Slot(text[loc[2]:loc[3]])
		if v, ok := bound[slot]; ok {
			b.WriteString(regexp.QuoteMeta(v))
		} else {
			b.WriteString("(")
			if slot == templates.SlotDemand {
				b.WriteString(demandPattern)
			} else {
				b.WriteString(pathPattern)
			}
			b.WriteString(")")
			m.groups = append(m.groups, slot)
		}
		last = loc[1]
	}
	b.WriteString(regexp.QuoteMeta(text[last:]))
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, err
	}
	m.re = re
	return m, nil
}

// captures returns every captured value per slot in order of appearance,
// or nil when expr does not match.
func (m *matcher) captures(expr string) map[templates.Slot][]string {
	sub := m.re.FindStringSubmatch(expr)
	if sub == nil {
		return nil
	}
	out := make(map[templates.Slot][]string, len(m.groups))
	for i, slot := range m.groups {
		out[slot] = append(out[slot], sub[i+1])
	}
	return out
}

// egCoOccurrence returns a message for each place where an EG gate is
// missing: the PL=0 branch and the innermost group around every AT_greater.
func egCoOccurrence(expr, from string) []string {
	eg := "EG_" + from + "=true"
	var problems []string

	if !strings.Contains(expr, "(PL=0 and "+eg+")") {
		problems = append(problems, "PL=0 branch lacks "+eg)
	}

	for idx := 0; ; {
		i := strings.Index(expr[idx:], "AT_greater(")
		if i < 0 {
			break
		}
		pos := idx + i
		if !strings.Contains(enclosingGroup(expr, pos), eg) {
			problems = append(problems, "AT_greater check lacks "+eg)
		}
		idx = pos + len("AT_greater(")
	}
	return problems
}

// enclosingGroup returns the text of the innermost parenthesised group
// containing pos, excluding the call's own argument list.
func enclosingGroup(expr string, pos int) string {
	depth := 0
	start := -1
	for i := pos - 1; i >= 0; i-- {
		switch expr[i] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				start = i
			} else {
				depth--
			}
		}
		if start >= 0 {
			break
		}
	}
	if start < 0 {
		return expr
	}
	depth = 0
	for i := start; i < len(expr); i++ {
		switch expr[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return expr[start : i+1]
			}
		}
	}
	return expr[start:]
}
