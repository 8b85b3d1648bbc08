// Package directive extracts [[TAG|arg|...]] commands embedded in
// model-generated text.
package directive

import (
	"regexp"
	"strings"

	"github.com/nathfavour/agentpesa/pkg/catalog"
)

// Directive is one occurrence found in text. Raw is the exact
// substring matched, including the brackets; Start is its byte offset
// in the source text.
type Directive struct {
	Tag   string
	Args  []string
	Raw   string
	Start int
}

// pattern matches [[TAG]] and [[TAG|a|b]]. TAG is uppercase letters and
// underscores; arguments may contain anything except a closing bracket
// pair. Unterminated brackets never match and stay literal text.
var pattern = regexp.MustCompile(`\[\[([A-Z_]+)(\|[^\]]*)?\]\]`)

// Parse returns every directive in text in source order. The two
// reserved transfer tags are skipped: they belong to the privileged
// transfer path and this engine must not see them. Tags that are not
// in the catalog at all are also skipped so resembling text survives
// untouched.
func Parse(text string) []Directive {
	return parse(text, func(tag string) bool {
		_, ok := catalog.ByTag(tag)
		return ok
	})
}

// ParseKnown is Parse with a caller-supplied tag filter, used by the
// engine to restrict matches to tags that actually have a handler.
func ParseKnown(text string, known func(tag string) bool) []Directive {
	return parse(text, known)
}

func parse(text string, known func(tag string) bool) []Directive {
	locs := pattern.FindAllStringSubmatchIndex(text, -1)
	if locs == nil {
		return nil
	}
	reserved := make(map[string]bool)
	for _, tag := range catalog.ReservedTransferTags() {
		reserved[tag] = true
	}
	var out []Directive
	for _, loc := range locs {
		raw := text[loc[0]:loc[1]]
		tag := text[loc[2]:loc[3]]
		if reserved[tag] || !known(tag) {
			continue
		}
		out = append(out, Directive{
			Tag:   tag,
			Args:  splitArgs(text, loc),
			Raw:   raw,
			Start: loc[0],
		})
	}
	return out
}

// splitArgs trims each |-delimited argument. An empty argument list
// ([[TAG]]) yields nil; [[TAG|]] yields one empty argument.
func splitArgs(text string, loc []int) []string {
	if loc[4] < 0 {
		return nil
	}
	body := text[loc[4]:loc[5]]
	parts := strings.Split(strings.TrimPrefix(body, "|"), "|")
	args := make([]string, len(parts))
	for i, p := range parts {
		args[i] = strings.TrimSpace(p)
	}
	return args
}
