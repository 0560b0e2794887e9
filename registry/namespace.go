package registry

import (
	"strings"
	"unicode"

	"github.com/rzaytsev/flowbind/node"
)

// NamespaceSettings rewrites a settings schema into the per-type key
// namespace the host mandates: every key k becomes camelCase(typ) followed
// by k with its first rune upper-cased, so the type "node1" and the key
// "customSetting" produce "node1CustomSetting".
//
// The result is a new map; the input is never written to. A nil input
// yields a nil output. Credential schemas are not namespaced anywhere,
// since the host already keys credentials by type.
func NamespaceSettings(typ string, in map[string]node.Setting) map[string]node.Setting {
	if in == nil {
		return nil
	}
	prefix := camelCase(typ)
	out := make(map[string]node.Setting, len(in))
	for k, v := range in {
		out[prefix+capitalize(k)] = v
	}
	return out
}

// camelCase collapses '-', '_' and space separators, upper-casing the rune
// after each separator and lower-casing the first rune of the result:
// "http-fetch" becomes "httpFetch", "node1" stays "node1".
func camelCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	upperNext := false
	for _, r := range s {
		switch {
		case r == '-' || r == '_' || r == ' ':
			upperNext = true
		case b.Len() == 0:
			b.WriteRune(unicode.ToLower(r))
			upperNext = false
		case upperNext:
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// capitalize upper-cases the first rune of s.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
