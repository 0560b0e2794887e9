package address

import (
	"fmt"
	"regexp"
	"strings"
)

// nameRegex validates one part of an address. Dots are the separator and are
// therefore not allowed inside a part.
var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Parse creates an Address from its canonical `flow.node` representation.
func Parse(raw string) (Address, error) {
	if raw == "" {
		return Address{}, fmt.Errorf("address cannot be empty")
	}

	parts := strings.Split(raw, ".")
	if len(parts) != 2 {
		return Address{}, fmt.Errorf("invalid address %q: want flow.node", raw)
	}
	for _, part := range parts {
		if !nameRegex.MatchString(part) {
			return Address{}, fmt.Errorf("invalid address part: %q", part)
		}
	}

	return Address{Flow: parts[0], Node: parts[1]}, nil
}

// ParseRef resolves a wire reference that appears inside flow. A bare node
// name refers to a node of the enclosing flow; a full `flow.node` form may
// point anywhere.
func ParseRef(flow, raw string) (Address, error) {
	if !strings.Contains(raw, ".") {
		if !nameRegex.MatchString(raw) {
			return Address{}, fmt.Errorf("invalid node reference: %q", raw)
		}
		return Address{Flow: flow, Node: raw}, nil
	}
	return Parse(raw)
}
