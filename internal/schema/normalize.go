package schema

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeStrings returns a copy of payload with every string value
// NFC-normalized and stripped of surrounding whitespace.
//
// This runs before validation and storage so that equality constraints in
// the engine (the unique email index in particular) compare canonical byte
// sequences: "José" composed and "José" decomposed are the same email.
func NormalizeStrings(payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		if s, ok := v.(string); ok {
			out[k] = norm.NFC.String(strings.TrimSpace(s))
		} else {
			out[k] = v
		}
	}
	return out
}
