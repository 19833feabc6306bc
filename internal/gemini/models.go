package gemini

import (
	"fmt"
	"strconv"
	"strings"
)

// ModelResolutionError is returned when a /model argument names no single model
type ModelResolutionError struct {
	Arg     string
	Matches []string
	Reason  string
}

func (e *ModelResolutionError) Error() string {
	if len(e.Matches) > 1 {
		return fmt.Sprintf("%s %q: %s", e.Reason, e.Arg, strings.Join(e.Matches, ", "))
	}
	return fmt.Sprintf("%s: %q", e.Reason, e.Arg)
}

// ResolveModel resolves arg against models. A number is a 1-based index;
// anything else must exactly match a model name or be a case-insensitive
// substring of exactly one.
func ResolveModel(arg string, models []string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", &ModelResolutionError{Arg: arg, Reason: "no model given"}
	}

	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(models) {
			return "", &ModelResolutionError{
				Arg:    arg,
				Reason: fmt.Sprintf("model number out of range (1-%d)", len(models)),
			}
		}
		return models[n-1], nil
	}

	needle := strings.ToLower(arg)
	var matches []string
	for _, m := range models {
		lower := strings.ToLower(m)
		if lower == needle {
			return m, nil
		}
		if strings.Contains(lower, needle) {
			matches = append(matches, m)
		}
	}

	switch len(matches) {
	case 0:
		return "", &ModelResolutionError{Arg: arg, Reason: "unknown model"}
	case 1:
		return matches[0], nil
	default:
		return "", &ModelResolutionError{Arg: arg, Matches: matches, Reason: "ambiguous model"}
	}
}

// IsKnownModel reports whether name is in models
func IsKnownModel(name string, models []string) bool {
	for _, m := range models {
		if m == name {
			return true
		}
	}
	return false
}
