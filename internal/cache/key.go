package cache

import (
	"encoding/json"
	"fmt"
)

// Key derives a canonical cache key from a query value. The value is encoded
// to JSON and re-encoded through a generic map, so object keys come out
// sorted; zero fields dropped by omitempty and empty strings, nulls and empty
// objects are removed so logically identical queries collapse to one key.
func Key(parts ...any) (string, error) {
	norm := make([]any, 0, len(parts))
	for _, p := range parts {
		raw, err := json.Marshal(p)
		if err != nil {
			return "", fmt.Errorf("cache key: %w", err)
		}
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return "", fmt.Errorf("cache key: %w", err)
		}
		norm = append(norm, prune(generic))
	}
	out, err := json.Marshal(norm)
	if err != nil {
		return "", fmt.Errorf("cache key: %w", err)
	}
	return string(out), nil
}

// MustKey is Key for values known to be JSON encodable.
func MustKey(parts ...any) string {
	k, err := Key(parts...)
	if err != nil {
		panic(err)
	}
	return k
}

func prune(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			p := prune(val)
			if empty(p) {
				continue
			}
			out[k] = p
		}
		return out
	case []any:
		for i := range t {
			t[i] = prune(t[i])
		}
		return t
	default:
		return v
	}
}

func empty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}
