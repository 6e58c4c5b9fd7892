package ingest

import "strings"

// ApplyMapping renames source columns to target fields. A target like
// "consent.matchmaking" nests one level into a sub-object; deeper
// nesting is not supported. An empty mapping passes columns through
// unchanged.
func ApplyMapping(row map[string]string, mapping map[string]string) map[string]any {
	out := make(map[string]any, len(row))
	for col, val := range row {
		target := col
		if mapping != nil {
			if t, ok := mapping[col]; ok {
				target = t
			} else if len(mapping) > 0 {
				// explicit mappings drop unmapped columns
				continue
			}
		}
		if before, after, found := strings.Cut(target, "."); found {
			sub, ok := out[before].(map[string]any)
			if !ok {
				sub = make(map[string]any)
				out[before] = sub
			}
			sub[after] = val
			continue
		}
		out[target] = val
	}
	return out
}

// hasConsentField reports whether the mapped row explicitly carried the
// named consent flag. Imports may only change consent through explicit
// fields; absent flags keep their stored value on merge. A blank cell
// under a consent column is absent, not an explicit false.
func hasConsentField(row map[string]any, flag string) bool {
	sub, ok := row["consent"].(map[string]any)
	if !ok {
		return false
	}
	v, present := sub[flag]
	if !present {
		return false
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return false
	}
	return true
}
