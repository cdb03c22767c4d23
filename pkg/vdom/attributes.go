package vdom

import "strings"

// NormalizeAttrs applies the attribute-name translation rules of
// spec.md §4.1 to a raw attribute map and returns a fresh, normalized map.
// Rules:
//   - "class_name" -> "className"
//   - "aria_label"  -> "aria-label" ("aria_*" is dashed)
//   - "data_*" is dashed ("data_testid" -> "data-testid")
//   - every other underscored name becomes camelCase ("tab_index" -> "tabIndex")
//   - "style", when given as a map, is recursively camelCased the same way
//
// NormalizeAttrs is idempotent: normalizing an already-normalized map
// returns an equal map (spec.md §8 invariant 8), because none of the
// output names contain underscores for the rules above to rewrite.
func NormalizeAttrs(raw map[string]any) map[string]any {
	if raw == nil {
		return nil
	}
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		nk := normalizeAttrName(k)
		if nk == "style" {
			if m, ok := v.(map[string]any); ok {
				out[nk] = normalizeStyle(m)
				continue
			}
			if m, ok := v.(map[string]string); ok {
				conv := make(map[string]any, len(m))
				for sk, sv := range m {
					conv[sk] = sv
				}
				out[nk] = normalizeStyle(conv)
				continue
			}
		}
		out[nk] = v
	}
	return out
}

func normalizeStyle(raw map[string]any) map[string]string {
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		out[camelCase(k)] = propToString(v)
	}
	return out
}

func normalizeAttrName(name string) string {
	switch name {
	case "class_name":
		return "className"
	}
	if strings.HasPrefix(name, "aria_") {
		return "aria-" + strings.ReplaceAll(name[len("aria_"):], "_", "-")
	}
	if strings.HasPrefix(name, "data_") {
		return "data-" + strings.ReplaceAll(name[len("data_"):], "_", "-")
	}
	if strings.Contains(name, "_") {
		return camelCase(name)
	}
	return name
}

// camelCase converts a snake_case identifier to lowerCamelCase.
func camelCase(s string) string {
	parts := strings.Split(s, "_")
	var b strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			b.WriteString(p)
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

func propToString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// Attrs is the attribute map accepted by builders; its any-typed values
// lets callers write Attrs{"class_name": "card", "disabled": true}.
type Attrs map[string]any
