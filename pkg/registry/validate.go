package registry

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	// HeaderFields selects a projection of attributes, as a JSON object
	// mapping attribute name to true.
	HeaderFields = "X-API-Fields"
	// HeaderSort orders list results, as a JSON object mapping attribute
	// name to "asc" or "desc".
	HeaderSort = "X-API-Sort"

	defaultLimit = 50
)

// sortClause is one resolved ordering term.
type sortClause struct {
	Column string
	Desc   bool
}

// parseHeaderMap decodes a JSON-object header. A missing header yields a
// nil map; a malformed one is a validation failure.
func parseHeaderMap(r *http.Request, header string) (map[string]any, error) {
	raw := r.Header.Get(header)
	if raw == "" {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, validationf("%s header is not a valid JSON object", header)
	}
	return m, nil
}

// validateFieldsMap checks a projection map against the schema: every key
// must be a known attribute and every value the literal true. Returns the
// selected attribute set, or nil when no projection was requested.
func validateFieldsMap(schema *EntitySchema, m map[string]any) (map[string]bool, error) {
	if m == nil {
		return nil, nil
	}
	selected := make(map[string]bool, len(m))
	for _, name := range sortedKeys(m) {
		if !schema.Selectable(name) {
			return nil, validationf("Unknown attribute %s in fields", name)
		}
		v, ok := m[name].(bool)
		if !ok || !v {
			return nil, validationf("Attribute %s in fields must be true", name)
		}
		selected[name] = true
	}
	return selected, nil
}

// validateSortMap checks a sort map against the schema: keys must be known
// attributes, values must be "asc" or "desc". Terms are applied in
// attribute-name order so repeated requests order identically.
func validateSortMap(schema *EntitySchema, m map[string]any) ([]sortClause, error) {
	if m == nil {
		return nil, nil
	}
	clauses := make([]sortClause, 0, len(m))
	for _, name := range sortedKeys(m) {
		col, ok := schema.SortColumn(name)
		if !ok {
			return nil, validationf("Unknown attribute %s in sort", name)
		}
		dir, ok := m[name].(string)
		if !ok || (dir != "asc" && dir != "desc") {
			return nil, validationf("Sort direction for %s must be \"asc\" or \"desc\"", name)
		}
		clauses = append(clauses, sortClause{Column: col, Desc: dir == "desc"})
	}
	return clauses, nil
}

// parsePagination normalizes page and limit. Unparsable or out-of-range
// values fall back to the defaults rather than failing validation.
func parsePagination(q url.Values) (page, limit int) {
	page = 0
	limit = defaultLimit
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	return page, limit
}

// validateBody checks a decoded JSON body against the schema. On create
// (partial=false) every required attribute must be present; on update all
// attributes are optional. Either way, present attributes are type-checked.
// A JSON null is treated like an absent attribute on updates and fails the
// type check on creates. Unknown body keys are ignored; only schema
// attributes ever reach the store.
func validateBody(schema *EntitySchema, body map[string]any, partial bool) error {
	if body == nil {
		body = map[string]any{}
	}
	for i := range schema.Fields {
		f := &schema.Fields[i]
		raw, present := body[f.Name]
		if !present || (partial && raw == nil) {
			if !partial && f.Required {
				return validationf("%s is required", f.Name)
			}
			continue
		}
		if err := checkFieldValue(f, raw); err != nil {
			return err
		}
	}
	return nil
}

// checkFieldValue type-checks one supplied attribute value.
func checkFieldValue(f *FieldSpec, raw any) error {
	switch f.Kind {
	case FieldString:
		s, ok := raw.(string)
		if !ok {
			return validationf("%s must be a string", f.Name)
		}
		if f.MaxLen > 0 && len(s) > f.MaxLen {
			return validationf("%s must be at most %d characters", f.Name, f.MaxLen)
		}
	case FieldInt:
		if _, ok := raw.(float64); !ok {
			return validationf("%s must be a number", f.Name)
		}
	case FieldEnum:
		s, ok := raw.(string)
		if !ok || !containsString(f.Enum, s) {
			return validationf("%s must be one of %s", f.Name, strings.Join(f.Enum, ", "))
		}
	case FieldStringSlice:
		items, ok := raw.([]any)
		if !ok {
			return validationf("%s must be an array of strings", f.Name)
		}
		for _, item := range items {
			if _, ok := item.(string); !ok {
				return validationf("%s must be an array of strings", f.Name)
			}
		}
	case FieldPolicySlice:
		items, ok := raw.([]any)
		if !ok {
			return validationf("%s must be an array of policy objects", f.Name)
		}
		for _, item := range items {
			obj, ok := item.(map[string]any)
			if !ok {
				return validationf("%s must be an array of policy objects", f.Name)
			}
			if _, ok := obj["userGroups"].(string); !ok {
				return validationf("%s entries must have a string userGroups", f.Name)
			}
			if _, ok := obj["expiresInDays"].(float64); !ok {
				return validationf("%s entries must have a numeric expiresInDays", f.Name)
			}
			if _, ok := obj["defaultAction"].(string); !ok {
				return validationf("%s entries must have a string defaultAction", f.Name)
			}
		}
	case FieldRef:
		if _, ok := raw.(float64); !ok {
			return validationf("%s must be a number", f.Name)
		}
	}
	return nil
}

// coerceFieldValue converts a validated JSON value into the Go value the
// store column expects. Must be called only after checkFieldValue passed.
func coerceFieldValue(f *FieldSpec, raw any) any {
	switch f.Kind {
	case FieldInt:
		return int(raw.(float64))
	case FieldRef:
		return uint(raw.(float64))
	case FieldStringSlice:
		items := raw.([]any)
		out := make(StringSlice, 0, len(items))
		for _, item := range items {
			out = append(out, item.(string))
		}
		return out
	case FieldPolicySlice:
		items := raw.([]any)
		out := make(PolicyRules, 0, len(items))
		for _, item := range items {
			obj := item.(map[string]any)
			out = append(out, PolicyRule{
				UserGroups:    obj["userGroups"].(string),
				ExpiresInDays: int(obj["expiresInDays"].(float64)),
				DefaultAction: obj["defaultAction"].(string),
			})
		}
		return out
	default:
		return raw.(string)
	}
}

// refID extracts a validated reference id from a body value.
func refID(raw any) uint {
	return uint(raw.(float64))
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func containsString(items []string, v string) bool {
	for _, item := range items {
		if item == v {
			return true
		}
	}
	return false
}
