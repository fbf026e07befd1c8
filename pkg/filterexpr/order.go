package filterexpr

import (
	"errors"
	"fmt"
	"strings"
)

// ParseOrderBy parses "key [asc|desc], ..." against schema. The default key
// applies when raw is empty and the fallback key is always appended last so
// ordering stays deterministic.
func ParseOrderBy(raw string, schema OrderSchema) ([]OrderTerm, error) {
	if schema.Default == "" || schema.Fallback == "" {
		return nil, errors.New("order schema requires default and fallback keys")
	}
	for _, key := range []string{schema.Default, schema.Fallback} {
		if _, ok := schema.Fields[key]; !ok {
			return nil, fmt.Errorf("order key %q missing from schema fields", key)
		}
	}

	var terms []OrderTerm
	seen := make(map[string]struct{})
	add := func(key string, desc bool) {
		seen[key] = struct{}{}
		terms = append(terms, OrderTerm{Column: column(schema.Fields, key), Desc: desc})
	}

	for _, seg := range strings.Split(raw, ",") {
		parts := strings.Fields(seg)
		if len(parts) == 0 {
			continue
		}
		key := parts[0]
		if _, ok := schema.Fields[key]; !ok {
			return nil, fmt.Errorf("field %q cannot be used for ordering", key)
		}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("duplicate order key %q", key)
		}

		desc := false
		switch len(parts) {
		case 1:
		case 2:
			switch strings.ToLower(parts[1]) {
			case "asc":
			case "desc":
				desc = true
			default:
				return nil, fmt.Errorf("invalid direction %q for field %q", parts[1], key)
			}
		default:
			return nil, fmt.Errorf("invalid order segment %q", strings.TrimSpace(seg))
		}
		add(key, desc)
	}

	if len(terms) == 0 {
		add(schema.Default, schema.DefaultDesc)
	}
	if _, ok := seen[schema.Fallback]; !ok {
		add(schema.Fallback, terms[0].Desc)
	}
	return terms, nil
}

func column(fields map[string]OrderField, key string) string {
	if c := fields[key].Column; c != "" {
		return c
	}
	return key
}
