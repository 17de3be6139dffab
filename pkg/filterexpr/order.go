package filterexpr

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// OrderSchema describes ordering defaults and whitelisted keys.
type OrderSchema struct {
	DefaultPrimary     string
	DefaultPrimaryDesc bool
	FallbackKey        string
	FallbackDesc       bool
	Fields             map[string]ValueKind
}

// OrderKey is one sort key with its direction.
type OrderKey struct {
	Field string
	Desc  bool
}

// Order is the resolved primary and secondary sort keys.
type Order struct {
	Keys []OrderKey
}

func parseOrderBy(raw string, schema OrderSchema) (Order, error) { //nolint:gocognit,gocyclo // parsing DSL entails validation branches for readability
	if schema.DefaultPrimary == "" {
		return Order{}, errors.New("order schema default primary key required")
	}
	if schema.FallbackKey == "" {
		return Order{}, errors.New("order schema fallback key required")
	}
	if _, ok := schema.Fields[schema.DefaultPrimary]; !ok {
		return Order{}, fmt.Errorf("order key %q missing from schema fields", schema.DefaultPrimary)
	}
	if _, ok := schema.Fields[schema.FallbackKey]; !ok {
		return Order{}, fmt.Errorf("fallback order key %q missing from schema fields", schema.FallbackKey)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return withFallback([]OrderKey{{Field: schema.DefaultPrimary, Desc: schema.DefaultPrimaryDesc}}, schema), nil
	}

	var keys []OrderKey
	seen := make(map[string]struct{})
	for _, seg := range strings.Split(raw, ",") {
		parts := strings.Fields(seg)
		if len(parts) == 0 {
			continue
		}
		key := parts[0]
		if _, ok := schema.Fields[key]; !ok {
			return Order{}, fmt.Errorf("field %q cannot be used for ordering", key)
		}

		var desc bool
		switch len(parts) {
		case 1:
		case 2:
			switch strings.ToLower(parts[1]) {
			case "asc":
			case "desc":
				desc = true
			default:
				return Order{}, fmt.Errorf("invalid direction %q for field %q", parts[1], key)
			}
		default:
			return Order{}, fmt.Errorf("invalid order segment %q", strings.TrimSpace(seg))
		}

		if _, dup := seen[key]; dup {
			return Order{}, fmt.Errorf("duplicate order key %q", key)
		}
		seen[key] = struct{}{}
		if len(keys) == 2 {
			return Order{}, errors.New("order_by supports at most two keys")
		}
		keys = append(keys, OrderKey{Field: key, Desc: desc})
	}

	if len(keys) == 0 {
		keys = append(keys, OrderKey{Field: schema.DefaultPrimary, Desc: schema.DefaultPrimaryDesc})
	}
	return withFallback(keys, schema), nil
}

func withFallback(keys []OrderKey, schema OrderSchema) Order {
	if len(keys) == 1 && keys[0].Field != schema.FallbackKey {
		keys = append(keys, OrderKey{Field: schema.FallbackKey, Desc: schema.FallbackDesc})
	}
	return Order{Keys: keys}
}

// Sort orders items in place. value extracts the field named by an order key;
// supported values are string, float64, int and time.Time. Equal items keep their relative order.
func Sort[T any](items []T, order Order, value func(item T, field string) any) {
	if len(order.Keys) == 0 {
		return
	}
	slices.SortStableFunc(items, func(a, b T) int {
		for _, key := range order.Keys {
			c := compareValues(value(a, key.Field), value(b, key.Field))
			if key.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
}

func compareValues(a, b any) int {
	switch av := a.(type) {
	case string:
		bv, _ := b.(string)
		return cmp.Compare(strings.ToLower(av), strings.ToLower(bv))
	case float64:
		bv, _ := b.(float64)
		return cmp.Compare(av, bv)
	case int:
		bv, _ := b.(int)
		return cmp.Compare(av, bv)
	case time.Time:
		bv, _ := b.(time.Time)
		return av.Compare(bv)
	default:
		return 0
	}
}
