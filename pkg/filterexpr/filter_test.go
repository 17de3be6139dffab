package filterexpr

import (
	"strings"
	"testing"
	"time"
)

type listRequest struct {
	filter  string
	orderBy string
}

func (r listRequest) GetFilter() string  { return r.filter }
func (r listRequest) GetOrderBy() string { return r.orderBy }

type item struct {
	Name      string
	Price     float64
	CreatedAt time.Time
}

var itemsSchema = ResourceSchema{
	Fields: map[string]ValueKind{
		"name":        KindString,
		"price":       KindNumber,
		"create_time": KindTimestamp,
	},
	Order: OrderSchema{
		DefaultPrimary:     "create_time",
		DefaultPrimaryDesc: true,
		FallbackKey:        "name",
		Fields: map[string]ValueKind{
			"create_time": KindTimestamp,
			"price":       KindNumber,
			"name":        KindString,
		},
	},
}

func (i item) vars() map[string]any {
	return map[string]any{"name": i.Name, "price": i.Price, "create_time": i.CreatedAt}
}

func (i item) field(name string) any {
	switch name {
	case "name":
		return i.Name
	case "price":
		return i.Price
	default:
		return i.CreatedAt
	}
}

func TestCompileAndMatch(t *testing.T) {
	q, err := Compile(listRequest{filter: "price <= 1000 && name.startsWith('A') && create_time >= timestamp('2025-01-01T00:00:00Z')"}, itemsSchema)
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}

	match := item{Name: "Apple", Price: 10, CreatedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)}
	ok, err := q.Match(match.vars())
	if err != nil || !ok {
		t.Fatalf("expected match, got %v (err %v)", ok, err)
	}

	miss := item{Name: "Banana", Price: 10, CreatedAt: match.CreatedAt}
	ok, err = q.Match(miss.vars())
	if err != nil || ok {
		t.Fatalf("expected no match, got %v (err %v)", ok, err)
	}
}

func TestCompileAllowsDisjunction(t *testing.T) {
	q, err := Compile(listRequest{filter: "name == 'A' || price > 50"}, itemsSchema)
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	ok, err := q.Match(map[string]any{"name": "B", "price": 60.0})
	if err != nil || !ok {
		t.Fatalf("expected match, got %v (err %v)", ok, err)
	}
}

func TestEmptyFilterMatchesEverything(t *testing.T) {
	q, err := Compile(listRequest{}, itemsSchema)
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	if q.HasFilter() {
		t.Fatalf("expected no filter")
	}
	ok, err := q.Match(nil)
	if err != nil || !ok {
		t.Fatalf("expected match for empty filter")
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		req  listRequest
		want string
	}{
		{"unknown field", listRequest{filter: "unknown == 'x'"}, "undeclared reference"},
		{"non bool", listRequest{filter: "price + 1.0"}, "must evaluate to bool"},
		{"bad order field", listRequest{orderBy: "color desc"}, "cannot be used for ordering"},
		{"bad direction", listRequest{orderBy: "price sideways"}, "invalid direction"},
		{"duplicate key", listRequest{orderBy: "price, price desc"}, "duplicate order key"},
		{"too many keys", listRequest{orderBy: "price, name, create_time"}, "at most two keys"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compile(tc.req, itemsSchema)
			if err == nil {
				t.Fatalf("expected error for %+v", tc.req)
			}
			if !strings.Contains(strings.ToLower(err.Error()), strings.ToLower(tc.want)) {
				t.Fatalf("expected error to contain %q, got %v", tc.want, err)
			}
		})
	}
}

func TestSortDefaultsAndFallback(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	items := []item{
		{Name: "b", Price: 2, CreatedAt: base},
		{Name: "c", Price: 1, CreatedAt: base.Add(time.Hour)},
		{Name: "a", Price: 2, CreatedAt: base},
	}

	q, err := Compile(listRequest{}, itemsSchema)
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	Sort(items, q.Order, item.field)
	if got := names(items); got != "c,a,b" {
		t.Fatalf("expected newest first then by name, got %s", got)
	}

	q, err = Compile(listRequest{orderBy: "price desc"}, itemsSchema)
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	Sort(items, q.Order, item.field)
	if got := names(items); got != "a,b,c" {
		t.Fatalf("expected price desc then name asc, got %s", got)
	}
}

func names(items []item) string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return strings.Join(out, ",")
}
