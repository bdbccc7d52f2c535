package query

import "testing"

func testDocs() []Document {
	return []Document{
		{"name": "React", "stars": 200.0, "tags": []any{"framework", "react"}, "trends": map[string]any{"daily": 12.0}},
		{"name": "Vue", "stars": 180.0, "tags": []any{"framework", "vue"}, "trends": map[string]any{"daily": 30.0}},
		{"name": "Lodash", "stars": 50.0, "tags": []any{"utilities"}},
		{"name": "Awesome", "tags": []any{"meta", "learning"}, "npm": nil},
		{"name": "Preact", "stars": 30.0, "tags": []any{"framework", "react"}, "npm": "preact"},
	}
}

func names(docs []Document, idx []int) []string {
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = docs[j].String("name")
	}
	return out
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		want []string
	}{
		{"nil matches all", nil, []string{"React", "Vue", "Lodash", "Awesome", "Preact"}},
		{"equals scalar", Equals{Field: "name", Value: "Vue"}, []string{"Vue"}},
		{"equals array element", Equals{Field: "tags", Value: "react"}, []string{"React", "Preact"}},
		{"equals nil matches missing and null", Equals{Field: "npm", Value: nil}, []string{"React", "Vue", "Lodash", "Awesome"}},
		{"not equals", NotEquals{Field: "tags", Value: "framework"}, []string{"Lodash", "Awesome"}},
		{"in", In{Field: "tags", Values: Strings("vue", "utilities")}, []string{"Vue", "Lodash"}},
		{"nin", NotIn{Field: "tags", Values: Strings("meta", "learning")}, []string{"React", "Vue", "Lodash", "Preact"}},
		{"all", AllOf{Field: "tags", Values: Strings("framework", "react")}, []string{"React", "Preact"}},
		{"all empty", AllOf{Field: "tags"}, []string{}},
		{"gte", Compare{Field: "stars", Op: OpGte, Value: 180}, []string{"React", "Vue"}},
		{"lt skips missing", Compare{Field: "stars", Op: OpLt, Value: 100}, []string{"Lodash", "Preact"}},
		{"compare type mismatch", Compare{Field: "name", Op: OpGt, Value: 1}, []string{}},
		{"nested path", Compare{Field: "trends.daily", Op: OpGt, Value: 20}, []string{"Vue"}},
		{"exists", Exists{Field: "trends", Want: true}, []string{"React", "Vue"}},
		{"not exists", Exists{Field: "stars", Want: false}, []string{"Awesome"}},
		{"size", Size{Field: "tags", Len: 1}, []string{"Lodash"}},
		{"or", Or{Equals{Field: "name", Value: "Vue"}, Equals{Field: "name", Value: "Lodash"}}, []string{"Vue", "Lodash"}},
		{"nor", Nor{Equals{Field: "tags", Value: "framework"}, Equals{Field: "tags", Value: "meta"}}, []string{"Lodash"}},
		{"and", And{Equals{Field: "tags", Value: "react"}, Compare{Field: "stars", Op: OpGt, Value: 100}}, []string{"React"}},
	}
	docs := testDocs()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, d := range docs {
				if Match(tt.expr, d) {
					got = append(got, d.String("name"))
				}
			}
			if len(got) != len(tt.want) {
				t.Fatalf("matched %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("matched %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestMatchNumericKinds(t *testing.T) {
	doc := Document{"stars": int32(10)}
	if !Match(Equals{Field: "stars", Value: 10.0}, doc) {
		t.Error("int32 field should equal float64 value")
	}
	if !Match(Compare{Field: "stars", Op: OpLte, Value: int64(10)}, doc) {
		t.Error("int32 field should compare with int64 value")
	}
}

func TestAllValues(t *testing.T) {
	all := AllOf{Field: "tags", Values: Strings("react")}
	tests := []struct {
		name string
		expr Expr
		ok   bool
	}{
		{"direct", all, true},
		{"inside and", And{Compare{Field: "stars", Op: OpGt, Value: 1}, all}, true},
		{"other field", AllOf{Field: "keywords", Values: Strings("react")}, false},
		{"nested in or", Or{all}, false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, ok := AllValues(tt.expr, "tags")
			if ok != tt.ok {
				t.Fatalf("AllValues() ok = %v, want %v", ok, tt.ok)
			}
			if ok && (len(values) != 1 || values[0] != "react") {
				t.Errorf("AllValues() = %v, want [react]", values)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	doc := Document{
		"owner": map[string]any{"login": "facebook"},
		"items": []any{map[string]any{"id": 1.0}, map[string]any{"id": 2.0}, "x"},
	}
	if got := doc.String("owner.login"); got != "facebook" {
		t.Errorf("String(owner.login) = %q, want facebook", got)
	}
	if n, ok := doc.Number("items.1.id"); !ok || n != 2 {
		t.Errorf("Number(items.1.id) = %v, %v, want 2, true", n, ok)
	}
	v, ok := doc.Lookup("items.id")
	if arr, _ := v.([]any); !ok || len(arr) != 2 {
		t.Errorf("Lookup(items.id) = %v, %v, want two ids", v, ok)
	}
	if _, ok := doc.Lookup("owner.name"); ok {
		t.Error("Lookup(owner.name) found a missing field")
	}
	if _, ok := doc.Lookup("items.9"); ok {
		t.Error("Lookup(items.9) found an out of range index")
	}
}
