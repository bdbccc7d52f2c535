package dataset

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/bestofjs/pkg/query"
)

func testTags() []query.Document {
	return []query.Document{
		{"code": "framework", "name": "Framework"},
		{"code": "react", "name": "React", "aliases": []any{"reactjs"}},
		{"code": "vue", "name": "Vue"},
		{"code": "unused", "name": "Unused"},
	}
}

func testProjects() []query.Document {
	return []query.Document{
		{"name": "React", "full_name": "facebook/react", "tags": []any{"framework", "react"}, "stars": 200.0, "npm": "react"},
		{"name": "Vue.js", "full_name": "vuejs/core", "tags": []any{"framework", "vue", "unknown"}, "stars": 180.0},
		{"name": "Preact", "tags": []any{"react", "react"}, "stars": 30.0},
		{"name": "No Tags"},
	}
}

func TestBuildTagIndexCounters(t *testing.T) {
	ix := BuildTagIndex(testTags(), testProjects())

	want := map[string]int{"framework": 2, "react": 2, "vue": 1, "unused": 0}
	for code, n := range want {
		tag, ok := ix.Resolve(code)
		if !ok {
			t.Fatalf("Resolve(%q) not found", code)
		}
		if tag.Counter != n {
			t.Errorf("%s counter = %d, want %d", code, tag.Counter, n)
		}
	}
	if _, ok := ix.Resolve("unknown"); ok {
		t.Error("Resolve(unknown) created an entry for an undeclared code")
	}
	if ix.Len() != 4 {
		t.Errorf("Len() = %d, want 4", ix.Len())
	}
}

func TestBuildTagIndexDuplicateCodes(t *testing.T) {
	tags := []query.Document{
		{"code": "a", "name": "First"},
		{"code": "b", "name": "B"},
		{"code": "a", "name": "Second"},
	}
	ix := BuildTagIndex(tags, []query.Document{{"tags": []any{"a"}}})
	got := ix.Tags()
	if len(got) != 2 || got[0].Code != "a" || got[1].Code != "b" {
		t.Fatalf("Tags() = %v, want [a b]", got)
	}
	if got[0].Name != "Second" {
		t.Errorf("duplicate code name = %q, want Second", got[0].Name)
	}
	if got[0].Counter != 1 {
		t.Errorf("duplicate code counter = %d, want 1", got[0].Counter)
	}
}

func TestTagIndexDocuments(t *testing.T) {
	ix := BuildTagIndex(testTags(), testProjects())
	docs := ix.Documents()
	if len(docs) != len(ix.Tags()) {
		t.Fatalf("len(Documents()) = %d, want %d", len(docs), len(ix.Tags()))
	}
	if n, _ := docs[0].Number("counter"); n != 2 {
		t.Errorf("framework counter document = %v, want 2", n)
	}
	if _, ok := docs[3].Lookup("counter"); ok {
		t.Error("zero counter should be absent from the document")
	}
	if _, ok := testTags()[0]["counter"]; ok {
		t.Error("raw tag document was modified")
	}
}

func TestResolveAll(t *testing.T) {
	ix := BuildTagIndex(testTags(), nil)
	got := ix.ResolveAll([]string{"vue", "missing", "react"})
	if len(got) != 2 || got[0].Code != "vue" || got[1].Code != "react" {
		t.Errorf("ResolveAll() = %v, want [vue react]", got)
	}
	if got := ix.ResolveAll(nil); got == nil || len(got) != 0 {
		t.Errorf("ResolveAll(nil) = %v, want empty non-nil", got)
	}
}

func TestTagMarshalJSON(t *testing.T) {
	ix := BuildTagIndex(testTags(), testProjects())
	tests := []struct {
		code        string
		wantCounter bool
	}{
		{"react", true},
		{"unused", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			tag, _ := ix.Resolve(tt.code)
			data, err := json.Marshal(tag)
			if err != nil {
				t.Fatalf("Marshal() error: %v", err)
			}
			var m map[string]any
			if err := json.Unmarshal(data, &m); err != nil {
				t.Fatalf("Unmarshal() error: %v", err)
			}
			if m["code"] != tt.code {
				t.Errorf("code = %v, want %s", m["code"], tt.code)
			}
			if _, ok := m["counter"]; ok != tt.wantCounter {
				t.Errorf("counter present = %v, want %v", ok, tt.wantCounter)
			}
			if _, ok := m["projects"]; ok {
				t.Error("projects should be absent on index tags")
			}
		})
	}
}

func TestTagClone(t *testing.T) {
	ix := BuildTagIndex(testTags(), testProjects())
	orig, _ := ix.Resolve("react")
	c := orig.Clone()
	c.Projects = []*Project{{Name: "x"}}
	if orig.Projects != nil {
		t.Error("Clone() shares Projects with the original")
	}
	if c.Counter != orig.Counter || c.Code != orig.Code {
		t.Errorf("Clone() = %+v, want copy of %+v", c, orig)
	}
}
