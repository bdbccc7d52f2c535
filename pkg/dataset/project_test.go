package dataset

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/matzehuels/bestofjs/pkg/query"
)

func TestPopulate(t *testing.T) {
	ix := BuildTagIndex(testTags(), testProjects())
	tests := []struct {
		name     string
		doc      query.Document
		wantRepo string
		wantTags []string
		wantSlug string
		wantPkg  string
		hasTags  bool
	}{
		{
			name:     "full record",
			doc:      testProjects()[0],
			wantRepo: "https://github.com/facebook/react",
			wantTags: []string{"framework", "react"},
			wantSlug: "react",
			wantPkg:  "react",
			hasTags:  true,
		},
		{
			name:     "unknown tag dropped",
			doc:      testProjects()[1],
			wantRepo: "https://github.com/vuejs/core",
			wantTags: []string{"framework", "vue"},
			wantSlug: "vuejs",
			hasTags:  true,
		},
		{
			name:     "no full_name",
			doc:      testProjects()[2],
			wantTags: []string{"react", "react"},
			wantSlug: "preact",
			hasTags:  true,
		},
		{
			name:     "no tags field",
			doc:      testProjects()[3],
			wantTags: []string{},
			wantSlug: "no-tags",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ix.Populate(tt.doc)
			if p.Repository != tt.wantRepo {
				t.Errorf("Repository = %q, want %q", p.Repository, tt.wantRepo)
			}
			if p.Slug != tt.wantSlug {
				t.Errorf("Slug = %q, want %q", p.Slug, tt.wantSlug)
			}
			if p.PackageName != tt.wantPkg {
				t.Errorf("PackageName = %q, want %q", p.PackageName, tt.wantPkg)
			}
			if p.HasTags != tt.hasTags {
				t.Errorf("HasTags = %v, want %v", p.HasTags, tt.hasTags)
			}
			if got := p.TagCodes(); !reflect.DeepEqual(got, tt.wantTags) {
				t.Errorf("TagCodes() = %v, want %v", got, tt.wantTags)
			}
			for _, tag := range p.Tags {
				if _, ok := ix.Resolve(tag.Code); !ok {
					t.Errorf("populated tag %q is not in the index", tag.Code)
				}
			}
		})
	}
}

func TestPopulateDoesNotModifyInput(t *testing.T) {
	ix := BuildTagIndex(testTags(), testProjects())
	doc := testProjects()[0]
	before := len(doc)
	ix.Populate(doc)
	if len(doc) != before {
		t.Errorf("Populate() added fields to the input: %v", doc)
	}
	if _, ok := doc["slug"]; ok {
		t.Error("Populate() set slug on the input")
	}
	if tags := doc["tags"].([]any); tags[0] != "framework" {
		t.Error("Populate() replaced the input tags")
	}
}

func TestPopulateIdempotent(t *testing.T) {
	ix := BuildTagIndex(testTags(), testProjects())
	for _, doc := range testProjects() {
		a, err := json.Marshal(ix.Populate(doc))
		if err != nil {
			t.Fatalf("Marshal() error: %v", err)
		}
		b, _ := json.Marshal(ix.Populate(doc))
		if string(a) != string(b) {
			t.Errorf("Populate() not idempotent:\n%s\n%s", a, b)
		}
	}
}

func TestProjectMarshalJSON(t *testing.T) {
	ix := BuildTagIndex(testTags(), testProjects())

	data, err := json.Marshal(ix.Populate(testProjects()[0]))
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if m["stars"] != 200.0 {
		t.Errorf("stars = %v, want raw field kept", m["stars"])
	}
	if m["repository"] != "https://github.com/facebook/react" {
		t.Errorf("repository = %v", m["repository"])
	}
	if m["slug"] != "react" || m["packageName"] != "react" {
		t.Errorf("slug, packageName = %v, %v", m["slug"], m["packageName"])
	}
	tags, ok := m["tags"].([]any)
	if !ok || len(tags) != 2 {
		t.Fatalf("tags = %v, want two resolved tags", m["tags"])
	}
	if first, _ := tags[0].(map[string]any); first["code"] != "framework" || first["counter"] != 2.0 {
		t.Errorf("tags[0] = %v, want resolved framework tag", tags[0])
	}

	data, _ = json.Marshal(ix.Populate(testProjects()[3]))
	m = nil
	json.Unmarshal(data, &m)
	for _, key := range []string{"repository", "tags", "packageName"} {
		if _, ok := m[key]; ok {
			t.Errorf("%s should be absent, got %v", key, m[key])
		}
	}
}
