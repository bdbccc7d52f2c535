package dataset

import (
	"encoding/json"
	"maps"

	"github.com/matzehuels/bestofjs/pkg/query"
)

const githubURL = "https://github.com/"

// Project is a populated project record.
type Project struct {
	Name     string
	FullName string

	// Repository is the GitHub URL, empty when the raw record has no
	// full_name.
	Repository string
	Slug       string
	// PackageName mirrors the raw npm field.
	PackageName string
	// Tags are the resolved tags. HasTags reports whether the raw record
	// carried a tags field at all.
	Tags    []*Tag
	HasTags bool

	// Fields is the raw (possibly projected) project document.
	Fields query.Document
}

// Populate enriches a raw project document. doc is not modified and the
// result shares no mutable state with it apart from nested raw values.
func (ix *TagIndex) Populate(doc query.Document) *Project {
	p := &Project{
		Name:     doc.String("name"),
		FullName: doc.String("full_name"),
		Fields:   doc,
	}
	if p.FullName != "" {
		p.Repository = githubURL + p.FullName
	}
	if _, ok := doc["tags"]; ok {
		p.HasTags = true
		p.Tags = ix.ResolveAll(doc.Strings("tags"))
	}
	p.Slug = Slug(p.Name)
	p.PackageName = doc.String("npm")
	return p
}

// TagCodes returns the codes of the resolved tags.
func (p *Project) TagCodes() []string {
	out := make([]string, len(p.Tags))
	for i, t := range p.Tags {
		out[i] = t.Code
	}
	return out
}

// MarshalJSON encodes the raw fields merged with the derived ones.
func (p *Project) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(p.Fields)+4)
	maps.Copy(m, p.Fields)
	if p.Repository != "" {
		m["repository"] = p.Repository
	}
	if p.HasTags {
		m["tags"] = p.Tags
	}
	m["slug"] = p.Slug
	if p.PackageName != "" {
		m["packageName"] = p.PackageName
	}
	return json.Marshal(m)
}
