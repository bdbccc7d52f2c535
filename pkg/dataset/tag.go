package dataset

import (
	"encoding/json"
	"maps"

	"github.com/matzehuels/bestofjs/pkg/query"
)

// Tag is a raw tag plus derived fields.
type Tag struct {
	Code        string
	Name        string
	Description string
	Aliases     []string

	// Counter is the number of distinct projects referencing Code.
	Counter int

	// Projects holds representative projects. It is only set on tags
	// returned by tag searches that ask for them.
	Projects []*Project

	// Fields is the raw tag document.
	Fields query.Document
}

// Clone returns a shallow copy with its own Projects slice.
func (t *Tag) Clone() *Tag {
	c := *t
	c.Projects = nil
	return &c
}

// MarshalJSON encodes the raw fields merged with counter and projects.
// A zero counter is omitted.
func (t *Tag) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(t.Fields)+2)
	maps.Copy(m, t.Fields)
	delete(m, "counter")
	if t.Counter > 0 {
		m["counter"] = t.Counter
	}
	if t.Projects != nil {
		m["projects"] = t.Projects
	}
	return json.Marshal(m)
}

// TagIndex maps tag codes to tags and keeps the raw tag order.
type TagIndex struct {
	byCode map[string]*Tag
	order  []*Tag
	docs   []query.Document
}

// BuildTagIndex indexes tags and counts, for every tag, the distinct
// projects referencing it. When a code is defined twice the last
// definition wins and the first position is kept. Codes referenced by
// projects but missing from tags are ignored.
func BuildTagIndex(tags, projects []query.Document) *TagIndex {
	ix := &TagIndex{byCode: make(map[string]*Tag, len(tags))}
	for _, doc := range tags {
		code := doc.String("code")
		t := newTag(doc)
		if prev, ok := ix.byCode[code]; ok {
			*prev = *t
			continue
		}
		ix.byCode[code] = t
		ix.order = append(ix.order, t)
	}

	for _, p := range projects {
		seen := make(map[string]bool)
		for _, code := range p.Strings("tags") {
			if seen[code] {
				continue
			}
			seen[code] = true
			if t, ok := ix.byCode[code]; ok {
				t.Counter++
			}
		}
	}

	ix.docs = make([]query.Document, len(ix.order))
	for i, t := range ix.order {
		doc := maps.Clone(t.Fields)
		if doc == nil {
			doc = query.Document{}
		}
		delete(doc, "counter")
		if t.Counter > 0 {
			doc["counter"] = float64(t.Counter)
		}
		ix.docs[i] = doc
	}
	return ix
}

func newTag(doc query.Document) *Tag {
	return &Tag{
		Code:        doc.String("code"),
		Name:        doc.String("name"),
		Description: doc.String("description"),
		Aliases:     doc.Strings("aliases"),
		Fields:      doc,
	}
}

// Resolve returns the tag for code.
func (ix *TagIndex) Resolve(code string) (*Tag, bool) {
	t, ok := ix.byCode[code]
	return t, ok
}

// ResolveAll resolves codes in order, dropping unknown ones. The result
// is never nil.
func (ix *TagIndex) ResolveAll(codes []string) []*Tag {
	out := make([]*Tag, 0, len(codes))
	for _, code := range codes {
		if t, ok := ix.byCode[code]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Tags returns all tags in raw order.
func (ix *TagIndex) Tags() []*Tag { return ix.order }

// Documents returns the tag documents with their counters, parallel to
// [TagIndex.Tags]. They are the collection tag queries run against.
func (ix *TagIndex) Documents() []query.Document { return ix.docs }

// Len returns the number of tags.
func (ix *TagIndex) Len() int { return len(ix.order) }
