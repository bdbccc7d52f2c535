package dataset

import (
	"time"

	"github.com/matzehuels/bestofjs/pkg/query"
	"github.com/matzehuels/bestofjs/pkg/source"
)

// Snapshot is an immutable, indexed copy of the dataset.
type Snapshot struct {
	// Projects are the raw project documents in collection order.
	Projects []query.Document
	// Tags indexes the tags and their counters.
	Tags *TagIndex
	// Source is where the data came from.
	Source string
	// BuiltAt is when the snapshot was built.
	BuiltAt time.Time
	// Collisions lists slugs shared by more than one project. The last
	// project with a given slug wins the lookup.
	Collisions []string

	bySlug map[string]int
}

// NewSnapshot indexes raw. raw must not be modified afterwards.
func NewSnapshot(raw *source.RawData, src string) *Snapshot {
	s := &Snapshot{
		Projects: raw.Projects,
		Tags:     BuildTagIndex(raw.Tags, raw.Projects),
		Source:   src,
		BuiltAt:  time.Now(),
		bySlug:   make(map[string]int, len(raw.Projects)),
	}
	reported := make(map[string]bool)
	for i, doc := range raw.Projects {
		slug := Slug(doc.String("name"))
		if _, dup := s.bySlug[slug]; dup && !reported[slug] {
			reported[slug] = true
			s.Collisions = append(s.Collisions, slug)
		}
		s.bySlug[slug] = i
	}
	return s
}

// ProjectBySlug returns the raw document of the project with the given
// slug.
func (s *Snapshot) ProjectBySlug(slug string) (query.Document, bool) {
	i, ok := s.bySlug[slug]
	if !ok {
		return nil, false
	}
	return s.Projects[i], true
}

// Populate enriches a raw project document using the snapshot's tags.
func (s *Snapshot) Populate(doc query.Document) *Project {
	return s.Tags.Populate(doc)
}
