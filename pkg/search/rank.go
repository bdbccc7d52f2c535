package search

import (
	"slices"

	"github.com/matzehuels/bestofjs/pkg/query"
)

// TagCount is a tag code and the number of times it was seen.
type TagCount struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
}

// RankRelevantTags counts every tag code referenced by projects, skipping
// excluded codes, and returns the codes by descending count. Codes with
// equal counts keep the order in which they were first seen.
func RankRelevantTags(projects []query.Document, excluded []string) []TagCount {
	skip := make(map[string]bool, len(excluded))
	for _, code := range excluded {
		skip[code] = true
	}

	pos := make(map[string]int)
	var counts []TagCount
	for _, p := range projects {
		for _, code := range p.Strings("tags") {
			if skip[code] {
				continue
			}
			if i, ok := pos[code]; ok {
				counts[i].Count++
				continue
			}
			pos[code] = len(counts)
			counts = append(counts, TagCount{Code: code, Count: 1})
		}
	}

	slices.SortStableFunc(counts, func(a, b TagCount) int {
		return b.Count - a.Count
	})
	return counts
}
