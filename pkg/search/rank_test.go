package search

import (
	"reflect"
	"testing"

	"github.com/matzehuels/bestofjs/pkg/query"
)

func TestRankRelevantTags(t *testing.T) {
	tests := []struct {
		name     string
		projects []query.Document
		excluded []string
		want     []TagCount
	}{
		{
			name: "ties keep encounter order",
			projects: []query.Document{
				{"tags": []any{"a", "b"}},
				{"tags": []any{"a", "c"}},
				{"tags": []any{"a"}},
			},
			excluded: []string{"a"},
			want:     []TagCount{{"b", 1}, {"c", 1}},
		},
		{
			name: "descending count",
			projects: []query.Document{
				{"tags": []any{"x", "y"}},
				{"tags": []any{"y", "z"}},
				{"tags": []any{"z", "y"}},
			},
			want: []TagCount{{"y", 3}, {"z", 2}, {"x", 1}},
		},
		{
			name: "projects without tags",
			projects: []query.Document{
				{"name": "bare"},
				{"tags": []any{"solo"}},
			},
			want: []TagCount{{"solo", 1}},
		},
		{
			name:     "empty",
			projects: nil,
			want:     nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RankRelevantTags(tt.projects, tt.excluded)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RankRelevantTags() = %v, want %v", got, tt.want)
			}
		})
	}
}
