// Package search answers structured queries against the dataset snapshot.
//
// [Client] is the entry point used by the HTTP API and the CLI. Every
// operation fetches the snapshot from a [SnapshotProvider] (normally a
// [dataset.Provider]), evaluates a [query.Query] with the query engine and
// populates the resulting projects:
//
//	c := search.NewClient(provider)
//	res, err := c.FindProjects(ctx, query.Query{
//	    Criteria: query.AllOf{Field: "tags", Values: query.Strings("react")},
//	    Sort:     query.Sort{{Field: "stars", Desc: true}},
//	    Limit:    10,
//	})
//
// When the criteria require a set of tags with "$all", the result also
// carries the selected tags and the relevant tags: the other tags that
// co-occur most often in the matched projects, see [RankRelevantTags].
//
// Lookups of unknown slugs or criteria with no match return nil without an
// error.
package search
