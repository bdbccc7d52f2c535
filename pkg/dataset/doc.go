// Package dataset turns the raw Best of JS document into a queryable
// snapshot.
//
// # Overview
//
// A [Snapshot] bundles everything the search layer needs:
//   - the project documents, in collection order
//   - a [TagIndex] with popularity counters
//   - a slug to project lookup
//
// Snapshots are immutable. A [Provider] builds one lazily on first use,
// shares a single in-flight build between concurrent callers, and returns
// the same snapshot for the rest of its lifetime:
//
//	p := dataset.NewProvider(source.NewClient(), dataset.WithLogger(logger))
//	defer p.Close()
//
//	snap, err := p.Get(ctx)
//	if errors.Is(err, errors.ErrCodeDataUnavailable) {
//	    // the remote document could not be fetched
//	}
//
// # Populating Projects
//
// Raw project documents are enriched by [TagIndex.Populate]:
//   - repository: "https://github.com/" + full_name, when full_name is set
//   - tags: tag codes resolved to [Tag] values, unknown codes dropped
//   - slug: [Slug] of the project name
//   - packageName: copy of npm, when set
//
// The input document is never modified.
package dataset
