package search

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/bestofjs/pkg/dataset"
	"github.com/matzehuels/bestofjs/pkg/observability"
	"github.com/matzehuels/bestofjs/pkg/query"
)

const (
	// DefaultConcurrency bounds the nested queries of FindTagsWithProjects.
	DefaultConcurrency = 8

	// DefaultHotLimit is the number of projects HotProjects returns when
	// no limit is given.
	DefaultHotLimit = 5

	// tagProjectsLimit is the number of projects attached to each tag.
	tagProjectsLimit = 5
)

// tagProjectsProjection keeps the fields needed to render a project badge.
var tagProjectsProjection = query.Projection{Fields: []string{"name", "owner_id", "icon"}}

// hotExcludedTags are left out of the hot projects list.
var hotExcludedTags = []string{"meta", "learning"}

// SnapshotProvider supplies the dataset snapshot.
type SnapshotProvider interface {
	Get(ctx context.Context) (*dataset.Snapshot, error)
}

// ProjectResult is the outcome of a project search.
type ProjectResult struct {
	Projects []*dataset.Project `json:"projects"`
	// SelectedTags are the tags the criteria require with $all.
	SelectedTags []*dataset.Tag `json:"selectedTags"`
	// RelevantTags are other tags ranked by co-occurrence, see
	// RankRelevantTags. Empty unless SelectedTags is set.
	RelevantTags []*dataset.Tag `json:"relevantTags"`
	// Total counts all matches before skip and limit.
	Total int `json:"total"`
}

// TagResult is the outcome of a tag search.
type TagResult struct {
	Tags  []*dataset.Tag `json:"tags"`
	Total int            `json:"total"`
}

// Client runs searches against the dataset.
type Client struct {
	provider    SnapshotProvider
	logger      *log.Logger
	concurrency int
}

// Option configures a [Client].
type Option func(*Client)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithConcurrency bounds the nested queries run in parallel by
// FindTagsWithProjects.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// NewClient creates a Client over p.
func NewClient(p SnapshotProvider, opts ...Option) *Client {
	c := &Client{
		provider:    p,
		logger:      log.NewWithOptions(io.Discard, log.Options{}),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FindProjects runs q against the projects. The projection is applied
// before populating, so derived fields reflect only the projected fields.
// Relevant tags are ranked over the returned page unless q.RelevanceScope
// is [query.ScopeAllMatches].
func (c *Client) FindProjects(ctx context.Context, q query.Query) (*ProjectResult, error) {
	snap, err := c.provider.Get(ctx)
	if err != nil {
		return nil, err
	}
	return c.findProjects(ctx, snap, q)
}

func (c *Client) findProjects(ctx context.Context, snap *dataset.Snapshot, q query.Query) (*ProjectResult, error) {
	start := time.Now()
	res, err := query.Find(snap.Projects, q)
	observability.Query().OnQuery(ctx, "projects", res.Total, len(res.Indices), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	out := &ProjectResult{
		Projects:     make([]*dataset.Project, 0, len(res.Indices)),
		SelectedTags: []*dataset.Tag{},
		RelevantTags: []*dataset.Tag{},
		Total:        res.Total,
	}
	for _, i := range res.Indices {
		out.Projects = append(out.Projects, snap.Populate(q.Projection.Apply(snap.Projects[i])))
	}

	if values, ok := query.AllValues(q.Criteria, "tags"); ok && len(values) > 0 {
		codes := stringValues(values)
		out.SelectedTags = snap.Tags.ResolveAll(codes)

		scope := res.Indices
		if q.RelevanceScope == query.ScopeAllMatches {
			scope = res.Matches
		}
		docs := make([]query.Document, len(scope))
		for j, i := range scope {
			docs[j] = snap.Projects[i]
		}
		for _, tc := range RankRelevantTags(docs, codes) {
			if t, ok := snap.Tags.Resolve(tc.Code); ok {
				out.RelevantTags = append(out.RelevantTags, t)
			}
		}
	}

	c.logger.Debug("find projects", "total", out.Total, "returned", len(out.Projects), "duration", time.Since(start))
	return out, nil
}

// FindTags runs q against the tags. Tag documents carry their counter, so
// {"counter": -1} sorts by popularity. Projection is ignored.
func (c *Client) FindTags(ctx context.Context, q query.Query) (*TagResult, error) {
	snap, err := c.provider.Get(ctx)
	if err != nil {
		return nil, err
	}
	return c.findTags(ctx, snap, q)
}

func (c *Client) findTags(ctx context.Context, snap *dataset.Snapshot, q query.Query) (*TagResult, error) {
	start := time.Now()
	res, err := query.Find(snap.Tags.Documents(), q)
	observability.Query().OnQuery(ctx, "tags", res.Total, len(res.Indices), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	all := snap.Tags.Tags()
	out := &TagResult{Tags: make([]*dataset.Tag, 0, len(res.Indices)), Total: res.Total}
	for _, i := range res.Indices {
		out.Tags = append(out.Tags, all[i])
	}
	return out, nil
}

// FindTagsWithProjects runs q against the tags and attaches to each tag its
// five most starred projects. The nested queries run concurrently; the
// returned tags are copies in page order, the shared index is untouched.
func (c *Client) FindTagsWithProjects(ctx context.Context, q query.Query) (*TagResult, error) {
	snap, err := c.provider.Get(ctx)
	if err != nil {
		return nil, err
	}
	res, err := c.findTags(ctx, snap, q)
	if err != nil {
		return nil, err
	}

	tags := make([]*dataset.Tag, len(res.Tags))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, tag := range res.Tags {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pr, err := c.findProjects(gctx, snap, query.Query{
				Criteria:   query.In{Field: "tags", Values: query.Strings(tag.Code)},
				Sort:       query.Sort{{Field: "stars", Desc: true}},
				Limit:      tagProjectsLimit,
				Projection: tagProjectsProjection,
			})
			if err != nil {
				return err
			}
			clone := tag.Clone()
			clone.Projects = pr.Projects
			tags[i] = clone
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &TagResult{Tags: tags, Total: res.Total}, nil
}

// PopularTags returns the limit most used tags with their projects.
func (c *Client) PopularTags(ctx context.Context, limit int) (*TagResult, error) {
	return c.FindTagsWithProjects(ctx, query.Query{
		Sort:  query.Sort{{Field: "counter", Desc: true}},
		Limit: limit,
	})
}

// FindOne returns the first project matching criteria in collection order,
// or nil when nothing matches.
func (c *Client) FindOne(ctx context.Context, criteria query.Expr) (*dataset.Project, error) {
	snap, err := c.provider.Get(ctx)
	if err != nil {
		return nil, err
	}
	res, err := query.Find(snap.Projects, query.Query{Criteria: criteria, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(res.Indices) == 0 {
		return nil, nil
	}
	return snap.Populate(snap.Projects[res.Indices[0]]), nil
}

// GetProjectBySlug returns the project with the given slug, or nil when
// the slug is unknown.
func (c *Client) GetProjectBySlug(ctx context.Context, slug string) (*dataset.Project, error) {
	snap, err := c.provider.Get(ctx)
	if err != nil {
		return nil, err
	}
	doc, ok := snap.ProjectBySlug(slug)
	if !ok {
		return nil, nil
	}
	return snap.Populate(doc), nil
}

// HotProjects returns the projects with the best daily trend, leaving out
// meta and learning resources. limit <= 0 uses [DefaultHotLimit].
func (c *Client) HotProjects(ctx context.Context, limit int) ([]*dataset.Project, error) {
	if limit <= 0 {
		limit = DefaultHotLimit
	}
	res, err := c.FindProjects(ctx, query.Query{
		Criteria: query.NotIn{Field: "tags", Values: query.Strings(hotExcludedTags...)},
		Sort:     query.Sort{{Field: "trends.daily", Desc: true}},
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}
	return res.Projects, nil
}

func stringValues(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
