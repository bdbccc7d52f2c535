package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bestofjs/pkg/errors"
	"github.com/matzehuels/bestofjs/pkg/query"
)

// projectsOpts holds the flags of the projects command.
type projectsOpts struct {
	tags        []string
	excludeTags []string
	criteria    string
	sort        string
	fields      []string
	skip        int
	limit       int
	scope       string
	json        bool
}

// projectsCommand creates the projects search command.
func (c *CLI) projectsCommand() *cobra.Command {
	opts := projectsOpts{sort: `{"stars": -1}`, limit: 20}

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Search projects",
		Long: `Search projects by tag and arbitrary criteria.

Tag flags are combined with --criteria, which accepts a Mongo-style filter
document such as '{"stars": {"$gt": 10000}}'. When --tag is given, the tags
most often found next to the selected ones are listed as related tags.`,
		Example: `  bestofjs projects --tag react --limit 10
  bestofjs projects --criteria '{"stars": {"$gte": 50000}}' --sort '{"trends.weekly": -1}'
  bestofjs projects --tag vue --fields name,stars --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := opts.query()
			if err != nil {
				return err
			}
			return c.runProjects(cmd, q, opts.json)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVarP(&opts.tags, "tag", "t", nil, "require all of these tags (repeatable)")
	flags.StringSliceVar(&opts.excludeTags, "exclude-tag", nil, "leave out projects with any of these tags")
	flags.StringVar(&opts.criteria, "criteria", "", "filter document as JSON")
	flags.StringVar(&opts.sort, "sort", opts.sort, "sort document as JSON, 1 ascending and -1 descending")
	flags.StringSliceVar(&opts.fields, "fields", nil, "only return these fields")
	flags.IntVar(&opts.skip, "skip", 0, "number of matches to skip")
	flags.IntVarP(&opts.limit, "limit", "n", opts.limit, "maximum number of projects (0 for all)")
	flags.StringVar(&opts.scope, "scope", string(query.ScopePage), "related tags ranked over the returned page or all matches (page|all)")
	flags.BoolVar(&opts.json, "json", false, "print the result as JSON")

	return cmd
}

// query assembles the flags into a query.
func (o projectsOpts) query() (query.Query, error) {
	q := query.Query{Skip: o.skip, Limit: o.limit}

	var clauses query.And
	if o.criteria != "" {
		expr, err := query.ParseCriteriaJSON([]byte(o.criteria))
		if err != nil {
			return q, err
		}
		if expr != nil {
			clauses = append(clauses, expr)
		}
	}
	if len(o.tags) > 0 {
		clauses = append(clauses, query.AllOf{Field: "tags", Values: query.Strings(o.tags...)})
	}
	if len(o.excludeTags) > 0 {
		clauses = append(clauses, query.NotIn{Field: "tags", Values: query.Strings(o.excludeTags...)})
	}
	switch len(clauses) {
	case 0:
	case 1:
		q.Criteria = clauses[0]
	default:
		q.Criteria = clauses
	}

	sort, err := query.ParseSortJSON([]byte(o.sort))
	if err != nil {
		return q, err
	}
	q.Sort = sort

	if len(o.fields) > 0 {
		q.Projection = query.Projection{Fields: o.fields}
	}

	scope, err := query.ParseScope(o.scope)
	if err != nil {
		return q, err
	}
	q.RelevanceScope = scope

	if err := errors.ValidatePage(q.Skip, q.Limit); err != nil {
		return q, err
	}
	return q, nil
}

func (c *CLI) runProjects(cmd *cobra.Command, q query.Query, asJSON bool) error {
	ctx := cmd.Context()
	sess, err := c.openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	if _, err := sess.load(ctx); err != nil {
		return err
	}
	res, err := sess.search.FindProjects(ctx, q)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return printJSON(out, res)
	}
	if len(res.SelectedTags) > 0 {
		printKeyValue(out, "Tags", renderTagCodes(res.SelectedTags))
		if len(res.RelevantTags) > 0 {
			printKeyValue(out, "Related", renderTagCodes(res.RelevantTags))
		}
		fmt.Fprintln(out)
	}
	if len(res.Projects) == 0 {
		printInfo(out, "No projects found")
		return nil
	}
	printProjects(out, res.Projects)
	printTotal(out, len(res.Projects), res.Total, "projects")
	return nil
}
