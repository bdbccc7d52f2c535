package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/bestofjs/pkg/errors"
	"github.com/matzehuels/bestofjs/pkg/query"
	"github.com/matzehuels/bestofjs/pkg/search"
)

// tagsOpts holds the flags of the tags command.
type tagsOpts struct {
	criteria     string
	sort         string
	skip         int
	limit        int
	popular      bool
	withProjects bool
	json         bool
}

// tagsCommand creates the tag listing command.
func (c *CLI) tagsCommand() *cobra.Command {
	var opts tagsOpts

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List tags",
		Long: `List tags in catalog order, or by popularity with --popular.

Each tag shows how many projects carry it. With --with-projects (implied by
--popular) the five most starred projects of every tag are listed too.`,
		Example: `  bestofjs tags --popular -n 10
  bestofjs tags --criteria '{"code": {"$in": ["react", "vue"]}}' --with-projects`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTags(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.criteria, "criteria", "", "filter document as JSON")
	flags.StringVar(&opts.sort, "sort", "", `sort document as JSON, e.g. '{"counter": -1}'`)
	flags.IntVar(&opts.skip, "skip", 0, "number of tags to skip")
	flags.IntVarP(&opts.limit, "limit", "n", 0, "maximum number of tags (0 for all)")
	flags.BoolVar(&opts.popular, "popular", false, "most used tags first")
	flags.BoolVar(&opts.withProjects, "with-projects", false, "attach the top projects of each tag")
	flags.BoolVar(&opts.json, "json", false, "print the result as JSON")

	return cmd
}

// query assembles the flags into a query.
func (o tagsOpts) query() (query.Query, error) {
	q := query.Query{Skip: o.skip, Limit: o.limit}
	if o.criteria != "" {
		expr, err := query.ParseCriteriaJSON([]byte(o.criteria))
		if err != nil {
			return q, err
		}
		q.Criteria = expr
	}
	if o.sort != "" {
		sort, err := query.ParseSortJSON([]byte(o.sort))
		if err != nil {
			return q, err
		}
		q.Sort = sort
	}
	if o.popular {
		if o.sort != "" {
			return q, errors.New(errors.ErrCodeInvalidInput, "--popular and --sort cannot be combined")
		}
		q.Sort = query.Sort{{Field: "counter", Desc: true}}
	}
	return q, errors.ValidatePage(q.Skip, q.Limit)
}

func (c *CLI) runTags(cmd *cobra.Command, opts tagsOpts) error {
	q, err := opts.query()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	sess, err := c.openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	if _, err := sess.load(ctx); err != nil {
		return err
	}

	var res *search.TagResult
	if opts.withProjects || opts.popular {
		res, err = sess.search.FindTagsWithProjects(ctx, q)
	} else {
		res, err = sess.search.FindTags(ctx, q)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.json {
		return printJSON(out, res)
	}
	if len(res.Tags) == 0 {
		printInfo(out, "No tags found")
		return nil
	}
	printTags(out, res.Tags)
	printTotal(out, len(res.Tags), res.Total, "tags")
	return nil
}
