package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bestofjs/pkg/dataset"
	"github.com/matzehuels/bestofjs/pkg/errors"
)

// projectCommand creates the command showing one project by slug.
func (c *CLI) projectCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "project <slug>",
		Short:   "Show one project",
		Example: "  bestofjs project react",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := strings.ToLower(args[0])
			if err := errors.ValidateSlug(slug); err != nil {
				return err
			}

			ctx := cmd.Context()
			p, err := c.findProject(ctx, slug)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, p)
			}
			printProjectDetail(out, p)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func (c *CLI) findProject(ctx context.Context, slug string) (*dataset.Project, error) {
	sess, err := c.openSession(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	if _, err := sess.load(ctx); err != nil {
		return nil, err
	}
	p, err := sess.search.GetProjectBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "no project with slug %q", slug)
	}
	return p, nil
}
