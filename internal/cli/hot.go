package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bestofjs/pkg/search"
)

// hotCommand creates the command listing today's trending projects.
func (c *CLI) hotCommand() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "hot",
		Short: "Show the projects with the most stars added today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			defer sess.Close()

			if _, err := sess.load(ctx); err != nil {
				return err
			}
			projects, err := sess.search.HotProjects(ctx, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, projects)
			}
			printProjects(out, projects)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, fmt.Sprintf("number of projects (default %d)", search.DefaultHotLimit))
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}
