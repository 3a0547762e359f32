package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/honeycarbs/startsmart/internal/app"
	"github.com/honeycarbs/startsmart/internal/domain"
)

func (c *cli) searchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "Search the local store and job boards",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := domain.SearchQuery{
				Country: c.v.GetString("country"),
				Skills:  c.v.GetStringSlice("skills"),
			}
			if len(args) == 1 {
				q.Text = args[0]
			}
			q.Location, _ = cmd.Flags().GetString("location")
			q.Page, _ = cmd.Flags().GetInt("page")

			return c.withCore(cmd, func(ctx context.Context, core *app.Core) error {
				postings, err := core.Jobs.Search(ctx, q)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), postings)
			})
		},
	}

	cmd.Flags().StringP("country", "c", "", "country name or code (default from config, then fr)")
	cmd.Flags().StringP("location", "l", "", "location substring")
	cmd.Flags().StringSliceP("skills", "s", nil, "skills used for filtering and scoring")
	cmd.Flags().IntP("page", "p", 1, "provider page")

	_ = c.v.BindPFlag("country", cmd.Flags().Lookup("country"))
	_ = c.v.BindPFlag("skills", cmd.Flags().Lookup("skills"))

	return cmd
}

func (c *cli) lookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <id>",
		Short: "Show one local posting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			skills, _ := cmd.Flags().GetStringSlice("skills")
			return c.withCore(cmd, func(ctx context.Context, core *app.Core) error {
				p, err := core.Jobs.Lookup(ctx, args[0], skills)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), p)
			})
		},
	}
	cmd.Flags().StringSliceP("skills", "s", nil, "skills used for scoring")
	return cmd
}

func (c *cli) recommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank local postings by skill match",
		RunE: func(cmd *cobra.Command, _ []string) error {
			skills, _ := cmd.Flags().GetStringSlice("skills")
			return c.withCore(cmd, func(ctx context.Context, core *app.Core) error {
				postings, err := core.Jobs.Recommend(ctx, skills)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), postings)
			})
		},
	}
	cmd.Flags().StringSliceP("skills", "s", nil, "skills to rank against")
	_ = cmd.MarkFlagRequired("skills")
	return cmd
}
