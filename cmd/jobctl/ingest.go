package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/honeycarbs/startsmart/internal/app"
	"github.com/honeycarbs/startsmart/internal/config"
	"github.com/honeycarbs/startsmart/internal/ingest"
)

func (c *cli) ingestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Run one ingestion cycle and store new postings",
		Long: "Run the given --query values (text[@country[/location]]) through every provider once. " +
			"Without --query the INGEST_QUERIES configuration is used.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, _ := cmd.Flags().GetStringSlice("query")
			skills, _ := cmd.Flags().GetStringSlice("skills")
			queries := parseQueries(raw, skills)

			return c.withCore(cmd, func(ctx context.Context, core *app.Core) error {
				var (
					report ingest.Report
					err    error
				)
				if len(queries) > 0 {
					report, err = core.Scheduler.Ingest(ctx, queries...)
				} else {
					report, err = core.Scheduler.RunOnce(ctx)
				}
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]int{
					"fetched":  report.Fetched,
					"inserted": report.Inserted,
					"failed":   report.Failed,
				})
			})
		},
	}

	cmd.Flags().StringSliceP("query", "q", nil, "search to ingest, as text[@country[/location]]; repeatable")
	cmd.Flags().StringSliceP("skills", "s", nil, "skills added to every query")
	return cmd
}

func parseQueries(raw, skills []string) []ingest.Query {
	parsed := config.ParseIngestQueries(strings.Join(raw, ","))
	out := make([]ingest.Query, 0, len(parsed))
	for _, q := range parsed {
		out = append(out, ingest.Query{Text: q.Text, Country: q.Country, Location: q.Location, Skills: skills})
	}
	return out
}
