package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/honeycarbs/startsmart/internal/app"
	"github.com/honeycarbs/startsmart/internal/domain"
)

func (c *cli) publishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a posting into the local store",
		Long:  "Publish a posting from flags, or from a JSON file with --file (fields as in POST /api/jobs).",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := postingFromFlags(cmd)
			if err != nil {
				return err
			}
			return c.withCore(cmd, func(ctx context.Context, core *app.Core) error {
				id, err := core.Jobs.Publish(ctx, p)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]string{"id": id})
			})
		},
	}

	f := cmd.Flags()
	f.String("file", "", "JSON file with the posting")
	f.String("title", "", "job title")
	f.String("company", "", "company name")
	f.String("description", "", "job description")
	f.String("country", "", "country code")
	f.String("location", "", "location text")
	f.String("city", "", "city")
	f.String("remote", "", "remote, onsite or hybrid")
	f.String("url", "", "application url")
	f.StringSlice("tags", nil, "skill tags")

	return cmd
}

func postingFromFlags(cmd *cobra.Command) (domain.NewPosting, error) {
	var p domain.NewPosting
	f := cmd.Flags()

	if path, _ := f.GetString("file"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return p, fmt.Errorf("reading %s: %w", path, err)
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return p, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	set := func(name string, dst *string) {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}
	set("title", &p.Title)
	set("company", &p.Company)
	set("description", &p.Description)
	set("country", &p.Country)
	set("location", &p.Location)
	set("city", &p.City)
	set("url", &p.RedirectURL)

	if f.Changed("remote") {
		raw, _ := f.GetString("remote")
		p.RemoteType = domain.ParseRemoteType(raw)
	}
	if f.Changed("tags") {
		p.Tags, _ = f.GetStringSlice("tags")
	}

	return p, nil
}
