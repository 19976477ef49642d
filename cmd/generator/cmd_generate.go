package main

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BarkinBalci/event-dataset-generator/internal/dto"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run one generation synchronously",
		Long: `Run one generation in the foreground. Flags override the profile;
the live tables are replaced only when every sink succeeded.

Examples:
  generator generate --days 30 --sinks sqlite
  generator generate --start 2025-01-01 --end 2025-06-30 --seed 7 --sinks clickhouse,postgres`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			req, err := generationRequest(cmd)
			if err != nil {
				return err
			}

			p, err := a.service.BuildProfile(req)
			if err != nil {
				return err
			}

			started := time.Now()
			lastStep := -1
			summary, err := a.service.Generate(cmd.Context(), p, func(progress float64) {
				// log every tenth of the run
				if step := int(progress / 10); step > lastStep {
					lastStep = step
					a.log.Info("Generation progress", zap.Float64("progress", progress))
				}
			})
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(summary)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Generated %d days (%s to %s) in %s\n", summary.Days,
				summary.StartDate.Format(time.DateOnly), summary.EndDate.Format(time.DateOnly),
				time.Since(started).Round(time.Millisecond))
			fmt.Fprintf(out, "  users: %d  sessions: %d  events: %d  purchases: %d\n",
				summary.Users, summary.Sessions, summary.Events, summary.Purchases)
			for _, sink := range slices.Sorted(maps.Keys(summary.Versions)) {
				fmt.Fprintf(out, "  %s: version %d\n", sink, summary.Versions[sink])
			}
			return nil
		},
	}

	cmd.Flags().StringSlice("sinks", nil, "Sinks to write (clickhouse, postgres, mysql, sqlite, memory)")
	cmd.Flags().Int64("seed", 0, "Random seed for a reproducible dataset")
	cmd.Flags().String("start", "", "First date (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "Last date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().Int("days", 0, "Number of days ending at --end")
	cmd.Flags().Int("max-users", -1, "Population cap (0 means unlimited)")
	cmd.Flags().Int("batch-threshold", 0, "Rows buffered per flush")

	return cmd
}

// generationRequest turns the set flags into profile overrides
func generationRequest(cmd *cobra.Command) (*dto.CreateGenerationRequest, error) {
	flags := cmd.Flags()
	req := &dto.CreateGenerationRequest{}

	req.Sinks, _ = flags.GetStringSlice("sinks")
	req.StartDate, _ = flags.GetString("start")
	req.EndDate, _ = flags.GetString("end")
	req.Days, _ = flags.GetInt("days")
	req.BatchThreshold, _ = flags.GetInt("batch-threshold")

	if flags.Changed("seed") {
		seed, _ := flags.GetInt64("seed")
		req.Seed = &seed
	}
	if flags.Changed("max-users") {
		maxUsers, _ := flags.GetInt("max-users")
		req.MaxUsers = &maxUsers
	}
	if req.Days < 0 {
		return nil, fmt.Errorf("--days must be positive")
	}

	return req, nil
}
