package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/BarkinBalci/event-dataset-generator/internal/dto"
)

func newVersionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List dataset versions of a sink, newest first",
		Long: `List the lineage records a sink holds, newest first.

Examples:
  generator versions --sink sqlite
  generator versions --sink clickhouse --limit 5 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			sink, _ := cmd.Flags().GetString("sink")
			limit, _ := cmd.Flags().GetInt("limit")

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			resp, err := a.service.ListVersions(cmd.Context(), &dto.ListVersionsRequest{Sink: sink, Limit: limit})
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(resp)
			}

			if len(resp.Versions) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No dataset versions in %s\n", resp.Sink)
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tCREATED\tTYPE\tRANGE\tUSERS\tEVENTS")
			for _, v := range resp.Versions {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s..%s\t%d\t%d\n",
					v.VersionID, v.CreatedAt.Format(time.RFC3339), v.GeneratorType,
					v.StartDate, v.EndDate, v.NUsers, v.NEvents)
			}
			return w.Flush()
		},
	}

	cmd.Flags().String("sink", "", "Sink to read (defaults to the first profile sink)")
	cmd.Flags().Int("limit", 20, "Maximum number of versions")

	return cmd
}
