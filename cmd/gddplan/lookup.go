package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/gdd-planner/internal/domain"
)

func newFrostCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "frost <location>",
		Short: "Show the average frost dates for a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.frost.LookupDetailed(cmd.Context(), args[0])
			w := cmd.OutOrStdout()

			fmt.Fprintf(w, "Key: %s\n", res.Key)
			fmt.Fprintf(w, "Result: %s\n", res.Reason)
			if res.Record == nil {
				return &exitError{code: 3, msg: fmt.Sprintf("no frost dates for %q (%s)", args[0], res.Reason)}
			}

			if place := res.Record.Place(); place != "" {
				fmt.Fprintf(w, "Place: %s\n", place)
			}
			fmt.Fprintf(w, "Average last spring frost: %s\n", domain.FormatMMDDLong(res.Record.LastFrost))
			fmt.Fprintf(w, "Average first fall frost: %s\n", domain.FormatMMDDLong(res.Record.FirstFrost))
			return nil
		},
	}
}

func newStationCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "station <location>",
		Short: "Show the GDD station serving a location and its series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.stations.LookupDetailed(cmd.Context(), args[0])
			w := cmd.OutOrStdout()

			fmt.Fprintf(w, "Key: %s\n", res.Key)
			fmt.Fprintf(w, "Result: %s\n", res.Reason)
			if res.StationID == "" {
				return &exitError{code: 3, msg: fmt.Sprintf("no GDD station for %q (%s)", args[0], res.Reason)}
			}
			fmt.Fprintf(w, "Station: %s\n", res.StationID)

			series := a.series.Load(cmd.Context(), res.StationID)
			if series == nil {
				return &exitError{code: 3, msg: fmt.Sprintf("series for station %s is missing or invalid", res.StationID)}
			}

			keys := make([]string, 0, len(series.Bases))
			for k := range series.Bases {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				cum := series.Bases[k]
				usable := "usable"
				if !cum.Usable() {
					usable = "too short"
				}
				total := 0.0
				if len(cum) > 0 {
					total = cum[len(cum)-1]
				}
				fmt.Fprintf(w, "Base %s°F: %d days, %.0f GDD by year-end (%s)\n", k, len(cum), total, usable)
			}
			return nil
		},
	}
}

func newCropsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "crops",
		Short: "List the crops that can be estimated",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			for _, c := range a.catalog.Crops() {
				fmt.Fprintf(w, "%s %-20s %-22s base %g°F, %g GDD\n",
					c.Icon(), c.SiteID, c.Name, c.BaseF, c.GDDRequired)
			}
			return nil
		},
	}
}
