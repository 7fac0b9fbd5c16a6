package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"player-analytics/internal/app"
	"player-analytics/internal/dashboards"

	"github.com/jonboulle/clockwork"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type ReportCmd struct{}

func NewReportCmd() *ReportCmd {
	return &ReportCmd{}
}

func (c *ReportCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build one report from the configured store and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, err := cmd.Flags().GetBool("json")
			if err != nil {
				return fmt.Errorf("failed to get json flag: %w", err)
			}
			strategy, err := cmd.Flags().GetString("strategy")
			if err != nil {
				return fmt.Errorf("failed to get strategy flag: %w", err)
			}

			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if strategy != "" {
				cfg.Dashboard.Strategy = strategy
			}

			ctx := logger.WithContext(cmd.Context())
			reader, err := app.NewSnapshotReader(ctx, cfg)
			if err != nil {
				return err
			}
			resolver, err := app.NewGeoResolver(cfg)
			if err != nil {
				return err
			}
			defer resolver.Close()

			service, err := app.NewDashboardService(cfg, reader, resolver, clockwork.NewRealClock())
			if err != nil {
				return err
			}
			report, err := service.Build(ctx)
			if err != nil {
				return fmt.Errorf("failed to build report: %w", err)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "print the report as JSON")
	cmd.Flags().String("strategy", "", "override dashboard.strategy (full_scan, indexed, sampled)")

	return cmd
}

func printReport(w io.Writer, r *dashboards.Report) {
	fmt.Fprintln(w, "Report:", r.ID)
	fmt.Fprintln(w, "Generated:", r.GeneratedAt.Format(dashboards.TimestampLayout), "UTC")
	fmt.Fprintf(w, "Strategy: %s (stats over %s)\n", r.Strategy, r.Scope)
	for _, warning := range r.Warnings {
		fmt.Fprintln(w, "WARNING:", warning)
	}
	fmt.Fprintln(w)

	overview := newTable(w, []string{"Metric", "Value"})
	overview.Append([]string{"Players", strconv.Itoa(r.Totals.Players)})
	overview.Append([]string{"Tracking records", strconv.Itoa(r.Totals.Tracking)})
	overview.Append([]string{"IPv4 / IPv6 / invalid", fmt.Sprintf("%d / %d / %d", r.IPVersions.V4, r.IPVersions.V6, r.IPVersions.Invalid)})
	overview.Append([]string{"Geo " + r.Geo.Target + " / other / unknown", fmt.Sprintf("%d / %d / %d", r.Geo.InTarget, r.Geo.Other, r.Geo.Unknown)})
	for _, s := range r.Sources {
		overview.Append([]string{"Source " + s.Name, strconv.Itoa(s.Count)})
	}
	if s := r.Wins.Summary; s != nil {
		overview.Append([]string{"Wins mean / max", fmt.Sprintf("%.2f / %.2f (%s)", s.Mean, s.Max, s.ArgmaxKey)})
	} else {
		overview.Append([]string{"Wins", r.Wins.Unavailable})
	}
	overview.Append([]string{"Impressions", formatEstimate(r.Impressions.Value, r.Impressions.Approximate)})
	overview.Append([]string{"Ad revenue", formatEstimate(r.Revenue.Value, r.Revenue.Approximate)})
	overview.Render()
	if r.Revenue.Caveat != "" {
		fmt.Fprintln(w, "*", r.Revenue.Caveat)
	}

	printTable(w, "Latest players", r.LatestPlayers)
	printTable(w, "Latest conversions", r.LatestConversions)
	printTable(w, "Players sharing an IP", r.SharedIPPlayers)
	printTable(w, "Players matched to tracking by IP", r.PlayersByIP)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tracking browsers")
	browsers := newTable(w, []string{"Browser", "Records"})
	for _, b := range r.TrackingBrowsers {
		browsers.Append([]string{b.Name, strconv.Itoa(b.Count)})
	}
	browsers.Render()
}

func printTable(w io.Writer, title string, t dashboards.Table) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, title)
	table := newTable(w, t.Columns)
	for _, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			cells[i] = row.Get(col).String()
		}
		table.Append(cells)
	}
	table.Render()
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(true)
	table.SetHeader(header)
	return table
}

func formatEstimate(v float64, approximate bool) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if approximate {
		s += " (estimated)"
	}
	return s
}
