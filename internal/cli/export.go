package cli

import (
	"fmt"

	"player-analytics/internal/app"
	"player-analytics/internal/records"
	"player-analytics/internal/stores"

	"github.com/spf13/cobra"
)

type ExportCmd struct{}

func NewExportCmd() *ExportCmd {
	return &ExportCmd{}
}

func (c *ExportCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Copy the dashboard collections from the configured store into a file store directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cmd.Flags().GetString("out")
			if err != nil {
				return fmt.Errorf("failed to get out flag: %w", err)
			}
			overwrite, err := cmd.Flags().GetBool("overwrite")
			if err != nil {
				return fmt.Errorf("failed to get overwrite flag: %w", err)
			}

			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx := logger.WithContext(cmd.Context())

			reader, err := app.NewSnapshotReader(ctx, cfg)
			if err != nil {
				return err
			}
			target, err := app.NewFileStore(out)
			if err != nil {
				return err
			}

			collections := cfg.Dashboard.Collections
			for _, name := range []string{collections.Players, collections.Tracking, collections.Conversions} {
				if !overwrite {
					exists, err := target.HasExport(ctx, name)
					if err != nil {
						return err
					}
					if exists {
						fmt.Fprintf(cmd.OutOrStdout(), "skipped %s: export exists, pass --overwrite to replace it\n", name)
						continue
					}
				}

				var snap records.Snapshot
				if name == collections.Conversions {
					snap, err = stores.GetNestedSnapshot(ctx, reader, name, cfg.Store.FetchPoolSize)
				} else {
					snap, err = reader.GetSnapshot(ctx, name)
				}
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", name, err)
				}
				if err := target.ExportSnapshot(ctx, name, snap, overwrite); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %s: %d keys\n", name, snap.Len())
			}
			return nil
		},
	}

	cmd.Flags().StringP("out", "o", "./data", "target directory")
	cmd.Flags().Bool("overwrite", false, "replace existing exports")

	return cmd
}
