package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/powperpay/reportctl/internal"
	"github.com/powperpay/reportctl/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportDir    string
	exportID     string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a report to file",
	Long: `Export a report to various formats (csv, json, yaml).

Without --report the current report is exported. The output filename is
derived from the report title. CSV exports carry the full result set;
reports without tabular data export a summary sheet instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := internal.OpenStateDB(cfg.StatePath())
		if err != nil {
			return fmt.Errorf("failed to open state database: %w", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				internal.LogWarn("Failed to close state database: %v", err)
			}
		}()

		store := internal.NewReportStore(internal.NewClient(cfg))
		state, err := db.LoadStoreState()
		if err != nil {
			internal.LogWarn("Failed to load saved state: %v", err)
		} else if state != nil {
			store.Restore(state)
		}

		report := store.Current()
		if exportID != "" {
			report = store.FindByID(exportID)
			if report == nil {
				return fmt.Errorf("report not found: %s (use 'reportctl chat' to generate one)", exportID)
			}
		}
		if report == nil {
			internal.PrintWarning("No report data available to export. Generate a report first.")
			return nil
		}

		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(exportDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		filename := export.Filename(report, exporter.Extension())
		path := filepath.Join(exportDir, filename)

		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create file %s: %w", path, err)
		}
		if err := exporter.Export(report, file); err != nil {
			_ = file.Close()
			return &internal.ExportError{Format: exportFormat, Path: path, Err: err}
		}
		if err := file.Close(); err != nil {
			return fmt.Errorf("failed to close file %s: %w", path, err)
		}

		internal.PrintSuccess(fmt.Sprintf("Export complete: %s", path))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "Export format (csv, json, yaml)")
	exportCmd.Flags().StringVarP(&exportDir, "out", "o", ".", "Output directory")
	exportCmd.Flags().StringVar(&exportID, "report", "", "Export a specific report by ID")
}
