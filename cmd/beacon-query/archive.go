// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/beacon-query/internal/archive"
	"github.com/pdiddy/beacon-query/internal/beacon"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Manage the local biosample archive (store, retrieve, export)",
	Long: `Archive manages a local SQLite database of biosamples returned by
searches. Use search --archive to add results directly, or archive store
to add the results of saved query files.`,
}

// --- store subcommand ---

var archiveStoreCmd = &cobra.Command{
	Use:   "store QUERYFILE...",
	Short: "Add the results of saved query files to the archive",
	Long: `Store reads query files written by search --save and archives their
biosamples. Samples are filed under --dataset, or under the single dataset
of the saved search when it has exactly one.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dataset, _ := cmd.Flags().GetString("dataset")
		store, err := openArchive()
		if err != nil {
			return err
		}
		defer store.Close()

		var failed int
		for _, path := range args {
			qf, err := beacon.ReadQueryFile(path)
			if err != nil {
				fmt.Fprintf(os.Stdout, "failed  %s: %v\n", path, err)
				failed++
				continue
			}
			ds := dataset
			if ds == "" && len(qf.Summary.ResultSets) == 1 {
				ds = qf.Summary.ResultSets[0].ID
			}
			sum, err := store.Ingest(cmd.Context(), ds, qf.Results)
			if err != nil {
				fmt.Fprintf(os.Stdout, "failed  %s: %v\n", path, err)
				failed++
				continue
			}
			fmt.Fprintf(os.Stdout, "stored  %s (%d new, %d updated)\n", path, sum.Inserted, sum.Updated)
		}
		if failed > 0 {
			return fmt.Errorf("%d file(s) failed", failed)
		}
		return nil
	},
}

// --- retrieve subcommand ---

var archiveRetrieveCmd = &cobra.Command{
	Use:   "retrieve [text]",
	Short: "Query the archive by dataset, code and text",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := archiveOptsFromFlags(cmd, args)
		if opts.IsEmpty() {
			return fmt.Errorf("query or filter required: provide text, --dataset, or --code")
		}
		store, err := openArchive()
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.Retrieve(cmd.Context(), opts)
		if err != nil {
			return err
		}
		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return printJSON(records)
		}
		if len(records) == 0 {
			fmt.Println("No results found.")
			return nil
		}
		fmt.Printf("%-12s  %-20s  %-50s\n", "Dataset", "ID", "Description")
		fmt.Println(strings.Repeat("-", 86))
		for _, r := range records {
			fmt.Printf("%-12s  %-20s  %-50s\n", truncate(r.DatasetID, 12), truncate(r.ID, 20), truncate(r.Description, 50))
		}
		fmt.Printf("\n%d results\n", len(records))
		return nil
	},
}

// --- export subcommand ---

var archiveExportCmd = &cobra.Command{
	Use:   "export [text]",
	Short: "Export the archive to YAML or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		store, err := openArchive()
		if err != nil {
			return err
		}
		defer store.Close()

		opts := archiveOptsFromFlags(cmd, args)
		var path string
		switch format {
		case "yaml", "":
			path, err = store.ExportYAML(cmd.Context(), opts)
		case "json":
			path, err = store.ExportJSON(cmd.Context(), opts)
		default:
			return fmt.Errorf("unsupported format %q: use yaml or json", format)
		}
		if err != nil {
			return err
		}
		fmt.Println("Exported to", path)
		return nil
	},
}

// --- shared helpers ---

func openArchive() (*archive.Store, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	return archive.NewStore(cfg.Archive)
}

func archiveOptsFromFlags(cmd *cobra.Command, args []string) archive.QueryOptions {
	dataset, _ := cmd.Flags().GetString("dataset")
	codes, _ := cmd.Flags().GetStringSlice("code")
	limit, _ := cmd.Flags().GetInt("limit")
	return archive.QueryOptions{
		Text:       strings.Join(args, " "),
		DatasetID:  dataset,
		Codes:      codes,
		MaxResults: limit,
	}
}

func init() {
	archiveCmd.PersistentFlags().String("archive-dir", "", "directory of the archive database")
	viper.BindPFlag("archive.dir", archiveCmd.PersistentFlags().Lookup("archive-dir"))

	archiveStoreCmd.Flags().String("dataset", "", "dataset id to file the samples under")

	for _, c := range []*cobra.Command{archiveRetrieveCmd, archiveExportCmd} {
		c.Flags().String("dataset", "", "filter by dataset id")
		c.Flags().StringSlice("code", nil, "filter by ontology code (repeatable, AND)")
	}
	archiveRetrieveCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	archiveRetrieveCmd.Flags().Bool("json", false, "output results as JSON")
	archiveExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	archiveCmd.AddCommand(archiveStoreCmd)
	archiveCmd.AddCommand(archiveRetrieveCmd)
	archiveCmd.AddCommand(archiveExportCmd)

	rootCmd.AddCommand(archiveCmd)
}
