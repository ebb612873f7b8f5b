// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/beacon-query/internal/archive"
	"github.com/pdiddy/beacon-query/internal/beacon"
	"github.com/pdiddy/beacon-query/internal/query"
	"github.com/pdiddy/beacon-query/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a biosample search against the beacon service",
	Long: `Search builds the beacon query string from the form flags and fetches the
matching biosamples. Positions are entered 1-based; the query shifts the
first bound of each range to 0-based.

Use --dry-run to print the request URL without sending it, --save to keep
the form and results in a YAML query file, and --archive to add the
results to the local archive.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	form, err := formFromFlags(cmd)
	if err != nil {
		return err
	}
	e, err := newEnv()
	if err != nil {
		return err
	}

	if dry, _ := cmd.Flags().GetBool("dry-run"); dry {
		u, err := e.client.BeaconQueryURL(form)
		if err != nil {
			return err
		}
		fmt.Println(u)
		return nil
	}

	resp, err := e.client.BeaconQuery(cmd.Context(), form)
	if err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("save"); path != "" {
		qf, err := beacon.NewQueryFile(form, resp)
		if err != nil {
			return err
		}
		if err := beacon.WriteQueryFile(path, qf); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved %d results to %s\n", qf.Summary.Total, path)
	}

	if toArchive, _ := cmd.Flags().GetBool("archive"); toArchive {
		store, err := archive.NewStore(e.cfg.Archive)
		if err != nil {
			return err
		}
		defer store.Close()
		sum, err := store.IngestResponse(cmd.Context(), resp)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Archived %d new, %d updated\n", sum.Inserted, sum.Updated)
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return printJSON(resp)
	}
	return printResultSets(resp)
}

func printResultSets(resp *types.BeaconResponse) error {
	for _, msg := range resp.Errors {
		fmt.Fprintln(os.Stderr, "error:", msg)
	}
	if len(resp.ResultSets) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	for _, rs := range resp.ResultSets {
		samples, err := rs.Biosamples()
		if err != nil {
			return fmt.Errorf("decoding result set %s: %w", rs.ID, err)
		}
		fmt.Printf("%s: %d results\n", rs.ID, rs.ResultsCount)
		fmt.Printf("  %-20s  %-40s  %s\n", "ID", "Description", "Codes")
		fmt.Println("  " + strings.Repeat("-", 90))
		for _, bs := range samples {
			codes := make([]string, len(bs.Biocharacteristics))
			for i, t := range bs.Biocharacteristics {
				codes[i] = t.ID
			}
			fmt.Printf("  %-20s  %-40s  %s\n",
				truncate(bs.ID, 20), truncate(bs.Description, 40), strings.Join(codes, ", "))
		}
	}
	return nil
}

// --- validate ---

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a search form and print its query string",
	Long: `Validate runs query building on the form flags without contacting any
service. It prints the query string, or the error that stops building.
Ranges with a lower bound above the upper bound are reported as warnings
since the services accept them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		form, err := formFromFlags(cmd)
		if err != nil {
			return err
		}
		qs, err := query.BuildQueryParameters(form)
		if err != nil {
			return err
		}
		for _, v := range []string{form.Start, form.End} {
			if werr := query.CheckIntegerRange(v); werr != nil {
				fmt.Fprintf(os.Stderr, "warning: %q: %v\n", v, werr)
			}
		}
		fmt.Println(qs)
		return nil
	},
}

// --- range ---

var rangeCmd = &cobra.Command{
	Use:   "range VALUE",
	Short: "Check a position range",
	Long: `Range checks a single position or a range such as 100-200 and prints
"ok" or the problem found.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := query.CheckIntegerRange(args[0]); err != nil {
			return err
		}
		fmt.Println("ok")
		return nil
	},
}

func init() {
	addFormFlags(searchCmd.Flags())
	searchCmd.Flags().Bool("dry-run", false, "print the request URL without sending it")
	searchCmd.Flags().String("save", "", "write the form and results to a YAML query file")
	searchCmd.Flags().Bool("archive", false, "add the results to the local archive")
	searchCmd.Flags().Bool("json", false, "output the raw response as JSON")

	addFormFlags(validateCmd.Flags())

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(rangeCmd)
}
