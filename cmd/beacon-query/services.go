// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/beacon-query/internal/beacon"
	"github.com/pdiddy/beacon-query/internal/ontomap"
)

var ontomapsCmd = &cobra.Command{
	Use:   "ontomaps [FIRST [SECOND]]",
	Short: "Browse mappings between NCIT and ICD-O codes",
	Long: `Ontomaps lists NCIT and ICD-O codes. With a first code it lists the
codes mapped to it and the matching code groups; a second code narrows
the groups further.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		b := ontomap.New(e.client)
		ctx := cmd.Context()

		var sel ontomap.Selection
		if len(args) > 0 {
			sel.SetFirst(args[0])
		}
		if len(args) > 1 {
			sel.SetSecond(args[1])
		}

		if sel.First == "" {
			opts, err := b.FirstOptions(ctx)
			if err != nil {
				return err
			}
			for _, o := range opts {
				fmt.Println(o.Label)
			}
			return nil
		}

		if sel.Second == "" {
			opts, err := b.SecondOptions(ctx, sel.First)
			if err != nil {
				return err
			}
			if len(opts) == 0 {
				fmt.Println("No groups found for the first selection.")
			} else {
				fmt.Println("Second selection options:")
				for _, o := range opts {
					fmt.Println("  " + o.Label)
				}
				fmt.Println()
			}
		}

		groups, err := b.Groups(ctx, sel.First, sel.Second)
		if err != nil {
			return err
		}
		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return printJSON(groups)
		}
		if len(groups.CodeGroups) == 0 {
			fmt.Println("No groups found.")
			return nil
		}
		fmt.Println("Matching code mappings:")
		for _, g := range groups.CodeGroups {
			cells := make([]string, len(g))
			for i, c := range g {
				cells[i] = c.ID + ": " + c.Label
			}
			fmt.Println("  " + strings.Join(cells, " | "))
		}
		fmt.Println("JSON:", groups.URL)
		return nil
	},
}

var histogramCmd = &cobra.Command{
	Use:   "histogram ID",
	Short: "Fetch the CNV histogram SVG of a subset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs := cmd.Flags()
		opts := beacon.SubsetHistogramOptions{ID: args[0]}
		opts.DatasetIDs, _ = fs.GetString("datasets")
		opts.Size, _ = fs.GetInt("width")
		opts.Filter, _ = fs.GetString("filter")
		opts.Scope, _ = fs.GetString("scope")
		opts.Chr2Plot, _ = fs.GetString("chr2plot")

		e, err := newEnv()
		if err != nil {
			return err
		}
		if showURL, _ := fs.GetBool("url"); showURL {
			fmt.Println(e.client.SubsetHistogramURL(opts))
			return nil
		}
		svg, err := e.client.SubsetHistogram(cmd.Context(), opts)
		if err != nil {
			return err
		}
		out, _ := fs.GetString("out")
		return writeSVG(out, svg)
	},
}

var cnvCmd = &cobra.Command{
	Use:   "cnv CALLSET_ID",
	Short: "Fetch the CNV profile SVG of one callset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs := cmd.Flags()
		datasets, _ := fs.GetString("datasets")
		width, _ := fs.GetInt("width")

		e, err := newEnv()
		if err != nil {
			return err
		}
		if showURL, _ := fs.GetBool("url"); showURL {
			fmt.Println(e.client.CNVHistogramURL(args[0], datasets, width))
			return nil
		}
		svg, err := e.client.CNVHistogram(cmd.Context(), args[0], datasets, width)
		if err != nil {
			return err
		}
		out, _ := fs.GetString("out")
		return writeSVG(out, svg)
	},
}

func writeSVG(path, svg string) error {
	if path == "" {
		fmt.Print(svg)
		return nil
	}
	if err := os.WriteFile(path, []byte(svg), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintln(os.Stderr, "Wrote", path)
	return nil
}

var geneSpansCmd = &cobra.Command{
	Use:   "genespans GENE",
	Short: "Look up gene coordinates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		raw, err := e.client.GeneSpans(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(raw)
	},
}

var cytomapperCmd = &cobra.Command{
	Use:   "cytomapper BANDS",
	Short: "Resolve cytobands to genomic coordinates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		raw, err := e.client.Cytomapper(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(raw)
	},
}

var collationsCmd = &cobra.Command{
	Use:   "collations",
	Short: "List subsets with their sample counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		fs := cmd.Flags()
		datasets, _ := fs.GetString("datasets")
		method, _ := fs.GetString("method")
		filters, _ := fs.GetString("filters")

		e, err := newEnv()
		if err != nil {
			return err
		}
		cols, err := e.client.Collations(cmd.Context(), datasets, method, filters)
		if err != nil {
			return err
		}
		if jsonOut, _ := fs.GetBool("json"); jsonOut {
			return printJSON(cols)
		}
		if cols == nil {
			fmt.Println("No collations returned.")
			return nil
		}
		fmt.Printf("%-24s  %-50s  %8s  %8s\n", "ID", "Label", "Count", "Matches")
		fmt.Println(strings.Repeat("-", 96))
		for _, c := range cols {
			fmt.Printf("%-24s  %-50s  %8d  %8d\n", truncate(c.ID, 24), truncate(c.Label, 50), c.Count, c.CodeMatches)
		}
		return nil
	},
}

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List the datasets served by the beacon",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		opts, err := e.client.Datasets(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return printJSON(opts)
		}
		for _, o := range opts {
			fmt.Printf("%-16s  %s\n", o.Value, o.Label)
		}
		return nil
	},
}

func init() {
	ontomapsCmd.Flags().Bool("json", false, "output the code groups as JSON")

	for _, c := range []*cobra.Command{histogramCmd, cnvCmd} {
		c.Flags().String("datasets", "progenetix", "dataset ids, comma-separated")
		c.Flags().Int("width", 800, "plot width in pixels")
		c.Flags().String("out", "", "write the SVG to a file instead of stdout")
		c.Flags().Bool("url", false, "print the plot URL only")
	}
	histogramCmd.Flags().String("filter", "", "additional filter")
	histogramCmd.Flags().String("scope", "", "collection scope")
	histogramCmd.Flags().String("chr2plot", "", "chromosomes to plot, comma-separated")

	collationsCmd.Flags().String("datasets", "progenetix", "dataset ids, comma-separated")
	collationsCmd.Flags().String("method", "counts", "collation method")
	collationsCmd.Flags().String("filters", "", "collation filters")
	collationsCmd.Flags().Bool("json", false, "output as JSON")

	datasetsCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(ontomapsCmd)
	rootCmd.AddCommand(histogramCmd)
	rootCmd.AddCommand(cnvCmd)
	rootCmd.AddCommand(geneSpansCmd)
	rootCmd.AddCommand(cytomapperCmd)
	rootCmd.AddCommand(collationsCmd)
	rootCmd.AddCommand(datasetsCmd)
}
