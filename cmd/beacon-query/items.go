// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/beacon-query/internal/beacon"
	"github.com/pdiddy/beacon-query/pkg/types"
)

var sampleCmd = &cobra.Command{
	Use:   "sample ID",
	Short: "Show the details of one biosample",
	Long: `Sample fetches one biosample record with its diagnoses, clinical
annotations, provenance and external references.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		datasets, _ := cmd.Flags().GetString("datasets")
		e, err := newEnv()
		if err != nil {
			return err
		}
		bs, err := e.client.Biosample(cmd.Context(), args[0], datasets)
		if err != nil {
			return err
		}
		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return printJSON(bs)
		}
		printBiosample(bs)
		return nil
	},
}

func printBiosample(bs *types.Biosample) {
	fmt.Printf("%s\n", bs.ID)
	if bs.Description != "" {
		fmt.Printf("  Description:  %s\n", bs.Description)
	}
	for _, t := range bs.Biocharacteristics {
		fmt.Printf("  Diagnosis:    %s %s\n", t.ID, t.Label)
	}
	if bs.AgeAtCollection != nil && bs.AgeAtCollection.Age != "" {
		fmt.Printf("  Age:          %s\n", bs.AgeAtCollection.Age)
	}
	if info := bs.Info; info != nil {
		if info.TNM != "" {
			fmt.Printf("  TNM:          %s\n", info.TNM)
		}
		if info.Death != "" {
			fmt.Printf("  Death:        %s\n", info.Death)
		}
		if info.FollowupMonths > 0 {
			fmt.Printf("  Follow-up:    %g months\n", info.FollowupMonths)
		}
		if len(info.CallsetIDs) > 0 {
			fmt.Printf("  Callsets:     %s\n", strings.Join(info.CallsetIDs, ", "))
		}
	}
	if p := bs.Provenance; p != nil {
		if p.Material != nil {
			fmt.Printf("  Material:     %s %s\n", p.Material.ID, p.Material.Label)
		}
		if p.GeoLocation != nil && p.GeoLocation.Properties.Label != "" {
			fmt.Printf("  Origin:       %s\n", p.GeoLocation.Properties.Label)
		}
	}
	if bs.DataUseConditions != nil {
		fmt.Printf("  Data use:     %s %s\n", bs.DataUseConditions.ID, bs.DataUseConditions.Label)
	}
	for _, ref := range bs.ExternalReferences {
		link := beacon.ReferenceLink(ref)
		if link == "" {
			fmt.Printf("  Reference:    %s\n", ref.ID)
			continue
		}
		fmt.Printf("  Reference:    %s  %s\n", ref.ID, link)
	}
}

var individualCmd = &cobra.Command{
	Use:   "individual ID",
	Short: "Show the details of one individual",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		datasets, _ := cmd.Flags().GetString("datasets")
		e, err := newEnv()
		if err != nil {
			return err
		}
		ind, err := e.client.Individual(cmd.Context(), args[0], datasets)
		if err != nil {
			return err
		}
		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return printJSON(ind)
		}
		fmt.Printf("%s\n", ind.ID)
		if ind.Description != "" {
			fmt.Printf("  Description:  %s\n", ind.Description)
		}
		for _, c := range ind.Biocharacteristics {
			fmt.Printf("  %-12s  %s\n", c.Type.ID, c.Type.Label)
		}
		return nil
	},
}

// --- publications ---

var publicationCmd = &cobra.Command{
	Use:   "publication ID",
	Short: "Show a publication and optionally search its samples",
	Long: `Publication looks up a publication by id (e.g. PMID:28966033). With
--samples it runs a biosample search restricted to the publication over
every dataset holding its samples.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		pubs, err := e.client.Publication(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(pubs) == 0 {
			return fmt.Errorf("publication %s: %w", args[0], beacon.ErrNotFound)
		}
		pub := pubs[0]

		withSamples, _ := cmd.Flags().GetBool("samples")
		jsonOut, _ := cmd.Flags().GetBool("json")
		if !withSamples {
			if jsonOut {
				return printJSON(pub)
			}
			printPublication(pub)
			return nil
		}

		form, ok := beacon.PublicationSamplesForm(pub)
		if !ok {
			fmt.Fprintln(os.Stderr, "No samples recorded for", pub.ID)
			return nil
		}
		resp, err := e.client.BeaconQuery(cmd.Context(), form)
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(resp)
		}
		printPublication(pub)
		fmt.Println()
		return printResultSets(resp)
	},
}

func printPublication(pub types.Publication) {
	fmt.Printf("%s\n", pub.ID)
	fmt.Printf("  Title:    %s\n", pub.Title)
	if pub.Authors != "" {
		fmt.Printf("  Authors:  %s\n", pub.Authors)
	}
	if pub.Journal != "" {
		fmt.Printf("  Journal:  %s\n", pub.Journal)
	}
	if label := pub.Provenance.GeoLocation.Properties.Label; label != "" {
		fmt.Printf("  Origin:   %s\n", label)
	}
	for _, ds := range beacon.PublicationDatasets {
		if n := pub.Counts[ds]; n > 0 {
			fmt.Printf("  %-8s  %d samples\n", ds+":", n)
		}
	}
	if link := beacon.ReferenceLink(types.Term{ID: pub.ID}); link != "" {
		fmt.Printf("  Link:     %s\n", link)
	}
}

var publicationsCmd = &cobra.Command{
	Use:   "publications",
	Short: "List publications with genome screens",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		pubs, err := e.client.PublicationList(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return printJSON(pubs)
		}
		fmt.Printf("%-16s  %-60s  %s\n", "ID", "Title", "Genomes")
		fmt.Println(strings.Repeat("-", 90))
		for _, p := range pubs {
			fmt.Printf("%-16s  %-60s  %d\n", p.ID, truncate(p.Title, 60), p.Counts["genomes"])
		}
		fmt.Printf("\n%d publications\n", len(pubs))
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{sampleCmd, individualCmd} {
		c.Flags().String("datasets", "progenetix", "dataset ids, comma-separated")
		c.Flags().Bool("json", false, "output as JSON")
	}
	publicationCmd.Flags().Bool("samples", false, "search the samples of the publication")
	publicationCmd.Flags().Bool("json", false, "output as JSON")
	publicationsCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(individualCmd)
	rootCmd.AddCommand(publicationCmd)
	rootCmd.AddCommand(publicationsCmd)
}
