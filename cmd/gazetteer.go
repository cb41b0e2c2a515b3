package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var gazetteerFiles []string

var gazetteerCmd = &cobra.Command{
	Use:   "gazetteer",
	Short: "Gazetteer maintenance",
}

var gazetteerStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show entry counts for the merged gazetteer",
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := buildIndex(cfg.Gazetteer, gazetteerFiles)
		if err != nil {
			return err
		}

		counts := idx.CountryCounts()
		codes := make([]string, 0, len(counts))
		for cc := range counts {
			codes = append(codes, cc)
		}
		sort.Strings(codes)

		fmt.Printf("%d entries\n", idx.Len())
		for _, cc := range codes {
			fmt.Printf("  %s  %d\n", cc, counts[cc])
		}
		return nil
	},
}

func init() {
	gazetteerStatsCmd.Flags().StringSliceVar(&gazetteerFiles, "files", nil, "GeoNames dump files to merge, in order")
	gazetteerCmd.AddCommand(gazetteerStatsCmd)
	rootCmd.AddCommand(gazetteerCmd)
}
