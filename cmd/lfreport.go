package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/laraDundar/pvo-limburg/internal/labeling"
	"github.com/laraDundar/pvo-limburg/internal/textprep"
)

var (
	lfreportArticles string
	lfreportLexicon  string
)

var lfreportCmd = &cobra.Command{
	Use:   "lfreport",
	Short: "Show labeling-function coverage, overlap, and conflict over a batch",
	Long:  "Diagnostics for labeling-function quality. The report feeds nothing downstream; it exists to spot dead, redundant, or contradictory functions.",
	RunE: func(cmd *cobra.Command, args []string) error {
		articles, err := loadArticles(lfreportArticles)
		if err != nil {
			return err
		}
		if len(articles) == 0 {
			return eris.Errorf("no articles in %s", lfreportArticles)
		}

		funcs, err := buildFuncs(lfreportLexicon)
		if err != nil {
			return err
		}

		texts := make([]string, len(articles))
		for i, a := range articles {
			texts[i] = textprep.Clean(textprep.RawText(a))
		}

		matrix, err := labeling.Apply(cmd.Context(), texts, funcs, cfg.Fusion.Parallelism)
		if err != nil {
			return err
		}

		fmt.Printf("%-24s %8s %8s %8s %8s %8s\n", "function", "coverage", "sme", "not_sme", "overlap", "conflict")
		for _, s := range labeling.CoverageReport(matrix, funcs) {
			fmt.Printf("%-24s %8.2f %8.2f %8.2f %8.2f %8.2f\n",
				s.Name, s.Coverage, s.PositiveRate, s.NegativeRate, s.Overlap, s.Conflict)
		}
		return nil
	},
}

func init() {
	lfreportCmd.Flags().StringVar(&lfreportArticles, "articles", "nos_articles.json", "JSON file of preprocessed articles")
	lfreportCmd.Flags().StringVar(&lfreportLexicon, "lexicon", "", "YAML lexicon of extra labeling functions")
	rootCmd.AddCommand(lfreportCmd)
}
