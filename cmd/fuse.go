package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/laraDundar/pvo-limburg/internal/fusion"
	"github.com/laraDundar/pvo-limburg/internal/labelmodel"
	"github.com/laraDundar/pvo-limburg/internal/store"
)

var (
	fuseArticles   string
	fuseGazetteers []string
	fuseLexicon    string
	fuseOut        string
	fuseStore      bool
	fuseFilter     bool
)

var fuseCmd = &cobra.Command{
	Use:   "fuse",
	Short: "Run the fusion pass over a batch of articles",
	Long:  "Resolves each article's country from its candidate place names, fits the label model over the labeling-function votes, and emits one fusion result per article.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		articles, err := loadArticles(fuseArticles)
		if err != nil {
			return err
		}
		if len(articles) == 0 {
			return eris.Errorf("no articles in %s", fuseArticles)
		}

		idx, err := buildIndex(cfg.Gazetteer, fuseGazetteers)
		if err != nil {
			return err
		}

		lexicon := fuseLexicon
		if lexicon == "" {
			lexicon = cfg.Fusion.LexiconPath
		}
		funcs, err := buildFuncs(lexicon)
		if err != nil {
			return err
		}

		p := &fusion.Pipeline{
			Index:        idx,
			Targets:      cfg.Gazetteer.Countries,
			GeoThreshold: cfg.Fusion.GeoThreshold,
			SMEThreshold: cfg.Fusion.SMEThreshold,
			Funcs:        funcs,
			ModelOpts: labelmodel.Options{
				Epochs:       cfg.Model.Epochs,
				Tol:          cfg.Model.Tol,
				Seed:         cfg.Model.Seed,
				InitAccuracy: cfg.Model.InitAccuracy,
				ClipEps:      cfg.Model.ClipEps,
			},
			Parallelism: cfg.Fusion.Parallelism,
		}

		results, lm, err := p.Run(ctx, articles)
		if err != nil {
			return err
		}

		for i, fn := range funcs {
			zap.L().Debug("labeling function fitted",
				zap.String("func", fn.Name()),
				zap.Float64("coverage", lm.Coverage()[i]),
				zap.Float64("accuracy", lm.Accuracies()[i]),
			)
		}

		if fuseFilter {
			results, err = fusion.FilterByCountry(results, cfg.Gazetteer.Countries, cfg.Fusion.GeoThreshold)
			if err != nil {
				return err
			}
		}

		if fuseStore {
			st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Migrate(ctx); err != nil {
				return err
			}
			if err := st.SaveResults(ctx, results); err != nil {
				return err
			}
			zap.L().Info("results stored",
				zap.String("driver", cfg.Store.Driver),
				zap.Int("count", len(results)),
			)
		}

		out := os.Stdout
		if fuseOut != "" {
			f, err := os.Create(fuseOut)
			if err != nil {
				return eris.Wrapf(err, "create output %s", fuseOut)
			}
			defer f.Close()
			out = f
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(results), "encode results")
	},
}

func init() {
	fuseCmd.Flags().StringVar(&fuseArticles, "articles", "nos_articles.json", "JSON file of preprocessed articles")
	fuseCmd.Flags().StringSliceVar(&fuseGazetteers, "gazetteer", nil, "GeoNames dump files to merge, in order (last wins on collisions)")
	fuseCmd.Flags().StringVar(&fuseLexicon, "lexicon", "", "YAML lexicon of extra labeling functions")
	fuseCmd.Flags().StringVar(&fuseOut, "out", "", "output file (default stdout)")
	fuseCmd.Flags().BoolVar(&fuseStore, "store", false, "persist results to the configured store")
	fuseCmd.Flags().BoolVar(&fuseFilter, "filter", false, "drop results not confidently in a target country")
	rootCmd.AddCommand(fuseCmd)
}
