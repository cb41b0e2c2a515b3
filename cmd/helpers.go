package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/laraDundar/pvo-limburg/internal/config"
	"github.com/laraDundar/pvo-limburg/internal/gazetteer"
	"github.com/laraDundar/pvo-limburg/internal/labeling"
	"github.com/laraDundar/pvo-limburg/internal/model"
)

// loadArticles reads the preprocessing stage's output: a JSON array of
// articles with candidate locations already extracted.
func loadArticles(path string) ([]model.Article, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open articles %s", path)
	}
	defer f.Close()

	var articles []model.Article
	if err := json.NewDecoder(f).Decode(&articles); err != nil {
		return nil, eris.Wrapf(err, "decode articles %s", path)
	}
	return articles, nil
}

// buildIndex loads and merges the configured GeoNames tables, in file order.
func buildIndex(gzCfg config.GazetteerConfig, files []string) (*gazetteer.Index, error) {
	if len(files) == 0 {
		files = gzCfg.Files
	}
	if len(files) == 0 {
		return nil, eris.New("no gazetteer files configured")
	}

	opts := gazetteer.Options{
		KeepCountries:  gzCfg.Countries,
		KeepClasses:    gzCfg.FeatureClasses,
		KeepAlternates: gzCfg.KeepAlternates,
	}

	tables := make([][]gazetteer.Entry, 0, len(files))
	for _, path := range files {
		entries, err := gazetteer.LoadFile(path, opts)
		if err != nil {
			return nil, err
		}
		tables = append(tables, entries)
	}

	idx := gazetteer.Build(tables...)
	zap.L().Info("gazetteer built",
		zap.Int("files", len(files)),
		zap.Int("entries", idx.Len()),
	)
	return idx, nil
}

// buildFuncs returns the built-in labeling functions, extended with lexicon
// definitions when a lexicon path is configured.
func buildFuncs(lexiconPath string) ([]labeling.Func, error) {
	funcs := labeling.Builtin()
	if lexiconPath == "" {
		return funcs, nil
	}

	f, err := os.Open(lexiconPath)
	if err != nil {
		return nil, eris.Wrapf(err, "open lexicon %s", lexiconPath)
	}
	defer f.Close()

	extra, err := labeling.LoadLexicon(f)
	if err != nil {
		return nil, err
	}
	return append(funcs, extra...), nil
}
