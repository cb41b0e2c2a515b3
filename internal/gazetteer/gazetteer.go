// Package gazetteer builds name→country-code lookup tables from GeoNames dump
// files. The tables back the geographic voting stage: an article's candidate
// place names are resolved here before votes are counted.
package gazetteer

import (
	"encoding/csv"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// GeoNames dump columns, by position. The format has no header row.
const (
	colName         = 1
	colAlternates   = 3
	colFeatureClass = 6
	colCountryCode  = 8

	minColumns = 9
)

var (
	// latinOnly admits names made of Latin letters (incl. diacritics),
	// digits, whitespace, hyphens, and apostrophes. Anything else is
	// abbreviation or foreign-script noise that causes false matches.
	latinOnly = regexp.MustCompile(`^[0-9A-Za-zÀ-ÿ\s\-']+$`)
	hasVowel  = regexp.MustCompile(`(?i)[aeiouyà-ÿ]`)
)

// Entry is one kept gazetteer row: a lowercased place name and the country it
// belongs to.
type Entry struct {
	Name    string
	Country string
}

// Options controls which GeoNames rows and names survive parsing.
type Options struct {
	// KeepCountries limits entries to these ISO country codes. Required.
	KeepCountries []string
	// KeepClasses limits entries to these GeoNames feature classes
	// (e.g. "P" populated places, "A" administrative areas). Required.
	KeepClasses []string
	// KeepAlternates includes the comma-separated alternate names column.
	KeepAlternates bool
}

// DefaultOptions matches the production configuration: populated places and
// administrative areas in the NL/BE/DE region, alternates included.
func DefaultOptions() Options {
	return Options{
		KeepCountries:  []string{"NL", "BE", "DE"},
		KeepClasses:    []string{"P", "A"},
		KeepAlternates: true,
	}
}

// ParseTSV reads a GeoNames tab-separated dump and returns the entries that
// pass the filtering rules. Malformed rows (too few columns, disallowed
// characters) are skipped, never reported as errors; only a failure of the
// underlying reader aborts the parse.
func ParseTSV(r io.Reader, opts Options) ([]Entry, error) {
	keepCC := toSet(opts.KeepCountries)
	keepFC := toSet(opts.KeepClasses)

	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var entries []Entry
	var skippedShort, skippedScope, skippedName int

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "gazetteer: read row")
		}

		if len(row) < minColumns {
			skippedShort++
			continue
		}
		if !keepCC[row[colCountryCode]] || !keepFC[row[colFeatureClass]] {
			skippedScope++
			continue
		}

		country := row[colCountryCode]

		main := strings.ToLower(strings.TrimSpace(row[colName]))
		if main != "" && latinOnly.MatchString(main) {
			entries = append(entries, Entry{Name: main, Country: country})
		} else {
			skippedName++
		}

		if !opts.KeepAlternates || row[colAlternates] == "" {
			continue
		}
		for _, alt := range strings.Split(row[colAlternates], ",") {
			alt = strings.ToLower(strings.TrimSpace(alt))
			if keepAlternate(alt) {
				entries = append(entries, Entry{Name: alt, Country: country})
			}
		}
	}

	zap.L().Debug("gazetteer: parsed table",
		zap.Int("kept", len(entries)),
		zap.Int("skipped_short_rows", skippedShort),
		zap.Int("skipped_out_of_scope", skippedScope),
		zap.Int("skipped_bad_names", skippedName),
	)

	return entries, nil
}

// keepAlternate applies the stricter alternate-name filter: minimum length 3,
// at least one vowel, allowed characters only. Short initialisms like "aa"
// or "nl" would otherwise poison the vote counts.
func keepAlternate(alt string) bool {
	if len([]rune(alt)) < 3 {
		return false
	}
	if !latinOnly.MatchString(alt) {
		return false
	}
	return hasVowel.MatchString(alt)
}

// LoadFile parses a GeoNames dump from disk.
func LoadFile(path string, opts Options) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "gazetteer: open %s", path)
	}
	defer func() { _ = f.Close() }()

	entries, err := ParseTSV(f, opts)
	if err != nil {
		return nil, eris.Wrapf(err, "gazetteer: parse %s", path)
	}
	return entries, nil
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
