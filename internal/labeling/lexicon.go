package labeling

import (
	"io"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// lexiconEntry is one function definition in a YAML lexicon file:
//
//	- name: energy_coops
//	  label: sme
//	  any:
//	    - '\benergiecoöperatie(s)?\b'
//	    - '\bburgerinitiatief\b'
//
// The function votes `label` when any pattern matches and abstains otherwise.
type lexiconEntry struct {
	Name  string   `yaml:"name"`
	Label string   `yaml:"label"`
	Any   []string `yaml:"any"`
}

// LoadLexicon reads labeling-function definitions from a YAML document so the
// function set can grow without code changes. Definitions with a missing
// name, an unknown label, no patterns, or an invalid pattern are configuration
// errors and fail the whole load.
func LoadLexicon(r io.Reader) ([]Func, error) {
	var entries []lexiconEntry
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil {
		return nil, eris.Wrap(err, "labeling: decode lexicon")
	}

	funcs := make([]Func, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			return nil, eris.New("labeling: lexicon entry missing name")
		}

		var vote Vote
		switch e.Label {
		case "sme":
			vote = SME
		case "not_sme":
			vote = NotSME
		default:
			return nil, eris.Errorf("labeling: lexicon entry %q: unknown label %q (want sme or not_sme)", e.Name, e.Label)
		}

		if len(e.Any) == 0 {
			return nil, eris.Errorf("labeling: lexicon entry %q has no patterns", e.Name)
		}
		pattern, err := regexp.Compile("(" + strings.Join(e.Any, ")|(") + ")")
		if err != nil {
			return nil, eris.Wrapf(err, "labeling: lexicon entry %q: compile patterns", e.Name)
		}

		funcs = append(funcs, &regexFunc{name: e.Name, pattern: pattern, vote: vote})
	}
	return funcs, nil
}
