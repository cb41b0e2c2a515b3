package labeling

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLexicon(t *testing.T) {
	doc := `
- name: energy_coops
  label: sme
  any:
    - '\benergiecoöperatie(s)?\b'
    - '\bburgerinitiatief\b'
- name: weather
  label: not_sme
  any:
    - '\b(storm|hittegolf)\b'
`
	funcs, err := LoadLexicon(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, funcs, 2)

	assert.Equal(t, "energy_coops", funcs[0].Name())
	assert.Equal(t, SME, funcs[0].Evaluate("De energiecoöperatie breidt uit"))
	assert.Equal(t, SME, funcs[0].Evaluate("een burgerinitiatief in Weert"))
	assert.Equal(t, Abstain, funcs[0].Evaluate("geen relevant nieuws"))

	assert.Equal(t, NotSME, funcs[1].Evaluate("storm trekt over Limburg"))
	assert.Equal(t, Abstain, funcs[1].Evaluate("rustig weer"))
}

func TestLoadLexicon_Errors(t *testing.T) {
	cases := map[string]string{
		"missing name":  "- label: sme\n  any: ['x']\n",
		"unknown label": "- name: f\n  label: maybe\n  any: ['x']\n",
		"no patterns":   "- name: f\n  label: sme\n",
		"bad pattern":   "- name: f\n  label: sme\n  any: ['[']\n",
		"not yaml":      "{{{",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadLexicon(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}
