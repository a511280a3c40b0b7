package mapping

import (
	"sort"
	"strings"

	"github.com/andparsons/composer-project-files-installer/pkg/types"
)

// prefixVariants are prepended to every rule prefix so "js" and "./js"
// translate identically
var prefixVariants = []string{"", "./"}

// TranslationRule replaces a destination prefix with another
type TranslationRule struct {
	Prefix      string `koanf:"prefix" json:"prefix"`
	Replacement string `koanf:"replacement" json:"replacement"`
}

// Translator rewrites mapping destinations
type Translator struct {
	rules  []TranslationRule
	suffix string
}

// NewTranslator expands every rule into its prefix variants, keeping table
// order with the variants of one rule adjacent
func NewTranslator(rules []TranslationRule, suffix string) *Translator {
	expanded := make([]TranslationRule, 0, len(rules)*len(prefixVariants))
	for _, rule := range rules {
		for _, variant := range prefixVariants {
			expanded = append(expanded, TranslationRule{
				Prefix:      variant + rule.Prefix,
				Replacement: rule.Replacement,
			})
		}
	}
	return &Translator{rules: expanded, suffix: suffix}
}

// Rules returns the expanded rule table
func (t *Translator) Rules() []TranslationRule {
	return t.rules
}

// Translate returns a translated copy of mappings. The input is not modified.
func (t *Translator) Translate(mappings []types.Mapping) []types.Mapping {
	out := make([]types.Mapping, len(mappings))
	for i, m := range mappings {
		out[i] = types.Mapping{Source: m.Source, Dest: t.TranslateDest(m.Dest)}
	}
	return out
}

// TranslateDest applies the first matching rule to dest, then the suffix
func (t *Translator) TranslateDest(dest string) string {
	for _, rule := range t.rules {
		if strings.HasPrefix(dest, rule.Prefix) {
			dest = rule.Replacement + dest[len(rule.Prefix):]
			break
		}
	}
	return joinSuffix(t.suffix, dest)
}

// joinSuffix prepends the suffix. A single "/" is inserted only when the
// suffix is a bare directory name and dest is relative.
func joinSuffix(suffix, dest string) string {
	if suffix == "" || dest == "" {
		return suffix + dest
	}
	if strings.HasSuffix(suffix, "/") || strings.HasPrefix(dest, "/") {
		return suffix + dest
	}
	return suffix + "/" + dest
}

// RulesFromMap builds an ordered rule table from an unordered configuration
// map: longest prefix first, ties broken lexicographically.
func RulesFromMap(table map[string]string) []TranslationRule {
	rules := make([]TranslationRule, 0, len(table))
	for prefix, replacement := range table {
		rules = append(rules, TranslationRule{Prefix: prefix, Replacement: replacement})
	}
	sort.SliceStable(rules, func(i, j int) bool {
		if len(rules[i].Prefix) != len(rules[j].Prefix) {
			return len(rules[i].Prefix) > len(rules[j].Prefix)
		}
		return rules[i].Prefix < rules[j].Prefix
	})
	return rules
}
