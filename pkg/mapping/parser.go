package mapping

import (
	"github.com/andparsons/composer-project-files-installer/pkg/errors"
	"github.com/andparsons/composer-project-files-installer/pkg/logging"
	"github.com/andparsons/composer-project-files-installer/pkg/types"
)

// Parser produces the final mappings of one package
type Parser struct {
	translator *Translator
}

// NewParser creates a parser for the given rules and destination suffix
func NewParser(rules []TranslationRule, suffix string) *Parser {
	return &Parser{translator: NewTranslator(rules, suffix)}
}

// Parse validates the raw declared list and translates it. Every element
// must be a [source, destination] pair.
func (p *Parser) Parse(raw [][]string) ([]types.Mapping, error) {
	logger := logging.GetLogger("mapping")

	mappings := make([]types.Mapping, 0, len(raw))
	for i, pair := range raw {
		if len(pair) != 2 {
			return nil, errors.Newf(errors.ErrInvalidMapping,
				"mapping %d must have exactly 2 elements, got %d", i, len(pair)).
				WithDetail("index", i).
				WithDetail("mapping", pair)
		}
		mappings = append(mappings, types.Mapping{Source: pair[0], Dest: pair[1]})
	}

	translated := p.translator.Translate(mappings)
	for i := range translated {
		logger.Trace().
			Str("source", translated[i].Source).
			Str("declared", mappings[i].Dest).
			Str("dest", translated[i].Dest).
			Msg("Translated mapping")
	}
	return translated, nil
}

// Parse is a convenience wrapper around NewParser(rules, suffix).Parse(raw)
func Parse(raw [][]string, rules []TranslationRule, suffix string) ([]types.Mapping, error) {
	return NewParser(rules, suffix).Parse(raw)
}

// ToRaw converts mappings back into the declared pair form
func ToRaw(mappings []types.Mapping) [][]string {
	raw := make([][]string, len(mappings))
	for i, m := range mappings {
		raw[i] = []string{m.Source, m.Dest}
	}
	return raw
}
