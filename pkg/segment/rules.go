// Package segment charge la table de règles score composite → segment et
// classifie les clients scorés. La table est fournie par l'analyste sous la
// forme "un segment → plusieurs scores composites" et doit être explosée en
// correspondance un-pour-un avant toute recherche.
package segment

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"rfm-segmenter/pkg/models"
)

// Unclassified est la sentinelle retournée quand aucune règle ne couvre un
// score composite. Le client reste dans la sortie, jamais supprimé.
const Unclassified = "Unclassified"

// Rule est une entrée de la table telle qu'écrite : un nom de segment et
// l'ensemble des scores composites qu'il revendique.
type Rule struct {
	Name   string   `mapstructure:"name"`
	Scores []string `mapstructure:"scores"`
}

// Table est la forme explosée, prête pour la recherche directe.
type Table struct {
	byComposite map[string]string
}

// Load lit la table de règles depuis un fichier YAML :
//
//	segments:
//	  - name: Champions
//	    scores: ["555", "554", "545"]
//
// bins borne les chiffres valides (scores 1..bins).
func Load(path string, bins int) (*Table, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read rules failed: %w", err)
	}

	var rules []Rule
	if err := v.UnmarshalKey("segments", &rules); err != nil {
		return nil, fmt.Errorf("unmarshal rules failed: %w", err)
	}

	return New(rules, bins)
}

// New explose la table en correspondance score → segment.
// Un score revendiqué par deux segments différents rejette toute la table
// (RuleConflictError) : le moteur ne choisit jamais arbitrairement.
func New(rules []Rule, bins int) (*Table, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("rule table: no segments defined")
	}

	byComposite := make(map[string]string)
	for _, rule := range rules {
		name := strings.TrimSpace(rule.Name)
		if name == "" {
			return nil, fmt.Errorf("rule table: segment with empty name")
		}
		for _, raw := range rule.Scores {
			// Le texte des scores vient d'un fichier édité à la main :
			// les espaces parasites sont normalisés avant correspondance.
			score := strings.TrimSpace(raw)
			if err := validComposite(score, bins); err != nil {
				return nil, fmt.Errorf("segment %q: %w", name, err)
			}
			if prev, ok := byComposite[score]; ok && prev != name {
				return nil, &models.RuleConflictError{Composite: score, First: prev, Second: name}
			}
			byComposite[score] = name
		}
	}

	return &Table{byComposite: byComposite}, nil
}

// Classify retourne le segment du score composite, ou la sentinelle
// Unclassified quand aucune règle ne correspond.
func (t *Table) Classify(composite string) string {
	if name, ok := t.byComposite[strings.TrimSpace(composite)]; ok {
		return name
	}
	return Unclassified
}

// Size retourne le nombre de scores composites couverts par la table.
func (t *Table) Size() int {
	return len(t.byComposite)
}

// validComposite vérifie qu'un score est exactement trois chiffres 1..bins.
func validComposite(score string, bins int) error {
	if len(score) != 3 {
		return fmt.Errorf("invalid composite score %q: want 3 digits", score)
	}
	for _, c := range score {
		if c < '1' || c > rune('0'+bins) {
			return fmt.Errorf("invalid composite score %q: digit out of range 1..%d", score, bins)
		}
	}
	return nil
}
