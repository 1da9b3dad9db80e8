package models

import "fmt"

/*
ERRORS → erreurs fatales du pipeline. Les conditions non fatales
(compteurs de rejet, bins effondrés, Unclassified) passent par RunReport.
*/

// DataFormatError : champ non typable dans le flux brut (date ou prix
// illisible). Fatal pour tout le lot : un type malformé signale un problème
// d'ingestion en amont, pas une violation de règle métier.
type DataFormatError struct {
	Source string // "csv", "mysql"
	Row    int    // ligne de données (1-indexée, hors en-tête)
	Field  string
	Err    error
}

func (e *DataFormatError) Error() string {
	return fmt.Sprintf("%s: row %d: field %q: %v", e.Source, e.Row, e.Field, e.Err)
}

func (e *DataFormatError) Unwrap() error { return e.Err }

// EmptyPopulationError : zéro client après nettoyage. Le scoring par
// quantiles n'est pas défini sur une population vide.
type EmptyPopulationError struct {
	Stage string
}

func (e *EmptyPopulationError) Error() string {
	return fmt.Sprintf("%s: empty customer population", e.Stage)
}

// RuleConflictError : un score composite est revendiqué par deux segments.
// Détecté au chargement de la table de règles, jamais résolu arbitrairement.
type RuleConflictError struct {
	Composite string
	First     string
	Second    string
}

func (e *RuleConflictError) Error() string {
	return fmt.Sprintf("rule table: composite %q mapped to both %q and %q", e.Composite, e.First, e.Second)
}
