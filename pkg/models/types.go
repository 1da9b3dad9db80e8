package models

import (
	"time"
)

/*
LOAD → types simples pour les enregistrements de transaction bruts.
*/

// Transaction représente une ligne de facture telle qu'elle est lue depuis la
// source (CSV ou base de données). Avant nettoyage, Quantity et UnitPrice
// peuvent être négatifs et CustomerID peut être vide.
type Transaction struct {
	InvoiceID   string
	ProductCode string
	Description string
	Quantity    int
	Timestamp   time.Time
	UnitPrice   float64
	CustomerID  string // "" = client inconnu
	Country     string
}

/*
COMPUTE → structures intermédiaires et résultat final du pipeline.
*/

// CustomerMetrics contient les métriques R/F/M brutes d'un client, calculées
// une seule fois par exécution et immuables ensuite.
type CustomerMetrics struct {
	CustomerID  string
	RecencyDays int     // jours entiers depuis le dernier achat (date de référence fixe)
	Frequency   int     // nombre de factures distinctes
	Monetary    float64 // somme quantité × prix unitaire
}

// RFMScore contient les scores ordinaux 1..N dérivés des métriques.
// Composite est la concaténation ordonnée R‖F‖M ("435") : un triplet, pas une somme.
type RFMScore struct {
	CustomerID string
	R          int
	F          int
	M          int
	Composite  string
}

// SegmentedCustomer est la ligne de sortie finale : métriques + scores + segment.
// Segment vaut la sentinelle "Unclassified" quand aucune règle ne correspond.
type SegmentedCustomer struct {
	CustomerMetrics
	Score   RFMScore
	Segment string
}

/*
REPORT → conditions observables non fatales, attachées à la sortie.
*/

// CleanReport compte les enregistrements retenus et rejetés par règle.
type CleanReport struct {
	Kept             int
	MissingCustomer  int
	Cancellations    int
	NonPositiveQty   int
	NonPositivePrice int
	Duplicates       int
}

// Dropped retourne le total des enregistrements rejetés.
func (r CleanReport) Dropped() int {
	return r.MissingCustomer + r.Cancellations + r.NonPositiveQty + r.NonPositivePrice + r.Duplicates
}

// MetricBins décrit le découpage effectif d'une métrique.
// EffectiveBins < bins demandés = condition de bins effondrés (reportable, pas une erreur).
type MetricBins struct {
	EffectiveBins  int
	DistinctValues int
}

// ScoreReport regroupe le découpage effectif des trois métriques.
type ScoreReport struct {
	Recency   MetricBins
	Frequency MetricBins
	Monetary  MetricBins
}

// RunReport est le rapport complet d'une exécution du pipeline.
type RunReport struct {
	Input        int // transactions lues
	Clean        CleanReport
	Customers    int
	Bins         ScoreReport
	Unclassified int
}

/*
CONFIG → paramètres du moteur
*/

// Config contient les paramètres passés au pipeline de calcul.
type Config struct {
	ReferenceDate      time.Time // instant fixe fourni par l'appelant (déterminisme) – en UTC
	CancellationPrefix string    // préfixe de facture marquant une annulation (défaut "C")
	QuantileBins       int       // nombre de bins de quantile (défaut 5)
	Verbose            bool      // Flag pour activer les logs détaillés.
}
