package calculator

import (
	"fmt"
	"sort"

	"rfm-segmenter/pkg/models"
)

// Score convertit les métriques brutes de toute la population en scores
// ordinaux 1..bins. Le scoring est relatif à la population : le score d'un
// client dépend des valeurs de tous les autres, d'où le passage global.
//
// Algorithme par métrique, indépendamment :
//  1. Rang de chaque client par valeur croissante, égalités départagées par
//     l'ordre d'insertion (tri stable) : le rang est un ordre total strict,
//     aucune ambiguïté de frontière de quantile même avec beaucoup d'ex aequo.
//  2. Partition des rangs en bins groupes contigus de tailles aussi égales
//     que possible (les n%bins premiers groupes reçoivent un élément de plus).
//  3. Recency : mapping inversé (valeurs les plus petites = achats les plus
//     récents = score le plus haut). Frequency et Monetary : direct.
//
// Une population dégénérée (moins de clients que de bins) produit quand même
// des scores valides 1..bins ; le nombre de bins effectifs par métrique est
// rapporté, jamais traité comme une erreur.
func Score(pop []models.CustomerMetrics, bins int) ([]models.RFMScore, models.ScoreReport, error) {
	if len(pop) == 0 {
		return nil, models.ScoreReport{}, &models.EmptyPopulationError{Stage: "score"}
	}

	recency := make([]float64, len(pop))
	frequency := make([]float64, len(pop))
	monetary := make([]float64, len(pop))
	for i, c := range pop {
		recency[i] = float64(c.RecencyDays)
		frequency[i] = float64(c.Frequency)
		monetary[i] = c.Monetary
	}

	var report models.ScoreReport
	var r, f, m []int
	r, report.Recency = rankScores(recency, bins, true)
	f, report.Frequency = rankScores(frequency, bins, false)
	m, report.Monetary = rankScores(monetary, bins, false)

	out := make([]models.RFMScore, len(pop))
	for i, c := range pop {
		out[i] = models.RFMScore{
			CustomerID: c.CustomerID,
			R:          r[i],
			F:          f[i],
			M:          m[i],
			Composite:  fmt.Sprintf("%d%d%d", r[i], f[i], m[i]),
		}
	}
	return out, report, nil
}

// rankScores attribue un score 1..bins à chaque valeur par partition de rangs.
// invert inverse le mapping (score haut pour les petites valeurs).
func rankScores(values []float64, bins int, invert bool) ([]int, models.MetricBins) {
	n := len(values)

	// Rang strict : tri stable des indices, l'ordre d'origine départage les
	// valeurs égales. Reproductible à l'octet près entre deux exécutions.
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return values[idx[a]] < values[idx[b]]
	})

	scores := make([]int, n)
	base := n / bins
	extra := n % bins

	pos := 0
	effective := 0
	for g := 0; g < bins; g++ {
		size := base
		if g < extra {
			size++
		}
		if size > 0 {
			effective++
		}
		score := g + 1
		if invert {
			score = bins - g
		}
		for k := 0; k < size; k++ {
			scores[idx[pos]] = score
			pos++
		}
	}

	return scores, models.MetricBins{
		EffectiveBins:  effective,
		DistinctValues: distinctCount(values, idx),
	}
}

// distinctCount compte les valeurs distinctes en parcourant l'ordre trié.
func distinctCount(values []float64, sorted []int) int {
	if len(sorted) == 0 {
		return 0
	}
	distinct := 1
	for i := 1; i < len(sorted); i++ {
		if values[sorted[i]] != values[sorted[i-1]] {
			distinct++
		}
	}
	return distinct
}
