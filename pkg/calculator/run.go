package calculator

import (
	"context"

	"github.com/schollz/progressbar/v3"

	"rfm-segmenter/pkg/logger"
	"rfm-segmenter/pkg/models"
	"rfm-segmenter/pkg/segment"
)

// Run exécute le pipeline complet sur un lot en mémoire :
//
//	Clean → Aggregate → Score → Classify
//
// Chaque étape consomme la sortie complète de la précédente, passage
// séquentiel unique, aucun état partagé. Les erreurs fatales
// (DataFormatError est levée en amont par les loaders, EmptyPopulationError
// ici) arrêtent le pipeline ; les conditions observables (compteurs de
// rejet, bins effondrés, clients non classés) partent dans le RunReport.
//
// Deux exécutions sur les mêmes entrées et la même configuration produisent
// une sortie identique à l'octet près.
func Run(ctx context.Context, cfg models.Config, txs []models.Transaction, table *segment.Table, log logger.Logger) ([]models.SegmentedCustomer, models.RunReport, error) {
	report := models.RunReport{Input: len(txs)}
	if err := ctx.Err(); err != nil {
		return nil, report, err
	}

	bins := cfg.QuantileBins
	if bins == 0 {
		bins = 5
	}

	// 1) Nettoyage
	cleaned, cleanReport := Clean(txs, cfg.CancellationPrefix)
	report.Clean = cleanReport
	if cfg.Verbose {
		log.Infof("clean: read=%d kept=%d dropped=%d (missing_customer=%d cancellations=%d qty=%d price=%d duplicates=%d)",
			len(txs), cleanReport.Kept, cleanReport.Dropped(),
			cleanReport.MissingCustomer, cleanReport.Cancellations,
			cleanReport.NonPositiveQty, cleanReport.NonPositivePrice, cleanReport.Duplicates)
	}

	// 2) Agrégation par client
	metrics := Aggregate(cleaned, cfg.ReferenceDate)
	report.Customers = len(metrics)
	if cfg.Verbose {
		log.Infof("aggregate: customers=%d reference=%s", len(metrics), cfg.ReferenceDate.Format("2006-01-02"))
	}

	// 3) Scoring par quantiles
	scores, scoreReport, err := Score(metrics, bins)
	if err != nil {
		return nil, report, err
	}
	report.Bins = scoreReport
	for _, mb := range []struct {
		name string
		bins models.MetricBins
	}{
		{"recency", scoreReport.Recency},
		{"frequency", scoreReport.Frequency},
		{"monetary", scoreReport.Monetary},
	} {
		if mb.bins.EffectiveBins < bins {
			log.Warnf("score: %s produced %d effective bins (wanted %d, distinct values=%d)",
				mb.name, mb.bins.EffectiveBins, bins, mb.bins.DistinctValues)
		}
	}

	// 4) Classification
	bar := progressbar.Default(int64(len(scores)))
	out := make([]models.SegmentedCustomer, len(scores))
	for i, score := range scores {
		name := table.Classify(score.Composite)
		if name == segment.Unclassified {
			report.Unclassified++
		}
		out[i] = models.SegmentedCustomer{
			CustomerMetrics: metrics[i],
			Score:           score,
			Segment:         name,
		}
		_ = bar.Add(1)
	}
	if cfg.Verbose {
		log.Infof("classify: customers=%d unclassified=%d rules=%d", len(out), report.Unclassified, table.Size())
	}

	return out, report, nil
}
