package calculator

import (
	"time"

	"rfm-segmenter/pkg/models"
)

// accumulateur par client, interne à Aggregate
type customerAcc struct {
	invoices map[string]struct{}
	last     time.Time
	monetary float64
}

// Aggregate regroupe les transactions nettoyées par client et calcule les
// métriques brutes R/F/M par rapport à une date de référence fixe fournie
// par l'appelant (jamais "now", pour garantir le déterminisme).
//
//   - RecencyDays : jours entiers entre la référence et la transaction la plus
//     récente du client. Négatif si la référence précède les données :
//     erreur de configuration de l'appelant, pas détectée ici.
//   - Frequency : nombre de factures distinctes (une commande multi-lignes
//     compte une seule fois).
//   - Monetary : somme quantité × prix unitaire.
//
// Chaque client de l'entrée apparaît exactement une fois en sortie, dans
// l'ordre de sa première apparition.
func Aggregate(txs []models.Transaction, reference time.Time) []models.CustomerMetrics {
	accs := make(map[string]*customerAcc, len(txs))
	order := make([]string, 0, len(txs))

	for _, tx := range txs {
		acc, ok := accs[tx.CustomerID]
		if !ok {
			acc = &customerAcc{invoices: make(map[string]struct{})}
			accs[tx.CustomerID] = acc
			order = append(order, tx.CustomerID)
		}
		acc.invoices[tx.InvoiceID] = struct{}{}
		if tx.Timestamp.After(acc.last) {
			acc.last = tx.Timestamp
		}
		acc.monetary += float64(tx.Quantity) * tx.UnitPrice
	}

	out := make([]models.CustomerMetrics, 0, len(order))
	for _, id := range order {
		acc := accs[id]
		out = append(out, models.CustomerMetrics{
			CustomerID:  id,
			RecencyDays: wholeDays(acc.last, reference),
			Frequency:   len(acc.invoices),
			Monetary:    acc.monetary,
		})
	}
	return out
}

// wholeDays compte les jours entiers écoulés entre from et to (tronqué vers zéro).
func wholeDays(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
