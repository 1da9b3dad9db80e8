package calculator

import (
	"strings"

	"rfm-segmenter/pkg/models"
)

// Clean applique les règles de validation métier et retourne les
// transactions retenues (dans l'ordre d'entrée) plus les compteurs de rejet.
// Chaque règle est indépendante : un enregistrement qui en viole une seule
// est rejeté. Les doublons exacts (égalité de tous les champs) sont rejetés
// à partir de la deuxième occurrence, la première est retenue.
//
// Clean est idempotent : Clean(Clean(x)) == Clean(x).
func Clean(txs []models.Transaction, cancelPrefix string) ([]models.Transaction, models.CleanReport) {
	var report models.CleanReport
	kept := make([]models.Transaction, 0, len(txs))
	seen := make(map[models.Transaction]struct{}, len(txs))

	for _, tx := range txs {
		switch {
		case tx.CustomerID == "":
			report.MissingCustomer++
		case cancelPrefix != "" && strings.HasPrefix(tx.InvoiceID, cancelPrefix):
			report.Cancellations++
		case tx.Quantity <= 0:
			report.NonPositiveQty++
		case tx.UnitPrice <= 0:
			report.NonPositivePrice++
		default:
			if _, dup := seen[tx]; dup {
				report.Duplicates++
				continue
			}
			seen[tx] = struct{}{}
			kept = append(kept, tx)
		}
	}

	report.Kept = len(kept)
	return kept, report
}
