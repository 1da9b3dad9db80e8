package calculator

import (
	"reflect"
	"testing"
	"time"

	"rfm-segmenter/pkg/models"
)

func tx(invoice, customer string, qty int, price float64) models.Transaction {
	return models.Transaction{
		InvoiceID:   invoice,
		ProductCode: "85123A",
		Description: "WHITE HANGING HEART T-LIGHT HOLDER",
		Quantity:    qty,
		Timestamp:   time.Date(2011, 12, 1, 8, 26, 0, 0, time.UTC),
		UnitPrice:   price,
		CustomerID:  customer,
		Country:     "United Kingdom",
	}
}

func TestClean_MissingCustomer(t *testing.T) {
	kept, report := Clean([]models.Transaction{tx("536365", "", 6, 2.55)}, "C")
	if len(kept) != 0 {
		t.Fatalf("expected record without customer to be dropped, kept %d", len(kept))
	}
	if report.MissingCustomer != 1 {
		t.Fatalf("MissingCustomer = %d, want 1", report.MissingCustomer)
	}
}

func TestClean_CancellationPrefix(t *testing.T) {
	kept, report := Clean([]models.Transaction{tx("C536365", "17850", 6, 2.55)}, "C")
	if len(kept) != 0 {
		t.Fatalf("expected cancellation to be dropped, kept %d", len(kept))
	}
	if report.Cancellations != 1 {
		t.Fatalf("Cancellations = %d, want 1", report.Cancellations)
	}
}

func TestClean_NonPositiveQuantityAndPrice(t *testing.T) {
	in := []models.Transaction{
		tx("536365", "17850", -2, 2.55),
		tx("536366", "17850", 0, 2.55),
		tx("536367", "17850", 3, 0),
		tx("536368", "17850", 3, -1.5),
	}
	kept, report := Clean(in, "C")
	if len(kept) != 0 {
		t.Fatalf("kept %d, want 0", len(kept))
	}
	if report.NonPositiveQty != 2 || report.NonPositivePrice != 2 {
		t.Fatalf("qty=%d price=%d, want 2 and 2", report.NonPositiveQty, report.NonPositivePrice)
	}
}

func TestClean_DuplicateKeepsFirst(t *testing.T) {
	a := tx("536365", "17850", 6, 2.55)
	b := tx("536366", "17850", 6, 2.55)
	kept, report := Clean([]models.Transaction{a, a, b, a}, "C")
	if len(kept) != 2 {
		t.Fatalf("kept %d, want 2", len(kept))
	}
	if kept[0] != a || kept[1] != b {
		t.Fatalf("first occurrences not retained in input order: %v", kept)
	}
	if report.Duplicates != 2 {
		t.Fatalf("Duplicates = %d, want 2", report.Duplicates)
	}
}

func TestClean_Idempotent(t *testing.T) {
	in := []models.Transaction{
		tx("536365", "17850", 6, 2.55),
		tx("C536366", "17850", 6, 2.55),
		tx("536367", "", 6, 2.55),
		tx("536368", "13047", -1, 2.55),
		tx("536365", "17850", 6, 2.55), // duplicate
	}
	once, _ := Clean(in, "C")
	twice, report := Clean(once, "C")
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("Clean not idempotent: %v vs %v", once, twice)
	}
	if report.Dropped() != 0 {
		t.Fatalf("second pass dropped %d records, want 0", report.Dropped())
	}
}

func TestClean_ReportKept(t *testing.T) {
	in := []models.Transaction{
		tx("536365", "17850", 6, 2.55),
		tx("536369", "13047", 3, 4.25),
	}
	kept, report := Clean(in, "C")
	if report.Kept != len(kept) || report.Kept != 2 {
		t.Fatalf("Kept = %d (len %d), want 2", report.Kept, len(kept))
	}
}
