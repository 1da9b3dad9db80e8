// Package ingest lit des transactions brutes depuis un fichier CSV avec
// ligne d'en-tête. C'est un collaborateur externe du moteur : il produit des
// enregistrements typés, ou échoue pour tout le lot si un champ ne se type
// pas (DataFormatError). Les règles métier ne tentent jamais de rattraper
// une entrée illisible.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"rfm-segmenter/pkg/models"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Colonnes obligatoires, noms du dataset de vente en ligne classique.
var requiredColumns = []string{
	"InvoiceNo", "StockCode", "Description", "Quantity",
	"InvoiceDate", "UnitPrice", "CustomerID", "Country",
}

// Formats de date acceptés, essayés dans l'ordre. Sans fuseau = UTC.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"1/2/2006 15:04",
	"2006-01-02",
}

// ReadFile lit un fichier CSV de transactions.
func ReadFile(path string) ([]models.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read parse un flux CSV : décodage (BOM, repli latin-1), en-tête obligatoire,
// une transaction par ligne de données.
func Read(r io.Reader) ([]models.Transaction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	decoded, err := decode(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file: no header row found")
		}
		return nil, fmt.Errorf("read header row: %w", err)
	}

	col := make(map[string]int, len(headers))
	for i, h := range headers {
		col[strings.TrimSpace(h)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing column %q in header", name)
		}
	}

	var txs []models.Transaction
	row := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			return nil, &models.DataFormatError{Source: "csv", Row: row, Field: "*", Err: err}
		}

		quantity, err := strconv.Atoi(strings.TrimSpace(record[col["Quantity"]]))
		if err != nil {
			return nil, &models.DataFormatError{Source: "csv", Row: row, Field: "Quantity", Err: err}
		}
		unitPrice, err := strconv.ParseFloat(strings.TrimSpace(record[col["UnitPrice"]]), 64)
		if err != nil {
			return nil, &models.DataFormatError{Source: "csv", Row: row, Field: "UnitPrice", Err: err}
		}
		timestamp, err := parseDate(strings.TrimSpace(record[col["InvoiceDate"]]))
		if err != nil {
			return nil, &models.DataFormatError{Source: "csv", Row: row, Field: "InvoiceDate", Err: err}
		}

		txs = append(txs, models.Transaction{
			InvoiceID:   strings.TrimSpace(record[col["InvoiceNo"]]),
			ProductCode: strings.TrimSpace(record[col["StockCode"]]),
			Description: strings.TrimSpace(record[col["Description"]]),
			Quantity:    quantity,
			Timestamp:   timestamp,
			UnitPrice:   unitPrice,
			CustomerID:  strings.TrimSpace(record[col["CustomerID"]]),
			Country:     strings.TrimSpace(record[col["Country"]]),
		})
	}
	return txs, nil
}

// decode retire un BOM UTF-8 éventuel et replie sur latin-1 quand les octets
// ne forment pas de l'UTF-8 valide (export tableur fréquent).
func decode(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, bomUTF8)
	if utf8.Valid(data) {
		return data, nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("latin-1 decode failed: %w", err)
	}
	return decoded, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", s)
}
