package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"rfm-segmenter/pkg/models"

	_ "github.com/go-sql-driver/mysql"
)

// Open DSN mariadb:// ou mysql:// → format MySQL driver
func Open(dsn string) (*sql.DB, string, error) {
	mysqlDSN, err := toMySQLDSN(dsn)
	if err != nil {
		return nil, "", err
	}
	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		return nil, "", err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, mysqlDSN, nil
}

func toMySQLDSN(dsn string) (string, error) {
	if strings.HasPrefix(dsn, "mariadb://") || strings.HasPrefix(dsn, "mysql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("parse dsn: %w", err)
		}
		user := ""
		pass := ""
		if u.User != nil {
			user = u.User.Username()
			pw, _ := u.User.Password()
			pass = pw
		}
		host := u.Host
		db := strings.TrimPrefix(u.Path, "/")
		if user == "" || host == "" || db == "" {
			return "", fmt.Errorf("dsn incomplet (user/host/db)")
		}
		// Toujours en UTC : la Recency se calcule contre une référence UTC.
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&interpolateParams=true",
			user, pass, host, db), nil
	}
	return dsn, nil
}

// LoadTransactions lit toutes les lignes de transaction brutes de la table.
// Colonnes attendues : InvoiceNo, StockCode, Description, Quantity,
// InvoiceDate, UnitPrice, CustomerID, Country. CustomerID NULL devient ""
// (rejeté ensuite par le nettoyage). Toute ligne non scannable est fatale
// pour le lot (DataFormatError) : un type malformé signale un problème
// d'ingestion, jamais rejeté en silence.
func LoadTransactions(ctx context.Context, db *sql.DB, tableName string) ([]models.Transaction, error) {
	if !regexp.MustCompile(`^[A-Za-z0-9_]+$`).MatchString(tableName) {
		return nil, fmt.Errorf("table invalide")
	}

	q := fmt.Sprintf(`
		SELECT InvoiceNo, StockCode, Description, Quantity, InvoiceDate, UnitPrice, CustomerID, Country
		FROM %s
	`, tableName)

	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []models.Transaction
	row := 0
	for rows.Next() {
		row++
		var (
			invoice     string
			product     string
			description sql.NullString
			quantity    int64
			timestamp   time.Time
			unitPrice   float64
			customerID  sql.NullString
			country     sql.NullString
		)
		if err := rows.Scan(&invoice, &product, &description, &quantity, &timestamp, &unitPrice, &customerID, &country); err != nil {
			return nil, &models.DataFormatError{Source: "mysql", Row: row, Field: "*", Err: err}
		}
		txs = append(txs, models.Transaction{
			InvoiceID:   invoice,
			ProductCode: product,
			Description: description.String,
			Quantity:    int(quantity),
			Timestamp:   timestamp.UTC(),
			UnitPrice:   unitPrice,
			CustomerID:  strings.TrimSpace(customerID.String),
			Country:     country.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return txs, nil
}
