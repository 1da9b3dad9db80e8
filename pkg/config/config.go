// Package config charge la configuration de l'application (Input C) depuis
// un fichier YAML. La date de référence est obligatoire : le moteur n'utilise
// jamais "now", le déterminisme exige une constante fournie par l'appelant.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"rfm-segmenter/pkg/models"
)

// Config configuration globale
type Config struct {
	ReferenceDate      string `mapstructure:"reference_date"`      // RFC 3339 ou "2006-01-02" (minuit UTC)
	CancellationPrefix string `mapstructure:"cancellation_prefix"` // préfixe de facture d'annulation
	QuantileBins       int    `mapstructure:"quantile_bins"`       // bins de quantile par métrique
	RulesFile          string `mapstructure:"rules_file"`          // table de règles de segmentation
	LogLevel           string `mapstructure:"log_level"`
}

// Load charge le fichier de configuration.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetDefault("cancellation_prefix", "C")
	v.SetDefault("quantile_bins", 5)
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config failed: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	return &cfg, nil
}

// Validate vérifie la configuration.
func (c *Config) Validate() error {
	if c.ReferenceDate == "" {
		return fmt.Errorf("reference_date is required")
	}
	if _, err := c.Reference(); err != nil {
		return err
	}
	// Les scores composites restent des chiffres simples (1..9).
	if c.QuantileBins < 2 || c.QuantileBins > 9 {
		return fmt.Errorf("quantile_bins must be in 2..9, got %d", c.QuantileBins)
	}
	if c.RulesFile == "" {
		return fmt.Errorf("rules_file is required")
	}
	return nil
}

// Reference parse la date de référence, en UTC.
func (c *Config) Reference() (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, c.ReferenceDate); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("reference_date %q: want RFC 3339 or YYYY-MM-DD", c.ReferenceDate)
}

// Engine construit les paramètres du moteur de calcul.
func (c *Config) Engine(verbose bool) (models.Config, error) {
	ref, err := c.Reference()
	if err != nil {
		return models.Config{}, err
	}
	return models.Config{
		ReferenceDate:      ref,
		CancellationPrefix: c.CancellationPrefix,
		QuantileBins:       c.QuantileBins,
		Verbose:            verbose,
	}, nil
}
