package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name      string `envconfig:"APP_NAME" default:"SuperSaver"`
		StoreName string `envconfig:"STORE_NAME" default:"Super-Saving Supermarket"`
		Port      int    `envconfig:"PORT" default:"8080"`
	}

	Files struct {
		Catalog     string `envconfig:"CATALOG_FILE" default:"super_saving_items.csv"`
		PendingBill string `envconfig:"PENDING_BILL_FILE" default:"pending_bill.csv"`
		Bills       string `envconfig:"BILLS_FILE" default:"bill.txt"`
		Revenue     string `envconfig:"REVENUE_FILE" default:"revenue.txt"`
		Report      string `envconfig:"REPORT_FILE" default:"revenue_report_summary.txt"`
	}

	Report struct {
		Formats   string `envconfig:"REPORT_FORMATS" default:"txt"`
		From      string `envconfig:"REPORT_FROM" default:"register@supersaving.lk"`
		Recipient string `envconfig:"REPORT_RECIPIENT" default:"salesteam@supersaving.lk"`
		Subject   string `envconfig:"REPORT_SUBJECT" default:"Super-Saving Revenue Report"`
	}

	Ledger struct {
		Driver string `envconfig:"LEDGER_DRIVER" default:"file"`
		Strict bool   `envconfig:"LEDGER_STRICT" default:"false"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"supersaver"`
	}

	Delivery struct {
		Mode      string `envconfig:"DELIVERY_MODE" default:"none"`
		OutboxDir string `envconfig:"DELIVERY_OUTBOX_DIR" default:"outbox"`
	}

	SMTP struct {
		Host     string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
		Port     int    `envconfig:"SMTP_PORT" default:"587"`
		Username string `envconfig:"SMTP_USERNAME"`
		Password string `envconfig:"SMTP_PASSWORD"`
	}

	API struct {
		JWTSecret   string  `envconfig:"API_JWT_SECRET"`
		RateLimit   float64 `envconfig:"API_RATE_LIMIT" default:"10"`
		RateBurst   int     `envconfig:"API_RATE_BURST" default:"20"`
		CORSOrigins string  `envconfig:"API_CORS_ORIGINS" default:"*"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// Recipients splits REPORT_RECIPIENT on commas.
func (c *Config) Recipients() []string {
	return splitList(c.Report.Recipient)
}

func (c *Config) CORSOrigins() []string {
	return splitList(c.API.CORSOrigins)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Ledger.Driver {
	case "file", "postgres":
	default:
		return fmt.Errorf("LEDGER_DRIVER must be file or postgres, got %q", c.Ledger.Driver)
	}

	switch c.Delivery.Mode {
	case "none", "outbox", "smtp":
	default:
		return fmt.Errorf("DELIVERY_MODE must be none, outbox or smtp, got %q", c.Delivery.Mode)
	}

	return nil
}

func splitList(s string) []string {
	var out []string

	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
