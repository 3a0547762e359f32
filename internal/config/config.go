package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends
const (
	StoreNeo4j    = "neo4j"
	StorePostgres = "postgres"
)

// IngestQuery is one INGEST_QUERIES entry, written as text[@country[/location]]
type IngestQuery struct {
	Text     string
	Country  string
	Location string
}

// Config contains runtime settings for the server
type Config struct {
	LogLevel        string
	Host            string // default 0.0.0.0
	Port            string // default PORT env or 8080
	ProviderTimeout time.Duration
	PerProviderCap  int // > 0 switches search to the per-provider cap policy

	StoreBackend string // neo4j (default) or postgres
	Neo4j        struct {
		URI      string
		Username string
		Password string
		Database string
	}
	Postgres struct {
		URL string
	}

	Adzuna struct {
		AppID  string
		AppKey string
	} // Adzuna API credentials
	RemoteOK struct {
		APIKey string
	}
	Jooble struct {
		APIKey string
	}

	RedisURL   string // geoip cache; empty disables caching
	SQLitePath string // favorites database

	Gemini struct {
		APIKey string
		Model  string
	}
	Sheets struct {
		CredentialsPath string
		SpreadsheetID   string
	}

	Ingest struct {
		Spec    string
		Queries []IngestQuery
		Skills  []string // added to every configured query
		OnStart bool
	}
}

// Load populates config from a .env file (when present) and environment variables
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		LogLevel:        "info",
		Host:            "0.0.0.0",
		Port:            "8080",
		ProviderTimeout: 10 * time.Second,
		StoreBackend:    StoreNeo4j,
		SQLitePath:      "data/favorites.db",
	}
	cfg.Gemini.Model = "gemini-2.5-flash"

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if v := os.Getenv("HOST"); v != "" {
		cfg.Host = v
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}

	var invalid []string

	if v := os.Getenv("PROVIDER_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			invalid = append(invalid, "PROVIDER_TIMEOUT")
		} else {
			cfg.ProviderTimeout = d
		}
	}

	if v := os.Getenv("SEARCH_PER_PROVIDER_CAP"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			invalid = append(invalid, "SEARCH_PER_PROVIDER_CAP")
		} else {
			cfg.PerProviderCap = n
		}
	}

	if v := os.Getenv("STORE_BACKEND"); v != "" {
		cfg.StoreBackend = strings.ToLower(strings.TrimSpace(v))
	}

	cfg.Neo4j.URI = os.Getenv("NEO4J_URI")
	cfg.Neo4j.Username = os.Getenv("NEO4J_USERNAME")
	cfg.Neo4j.Password = os.Getenv("NEO4J_PASSWORD")
	cfg.Neo4j.Database = os.Getenv("NEO4J_DATABASE")
	cfg.Postgres.URL = os.Getenv("DATABASE_URL")

	cfg.Adzuna.AppID = os.Getenv("ADZUNA_APP_ID")
	cfg.Adzuna.AppKey = os.Getenv("ADZUNA_APP_KEY")
	cfg.RemoteOK.APIKey = os.Getenv("REMOTEOK_API_KEY")
	cfg.Jooble.APIKey = os.Getenv("JOOBLE_API_KEY")

	cfg.RedisURL = os.Getenv("REDIS_URL")
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.SQLitePath = v
	}

	cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Gemini.Model = v
	}

	cfg.Sheets.CredentialsPath = os.Getenv("GOOGLE_SHEETS_CREDENTIALS")
	cfg.Sheets.SpreadsheetID = os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID")

	cfg.Ingest.Spec = os.Getenv("INGEST_SPEC")
	cfg.Ingest.Queries = ParseIngestQueries(os.Getenv("INGEST_QUERIES"))
	cfg.Ingest.Skills = splitList(os.Getenv("INGEST_SKILLS"))
	if v := os.Getenv("INGEST_ON_START"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			invalid = append(invalid, "INGEST_ON_START")
		}
		cfg.Ingest.OnStart = b
	}

	var missingVars []string

	switch cfg.StoreBackend {
	case StoreNeo4j:
		if cfg.Neo4j.URI == "" {
			missingVars = append(missingVars, "NEO4J_URI")
		}

		if cfg.Neo4j.Username == "" {
			missingVars = append(missingVars, "NEO4J_USERNAME")
		}

		if cfg.Neo4j.Password == "" {
			missingVars = append(missingVars, "NEO4J_PASSWORD")
		}
	case StorePostgres:
		if cfg.Postgres.URL == "" {
			missingVars = append(missingVars, "DATABASE_URL")
		}
	default:
		invalid = append(invalid, "STORE_BACKEND")
	}

	if len(missingVars) > 0 {
		return cfg, fmt.Errorf("missing required environment variables: %s", strings.Join(missingVars, ", "))
	}

	if len(invalid) > 0 {
		return cfg, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// ParseIngestQueries splits a comma-separated list of text[@country[/location]] entries
func ParseIngestQueries(raw string) []IngestQuery {
	var out []IngestQuery
	for _, part := range splitList(raw) {
		q := IngestQuery{Text: part}
		if i := strings.LastIndex(part, "@"); i >= 0 {
			q.Text = strings.TrimSpace(part[:i])
			where := part[i+1:]
			if country, location, ok := strings.Cut(where, "/"); ok {
				q.Country = strings.TrimSpace(country)
				q.Location = strings.TrimSpace(location)
			} else {
				q.Country = strings.TrimSpace(where)
			}
		}
		if q.Text == "" {
			continue
		}
		out = append(out, q)
	}
	return out
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Addr returns the listen address
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}
