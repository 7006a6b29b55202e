// internal/config/config.go
// Loader konfigurasi dari environment variables (prefix DCA) + file policy YAML
package config

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"dca-oilgas/internal/services"
)

type Config struct {
	AppName string `envconfig:"APP_NAME" default:"dca-oilgas"`
	AppEnv  string `envconfig:"APP_ENV" default:"development"`
	APIKey  string `envconfig:"API_KEY"`
	// file YAML override kebijakan fitting (opsional)
	PolicyFile string `envconfig:"POLICY_FILE"`

	// nested struct: key env = DCA_<GROUP>_<FIELD>
	HTTP   HTTPConfig   `envconfig:"HTTP"`
	DB     DBConfig     `envconfig:"DB"`
	Log    LogConfig    `envconfig:"LOG"`
	Fit    FitConfig    `envconfig:"FIT"`
	Worker WorkerConfig `envconfig:"WORKER"`
	Admin  AdminConfig  `envconfig:"ADMIN"`
	LLM    LLMConfig    `envconfig:"OPENAI"`
}

type HTTPConfig struct {
	Addr            string        `envconfig:"ADDR" default:":8080"`
	MCPAddr         string        `envconfig:"MCP_ADDR" default:":8090"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"5m"`
	IdleTimeout     time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	AllowedOrigins  []string      `envconfig:"CORS_ORIGINS" default:"*"`
	// limit global endpoint commentary + admin run (req/detik, 0 = tanpa limit)
	ExpensiveRPS   float64 `envconfig:"EXPENSIVE_RPS" default:"2"`
	ExpensiveBurst int     `envconfig:"EXPENSIVE_BURST" default:"4"`
}

type DBConfig struct {
	Driver   string `envconfig:"DRIVER" default:"mysql" validate:"oneof=mysql sqlite"`
	Host     string `envconfig:"HOST" default:"localhost"`
	Port     string `envconfig:"PORT" default:"3306"`
	Name     string `envconfig:"NAME" default:"dca"`
	User     string `envconfig:"USER" default:"root"`
	Password string `envconfig:"PASSWORD"`
	MaxOpen  int    `envconfig:"MAX_OPEN_CONNS" default:"10" validate:"gte=1"`
	MaxIdle  int    `envconfig:"MAX_IDLE_CONNS" default:"5" validate:"gte=0"`
	// path file untuk DRIVER=sqlite
	SQLitePath string `envconfig:"SQLITE_PATH" default:"dca.db"`
	Migrate    bool   `envconfig:"MIGRATE" default:"true"`
}

type LogConfig struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Format string `envconfig:"FORMAT" default:"json" validate:"oneof=json console"`
}

type FitConfig struct {
	MaxIterations int `envconfig:"MAX_ITERATIONS" default:"5000" validate:"gte=1"`
	// 0 = runtime.NumCPU()
	Workers int `envconfig:"WORKERS" validate:"gte=0"`
}

type WorkerConfig struct {
	Schedule      string `envconfig:"SCHEDULE" default:"0 0 2 * * *"`
	WriteEconomic bool   `envconfig:"WRITE_ECONOMIC" default:"true"`
	RunNow        bool   `envconfig:"RUN_NOW" default:"false"`
}

type AdminConfig struct {
	User      string        `envconfig:"USER"`
	PassHash  string        `envconfig:"PASS_HASH"`
	JWTSecret string        `envconfig:"JWT_SECRET"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
}

type LLMConfig struct {
	APIKey  string        `envconfig:"API_KEY"`
	APIBase string        `envconfig:"API_BASE" default:"https://api.openai.com/v1"`
	Model   string        `envconfig:"MODEL" default:"gpt-4o-mini"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"30s"`
}

var validate = validator.New()

// Load membaca env DCA_* lalu validasi.
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("DCA", &c); err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}
	if c.Fit.Workers == 0 {
		c.Fit.Workers = runtime.NumCPU()
	}
	if err := validate.Struct(c); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

// LLMEnabled: narasi hanya aktif bila API key diset.
func (c *Config) LLMEnabled() bool { return c.LLM.APIKey != "" }

// MySQLDSN membentuk DSN go-sql-driver. DATE dibaca sebagai teks (tanpa parseTime)
// supaya scanning sama dengan SQLite.
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&loc=UTC",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// LoadPolicy membaca file YAML di atas DefaultPolicy. path kosong = default.
func LoadPolicy(path string) (services.Policy, error) {
	p := services.DefaultPolicy()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read policy %s: %w", path, err)
	}
	if err := yaml.UnmarshalStrict(data, &p); err != nil {
		return p, fmt.Errorf("parse policy %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}
