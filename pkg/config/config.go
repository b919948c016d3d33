package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const (
	AuthSQL     = "sql"
	AuthWindows = "windows"

	DefaultPort       = 1433
	DefaultOutputDir  = "DatabaseAnalysis"
	DefaultTimeout    = 10
	DefaultDateLayout = "1/2/2006"
)

type DBConfig struct {
	Type                   string `yaml:"type" json:"type" validate:"required,eq=sqlserver"`
	Host                   string `yaml:"host" json:"host" validate:"required_without=DSN"`
	Instance               string `yaml:"instance" json:"instance"`
	Port                   int    `yaml:"port" json:"port" validate:"min=0,max=65535"`
	Auth                   string `yaml:"auth" json:"auth" validate:"oneof=sql windows"`
	Username               string `yaml:"username" json:"username"`
	Password               string `yaml:"password" json:"password"`
	DatabaseName           string `yaml:"database_name" json:"database_name" validate:"required_without=DSN"`
	DSN                    string `yaml:"dsn" json:"dsn"` // optional explicit DSN
	TrustServerCertificate bool   `yaml:"trust_server_certificate" json:"trust_server_certificate"`
	TimeoutSeconds         int    `yaml:"timeout_seconds" json:"timeout_seconds" validate:"gt=0"`
}

type OutputConfig struct {
	Dir string `yaml:"dir" json:"dir" validate:"required"`
}

type ReportConfig struct {
	DateLayout string `yaml:"date_layout" json:"date_layout" validate:"required"`
	FailFast   bool   `yaml:"fail_fast" json:"fail_fast"`
}

type AppConfig struct {
	Database DBConfig     `yaml:"database" json:"database"`
	Output   OutputConfig `yaml:"output" json:"output"`
	Report   ReportConfig `yaml:"report" json:"report"`
	Verbose  bool         `yaml:"verbose" json:"verbose"`
}

// Default returns the configuration used when neither file nor flags set a value.
func Default() AppConfig {
	return AppConfig{
		Database: DBConfig{
			Type:           "sqlserver",
			Port:           DefaultPort,
			Auth:           AuthSQL,
			TimeoutSeconds: DefaultTimeout,
		},
		Output: OutputConfig{Dir: DefaultOutputDir},
		Report: ReportConfig{DateLayout: DefaultDateLayout, FailFast: true},
	}
}

// LoadFile loads YAML config from path on top of the defaults.
func LoadFile(path string) (AppConfig, error) {
	cfg := Default()
	f, err := os.ReadFile(path)
	if err != nil {
		return AppConfig{}, err
	}
	if err := yaml.Unmarshal(f, &cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Load builds the effective configuration.
// Precedence (highest to lowest): flags > config file > defaults.
// Only flags that were explicitly set override the file.
func Load(path string, flags *pflag.FlagSet) (AppConfig, error) {
	cfg := Default()
	if path != "" {
		c, err := LoadFile(path)
		if err != nil {
			return AppConfig{}, fmt.Errorf("read config %s: %w", path, err)
		}
		cfg = c
	}
	if flags != nil {
		if err := applyFlags(&cfg, flags); err != nil {
			return AppConfig{}, err
		}
	}
	cfg.Database.Type = NormalizeDriver(cfg.Database.Type)
	cfg.Database.Auth = strings.ToLower(strings.TrimSpace(cfg.Database.Auth))
	if err := Validate(cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// applyFlags copies every changed flag onto cfg.
func applyFlags(cfg *AppConfig, flags *pflag.FlagSet) error {
	var err error
	flags.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		v := f.Value.String()
		switch f.Name {
		case "server":
			cfg.Database.Host = v
		case "instance":
			cfg.Database.Instance = v
		case "port":
			cfg.Database.Port, err = strconv.Atoi(v)
		case "database":
			cfg.Database.DatabaseName = v
		case "auth":
			cfg.Database.Auth = v
		case "user":
			cfg.Database.Username = v
		case "password":
			cfg.Database.Password = v
		case "dsn":
			cfg.Database.DSN = v
		case "trust-server-certificate":
			cfg.Database.TrustServerCertificate, err = strconv.ParseBool(v)
		case "timeout":
			cfg.Database.TimeoutSeconds, err = strconv.Atoi(v)
		case "out":
			cfg.Output.Dir = v
		case "date-layout":
			cfg.Report.DateLayout = v
		case "fail-fast":
			cfg.Report.FailFast, err = strconv.ParseBool(v)
		case "verbose":
			cfg.Verbose, err = strconv.ParseBool(v)
		}
		if err != nil {
			err = fmt.Errorf("flag --%s: %w", f.Name, err)
		}
	})
	return err
}

// Validate checks the struct tags and the cross-field auth rules.
func Validate(cfg AppConfig) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	db := cfg.Database
	if db.DSN == "" && db.Auth == AuthSQL && db.Username == "" {
		return fmt.Errorf("invalid config: sql authentication needs a username")
	}
	return nil
}

// NormalizeDriver maps common aliases to canonical keys (keeps backwards compat).
func NormalizeDriver(d string) string {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case "mssql", "sqlserver", "":
		return "sqlserver"
	default:
		return strings.ToLower(d)
	}
}

// BuildDriverAndDSN produces the driver name and a go-mssqldb URL DSN.
func BuildDriverAndDSN(db DBConfig) (driver string, dsn string, err error) {
	t := NormalizeDriver(db.Type)
	if t != "sqlserver" {
		return "", "", fmt.Errorf("unsupported database type: %s", db.Type)
	}

	if db.DSN != "" {
		return t, db.DSN, nil
	}

	u := url.URL{Scheme: "sqlserver", Host: db.Host}
	if db.Port != 0 {
		u.Host = fmt.Sprintf("%s:%d", db.Host, db.Port)
	}
	if db.Instance != "" {
		u.Path = "/" + db.Instance
	}
	// windows authentication leaves the user out so the driver falls back to integrated security
	if db.Auth != AuthWindows {
		u.User = url.UserPassword(db.Username, db.Password)
	}
	q := url.Values{}
	q.Set("database", db.DatabaseName)
	if db.TrustServerCertificate {
		q.Set("TrustServerCertificate", "true")
	}
	u.RawQuery = q.Encode()
	return t, u.String(), nil
}
