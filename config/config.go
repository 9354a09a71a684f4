package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Drivers aceitos pelo pool. "postgres" é registrado por lib/pq e "pgx" por pgx/v5/stdlib.
const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
)

type Config struct {
	Server struct {
		Port            string        `yaml:"port"`
		AllowedOrigins  []string      `yaml:"allowed_origins"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Log struct {
		Debug bool `yaml:"debug"`
	} `yaml:"log"`

	Database Database `yaml:"database"`
}

// Database agrupa as configurações de conexão e do pool.
type Database struct {
	Driver         string        `yaml:"driver"`
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	User           string        `yaml:"user"`
	Password       string        `yaml:"password"`
	DBName         string        `yaml:"dbname"`
	SSLMode        string        `yaml:"sslmode"`
	PoolSize       int           `yaml:"pool_size"`
	AcquireTimeout time.Duration `yaml:"acquire_timeout"`
	CreateSchema   bool          `yaml:"create_schema"`
}

// Default retorna a configuração usada quando nada é informado.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = "4000"
	cfg.Server.AllowedOrigins = []string{"*"}
	cfg.Server.ShutdownTimeout = 15 * time.Second
	cfg.Database = Database{
		Driver:   DriverPostgres,
		Host:     "localhost",
		Port:     5432,
		User:     "root",
		Password: "1234",
		DBName:   "planning",
		SSLMode:  "disable",
		PoolSize: 5,
	}
	return cfg
}

// Load monta a configuração: padrões, depois o arquivo YAML (se path não for vazio)
// e por último as variáveis de ambiente.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	// Substitui ${VAR} pelo valor do ambiente
	content := os.Expand(string(data), func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		return "${" + key + "}"
	})

	if err := yaml.Unmarshal([]byte(content), c); err != nil {
		return fmt.Errorf("error parsing config: %w", err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	var err error

	c.Server.Port = envString("SERVER_PORT", c.Server.Port)
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}
	if c.Server.ShutdownTimeout, err = envDuration("SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout); err != nil {
		return err
	}
	if c.Log.Debug, err = envBool("LOG_DEBUG", c.Log.Debug); err != nil {
		return err
	}

	db := &c.Database
	db.Driver = envString("DB_DRIVER", db.Driver)
	db.Host = envString("DB_HOST", db.Host)
	if db.Port, err = envInt("DB_PORT", db.Port); err != nil {
		return err
	}
	db.User = envString("DB_USER", db.User)
	db.Password = envString("DB_PASSWORD", db.Password)
	db.DBName = envString("DB_NAME", db.DBName)
	db.SSLMode = envString("DB_SSLMODE", db.SSLMode)
	if db.PoolSize, err = envInt("DB_POOL_SIZE", db.PoolSize); err != nil {
		return err
	}
	if db.AcquireTimeout, err = envDuration("DB_ACQUIRE_TIMEOUT", db.AcquireTimeout); err != nil {
		return err
	}
	if db.CreateSchema, err = envBool("DB_CREATE_SCHEMA", db.CreateSchema); err != nil {
		return err
	}
	return nil
}

// Validate confere os valores que impediriam o servidor de subir.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port must not be empty")
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverPgx:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.PoolSize < 1 {
		return fmt.Errorf("invalid pool size %d: must be at least 1", c.Database.PoolSize)
	}
	if c.Database.AcquireTimeout < 0 {
		return fmt.Errorf("invalid acquire timeout %s", c.Database.AcquireTimeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid shutdown timeout %s: must be positive", c.Server.ShutdownTimeout)
	}
	return nil
}

// DSN monta a string de conexão no formato chave=valor, aceito tanto por lib/pq quanto por pgx.
func (d Database) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		quote(d.Host), d.Port, quote(d.User), quote(d.Password), quote(d.DBName), quote(d.SSLMode))
}

func quote(value string) string {
	if value != "" && !strings.ContainsAny(value, ` '\`) {
		return value
	}
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `'`, `\'`)
	return "'" + value + "'"
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

func envBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return b, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
