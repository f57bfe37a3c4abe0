// Package config resolve a configuração do serviço.
//
// Ordem de precedência: valores padrão, depois o arquivo YAML opcional
// (CONFIG_FILE) e por fim as variáveis de ambiente. Qualquer valor mal formado
// é erro: nada cai silenciosamente no padrão.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPort = 8000
	DefaultHost = "0.0.0.0"
	DefaultName = "Go"
)

type Config struct {
	Host            string
	Port            int
	ServiceName     string
	ServiceVersion  string
	Env             string
	LogLevel        string
	ShutdownTimeout time.Duration
	MetricsAddr     string

	Rate        RateConfig
	Concurrency ConcurrencyConfig
	Stats       StatsConfig
}

type RateConfig struct {
	Enabled    bool
	RPS        float64
	Burst      int
	KeyHeader  string
	TrustXFF   bool
	RetryAfter time.Duration
	AddHeaders bool
}

type ConcurrencyConfig struct {
	Max     int
	Timeout time.Duration
}

type StatsConfig struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Prefix        string
	TTL           time.Duration
	Bucket        string
	TrackKeys     bool
}

// ListenAddr é o endereço host:porta passado ao listener.
func (c Config) ListenAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Lookup tem a mesma assinatura de os.LookupEnv.
type Lookup func(key string) (string, bool)

// Load lê a configuração do ambiente do processo.
func Load() (Config, error) {
	return LoadFrom(os.LookupEnv)
}

// LoadFrom lê a configuração a partir de uma fonte arbitrária (útil em testes).
func LoadFrom(lookup Lookup) (Config, error) {
	r := &reader{lookup: lookup}

	if path, ok := lookup("CONFIG_FILE"); ok && strings.TrimSpace(path) != "" {
		file, err := readFile(path)
		if err != nil {
			return Config{}, err
		}
		r.file = file
	}

	cfg := Config{}
	cfg.Host = r.strVal("HOST", DefaultHost)
	cfg.Port = r.intVal("PORT", DefaultPort)
	cfg.ServiceName = r.strVal("SERVICE_NAME", DefaultName)
	cfg.ServiceVersion = r.strVal("SERVICE_VERSION", "0.1.0")
	cfg.Env = r.strVal("APP_ENV", "prod")
	cfg.LogLevel = r.strVal("LOG_LEVEL", "info")
	cfg.ShutdownTimeout = r.durationVal("SHUTDOWN_TIMEOUT", 10*time.Second)
	cfg.MetricsAddr = r.strVal("METRICS_ADDR", "")

	cfg.Rate.Enabled = r.boolVal("RATE_ENABLED", false)
	cfg.Rate.RPS = r.floatVal("RATE_RPS", 10)
	// burst alto com RPS fracionário faz parecer que o limite não funciona:
	// as primeiras ~20 requisições passam direto.
	if r.isSet("RATE_BURST") {
		cfg.Rate.Burst = r.intVal("RATE_BURST", 20)
	} else {
		cfg.Rate.Burst = 20
		if r.isSet("RATE_RPS") && cfg.Rate.RPS > 0 && cfg.Rate.RPS < 1 {
			cfg.Rate.Burst = 1
		}
	}
	cfg.Rate.KeyHeader = r.strVal("RATE_KEY_HEADER", "")
	cfg.Rate.TrustXFF = r.boolVal("TRUST_XFF", false)
	cfg.Rate.RetryAfter = r.durationVal("RETRY_AFTER", 1*time.Second)
	cfg.Rate.AddHeaders = r.boolVal("ADD_RATELIMIT_HEADERS", false)

	cfg.Concurrency.Max = r.intVal("CONCURRENCY_MAX", 0)
	cfg.Concurrency.Timeout = r.durationVal("CONCURRENCY_TIMEOUT", 0)

	cfg.Stats.Enabled = r.boolVal("RATE_STATS_ENABLED", false)
	cfg.Stats.RedisAddr = r.strVal("RATE_STATS_REDIS_ADDR", "")
	cfg.Stats.RedisPassword = r.strVal("RATE_STATS_REDIS_PASSWORD", "")
	cfg.Stats.RedisDB = r.intVal("RATE_STATS_REDIS_DB", 0)
	cfg.Stats.Prefix = r.strVal("RATE_STATS_PREFIX", "ratelimit:stats")
	cfg.Stats.TTL = r.durationVal("RATE_STATS_TTL", 24*time.Hour)
	cfg.Stats.Bucket = strings.ToLower(r.strVal("RATE_STATS_BUCKET", "minute"))
	cfg.Stats.TrackKeys = r.boolVal("RATE_STATS_TRACK_KEYS", false)

	if err := errors.Join(r.errs...); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checa as regras entre campos já convertidos.
func (c Config) Validate() error {
	var errs []error
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 0 and 65535, got %d", c.Port))
	}
	if strings.TrimSpace(c.ServiceName) == "" {
		errs = append(errs, errors.New("SERVICE_NAME must not be empty"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be > 0"))
	}
	if c.Rate.Enabled {
		if c.Rate.RPS <= 0 {
			errs = append(errs, errors.New("RATE_RPS must be > 0"))
		}
		if c.Rate.Burst <= 0 {
			errs = append(errs, errors.New("RATE_BURST must be > 0"))
		}
	}
	if c.Concurrency.Max < 0 {
		errs = append(errs, errors.New("CONCURRENCY_MAX must be >= 0"))
	}
	if c.Stats.Enabled {
		if !c.Rate.Enabled {
			errs = append(errs, errors.New("RATE_STATS_ENABLED requires RATE_ENABLED=true"))
		}
		if strings.TrimSpace(c.Stats.RedisAddr) == "" {
			errs = append(errs, errors.New("RATE_STATS_REDIS_ADDR is required when RATE_STATS_ENABLED=true"))
		}
	}
	if c.Stats.Bucket != "minute" && c.Stats.Bucket != "none" {
		errs = append(errs, fmt.Errorf("RATE_STATS_BUCKET must be minute or none, got %q", c.Stats.Bucket))
	}
	return errors.Join(errs...)
}

// reader junta ambiente e arquivo e acumula os erros de conversão.
type reader struct {
	lookup Lookup
	file   map[string]string
	errs   []error
}

// raw devolve o valor da variável. Variável presente no ambiente vale mesmo
// vazia (PORT="" é erro, não default); no arquivo, vazio equivale a ausente.
func (r *reader) raw(k string) (string, bool) {
	if v, ok := r.lookup(k); ok {
		return v, true
	}
	if v, ok := r.file[k]; ok && v != "" {
		return v, true
	}
	return "", false
}

func (r *reader) isSet(k string) bool {
	_, ok := r.raw(k)
	return ok
}

func (r *reader) strVal(k, def string) string {
	if v, ok := r.raw(k); ok {
		return v
	}
	return def
}

func (r *reader) intVal(k string, def int) int {
	v, ok := r.raw(k)
	if !ok {
		return def
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid integer %q", k, v))
		return def
	}
	return i
}

func (r *reader) floatVal(k string, def float64) float64 {
	v, ok := r.raw(k)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid number %q", k, v))
		return def
	}
	return f
}

func (r *reader) boolVal(k string, def bool) bool {
	v, ok := r.raw(k)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid boolean %q", k, v))
		return def
	}
	return b
}

func (r *reader) durationVal(k string, def time.Duration) time.Duration {
	v, ok := r.raw(k)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid duration %q", k, v))
		return def
	}
	return d
}
