package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// fileConfig é o formato do arquivo apontado por CONFIG_FILE.
// Os valores ficam como string e passam pelos mesmos parsers das variáveis
// de ambiente.
type fileConfig struct {
	Server struct {
		Host            string `yaml:"host"`
		Port            string `yaml:"port"`
		ShutdownTimeout string `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Service struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"service"`
	Log struct {
		Env   string `yaml:"env"`
		Level string `yaml:"level"`
	} `yaml:"log"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	Rate struct {
		Enabled    string `yaml:"enabled"`
		RPS        string `yaml:"rps"`
		Burst      string `yaml:"burst"`
		KeyHeader  string `yaml:"key_header"`
		TrustXFF   string `yaml:"trust_xff"`
		RetryAfter string `yaml:"retry_after"`
		AddHeaders string `yaml:"add_headers"`
	} `yaml:"rate"`
	Concurrency struct {
		Max     string `yaml:"max"`
		Timeout string `yaml:"timeout"`
	} `yaml:"concurrency"`
	Stats struct {
		Enabled       string `yaml:"enabled"`
		RedisAddr     string `yaml:"redis_addr"`
		RedisPassword string `yaml:"redis_password"`
		RedisDB       string `yaml:"redis_db"`
		Prefix        string `yaml:"prefix"`
		TTL           string `yaml:"ttl"`
		Bucket        string `yaml:"bucket"`
		TrackKeys     string `yaml:"track_keys"`
	} `yaml:"stats"`
}

func readFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return parseFile(data)
}

func parseFile(data []byte) (map[string]string, error) {
	var fc fileConfig
	if err := yaml.UnmarshalStrict(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	// mesmas chaves das variáveis de ambiente
	return map[string]string{
		"HOST":                      fc.Server.Host,
		"PORT":                      fc.Server.Port,
		"SHUTDOWN_TIMEOUT":          fc.Server.ShutdownTimeout,
		"SERVICE_NAME":              fc.Service.Name,
		"SERVICE_VERSION":           fc.Service.Version,
		"APP_ENV":                   fc.Log.Env,
		"LOG_LEVEL":                 fc.Log.Level,
		"METRICS_ADDR":              fc.Metrics.Addr,
		"RATE_ENABLED":              fc.Rate.Enabled,
		"RATE_RPS":                  fc.Rate.RPS,
		"RATE_BURST":                fc.Rate.Burst,
		"RATE_KEY_HEADER":           fc.Rate.KeyHeader,
		"TRUST_XFF":                 fc.Rate.TrustXFF,
		"RETRY_AFTER":               fc.Rate.RetryAfter,
		"ADD_RATELIMIT_HEADERS":     fc.Rate.AddHeaders,
		"CONCURRENCY_MAX":           fc.Concurrency.Max,
		"CONCURRENCY_TIMEOUT":       fc.Concurrency.Timeout,
		"RATE_STATS_ENABLED":        fc.Stats.Enabled,
		"RATE_STATS_REDIS_ADDR":     fc.Stats.RedisAddr,
		"RATE_STATS_REDIS_PASSWORD": fc.Stats.RedisPassword,
		"RATE_STATS_REDIS_DB":       fc.Stats.RedisDB,
		"RATE_STATS_PREFIX":         fc.Stats.Prefix,
		"RATE_STATS_TTL":            fc.Stats.TTL,
		"RATE_STATS_BUCKET":         fc.Stats.Bucket,
		"RATE_STATS_TRACK_KEYS":     fc.Stats.TrackKeys,
	}, nil
}
