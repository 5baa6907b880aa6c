package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix namespaces every overriding variable
const EnvPrefix = "COFFEE_"

// LoadDotEnv reads path into the process environment without overriding existing variables
// A missing file is not an error
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// ApplyEnv overlays variables from lookup, os.LookupEnv when nil
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	e := envReader{lookup: lookup}

	e.str("STORE_BACKEND", &c.Store.Backend)
	e.str("STORE_DIR", &c.Store.Dir)
	e.str("STORE_KEY", &c.Store.Key)
	e.str("REDIS_ADDR", &c.Store.Redis.Addr)
	e.str("REDIS_PASSWORD", &c.Store.Redis.Password)
	e.integer("REDIS_DB", &c.Store.Redis.DB)
	e.boolean("REDIS_TLS", &c.Store.Redis.TLS)
	e.str("DB_USER", &c.Store.MySQL.User)
	e.str("DB_PASSWORD", &c.Store.MySQL.Password)
	e.str("DB_HOST", &c.Store.MySQL.Host)
	e.str("DB_PORT", &c.Store.MySQL.Port)
	e.str("DB_NAME", &c.Store.MySQL.Name)

	e.boolean("API_ENABLED", &c.API.Enabled)
	e.str("API_ADDR", &c.API.Addr)
	e.str("JWT_SECRET", &c.API.JWTSecret)
	e.duration("TOKEN_TTL", &c.API.TokenTTL)

	e.boolean("BROKER_ENABLED", &c.Broker.Enabled)
	e.str("AMQP_URL", &c.Broker.URL)
	e.str("BROKER_EXCHANGE", &c.Broker.Exchange)

	e.boolean("AUDIO_ENABLED", &c.Audio.Enabled)
	e.str("AUDIO_OUTPUT", &c.Audio.Output)
	e.str("CATALOG", &c.Catalog.Path)

	e.duration("TICK_INTERVAL", &c.Simulation.TickInterval)
	e.duration("PROCESS_EVERY", &c.Simulation.ProcessEvery)
	e.int64("SEED", &c.Simulation.Seed)

	return errors.Join(e.errs...)
}

type envReader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (e *envReader) get(key string) (string, bool) {
	v, ok := e.lookup(EnvPrefix + key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (e *envReader) fail(key string, err error) {
	e.errs = append(e.errs, fmt.Errorf("%w: %s%s: %w", ErrInvalidConfig, EnvPrefix, key, err))
}

func (e *envReader) str(key string, dst *string) {
	if v, ok := e.get(key); ok {
		*dst = v
	}
}

func (e *envReader) integer(key string, dst *int) {
	if v, ok := e.get(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			e.fail(key, err)
			return
		}
		*dst = n
	}
}

func (e *envReader) int64(key string, dst *int64) {
	if v, ok := e.get(key); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			e.fail(key, err)
			return
		}
		*dst = n
	}
}

func (e *envReader) boolean(key string, dst *bool) {
	if v, ok := e.get(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			e.fail(key, err)
			return
		}
		*dst = b
	}
}

func (e *envReader) duration(key string, dst *Duration) {
	if v, ok := e.get(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			e.fail(key, err)
			return
		}
		dst.Duration = d
	}
}
