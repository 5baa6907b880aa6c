// Package config loads runtime settings: an embedded TOML default, an optional file on top,
// then COFFEE_* environment variables
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/bunny-coffee/engine"
	"github.com/lixenwraith/bunny-coffee/navigation"
	"github.com/lixenwraith/bunny-coffee/parameter"
	"github.com/lixenwraith/bunny-coffee/persist"
)

var ErrInvalidConfig = errors.New("invalid config")

//go:embed default.toml
var defaultConfig []byte

// Duration decodes "1.5s" style strings
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Timers are the phase durations shared by all actors
type Timers struct {
	Think   Duration `toml:"think"`
	Explain Duration `toml:"explain"`
	Receive Duration `toml:"receive"`
	Consume Duration `toml:"consume"`
	Review  Duration `toml:"review"`
	Ask     Duration `toml:"ask"`
	Deliver Duration `toml:"deliver"`
	Finish  Duration `toml:"finish"`
}

type Simulation struct {
	TickInterval     Duration `toml:"tick_interval"`
	ProcessEvery     Duration `toml:"process_every"`
	SpawnInterval    Duration `toml:"spawn_interval"`
	MinSpawnInterval Duration `toml:"min_spawn_interval"`
	MaxCustomers     int      `toml:"max_customers"`
	MaxEmployees     int      `toml:"max_employees"`
	Seed             int64    `toml:"seed"`
	Timers           Timers   `toml:"timers"`
}

// Mover kinds
const (
	MoverInstant = "instant"
	MoverLinear  = "linear"
)

type Navigation struct {
	Mover            string  `toml:"mover"`
	Speed            float64 `toml:"speed"`
	StoppingDistance float64 `toml:"stopping_distance"`
}

type Bar struct {
	Customer navigation.Position `toml:"customer"`
	Employee navigation.Position `toml:"employee"`
}

type Station struct {
	Type     string              `toml:"type"`
	Position navigation.Position `toml:"position"`
}

// Layout replaces the built-in floor plan when it lists any queue position
type Layout struct {
	Queue         []navigation.Position `toml:"queue"`
	Bars          []Bar                 `toml:"bars"`
	Tables        []navigation.Position `toml:"tables"`
	Idle          []navigation.Position `toml:"idle"`
	Stations      []Station             `toml:"stations"`
	CustomerExit  navigation.Position   `toml:"customer_exit"`
	EmployeeEntry navigation.Position   `toml:"employee_entry"`
}

type Catalog struct {
	Path string `toml:"path"`
}

type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	TLS      bool   `toml:"tls"`
	Prefix   string `toml:"prefix"`
}

type MySQL struct {
	User     string `toml:"user"`
	Password string `toml:"password"`
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Name     string `toml:"name"`
}

type Store struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
	Key     string `toml:"key"`
	Redis   Redis  `toml:"redis"`
	MySQL   MySQL  `toml:"mysql"`
}

type API struct {
	Enabled   bool     `toml:"enabled"`
	Addr      string   `toml:"addr"`
	JWTSecret string   `toml:"jwt_secret"`
	TokenTTL  Duration `toml:"token_ttl"`
}

type Broker struct {
	Enabled  bool   `toml:"enabled"`
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
	Buffer   int    `toml:"buffer"`
}

// Audio outputs
const (
	AudioPipe    = "pipe"
	AudioSpeaker = "speaker"
)

type Audio struct {
	Enabled bool    `toml:"enabled"`
	Output  string  `toml:"output"`
	Volume  float64 `toml:"volume"`
}

// Config is the full runtime configuration
type Config struct {
	Simulation Simulation `toml:"simulation"`
	Navigation Navigation `toml:"navigation"`
	Layout     Layout     `toml:"layout"`
	Catalog    Catalog    `toml:"catalog"`
	Store      Store      `toml:"store"`
	API        API        `toml:"api"`
	Broker     Broker     `toml:"broker"`
	Audio      Audio      `toml:"audio"`
}

// Default returns the embedded configuration
func Default() *Config {
	var c Config
	if _, err := toml.NewDecoder(bytes.NewReader(defaultConfig)).Decode(&c); err != nil {
		panic(fmt.Sprintf("config: embedded default is invalid: %v", err))
	}
	return &c
}

// Load decodes path over the embedded default; an empty path keeps the default
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if _, err := toml.Decode(string(data), c); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	return c, nil
}

// Validate checks values the world and front ends cannot repair
func (c *Config) Validate() error {
	switch c.Navigation.Mover {
	case MoverInstant, MoverLinear:
	default:
		return fmt.Errorf("%w: unknown mover %q", ErrInvalidConfig, c.Navigation.Mover)
	}
	if c.Navigation.Mover == MoverLinear && c.Navigation.Speed <= 0 {
		return fmt.Errorf("%w: linear mover needs a positive speed", ErrInvalidConfig)
	}
	switch c.Store.Backend {
	case persist.BackendMemory, persist.BackendFile, persist.BackendRedis, persist.BackendMySQL:
	default:
		return fmt.Errorf("%w: unknown store backend %q", ErrInvalidConfig, c.Store.Backend)
	}
	switch c.Audio.Output {
	case AudioPipe, AudioSpeaker:
	default:
		return fmt.Errorf("%w: unknown audio output %q", ErrInvalidConfig, c.Audio.Output)
	}
	if c.Broker.Enabled && c.Broker.Buffer <= 0 {
		return fmt.Errorf("%w: broker buffer must be positive", ErrInvalidConfig)
	}
	if _, err := c.WorldOptions(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// WorldOptions converts the simulation and layout sections
func (c *Config) WorldOptions() (engine.Options, error) {
	s := c.Simulation
	o := engine.Options{
		ProcessEvery:     s.ProcessEvery.Duration,
		SpawnInterval:    s.SpawnInterval.Duration,
		MinSpawnInterval: s.MinSpawnInterval.Duration,
		MaxCustomers:     s.MaxCustomers,
		MaxEmployees:     s.MaxEmployees,
		Seed:             s.Seed,
		Timers: engine.Timers{
			Think:   s.Timers.Think.Duration,
			Explain: s.Timers.Explain.Duration,
			Receive: s.Timers.Receive.Duration,
			Consume: s.Timers.Consume.Duration,
			Review:  s.Timers.Review.Duration,
			Ask:     s.Timers.Ask.Duration,
			Deliver: s.Timers.Deliver.Duration,
			Finish:  s.Timers.Finish.Duration,
		},
		Layout: engine.DefaultLayout(),
	}
	if l := c.Layout; len(l.Queue) > 0 {
		o.Layout = engine.Layout{
			Queue:         l.Queue,
			Tables:        l.Tables,
			Idle:          l.Idle,
			CustomerExit:  l.CustomerExit,
			EmployeeEntry: l.EmployeeEntry,
		}
		for _, b := range l.Bars {
			o.Layout.Bars = append(o.Layout.Bars, engine.BarLayout{Customer: b.Customer, Employee: b.Employee})
		}
		for _, st := range l.Stations {
			o.Layout.Stations = append(o.Layout.Stations, engine.StationLayout{TypeID: st.Type, Position: st.Position})
		}
	}
	return o, o.Validate()
}

// Mover builds the configured movement collaborator
func (c *Config) Mover() navigation.Mover {
	if c.Navigation.Mover == MoverInstant {
		return navigation.NewInstantMover()
	}
	return navigation.NewLinearMover(c.Navigation.Speed, c.Navigation.StoppingDistance)
}

// StoreOptions converts the store section
func (c *Config) StoreOptions() persist.Options {
	s := c.Store
	return persist.Options{
		Backend: s.Backend,
		Dir:     s.Dir,
		Redis: persist.RedisOptions{
			Addr:     s.Redis.Addr,
			Password: s.Redis.Password,
			DB:       s.Redis.DB,
			TLS:      s.Redis.TLS,
			Prefix:   s.Redis.Prefix,
		},
		MySQL: persist.MySQLOptions{
			User:     s.MySQL.User,
			Password: s.MySQL.Password,
			Host:     s.MySQL.Host,
			Port:     s.MySQL.Port,
			Name:     s.MySQL.Name,
		},
	}
}

// SaveKey returns the preference key, falling back to the versioned default
func (c *Config) SaveKey() string {
	if c.Store.Key == "" {
		return parameter.SaveDataKey
	}
	return c.Store.Key
}
