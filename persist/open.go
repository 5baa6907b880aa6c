package persist

import (
	"context"
	"fmt"
	"log"
)

// Backend names accepted by Open
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMySQL  = "mysql"
)

// Options selects and configures a store backend
type Options struct {
	Backend string
	Dir     string
	Redis   RedisOptions
	MySQL   MySQLOptions
}

// Open creates the configured store
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil

	case BackendFile:
		dir := opts.Dir
		if dir == "" {
			dir = "save"
		}
		return NewFileStore(dir)

	case BackendRedis:
		client, err := NewRedisClient(opts.Redis)
		if err != nil {
			return nil, err
		}
		log.Printf("store: redis at %s", client.Options().Addr)
		return NewRedisStore(client, opts.Redis.Prefix), nil

	case BackendMySQL:
		db, err := OpenMySQL(opts.MySQL)
		if err != nil {
			return nil, fmt.Errorf("mysql: %w", err)
		}
		s := NewSQLStore(db)
		if err := s.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		log.Printf("store: mysql at %s:%s/%s", opts.MySQL.Host, opts.MySQL.Port, opts.MySQL.Name)
		return s, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
