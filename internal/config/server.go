package config

import (
	"fmt"
	"time"

	"github.com/iudanet/octosync/internal/logging"
)

// Server holds configuration of the octosync-server binary.
type Server struct {
	// Addr is the listen address.
	Addr    string `mapstructure:"addr" default:":8080"`
	Version string `mapstructure:"version" default:""`

	Database  Database       `mapstructure:"database"`
	JWT       JWT            `mapstructure:"jwt"`
	RateLimit RateLimit      `mapstructure:"rate_limit"`
	Log       logging.Config `mapstructure:"log"`
}

// Database holds connection settings of the record store
type Database struct {
	// Driver is sqlite or postgres.
	Driver string `mapstructure:"driver" default:"sqlite"`
	DSN    string `mapstructure:"dsn" default:"octosync-server.db"`
}

// JWT holds token settings
type JWT struct {
	Secret string        `mapstructure:"secret" default:""`
	TTL    time.Duration `mapstructure:"ttl" default:"24h"`
}

// RateLimit ограничивает число запросов одного клиента за окно. Requests=0 отключает лимит.
type RateLimit struct {
	Requests int           `mapstructure:"requests" default:"120"`
	Window   time.Duration `mapstructure:"window" default:"1m"`
}

// Validate проверяет обязательные параметры сервера
func (s *Server) Validate() error {
	if s.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if s.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if len(s.JWT.Secret) < 16 {
		return fmt.Errorf("jwt.secret must be at least 16 characters")
	}
	if s.JWT.TTL <= 0 {
		return fmt.Errorf("jwt.ttl must be positive")
	}
	if s.RateLimit.Requests > 0 && s.RateLimit.Window <= 0 {
		return fmt.Errorf("rate_limit.window must be positive")
	}
	return nil
}
