package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/octosync/internal/client/objectstore"
	"github.com/iudanet/octosync/internal/client/remote"
	"github.com/iudanet/octosync/internal/logging"
	"github.com/iudanet/octosync/internal/resilience"
)

// Виды удаленного хранилища
const (
	RemoteHTTP = "http"
	RemoteS3   = "s3"
	RemoteNone = "none"
)

// Client holds configuration of the octosync client binary.
type Client struct {
	// App is the prefix of local snapshot keys.
	App string `mapstructure:"app" default:"octopus"`
	// DBPath is the bbolt database file.
	DBPath string `mapstructure:"db_path" default:"octosync.db"`
	// Passphrase enables at-rest encryption of snapshots when set.
	Passphrase string `mapstructure:"passphrase" default:""`

	Log    logging.Config `mapstructure:"log"`
	Remote Remote         `mapstructure:"remote"`
	Sync   Sync           `mapstructure:"sync"`
}

// Remote selects and configures the authoritative store
type Remote struct {
	// Kind is http, s3 or none.
	Kind  string `mapstructure:"kind" default:"http"`
	URL   string `mapstructure:"url" default:"http://localhost:8080"`
	Token string `mapstructure:"token" default:""`

	S3 objectstore.Config `mapstructure:"s3"`
}

// Sync holds the timeout budgets and retry schedule of remote calls
type Sync struct {
	LookupTimeout time.Duration `mapstructure:"lookup_timeout" default:"5s"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout" default:"10s"`
	BulkTimeout   time.Duration `mapstructure:"bulk_timeout" default:"60s"`
	Backoff       time.Duration `mapstructure:"backoff" default:"1200ms"`
	MaxAttempts   int           `mapstructure:"max_attempts" default:"3"`
	// Concurrency limits collections reconciled in parallel by `sync`.
	Concurrency int `mapstructure:"concurrency" default:"4"`
	// StrictAuth stops retrying authorization failures.
	StrictAuth bool `mapstructure:"strict_auth" default:"false"`
}

// Validate проверяет согласованность конфигурации клиента
func (c *Client) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("db_path is required")
	}

	switch c.Remote.Kind {
	case RemoteHTTP:
		if c.Remote.URL == "" {
			return fmt.Errorf("remote.url is required for remote kind %q", c.Remote.Kind)
		}
	case RemoteS3:
		if c.Remote.S3.Endpoint == "" || c.Remote.S3.Bucket == "" {
			return fmt.Errorf("remote.s3.endpoint and remote.s3.bucket are required for remote kind %q", c.Remote.Kind)
		}
	case RemoteNone:
	default:
		return fmt.Errorf("unknown remote kind %q (want http, s3 or none)", c.Remote.Kind)
	}

	if c.Sync.MaxAttempts < 1 {
		return fmt.Errorf("sync.max_attempts must be at least 1")
	}

	return nil
}

// Policies builds the resilience policies from the sync section.
// Single lookups are never retried.
func (s Sync) Policies() resilience.Policies {
	retryable := remote.IsRetryable
	if s.StrictAuth {
		retryable = remote.IsRetryableStrict
	}

	policies := resilience.DefaultPolicies(retryable)
	policies.Lookup.Timeout = s.LookupTimeout

	policies.Write.Timeout = s.WriteTimeout
	policies.Write.Backoff = s.Backoff
	policies.Write.MaxAttempts = s.MaxAttempts

	policies.Bulk.Timeout = s.BulkTimeout
	policies.Bulk.Backoff = s.Backoff
	policies.Bulk.MaxAttempts = s.MaxAttempts

	return policies
}
