package config

import (
	"fmt"
	"strings"

	"github.com/Veraticus/the-books-must-balance/internal/common"
	"github.com/Veraticus/the-books-must-balance/internal/model"
	"github.com/spf13/viper"
)

// Keys read from viper.
const (
	KeyDatabasePath      = "database.path"
	KeyOwner             = "owner"
	KeyServerAddr        = "server.addr"
	KeyServerOwnerHeader = "server.owner_header"
	KeyWorkers           = "reports.workers"
	KeyAutoBackup        = "backups.auto"
	KeyLogLevel          = "logging.level"
	KeyLogFormat         = "logging.format"
)

// Config is the resolved configuration for one run of the command.
type Config struct {
	DatabasePath      string
	Owner             model.Owner
	ServerAddr        string
	ServerOwnerHeader string
	Workers           int
	AutoBackup        bool
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath())
	v.SetDefault(KeyServerAddr, ":8080")
	v.SetDefault(KeyServerOwnerHeader, "X-Owner-ID")
	v.SetDefault(KeyWorkers, 4)
	v.SetDefault(KeyAutoBackup, true)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
}

// Load reads a Config from v. The owner is not validated here since some
// commands (migrate, serve) do not act as a single owner.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabasePath:      ExpandPath(strings.TrimSpace(v.GetString(KeyDatabasePath))),
		Owner:             model.Owner(strings.TrimSpace(v.GetString(KeyOwner))),
		ServerAddr:        v.GetString(KeyServerAddr),
		ServerOwnerHeader: v.GetString(KeyServerOwnerHeader),
		Workers:           v.GetInt(KeyWorkers),
		AutoBackup:        v.GetBool(KeyAutoBackup),
	}

	if cfg.DatabasePath == "" {
		return nil, fmt.Errorf("%w: %s", common.ErrMissingConfig, KeyDatabasePath)
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("%w: %s must be at least 1, got %d", common.ErrInvalidConfig, KeyWorkers, cfg.Workers)
	}
	return cfg, nil
}
