// Package bootstrap loads configuration, logging and the database for the
// command line entry points.
package bootstrap

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tillgate/tillgate/internal/infrastructure/config"
	"github.com/tillgate/tillgate/internal/infrastructure/database"
	"github.com/tillgate/tillgate/internal/shared/biztime"
	"github.com/tillgate/tillgate/internal/shared/logger"
)

// Flags are the persistent flags every command accepts.
type Flags struct {
	Env        string
	ConfigPath string
}

// Register adds --env and --config as persistent flags on cmd.
func (f *Flags) Register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&f.Env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&f.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
}

// Environment returns the ENV variable when set, otherwise the flag value.
func (f *Flags) Environment() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return f.Env
}

// Runtime bundles what a command needs once bootstrapped.
type Runtime struct {
	Env    string
	Config *config.Config
	Logger logger.Interface
	DB     *gorm.DB
}

// LoadConfig reads the configuration and initializes the process logger
// without touching the database.
func LoadConfig(f *Flags) (*Runtime, error) {
	env := f.Environment()

	cfg, err := config.Load(env, f.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = GinMode(env)

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	return &Runtime{
		Env:    env,
		Config: cfg,
		Logger: logger.NewLogger(),
	}, nil
}

// Open is LoadConfig followed by opening the configured database.
func Open(f *Flags) (*Runtime, error) {
	rt, err := LoadConfig(f)
	if err != nil {
		return nil, err
	}

	if err := database.Init(&rt.Config.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	rt.DB = database.Get()

	return rt, nil
}

// Close releases the database connection and flushes the logger.
func (r *Runtime) Close() {
	if r.DB != nil {
		if err := database.Close(); err != nil {
			r.Logger.Errorw("failed to close database", "error", err)
		}
	}
	_ = logger.Sync()
}

// GinMode maps an environment name onto a gin mode.
func GinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return gin.ReleaseMode
	case "test", "testing":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
