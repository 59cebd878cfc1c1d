package cli

import (
	"github.com/spf13/cobra"

	"taskTracker/internal/config"
)

// Global flags
var (
	configFile string
	devMode    bool
)

// NewRootCommand builds the command tree. Running it without a subcommand serves the API.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tasktracker",
		Short: "Task tracker API server",
		Long: `tasktracker serves a per-user todo list over HTTP/JSON with
password login, bearer tokens and security-question password recovery.

Configuration comes from an optional YAML or TOML file (--config) and
environment variables (DB_PATH, HTTP_ADDRESS, GRPC_ADDRESS, JWT_SECRET,
TOKEN_TTL, BCRYPT_COST, LOG_LEVEL, LOG_FORMAT, CORS_ORIGINS).`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (.yaml, .yml or .toml)")
	rootCmd.PersistentFlags().BoolVar(&devMode, "dev", false, "allow a built-in JWT secret when none is configured (development only)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newUsersCmd())
	return rootCmd
}

func loadConfig() (*config.Config, error) {
	if devMode {
		return config.LoadWithDefaults(configFile)
	}
	return config.Load(configFile)
}
