package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"user-directory-service/cmd/userdir/app"
	"user-directory-service/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
}

// NewRootCommand creates the userdir command tree. Without a subcommand it serves.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	serve := NewServeCommand(opts)

	cmd := &cobra.Command{
		Use:           "userdir",
		Short:         "User directory service",
		Long:          "Stores user records (name, unique email, hashed password) and serves them over HTTP and gRPC.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	defaultPath := os.Getenv("CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = "."
	}
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", defaultPath, "directory containing app.env")

	cmd.AddCommand(serve)
	cmd.AddCommand(NewInitDBCommand(opts))
	cmd.AddCommand(NewCreateUserCommand(opts))

	return cmd
}

// bootstrap loads configuration and the logger shared by all commands.
func bootstrap(opts *RootOptions) (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	l, err := app.NewLogger(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, l, nil
}
