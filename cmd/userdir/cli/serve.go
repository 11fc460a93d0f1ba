package cli

import (
	"github.com/spf13/cobra"

	"user-directory-service/cmd/userdir/app"
	"user-directory-service/cmd/userdir/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and gRPC servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, l, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer func() { _ = app.SyncLogger(l) }()

			ctx, stop := server.WithSignal(cmd.Context())
			defer stop()

			a, err := app.New(ctx, cfg, l)
			if err != nil {
				return err
			}
			return a.Run(ctx)
		},
	}
}
