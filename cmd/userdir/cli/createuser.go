package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"user-directory-service/cmd/userdir/di"
	"user-directory-service/internal/usecase/user"
	"user-directory-service/pkg/security"
)

// NewCreateUserCommand creates the create-user command.
func NewCreateUserCommand(opts *RootOptions) *cobra.Command {
	var req user.CreateUserRequest

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user directly in the configured backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, l, err := bootstrap(opts)
			if err != nil {
				return err
			}

			backend, _, err := di.NewBackend(cfg, l)
			if err != nil {
				return err
			}
			defer backend.Close()

			store := user.New(backend, security.NewBcryptHasher(cfg.Security.BcryptCost), l)
			resp, err := store.CreateUser(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created user %d: %s <%s>\n", resp.ID, resp.Name, resp.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "full name")
	cmd.Flags().StringVar(&req.Email, "email", "", "unique email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "initial password")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
