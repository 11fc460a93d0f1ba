package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"user-directory-service/cmd/userdir/infrastructure"
	"user-directory-service/internal/adapter/db/relational"
	"user-directory-service/internal/config"
)

// NewInitDBCommand creates the init-db command.
func NewInitDBCommand(opts *RootOptions) *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "init-db",
		Short: "Create the users table and verify the database is writable",
		Long: `Create the users table and its unique email index if they do not exist,
then verify that the database accepts writes.

With --reset the users table is dropped first. All records are lost.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, l, err := bootstrap(opts)
			if err != nil {
				return err
			}
			if cfg.DB.Backend == config.BackendMemory {
				return errors.New("init-db needs a durable backend, STORAGE_BACKEND is memory")
			}

			db, err := infrastructure.NewDatabase(cfg, l)
			if err != nil {
				return err
			}
			repo := relational.NewUserRepo(db, l)
			defer repo.Close()

			if reset {
				if err := relational.Reset(db); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "dropped existing users table")
			}

			if err := verifyWritable(db); err != nil {
				return err
			}

			tables, err := db.Migrator().GetTables()
			if err != nil {
				return fmt.Errorf("failed to list tables: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "database ready (%s), tables: %v\n", cfg.DB.Backend, tables)
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "drop the users table before creating it")
	return cmd
}

// verifyWritable creates and drops a scratch table.
func verifyWritable(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("CREATE TABLE IF NOT EXISTS userdir_write_check (id INTEGER)").Error; err != nil {
			return fmt.Errorf("database is not writable: %w", err)
		}
		if err := tx.Exec("DROP TABLE userdir_write_check").Error; err != nil {
			return fmt.Errorf("database is not writable: %w", err)
		}
		return nil
	})
}
