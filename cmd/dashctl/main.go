// Command dashctl runs maintenance tasks against the dashboard database.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/EmpoweredVote/EV-Dashboard/internal/auth"
	"github.com/EmpoweredVote/EV-Dashboard/internal/config"
	"github.com/EmpoweredVote/EV-Dashboard/internal/db"
	"github.com/EmpoweredVote/EV-Dashboard/internal/logging"
	"github.com/EmpoweredVote/EV-Dashboard/internal/mailer"
	"github.com/EmpoweredVote/EV-Dashboard/internal/products"
	"github.com/EmpoweredVote/EV-Dashboard/internal/seeds"
	"github.com/EmpoweredVote/EV-Dashboard/internal/users"
	"github.com/spf13/cobra"
)

var (
	cfg config.Config
	// flushLogs syncs the logger installed by the root pre-run.
	flushLogs = func() {}
)

var rootCmd = &cobra.Command{
	Use:           "dashctl",
	Short:         "Maintenance tasks for the dashboard API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadEnvFiles()
		cfg = config.Load()
		if cfg.DatabaseURL == "" {
			return config.ErrMissingDatabaseURL
		}
		_, flush, err := logging.Install(cfg.IsProduction(), cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		flushLogs = flush

		d, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		db.DB = d
		return errors.Join(auth.Migrate(d), users.Migrate(d), products.Migrate(d))
	},
}

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo users and products from a YAML file",
	Long: `Insert demo users and products from a YAML file.

Existing users (same email) and products (same name and category) are
skipped, so the command can be run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := seeds.Load(seedFile)
		if err != nil {
			return err
		}
		rep, err := seeds.Apply(cmd.Context(), f)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "users: %d created, %d skipped\nproducts: %d created, %d skipped\n",
			rep.UsersCreated, rep.UsersSkipped, rep.ProductsCreated, rep.ProductsSkipped)
		return nil
	},
}

var (
	adminName  string
	adminEmail string
	adminRole  string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an account and print its generated password",
	RunE: func(cmd *cobra.Command, args []string) error {
		account, password, err := auth.CreateAccount(cmd.Context(), adminName, adminEmail, adminRole)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\npassword: %s\n", account.Email, account.Role, password)
		return nil
	},
}

var sendPasswordEmail string

var sendPasswordCmd = &cobra.Command{
	Use:   "send-password",
	Short: "Issue a new password for an account and email it",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Email.Enabled() {
			return mailer.ErrNotConfigured
		}
		account, err := auth.SendNewPassword(cmd.Context(), mailer.Shared(cfg.Email), sendPasswordEmail)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "new password sent to %s\n", account.Email)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "seeds/demo.yaml", "YAML seed file")

	createAdminCmd.Flags().StringVar(&adminName, "name", "", "display name")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "login email")
	createAdminCmd.Flags().StringVar(&adminRole, "role", auth.RoleAdmin, "admin or student")
	_ = createAdminCmd.MarkFlagRequired("name")
	_ = createAdminCmd.MarkFlagRequired("email")

	sendPasswordCmd.Flags().StringVar(&sendPasswordEmail, "email", "", "account email")
	_ = sendPasswordCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(seedCmd, createAdminCmd, sendPasswordCmd)
}

func main() {
	err := rootCmd.ExecuteContext(context.Background())
	flushLogs()
	if err != nil {
		fmt.Fprintln(os.Stderr, "dashctl:", err)
		os.Exit(1)
	}
}
