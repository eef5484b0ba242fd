package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"bizledger/internal/models"
	"bizledger/internal/services"
)

var (
	adminEmail    string
	adminName     string
	adminPassword string
)

// createAdminCmd bootstraps a privileged user.
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin user",
	Long: `Create a user with the admin role. Admins approve and reject
transactions, and their own submissions are approved immediately.

Example:
  ledgerctl create-admin --email cfo@example.com --name "CFO" --password s3cret-pass`,
	RunE: runCreateAdmin,
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "admin email (required)")
	createAdminCmd.Flags().StringVar(&adminName, "name", "", "display name")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "initial password (required)")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	db, closeDB, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB()

	name := adminName
	if name == "" {
		name = adminEmail
	}
	user, err := services.NewUserService(db).CreateUser(name, adminEmail, adminPassword, models.RoleAdmin)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s (%s)\n", user.Email, user.ID)
	return nil
}
