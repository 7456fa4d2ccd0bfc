package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"arc-framework/seeder/internal/seeding"
)

var adminReq seeding.CreateAdminRequest

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a super-admin account",
	Long: `Create-admin creates a super-admin user. The --secret value must match the
ADMIN_SECRET environment variable, which may be set in the .env file.

The created user is printed as JSON on stdout.`,
	RunE: runCreateAdmin,
}

func init() {
	f := createAdminCmd.Flags()
	f.StringVar(&adminReq.Email, "email", "", "admin email (required)")
	f.StringVar(&adminReq.Password, "password", "", "admin password (required)")
	f.StringVar(&adminReq.FirstName, "first-name", "", "admin first name (required)")
	f.StringVar(&adminReq.LastName, "last-name", "", "admin last name (required)")
	f.StringVar(&adminReq.Secret, "secret", "", "shared admin secret (required)")

	for _, name := range []string{"email", "password", "first-name", "last-name", "secret"} {
		_ = createAdminCmd.MarkFlagRequired(name)
	}
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	resp, err := app.seeder.CreateSuperAdmin(cmd.Context(), adminReq)
	if err != nil {
		printJSON(os.Stdout, map[string]any{
			"status":  "error",
			"kind":    seeding.KindOf(err).String(),
			"message": seeding.MessageOf(err),
		})
		return fmt.Errorf("create-admin: %s", seeding.MessageOf(err))
	}

	printJSON(os.Stdout, resp)
	return nil
}
