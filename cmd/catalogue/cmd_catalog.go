package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogue/app/requests"
	"github.com/shashiranjanraj/catalogue/internal/kernel"
	"github.com/shashiranjanraj/catalogue/pkg/validate"
)

// catalogue cascade:reconcile
var reconcileCmd = &cobra.Command{
	Use:   "cascade:reconcile",
	Short: "Re-apply category status to products that drifted from it",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			k, err := kernel.Boot(cmd.Context(), kernel.WithDB(db))
			if err != nil {
				return err
			}
			defer k.Close()

			report, err := k.Catalog.Cascade.Reconcile(cmd.Context(), "cli")
			if err != nil {
				return err
			}
			fmt.Printf("checked %d categories, repaired %d (%d products), %d failed in %s\n",
				report.Checked, report.Repaired, report.ProductsFixed, report.Failed, report.Took)
			if report.Failed > 0 {
				return fmt.Errorf("%d categories could not be reconciled; see the log", report.Failed)
			}
			return nil
		})
	},
}

var newUser requests.CreateAdminUser

// catalogue user:create
var userCreateCmd = &cobra.Command{
	Use:   "user:create",
	Short: "Create an admin or editor account",
	RunE: func(cmd *cobra.Command, args []string) error {
		newUser.Email = strings.TrimSpace(newUser.Email)
		if errs := validate.Struct(&newUser); validate.HasErrors(errs) {
			return invalid(errs)
		}
		return withDB(func(db *gorm.DB) error {
			k, err := kernel.Boot(cmd.Context(), kernel.WithDB(db))
			if err != nil {
				return err
			}
			defer k.Close()

			u, err := k.Catalog.Auth.CreateUser(cmd.Context(), &newUser, "cli")
			if err != nil {
				return err
			}
			fmt.Printf("created %s user %s (%s)\n", u.Role, u.Email, u.ID)
			return nil
		})
	},
}

func invalid(errs map[string]string) error {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = "  " + k + ": " + errs[k]
	}
	return fmt.Errorf("invalid user:\n%s", strings.Join(lines, "\n"))
}

func init() {
	f := userCreateCmd.Flags()
	f.StringVar(&newUser.Email, "email", "", "login email")
	f.StringVar(&newUser.Name, "name", "", "display name")
	f.StringVar(&newUser.Password, "password", "", "password, 8 to 72 characters")
	f.StringVar(&newUser.Role, "role", "admin", "admin or editor")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("password")
}
