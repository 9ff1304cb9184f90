package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/skandal1st/loungepos/config"
	"github.com/skandal1st/loungepos/core/auth"
	"github.com/skandal1st/loungepos/model/entity"
)

var (
	tenantName string
	tenantSlug string
	tenantPlan uint
	trialDays  int
	adminUser  string
	adminPass  string
	adminName  string
	userRole   string
	userTenant uint
)

// tenant:create bootstraps a lounge: tenant row, trialing subscription on
// the chosen plan, and the first admin account.
var tenantCreateCmd = &cobra.Command{
	Use:   "tenant:create",
	Short: "Create a tenant with a trial subscription and an admin user",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			os.Exit(1)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			tenant := &entity.Tenant{Name: tenantName, Slug: tenantSlug, Active: true}
			if err := tx.Create(tenant).Error; err != nil {
				return err
			}

			periodEnd := time.Now().AddDate(0, 0, trialDays)
			sub := &entity.Subscription{
				TenantID:         tenant.ID,
				PlanID:           tenantPlan,
				Status:           entity.SubscriptionTrialing,
				CurrentPeriodEnd: &periodEnd,
			}
			if err := tx.Create(sub).Error; err != nil {
				return err
			}

			hash, err := auth.HashPassword(adminPass)
			if err != nil {
				return err
			}
			admin := &entity.User{
				TenantID: tenant.ID,
				Username: adminUser,
				Password: hash,
				Name:     adminName,
				Role:     entity.RoleAdmin,
				Active:   true,
			}
			if err := tx.Create(admin).Error; err != nil {
				return err
			}

			fmt.Printf("Tenant %q created (id=%d), trial until %s, admin %q\n",
				tenant.Name, tenant.ID, periodEnd.Format("2006-01-02"), admin.Username)
			return nil
		})
		if err != nil {
			fmt.Printf("Tenant create failed: %v\n", err)
			os.Exit(1)
		}
	},
}

var userCreateCmd = &cobra.Command{
	Use:   "user:create",
	Short: "Create a user in an existing tenant",
	Run: func(cmd *cobra.Command, args []string) {
		if userRole != entity.RoleAdmin && userRole != entity.RoleCashier {
			fmt.Printf("Unknown role: %s\n", userRole)
			os.Exit(1)
		}
		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			os.Exit(1)
		}
		hash, err := auth.HashPassword(adminPass)
		if err != nil {
			fmt.Printf("Password hash failed: %v\n", err)
			os.Exit(1)
		}
		user := &entity.User{
			TenantID: userTenant,
			Username: adminUser,
			Password: hash,
			Name:     adminName,
			Role:     userRole,
			Active:   true,
		}
		if err := db.Create(user).Error; err != nil {
			fmt.Printf("User create failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("User %q created (id=%d, role=%s)\n", user.Username, user.ID, user.Role)
	},
}

func init() {
	tenantCreateCmd.Flags().StringVar(&tenantName, "name", "", "Tenant display name (required)")
	tenantCreateCmd.Flags().StringVar(&tenantSlug, "slug", "", "Unique tenant slug (required)")
	tenantCreateCmd.Flags().UintVar(&tenantPlan, "plan", 1, "Plan ID for the trial subscription")
	tenantCreateCmd.Flags().IntVar(&trialDays, "trial-days", 14, "Trial period length in days")
	tenantCreateCmd.Flags().StringVar(&adminUser, "admin-user", "", "Admin username (required)")
	tenantCreateCmd.Flags().StringVar(&adminPass, "admin-pass", "", "Admin password (required)")
	tenantCreateCmd.Flags().StringVar(&adminName, "admin-name", "Administrator", "Admin display name")
	tenantCreateCmd.MarkFlagRequired("name")
	tenantCreateCmd.MarkFlagRequired("slug")
	tenantCreateCmd.MarkFlagRequired("admin-user")
	tenantCreateCmd.MarkFlagRequired("admin-pass")
	rootCmd.AddCommand(tenantCreateCmd)

	userCreateCmd.Flags().UintVar(&userTenant, "tenant", 0, "Tenant ID (required)")
	userCreateCmd.Flags().StringVar(&adminUser, "user", "", "Username (required)")
	userCreateCmd.Flags().StringVar(&adminPass, "pass", "", "Password (required)")
	userCreateCmd.Flags().StringVar(&adminName, "display-name", "", "Display name")
	userCreateCmd.Flags().StringVar(&userRole, "role", entity.RoleCashier, "Role: admin or cashier")
	userCreateCmd.MarkFlagRequired("tenant")
	userCreateCmd.MarkFlagRequired("user")
	userCreateCmd.MarkFlagRequired("pass")
	rootCmd.AddCommand(userCreateCmd)
}
