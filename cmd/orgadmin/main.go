// cmd/orgadmin/main.go
//
// orgadmin is the operator console: user provisioning and the
// organization hierarchy are managed from here, not from the public API.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harborgate/tenancy/internal/auth"
	"github.com/harborgate/tenancy/internal/config"
	"github.com/harborgate/tenancy/internal/model"
	"github.com/harborgate/tenancy/internal/repository"
	"github.com/harborgate/tenancy/internal/service"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	dbConnString string
	verbose      bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbConnString, "db", "d", "", "Database connection string (defaults to environment configuration)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	usersCmd.AddCommand(userCreateCmd)

	orgsCmd.AddCommand(orgListCmd)
	orgsCmd.AddCommand(orgTreeCmd)
	orgsCmd.AddCommand(orgCreateCmd)
	orgsCmd.AddCommand(orgUpdateCmd)
	orgsCmd.AddCommand(orgDeleteCmd)
	orgsCmd.AddCommand(orgMembersCmd)
	orgsCmd.AddCommand(orgOwnerCmd)

	orgMembersCmd.AddCommand(orgMembersListCmd)
	orgMembersCmd.AddCommand(orgMembersAddCmd)
	orgMembersCmd.AddCommand(orgMembersRemoveCmd)

	orgOwnerCmd.AddCommand(orgOwnerShowCmd)
	orgOwnerCmd.AddCommand(orgOwnerSetCmd)
	orgOwnerCmd.AddCommand(orgOwnerClearCmd)

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(orgsCmd)
}

var rootCmd = &cobra.Command{
	Use:   "orgadmin",
	Short: "orgadmin manages users and the organization hierarchy",
	Long:  `orgadmin is the operator CLI for provisioning users and administering the organization tree.`,
}

func dsn() string {
	if dbConnString != "" {
		return dbConnString
	}
	cfg := config.Load()
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
		cfg.Database.SearchPath,
	)
}

func openGorm() *gorm.DB {
	logMode := logger.Silent
	if verbose {
		logMode = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn()), &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the database schema",
	Long:  `Create the required extensions and tables.`,
	Run: func(cmd *cobra.Command, args []string) {
		db, err := sql.Open("postgres", dsn())
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			log.Fatalf("Failed to reach database: %v", err)
		}

		for _, ext := range []string{"citext", "pgcrypto"} {
			if _, err := db.Exec(fmt.Sprintf("CREATE EXTENSION IF NOT EXISTS %q", ext)); err != nil {
				log.Fatalf("Failed to create extension %s: %v", ext, err)
			}
		}

		gdb := openGorm()
		if err := gdb.AutoMigrate(
			&model.User{},
			&model.Account{},
			&model.AccountUser{},
			&model.Organization{},
			&model.OrganizationUser{},
			&model.OrganizationOwner{},
			&model.AccessAuditLog{},
		); err != nil {
			log.Fatalf("Failed to migrate schema: %v", err)
		}

		fmt.Println("Schema initialized successfully")
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage users",
}

var (
	userEmail     string
	userFirstName string
	userLastName  string
	userPassword  string
	userIsStaff   bool
)

func init() {
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "Email address")
	userCreateCmd.Flags().StringVar(&userFirstName, "first-name", "", "First name")
	userCreateCmd.Flags().StringVar(&userLastName, "last-name", "", "Last name")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "Initial password")
	userCreateCmd.Flags().BoolVar(&userIsStaff, "staff", false, "Grant staff access")
	userCreateCmd.MarkFlagRequired("email")
	userCreateCmd.MarkFlagRequired("first-name")
	userCreateCmd.MarkFlagRequired("password")
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Provision a user",
	Run: func(cmd *cobra.Command, args []string) {
		db := openGorm()
		userRepo := repository.NewUserRepository(db)
		userService := service.NewUserService(userRepo, auth.NewPasswordHasher(), nil, nil, config.Load())

		user, err := userService.CreateUser(context.Background(), service.CreateUserInput{
			Email:     userEmail,
			FirstName: userFirstName,
			LastName:  userLastName,
			Password:  userPassword,
			IsStaff:   userIsStaff,
		})
		if err != nil {
			log.Fatalf("Failed to create user: %v", err)
		}

		fmt.Printf("Created user %s (%s)\n", user.Email, user.ID)
	},
}

var orgsCmd = &cobra.Command{
	Use:   "orgs",
	Short: "Manage the organization hierarchy",
}

func orgService() *service.OrganizationService {
	db := openGorm()
	return service.NewOrganizationService(
		repository.NewOrganizationRepository(db),
		repository.NewUserRepository(db),
	)
}

var orgListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all organizations",
	Run: func(cmd *cobra.Command, args []string) {
		orgs, err := orgService().ListOrganizations(context.Background())
		if err != nil {
			log.Fatalf("Failed to list organizations: %v", err)
		}

		for _, org := range orgs {
			state := "active"
			if !org.IsActive {
				state = "inactive"
			}
			fmt.Printf("%s  %-30s %-20s %s\n", org.ID, org.Name, org.Slug, state)
		}
	},
}

var orgTreeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the organization hierarchy",
	Run: func(cmd *cobra.Command, args []string) {
		roots, err := orgService().Tree(context.Background())
		if err != nil {
			log.Fatalf("Failed to build organization tree: %v", err)
		}

		var printNode func(node *service.OrgNode, depth int)
		printNode = func(node *service.OrgNode, depth int) {
			fmt.Printf("%s%s (%s)\n", strings.Repeat("  ", depth), node.Organization.Name, node.Organization.ID)
			for _, child := range node.Children {
				printNode(child, depth+1)
			}
		}

		for _, root := range roots {
			printNode(root, 0)
		}
	},
}

var (
	orgName     string
	orgSlug     string
	orgParentID string
	orgInactive bool
)

func init() {
	for _, c := range []*cobra.Command{orgCreateCmd, orgUpdateCmd} {
		c.Flags().StringVar(&orgName, "name", "", "Organization name")
		c.Flags().StringVar(&orgSlug, "slug", "", "URL slug")
		c.Flags().StringVar(&orgParentID, "parent", "", "Parent organization id")
		c.Flags().BoolVar(&orgInactive, "inactive", false, "Mark the organization inactive")
	}
	orgCreateCmd.MarkFlagRequired("name")
}

func orgInput() service.OrganizationInput {
	input := service.OrganizationInput{
		Name: orgName,
		Slug: orgSlug,
	}

	active := !orgInactive
	input.IsActive = &active

	if orgParentID != "" {
		parentID, err := uuid.Parse(orgParentID)
		if err != nil {
			log.Fatalf("Invalid parent id: %v", err)
		}
		input.ParentID = &parentID
	}

	return input
}

var orgCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an organization",
	Run: func(cmd *cobra.Command, args []string) {
		org, err := orgService().CreateOrganization(context.Background(), orgInput())
		if err != nil {
			log.Fatalf("Failed to create organization: %v", err)
		}

		fmt.Printf("Created organization %s (%s)\n", org.Name, org.ID)
	},
}

var orgUpdateCmd = &cobra.Command{
	Use:   "update [org-id]",
	Short: "Update an organization, including re-parenting",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		orgID, err := uuid.Parse(args[0])
		if err != nil {
			log.Fatalf("Invalid organization id: %v", err)
		}

		org, err := orgService().UpdateOrganization(context.Background(), orgID, orgInput())
		if err != nil {
			log.Fatalf("Failed to update organization: %v", err)
		}

		fmt.Printf("Updated organization %s (%s)\n", org.Name, org.ID)
	},
}

var orgDeleteCmd = &cobra.Command{
	Use:   "delete [org-id]",
	Short: "Delete an organization; its children move up to its parent",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		orgID, err := uuid.Parse(args[0])
		if err != nil {
			log.Fatalf("Invalid organization id: %v", err)
		}

		if err := orgService().DeleteOrganization(context.Background(), orgID); err != nil {
			log.Fatalf("Failed to delete organization: %v", err)
		}

		fmt.Println("Organization deleted")
	},
}

var orgMembersCmd = &cobra.Command{
	Use:   "members",
	Short: "Manage organization memberships",
}

var orgMembersListCmd = &cobra.Command{
	Use:   "list [org-id]",
	Short: "List the members of an organization",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		orgID, err := uuid.Parse(args[0])
		if err != nil {
			log.Fatalf("Invalid organization id: %v", err)
		}

		orgUsers, err := orgService().ListOrgUsers(context.Background(), orgID)
		if err != nil {
			log.Fatalf("Failed to list organization members: %v", err)
		}

		for _, ou := range orgUsers {
			role := "member"
			if ou.IsAdmin {
				role = "admin"
			}
			fmt.Printf("%s  %-30s %s\n", ou.ID, ou.User.Email, role)
		}
	},
}

var memberIsAdmin bool

func init() {
	orgMembersAddCmd.Flags().BoolVar(&memberIsAdmin, "admin", false, "Grant organization admin")
}

var orgMembersAddCmd = &cobra.Command{
	Use:   "add [org-id] [email]",
	Short: "Add a user to an organization",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		orgID, err := uuid.Parse(args[0])
		if err != nil {
			log.Fatalf("Invalid organization id: %v", err)
		}

		orgUser, err := orgService().AddOrgUser(context.Background(), orgID, service.OrgUserInput{
			UserEmail: args[1],
			IsAdmin:   memberIsAdmin,
		})
		if err != nil {
			log.Fatalf("Failed to add organization member: %v", err)
		}

		fmt.Printf("Added %s to organization (%s)\n", orgUser.User.Email, orgUser.ID)
	},
}

var orgMembersRemoveCmd = &cobra.Command{
	Use:   "remove [org-user-id]",
	Short: "Remove a membership from its organization",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		orgUserID, err := uuid.Parse(args[0])
		if err != nil {
			log.Fatalf("Invalid organization user id: %v", err)
		}

		if err := orgService().RemoveOrgUser(context.Background(), orgUserID); err != nil {
			log.Fatalf("Failed to remove organization member: %v", err)
		}

		fmt.Println("Organization member removed")
	},
}

var orgOwnerCmd = &cobra.Command{
	Use:   "owner",
	Short: "Manage the organization owner designation",
}

var orgOwnerShowCmd = &cobra.Command{
	Use:   "show [org-id]",
	Short: "Show the owner of an organization",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		orgID, err := uuid.Parse(args[0])
		if err != nil {
			log.Fatalf("Invalid organization id: %v", err)
		}

		owner, err := orgService().GetOwner(context.Background(), orgID)
		if err != nil {
			log.Fatalf("Failed to find organization owner: %v", err)
		}

		fmt.Printf("%s  %s\n", owner.OrganizationUser.ID, owner.OrganizationUser.User.Email)
	},
}

var orgOwnerSetCmd = &cobra.Command{
	Use:   "set [org-id] [org-user-id]",
	Short: "Designate the owner membership of an organization",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		orgID, err := uuid.Parse(args[0])
		if err != nil {
			log.Fatalf("Invalid organization id: %v", err)
		}

		orgUserID, err := uuid.Parse(args[1])
		if err != nil {
			log.Fatalf("Invalid organization user id: %v", err)
		}

		if _, err := orgService().SetOwner(context.Background(), orgID, orgUserID); err != nil {
			log.Fatalf("Failed to set organization owner: %v", err)
		}

		fmt.Println("Organization owner set")
	},
}

var orgOwnerClearCmd = &cobra.Command{
	Use:   "clear [org-id]",
	Short: "Clear the owner designation of an organization",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		orgID, err := uuid.Parse(args[0])
		if err != nil {
			log.Fatalf("Invalid organization id: %v", err)
		}

		if err := orgService().ClearOwner(context.Background(), orgID); err != nil {
			log.Fatalf("Failed to clear organization owner: %v", err)
		}

		fmt.Println("Organization owner cleared")
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
