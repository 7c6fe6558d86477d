package users

import (
	"fmt"

	"github.com/maxirosso/tpo-sipii-back/cmd/cli/api"
	"github.com/maxirosso/tpo-sipii-back/cmd/cli/config"
	"github.com/maxirosso/tpo-sipii-back/cmd/cli/output"
	"github.com/maxirosso/tpo-sipii-back/cmd/cli/root"
	"github.com/spf13/cobra"
)

// ==========================
// CLI Command Init
// ==========================
func init() {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users and authentication",
		Long: `Register or login a user to the card trading API.
Stores the JWT token locally for future commands.`,
	}

	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new user",
		RunE:  runRegister,
	}

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Login an existing user",
		Long:  "Login and save the JWT token locally for future CLI commands.",
		RunE:  runLogin,
	}

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Logout current user",
		Long:  "Remove the locally saved JWT token.",
		RunE:  runLogout,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered users (trade partner lookup)",
		RunE:  runList,
	}

	usersCmd.AddCommand(registerCmd, loginCmd, logoutCmd, listCmd)
	root.GetRoot().AddCommand(usersCmd)
}

func promptCredentials() (string, string) {
	var username, password string
	fmt.Print("Username: ")
	fmt.Scanln(&username)
	fmt.Print("Password: ")
	fmt.Scanln(&password)
	return username, password
}

// ==========================
// Register User
// ==========================
func runRegister(cmd *cobra.Command, args []string) error {
	username, password := promptCredentials()

	payload := map[string]string{
		"username": username,
		"password": password,
	}
	if err := api.Post("/register", payload, false, nil); err != nil {
		return err
	}

	fmt.Println("User registered successfully! You can now login.")
	return nil
}

// ==========================
// Login User
// ==========================
func runLogin(cmd *cobra.Command, args []string) error {
	username, password := promptCredentials()

	payload := map[string]string{
		"username": username,
		"password": password,
	}
	var result struct {
		Token string `json:"token"`
	}
	if err := api.Post("/login", payload, false, &result); err != nil {
		return err
	}
	if result.Token == "" {
		return fmt.Errorf("token not returned by API")
	}

	if err := config.SaveToken(result.Token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	fmt.Println("Login successful. Token stored locally.")
	return nil
}

// ==========================
// Logout User
// ==========================
func runLogout(cmd *cobra.Command, args []string) error {
	if err := config.DeleteToken(); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

// ==========================
// List Users
// ==========================
func runList(cmd *cobra.Command, args []string) error {
	var result struct {
		Items []struct {
			ID       int    `json:"id"`
			Username string `json:"username"`
		} `json:"items"`
		Total int `json:"total"`
	}
	if err := api.Get("/users", true, &result); err != nil {
		return err
	}

	rows := make([][]interface{}, 0, len(result.Items))
	for _, u := range result.Items {
		rows = append(rows, []interface{}{u.ID, u.Username})
	}
	output.RenderTable([]string{"ID", "Username"}, rows)
	fmt.Printf("%d user(s)\n", result.Total)
	return nil
}
