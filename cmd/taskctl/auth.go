package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yukikurage/task-review-api/internal/dto"
	"github.com/yukikurage/task-review-api/internal/models"
	"github.com/yukikurage/task-review-api/internal/session"
	"go.uber.org/zap"
)

var (
	loginEmail    string
	loginPassword string

	signupName     string
	signupEmail    string
	signupPassword string
	signupMobile   string
	signupRole     string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and keep the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		password := loginPassword
		if password == "" {
			password = os.Getenv("TASKCTL_PASSWORD")
		}

		s, err := manager.Login(cmd.Context(), session.Credentials{Email: loginEmail, Password: password})
		if err != nil {
			return err
		}
		if err := saveToken(s.Token); err != nil {
			return err
		}

		fmt.Printf("Signed in as %s (%s)\n", s.User.Email, s.User.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the session token and forget it",
	RunE: func(cmd *cobra.Command, args []string) error {
		if manager.CurrentUser() != nil {
			// Local logout happens regardless of what the server says.
			if err := api.Logout(cmd.Context()); err != nil {
				logger.Debug("server logout failed", zap.Error(err))
			}
		}
		manager.Logout()
		removeToken()
		fmt.Println("Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}
		user, err := manager.RefreshProfile(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(user)
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := base.SignUp(cmd.Context(), dto.SignUpRequest{
			FullName: signupName,
			Email:    signupEmail,
			Password: signupPassword,
			Mobile:   signupMobile,
			Role:     models.UserRole(strings.ToUpper(signupRole)),
		})
		if err != nil {
			return err
		}
		return printJSON(user)
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password (or TASKCTL_PASSWORD)")
	_ = loginCmd.MarkFlagRequired("email")

	signupCmd.Flags().StringVar(&signupName, "name", "", "full name")
	signupCmd.Flags().StringVar(&signupEmail, "email", "", "account email")
	signupCmd.Flags().StringVar(&signupPassword, "password", "", "password, at least 8 characters")
	signupCmd.Flags().StringVar(&signupMobile, "mobile", "", "mobile number")
	signupCmd.Flags().StringVar(&signupRole, "role", "", "ADMIN or WORKER (default WORKER)")
	_ = signupCmd.MarkFlagRequired("email")
	_ = signupCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, signupCmd)
}
