package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yukikurage/task-review-api/internal/client"
	"github.com/yukikurage/task-review-api/internal/config"
	apierrors "github.com/yukikurage/task-review-api/internal/errors"
	"github.com/yukikurage/task-review-api/internal/logging"
	"github.com/yukikurage/task-review-api/internal/session"
	"go.uber.org/zap"
)

var (
	apiURL    string
	tokenFile string
	verbose   bool

	logger  *zap.Logger
	base    *client.Client
	manager *session.Manager
	api     *client.Client
)

var rootCmd = &cobra.Command{
	Use:           "taskctl",
	Short:         "Command line client for the task review API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if verbose {
			level = "debug"
		}
		var err error
		logger, err = logging.NewLogger(logging.ParseLevel(level), "")
		if err != nil {
			return err
		}

		base = client.New(apiURL, client.Options{Logger: logger})
		manager = session.NewManager(base, logger)
		manager.OnLogout(removeToken)
		api = base.WithSession(manager)

		return restoreSession(cmd.Context())
	},
}

func init() {
	cfg := config.Load()

	rootCmd.PersistentFlags().StringVar(&apiURL, "api", cfg.APIBaseURL, "API base URL")
	rootCmd.PersistentFlags().StringVar(&tokenFile, "token-file", defaultTokenFile(), "where the session token is kept")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests to stderr")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskctl-token"
	}
	return filepath.Join(home, ".taskctl", "token")
}

// restoreSession picks up a token saved by an earlier login
func restoreSession(ctx context.Context) error {
	data, err := os.ReadFile(tokenFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read token file: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return nil
	}

	if _, err := manager.Restore(ctx, token); err != nil {
		// A rejected token is already logged out; anything else is reported.
		if errors.Is(err, apierrors.ErrUnauthorized) {
			logger.Debug("saved session expired")
			return nil
		}
		return err
	}
	return nil
}

func saveToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(tokenFile), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(tokenFile, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

func removeToken() {
	if err := os.Remove(tokenFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to remove token file", zap.String("path", tokenFile), zap.Error(err))
	}
}

// requireSession fails commands that need a signed-in user
func requireSession() error {
	if manager.CurrentUser() == nil {
		return fmt.Errorf("%w: run 'taskctl login' first", apierrors.ErrUnauthorized)
	}
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseID(raw, label string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s ID %q", apierrors.ErrValidation, label, raw)
	}
	return id, nil
}

// exitCode maps the error taxonomy onto process exit codes
func exitCode(err error) int {
	switch {
	case errors.Is(err, apierrors.ErrUnauthorized), errors.Is(err, apierrors.ErrInvalidCredentials):
		return 3
	case errors.Is(err, apierrors.ErrForbidden):
		return 4
	case errors.Is(err, apierrors.ErrNotFound):
		return 5
	case errors.Is(err, apierrors.ErrValidation):
		return 2
	default:
		return 1
	}
}
