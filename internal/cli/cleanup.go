package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/finovo/internal/config"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/database"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/dto"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/services"
	"github.com/spf13/cobra"
)

const cleanupPath = "/api/subscription/cleanup"

func newCleanupCommand() *cobra.Command {
	var remote string

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete users whose free trial has expired",
		Long: `Removes every FREE_TRIAL user whose trial has ended, together with their
expenses, subscription requests and sessions. With --remote the running
server does the work and CLEANUP_SECRET is sent as the scheduler secret.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				summary *dto.CleanupSummary
				err     error
			)
			if remote != "" {
				summary, err = RemoteCleanup(cmd.Context(), http.DefaultClient, remote, config.Load().CleanupSecret)
			} else {
				summary, err = localCleanup(cmd.Context())
			}
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&remote, "remote", "", "Base URL of a running server, e.g. https://finovo.example.com")
	return cmd
}

func localCleanup(ctx context.Context) (*dto.CleanupSummary, error) {
	cfg, db, err := openDB()
	if err != nil {
		return nil, err
	}
	defer database.Close(db)

	return services.NewCleanupService(db, cfg).Run(ctx)
}

// RemoteCleanup triggers the cleanup endpoint of a running server.
func RemoteCleanup(ctx context.Context, client *http.Client, baseURL, secret string) (*dto.CleanupSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	url := strings.TrimRight(baseURL, "/") + cleanupPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build cleanup request: %w", err)
	}
	if secret != "" {
		req.Header.Set(middleware.CronSecretHeader, secret)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read cleanup response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var e dto.ErrorResponse
		if json.Unmarshal(body, &e) == nil && e.Message != "" {
			return nil, fmt.Errorf("cleanup failed with status %d: %s", resp.StatusCode, e.Message)
		}
		return nil, fmt.Errorf("cleanup failed with status %d", resp.StatusCode)
	}

	var summary dto.CleanupSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("decode cleanup response: %w", err)
	}
	return &summary, nil
}

func printSummary(w io.Writer, s *dto.CleanupSummary) {
	fmt.Fprintf(w, "%s: %d user(s) processed\n", s.Message, s.ProcessedUsers)
	for _, r := range s.Results {
		fmt.Fprintf(w, "  %s  %-7s  %s\n", r.UserID, r.Status, r.Message)
	}
}
