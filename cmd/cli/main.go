package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gigsy2025/gigsy-reconciler/internal/infrastructure/config"
	"github.com/gigsy2025/gigsy-reconciler/internal/infrastructure/logger"
	"github.com/gigsy2025/gigsy-reconciler/internal/infrastructure/postgres"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "reconciler-cli",
		Short: "Gigsy reconciler CLI tool",
		Long:  `A command line interface for triggering and inspecting balance reconciliation.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the reconciler API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 60*time.Second, "Request timeout")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(emergencyCmd())
	rootCmd.AddCommand(healthCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var (
		dryRun    bool
		batchSize int
		wallets   []string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start a reconciliation run and wait for its result",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]any{
				"dry_run": dryRun,
			}
			if batchSize > 0 {
				payload["batch_size"] = batchSize
			}
			if len(wallets) > 0 {
				payload["wallet_ids"] = wallets
			}

			return postJSON("/api/v1/reconciliation/runs", payload)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Detect discrepancies without fixing them")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Wallets per batch (0 uses the server default)")
	cmd.Flags().StringSliceVar(&wallets, "wallets", nil, "Restrict the run to these wallet IDs")

	return cmd
}

func emergencyCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "emergency <wallet-id>",
		Short: "Reconcile a single wallet immediately",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/reconciliation/wallets/%s/emergency", args[0])
			return postJSON(path, map[string]any{"reason": reason})
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "cli emergency reconciliation", "Why this wallet needs an immediate fix")

	return cmd
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show reconciliation health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := &http.Client{Timeout: timeout}
			resp, err := client.Get(baseURL + "/api/v1/reconciliation/health")
			if err != nil {
				return fmt.Errorf("request failed: %w", err)
			}
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)

			var status map[string]any
			if err := json.Unmarshal(body, &status); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			printJSON(status)
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("reconciliation is degraded (status %d)", resp.StatusCode)
			}
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate <migrations-path>",
		Short: "Apply database migrations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			log := logger.New(logger.Config{Level: cfg.LogLevel, Format: "console"})
			if down {
				return postgres.RunMigrationsDown(cfg.DatabaseURL, args[0], log)
			}
			return postgres.RunMigrations(cfg.DatabaseURL, args[0], log)
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "Roll back the last migration instead of applying")

	return cmd
}

func postJSON(path string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	var result map[string]any
	if err := json.Unmarshal(respBody, &result); err != nil {
		return fmt.Errorf("failed to parse response (status %d): %w", resp.StatusCode, err)
	}

	printJSON(result)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("request rejected (status %d)", resp.StatusCode)
	}
	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to render output: %v\n", err)
		return
	}
	fmt.Println(string(out))
}
