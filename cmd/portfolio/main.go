package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/ericfisherdev/portfolio/internal/adapter/driven/github"
	"github.com/ericfisherdev/portfolio/internal/adapter/driven/netprobe"
	sqliteadapter "github.com/ericfisherdev/portfolio/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/portfolio/internal/adapter/driven/terminal"
	"github.com/ericfisherdev/portfolio/internal/application"
	"github.com/ericfisherdev/portfolio/internal/config"
	"github.com/ericfisherdev/portfolio/internal/domain/model"
	"github.com/ericfisherdev/portfolio/internal/domain/port/driven"
)

const probeTimeout = 3 * time.Second

func main() {
	root := &cobra.Command{
		Use:           "portfolio",
		Short:         "Portfolio site with a live GitHub projects feed",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(serveCmd(), feedCmd(), historyCmd())

	// SIGINT/SIGTERM cancel the command context.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

// setupLogger installs the process-wide text logger at the configured level.
func setupLogger(level slog.Level) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// openStore opens the database and applies migrations. The caller closes it.
func openStore(ctx context.Context, path string) (*sqliteadapter.DB, error) {
	db, err := sqliteadapter.NewDB(ctx, path)
	if err != nil {
		return nil, err
	}

	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func closeStore(db *sqliteadapter.DB) {
	if err := db.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// newLister builds the GitHub adapter; without a token requests use the
// unauthenticated rate limit.
func newLister(cfg *config.Config) *githubadapter.Client {
	if !cfg.HasGitHubToken() {
		slog.Info("no github token configured, using unauthenticated rate limit")
	}
	return githubadapter.NewClient(cfg.GitHubToken, cfg.RequestTimeout)
}

func retryPolicy(cfg *config.Config) application.RetryPolicy {
	policy := application.DefaultRetryPolicy()
	policy.Unit = cfg.RetryUnit
	return policy
}

func feedCmd() *cobra.Command {
	var record bool

	cmd := &cobra.Command{
		Use:   "feed [username]",
		Short: "Load the projects feed once and print it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var override string
			if len(args) == 1 {
				override = args[0]
			}

			cfg, err := config.LoadFor(override)
			if err != nil {
				return err
			}
			setupLogger(cfg.LogLevel)

			ctx := cmd.Context()

			var history driven.LoadStore
			if record {
				db, err := openStore(ctx, cfg.DBPath)
				if err != nil {
					return err
				}
				defer closeStore(db)
				history = sqliteadapter.NewLoadRepo(db)
			}

			surface := terminal.New(cmd.OutOrStdout())
			feedSvc := application.NewFeedService(
				newLister(cfg),
				surface,
				netprobe.New(cfg.ProbeAddr, probeTimeout),
				history,
				retryPolicy(cfg),
				slog.Default(),
			)

			feedSvc.Load(ctx, cfg.GitHubUsername)

			if kind := surface.Failure(); kind != model.FailureNone {
				return fmt.Errorf("feed load failed: %s", kind)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&record, "record", true, "Append the load to the history database")
	return cmd
}

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print recent feed loads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return fmt.Errorf("--limit must be at least 1, got %d", limit)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			setupLogger(cfg.LogLevel)

			ctx := cmd.Context()
			db, err := openStore(ctx, cfg.DBPath)
			if err != nil {
				return err
			}
			defer closeStore(db)

			records, err := sqliteadapter.NewLoadRepo(db).ListRecent(ctx, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No feed loads recorded")
				return nil
			}

			for _, r := range records {
				status := string(r.Outcome)
				if r.Failure != model.FailureNone {
					status += " (" + string(r.Failure) + ")"
				}
				fmt.Fprintf(out, "%-16s %-10s %-9s %-22s attempts=%d repos=%d %s\n",
					humanize.Time(r.StartedAt),
					r.Trigger,
					r.Username,
					status,
					r.Attempts,
					r.RepoCount,
					r.Duration().Round(time.Millisecond),
				)
				if r.Error != "" {
					fmt.Fprintf(out, "  %s\n", r.Error)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of loads to show")
	return cmd
}
