// Command import pulls one portfolio page into a user profile from the console.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/octobees/portfolio-importer/api/internal/config"
	"github.com/octobees/portfolio-importer/api/internal/database"
	"github.com/octobees/portfolio-importer/api/internal/dto"
	"github.com/octobees/portfolio-importer/api/internal/extractor"
	"github.com/octobees/portfolio-importer/api/internal/gateway"
	"github.com/octobees/portfolio-importer/api/internal/logging"
	"github.com/octobees/portfolio-importer/api/internal/repository"
	"github.com/octobees/portfolio-importer/api/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(runImport)
	if err := cmd.ExecuteContext(ctx); err != nil {
		printFailure(cmd.ErrOrStderr(), err)
		stop()
		os.Exit(1)
	}
}

type importFunc func(ctx context.Context, username, pageURL string, stdout io.Writer) error

func newRootCmd(run importFunc) *cobra.Command {
	var username, pageURL string

	cmd := &cobra.Command{
		Use:           "import --username <username> --url <https url>",
		Short:         "Import a portfolio page into a user profile",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return run(cmd.Context(), username, pageURL, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "username to import the portfolio into")
	cmd.Flags().StringVar(&pageURL, "url", "", "https URL of the portfolio page")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func runImport(ctx context.Context, username, pageURL string, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, logger)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := database.Migrate(pool, logger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	agentql := gateway.NewClient(nil, cfg.GatewayConfig(), logger)
	importer := service.NewPortfolioImportService(
		repository.NewStore(pool),
		extractor.New(agentql, cfg.ExtractionParams(), logger),
		logger,
	)

	fmt.Fprintf(stdout, "Importing portfolio for %s from %s\n", username, pageURL)
	resp, err := importer.ImportPortfolio(ctx, username, pageURL)
	if err != nil {
		return err
	}

	printSummary(stdout, resp)
	return nil
}

func printFailure(w io.Writer, err error) {
	var (
		vErr      *service.ValidationError
		importErr *service.ImportError
	)
	switch {
	case errors.As(err, &vErr):
		fmt.Fprintln(w, "Invalid input:")
		for field, messages := range vErr.Fields {
			fmt.Fprintf(w, "  %s: %s\n", field, strings.Join(messages, " "))
		}
	case errors.As(err, &importErr):
		fmt.Fprintf(w, "Import failed: %v\n", err)
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}

func printSummary(w io.Writer, resp *dto.ImportResponse) {
	fmt.Fprintln(w, "Portfolio imported successfully")

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE")
	fmt.Fprintf(tw, "Username\t%s\n", resp.User.Username)
	fmt.Fprintf(tw, "Name\t%s\n", valueOrDash(resp.User.Name))
	fmt.Fprintf(tw, "Job title\t%s\n", valueOrDash(resp.User.JobTitle))
	fmt.Fprintf(tw, "Works imported\t%d\n", resp.Summary.TotalWorks)
	fmt.Fprintf(tw, "Clients imported\t%d\n", resp.Summary.TotalClients)
	fmt.Fprintf(tw, "Social URLs found\t%d\n", resp.Summary.SocialURLsFound)
	tw.Flush()
}

func valueOrDash(value *string) string {
	if value == nil || *value == "" {
		return "-"
	}
	return *value
}
