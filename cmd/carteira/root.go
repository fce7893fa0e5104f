package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/bobmcallan/carteira/internal/app"
	"github.com/bobmcallan/carteira/internal/common"
)

var (
	configPath string
	logLevel   string
	plain      bool
)

var rootCmd = &cobra.Command{
	Use:   "carteira",
	Short: "Portfolio valuation from the command line",
	Long: `carteira reads holdings from the wallet API, prices them with cached
BRAPI quotes and prints metrics, rankings and year-end reports.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: $CARTEIRA_CONFIG or config/carteira.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level written to stderr")
	rootCmd.PersistentFlags().BoolVar(&plain, "plain", false, "print raw markdown instead of rendering it")

	rootCmd.AddCommand(versionCmd, quotesCmd, summaryCmd, rankCmd, totalCmd, reportCmd)
}

// withApp builds the App for one command and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	config, err := app.LoadConfig(configPath)
	if err != nil {
		return err
	}
	logger := common.NewLoggerWithOutput(logLevel, cmd.ErrOrStderr())

	a, err := app.NewAppWithConfig(cmd.Context(), config, logger, app.Dependencies{})
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(cmd.Context(), a)
}

// render prints markdown, styled for the terminal unless --plain is set.
func render(cmd *cobra.Command, markdown string) error {
	out := cmd.OutOrStdout()
	if plain {
		_, err := fmt.Fprint(out, markdown)
		return err
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return err
	}
	styled, err := r.Render(markdown)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, styled)
	return err
}
