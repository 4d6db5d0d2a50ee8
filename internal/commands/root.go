// Package commands provides the storefront CLI commands.
//
// Purpose:
//
//	Drive the storefront resource clients and the basket cache from the
//	command line: browse and edit the catalog, list genres, and manage the
//	signed-in customer's basket, with table, JSON or CSV output.
//
// Dependencies:
//   - github.com/spf13/cobra: command tree and flags
//   - internal/config: viper-backed configuration
//   - internal/client: request router shared by every resource client
//   - internal/basket: basket cache used by the basket mutations
//
package commands

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/basket"
	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/client"
	basketclient "github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/client/basket"
	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/client/games"
	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/client/genres"
	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/client/problem"
	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/config"
	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/errors"
	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/logging"
	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/output"
	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/result"
)

// Option customizes the root command.
type Option func(*app)

// WithVersion sets the version reported by --version.
func WithVersion(version string) Option {
	return func(a *app) { a.version = version }
}

// WithLogOutput sends logs to w instead of stderr.
func WithLogOutput(w io.Writer) Option {
	return func(a *app) { a.logOutput = w }
}

// WithHTTPClient replaces the HTTP client used by the router.
func WithHTTPClient(c *http.Client) Option {
	return func(a *app) { a.httpClient = c }
}

// app holds the state shared by every command of one invocation.
type app struct {
	version    string
	logOutput  io.Writer
	httpClient *http.Client

	flagConfig      string
	flagBaseURL     string
	flagToken       string
	flagCustomer    string
	flagFormat      string
	flagLogLevel    string
	flagMaxAttempts int

	cfg     *config.Config
	logger  *logging.Logger
	router  *client.Router
	printer *output.Printer
}

// NewRootCommand builds the storefront-cli command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	a := &app{version: "dev", logOutput: os.Stderr}
	for _, opt := range opts {
		opt(a)
	}

	rootCmd := &cobra.Command{
		Use:   "storefront-cli",
		Short: "Storefront catalog and basket client",
		Long: `storefront-cli talks to the storefront API: browse and edit the game
catalog, list genres, and manage a customer's basket.`,
		Version:       a.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.flagConfig, "config", "", "Config file (default ~/.storefront/config.yaml)")
	flags.StringVar(&a.flagBaseURL, "base-url", "", "Storefront API base URL (overrides config)")
	flags.StringVar(&a.flagToken, "token", "", "Bearer access token (overrides config)")
	flags.StringVar(&a.flagCustomer, "customer", "", "Customer id whose basket is used (overrides config)")
	flags.StringVar(&a.flagFormat, "format", "", "Output format: table, json, csv")
	flags.StringVar(&a.flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.IntVar(&a.flagMaxAttempts, "max-attempts", 0, "Attempts per request before giving up")

	rootCmd.AddCommand(a.gamesCommand())
	rootCmd.AddCommand(a.genresCommand())
	rootCmd.AddCommand(a.basketCommand())
	rootCmd.AddCommand(a.catalogCommand())

	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	overrides := map[string]interface{}{}
	flags := cmd.Flags()
	for name, value := range map[string]interface{}{
		"base-url":     a.flagBaseURL,
		"token":        a.flagToken,
		"customer":     a.flagCustomer,
		"format":       a.flagFormat,
		"log-level":    a.flagLogLevel,
		"max-attempts": a.flagMaxAttempts,
	} {
		if flags.Changed(name) {
			overrides[name] = value
		}
	}

	cfg, err := config.LoadWithFlags(a.flagConfig, overrides)
	if err != nil {
		return errors.NewOperationError(
			fmt.Sprintf("failed to load configuration: %v", err),
			"Check your configuration file or environment variables.",
		)
	}
	if err := cfg.Validate(); err != nil {
		return errors.NewValidationError(err.Error(), "Set the value via flag, STOREFRONT_* environment variable or config file.")
	}
	a.cfg = cfg

	logCfg := logging.ConfigFromEnv("storefront-cli")
	logCfg.Level = cfg.LogLevel
	a.logger = logging.NewWithWriter(logCfg, a.logOutput)

	httpClient := a.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	a.router = client.NewRouter(
		client.WithHTTPClient(httpClient),
		client.WithAccessToken(cfg.AccessToken),
		client.WithRetryConfig(client.RetryConfig{
			MaxRetries: cfg.MaxAttempts,
			BaseDelay:  cfg.BaseDelay,
			MaxJitter:  cfg.Jitter,
		}),
		client.WithLogger(a.logger.Logger),
	)
	a.printer = output.NewPrinter(cfg.OutputFormat, cmd.OutOrStdout())

	a.logger.Debug("configuration loaded",
		zap.String("base_url", cfg.BaseURL),
		zap.String("config_file", cfg.ConfigFile),
		zap.Int("max_attempts", cfg.MaxAttempts),
		zap.Bool("authenticated", cfg.AccessToken != ""),
	)
	return nil
}

func (a *app) normalizer() *problem.Normalizer {
	return problem.New(problem.WithLogger(a.logger.Logger), problem.WithRawTextFallback())
}

func (a *app) gamesClient() *games.Client {
	return games.NewClient(a.cfg.BaseURL, a.router, games.WithNormalizer(a.normalizer()), games.WithLogger(a.logger.Logger))
}

func (a *app) genresClient() *genres.Client {
	return genres.NewClient(a.cfg.BaseURL, a.router, genres.WithNormalizer(a.normalizer()), genres.WithLogger(a.logger.Logger))
}

func (a *app) basketClient() *basketclient.Client {
	return basketclient.NewClient(a.cfg.BaseURL, a.router, basketclient.WithNormalizer(a.normalizer()), basketclient.WithLogger(a.logger.Logger))
}

func (a *app) basketState() *basket.State {
	logger := a.logger.WithCustomerID(a.cfg.CustomerID)
	state := basket.NewState(a.basketClient(), a.cfg.CustomerID, logger)
	state.SetOnBasketUpdated(func() {
		logger.Info("basket updated")
	})
	return state
}

// clientError maps a failed query onto a CLIError.
func (a *app) clientError(err error) error {
	return errors.FromClientError(a.cfg.BaseURL, err)
}

// commandError maps a failed CommandResult onto a CLIError, or returns nil
// when the command succeeded.
func (a *app) commandError(res result.CommandResult, suggestion string) error {
	if res.Succeeded {
		return nil
	}
	if errors.IsConnectivity(res.Cause()) {
		return errors.NewServiceUnavailableError(a.cfg.BaseURL)
	}
	return errors.NewOperationError(joinErrors(res.Errors), suggestion)
}
