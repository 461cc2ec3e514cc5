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
	"time"

	"github.com/charmbracelet/huh"
	"github.com/diogo/cryptointel-go/internal/browser"
	"github.com/diogo/cryptointel-go/internal/config"
	"github.com/diogo/cryptointel-go/internal/history"
	"github.com/diogo/cryptointel-go/internal/logging"
	"github.com/diogo/cryptointel-go/internal/submission"
	"github.com/diogo/cryptointel-go/internal/ui"
	"github.com/diogo/cryptointel-go/pkg/client"
	"github.com/diogo/cryptointel-go/pkg/form"
	"github.com/diogo/cryptointel-go/pkg/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

const spinnerInterval = 100 * time.Millisecond

var (
	// Flags
	flagAPIURL      string
	flagTier        string
	flagEmail       string
	flagNoOpen      bool
	flagIncognito   bool
	flagInteractive bool
	flagVerbose     bool

	// Global config
	cfg    *config.Config
	cfgErr error
	cfgMgr *config.Manager
	render *ui.Renderer
	logger = zap.NewNop()
)

// errReported is returned once a failure has already been shown to the user.
var errReported = errors.New("submission failed")

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "cryptointel [query]",
	Short: "Request crypto research reports",
	Long: `cryptointel submits research queries to the CryptoIntel API.

The free report is emailed to you. Paid reports open a checkout page in your
browser; the report is delivered once payment completes.

Run without a query on a terminal (or with -i) to fill in an interactive form.

Examples:
  cryptointel "Outlook for ETH staking yields" --email me@example.com
  cryptointel "Solana validator economics" --tier deep
  cryptointel -i`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PreRunE:       requireValidConfig,
	RunE:          runSubmit,
}

// Execute runs the root command.
func Execute() error {
	defer func() { _ = logger.Sync() }()
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "API base URL (overrides api_base_url)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Verbose output (debug logging)")

	rootCmd.Flags().StringVarP(&flagTier, "tier", "t", "", "Report tier (free, advanced, deep)")
	rootCmd.Flags().StringVarP(&flagEmail, "email", "e", "", "Email for the free report")
	rootCmd.Flags().BoolVar(&flagNoOpen, "no-open", false, "Print the checkout URL instead of opening a browser")
	rootCmd.Flags().BoolVar(&flagIncognito, "incognito", false, "Don't save to history")
	rootCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Fill in the submission form interactively")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(tiersCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	var err error

	// Initialize config manager
	cfgMgr, err = config.NewManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}

	// Invalid values are reported by requireValidConfig so that the config
	// commands can still repair the file.
	cfg, cfgErr = loadConfig(cfgMgr)

	// Initialize renderer
	render, err = ui.NewRenderer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing renderer: %v\n", err)
		os.Exit(1)
	}

	logger, err = logging.New(cfg.LogLevel, flagVerbose)
	if err != nil {
		logger, err = logging.New(logging.DefaultLevel, flagVerbose)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig returns the validated config. When validation or reading fails
// it returns the unvalidated values (or the defaults) together with the error.
func loadConfig(mgr *config.Manager) (*config.Config, error) {
	c, err := mgr.Load()
	if err == nil {
		return c, nil
	}

	raw, rawErr := mgr.LoadRaw()
	if rawErr != nil {
		d := mgr.Defaults()
		raw = &d
	}
	return raw, err
}

// requireValidConfig fails commands that act on the configuration when it
// could not be loaded.
func requireValidConfig(cmd *cobra.Command, args []string) error {
	if cfgErr != nil {
		return fmt.Errorf("invalid configuration: %w (repair it with 'cryptointel config set' or 'cryptointel config reset')", cfgErr)
	}
	return nil
}

func runSubmit(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f, err := buildForm(args, cfg)
	if err != nil {
		render.RenderError(err)
		return errReported
	}

	if shouldPrompt(args, flagInteractive, stdinIsTerminal()) {
		f, err = ui.SubmissionPrompt{}.Run(ctx, f)
		if errors.Is(err, huh.ErrUserAborted) {
			render.RenderWarning("Submission cancelled")
			return nil
		}
		if err != nil {
			return err
		}
	} else if len(args) == 0 {
		return cmd.Help()
	}

	baseURL, err := apiBaseURL(cfg)
	if err != nil {
		return err
	}

	cli, err := client.New(client.Config{
		BaseURL:        baseURL,
		TimeoutSeconds: cfg.TimeoutSeconds,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer cli.Close()

	runner := newRunner(cli, cfg, cmd.ErrOrStderr())

	if flagVerbose {
		render.RenderInfo(fmt.Sprintf("API: %s", baseURL))
		render.RenderInfo(fmt.Sprintf("Report: %s", f.ReportType.DisplayName()))
		render.NewLine()
	}

	stopSpinner := render.StartSpinner(spinnerInterval)
	result, err := runner.Run(ctx, f)
	stopSpinner()

	if err != nil {
		render.RenderError(err)
		return errReported
	}

	render.RenderOutcome(result)
	if result.State() == form.StateFailed {
		return errReported
	}
	if result.Outcome() == form.OutcomeRedirect && !openBrowser(cfg) {
		render.RenderInfo("Open the link above to complete checkout.")
	}
	return nil
}

// buildForm fills a form from the query arguments, flags and config defaults.
func buildForm(args []string, c *config.Config) (form.Form, error) {
	f := form.New()
	f.Query = strings.TrimSpace(strings.Join(args, " "))
	f.ReportType = c.DefaultReportType
	f.Email = c.Email

	if flagTier != "" {
		rt, err := models.ParseReportType(flagTier)
		if err != nil {
			return f, fmt.Errorf("%w: %v", form.ErrInvalidReportType, err)
		}
		f.ReportType = rt
	}
	if flagEmail != "" {
		f.Email = strings.TrimSpace(flagEmail)
	}

	return f, nil
}

// shouldPrompt reports whether the interactive form should be shown.
func shouldPrompt(args []string, interactive, tty bool) bool {
	return interactive || (len(args) == 0 && tty)
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// apiBaseURL returns the --api-url override, validated, or the configured URL.
func apiBaseURL(c *config.Config) (string, error) {
	if flagAPIURL != "" {
		return config.NormalizeBaseURL(flagAPIURL)
	}
	return c.APIBaseURL, nil
}

func openBrowser(c *config.Config) bool {
	return c.OpenBrowser && !flagNoOpen
}

func saveHistory(c *config.Config) bool {
	return !c.Incognito && !flagIncognito
}

// newRunner wires the submission runner from configuration and flags.
func newRunner(sender submission.Sender, c *config.Config, browserOut io.Writer) *submission.Runner {
	opts := []submission.Option{
		submission.WithMidTierLabel(c.MidTierLabel),
		submission.WithLogger(logger),
	}

	if saveHistory(c) {
		hw, err := history.NewWriter(c.HistoryFile)
		if err != nil {
			logger.Warn("history disabled", zap.Error(err))
		} else {
			opts = append(opts, submission.WithRecorder(hw))
		}
	}

	var nav browser.Navigator
	if openBrowser(c) {
		nav = browser.System{Output: browserOut}
	}

	return submission.NewRunner(sender, nav, opts...)
}
