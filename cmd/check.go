package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/naka-gawa/readme-health/internal/config"
	"github.com/naka-gawa/readme-health/internal/extract"
	"github.com/naka-gawa/readme-health/internal/gateway"
	"github.com/naka-gawa/readme-health/internal/report"
	"github.com/naka-gawa/readme-health/internal/usecase"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verifies links and inspects repositories listed in a Markdown file",
	Long: `Verifies every external link of the input file with a bounded pool of
workers, then inspects each repository listed in its tables through the
GitHub API. Writes link_check_report.md and health_report.html.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		code, err := runCheck(ctx, cmd.Flags(), newLogger(cmd), cmd.OutOrStdout(), time.Now)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(code)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addCheckFlags(checkCmd.Flags())
	checkCmd.MarkFlagsMutuallyExclusive("links-only", "repos-only")
}

func addCheckFlags(f *pflag.FlagSet) {
	f.Bool("links-only", false, "Only verify links")
	f.Bool("repos-only", false, "Only inspect repositories")
	f.String("token", "", "GitHub token (default $GITHUB_TOKEN)")
	f.IntP("workers", "w", usecase.DefaultWorkers, "Number of concurrent link checks")
	f.Duration("timeout", 10*time.Second, "Per-request timeout")
	f.String("api", config.APIREST, "Metadata backend: rest or graphql (graphql needs a token)")
	f.Bool("no-color", false, "Disable coloured output")
	f.String("rules", "", "YAML file with ignore patterns (default .linkcheck.yaml)")
}

// loadConfig reads the environment and lets explicitly set flags win.
func loadConfig(flags *pflag.FlagSet, logger *log.Logger) (*config.Config, error) {
	cfg, err := config.Load(logger)
	if err != nil {
		return nil, err
	}

	if flags.Changed("input") {
		cfg.Input, _ = flags.GetString("input")
	}
	if flags.Changed("token") {
		cfg.Token, _ = flags.GetString("token")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("api") {
		cfg.API, _ = flags.GetString("api")
	}
	if flags.Changed("rules") {
		cfg.Rules, _ = flags.GetString("rules")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newFetcher picks the metadata backend. GraphQL without a token falls back to REST.
func newFetcher(cfg *config.Config, logger *log.Logger) (gateway.RepoFetcher, error) {
	httpClient, err := gateway.NewAPIHTTPClient(gateway.APIConfig{Token: cfg.Token, Timeout: cfg.Timeout}, logger)
	if err != nil {
		return nil, err
	}
	if cfg.API == config.APIGraphQL {
		if cfg.Token != "" {
			return gateway.NewGraphQLGateway(httpClient, cfg.APIURL, logger), nil
		}
		logger.Println("GraphQL API requires a token; falling back to REST.")
	}
	return gateway.NewGitHubGateway(httpClient, cfg.APIURL, logger)
}

func backendName(f gateway.RepoFetcher) string {
	if _, ok := f.(*gateway.GraphQLGateway); ok {
		return "GraphQL"
	}
	return "REST"
}

// runCheck wires the application together and returns the process exit code.
// The error is reserved for setup problems.
func runCheck(ctx context.Context, flags *pflag.FlagSet, logger *log.Logger, out io.Writer, now func() time.Time) (int, error) {
	cfg, err := loadConfig(flags, logger)
	if err != nil {
		return 1, err
	}

	opts := usecase.Options{Links: true, Repos: true}
	if linksOnly, _ := flags.GetBool("links-only"); linksOnly {
		opts.Repos = false
	}
	if reposOnly, _ := flags.GetBool("repos-only"); reposOnly {
		opts.Links = false
	}
	noColor, _ := flags.GetBool("no-color")
	_, noColorEnv := os.LookupEnv("NO_COLOR")

	document, err := readInput(cfg.Input)
	if err != nil {
		return 1, err
	}

	patterns, err := config.LoadRules(cfg.Rules)
	if err != nil {
		return 1, err
	}
	rules, err := extract.NewRules(patterns)
	if err != nil {
		return 1, err
	}
	repos, err := extract.NewRepoExtractor(cfg.RepoHost)
	if err != nil {
		return 1, err
	}
	fetcher, err := newFetcher(cfg, logger)
	if err != nil {
		return 1, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}

	// Inject dependencies and run the main business logic.
	console := report.NewConsole(out, !noColor && !noColorEnv)
	aggregator := usecase.NewAggregator(
		usecase.NewVerifier(gateway.NewHTTPProber(cfg.Timeout, cfg.UserAgent, logger), cfg.Workers, logger),
		usecase.NewInspector(fetcher, cfg.RepoDelay, logger),
		repos, rules, console, logger,
	)

	console.Section(fmt.Sprintf("README health check: %s", cfg.Input))
	console.Info("%d workers, %s timeout, %s API", cfg.Workers, cfg.Timeout, backendName(fetcher))
	result := aggregator.Aggregate(ctx, document, opts)
	if errors.Is(ctx.Err(), context.Canceled) {
		return 1, errors.New("interrupted")
	}

	generatedAt := now()
	if result.LinksChecked {
		err := report.WriteFile(cfg.LinkReport, func(w io.Writer) error {
			return report.WriteLinkReport(w, result.Links, generatedAt)
		})
		if err != nil {
			return 1, err
		}
	}
	if result.LinksChecked || result.ReposChecked {
		err := report.WriteFile(cfg.HTMLReport, func(w io.Writer) error {
			return report.WriteHTMLReport(w, result, generatedAt)
		})
		if err != nil {
			return 1, err
		}
	}

	console.Summary(result)
	if result.LinksChecked {
		console.Done("Link report written to %s", cfg.LinkReport)
	}
	console.Done("HTML report written to %s", cfg.HTMLReport)

	return result.ExitCode(), nil
}
