package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/naka-gawa/readme-health/internal/config"
	"github.com/naka-gawa/readme-health/internal/domain"
	"github.com/naka-gawa/readme-health/internal/extract"
)

// extraction is the JSON document printed by the extract command.
type extraction struct {
	Links []domain.Link    `json:"links"`
	Repos []domain.RepoRef `json:"repos"`
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Prints the links and repository rows found in a Markdown file as JSON",
	Long:  `Parses the input file exactly like check does, applies the ignore rules, and prints what would be checked. Nothing is fetched.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runExtract(cmd.Flags(), newLogger(cmd), cmd.OutOrStdout()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
	addExtractFlags(extractCmd.Flags())
}

func addExtractFlags(f *pflag.FlagSet) {
	f.String("rules", "", "YAML file with ignore patterns (default .linkcheck.yaml)")
}

func runExtract(flags *pflag.FlagSet, logger *log.Logger, out io.Writer) error {
	cfg, err := loadConfig(flags, logger)
	if err != nil {
		return err
	}
	document, err := readInput(cfg.Input)
	if err != nil {
		return err
	}

	patterns, err := config.LoadRules(cfg.Rules)
	if err != nil {
		return err
	}
	rules, err := extract.NewRules(patterns)
	if err != nil {
		return err
	}
	repos, err := extract.NewRepoExtractor(cfg.RepoHost)
	if err != nil {
		return err
	}

	result := extraction{
		Links: rules.FilterLinks(extract.All(document)),
		Repos: rules.FilterRepos(repos.Rows(document)),
	}

	// Marshal the result into a pretty-printed JSON string.
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result to JSON: %w", err)
	}
	fmt.Fprintln(out, string(jsonData))
	return nil
}
