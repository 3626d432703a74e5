package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-optimizer/internal/config"
	"github.com/jonathan/resume-optimizer/internal/scholar"
)

var scholarCmd = &cobra.Command{
	Use:   "scholar",
	Short: "Query Google Scholar through SerpAPI",
	Long:  `Look up Google Scholar author profiles and citation formats. Requires SERP_API_KEY.`,
}

var scholarProfilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Search author profiles",
	RunE:  runScholarProfiles,
}

var scholarCitationsCmd = &cobra.Command{
	Use:   "citations",
	Short: "Fetch citation formats for a search result",
	RunE:  runScholarCitations,
}

var scopusCmd = &cobra.Command{
	Use:   "scopus",
	Short: "Search Elsevier Scopus",
	Long:  `Search the Scopus abstract and citation database. Requires SCOPUS_API_KEY.`,
	RunE:  runScopus,
}

var (
	searchQuery    string
	searchResultID string
	scopusCount    int
	scopusStart    int

	// searchOptions points the clients at a test server
	searchOptions *scholar.Options
)

func init() {
	scholarProfilesCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "Author name to search for")
	_ = scholarProfilesCmd.MarkFlagRequired("query")

	scholarCitationsCmd.Flags().StringVar(&searchResultID, "result-id", "", "Scholar result ID")
	_ = scholarCitationsCmd.MarkFlagRequired("result-id")

	scopusCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "Scopus search query")
	scopusCmd.Flags().IntVar(&scopusCount, "count", scholar.DefaultScopusCount, "Number of results")
	scopusCmd.Flags().IntVar(&scopusStart, "start", scholar.DefaultScopusStart, "Result offset")
	_ = scopusCmd.MarkFlagRequired("query")

	scholarCmd.AddCommand(scholarProfilesCmd, scholarCitationsCmd)
	rootCmd.AddCommand(scholarCmd, scopusCmd)
}

func serpClient() (*scholar.SerpClient, error) {
	cfg, err := loadConfig(config.Config{})
	if err != nil {
		return nil, err
	}
	if cfg.SerpAPIKey == "" {
		return nil, fmt.Errorf("%s environment variable is required", config.EnvSerpAPIKey)
	}
	return scholar.NewSerpClient(cfg.SerpAPIKey, searchOptions), nil
}

func runScholarProfiles(cmd *cobra.Command, _ []string) error {
	client, err := serpClient()
	if err != nil {
		return err
	}
	data, err := client.Profiles(cmd.Context(), searchQuery)
	if err != nil {
		return err
	}
	return printRaw(cmd, data)
}

func runScholarCitations(cmd *cobra.Command, _ []string) error {
	client, err := serpClient()
	if err != nil {
		return err
	}
	data, err := client.Citations(cmd.Context(), searchResultID)
	if err != nil {
		return err
	}
	return printRaw(cmd, data)
}

func runScopus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(config.Config{})
	if err != nil {
		return err
	}
	if cfg.ScopusAPIKey == "" {
		return fmt.Errorf("%s environment variable is required", config.EnvScopusAPIKey)
	}

	data, err := scholar.NewScopusClient(cfg.ScopusAPIKey, searchOptions).Search(cmd.Context(), searchQuery, scopusCount, scopusStart)
	if err != nil {
		return err
	}
	return printRaw(cmd, data)
}

// printRaw pretty-prints an upstream JSON payload without decoding it
func printRaw(cmd *cobra.Command, data json.RawMessage) error {
	return writeJSON(cmd.OutOrStdout(), "", data)
}
