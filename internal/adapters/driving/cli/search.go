package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/microverse/internal/core/domain"
)

var (
	searchK    int
	searchJSON bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the corpus",
	Long: `Embeds the query and ranks every corpus passage by cosine similarity.

Results below 60% of the top score are dropped and at most one passage is
kept per author and work.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchK, "k", "k", domain.DefaultTopK, "maximum number of results (1-50)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	svc, err := requireServices(cmd.Context())
	if err != nil {
		return err
	}

	k := searchK
	if !cmd.Flags().Changed("k") && svc.DefaultTopK > 0 {
		k = svc.DefaultTopK
	}

	result, err := svc.Retrieval.Retrieve(cmd.Context(), args[0], k)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	return outputSearchTable(cmd, result)
}

func outputSearchTable(cmd *cobra.Command, result *domain.RetrievalResult) error {
	if len(result.Results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	width := terminalWidth() - 6
	for i := range result.Results {
		r := &result.Results[i]
		work := r.Work
		if work == "" {
			work = r.ID
		}
		cmd.Printf("  [%d] %s  %s  %s\n", i+1,
			titleStyle.Render(work),
			authorStyle.Render(r.Author),
			scoreStyle.Render(fmt.Sprintf("%.3f", r.Similarity)))
		cmd.Printf("      %s\n\n", snippet(r.Content, width))
	}

	s := result.Stats
	cmd.Println(mutedStyle.Render(fmt.Sprintf(
		"scored %d, top %.3f, mean top-5 %.3f, median %.3f, threshold %.3f, cache %d (hit: %t)",
		s.Count, s.TopSimilarity, s.MeanTop5, s.Median, s.ThresholdUsed, s.CacheSize, s.CacheHit)))
	return nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
