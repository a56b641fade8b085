package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/microverse/internal/core/domain"
	"github.com/custodia-labs/microverse/internal/core/ports/driving"
)

var (
	intentTopK int
	intentJSON bool
)

var intentCmd = &cobra.Command{
	Use:   "intent [query]",
	Short: "Map a query to a control patch",
	Long: `Retrieves the passages nearest to the query and maps their topics to
visual operations and audio parameters.`,
	Args: cobra.ExactArgs(1),
	RunE: runIntent,
}

func init() {
	intentCmd.Flags().IntVar(&intentTopK, "top-k", driving.DefaultIntentTopK, "number of passages to map")
	intentCmd.Flags().BoolVar(&intentJSON, "json", false, "output the patch as JSON")
	rootCmd.AddCommand(intentCmd)
}

func runIntent(cmd *cobra.Command, args []string) error {
	svc, err := requireServices(cmd.Context())
	if err != nil {
		return err
	}
	if svc.Intent == nil {
		return fmt.Errorf("intent service not configured")
	}

	patch, err := svc.Intent.Intent(cmd.Context(), args[0], intentTopK)
	if err != nil {
		return fmt.Errorf("intent failed: %w", err)
	}

	if intentJSON {
		return writeJSON(cmd.OutOrStdout(), patch)
	}
	outputPatch(cmd, patch)
	return nil
}

func outputPatch(cmd *cobra.Command, patch *domain.ControlPatch) {
	if patch.IsNeutral() {
		cmd.Println("Neutral patch (no matching passages).")
		return
	}

	cmd.Println(titleStyle.Render("Visual"))
	names := make([]string, 0, len(patch.Visual.Ops))
	for name := range patch.Visual.Ops {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cmd.Printf("  %-12s %.2f\n", name, patch.Visual.Ops[name].Strength)
	}
	if c := patch.Visual.TargetColor; c != nil {
		cmd.Printf("  target colour rgb(%.2f, %.2f, %.2f)\n", c.R, c.G, c.B)
	}

	a := patch.Audio
	cmd.Println(titleStyle.Render("Audio"))
	cmd.Printf("  tempo %d bpm, filter %.2f, reverb %.2f, pattern %s\n", a.Tempo, a.Filter, a.Reverb, a.Pattern)

	cmd.Println(titleStyle.Render("Sources"))
	for _, src := range patch.Meta.Sources {
		cmd.Printf("  %s  %s  %s\n", src.Work, authorStyle.Render(src.Author),
			scoreStyle.Render(fmt.Sprintf("%.3f", src.Similarity)))
	}
}
