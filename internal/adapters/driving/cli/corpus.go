package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var embedJSON bool

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Count the documents in the corpus",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, err := requireServices(cmd.Context())
		if err != nil {
			return err
		}
		n, err := svc.Retrieval.Count(cmd.Context())
		if err != nil {
			return err
		}
		cmd.Println(n)
		return nil
	},
}

var embedCmd = &cobra.Command{
	Use:   "embed [text]",
	Short: "Print the embedding for a text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := requireServices(cmd.Context())
		if err != nil {
			return err
		}
		vec, err := svc.Retrieval.Embed(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if embedJSON {
			return writeJSON(cmd.OutOrStdout(), map[string][]float64{"embedding": vec})
		}
		cmd.Printf("%d dimensions\n", len(vec))
		for i, v := range vec {
			if i == 8 {
				cmd.Println(mutedStyle.Render(fmt.Sprintf("... %d more", len(vec)-i)))
				break
			}
			cmd.Printf("  %+.6f\n", v)
		}
		return nil
	},
}

func init() {
	embedCmd.Flags().BoolVar(&embedJSON, "json", false, "output the full vector as JSON")
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(embedCmd)
}
