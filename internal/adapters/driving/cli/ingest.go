package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/microverse/internal/core/domain"
)

var (
	ingestDir    string
	ingestDryRun bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Chunk, embed and store content files",
	Long: `Reads .md, .mdx and .txt files from the content directory, splits them
into passages, embeds each passage and writes them to the corpus.

When the directory yields nothing, three seed passages are ingested instead.`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestDir, "dir", "d", "", "content directory (default from config)")
	ingestCmd.Flags().BoolVar(&ingestDryRun, "dry-run", false, "embed but do not write")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	svc, err := requireServices(cmd.Context())
	if err != nil {
		return err
	}

	report, err := svc.Ingest.Ingest(cmd.Context(), domain.IngestOptions{
		ContentDir: ingestDir,
		DryRun:     ingestDryRun,
	})
	if err != nil {
		return err
	}

	if report.Seeded {
		cmd.Println(warningStyle.Render("No content found; ingested seed passages."))
	}
	if report.DryRun {
		cmd.Printf("[DRY RUN] Would insert %d rows from %d files.\n", report.Documents, report.Files)
		return nil
	}
	cmd.Printf("Inserted %d rows from %d files.\n", report.Inserted, report.Files)
	return nil
}
