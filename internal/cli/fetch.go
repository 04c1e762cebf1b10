package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"viz/internal/domain"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch embeddings for the whole word set",
	Long: `Resolve embedding vectors for every word in the set. Cached words are
served locally; the rest are fetched in batches from the embedding service
with a per-item timeout. Individual failures do not abort the run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		var bar *progressbar.ProgressBar
		progress := func(ev domain.ProgressEvent) {
			f, ok := ev.(domain.FetchingVectors)
			if !ok {
				return
			}
			if bar == nil {
				bar = progressbar.NewOptions(f.Total,
					progressbar.OptionSetDescription("Fetching embeddings"),
					progressbar.OptionSetWidth(40),
					progressbar.OptionShowCount(),
					progressbar.OptionOnCompletion(func() { fmt.Println() }),
				)
			}
			bar.Set(f.Completed)
		}

		result, err := a.words.Fetch(context.Background(), progress)
		if result != nil {
			fmt.Printf("\n%d embeddings resolved, %d failed\n", len(result.Results), len(result.Failures))
			for _, f := range result.Failures {
				fmt.Printf("  - %s: %v\n", f.Text, f.Err)
			}
		}
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientEmbeddings) {
				return fmt.Errorf("not enough embeddings for a 3D projection: %w", err)
			}
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
