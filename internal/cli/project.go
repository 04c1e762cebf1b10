package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"viz/internal/domain"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project the word set into 3D display coordinates",
	Long: `Compute the axis binding for the current word set's cached vectors
under the configured reduction strategy, and print each word's display
coordinates together with the persisted axis labels.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		vectors, err := a.words.Vectors()
		if err != nil {
			return err
		}
		if len(vectors) < domain.MinVectors {
			return fmt.Errorf("%w: %d words have cached embeddings, need %d (run \"viz fetch\")",
				domain.ErrInsufficientEmbeddings, len(vectors), domain.MinVectors)
		}

		batch := make([]domain.Vector, len(vectors))
		for i, lv := range vectors {
			batch[i] = lv.Vector
		}

		reduction, err := a.projector.Reduce(batch, a.cfg.Reduction.Strategy)
		if err != nil {
			if errors.Is(err, domain.ErrUnknownStrategy) {
				return fmt.Errorf("%w (registered: %v)", err, strategyIDs(a))
			}
			return err
		}

		fmt.Printf("Strategy: %s  axes -> components %v\n\n",
			a.cfg.Reduction.Strategy, reduction.AxisIndices)

		for _, lv := range vectors {
			p := a.projector.Project(lv.Vector, reduction)
			fmt.Printf("  %-20s %7.3f %7.3f %7.3f\n", lv.Text, p.X, p.Y, p.Z)
		}

		if result, ok := a.orchestrator.LastResult(); ok {
			fmt.Println()
			printLabels(result)
		} else {
			fmt.Printf("\n%s\n", color.YellowString("No axis labels yet. Run: viz labels generate"))
		}
		return nil
	},
}

func strategyIDs(a *app) []string {
	var ids []string
	for _, s := range a.registry.List() {
		ids = append(ids, s.ID())
	}
	return ids
}

func init() {
	rootCmd.AddCommand(projectCmd)
}
