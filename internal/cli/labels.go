package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"viz/internal/domain"
	"viz/internal/usecase"
)

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "Discover and inspect axis labels",
}

var labelsGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the full label discovery pipeline",
	Long: `Generate candidate words via the completion service, fetch their
embeddings, and pick the extreme candidate per axis end as its label.
Replaces any previously persisted candidates and labels.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		if a.completerErr != nil {
			return a.completerErr
		}
		if a.embedderErr != nil {
			return a.embedderErr
		}

		words, err := a.words.List()
		if err != nil {
			return err
		}

		bars := [2]*progressbar.ProgressBar{}
		progress := func(p usecase.StageProgress) {
			i := p.Stage - 1
			if i < 0 || i > 1 {
				return
			}
			if bars[i] == nil {
				bars[i] = progressbar.NewOptions(100,
					progressbar.OptionSetDescription(fmt.Sprintf("Stage %d/2", p.Stage)),
					progressbar.OptionSetWidth(40),
					progressbar.OptionOnCompletion(func() { fmt.Println() }),
				)
			}
			bars[i].Set(p.Percent)
		}

		result, err := a.orchestrator.Generate(context.Background(), words, progress)
		if err != nil {
			return fmt.Errorf("label generation failed: %w", err)
		}

		fmt.Println()
		printLabels(result)
		return nil
	},
}

var labelsRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Recompute labels from cached data, issuing no network calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		words, err := a.words.List()
		if err != nil {
			return err
		}

		result := a.orchestrator.RefreshFromCache(words)
		if result.IsDefault() {
			fmt.Println("Not enough cached data; using default axis names.")
		}
		printLabels(result)
		return nil
	},
}

var labelsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the persisted labels and candidate pool",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		result, ok := a.orchestrator.LastResult()
		if !ok {
			fmt.Println("No labels persisted yet. Run: viz labels generate")
			return nil
		}
		printLabels(result)

		if candidates := a.orchestrator.Candidates(); len(candidates) > 0 {
			fmt.Printf("\nCandidate pool (%d):\n", len(candidates))
			for _, c := range candidates {
				fmt.Printf("  %s\n", c)
			}
		}
		return nil
	},
}

func printLabels(r *domain.AxisLabelResult) {
	axis := color.New(color.FgCyan).SprintFunc()
	fmt.Printf("%s  %s … %s\n", axis("X"), r.Negative.X, r.Positive.X)
	fmt.Printf("%s  %s … %s\n", axis("Y"), r.Negative.Y, r.Positive.Y)
	fmt.Printf("%s  %s … %s\n", axis("Z"), r.Negative.Z, r.Positive.Z)

	for i, name := range []string{"X", "Y", "Z"} {
		extras := r.Additional[i]
		if len(extras.Positive) == 0 && len(extras.Negative) == 0 {
			continue
		}
		fmt.Printf("   %s runners-up: +%v  -%v\n", name, extras.Positive, extras.Negative)
	}
}

func init() {
	labelsCmd.AddCommand(labelsGenerateCmd, labelsRefreshCmd, labelsShowCmd)
	rootCmd.AddCommand(labelsCmd)
}
