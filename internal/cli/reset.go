package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the persisted candidate pool and axis labels",
	Long: `Clear the label workflow's persisted state: the candidate pool, the
candidate vectors, and the chosen labels. The embedding cache and the word
set are untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		a.orchestrator.Reset()
		fmt.Println("Label workflow state cleared.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
