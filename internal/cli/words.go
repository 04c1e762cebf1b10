package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"viz/internal/adapter/wordfile"
)

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Manage the visualized word set",
}

var wordsAddCmd = &cobra.Command{
	Use:   "add <word>...",
	Short: "Add words and fetch their embeddings",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		for _, word := range args {
			if err := a.words.Add(context.Background(), word); err != nil {
				fmt.Printf("  %s %s: %v\n", color.RedString("✗"), word, err)
				continue
			}
			fmt.Printf("  %s %s\n", color.GreenString("✓"), word)
		}
		return nil
	},
}

var wordsRemoveCmd = &cobra.Command{
	Use:   "remove <word>...",
	Short: "Remove words from the set",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		for _, word := range args {
			if err := a.words.Remove(word); err != nil {
				return err
			}
			fmt.Printf("  removed %s\n", word)
		}
		return nil
	},
}

var wordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the current word set",
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
		if len(words) == 0 {
			fmt.Println("No words yet. Add some with: viz words add <word>")
			return nil
		}

		for _, word := range words {
			_, cached, _ := a.cache.Get(word)
			marker := color.YellowString("·")
			if cached {
				marker = color.GreenString("✓")
			}
			fmt.Printf("  %s %s\n", marker, word)
		}
		fmt.Printf("\n%d words (%s = embedding cached)\n", len(words), color.GreenString("✓"))
		return nil
	},
}

var importGlobs []string

var wordsImportCmd = &cobra.Command{
	Use:   "import [path]",
	Short: "Import words from newline-delimited text files",
	Long: `Import words from text files under the given directory. Files are
matched with doublestar glob patterns; each non-blank, non-comment line
becomes one word. Embeddings are not fetched; run "viz fetch" afterwards.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := GetRootDir()
		if len(args) > 0 {
			root = args[0]
		}

		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		loader := wordfile.NewLoader(importGlobs, []string{"**/.viz/**", "**/.git/**"})
		words, err := loader.Load(root)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		added, err := a.words.AddAll(words)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d new words (%d found). Run \"viz fetch\" to embed them.\n", added, len(words))
		return nil
	},
}

func init() {
	wordsImportCmd.Flags().StringSliceVar(&importGlobs, "glob", []string{"**/*.txt"}, "glob patterns for word-list files")
	wordsCmd.AddCommand(wordsAddCmd, wordsRemoveCmd, wordsListCmd, wordsImportCmd)
	rootCmd.AddCommand(wordsCmd)
}
