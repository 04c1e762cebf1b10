package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"viz/config"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
	useMock bool
)

var rootCmd = &cobra.Command{
	Use:   "viz",
	Short: "Semantic 3D word visualizer - embed words and label the axes",
	Long: `viz collects short text items, fetches semantic embedding vectors for
them, projects the vectors onto three display axes, and discovers
human-readable labels for those axes.

Example usage:
  viz words add cat              # Add a word and fetch its embedding
  viz project                    # Print the 3D coordinates of the word set
  viz labels generate            # Discover axis labels via the completion API
  viz labels refresh             # Recompute labels from cache, no network`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./viz.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "data directory (default is current directory)")
	rootCmd.PersistentFlags().BoolVar(&useMock, "mock", false, "use offline mock embedding/completion clients")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
