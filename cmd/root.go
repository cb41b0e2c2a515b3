package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/laraDundar/pvo-limburg/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "pvo",
	Short: "Regional news fusion pipeline",
	Long:  "Fuses noisy signals about news articles into confident classifications: which country an article is about, and whether it concerns a small or medium enterprise.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
