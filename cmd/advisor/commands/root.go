package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ETFAdvisor/internal/config"
	"ETFAdvisor/internal/logger"
)

const defaultConfigPath = "configs/config.yaml"

var (
	// Global flags
	configFile string

	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "advisor",
	Short: "ETF Advisor - best ETF per risk level by Sharpe ratio",
	Long: `ETF Advisor ranks a fixed set of ETFs, grouped into Low, Medium and High
risk levels, by annualised Sharpe ratio computed from daily closes.

Examples:
  advisor grab
  advisor advise
  advisor serve
  advisor bot
  advisor tiers
  advisor history --limit 20`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command. It is called once by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default $CONFIG_PATH or "+defaultConfigPath+")")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = defaultConfigPath
	}

	c, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	logger.Init(c.Log.Level, c.Log.Format)
	cfg = c
	return nil
}
