package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sheikhrachel/go-gol/utils"
)

// Version is the release version, overridden at build time with -ldflags
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "go-gol",
	Short: "Conway's Game of Life on a toroidal board",
	Long: `go-gol runs Conway's Game of Life on an N x N board whose edges wrap around.
The board is redrawn every tick. Press r to reset to a new random board and q to quit.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		return runGame(cmd.Context(), config, os.Stdin, os.Stdout)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of go-gol",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "go-gol version %s\n", Version)
	},
}

func init() {
	bindFlags(rootCmd.Flags())
	rootCmd.AddCommand(versionCmd)
}

// bindFlags declares the game flags. Defaults mirror utils.DefaultConfig.
func bindFlags(flags *pflag.FlagSet) {
	defaults := utils.DefaultConfig()
	flags.StringP("config", "c", "config.json", "Path to a JSON or YAML config file (optional)")
	flags.IntP("size", "n", defaults.BoardSize, "Board dimension N")
	flags.Int("cell-size", defaults.CellSize, "Marks drawn per cell side")
	flags.Duration("interval", time.Duration(defaults.TickInterval), "Delay between generations")
	flags.Int64("seed", defaults.Seed, "Random seed, 0 for a fresh random seed")
	flags.Int("max-generations", defaults.MaxGenerations, "Stop after this many generations, 0 for no limit")
	flags.Bool("auto-restart", defaults.AutoRestart, "Reset automatically on extinction or stagnation")
	flags.Int("stagnation-threshold", defaults.StagnationThreshold, "Stagnant generations before an automatic reset")
	flags.Bool("pool", defaults.UseMemoryPool, "Recycle board buffers between generations")
	flags.String("log-level", defaults.LogLevel, "Log level: debug, info, warn or error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
