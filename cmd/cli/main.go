package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	host    string
	coachID int
)

var rootCmd = &cobra.Command{
	Use:   "gamefinder-cli",
	Short: "A CLI to interact with the gamefinder server",
	Long: `A command-line interface for making requests to the various endpoints
of the gamefinder application.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "The host address of the server")
	rootCmd.PersistentFlags().IntVar(&coachID, "coach", 0, "The FUMBBL coach id to act as")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
