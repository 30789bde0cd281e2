package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tickettools/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "tickettools",
	Short: "Ticket Tools CLI - extract airline ticket data from PDF documents",
	Long: `Ticket Tools CLI turns scanned airline ticket and itinerary PDFs into
structured invoice data.

The pipeline extracts raw text with Google Document AI or Cloud Vision,
parses known ticket layouts with fast heuristic parsers, and falls back
to a language model for documents no layout matches. Every path produces
the same normalized invoice JSON.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("Ticket Tools CLI executed")

		fmt.Println("Welcome to Ticket Tools CLI!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
