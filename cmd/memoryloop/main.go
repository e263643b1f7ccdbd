// Package main implements the entry point for the memoryloop server, a
// personal spaced-repetition memory trainer: record a short fact, let the
// scheduler hide it, and answer increasingly spaced recall checks.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "memoryloop",
	Short: "memoryloop - spaced-repetition memory trainer",
	Long: `memoryloop hides short facts you want to remember and prompts you to
recall them on an increasingly spaced schedule, grading answers with exact,
strict or fuzzy matching.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the memoryloop version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("memoryloop", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
