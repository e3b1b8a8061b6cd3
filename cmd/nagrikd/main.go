package main

import (
	"fmt"
	"os"

	"github.com/nagrik-labs/nagrikai/internal/cli/admin"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "nagrikd",
		Short: "Nagrik answer daemon and CLI",
		Long:  "Nagrik daemon for running the citizen answer API server and managing the knowledge store",
	}

	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.KnowledgeCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
