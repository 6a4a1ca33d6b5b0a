package cmd

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "mimeindex",
	Short: "Parse MIME messages and build their index-cache records",
}

func Execute() error {
	return rootCmd.Execute()
}
