package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/zostay/go-mime-index/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache message",
	Short: "Parses a message and writes its framed cache record to stdout",
	Args:  cobra.ExactArgs(1),
	RunE:  runCache,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
}

func runCache(cmd *cobra.Command, args []string) error {
	body, _, err := loadMessage(args[0])
	if err != nil {
		return err
	}
	record := cache.BuildRecord(body, defaultCharset())
	_, err = os.Stdout.Write(record)
	return err
}
