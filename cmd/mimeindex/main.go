package main

import (
	"github.com/spf13/cobra"

	"github.com/zostay/go-mime-index/cmd/mimeindex/cmd"
)

func main() {
	err := cmd.Execute()
	cobra.CheckErr(err)
}
