package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zostay/go-mime-index/mimebody"
)

var parseCmd = &cobra.Command{
	Use:   "parse message",
	Short: "Parses a message and prints its Body tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	body, msg, err := loadMessage(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("message length: %d bytes\n", len(msg))
	printBody(body, "")
	return nil
}

func printBody(body *mimebody.Body, indent string) {
	fmt.Printf("%s%s/%s header=[%d,%d) content=[%d,%d) lines=%d boundary=%d/%d encoding=%s\n",
		indent, body.Type, body.Subtype,
		body.HeaderOffset, body.HeaderOffset+body.HeaderSize,
		body.ContentOffset, body.ContentOffset+body.ContentSize,
		body.ContentLines, body.BoundarySize, body.BoundaryLines, body.Encoding)
	if body.Subject != "" || body.MessageID != "" {
		fmt.Printf("%s  subject=%q message-id=%q\n", indent, body.Subject, body.MessageID)
	}
	for _, child := range body.Subpart {
		printBody(child, indent+"  ")
	}
}
