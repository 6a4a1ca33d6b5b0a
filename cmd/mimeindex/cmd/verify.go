package cmd

import (
	"fmt"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/zostay/go-mime-index/cache"
	"github.com/zostay/go-mime-index/mimebody"
)

// verifyCmd implements spec.md §9's verify subcommand: it parses a
// message, serializes its SECTION TABLE, decodes that serialization back,
// and compares the result against the Body tree's own recorded offsets --
// confirming the wire format round-trips losslessly (testable property
// 4's offset bounds, checked against the original byte slice) rather than
// re-deriving the check by hand for every release.
var verifyCmd = &cobra.Command{
	Use:   "verify message",
	Short: "Checks a message's section table round-trips and its offsets stay in bounds",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	body, msg, err := loadMessage(args[0])
	if err != nil {
		return err
	}

	if err := checkBounds(body, len(msg)); err != nil {
		fmt.Println("FAIL: offset bounds:", err)
		return err
	}
	fmt.Println("PASS: all offsets within message bounds")

	expected := cache.ExpectedSectionTable(body)
	wire := cache.BuildSectionTable(body)
	decoded, err := cache.DecodeSectionTable(wire)
	if err != nil {
		return fmt.Errorf("decoding section table: %w", err)
	}

	if diff := diffSectionTrees(expected, decoded); diff != "" {
		fmt.Println("FAIL: section table did not round-trip:")
		fmt.Println(diff)
		return fmt.Errorf("section table round-trip mismatch")
	}
	fmt.Println("PASS: section table round-trips exactly")
	return nil
}

// checkBounds walks the tree enforcing spec.md §4.9's sanity check at
// every node, not only at the leaves a Bodypart Finder query would
// actually visit.
func checkBounds(body *mimebody.Body, msgLen int) error {
	if body.HeaderOffset+body.HeaderSize > body.ContentOffset {
		return fmt.Errorf("%s/%s: header span runs past content_offset", body.Type, body.Subtype)
	}
	if body.ContentOffset+body.ContentSize > msgLen {
		return fmt.Errorf("%s/%s: content span runs past end of message (offset %d size %d len %d)",
			body.Type, body.Subtype, body.ContentOffset, body.ContentSize, msgLen)
	}
	for _, child := range body.Subpart {
		if err := checkBounds(child, msgLen); err != nil {
			return err
		}
	}
	return nil
}

func diffSectionTrees(a, b *cache.SectionNode) string {
	as := formatSectionTree(a, "")
	bs := formatSectionTree(b, "")
	if as == bs {
		return ""
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(as, bs, false)
	return dmp.DiffPrettyText(diffs)
}

// formatSectionTree renders n and its descendants one node per line, so
// the comparison sees the trees' contents rather than child pointers.
func formatSectionTree(n *cache.SectionNode, indent string) string {
	s := fmt.Sprintf("%s%v\n", indent, n.Parts)
	for _, child := range n.Children {
		s += formatSectionTree(child, indent+"  ")
	}
	return s
}
