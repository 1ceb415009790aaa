package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/iliyamo/stewardship-hub/internal/receipt"
)

var flagJSON bool

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse receipt text (file or stdin) without storing anything",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&flagJSON, "json", false, "Print the parsed lines as JSON")
	rootCmd.AddCommand(parseCmd)
}

func runParse(_ *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return err
	}

	lines := receipt.Parse(string(data))
	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(lines)
	}
	if len(lines) == 0 {
		fmt.Println("\n  No items found.")
		return nil
	}
	var total float64
	for _, l := range lines {
		fmt.Printf("  %-32s x%-3d %9.2f\n", l.ItemName, l.Quantity, l.Cost)
		total += l.Cost
	}
	fmt.Printf("  %-37s %9.2f\n", "Total", total)
	return nil
}
