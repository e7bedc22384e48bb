package commands

import (
	"encoding/json"
	"io"
	"os"
	"dealwatch-backend/lib/serviceutil"
	"dealwatch-backend/services/offers"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var analyzePreviousHash *string

func init() {
	analyzePreviousHash = analyzeCmd.Flags().String("previous-hash", "", "Stored hash to compare against. Empty means first check.")
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path/to/offers.json]",
	Short: "Normalizes a raw offer list and reports the change classification. Reads stdin without an argument.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		input := os.Stdin
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				serviceutil.Fatal("failed to open offers file", err)
			}
			defer f.Close()
			input = f
		}

		raw, err := io.ReadAll(input)
		if err != nil {
			serviceutil.Fatal("failed to read offers", err)
		}
		var offerList []offers.RawOffer
		if err := json.Unmarshal(raw, &offerList); err != nil {
			serviceutil.Fatal("failed to parse offers", err)
		}

		analysis := offers.Analyze(offerList, *analyzePreviousHash)

		changeType := "none"
		if analysis.ChangeType != offers.ChangeNone {
			changeType = string(analysis.ChangeType)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Field", "Value"})
		t.AppendRow(table.Row{"Changed", analysis.Changed})
		t.AppendRow(table.Row{"Change Type", changeType})
		t.AppendRow(table.Row{"New Hash", analysis.NewHash})
		t.Render()

		if len(analysis.Normalized) == 0 {
			return
		}
		normTable := newTable()
		normTable.AppendHeader(table.Row{"Bank", "Card", "Discount", "Min Transaction"})
		for _, offer := range analysis.Normalized {
			card := ""
			if offer.CardType != nil {
				card = *offer.CardType
			}
			normTable.AppendRow(table.Row{
				offer.BankName, card, offer.Discount, offer.MinTransaction,
			})
		}
		normTable.Render()
	},
}
