package commands

import (
	"time"
	"dealwatch-backend/lib/retryutil"
	"dealwatch-backend/lib/serviceutil"
	"dealwatch-backend/services/scraper"
	"dealwatch-backend/services/watcher"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var scrapePlatform *string
var scrapePincode *string
var scrapeTimeout *int

func init() {
	scrapePlatform = scrapeCmd.Flags().String("platform", "flipkart", "The product page's platform.")
	scrapePincode = scrapeCmd.Flags().String("pincode", "", "Optional 6-digit delivery pincode.")
	scrapeTimeout = scrapeCmd.Flags().Int("timeout", 30, "Per-request timeout in seconds.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape <url>",
	Short: "Scrapes one product page and prints the extracted snapshot.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := scraper.ValidatePincode(*scrapePincode); err != nil {
			serviceutil.Fatal("invalid pincode", err)
		}

		fetcher := scraper.NewFetcher(
			time.Duration(*scrapeTimeout)*time.Second,
			retryutil.Default(),
		)
		registry := scraper.NewRegistry(fetcher)
		impl, err := registry.Get(*scrapePlatform)
		if err != nil {
			serviceutil.Fatal("unsupported platform", err)
		}

		snap := impl.Scrape(cmd.Context(), args[0], *scrapePincode)

		name := "unknown"
		if snap.Name != nil {
			name = *snap.Name
		}

		t := newTable()
		t.AppendHeader(table.Row{"Field", "Value"})
		t.AppendRow(table.Row{"Name", name})
		t.AppendRow(table.Row{"Price", watcher.FormatPrice(snap.Price)})
		t.AppendRow(table.Row{"Availability", watcher.FormatAvailability(snap.Available)})
		t.AppendRow(table.Row{"Deliverability", watcher.FormatDeliverability(snap.Deliverable)})
		t.AppendRow(table.Row{"Final URL", snap.FinalURL})
		if snap.Error != "" {
			t.AppendRow(table.Row{"Error", snap.Error})
		}
		t.Render()

		if len(snap.Offers) == 0 {
			return
		}
		offersTable := newTable()
		offersTable.AppendHeader(table.Row{"Bank", "Card", "Discount", "Min Transaction"})
		for _, offer := range snap.Offers {
			offersTable.AppendRow(table.Row{
				offer.BankName, offer.CardType, offer.Discount, offer.MinTransaction,
			})
		}
		offersTable.Render()
	},
}
