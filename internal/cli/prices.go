package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/xtding233/enhance-backend/internal/catalog"
	"github.com/xtding233/enhance-backend/internal/market"
	"github.com/xtding233/enhance-backend/internal/pricing"
)

// newPricesCmd exports every catalog price in the snapshot document shape,
// so a fetched sheet can be served as a snapshot source.
func newPricesCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "prices",
		Short: "Fetch every catalog price and write a snapshot document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			region := catalog.Region(a.region)
			sheet, err := pricing.Collect(cmd.Context(), a.lookup, region, a.calc.Catalog().ItemIDs())
			if err != nil {
				return err
			}
			doc, err := json.MarshalIndent(market.Snapshot(sheet), "", "  ")
			if err != nil {
				return err
			}
			doc = append(doc, '\n')
			if out == "" || out == "-" {
				_, err = a.stdout.Write(doc)
				return err
			}
			if err := os.WriteFile(out, doc, 0o644); err != nil {
				return err
			}
			fprintf(a.stderr, "wrote %d %s prices to %s\n", len(sheet), region, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output file (default stdout)")
	return cmd
}
