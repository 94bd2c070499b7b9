package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avdeenko/carrymon/internal/contracts"
	"github.com/avdeenko/carrymon/internal/query"
	"github.com/avdeenko/carrymon/internal/store"
	"github.com/avdeenko/carrymon/pkg/config"
	"github.com/avdeenko/carrymon/pkg/database"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the top-5 latest spreads for both tables",
	Long: `Prints the five highest-yield latest-per-key records: share/future
spreads ranked by the sell-side annualized yield, future/future spreads
ranked by the bid-side annualized yield.

Example:
  go run ./cmd/carrymon report`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()

	spreads, err := query.TopShareFutures(ctx, store.NewSpreadRepository(db.Pool), query.ReportSize)
	if err != nil {
		return fmt.Errorf("top spreads: %w", err)
	}

	fmt.Println("Top share/future spreads by sell-side annualized yield:")
	if len(spreads) == 0 {
		fmt.Println("  no records")
	}
	for i, rec := range spreads {
		fmt.Printf("  %d. %-6s %-12s sell %7.2f%%  buy %7.2f%%  (%s)\n",
			i+1, rec.ShareCode, rec.FutureCode,
			rec.SellYieldPct, rec.BuyYieldPct,
			rec.CaptureTime.Format(contracts.CaptureTimeLayout))
	}

	pairs, err := query.TopFuturePairs(ctx, store.NewFutureSpreadRepository(db.Pool), query.ReportSize)
	if err != nil {
		return fmt.Errorf("top future spreads: %w", err)
	}

	fmt.Println("\nTop future/future spreads by bid-side annualized yield:")
	if len(pairs) == 0 {
		fmt.Println("  no records")
	}
	for i, rec := range pairs {
		fmt.Printf("  %d. %-12s -> %-12s bid %7.2f%%  offer %7.2f%%  (%s)\n",
			i+1, rec.NearCode, rec.FarCode,
			rec.SpreadBidYieldPct, rec.SpreadOfferYieldPct,
			rec.CaptureTime.Format(contracts.CaptureTimeLayout))
	}

	return nil
}
