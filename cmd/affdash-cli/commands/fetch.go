package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"affdash-backend/lib/scrapers/e2"
	"affdash-backend/lib/serviceutil"
	"affdash-backend/lib/timezone"
	"affdash-backend/services/reports"

	"github.com/spf13/cobra"
)

var fetchMarkdown *bool

func init() {
	fetchMarkdown = fetchCmd.Flags().Bool("markdown", false, "Render reports as Markdown messages instead of tables.")
	rootCmd.AddCommand(fetchCmd)
}

func printReport(account string, report e2.Report, at time.Time) {
	for _, label := range report.Currencies {
		snapshot := report.Snapshots[label]

		display := label
		if display == e2.DefaultCurrency {
			display = ""
		}

		if *fetchMarkdown {
			fmt.Println(reports.FormatMarkdown(snapshot, account, display, at))
		} else {
			fmt.Println(reports.FormatText(snapshot, account, display, at))
		}
		fmt.Println()
	}
	for _, label := range report.Skipped {
		fmt.Printf("skipped currency %q, could not switch to it\n", label)
	}
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [username] [--markdown]",
	Short: "Scrapes one stored account, or every stored account when none is named.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		service := openReports(cfg)

		at := timezone.Now()

		if len(args) == 1 {
			report, err := service.FetchAccount(cmd.Context(), cfg.UserID, args[0])
			var unknown reports.UnknownAccountError
			if errors.As(err, &unknown) {
				fmt.Println(unknown.Error())
				return
			}
			if err != nil {
				serviceutil.Fatal("failed to fetch account", err)
			}
			printReport(args[0], report, at)
			return
		}

		all, failed, err := service.FetchAll(cmd.Context(), cfg.UserID)
		if err != nil {
			serviceutil.Fatal("failed to fetch accounts", err)
		}
		if len(all) == 0 && len(failed) == 0 {
			fmt.Println("no accounts stored, add one with `affdash-cli accounts add`")
			return
		}
		for account, report := range all {
			printReport(account, report, at)
		}
		for _, account := range failed {
			slog.Error("account failed to fetch", "account", account)
		}
	},
}
