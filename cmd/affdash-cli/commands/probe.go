package commands

import (
	"fmt"

	"affdash-backend/lib/scrapers/e2"
	"affdash-backend/lib/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(probeCmd)
}

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Checks that the dashboard's login endpoint is reachable, without a browser.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := e2.Probe(cmd.Context())
		if err != nil {
			serviceutil.Fatal("dashboard probe failed", err)
		}
		fmt.Println("dashboard is reachable")
	},
}
