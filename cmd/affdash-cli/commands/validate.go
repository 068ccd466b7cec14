package commands

import (
	"fmt"
	"os"

	"affdash-backend/lib/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate <username> <password>",
	Short: "Checks a credential pair with a real login attempt.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		service := openReports(cfg)

		valid, err := service.Validate(cmd.Context(), args[0], args[1])
		if err != nil {
			serviceutil.Fatal("failed to validate credentials", err)
		}
		if !valid {
			fmt.Println("invalid credentials")
			os.Exit(1)
		}
		fmt.Println("credentials are valid")
	},
}
