package commands

import (
	"fmt"

	"affdash-backend/lib/serviceutil"
	"affdash-backend/services/keychain"
	"affdash-backend/services/reports"

	"github.com/spf13/cobra"
)

func init() {
	accountsCmd.AddCommand(accountsAddCmd)
	accountsCmd.AddCommand(accountsListCmd)
	accountsCmd.AddCommand(accountsRemoveCmd)
	rootCmd.AddCommand(accountsCmd)
}

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Manages stored dashboard credentials.",
}

var accountsAddCmd = &cobra.Command{
	Use:   "add <username> <password>",
	Short: "Stores a credential pair, overwriting the password if the username exists.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		kc := openKeychain(cfg)

		err := kc.SetAccount(cmd.Context(), cfg.UserID, keychain.Account{
			Username: args[0],
			Password: args[1],
		})
		if err != nil {
			serviceutil.Fatal("failed to store account", err)
		}
		fmt.Printf("stored account %q\n", args[0])
	},
}

var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists stored usernames.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		kc := openKeychain(cfg)

		usernames, err := kc.ListUsernames(cmd.Context(), cfg.UserID)
		if err != nil {
			serviceutil.Fatal("failed to list accounts", err)
		}
		if len(usernames) == 0 {
			fmt.Println("no accounts stored")
			return
		}
		for _, u := range usernames {
			fmt.Println(u)
		}
	},
}

var accountsRemoveCmd = &cobra.Command{
	Use:   "remove <username>",
	Short: "Removes a stored credential pair.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		kc := openKeychain(cfg)

		deleted, err := kc.DeleteAccount(cmd.Context(), cfg.UserID, args[0])
		if err != nil {
			serviceutil.Fatal("failed to remove account", err)
		}
		if !deleted {
			known, err := kc.ListUsernames(cmd.Context(), cfg.UserID)
			if err == nil {
				if suggestion, ok := reports.SuggestAccount(args[0], known); ok {
					fmt.Printf("no account named %q, did you mean %q?\n", args[0], suggestion)
					return
				}
			}
			fmt.Printf("no account named %q\n", args[0])
			return
		}
		fmt.Printf("removed account %q\n", args[0])
	},
}
