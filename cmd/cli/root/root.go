package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exported RootCmd
var RootCmd = &cobra.Command{
	Use:   "cards",
	Short: "Card trading CLI",
	Long:  "Command line interface for interacting with the card trading API",
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// GetRoot returns the RootCmd for subcommand registration.
func GetRoot() *cobra.Command {
	return RootCmd
}
