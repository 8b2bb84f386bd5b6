// Command blogctl — служебные операции блога: миграции и тестовая отправка SMS.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "blogctl",
		Short:   "Служебные команды premium-blog",
		Version: version,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(sendSMSCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
