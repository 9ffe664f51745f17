package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "payments-service",
	Short:         "Marketplace job payments and balances API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// amounts go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "payments-service: %v\n", err)
		os.Exit(1)
	}
}
