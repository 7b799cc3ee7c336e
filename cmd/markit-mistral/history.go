// Copyright Neuromechanist Labs, 2025. All rights reserved.

package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/neuromechanist/markit-mistral/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past conversions",
	Long: `History lists conversions recorded in the local ledger, newest first.
The ledger also backs convert --skip-existing, which reuses a prior
conversion when the input content is byte-identical.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of entries to show")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ledger, err := history.Open(viper.GetString("data_dir"))
	if err != nil {
		return err
	}
	defer ledger.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := ledger.List(limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No conversions recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tINPUT\tOUTPUT\tPAGES\tWORDS\tIMAGES")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
			e.ConvertedAt.Local().Format(time.DateTime),
			e.InputPath, e.OutputPath, e.Pages, e.Words, e.Images)
	}
	return w.Flush()
}
