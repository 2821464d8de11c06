package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eventscope/eventscope/internal/utils"
	"github.com/eventscope/eventscope/pkg/storage"
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Re-derive stored price columns with the current normalizer",
	Long: `Runs the price normalizer over every stored submission that still has
its original price text, so rows written by older versions agree with
rows the current pipeline would produce.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		dbPath, err := utils.GetAbsDBPath(viper.GetString("db.path"))
		if err != nil {
			return err
		}
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return fmt.Errorf("database file not found: %s", dbPath)
		}

		lock, err := utils.NewDBLock(dbPath)
		if err != nil {
			return err
		}
		if err := lock.Lock(); err != nil {
			return err
		}
		defer lock.Unlock()

		db, err := storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		changed, err := db.BackfillPrices(cmd.Context(), dryRun)
		if err != nil {
			return err
		}
		if dryRun {
			fmt.Printf("%d submissions would change\n", changed)
		} else {
			fmt.Printf("%d submissions updated\n", changed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backfillCmd)
	backfillCmd.Flags().Bool("dry-run", false, "Report what would change without writing")
}
