package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"bizledger/internal/seed"
)

var seedFile string

// seedCmd loads reference data from a YAML fixture.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load users, companies, categories, clients and bank accounts from YAML",
	Long: `Load reference data from a YAML fixture. Users are matched by email and
everything else by name, so running the same file twice changes nothing.

Example:
  ledgerctl seed --file seed.yaml`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "seed.yaml", "fixture file")
}

func runSeed(cmd *cobra.Command, args []string) error {
	fixture, err := seed.Load(seedFile)
	if err != nil {
		return err
	}

	db, closeDB, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB()

	res, err := seed.Apply(db, fixture)
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Seed complete: %d created, %d already present\n", res.Created, res.Skipped)
	return nil
}
