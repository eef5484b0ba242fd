package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"bizledger/internal/money"
	"bizledger/internal/services"
	"bizledger/internal/store"
)

// errDrift makes the command exit non-zero after printing the report.
var errDrift = errors.New("bank account balances drifted")

// reconcileCmd recomputes every account balance from approved transactions.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Compare stored bank balances with the approved transaction history",
	Long: `Recompute every bank account's expected balance as its initial balance
plus the postings of all approved transactions, and report accounts whose
stored balance differs. Exits non-zero when any drift is found.

Example:
  ledgerctl reconcile`,
	RunE: runReconcile,
}

func runReconcile(cmd *cobra.Command, args []string) error {
	db, closeDB, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB()

	drifts, err := services.Reconcile(store.New(db))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(drifts) == 0 {
		fmt.Fprintln(out, "All bank account balances reconcile.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ACCOUNT\tID\tSTORED\tEXPECTED\tDRIFT")
	for _, d := range drifts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			d.AccountName, d.AccountID, money.Format(d.Stored), money.Format(d.Expected), money.Format(d.Drift()))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return fmt.Errorf("%w: %d account(s)", errDrift, len(drifts))
}
