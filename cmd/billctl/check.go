package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"purchase-sale-backend/internal/billfile"
	"purchase-sale-backend/internal/billing"
	"purchase-sale-backend/internal/form"
	"purchase-sale-backend/internal/models"
)

type checkOptions struct {
	reference bool
	jsonOut   bool
}

// CheckReport is the --json output of check.
type CheckReport struct {
	Form      form.View               `json:"form"`
	Valid     bool                    `json:"valid"`
	Errors    billing.ErrorMap        `json:"errors"`
	Reference *models.ReferenceRecord `json:"reference,omitempty"`
}

func newCheckCmd() *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check <bill.yaml>",
		Short: "Compute and validate a bill file",
		Long: `Load a YAML bill (header, taxEnabled, items, sundry), enter it into
a fresh form and print the row values, the summary and the validation
result. Exits with status 1 when the bill does not validate.`,
		Example: `  billctl check bill.yaml
  billctl check bill.yaml --reference
  billctl check bill.yaml --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.OutOrStdout(), args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.reference, "reference", false, "also archive the bill as a reference record and print it")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the report as JSON")
	return cmd
}

func runCheck(out io.Writer, path string, opts *checkOptions) error {
	bill, err := billfile.Load(path)
	if err != nil {
		return err
	}

	ctl := form.NewController(nil)
	if err := bill.Replay(ctl); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	report := CheckReport{Form: ctl.View()}
	report.Errors = ctl.Validate()
	report.Valid = report.Errors.Valid()
	report.Form.Errors = report.Errors

	if report.Valid && opts.reference {
		rec, err := ctl.SaveAsReference()
		if err != nil {
			return err
		}
		report.Reference = &rec
	}

	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printReport(out, report)
	}

	if !report.Valid {
		return &billing.ValidationFailedError{Errors: report.Errors}
	}
	return nil
}

func printReport(out io.Writer, r CheckReport) {
	v := r.Form
	fmt.Fprintf(out, "%s  %s  party=%q broker=%q\n\n", v.Header.EntryDate, v.Header.OrderType, v.Header.PartyName, v.Header.BrokerName)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	if v.TaxEnabled {
		fmt.Fprintln(tw, "#\tItem\tQty\tUOM\tPrice\tAmount\tCGST\tSGST\tGST\tTotal\t")
	} else {
		fmt.Fprintln(tw, "#\tItem\tQty\tUOM\tPrice\tAmount\t")
	}
	for i, it := range v.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t", i+1, it.ItemName, it.Qty, it.UOM, it.Price, it.Amount)
		if v.TaxEnabled && it.Tax != nil {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t", it.Tax.CGSTAmt, it.Tax.SGSTAmt, it.Tax.TotalGST, it.Tax.GrandTotal)
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()

	if len(v.SundryEntries) > 0 {
		fmt.Fprintln(out, "\nSundry:")
		for _, e := range v.SundryEntries {
			fmt.Fprintf(out, "  %-20s %10s  %s\n", e.Category, e.Value, e.Remarks)
		}
	}

	fmt.Fprintln(out, "\nSummary:")
	fmt.Fprintf(out, "  Subtotal      %s\n", v.Totals.Display.Subtotal)
	if v.TaxEnabled {
		fmt.Fprintf(out, "  Total Tax     %s\n", v.Totals.Display.TotalTax)
	}
	fmt.Fprintf(out, "  Sundry        %s\n", v.Totals.Display.SundryTotal)
	fmt.Fprintf(out, "  Grand Total   %s\n", v.Totals.Display.GrandTotal)

	if !r.Valid {
		fmt.Fprintf(out, "\nValidation failed (%d):\n", len(r.Errors))
		for _, k := range r.Errors.Keys() {
			fmt.Fprintf(out, "  %-22s %s\n", k, r.Errors[k])
		}
		return
	}
	fmt.Fprintln(out, "\nValid.")
	if r.Reference != nil {
		rec := r.Reference
		fmt.Fprintf(out, "Reference %s: %s, %s, %s, %s, %s\n", rec.RefNo, rec.Date, rec.Party, rec.ItemName, rec.Amount, rec.Type)
	}
}
