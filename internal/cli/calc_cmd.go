package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/bibbank/amortization/internal/application/dto"
	"github.com/bibbank/amortization/internal/domain/model"
	"github.com/bibbank/amortization/pkg/money"
)

// termsFlags holds the loan terms shared by the calculator commands.
type termsFlags struct {
	principal string
	rate      string
	term      int
}

func (f *termsFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.principal, "principal", "", "Loan principal, e.g. 250000.00 (required)")
	cmd.Flags().StringVar(&f.rate, "rate", "", "Annual interest rate as a fraction, e.g. 0.065 (required)")
	cmd.Flags().IntVar(&f.term, "term", 0, "Term in months (required)")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("rate")
	_ = cmd.MarkFlagRequired("term")
}

func (f *termsFlags) terms() (model.Terms, error) {
	principal, err := decimal.NewFromString(f.principal)
	if err != nil {
		return model.Terms{}, fmt.Errorf("invalid --principal %q: %w", f.principal, err)
	}
	rate, err := decimal.NewFromString(f.rate)
	if err != nil {
		return model.Terms{}, fmt.Errorf("invalid --rate %q: %w", f.rate, err)
	}
	return model.Terms{Principal: principal, AnnualRate: rate, TermMonths: f.term}, nil
}

func newPaymentCmd() *cobra.Command {
	var flags termsFlags

	cmd := &cobra.Command{
		Use:     "payment",
		Short:   "Compute the level monthly payment",
		Example: "  amortizationctl payment --principal 200000 --rate 0.06 --term 360",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			terms, err := flags.terms()
			if err != nil {
				return err
			}
			payment, err := model.MonthlyPayment(terms)
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(cmd.OutOrStdout(), map[string]string{"monthly_payment": money.Format(payment)})
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), money.Format(payment))
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func newScheduleCmd() *cobra.Command {
	var flags termsFlags

	cmd := &cobra.Command{
		Use:     "schedule",
		Short:   "Print the full amortization schedule",
		Example: "  amortizationctl schedule --principal 1200 --rate 0.12 --term 12 -o json",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			terms, err := flags.terms()
			if err != nil {
				return err
			}
			schedule, err := model.GenerateSchedule(terms)
			if err != nil {
				return err
			}

			entries := make([]dto.ScheduleEntryResponse, len(schedule))
			for i, e := range schedule {
				entries[i] = dto.ScheduleEntryResponse{
					Month:            e.Month,
					Payment:          money.Format(e.Payment),
					Interest:         money.Format(e.Interest),
					PrincipalPortion: money.Format(e.PrincipalPortion),
					RemainingBalance: money.Format(e.RemainingBalance),
				}
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(cmd.OutOrStdout(), entries)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			_, _ = fmt.Fprintln(tw, "MONTH\tPAYMENT\tINTEREST\tPRINCIPAL\tBALANCE\t")
			for _, e := range entries {
				_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t\n",
					e.Month, e.Payment, e.Interest, e.PrincipalPortion, e.RemainingBalance)
			}
			return tw.Flush()
		},
	}
	flags.bind(cmd)
	return cmd
}

func newSummaryCmd() *cobra.Command {
	var (
		flags termsFlags
		month int
	)

	cmd := &cobra.Command{
		Use:     "summary",
		Short:   "Summarize one month and the totals paid through it",
		Example: "  amortizationctl summary --principal 1200 --rate 0.12 --term 12 --month 6",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			terms, err := flags.terms()
			if err != nil {
				return err
			}
			s, err := model.CumulativeSummary(terms, month)
			if err != nil {
				return err
			}

			resp := dto.MonthSummaryResponse{
				Month:              s.Month,
				Payment:            money.Format(s.Payment),
				Interest:           money.Format(s.Interest),
				PrincipalPortion:   money.Format(s.PrincipalPortion),
				PrincipalBalance:   money.Format(s.RemainingBalance),
				TotalPrincipalPaid: money.Format(s.TotalPrincipalPaid),
				TotalInterestPaid:  money.Format(s.TotalInterestPaid),
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(cmd.OutOrStdout(), resp)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintf(tw, "Month:\t%d\n", resp.Month)
			_, _ = fmt.Fprintf(tw, "Payment:\t%s\n", resp.Payment)
			_, _ = fmt.Fprintf(tw, "Interest:\t%s\n", resp.Interest)
			_, _ = fmt.Fprintf(tw, "Principal:\t%s\n", resp.PrincipalPortion)
			_, _ = fmt.Fprintf(tw, "Balance:\t%s\n", resp.PrincipalBalance)
			_, _ = fmt.Fprintf(tw, "Principal paid:\t%s\n", resp.TotalPrincipalPaid)
			_, _ = fmt.Fprintf(tw, "Interest paid:\t%s\n", resp.TotalInterestPaid)
			return tw.Flush()
		},
	}
	flags.bind(cmd)
	cmd.Flags().IntVar(&month, "month", 0, "1-based month to summarize (required)")
	_ = cmd.MarkFlagRequired("month")
	return cmd
}
