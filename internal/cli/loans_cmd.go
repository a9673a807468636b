package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	grpcapi "github.com/bibbank/amortization/internal/presentation/grpc"
)

// loanService is the subset of the gRPC client the loans commands call.
type loanService interface {
	CreateLoan(ctx context.Context, req *grpcapi.CreateLoanRequest) (*grpcapi.CreateLoanResponse, error)
	ListLoans(ctx context.Context) (*grpcapi.ListLoansResponse, error)
	GetSchedule(ctx context.Context, loanID string) (*grpcapi.GetScheduleResponse, error)
	GetMonthSummary(ctx context.Context, loanID string, month int32) (*grpcapi.GetMonthSummaryResponse, error)
	ShareLoan(ctx context.Context, loanID, email string) (*grpcapi.ShareLoanResponse, error)
}

// connectLoanService is replaced in tests.
var connectLoanService = func(addr, caFile, apiKey string) (loanService, func() error, error) {
	conn, err := grpcapi.Dial(addr, caFile)
	if err != nil {
		return nil, nil, err
	}
	return grpcapi.NewClient(conn, apiKey), conn.Close, nil
}

type remoteFlags struct {
	addr    string
	apiKey  string
	caFile  string
	timeout time.Duration
}

// withService connects, runs fn under the request timeout and closes the connection.
func (f *remoteFlags) withService(cmd *cobra.Command, fn func(ctx context.Context, svc loanService) error) error {
	if f.apiKey == "" {
		return fmt.Errorf("an API key is required: pass --api-key or set AMORTIZATION_API_KEY")
	}
	svc, closeFn, err := connectLoanService(f.addr, f.caFile, f.apiKey)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), f.timeout)
	defer cancel()
	return fn(ctx, svc)
}

func newLoansCmd() *cobra.Command {
	var flags remoteFlags

	cmd := &cobra.Command{
		Use:   "loans",
		Short: "Manage loans on a running amortization service over gRPC",
	}
	cmd.PersistentFlags().StringVar(&flags.addr, "addr", envOr("AMORTIZATION_GRPC_ADDR", "localhost:9090"), "gRPC server address")
	cmd.PersistentFlags().StringVar(&flags.apiKey, "api-key", envOr("AMORTIZATION_API_KEY", ""), "API key of the calling user")
	cmd.PersistentFlags().StringVar(&flags.caFile, "ca-file", envOr("AMORTIZATION_CA_FILE", ""), "CA certificate for TLS; plaintext when empty")
	cmd.PersistentFlags().DurationVar(&flags.timeout, "timeout", 10*time.Second, "Per-request timeout")

	cmd.AddCommand(
		newLoansCreateCmd(&flags),
		newLoansListCmd(&flags),
		newLoansScheduleCmd(&flags),
		newLoansSummaryCmd(&flags),
		newLoansShareCmd(&flags),
	)
	return cmd
}

func newLoansCreateCmd(flags *remoteFlags) *cobra.Command {
	var (
		terms    termsFlags
		currency string
	)

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a loan owned by the caller",
		Example: "  amortizationctl loans create --principal 250000 --rate 0.065 --term 360",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := terms.terms(); err != nil {
				return err
			}
			return flags.withService(cmd, func(ctx context.Context, svc loanService) error {
				resp, err := svc.CreateLoan(ctx, &grpcapi.CreateLoanRequest{
					Principal:  terms.principal,
					AnnualRate: terms.rate,
					TermMonths: int32(terms.term),
					Currency:   currency,
				})
				if err != nil {
					return err
				}
				if getOutputFormat(cmd) == "json" {
					return printJSON(cmd.OutOrStdout(), resp.Loan)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created loan %s (monthly payment %s %s)\n",
					resp.Loan.ID, resp.Loan.MonthlyPayment, resp.Loan.Currency)
				return nil
			})
		},
	}
	terms.bind(cmd)
	cmd.Flags().StringVar(&currency, "currency", "", "ISO 4217 currency code (default USD)")
	return cmd
}

func newLoansListCmd(flags *remoteFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List loans owned by or shared with the caller",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return flags.withService(cmd, func(ctx context.Context, svc loanService) error {
				resp, err := svc.ListLoans(ctx)
				if err != nil {
					return err
				}
				if getOutputFormat(cmd) == "json" {
					return printJSON(cmd.OutOrStdout(), resp.Loans)
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				_, _ = fmt.Fprintln(tw, "ID\tOWNER\tPRINCIPAL\tRATE\tTERM\tPAYMENT")
				for _, l := range resp.Loans {
					_, _ = fmt.Fprintf(tw, "%s\t%s\t%s %s\t%s\t%d\t%s\n",
						l.ID, l.OwnerID, l.Principal, l.Currency, l.AnnualRate, l.TermMonths, l.MonthlyPayment)
				}
				return tw.Flush()
			})
		},
	}
}

func newLoansScheduleCmd(flags *remoteFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule <loan-id>",
		Short: "Print a loan's amortization schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withService(cmd, func(ctx context.Context, svc loanService) error {
				resp, err := svc.GetSchedule(ctx, args[0])
				if err != nil {
					return err
				}
				if getOutputFormat(cmd) == "json" {
					return printJSON(cmd.OutOrStdout(), resp.Schedule)
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
				_, _ = fmt.Fprintln(tw, "MONTH\tPAYMENT\tINTEREST\tPRINCIPAL\tBALANCE\t")
				for _, e := range resp.Schedule.Entries {
					_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t\n",
						e.Month, e.Payment, e.Interest, e.PrincipalPortion, e.RemainingBalance)
				}
				return tw.Flush()
			})
		},
	}
}

func newLoansSummaryCmd(flags *remoteFlags) *cobra.Command {
	var month int

	cmd := &cobra.Command{
		Use:   "summary <loan-id>",
		Short: "Summarize one month of a loan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withService(cmd, func(ctx context.Context, svc loanService) error {
				resp, err := svc.GetMonthSummary(ctx, args[0], int32(month))
				if err != nil {
					return err
				}
				s := resp.Summary
				if getOutputFormat(cmd) == "json" {
					return printJSON(cmd.OutOrStdout(), s)
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				_, _ = fmt.Fprintf(tw, "Month:\t%d\n", s.Month)
				_, _ = fmt.Fprintf(tw, "Balance:\t%s %s\n", s.PrincipalBalance, s.Currency)
				_, _ = fmt.Fprintf(tw, "Principal paid:\t%s\n", s.TotalPrincipalPaid)
				_, _ = fmt.Fprintf(tw, "Interest paid:\t%s\n", s.TotalInterestPaid)
				return tw.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&month, "month", 0, "1-based month to summarize (required)")
	_ = cmd.MarkFlagRequired("month")
	return cmd
}

func newLoansShareCmd(flags *remoteFlags) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:     "share <loan-id>",
		Short:   "Grant another registered user read access to a loan",
		Example: "  amortizationctl loans share 5f0c... --email friend@example.com",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withService(cmd, func(ctx context.Context, svc loanService) error {
				resp, err := svc.ShareLoan(ctx, args[0], email)
				if err != nil {
					return err
				}
				if getOutputFormat(cmd) == "json" {
					return printJSON(cmd.OutOrStdout(), resp.Loan)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Loan %s is shared with %d user(s)\n", resp.Loan.ID, len(resp.Loan.SharedWith))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email of the user to share with (required)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
