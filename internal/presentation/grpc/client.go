package grpc

import (
	"context"
	"fmt"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/bibbank/amortization/pkg/auth"
	"github.com/bibbank/amortization/pkg/tlsutil"
)

// Client calls LoanService with the JSON codec, presenting an API key on
// every request.
type Client struct {
	cc     grpclib.ClientConnInterface
	apiKey string
}

// NewClient wraps an existing connection.
func NewClient(cc grpclib.ClientConnInterface, apiKey string) *Client {
	return &Client{cc: cc, apiKey: apiKey}
}

// Dial opens a connection to addr. TLS is used when caFile is set.
func Dial(addr, caFile string) (*grpclib.ClientConn, error) {
	var creds credentials.TransportCredentials = insecure.NewCredentials()
	if caFile != "" {
		var err error
		creds, err = tlsutil.ClientTLSConfig(caFile)
		if err != nil {
			return nil, fmt.Errorf("client tls: %w", err)
		}
	}
	conn, err := grpclib.NewClient(addr, grpclib.WithTransportCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return conn, nil
}

func (c *Client) invoke(ctx context.Context, method string, req, resp any) error {
	if c.apiKey != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, auth.MetadataAPIKey, c.apiKey)
	}
	return c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, req, resp, grpclib.CallContentSubtype(codecName))
}

func (c *Client) CreateLoan(ctx context.Context, req *CreateLoanRequest) (*CreateLoanResponse, error) {
	resp := new(CreateLoanResponse)
	if err := c.invoke(ctx, "CreateLoan", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) ListLoans(ctx context.Context) (*ListLoansResponse, error) {
	resp := new(ListLoansResponse)
	if err := c.invoke(ctx, "ListLoans", &ListLoansRequest{}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) GetSchedule(ctx context.Context, loanID string) (*GetScheduleResponse, error) {
	resp := new(GetScheduleResponse)
	if err := c.invoke(ctx, "GetSchedule", &GetScheduleRequest{LoanID: loanID}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) GetMonthSummary(ctx context.Context, loanID string, month int32) (*GetMonthSummaryResponse, error) {
	resp := new(GetMonthSummaryResponse)
	if err := c.invoke(ctx, "GetMonthSummary", &GetMonthSummaryRequest{LoanID: loanID, Month: month}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) ShareLoan(ctx context.Context, loanID, email string) (*ShareLoanResponse, error) {
	resp := new(ShareLoanResponse)
	if err := c.invoke(ctx, "ShareLoan", &ShareLoanRequest{LoanID: loanID, Email: email}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
