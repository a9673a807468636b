package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bibbank/amortization/pkg/tlsutil"
)

func newDevCertsCmd() *cobra.Command {
	var (
		outDir string
		hosts  []string
	)

	cmd := &cobra.Command{
		Use:     "dev-certs",
		Short:   "Generate a development CA and gRPC server certificate",
		Example: "  amortizationctl dev-certs --out ./certs --host localhost --host amortization",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := tlsutil.GenerateSelfSignedCert(hosts, outDir); err != nil {
				return fmt.Errorf("generate certificates: %w", err)
			}
			files := map[string]string{
				"ca_cert":     filepath.Join(outDir, tlsutil.CAFile),
				"server_cert": filepath.Join(outDir, tlsutil.ServerCertFile),
				"server_key":  filepath.Join(outDir, tlsutil.ServerKeyFile),
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(cmd.OutOrStdout(), files)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s, %s and %s\n",
				files["ca_cert"], files["server_cert"], files["server_key"])
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "certs", "Output directory")
	cmd.Flags().StringSliceVar(&hosts, "host", []string{"localhost", "127.0.0.1"}, "DNS name or IP for the server certificate (repeatable)")
	return cmd
}
