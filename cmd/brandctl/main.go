package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/helio-platform/brandgate/pkg/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is overridden by goreleaser via -ldflags "-X main.version=...".
var version = "dev"

var (
	serverURL string
	apiToken  string
	tenantID  string
	cfgFile   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "brandctl",
	Short: "Helio custom-domain CLI",
	Long: `brandctl manages a tenant's white-label custom domain on the Helio
platform: configure a domain, print the DNS records to publish, and run
the ownership and TLS readiness checks.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(home + "/.brandctl")
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
		viper.AutomaticEnv()
		_ = viper.ReadInConfig()

		if serverURL == "" {
			serverURL = viper.GetString("server_url")
		}
		if serverURL == "" {
			serverURL = "http://localhost:8080"
		}
		if apiToken == "" {
			apiToken = viper.GetString("api_token")
		}
		if tenantID == "" {
			tenantID = viper.GetString("tenant_id")
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.brandctl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "brandgate server URL (default http://localhost:8080)")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", "", "API bearer token")
	rootCmd.PersistentFlags().StringVar(&tenantID, "tenant", "", "tenant UUID")

	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(disableCmd)
	rootCmd.AddCommand(versionCmd)
}

func newClient() (*client.Client, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("--tenant is required (or set tenant_id in ~/.brandctl/config.yaml)")
	}
	opts := []client.Option{}
	if apiToken != "" {
		opts = append(opts, client.WithAPIToken(apiToken))
	}
	return client.New(serverURL, opts...), nil
}

func printRecords(records []client.ExpectedRecord) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tNAME\tVALUE\tTTL")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", r.Type, r.Name, r.Value, r.TTL)
	}
	return w.Flush()
}

// ── configure ────────────────────────────────────────────────────────────────

var configureCmd = &cobra.Command{
	Use:   "configure <domain>",
	Short: "Configure a custom domain and print the DNS records to publish",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		res, err := c.ConfigureDomain(context.Background(), tenantID, args[0])
		if err != nil {
			return fmt.Errorf("configure domain: %w", err)
		}

		fmt.Printf("✓ Domain configured: %s\n\n", res.Configuration.Domain)
		fmt.Println("Publish these DNS records:")
		fmt.Println()
		if err := printRecords(res.ExpectedRecords); err != nil {
			return err
		}
		fmt.Println()
		fmt.Println("Then run: brandctl verify")
		return nil
	},
}

// ── records ──────────────────────────────────────────────────────────────────

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Print the DNS records the tenant must publish",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		cfg, err := c.GetDomain(context.Background(), tenantID)
		if err != nil {
			if errors.Is(err, client.ErrNoDomainConfigured) {
				return fmt.Errorf("no custom domain configured; run 'brandctl configure <domain>' first")
			}
			return err
		}
		return printRecords(cfg.ExpectedRecords)
	},
}

// ── status ───────────────────────────────────────────────────────────────────

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the tenant's domain configuration and verification state",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		cfg, err := c.GetDomain(context.Background(), tenantID)
		if err != nil {
			if errors.Is(err, client.ErrNoDomainConfigured) {
				fmt.Println("No custom domain configured.")
				return nil
			}
			return err
		}

		if statusJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		}

		fmt.Printf("Domain:       %s\n", cfg.Domain)
		fmt.Printf("Verified:     %t\n", cfg.Verified)
		if cfg.LastCheckedAt != nil {
			fmt.Printf("Last checked: %s\n", cfg.LastCheckedAt.Format(time.RFC3339))
		} else {
			fmt.Println("Last checked: never")
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output as JSON")
}

// ── verify ───────────────────────────────────────────────────────────────────

var verifyDetails bool

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Run the ownership and TLS readiness checks",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		ctx := context.Background()

		verified, err := c.VerifyDomain(ctx, tenantID)
		if err != nil {
			if errors.Is(err, client.ErrNoDomainConfigured) {
				return fmt.Errorf("no custom domain configured; run 'brandctl configure <domain>' first")
			}
			return fmt.Errorf("verify domain: %w", err)
		}

		if verified {
			fmt.Println("✓ Domain verified")
			if !verifyDetails {
				return nil
			}
		} else {
			fmt.Println("✗ Domain not verified")
		}

		res, err := c.VerificationDetails(ctx, tenantID)
		if err != nil {
			return fmt.Errorf("fetch verification details: %w", err)
		}

		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CHECK\tRESULT\tOBSERVED")
		fmt.Fprintf(w, "CNAME/A\t%s\t%s\n", passFail(res.CNAMEOrA.Valid), observed(res.CNAMEOrA.ObservedRecords))
		fmt.Fprintf(w, "TXT\t%s\t%s\n", passFail(res.TXT.Valid), observed(res.TXT.ObservedRecords))
		fmt.Fprintf(w, "TLS\t%s\tsubject_matched=%t time_valid=%t\n",
			passFail(res.TLS.Valid), res.TLS.Details.SubjectMatched, res.TLS.Details.TimeValid)
		return w.Flush()
	},
}

func init() {
	verifyCmd.Flags().BoolVar(&verifyDetails, "details", false, "Print the per-check breakdown even on success")
}

func passFail(ok bool) string {
	if ok {
		return "pass"
	}
	return "FAIL"
}

func observed(records []string) string {
	if len(records) == 0 {
		return "-"
	}
	out := records[0]
	for _, r := range records[1:] {
		out += ", " + r
	}
	return out
}

// ── disable ──────────────────────────────────────────────────────────────────

var disableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Remove the tenant's custom domain",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		if err := c.DisableDomain(context.Background(), tenantID); err != nil {
			if errors.Is(err, client.ErrNoDomainConfigured) {
				fmt.Println("No custom domain configured.")
				return nil
			}
			return fmt.Errorf("disable domain: %w", err)
		}
		fmt.Println("✓ Custom domain disabled")
		return nil
	},
}

// ── version ──────────────────────────────────────────────────────────────────

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the brandctl version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("brandctl %s\n", version)
	},
}
