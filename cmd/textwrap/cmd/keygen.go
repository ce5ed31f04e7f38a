package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/psantana5/textwrap/internal/auth"
	"github.com/psantana5/textwrap/internal/tlsutil"
)

type generatedKey struct {
	Key  string `json:"key" yaml:"key"`
	Hash string `json:"hash" yaml:"hash"`
}

func newKeygenCmd(opts *rootOptions) *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an API key for the wrap service",
		Long: `Generate a random API key and its bcrypt hash. Give the key to clients
and add the hash to server.api_key_hashes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := auth.GenerateAPIKey()
			if err != nil {
				return err
			}
			hash, err := auth.HashKey(key, cost)
			if err != nil {
				return err
			}

			if opts.structured() {
				return opts.encode(cmd.OutOrStdout(), generatedKey{Key: key, Hash: hash})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API key: %s\n", key)
			fmt.Fprintf(cmd.OutOrStdout(), "Hash:    %s\n", hash)
			return nil
		},
	}

	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	return cmd
}

func newCertCmd(opts *rootOptions) *cobra.Command {
	var (
		certFile string
		keyFile  string
		validFor time.Duration
		hosts    []string
	)

	cmd := &cobra.Command{
		Use:   "cert",
		Short: "Write a self-signed TLS certificate for serve",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := tlsutil.GenerateSelfSigned(certFile, keyFile, validFor, hosts...); err != nil {
				return err
			}
			opts.logger.Info("Certificate written", map[string]interface{}{"cert": certFile, "key": keyFile})
			fmt.Fprintf(cmd.OutOrStdout(), "serve --tls-cert %s --tls-key %s\n", certFile, keyFile)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&certFile, "cert-file", "cert.pem", "certificate output file")
	flags.StringVar(&keyFile, "key-file", "key.pem", "private key output file")
	flags.DurationVar(&validFor, "valid-for", 365*24*time.Hour, "certificate lifetime")
	flags.StringSliceVar(&hosts, "host", nil, "additional IP addresses or DNS names")
	return cmd
}
