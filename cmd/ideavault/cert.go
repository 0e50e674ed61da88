package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"ideavault/internal/api"
	"ideavault/internal/config"
	"ideavault/internal/format"
	"ideavault/internal/proof"
)

func newCertCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cert",
		Short: "Generate and verify priority certificates",
	}
	cmd.AddCommand(newCertGenerateCmd(cfg, jsonOutput))
	cmd.AddCommand(newCertVerifyCmd(cfg, jsonOutput))
	return cmd
}

func newCertGenerateCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "generate <id>",
		Short: "Generate a certificate for an idea",
		Args:  requireExactlyOneID,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				cert, err := client.GetCertificate(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				if outputPath != "" {
					f, err := os.Create(outputPath)
					if err != nil {
						return err
					}
					defer f.Close()
					if err := (format.JSONFormatter{Indent: "  "}).Write(f, cert); err != nil {
						return err
					}
					if *jsonOutput {
						return writeJSON(cert)
					}
					return writePlain("wrote certificate %s to %s\n", cert.CertificateID, outputPath)
				}

				if *jsonOutput {
					return writeJSON(cert)
				}
				return (format.JSONFormatter{Indent: "  "}).Write(os.Stdout, cert)
			})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write certificate to a file")
	return cmd
}

func newCertVerifyCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		inputPath string
		live      bool
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a certificate offline or against the vault",
		RunE: func(cmd *cobra.Command, args []string) error {
			cert, err := readCertificate(inputPath)
			if err != nil {
				return err
			}

			// Offline verification needs no server at all.
			if !live {
				resp := api.VerifyResponse{Valid: proof.Verify(*cert), Result: api.VerifyResultValid}
				if !resp.Valid {
					resp.Result = api.VerifyResultInvalid
					resp.Reason = "certificate integrity check failed"
				}
				return writeVerifyResult(resp, jsonOutput)
			}

			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.VerifyCertificate(cmd.Context(), *cert, true)
				if err != nil {
					return err
				}
				return writeVerifyResult(resp, jsonOutput)
			})
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "certificate file (default: stdin)")
	cmd.Flags().BoolVar(&live, "live", false, "also compare against the stored idea")
	return cmd
}

func readCertificate(path string) (*proof.Certificate, error) {
	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	var cert proof.Certificate
	if err := json.Unmarshal(data, &cert); err != nil {
		return nil, fmt.Errorf("parse certificate: %w", err)
	}
	return &cert, nil
}

func writeVerifyResult(resp api.VerifyResponse, jsonOutput *bool) error {
	if *jsonOutput {
		return writeJSON(resp)
	}
	if resp.Reason != "" {
		return writePlain("%s: %s\n", resp.Result, resp.Reason)
	}
	return writePlain("%s\n", resp.Result)
}
