package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ideavault/internal/api"
	"ideavault/internal/config"
)

func newLoginCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in and print a session token",
		Args:  requireExactlyArgs(1, "username is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !passwordStdin {
				return fmt.Errorf("--password-stdin is required")
			}
			password, err := readPasswordStdin()
			if err != nil {
				return err
			}

			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.Login(cmd.Context(), api.LoginRequest{
					Username: args[0],
					Password: password,
				})
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				if err := writePlain("%s\n", resp.Token); err != nil {
					return err
				}
				return writePlain("expires: %s (export IDEAVAULT_SESSION to use it)\n", formatMillis(resp.ExpiresAt))
			})
		},
	}

	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read password from stdin")
	return cmd
}

func newLogoutCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the current session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				if err := client.Logout(cmd.Context()); err != nil {
					return err
				}
				return writePlain("session revoked\n")
			})
		},
	}
}
