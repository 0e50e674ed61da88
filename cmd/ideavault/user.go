package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	internalauth "ideavault/internal/auth"
	"ideavault/internal/config"
	"ideavault/internal/store"
)

// User management writes to the database directly so accounts can be
// provisioned before the server ever runs.
func newUserCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage local user accounts",
	}
	cmd.AddCommand(newUserAddCmd(cfg, jsonOutput))
	cmd.AddCommand(newUserListCmd(cfg, jsonOutput))
	cmd.AddCommand(newUserSetDisabledCmd(cfg, jsonOutput, "disable", "Disable one user", true))
	cmd.AddCommand(newUserSetDisabledCmd(cfg, jsonOutput, "enable", "Enable one user", false))
	cmd.AddCommand(newUserPasswdCmd(cfg))
	return cmd
}

func withUserStore(cfg *config.Config, fn func(*store.Store) error) error {
	if cfg == nil || cfg.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func readPasswordStdin() (string, error) {
	passwordBytes, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	password := strings.TrimSpace(string(passwordBytes))
	if err := internalauth.ValidatePassword(password); err != nil {
		return "", err
	}
	return password, nil
}

func newUserAddCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Create one local user",
		Args:  requireExactlyArgs(1, "username is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !passwordStdin {
				return fmt.Errorf("--password-stdin is required")
			}

			username, err := internalauth.NormalizeUsername(args[0])
			if err != nil {
				return err
			}
			password, err := readPasswordStdin()
			if err != nil {
				return err
			}
			hash, err := internalauth.HashPassword(password)
			if err != nil {
				return err
			}

			return withUserStore(cfg, func(st *store.Store) error {
				created, err := st.CreateUser(cmd.Context(), username, hash, time.Now().UTC().UnixMilli())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(created)
				}
				return writePlain("created user %s (%s)\n", created.Username, created.ID)
			})
		},
	}

	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read password from stdin")
	return cmd
}

func newUserListCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List provisioned users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUserStore(cfg, func(st *store.Store) error {
				users, err := st.ListUsers(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(map[string]any{"count": len(users), "users": users})
				}
				if len(users) == 0 {
					return writePlain("no users configured\n")
				}
				if err := writePlain("USERNAME\tSTATUS\tID\n"); err != nil {
					return err
				}
				for _, user := range users {
					status := "enabled"
					if user.Disabled {
						status = "disabled"
					}
					if err := writePlain("%s\t%s\t%s\n", user.Username, status, user.ID); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newUserSetDisabledCmd(cfg *config.Config, jsonOutput *bool, name, short string, disabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <username>",
		Short: short,
		Args:  requireExactlyArgs(1, "username is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			username, err := internalauth.NormalizeUsername(args[0])
			if err != nil {
				return err
			}

			return withUserStore(cfg, func(st *store.Store) error {
				if err := st.SetUserDisabled(cmd.Context(), username, disabled, time.Now().UTC().UnixMilli()); err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(map[string]any{"username": username, "disabled": disabled})
				}
				action := "enabled"
				if disabled {
					action = "disabled"
				}
				return writePlain("%s user %s\n", action, username)
			})
		},
	}
}

func newUserPasswdCmd(cfg *config.Config) *cobra.Command {
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "passwd <username>",
		Short: "Change one user's password",
		Args:  requireExactlyArgs(1, "username is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !passwordStdin {
				return fmt.Errorf("--password-stdin is required")
			}

			username, err := internalauth.NormalizeUsername(args[0])
			if err != nil {
				return err
			}
			password, err := readPasswordStdin()
			if err != nil {
				return err
			}
			hash, err := internalauth.HashPassword(password)
			if err != nil {
				return err
			}

			return withUserStore(cfg, func(st *store.Store) error {
				if err := st.SetUserPasswordHash(cmd.Context(), username, hash, time.Now().UTC().UnixMilli()); err != nil {
					return err
				}
				return writePlain("updated password for %s\n", username)
			})
		},
	}

	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read password from stdin")
	return cmd
}
