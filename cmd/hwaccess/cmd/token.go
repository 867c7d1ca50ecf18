package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shady333/gettingHWaccess/internal/token"
	domain "github.com/shady333/gettingHWaccess/pkg/types"
)

func tokenCmd() *cobra.Command {
	var show, remote bool

	c := &cobra.Command{
		Use:   "token",
		Short: "Acquire a token once and store it in the snapshot file",
		Long: "token runs the configured acquirer once, stores the result in the token\n" +
			"snapshot so the next serve or monitor can reuse it, and prints it.",
		Example: `  hwaccess token
  hwaccess token --show --output json
  hwaccess token --remote --server http://broker:5000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if remote {
				return runRemoteToken(cmd.Context(), show)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			acq, err := newAcquirer(&cfg.Token.Acquirer)
			if err != nil {
				return fmt.Errorf("creating acquirer: %w", err)
			}
			store := newTokenStore(&cfg.Token, log)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cred, err := token.Refresh(ctx, store, acq)
			if err != nil {
				return err
			}

			value := cred.Redacted()
			if show {
				value = cred.Token
			}
			if jsonOutput() {
				return outputJSON(map[string]any{
					"token":       value,
					"acquired_at": cred.AcquiredAt,
					"expires_at":  cred.ExpiresAt(store.TTL()),
				})
			}
			return printTokenDetail(value, cred.AcquiredAt, cred.ExpiresAt(store.TTL()))
		},
	}

	c.Flags().BoolVar(&show, "show", false, "print the full token instead of a redacted prefix")
	c.Flags().BoolVar(&remote, "remote", false, "read the cached token from the broker at --server instead of acquiring one")
	return c
}

func runRemoteToken(ctx context.Context, show bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	t, err := newClient().Token(ctx)
	if err != nil {
		return err
	}

	value := domain.Credential{Token: t.Token}.Redacted()
	if show {
		value = t.Token
	}
	if jsonOutput() {
		return outputJSON(map[string]any{
			"token":       value,
			"acquired_at": t.AcquiredAt,
			"expires_at":  t.ExpiresAt,
		})
	}
	return printTokenDetail(value, t.AcquiredAt, t.ExpiresAt)
}
