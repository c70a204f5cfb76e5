package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/solveway/eli/pkg/cli/config"
	"github.com/solveway/eli/pkg/domain/model/auth"
	"github.com/solveway/eli/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdToken() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Manage internal surface bearer tokens",
		Commands: []*cli.Command{
			cmdTokenCreate(),
			cmdTokenRevoke(),
		},
	}
}

func cmdTokenCreate() *cli.Command {
	var name, email string
	var ttl time.Duration
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "name",
			Usage:       "Staff member name",
			Required:    true,
			Destination: &name,
		},
		&cli.StringFlag{
			Name:        "email",
			Usage:       "Staff member email",
			Required:    true,
			Destination: &email,
		},
		&cli.DurationFlag{
			Name:        "ttl",
			Usage:       "Token lifetime (0 for no expiry)",
			Value:       90 * 24 * time.Hour,
			Destination: &ttl,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "create",
		Usage: "Issue a bearer token for a staff member",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			token := &auth.Token{
				ID:     uuid.New().String(),
				Secret: uuid.New().String(),
				Principal: auth.Principal{
					ID:    uuid.New().String(),
					Name:  name,
					Email: email,
				},
				CreatedAt: time.Now().UTC(),
			}
			if ttl > 0 {
				token.ExpiresAt = token.CreatedAt.Add(ttl)
			}

			if err := repo.PutToken(ctx, token); err != nil {
				return goerr.Wrap(err, "failed to store token")
			}

			// The secret is printed once and never logged
			fmt.Printf("token id: %s\nsecret:   %s\n", token.ID, token.Secret)
			if !token.ExpiresAt.IsZero() {
				fmt.Printf("expires:  %s\n", token.ExpiresAt.Format(time.RFC3339))
			}
			return nil
		},
	}
}

func cmdTokenRevoke() *cli.Command {
	var tokenID string
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "id",
			Usage:       "Token ID to revoke",
			Required:    true,
			Destination: &tokenID,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "revoke",
		Usage: "Revoke a bearer token",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			if err := repo.DeleteToken(ctx, tokenID); err != nil {
				return goerr.Wrap(err, "failed to revoke token", goerr.V("tokenID", tokenID))
			}

			fmt.Printf("revoked token %s\n", tokenID)
			return nil
		},
	}
}
