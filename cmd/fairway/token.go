package main

import (
	"errors"
	"fmt"
	"time"

	handicapjwt "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/infrastructure/jwt"
	"github.com/urfave/cli/v2"
)

func newTokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "issue a bearer token for the write endpoints",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "subject", Aliases: []string{"s"}, Usage: "who the token is issued to", Required: true},
			&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour, Usage: "token lifetime"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if cfg.JWT.Secret == "" {
				return errors.New("jwt secret is not configured")
			}

			token, err := handicapjwt.NewProvider(cfg.JWT.Secret, cfg.JWT.Issuer).GenerateToken(c.String("subject"), c.Duration("ttl"))
			if err != nil {
				return fmt.Errorf("failed to generate token: %w", err)
			}
			fmt.Fprintln(c.App.Writer, token)
			return nil
		},
	}
}
