package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/taskdeck/internal/config"
	"github.com/dohr-michael/taskdeck/internal/secrets"
)

// NewSecretCommand returns the secret subcommand.
func NewSecretCommand() *cli.Command {
	return &cli.Command{
		Name:  "secret",
		Usage: "Manage credentials encrypted at rest",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Generate the encryption identity",
				Action: runSecretInit,
			},
			{
				Name:      "set",
				Usage:     "Encrypt a credential. 'api-key' goes to config.yaml, any other name to .env",
				ArgsUsage: "<name> <value>",
				Action:    runSecretSet,
			},
		},
	}
}

func runSecretInit(_ context.Context, cmd *cli.Command) error {
	keyPath := secrets.KeyPath(cmd.String("data-dir"))
	if err := secrets.GenerateIdentity(keyPath); err != nil {
		return err
	}
	identity, err := secrets.LoadIdentity(keyPath)
	if err != nil {
		return err
	}
	fmt.Printf("Identity ready at %s\nPublic key: %s\n", keyPath, identity.Recipient())
	return nil
}

func runSecretSet(_ context.Context, cmd *cli.Command) error {
	name := cmd.Args().Get(0)
	value := cmd.Args().Get(1)
	if name == "" || value == "" {
		return fmt.Errorf("usage: taskdeck secret set <name> <value>")
	}

	dataDir := cmd.String("data-dir")
	keyPath := secrets.KeyPath(dataDir)
	if err := secrets.GenerateIdentity(keyPath); err != nil {
		return err
	}
	identity, err := secrets.LoadIdentity(keyPath)
	if err != nil {
		return err
	}
	blob, err := secrets.Encrypt(value, identity.Recipient())
	if err != nil {
		return err
	}

	if name == "api-key" || name == "openai" {
		cfgPath := config.ConfigPath(dataDir)
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg.Enrichment.APIKey = blob
		if err := config.Save(cfg, cfgPath); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Println("Encrypted api key stored in config.yaml.")
		return nil
	}

	envName := strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
	if err := secrets.SetEntry(config.DotenvPath(dataDir), envName, blob); err != nil {
		return err
	}
	fmt.Printf("Encrypted %s stored in .env.\n", envName)
	return nil
}
