package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/elee1766/decky-plugin/src/config"
)

// ConfigCmd groups configuration helpers
type ConfigCmd struct {
	Show   ConfigShowCmd   `cmd:"" help:"Show the effective configuration"`
	Get    ConfigGetCmd    `cmd:"" help:"Get a configuration value"`
	Set    ConfigSetCmd    `cmd:"" help:"Set a configuration value"`
	Schema ConfigSchemaCmd `cmd:"" help:"Print the JSON schema of the configuration file"`
	Path   ConfigPathCmd   `cmd:"" help:"Print the configuration file path"`
}

// ConfigShowCmd prints the merged configuration
type ConfigShowCmd struct{}

// Run executes the config show command
func (c *ConfigShowCmd) Run(kctx *kong.Context, cli *CLI) error {
	cfg, err := config.NewLoader(cli.ConfigPath, nil).Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	return printJSON(cfg)
}

// ConfigGetCmd prints a single value
type ConfigGetCmd struct {
	Key string `arg:"" help:"Dotted key, e.g. logging.level"`
}

// Run executes the config get command
func (c *ConfigGetCmd) Run(kctx *kong.Context, cli *CLI) error {
	cfg, err := config.NewLoader(cli.ConfigPath, nil).Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	value, err := getConfigValue(cfg, c.Key)
	if err != nil {
		return err
	}

	if s, ok := value.(string); ok {
		fmt.Println(s)
		return nil
	}
	return printJSON(value)
}

// ConfigSetCmd updates a value and saves the configuration file
type ConfigSetCmd struct {
	Key   string `arg:"" help:"Dotted key, e.g. logging.level"`
	Value string `arg:"" help:"New value; lists are comma separated"`
}

// Run executes the config set command
func (c *ConfigSetCmd) Run(kctx *kong.Context, cli *CLI) error {
	loader := config.NewLoader(cli.ConfigPath, config.NewConfigEnvironmentFromMap(nil))
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	if err := setConfigValue(cfg, c.Key, c.Value); err != nil {
		return err
	}

	if err := loader.SaveFile(cfg, loader.Path()); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Updated %s in %s\n", c.Key, loader.Path())
	return nil
}

// ConfigSchemaCmd prints the configuration schema
type ConfigSchemaCmd struct{}

// Run executes the config schema command
func (c *ConfigSchemaCmd) Run(kctx *kong.Context, cli *CLI) error {
	data, err := config.SchemaJSON()
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// ConfigPathCmd prints where the configuration is read from
type ConfigPathCmd struct{}

// Run executes the config path command
func (c *ConfigPathCmd) Run(kctx *kong.Context, cli *CLI) error {
	fmt.Println(config.NewLoader(cli.ConfigPath, nil).Path())
	return nil
}
