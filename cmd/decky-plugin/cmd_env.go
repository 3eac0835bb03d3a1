package main

import (
	"github.com/alecthomas/kong"
	"github.com/elee1766/decky-plugin/src/config"
	"github.com/elee1766/decky-plugin/src/fs"
	"github.com/elee1766/decky-plugin/src/plugin"
)

// EnvCmd prints the resolved host environment and legacy locations
type EnvCmd struct{}

type envOutput struct {
	Environment config.Environment  `json:"environment"`
	Legacy      plugin.LegacyLayout `json:"legacy"`
	Journal     string              `json:"journal,omitempty"`
}

// Run executes the env command
func (c *EnvCmd) Run(kctx *kong.Context, cli *CLI) error {
	cfg, env, err := loadSettings(cli)
	if err != nil {
		return err
	}

	legacy := plugin.DefaultLegacyLayout(env, cfg.Plugin.Name).WithExtra(cfg.Legacy, fs.NewOsFs(env.UserHome).Resolve)

	return printJSON(envOutput{
		Environment: env,
		Legacy:      legacy,
		Journal:     config.JournalPath(cfg, env),
	})
}
