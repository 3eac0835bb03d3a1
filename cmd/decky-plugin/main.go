package main

import (
	"github.com/alecthomas/kong"
)

// CLI represents the main CLI structure
type CLI struct {
	ConfigPath string `name:"config" type:"path" help:"Configuration file (defaults to the XDG config location)"`
	LogLevel   string `help:"Log level: debug, info, warn or error (defaults to the configured level)"`
	LogFile    bool   `help:"Log as JSON to the plugin log file instead of stderr"`

	Migrate MigrateCmd `cmd:"" help:"Migrate legacy plugin data"`
	Run     RunCmd     `cmd:"" help:"Run the plugin lifecycle until interrupted"`
	Add     AddCmd     `cmd:"" help:"Call the plugin's add method"`
	Methods MethodsCmd `cmd:"" help:"Describe the methods callable from the frontend"`
	Env     EnvCmd     `cmd:"" help:"Show the resolved host environment"`
	Config  ConfigCmd  `cmd:"" help:"Configuration helpers"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("decky-plugin"),
		kong.Description("Decky plugin template and legacy data migration"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	err := ctx.Run(&cli)
	if err != nil {
		FatalError(createCLILogger(cli.LogLevel), err)
	}
}
