package main

import (
	"context"

	"github.com/alecthomas/kong"
)

// MethodsCmd prints the methods the plugin exposes to the frontend
type MethodsCmd struct{}

// Run executes the methods command
func (c *MethodsCmd) Run(kctx *kong.Context, cli *CLI) error {
	a, err := newApp(context.Background(), cli, appOptions{NoJournal: true})
	if err != nil {
		return err
	}
	defer a.Close()

	return printJSON(a.Plugin.Methods())
}
