package main

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"
)

// AddCmd calls the example method exposed to the frontend
type AddCmd struct {
	Left  int `arg:"" help:"Left operand"`
	Right int `arg:"" help:"Right operand"`
}

// Run executes the add command
func (c *AddCmd) Run(kctx *kong.Context, cli *CLI) error {
	ctx := context.Background()

	a, err := newApp(ctx, cli, appOptions{NoJournal: true})
	if err != nil {
		return err
	}
	defer a.Close()

	sum, err := a.Plugin.Add(ctx, c.Left, c.Right)
	if err != nil {
		return err
	}
	fmt.Println(sum)
	return nil
}
