// Command helios is the CLI entry point wiring configuration, transport,
// built-in tools, and agents into a Forest — either run once from the
// command line or exposed over HTTP.
//
// Usage:
//
//	helios chat --config config.toml "what is 15 * 7?"
//	helios serve --config config.toml --addr :8080
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

// CLI defines the command-line interface, in the style of the teacher's
// own kong.Parse(&cli, ...) wiring (cmd/hector/main.go).
type CLI struct {
	Chat    ChatCmd    `cmd:"" help:"Run a single goal through a Forest and print the answer."`
	Serve   ServeCmd   `cmd:"" help:"Expose a Forest over HTTP."`
	Version VersionCmd `cmd:"" help:"Show version information."`

	Config string `short:"c" help:"Path to TOML config file." type:"path" default:"helios.toml"`
}

// VersionCmd prints build version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(GetVersion())
	return nil
}

func main() {
	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("helios"),
		kong.Description("Helios Engine — LLM-driven agent Forest orchestrator"),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run(&cli))
	os.Exit(0)
}
