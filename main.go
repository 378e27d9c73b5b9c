// main.go
//
// Entry point for the wordle binary.
//   - `wordle serve` runs the HTTP + websocket server for the browser client.
//   - `wordle play` runs a game in the terminal.
//
// Configuration is resolved by internal/config (defaults, HCL file, env);
// a .env file in the working directory is loaded first for development.

package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Config   string           `short:"c" type:"path" help:"HCL config file (default: $XDG_CONFIG_HOME/wordle/config.hcl)"`
	LogLevel string           `help:"Override the configured log level (trace, debug, info, warn, error)"`

	Serve ServeCmd `cmd:"" default:"1" help:"Run the game server"`
	Play  PlayCmd  `cmd:"" help:"Play in the terminal"`
}

func main() {
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("wordle"),
		kong.Description("Guess the secret word in five tries"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
