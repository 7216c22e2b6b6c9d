package cli

import (
	"github.com/go-barry/greet"
	"github.com/go-barry/greet/core"

	"github.com/urfave/cli/v2"
)

var configFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "path to the YAML config file",
	Value:   core.DefaultConfigFile,
	EnvVars: []string{"GREET_CONFIG"},
}

var ServeCommand = &cli.Command{
	Name:  "serve",
	Usage: "Start the greet HTTP server",
	Flags: []cli.Flag{
		configFlag,
		&cli.StringFlag{
			Name:    "addr",
			Usage:   "listen address (default from config, " + core.DefaultAddr + ")",
			EnvVars: []string{"GREET_ADDR"},
		},
		&cli.StringFlag{
			Name:    "env",
			Usage:   "dev or prod",
			EnvVars: []string{"GREET_ENV"},
		},
		&cli.StringFlag{
			Name:    "public",
			Usage:   "directory served under /public/",
			EnvVars: []string{"GREET_PUBLIC_DIR"},
		},
	},
	Action: func(c *cli.Context) error {
		return greet.Start(runtimeConfig(c))
	},
}

func runtimeConfig(c *cli.Context) greet.RuntimeConfig {
	return greet.RuntimeConfig{
		ConfigPath: c.String("config"),
		Addr:       c.String("addr"),
		Env:        c.String("env"),
		PublicDir:  c.String("public"),
	}
}
