package main

import (
	"log"
	"os"

	greetcli "github.com/go-barry/greet/cli"
	clilib "github.com/urfave/cli/v2"
)

func runApp(args []string) error {
	app := &clilib.App{
		Name:  "greet",
		Usage: "A small templated greeting server",
		Commands: []*clilib.Command{
			greetcli.ServeCommand,
			greetcli.CheckCommand,
			greetcli.InfoCommand,
		},
	}
	return app.Run(args)
}

func main() {
	if err := runApp(os.Args); err != nil {
		log.Fatal(err)
	}
}
