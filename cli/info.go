package cli

import (
	"fmt"
	"os"

	"github.com/go-barry/greet"
	"github.com/go-barry/greet/core"
	"github.com/segmentio/encoding/json"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

type infoReport struct {
	Config    core.Config      `json:"config"`
	Routes    []core.RouteInfo `json:"routes"`
	Templates []string         `json:"templates"`
}

var InfoCommand = &cli.Command{
	Name:  "info",
	Usage: "Print the effective config and the route table",
	Flags: []cli.Flag{
		configFlag,
		&cli.BoolFlag{Name: "json", Usage: "print as JSON"},
	},
	Action: func(c *cli.Context) error {
		cfg, err := greet.RuntimeConfig{ConfigPath: c.String("config")}.Resolve()
		if err != nil {
			return err
		}

		app, err := core.NewApp(cfg, zap.NewNop())
		if err != nil {
			return err
		}
		defer app.Close()

		report := infoReport{
			Config:    cfg,
			Routes:    app.Router.Routes(),
			Templates: app.Renderer.Names(),
		}

		if c.Bool("json") {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		fmt.Println("🌐 Address:", cfg.Addr)
		fmt.Println("🏷️  Env:", cfg.Env)
		fmt.Println("📁 Public Directory:", cfg.PublicDir)
		fmt.Println("🔓 Allowed Origin:", cfg.AllowedOrigin)
		fmt.Println("🗜️  Compress:", cfg.Compress)
		fmt.Println("✂️  Minify HTML:", cfg.MinifyHTML)
		fmt.Println()
		fmt.Println("🗂️  Routes:")
		for _, route := range report.Routes {
			fmt.Printf("   %-6s %s\n", route.Method, route.Pattern)
		}
		fmt.Println("📄 Templates:", len(report.Templates))
		return nil
	},
}
