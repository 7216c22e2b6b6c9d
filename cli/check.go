package cli

import (
	"fmt"
	"os"

	"github.com/go-barry/greet"
	"github.com/go-barry/greet/core"
	"github.com/urfave/cli/v2"
)

var CheckCommand = &cli.Command{
	Name:  "check",
	Usage: "Parse and dry-render every page template",
	Flags: []cli.Flag{configFlag},
	Action: func(c *cli.Context) error {
		cfg, err := greet.RuntimeConfig{ConfigPath: c.String("config")}.Resolve()
		if err != nil {
			return err
		}

		var public *os.Root
		if root, err := os.OpenRoot(cfg.PublicDir); err == nil {
			public = root
			defer root.Close()
		} else {
			fmt.Printf("⚠️  public dir %s: %v\n", cfg.PublicDir, err)
		}

		var renderer *core.Renderer
		if public != nil {
			renderer, err = core.NewRenderer(public.FS(), cfg.MinifyHTML)
		} else {
			renderer, err = core.NewRenderer(nil, cfg.MinifyHTML)
		}
		if err != nil {
			fmt.Printf("❌ parse error: %v\n", err)
			return cli.Exit("templates failed to parse", 1)
		}

		var failed bool
		for _, name := range renderer.Names() {
			if err := renderer.CheckPage(name); err != nil {
				failed = true
				fmt.Printf("❌ %s → %v\n", name, err)
				continue
			}
			fmt.Printf("✅ %s\n", name)
		}

		if failed {
			return cli.Exit("some templates failed to render", 1)
		}

		fmt.Println("✅ All templates validated successfully.")
		return nil
	},
}
