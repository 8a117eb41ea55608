package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func main() {
	if err := newApp(&inspector{}).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(in *inspector) *cli.App {
	app := cli.NewApp()

	app.Name = "tileinspect"
	app.Usage = "Inspect tile sheets: tile grid, empty tiles and edge connections"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			EnvVars: []string{"TILEINSPECT_CONFIG"},
			Usage:   "path to config.json",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "analyze",
			Usage:     "Print the tile grid, empty tiles and connections of a sheet",
			ArgsUsage: "[FILE]",
			Flags: []cli.Flag{
				tileSizeFlag(),
				&cli.BoolFlag{
					Name:  "json",
					Usage: "print the report as JSON",
				},
			},
			Action: in.analyzeCmd,
		},
		{
			Name:      "render",
			Usage:     "Render the inspection view of a sheet to an image",
			ArgsUsage: "[FILE]",
			Flags: []cli.Flag{
				tileSizeFlag(),
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "output file (default: <sheet>.overlay.<ext> in the output directory)",
				},
				&cli.StringFlag{
					Name:  "format",
					Usage: "png, webp or palette",
				},
				&cli.IntFlag{
					Name:  "zoom",
					Usage: "integer magnification",
				},
				&cli.BoolFlag{
					Name:  "labels",
					Usage: "draw tile coordinates",
				},
			},
			Action: in.renderCmd,
		},
		{
			Name:      "batch",
			Usage:     "Inspect every sheet in a directory and write a manifest",
			ArgsUsage: "DIRECTORY",
			Flags: []cli.Flag{
				tileSizeFlag(),
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "output directory for overlays and manifest.json",
				},
				&cli.StringFlag{
					Name:  "format",
					Usage: "png, webp or palette",
				},
				&cli.IntFlag{
					Name:  "zoom",
					Usage: "integer magnification",
				},
				&cli.BoolFlag{
					Name:  "labels",
					Usage: "draw tile coordinates",
				},
				&cli.IntFlag{
					Name:  "workers",
					Usage: "number of worker goroutines (default: NumCPU)",
				},
			},
			Action: in.batchCmd,
		},
	}

	return app
}

func tileSizeFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "tile-size",
		Aliases: []string{"t"},
		Usage:   "tile size in pixels (default: from filename, else 16)",
	}
}
