package main

import (
	"log"
	"os"

	"github.com/carlmjohnson/versioninfo"
	"github.com/iancoleman/strcase"
	"github.com/urfave/cli/v2"
)

const FORMAT string = `format`
const MAXWIDTH string = `maxWidth`
const DECIMAL string = `decimal`
const RESOLUTION string = `resolution`
const DISTANCE string = `distance`
const DISTANCES string = `distances`
const LONGITUDE string = `lon`
const LATITUDE string = `lat`
const COUNT string = `count`
const WORKERS string = `workers`
const COLUMN string = `x`
const ROW string = `y`
const MAXRESOLUTION string = `maxResolution`

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "quadbin"
	app.Usage = "Encode, navigate and cover with quadbin cells"
	app.Version = versioninfo.Short()

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:     FORMAT,
			Aliases:  []string{"f"},
			Usage:    "Text format of geometries: geojson or wkt",
			Value:    "geojson",
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(FORMAT)},
		},
		&cli.IntFlag{
			Name:     MAXWIDTH,
			Aliases:  []string{"w"},
			Usage:    "Truncate geometry text to this many characters, 0 means no truncation",
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(MAXWIDTH)},
		},
		&cli.BoolFlag{
			Name:     DECIMAL,
			Aliases:  []string{"d"},
			Usage:    "Read and print cells as decimal numbers instead of hexadecimal text",
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(DECIMAL)},
		},
	}
	app.Commands = commands()
	return app
}

func resolutionFlag(required bool) *cli.IntFlag {
	return &cli.IntFlag{
		Name:     RESOLUTION,
		Aliases:  []string{"r", "z"},
		Usage:    "Resolution (zoom level) 0..26",
		Required: required,
		EnvVars:  []string{strcase.ToScreamingSnake(RESOLUTION)},
	}
}
