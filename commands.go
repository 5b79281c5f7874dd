package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/iancoleman/strcase"
	"github.com/urfave/cli/v2"

	"github.com/pdok/quadbin/processing"
	"github.com/pdok/quadbin/quadbin"
	"github.com/pdok/quadbin/tms20"
)

//nolint:funlen
func commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "encode",
			Usage: "Encode a tile into a cell",
			Flags: []cli.Flag{
				&cli.UintFlag{Name: COLUMN, Usage: "Tile column", Required: true},
				&cli.UintFlag{Name: ROW, Usage: "Tile row", Required: true},
				resolutionFlag(true),
			},
			Action: withConfig(func(c *cli.Context, cfg *outputConfig) error {
				tile := quadbin.Tile{X: uint32(c.Uint(COLUMN)), Y: uint32(c.Uint(ROW)), Z: c.Int(RESOLUTION)}
				if !tile.Valid() {
					return fmt.Errorf("tile %v is outside of the grid", tile)
				}
				return printLine(c, cfg.formatCell(quadbin.FromTile(tile)))
			}),
		},
		{
			Name:      "decode",
			Usage:     "Decode a cell into its tile z/x/y",
			ArgsUsage: "<cell>",
			Action: withCell(func(c *cli.Context, cfg *outputConfig, cell quadbin.Cell) error {
				return printLine(c, cell.Tile())
			}),
		},
		{
			Name:      "valid",
			Usage:     "Tell for every cell whether it is a valid quadbin cell",
			ArgsUsage: "<cell>...",
			Action: withConfig(func(c *cli.Context, cfg *outputConfig) error {
				if c.NArg() == 0 {
					return fmt.Errorf("expected at least one cell")
				}
				for _, arg := range c.Args().Slice() {
					cell, err := cfg.parseCell(arg)
					valid := err == nil && cell.IsValid()
					if err = printLine(c, fmt.Sprintf("%s\t%t", arg, valid)); err != nil {
						return err
					}
				}
				return nil
			}),
		},
		{
			Name:      "resolution",
			Usage:     "Print the resolution of a cell",
			ArgsUsage: "<cell>",
			Action: withCell(func(c *cli.Context, cfg *outputConfig, cell quadbin.Cell) error {
				return printLine(c, cell.Resolution())
			}),
		},
		{
			Name:      "parent",
			Usage:     "Print the ancestor of a cell at a coarser resolution",
			ArgsUsage: "<cell>",
			Flags:     []cli.Flag{resolutionFlag(true)},
			Action: withCell(func(c *cli.Context, cfg *outputConfig, cell quadbin.Cell) error {
				parent, err := cell.Parent(c.Int(RESOLUTION))
				if err != nil {
					return err
				}
				return printLine(c, cfg.formatCell(parent))
			}),
		},
		{
			Name:      "children",
			Usage:     "Print the descendants of a cell at a finer resolution",
			ArgsUsage: "<cell>",
			Flags:     []cli.Flag{resolutionFlag(true)},
			Action: withCell(func(c *cli.Context, cfg *outputConfig, cell quadbin.Cell) error {
				children, err := cell.ChildrenSeq(c.Int(RESOLUTION))
				if err != nil {
					return err
				}
				for child := range children {
					if err = printLine(c, cfg.formatCell(child)); err != nil {
						return err
					}
				}
				return nil
			}),
		},
		{
			Name:      "sibling",
			Usage:     "Print the adjacent cell in a direction: left, right, up or down",
			ArgsUsage: "<cell> <direction>",
			Action: withConfig(func(c *cli.Context, cfg *outputConfig) error {
				if c.NArg() != 2 {
					return fmt.Errorf("expected a cell and a direction, got %d arguments", c.NArg())
				}
				cell, err := cfg.parseCell(c.Args().Get(0))
				if err != nil {
					return err
				}
				sibling, ok, err := cell.Sibling(quadbin.Direction(c.Args().Get(1)))
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("cell %s has no sibling %s", cfg.formatCell(cell), c.Args().Get(1))
				}
				return printLine(c, cfg.formatCell(sibling))
			}),
		},
		{
			Name:      "kring",
			Usage:     "Print the cells within a Chebyshev distance of a cell",
			ArgsUsage: "<cell>",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:     DISTANCE,
					Aliases:  []string{"k"},
					Usage:    "Ring size",
					Value:    1,
					Required: false,
					EnvVars:  []string{strcase.ToScreamingSnake(DISTANCE)},
				},
				&cli.BoolFlag{
					Name:  DISTANCES,
					Usage: "Also print the distance of every cell",
				},
			},
			Action: withCell(func(c *cli.Context, cfg *outputConfig, cell quadbin.Cell) error {
				ring, err := cell.KRingDistancesSeq(c.Int(DISTANCE))
				if err != nil {
					return err
				}
				for neighbor, distance := range ring {
					line := cfg.formatCell(neighbor)
					if c.Bool(DISTANCES) {
						line = fmt.Sprintf("%s\t%d", line, distance)
					}
					if err = printLine(c, line); err != nil {
						return err
					}
				}
				return nil
			}),
		},
		{
			Name:  "point",
			Usage: "Print the cell that contains a longitude, latitude",
			Flags: []cli.Flag{
				&cli.Float64Flag{Name: LONGITUDE, Usage: "Longitude in degrees", Required: true},
				&cli.Float64Flag{Name: LATITUDE, Usage: "Latitude in degrees", Required: true},
				resolutionFlag(true),
			},
			Action: withConfig(func(c *cli.Context, cfg *outputConfig) error {
				cell, err := quadbin.FromPoint(c.Float64(LONGITUDE), c.Float64(LATITUDE), c.Int(RESOLUTION))
				if err != nil {
					return err
				}
				return printLine(c, cfg.formatCell(cell))
			}),
		},
		{
			Name:      "center",
			Usage:     "Print the centre of a cell as a point geometry",
			ArgsUsage: "<cell>",
			Action: withCell(func(c *cli.Context, cfg *outputConfig, cell quadbin.Cell) error {
				text, err := cell.PointText(cfg.geometryFormat())
				if err != nil {
					return err
				}
				return printLine(c, cfg.geometryText(text))
			}),
		},
		{
			Name:      "bbox",
			Usage:     "Print the bounding box of a cell as [xmin, ymin, xmax, ymax]",
			ArgsUsage: "<cell>",
			Action: withCell(func(c *cli.Context, cfg *outputConfig, cell quadbin.Cell) error {
				return printJSON(c, [4]float64(cell.BoundingBox()))
			}),
		},
		{
			Name:      "boundary",
			Usage:     "Print the boundary of a cell as a polygon geometry",
			ArgsUsage: "<cell>",
			Action: withCell(func(c *cli.Context, cfg *outputConfig, cell quadbin.Cell) error {
				text, err := cell.BoundaryText(cfg.geometryFormat())
				if err != nil {
					return err
				}
				return printLine(c, cfg.geometryText(text))
			}),
		},
		{
			Name:      "area",
			Usage:     "Print the area of a cell in square metres",
			ArgsUsage: "<cell>",
			Action: withCell(func(c *cli.Context, cfg *outputConfig, cell quadbin.Cell) error {
				return printLine(c, fmt.Sprintf("%.4f", cell.Area()))
			}),
		},
		{
			Name:      "cover",
			Usage:     "Print the cells covering the geometries of a GeoJSON file (- for stdin)",
			ArgsUsage: "<file>",
			Flags: []cli.Flag{
				resolutionFlag(true),
				&cli.BoolFlag{
					Name:  COUNT,
					Usage: "Print the number of features per cell instead of the cells per feature",
				},
				&cli.IntFlag{
					Name:     WORKERS,
					Usage:    "Number of features covered in parallel",
					Value:    runtime.NumCPU(),
					Required: false,
					EnvVars:  []string{strcase.ToScreamingSnake(WORKERS)},
				},
			},
			Action: withConfig(cover),
		},
		{
			Name:  "grid",
			Usage: "Print the quadbin grid as an OGC Tile Matrix Set (JSON)",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  MAXRESOLUTION,
					Usage: "Finest resolution to describe",
					Value: quadbin.MaxResolution,
				},
			},
			Action: withConfig(func(c *cli.Context, cfg *outputConfig) error {
				tms, err := tms20.WebMercatorQuad(c.Int(MAXRESOLUTION))
				if err != nil {
					return err
				}
				return printJSON(c, &tms)
			}),
		},
	}
}

func cover(c *cli.Context, cfg *outputConfig) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected one GeoJSON file, got %d arguments", c.NArg())
	}
	var r io.Reader = os.Stdin
	if name := c.Args().First(); name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return fmt.Errorf("error opening GeoJSON: %w", err)
		}
		defer f.Close()
		r = f
	}
	source, err := processing.NewGeoJSONSource(r)
	if err != nil {
		return err
	}

	res := c.Int(RESOLUTION)
	if !c.Bool(COUNT) {
		target := processing.NewCellWriter(c.App.Writer, cfg.Decimal)
		return processing.ProcessFeatures(c.Context, source, map[int]processing.Target{res: target}, c.Int(WORKERS))
	}

	counter := processing.NewCellCounter()
	err = processing.ProcessFeatures(c.Context, source, map[int]processing.Target{res: counter}, c.Int(WORKERS))
	if err != nil {
		return err
	}
	counter.LogStats()
	for _, cell := range counter.Cells() {
		if err = printLine(c, fmt.Sprintf("%s\t%d", cfg.formatCell(cell), counter.Count(cell))); err != nil {
			return err
		}
	}
	return nil
}

type configAction func(c *cli.Context, cfg *outputConfig) error

type cellAction func(c *cli.Context, cfg *outputConfig, cell quadbin.Cell) error

func withConfig(action configAction) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := newOutputConfig(c)
		if err != nil {
			return err
		}
		return action(c, cfg)
	}
}

// withCell parses the single cell argument of a command
func withCell(action cellAction) cli.ActionFunc {
	return withConfig(func(c *cli.Context, cfg *outputConfig) error {
		if c.NArg() != 1 {
			return fmt.Errorf("expected one cell, got %d arguments", c.NArg())
		}
		cell, err := cfg.parseCell(c.Args().First())
		if err != nil {
			return err
		}
		return action(c, cfg, cell)
	})
}

func printLine(c *cli.Context, v any) error {
	_, err := fmt.Fprintln(c.App.Writer, v)
	return err
}

func printJSON(c *cli.Context, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return printLine(c, string(b))
}
