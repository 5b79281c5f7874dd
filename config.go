package main

import (
	"fmt"
	"strconv"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/urfave/cli/v2"

	"github.com/pdok/quadbin/geomhelp"
	"github.com/pdok/quadbin/quadbin"
)

// outputConfig holds the global flags that control how cells and geometries are read and printed.
type outputConfig struct {
	Format   geomhelp.Format `default:"geojson" validate:"oneof=geojson wkt"`
	MaxWidth int             `validate:"gte=0"`
	Decimal  bool
}

func newOutputConfig(c *cli.Context) (*outputConfig, error) {
	cfg := &outputConfig{
		MaxWidth: c.Int(MAXWIDTH),
		Decimal:  c.Bool(DECIMAL),
	}
	if format := c.String(FORMAT); format != "" {
		f, err := geomhelp.ParseFormat(format)
		if err != nil {
			return nil, fmt.Errorf("invalid output options: %w", err)
		}
		cfg.Format = f
	}
	if err := defaults.Set(cfg); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid output options: %w", err)
	}
	return cfg, nil
}

func (cfg *outputConfig) geometryFormat() geomhelp.Format {
	return cfg.Format
}

// parseCell reads a cell argument, hexadecimal unless decimal output is enabled
func (cfg *outputConfig) parseCell(s string) (quadbin.Cell, error) {
	if !cfg.Decimal {
		return quadbin.Parse(s)
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", quadbin.ErrInvalidText, s, err)
	}
	return quadbin.Cell(v), nil
}

func (cfg *outputConfig) formatCell(cell quadbin.Cell) string {
	if cfg.Decimal {
		return strconv.FormatUint(uint64(cell), 10)
	}
	return cell.String()
}

// geometryText truncates rendered geometries to the configured width
func (cfg *outputConfig) geometryText(text string) string {
	return geomhelp.Truncate(text, uint(cfg.MaxWidth))
}
