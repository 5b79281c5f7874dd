package quadbin

import (
	"fmt"
	"strconv"
)

// String returns the lowercase hexadecimal form of the cell, without prefix or zero padding.
func (c Cell) String() string {
	return strconv.FormatUint(uint64(c), 16)
}

// Parse reads the hexadecimal form of a cell. The result is not checked for validity.
func Parse(s string) (Cell, error) {
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrInvalidText, s, err)
	}
	return Cell(v), nil
}

func (c Cell) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Cell) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
