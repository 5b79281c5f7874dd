package processing

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/pdok/quadbin/mapslicehelp"
	"github.com/pdok/quadbin/quadbin"
)

// CellWriter writes a line per covering cell of every feature: the feature id, a tab and the cell.
// Features without id only get the cell.
type CellWriter struct {
	w       io.Writer
	decimal bool
}

// NewCellWriter writes cells as hexadecimal text, or as decimal numbers.
func NewCellWriter(w io.Writer, decimal bool) *CellWriter {
	return &CellWriter{w: w, decimal: decimal}
}

func (cw *CellWriter) WriteFeatures(features <-chan CoveredFeature) error {
	bw := bufio.NewWriter(cw.w)
	var err error
	for feature := range features {
		if err != nil {
			continue // drain
		}
		for _, cell := range feature.Cells() {
			if id := feature.ID(); id != nil {
				_, err = fmt.Fprintf(bw, "%v\t%s\n", id, cw.text(cell))
			} else {
				_, err = fmt.Fprintln(bw, cw.text(cell))
			}
			if err != nil {
				break
			}
		}
	}
	if err != nil {
		return err
	}
	return bw.Flush()
}

func (cw *CellWriter) text(cell quadbin.Cell) string {
	if cw.decimal {
		return strconv.FormatUint(uint64(cell), 10)
	}
	return cell.String()
}

// CellCounter counts the features per cell, in order of first appearance of the cell.
type CellCounter struct {
	counts *orderedmap.OrderedMap[quadbin.Cell, int]
}

func NewCellCounter() *CellCounter {
	return &CellCounter{counts: orderedmap.New[quadbin.Cell, int]()}
}

func (cc *CellCounter) WriteFeatures(features <-chan CoveredFeature) error {
	for feature := range features {
		for _, cell := range feature.Cells() {
			mapslicehelp.Increment(cc.counts, cell)
		}
	}
	return nil
}

// Cells returns the counted cells in order of first appearance.
func (cc *CellCounter) Cells() []quadbin.Cell {
	return mapslicehelp.OrderedMapKeys(cc.counts)
}

// Count returns the number of features covered by cell.
func (cc *CellCounter) Count(cell quadbin.Cell) int {
	n, _ := cc.counts.Get(cell)
	return n
}

// Total is the sum of all counts, the number of (feature, cell) pairs.
func (cc *CellCounter) Total() int {
	return mapslicehelp.SumValues(cc.counts)
}

// Busiest returns the first cell with the highest count and the number of cells sharing that count.
func (cc *CellCounter) Busiest() (cell quadbin.Cell, count int, ties uint) {
	return mapslicehelp.FindFirstKeyWithMaxValue(cc.counts)
}

// Singles is the number of cells covered by exactly one feature.
func (cc *CellCounter) Singles() int {
	return mapslicehelp.CountVals(cc.counts, 1)
}

// LogStats logs a summary of the counts.
func (cc *CellCounter) LogStats() {
	log.Printf("     counted cells: %d", cc.counts.Len())
	log.Printf("    features/cells: %d", cc.Total())
	log.Printf("      single cells: %d", cc.Singles())
	if busiest, count, ties := cc.Busiest(); count > 0 {
		log.Printf("      busiest cell: %s, %d features, %d cells with that count", busiest, count, ties)
	}
}
