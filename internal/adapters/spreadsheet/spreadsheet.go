// Package spreadsheet renders export tables as an xlsx workbook.
package spreadsheet

import (
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/okian/devtrack/internal/domain/export"
)

// ErrNoSheets is returned when Generate is called without tables.
var ErrNoSheets = errors.New("workbook needs at least one sheet")

const defaultColumnWidth = 20

// Generator builds xlsx workbooks.
type Generator struct {
	columnWidth float64
}

// Option configures a Generator.
type Option func(*Generator)

// WithColumnWidth sets the width applied to every data column.
func WithColumnWidth(w float64) Option {
	return func(g *Generator) {
		if w > 0 {
			g.columnWidth = w
		}
	}
}

// NewGenerator builds a Generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{columnWidth: defaultColumnWidth}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate writes one worksheet per table, in order, and returns the
// encoded workbook.
func (g *Generator) Generate(ctx context.Context, tables []export.Table) ([]byte, error) {
	if len(tables) == 0 {
		return nil, ErrNoSheets
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for i, t := range tables {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i == 0 {
			err = f.SetSheetName(f.GetSheetName(0), t.Name)
		} else {
			_, err = f.NewSheet(t.Name)
		}
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", t.Name, err)
		}
		if err := g.writeTable(f, t, header); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", t.Name, err)
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeTable(f *excelize.File, t export.Table, headerStyle int) error {
	if err := writeRow(f, t.Name, 1, t.Header); err != nil {
		return err
	}
	if err := f.SetRowStyle(t.Name, 1, 1, headerStyle); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err := writeRow(f, t.Name, i+2, row); err != nil {
			return err
		}
	}
	if len(t.Header) > 0 {
		last, err := excelize.ColumnNumberToName(len(t.Header))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(t.Name, "A", last, g.columnWidth); err != nil {
			return err
		}
	}
	return f.SetPanes(t.Name, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(sheet, cell, &cells)
}
