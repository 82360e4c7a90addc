// Package export renders schedule matrices into Excel workbooks for
// the ops console's download action.
package export

import (
	"fmt"
	"io"

	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/matrix"
	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/model"

	"github.com/xuri/excelize/v2"
)

// Cell markers used in the exported grid.
const (
	markActive     = "x"
	markSelectable = "·"
)

// Workbook builds .xlsx schedule exports, one sheet per team.
type Workbook struct {
	file       *excelize.File
	sheetCount int
}

// NewWorkbook creates an empty workbook.
func NewWorkbook() *Workbook {
	return &Workbook{file: excelize.NewFile()}
}

// AddTeamSheet writes a team's weekday × window grid to a new sheet.
func (w *Workbook) AddTeamSheet(teamName string, m *matrix.Matrix) error {
	name := sheetName(teamName)
	if w.sheetCount == 0 {
		w.file.SetSheetName("Sheet1", name)
	} else {
		if _, err := w.file.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}
	w.sheetCount++

	// Header row: empty corner then one column per window.
	header := make([]interface{}, 0, len(m.Windows)+1)
	header = append(header, "")
	for _, win := range m.Windows {
		header = append(header, win.String())
	}
	if err := w.writeRow(name, 1, header); err != nil {
		return err
	}
	if err := w.boldRow(name, 1, len(header)); err != nil {
		return err
	}

	for i := model.Monday; i <= model.Sunday; i++ {
		row := make([]interface{}, 0, len(m.Windows)+1)
		row = append(row, i.String())
		for _, win := range m.Windows {
			cell := m.Cells[win][i]
			switch {
			case cell.Active:
				row = append(row, markActive)
			case cell.Selectable:
				row = append(row, markSelectable)
			default:
				row = append(row, "")
			}
		}
		if err := w.writeRow(name, int(i)+2, row); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the workbook to wr.
func (w *Workbook) Save(wr io.Writer) error {
	return w.file.Write(wr)
}

// SaveToFile writes the workbook to disk.
func (w *Workbook) SaveToFile(path string) error {
	return w.file.SaveAs(path)
}

// Close releases resources.
func (w *Workbook) Close() error {
	return w.file.Close()
}

func (w *Workbook) writeRow(sheet string, rowNum int, values []interface{}) error {
	for i, val := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNum)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(sheet, cell, val); err != nil {
			return err
		}
	}
	return nil
}

func (w *Workbook) boldRow(sheet string, rowNum, width int) error {
	style, err := w.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil
	}
	startCell, _ := excelize.CoordinatesToCellName(1, rowNum)
	endCell, _ := excelize.CoordinatesToCellName(width, rowNum)
	return w.file.SetCellStyle(sheet, startCell, endCell, style)
}

func sheetName(name string) string {
	// Excel limits sheet names to 31 chars.
	if len(name) > 31 {
		return name[:31]
	}
	return name
}
