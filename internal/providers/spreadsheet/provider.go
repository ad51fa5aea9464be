package spreadsheet

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gosimple/slug"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	ErrEmptyWorkbook = errors.New("empty_workbook")
	ErrSheetNotFound = errors.New("sheet_not_found")
)

// Table is one worksheet: a bold header row followed by data rows.
type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]any
	// Footer rows are written after a blank row, e.g. invoice totals.
	Footer [][]any
}

type Provider interface {
	Write(tables ...Table) ([]byte, error)
	ReadRecords(r io.Reader, sheet string) ([]map[string]string, error)
}

type ExcelProvider struct {
	log *zap.Logger
}

func New(log *zap.Logger) Provider {
	return &ExcelProvider{log: log.Named("spreadsheet.provider")}
}

// Filename builds a download name like "invoice-inv-00012.xlsx".
func Filename(parts ...string) string {
	return slug.Make(strings.Join(parts, " ")) + ".xlsx"
}

func (p *ExcelProvider) Write(tables ...Table) ([]byte, error) {
	if len(tables) == 0 {
		return nil, ErrEmptyWorkbook
	}

	f := excelize.NewFile()
	defer f.Close()

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	defaultSheet := f.GetSheetName(0)
	for i, table := range tables {
		name := sheetName(table.Sheet, i)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}

		if err := p.writeTable(f, name, table, boldStyle); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (p *ExcelProvider) writeTable(f *excelize.File, sheet string, table Table, headerStyle int) error {
	row := 1
	if len(table.Headers) > 0 {
		if err := setRow(f, sheet, row, toAny(table.Headers)); err != nil {
			return err
		}
		end, err := excelize.CoordinatesToCellName(len(table.Headers), row)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", end, headerStyle); err != nil {
			p.log.Warn("failed to style header", zap.String("sheet", sheet), zap.Error(err))
		}
		row++
	}

	for _, values := range table.Rows {
		if err := setRow(f, sheet, row, values); err != nil {
			return err
		}
		row++
	}

	if len(table.Footer) > 0 {
		row++
		for _, values := range table.Footer {
			if err := setRow(f, sheet, row, values); err != nil {
				return err
			}
			row++
		}
	}

	return nil
}

// ReadRecords maps every data row of sheet to its header names. An empty
// sheet name reads the first sheet.
func (p *ExcelProvider) ReadRecords(r io.Reader, sheet string) ([]map[string]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		return nil, ErrSheetNotFound
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptyWorkbook
	}

	headers := rows[0]
	records := make([]map[string]string, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		if isBlank(cells) {
			continue
		}
		record := make(map[string]string, len(headers))
		for i, header := range headers {
			key := strings.TrimSpace(header)
			if key == "" {
				continue
			}
			if i < len(cells) {
				record[key] = strings.TrimSpace(cells[i])
			} else {
				record[key] = ""
			}
		}
		records = append(records, record)
	}
	return records, nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

func sheetName(name string, idx int) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Sprintf("Sheet%d", idx+1)
	}
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
