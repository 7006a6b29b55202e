// internal/repositories/xlsx/workbook.go
// Adapter workbook Excel: baca sheet Product & Economic, tulis sheet New_ECONOMIC
package xlsx

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"dca-oilgas/internal/economic"
	"dca-oilgas/internal/services"
)

const (
	SheetProduct     = "Product"
	SheetEconomic    = "Economic"
	SheetNewEconomic = "New_ECONOMIC"
)

// Nama kolom yang dibaca (case-insensitive). Kolom lain dibiarkan apa adanya.
const (
	colPropNum    = "PROPNUM"
	colDate       = "P_DATE"
	colOil        = "OIL"
	colGas        = "GAS"
	colWater      = "WATER"
	colSection    = "SECTION"
	colQualifier  = "QUALIFIER"
	colKeyword    = "KEYWORD"
	colExpression = "EXPRESSION"
)

var ErrMissingColumn = errors.New("missing column")

type Workbook struct {
	f *excelize.File
}

func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &Workbook{f: f}, nil
}

func (w *Workbook) Close() error { return w.f.Close() }

// rows membaca sheet dengan nilai mentah (tanggal tetap serial Excel).
func (w *Workbook) rows(sheet string) ([][]string, error) {
	rows, err := w.f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

// header memetakan nama kolom (upper) -> index.
type header map[string]int

func newHeader(row []string) header {
	h := header{}
	for i, c := range row {
		k := strings.ToUpper(strings.TrimSpace(c))
		if _, dup := h[k]; !dup && k != "" {
			h[k] = i
		}
	}
	return h
}

func (h header) require(sheet string, names ...string) error {
	for _, n := range names {
		if _, ok := h[n]; !ok {
			return fmt.Errorf("sheet %s: %s: %w", sheet, n, ErrMissingColumn)
		}
	}
	return nil
}

func (h header) cell(row []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Production membaca sheet Product. Sel kosong = null; baris tanpa PROPNUM dilewati.
func (w *Workbook) Production() ([]services.ProductionRecord, error) {
	rows, err := w.rows(SheetProduct)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	h := newHeader(rows[0])
	if err := h.require(SheetProduct, colPropNum, colDate); err != nil {
		return nil, err
	}

	out := make([]services.ProductionRecord, 0, len(rows)-1)
	for n, row := range rows[1:] {
		id := h.cell(row, colPropNum)
		if id == "" {
			continue
		}
		line := n + 2
		date, err := ParseDate(h.cell(row, colDate))
		if err != nil {
			return nil, fmt.Errorf("sheet %s row %d: %w", SheetProduct, line, err)
		}
		rec := services.ProductionRecord{WellID: id, Date: date}
		if rec.Oil, err = parseNullFloat(h.cell(row, colOil)); err != nil {
			return nil, fmt.Errorf("sheet %s row %d col %s: %w", SheetProduct, line, colOil, err)
		}
		if rec.Gas, err = parseNullFloat(h.cell(row, colGas)); err != nil {
			return nil, fmt.Errorf("sheet %s row %d col %s: %w", SheetProduct, line, colGas, err)
		}
		if rec.Water, err = parseNullFloat(h.cell(row, colWater)); err != nil {
			return nil, fmt.Errorf("sheet %s row %d col %s: %w", SheetProduct, line, colWater, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// EconomicSheet menyimpan sheet Economic apa adanya supaya kolom yang tidak
// dikenal ikut tertulis kembali. Row.Seq = index baris data (0-based).
type EconomicSheet struct {
	Header []string
	Raw    [][]string
	Rows   []economic.Row

	exprCol int
	kinds   [][]cellKind
}

// cellKind = tipe sel saat dibaca; penulisan ulang memakai tipe yang sama
// supaya PROPNUM seperti "00123" tidak berubah jadi angka.
type cellKind uint8

const (
	kindText cellKind = iota
	kindNumber
	kindBool
)

// cellKindOf membaca tipe sel. Sel angka biasanya tanpa atribut t (Unset).
func (w *Workbook) cellKindOf(sheet string, col, rowNum int, raw string) (cellKind, error) {
	if raw == "" {
		return kindText, nil
	}
	name, err := excelize.CoordinatesToCellName(col, rowNum)
	if err != nil {
		return kindText, err
	}
	t, err := w.f.GetCellType(sheet, name)
	if err != nil {
		return kindText, fmt.Errorf("sheet %s cell %s: %w", sheet, name, err)
	}
	switch t {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if _, err := strconv.ParseFloat(raw, 64); err == nil {
			return kindNumber, nil
		}
	case excelize.CellTypeBool:
		return kindBool, nil
	}
	return kindText, nil
}

func (w *Workbook) Economic() (*EconomicSheet, error) {
	rows, err := w.rows(SheetEconomic)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", SheetEconomic)
	}
	h := newHeader(rows[0])
	if err := h.require(SheetEconomic, colPropNum, colQualifier, colKeyword, colExpression); err != nil {
		return nil, err
	}
	s := &EconomicSheet{Header: rows[0], exprCol: h[colExpression]}
	for i, row := range rows[1:] {
		kinds := make([]cellKind, len(row))
		for j, v := range row {
			if kinds[j], err = w.cellKindOf(SheetEconomic, j+1, i+2, v); err != nil {
				return nil, err
			}
		}
		s.Raw = append(s.Raw, row)
		s.kinds = append(s.kinds, kinds)
		s.Rows = append(s.Rows, economic.Row{
			Seq:        i,
			PropNum:    h.cell(row, colPropNum),
			Section:    h.cell(row, colSection),
			Qualifier:  h.cell(row, colQualifier),
			Keyword:    h.cell(row, colKeyword),
			Expression: h.cell(row, colExpression),
		})
	}
	return s, nil
}

// WriteEconomic menulis workbook baru dengan satu sheet New_ECONOMIC.
// Hanya kolom EXPRESSION yang diambil dari rows; sisanya dari sheet asli.
func WriteEconomic(path string, s *EconomicSheet, rows []economic.Row) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", SheetNewEconomic); err != nil {
		return err
	}

	if err := setRow(f, SheetNewEconomic, 1, s.Header, nil); err != nil {
		return err
	}
	for i, raw := range s.Raw {
		width := len(s.Header)
		if len(raw) > width {
			width = len(raw)
		}
		out := make([]string, width)
		copy(out, raw)
		kinds := make([]cellKind, width)
		if i < len(s.kinds) {
			copy(kinds, s.kinds[i])
		}
		if i < len(rows) {
			out[s.exprCol] = rows[i].Expression
			kinds[s.exprCol] = kindText
		}
		if err := setRow(f, SheetNewEconomic, i+2, out, kinds); err != nil {
			return err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// setRow menulis tiap sel sesuai tipe asalnya; tanpa kinds semua jadi teks.
func setRow(f *excelize.File, sheet string, rowNum int, vals []string, kinds []cellKind) error {
	cells := make([]any, len(vals))
	for i, v := range vals {
		cells[i] = v
		if i >= len(kinds) {
			continue
		}
		switch kinds[i] {
		case kindNumber:
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				cells[i] = n
			}
		case kindBool:
			if b, err := strconv.ParseBool(v); err == nil {
				cells[i] = b
			}
		}
	}
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

func parseNullFloat(s string) (sql.NullFloat64, error) {
	if s == "" {
		return sql.NullFloat64{}, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return sql.NullFloat64{}, err
	}
	return sql.NullFloat64{Float64: v, Valid: true}, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"1/2/06",
	time.RFC3339,
}

// ParseDate menerima serial Excel atau teks tanggal umum.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("date %q: %w", s, err)
		}
		return t.UTC(), nil
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
