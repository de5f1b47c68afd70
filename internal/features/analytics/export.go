package analytics

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
)

// ParseExportFormat defaults to CSV
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: unknown export format %q", ErrInvalidArgument, s)
}

func (f ExportFormat) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// ExportFile is a rendered download
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportDepartment renders the same series and contributors the summary endpoint returns
func ExportDepartment(summary DepartmentSummary, format ExportFormat) (*ExportFile, error) {
	base := fmt.Sprintf("%s-%s", slug(summary.Department), summary.Period)
	switch format {
	case FormatCSV:
		data, err := departmentCSV(summary)
		if err != nil {
			return nil, err
		}
		return &ExportFile{Filename: base + ".csv", ContentType: format.ContentType(), Data: data}, nil
	case FormatXLSX:
		data, err := departmentXLSX(summary)
		if err != nil {
			return nil, err
		}
		return &ExportFile{Filename: base + ".xlsx", ContentType: format.ContentType(), Data: data}, nil
	}
	return nil, fmt.Errorf("%w: unknown export format %q", ErrInvalidArgument, string(format))
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

func seriesRows(summary DepartmentSummary) [][]string {
	rows := [][]string{{"Bucket", "Label", "Hours"}}
	for _, p := range summary.Series {
		rows = append(rows, []string{p.Key, p.Label, formatHours(p.Value)})
	}
	return rows
}

func contributorRows(summary DepartmentSummary) [][]string {
	rows := [][]string{{"Rank", "Employee", "Hours", "Reports"}}
	for i, c := range summary.TopContributors {
		rows = append(rows, []string{strconv.Itoa(i + 1), c.EntityName, formatHours(c.TotalValue), strconv.Itoa(c.Reports)})
	}
	return rows
}

func departmentCSV(summary DepartmentSummary) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{
		{"Department", summary.Department},
		{"Period", string(summary.Period)},
		{"Total hours", formatHours(summary.TotalHours)},
		{"Reports today", strconv.Itoa(summary.ReportsToday)},
		{},
	}
	records = append(records, seriesRows(summary)...)
	records = append(records, []string{})
	records = append(records, contributorRows(summary)...)

	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func departmentXLSX(summary DepartmentSummary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	sheets := []struct {
		name string
		rows [][]string
	}{
		{"Series", seriesRows(summary)},
		{"Top Contributors", contributorRows(summary)},
	}
	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(sheet.name); err != nil {
			return nil, err
		}

		for rowIdx, row := range sheet.rows {
			for colIdx, val := range row {
				cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
				if n, err := strconv.ParseFloat(val, 64); err == nil && rowIdx > 0 && colIdx > 0 {
					f.SetCellValue(sheet.name, cell, n)
				} else {
					f.SetCellValue(sheet.name, cell, val)
				}
				if rowIdx == 0 {
					f.SetCellStyle(sheet.name, cell, cell, headerStyle)
				}
			}
		}
		for colIdx := range sheet.rows[0] {
			col, _ := excelize.ColumnNumberToName(colIdx + 1)
			f.SetColWidth(sheet.name, col, col, 18)
		}
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	dash := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "department"
	}
	return out
}
