package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/resume-extractor/internal/record"
)

const sheetName = "Resumes"

var columns = []struct {
	title string
	width float64
	value func(Item) string
}{
	{"File", 24, func(it Item) string { return it.File.Name }},
	{"Status", 10, func(it Item) string { return it.Status }},
	{"Name", 24, fromRecord(func(r *record.Record) string { return r.Name })},
	{"Email", 28, fromRecord(func(r *record.Record) string { return r.Contact.Email })},
	{"Phone", 18, fromRecord(func(r *record.Record) string { return r.Contact.Phone })},
	{"Skills", 40, fromRecord(func(r *record.Record) string { return strings.Join(r.Skills, ", ") })},
	{"Education", 48, fromRecord(func(r *record.Record) string { return strings.Join(r.Education, "\n") })},
	{"Projects", 48, fromRecord(func(r *record.Record) string { return strings.Join(r.Projects, "\n") })},
	{"Experience", 48, fromRecord(func(r *record.Record) string { return strings.Join(r.Experience, "\n") })},
	{"Error", 40, func(it Item) string { return it.Error }},
}

func fromRecord(get func(*record.Record) string) func(Item) string {
	return func(it Item) string {
		if it.Record == nil {
			return ""
		}
		return get(it.Record)
	}
}

// XLSX returns a workbook with a header row and one row per item.
func XLSX(items []Item) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	for col, c := range columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, c.title); err != nil {
			return nil, err
		}

		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheetName, name, name, c.width); err != nil {
			return nil, err
		}
	}

	for i, item := range items {
		row := i + 2
		for col, c := range columns {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, c.value(item)); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	return buf.Bytes(), nil
}
