package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/ledger-service/internal/model"
)

const summarySheet = "Professions"

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(report model.ProfessionReport) ([]byte, error) {
	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if err := g.writeSummary(file, summarySheet, report); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, report model.ProfessionReport) error {
	var firstErr error
	set := func(cell string, value interface{}) {
		if err := file.SetCellValue(sheet, cell, value); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	set("A1", "Period start")
	set("B1", formatDateTime(report.PeriodStart))
	set("A2", "Period end")
	set("B2", formatDateTime(report.PeriodEnd))
	set("A3", "Best profession")
	set("B3", report.Best.Profession)
	set("A4", "Earned")
	set("B4", report.Best.Earned.InexactFloat64())

	tableRow := 6
	set(fmt.Sprintf("A%d", tableRow), "Profession")
	set(fmt.Sprintf("B%d", tableRow), "Earned")

	for i, row := range report.Rows {
		r := tableRow + 1 + i
		set(fmt.Sprintf("A%d", r), row.Profession)
		set(fmt.Sprintf("B%d", r), row.Earned.InexactFloat64())
	}

	_ = file.SetColWidth(sheet, "A", "A", 32)
	_ = file.SetColWidth(sheet, "B", "B", 24)
	return firstErr
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
