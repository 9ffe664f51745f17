package excel

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/marketplace-payments/internal/model"
)

const (
	summarySheet = "Summary"
	clientsSheet = "Clients"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the report as a workbook with a summary sheet and a
// ranked client table.
func (g *Generator) Generate(report model.BestClientsReport) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	g.writeSummary(file, summarySheet, report)

	if _, err := file.NewSheet(clientsSheet); err != nil {
		return nil, err
	}
	if err := g.writeClients(file, clientsSheet, report); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, report model.BestClientsReport) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Report")
	set("B1", "Best clients")
	set("A2", "Period start")
	set("B2", formatDateTime(report.Period.Start))
	set("A3", "Period end")
	set("B3", formatDateTime(report.Period.End))
	set("A4", "Generated at")
	set("B4", formatDateTime(report.GeneratedAt))
	set("A5", "Clients")
	set("B5", len(report.Clients))
	set("A6", "Total paid")
	set("B6", formatAmount(sumPaid(report.Clients)))

	_ = file.SetColWidth(sheet, "A", "A", 20)
	_ = file.SetColWidth(sheet, "B", "B", 24)
}

func (g *Generator) writeClients(file *excelize.File, sheet string, report model.BestClientsReport) error {
	headers := []string{"Rank", "Client ID", "Name", "Paid"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		_ = file.SetCellValue(sheet, cell, header)
	}

	for i, client := range report.Clients {
		row := i + 2
		_ = file.SetCellValue(sheet, fmt.Sprintf("A%d", row), i+1)
		_ = file.SetCellValue(sheet, fmt.Sprintf("B%d", row), client.ID)
		_ = file.SetCellValue(sheet, fmt.Sprintf("C%d", row), client.Name)
		_ = file.SetCellValue(sheet, fmt.Sprintf("D%d", row), client.Amount.InexactFloat64())
	}

	_ = file.SetColWidth(sheet, "A", "B", 10)
	_ = file.SetColWidth(sheet, "C", "C", 32)
	_ = file.SetColWidth(sheet, "D", "D", 14)
	return nil
}

func sumPaid(clients []model.ClientPayments) decimal.Decimal {
	total := decimal.Zero
	for _, client := range clients {
		total = total.Add(client.Amount)
	}
	return total
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}

func formatAmount(value decimal.Decimal) string {
	return value.StringFixed(2)
}
