package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/mksoul/liversettle/internal/domain"
)

// XLSX renders a run as a workbook with a summary sheet and a records sheet.
func XLSX(run *domain.SettlementRun, recs []domain.SettlementRecord) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	recordsSheet := "records"
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(recordsSheet); err != nil {
		return nil, fmt.Errorf("new sheet: %w", err)
	}

	_ = f.SetCellValue(summarySheet, "A1", "Liver Settlement")
	_ = f.SetCellValue(summarySheet, "A3", "Run ID")
	_ = f.SetCellValue(summarySheet, "B3", run.ID)
	_ = f.SetCellValue(summarySheet, "A4", "Delivery Month")
	_ = f.SetCellValue(summarySheet, "B4", run.DeliveryMonth.Display())
	_ = f.SetCellValue(summarySheet, "A5", "Payment Month")
	_ = f.SetCellValue(summarySheet, "B5", run.PaymentMonth.Display())
	_ = f.SetCellValue(summarySheet, "A6", "Grand Total")
	_ = f.SetCellValue(summarySheet, "B6", run.GrandTotal.String())
	_ = f.SetCellValue(summarySheet, "A7", "Aggregate Tier")
	_ = f.SetCellValue(summarySheet, "B7", run.AggregateTier)
	_ = f.SetCellValue(summarySheet, "A8", "Rooms")
	_ = f.SetCellValue(summarySheet, "B8", run.RoomCount)
	_ = f.SetCellValue(summarySheet, "A9", "Streamed")
	_ = f.SetCellValue(summarySheet, "B9", run.StreamedCount)

	for i, name := range Header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(recordsSheet, cell, name)
	}
	for i := range recs {
		for j, value := range Row(&recs[i]) {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, err
			}
			// Everything is written as a string cell so IDs keep their
			// leading zeros and months stay unconverted.
			_ = f.SetCellStr(recordsSheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
