package generate_excel

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"production-scheduler/internal/storage"
)

const (
	scheduleSheet   = "Schedule"
	escalationSheet = "Escalations"
	timeLayout      = "2006-01-02 15:04"
)

type ScheduleLister interface {
	ListSchedules(ctx context.Context, from, to time.Time) ([]*storage.ScheduleEntry, error)
}

type GenerateExcelService struct {
	storage ScheduleLister
}

func NewGenerateService(storage ScheduleLister) *GenerateExcelService {
	return &GenerateExcelService{storage: storage}
}

// GenerateExcel выгрузка расписания за период: лист со станочными записями и лист эскалаций.
func (g *GenerateExcelService) GenerateExcel(ctx context.Context, from, to time.Time) ([]byte, error) {
	const op = "service.generate_excel.GenerateExcel"

	entries, err := g.storage.ListSchedules(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch data: %w", op, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", scheduleSheet); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := f.NewSheet(escalationSheet); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// шапка: жирный шрифт, серая заливка, линия снизу
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	scheduleHeaders := []string{"Order", "Stage", "Machine", "Start", "End", "Chunks", "Quantity", "UOM", "Status"}
	escalationHeaders := []string{"Order", "Stage", "At", "Quantity", "UOM", "Recommendation", "Reason", "Approved"}

	writeHeader(f, scheduleSheet, scheduleHeaders, headerStyle)
	writeHeader(f, escalationSheet, escalationHeaders, headerStyle)

	row, escRow := 2, 2
	for _, e := range entries {
		if e.Status == storage.SchedulePendingApproval {
			values := []any{e.OrderNumber, e.StageName, e.ScheduledStart.UTC().Format(timeLayout), e.Quantity, e.UOM, "", "", yesNo(e.IsApproved)}
			if e.Recommendation != nil {
				values[5] = e.Recommendation.Type
				values[6] = e.Recommendation.Reason
			}
			writeRow(f, escalationSheet, escRow, values)
			escRow++
			continue
		}

		machine := ""
		if e.MachineName != nil {
			machine = *e.MachineName
		}

		writeRow(f, scheduleSheet, row, []any{
			e.OrderNumber,
			e.StageName,
			machine,
			e.ScheduledStart.UTC().Format(timeLayout),
			e.ScheduledEnd.UTC().Format(timeLayout),
			len(e.Chunks),
			e.Quantity,
			e.UOM,
			e.Status,
		})
		row++
	}

	for _, sheet := range []string{scheduleSheet, escalationSheet} {
		// закрепляем первую строку
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		f.SetColWidth(sheet, "A", "I", 18)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) {
	for i, name := range headers {
		f.SetCellValue(sheet, cellName(i+1, 1), name)
	}
	f.SetCellStyle(sheet, "A1", cellName(len(headers), 1), style)
}

func writeRow(f *excelize.File, sheet string, row int, values []any) {
	for i, v := range values {
		f.SetCellValue(sheet, cellName(i+1, row), v)
	}
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
