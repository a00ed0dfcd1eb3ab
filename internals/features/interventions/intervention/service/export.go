package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"cleanops_backend/internals/features/interventions/intervention/dto"
	"cleanops_backend/internals/features/interventions/intervention/model"
	helper "cleanops_backend/internals/helpers"
)

// MaxExportRows caps one workbook.
const MaxExportRows = 5000

const exportSheet = "Interventions"

var exportHeaders = []string{
	"Code", "Status", "Scheduled date", "Start", "End",
	"Contract", "Site", "Zone", "Team chief",
	"Check-in", "Check-out", "Duration (min)", "Distance (m)", "In geofence",
	"Quality", "Client rating", "Photos", "Notes",
}

// Export renders the filtered interventions (scheduled date order) as an xlsx workbook.
func (s *InterventionService) Export(ctx context.Context, lq helper.ListQuery, f dto.ListInterventionsQuery) ([]byte, int, error) {
	var rows []model.InterventionModel
	if err := s.filtered(ctx, lq, f).
		Order("scheduled_date ASC, scheduled_start_time ASC").
		Limit(MaxExportRows).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("load interventions: %w", err)
	}

	wb := excelize.NewFile()
	defer wb.Close()
	if err := wb.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, 0, err
	}

	headerStyle, err := wb.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, 0, err
	}

	for col, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = wb.SetCellValue(exportSheet, cell, h)
		_ = wb.SetCellStyle(exportSheet, cell, cell, headerStyle)
	}
	last, _ := excelize.ColumnNumberToName(len(exportHeaders))
	_ = wb.SetColWidth(exportSheet, "A", last, 18)

	for i, r := range rows {
		for col, v := range exportRow(&r) {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := wb.SetCellValue(exportSheet, cell, v); err != nil {
				return nil, 0, err
			}
		}
	}
	_ = wb.SetPanes(exportSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("write workbook: %w", err)
	}
	return bytes.Clone(buf.Bytes()), len(rows), nil
}

func exportRow(r *model.InterventionModel) []any {
	return []any{
		r.InterventionCode,
		r.Status,
		r.ScheduledDate.String(),
		r.ScheduledStartTime,
		r.ScheduledEndTime,
		r.ContractID.String(),
		r.SiteID.String(),
		optString(r.ZoneID),
		optString(r.TeamChiefID),
		optTime(r.CheckInAt),
		optTime(r.CheckOutAt),
		optValue(r.ActualDurationMinutes),
		optValue(r.CheckInDistanceMeters),
		optValue(r.CheckInWithinGeofence),
		optValue(r.QualityScore),
		optValue(r.ClientRating),
		len(r.PhotoURLs),
		optValue(r.Notes),
	}
}

func optString[T fmt.Stringer](p *T) string {
	if p == nil {
		return ""
	}
	return (*p).String()
}

func optTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}

func optValue[T any](p *T) any {
	if p == nil {
		return ""
	}
	return *p
}
