package exposvc

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	expodto "expo_leads/internal/api/expo/dto"
	expomodels "expo_leads/internal/api/expo/models"

	"github.com/xuri/excelize/v2"
)

// ExportSheet is the sheet holding the exported records
const ExportSheet = "Leads"

type exportColumn struct {
	Label string
	Width float64
	Value func(r *expomodels.PersonRecord) interface{}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

var exportColumns = []exportColumn{
	{"Name", 24, func(r *expomodels.PersonRecord) interface{} { return r.Name }},
	{"Type", 10, func(r *expomodels.PersonRecord) interface{} { return string(r.Type) }},
	{"Company", 24, func(r *expomodels.PersonRecord) interface{} { return r.CompanyName }},
	{"Email", 28, func(r *expomodels.PersonRecord) interface{} { return r.Email }},
	{"Mobile", 16, func(r *expomodels.PersonRecord) interface{} { return r.MobileNumber }},
	{"WhatsApp", 16, func(r *expomodels.PersonRecord) interface{} { return r.WhatsappNumber }},
	{"Priority", 10, func(r *expomodels.PersonRecord) interface{} { return string(r.Priority) }},
	{"Requirement", 18, func(r *expomodels.PersonRecord) interface{} { return strings.Join(r.Requirement, ", ") }},
	{"Requirement Description", 32, func(r *expomodels.PersonRecord) interface{} { return r.RequirementDescription }},
	{"Other Requirement", 24, func(r *expomodels.PersonRecord) interface{} { return r.OtherRequirement }},
	{"Exhibition", 22, func(r *expomodels.PersonRecord) interface{} { return r.ExhibitionName }},
	{"City", 14, func(r *expomodels.PersonRecord) interface{} { return r.City }},
	{"Visit Date", 18, func(r *expomodels.PersonRecord) interface{} { return formatTime(r.VisitDate) }},
	{"Created At", 18, func(r *expomodels.PersonRecord) interface{} { return formatTime(r.CreatedAt) }},
	{"Card Front", 40, func(r *expomodels.PersonRecord) interface{} { return r.CardFront }},
	{"Card Back", 40, func(r *expomodels.PersonRecord) interface{} { return r.CardBack }},
}

// ExportLeads renders the records matching q as an xlsx workbook
func (s *PersonService) ExportLeads(ctx context.Context, q expodto.PersonQuery) (*bytes.Buffer, error) {
	records, err := s.ListLeads(ctx, q)
	if err != nil {
		return nil, err
	}
	return BuildWorkbook(records)
}

// BuildWorkbook writes one header row and one row per record
func BuildWorkbook(records []expomodels.PersonRecord) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(ExportSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#4472C4"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for colIdx, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		colName, _ := excelize.ColumnNumberToName(colIdx + 1)
		if err := f.SetCellValue(ExportSheet, cell, col.Label); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(ExportSheet, cell, cell, headerStyle); err != nil {
			return nil, err
		}
		if err := f.SetColWidth(ExportSheet, colName, colName, col.Width); err != nil {
			return nil, err
		}
	}

	for rowIdx := range records {
		rec := &records[rowIdx]
		for colIdx, col := range exportColumns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(ExportSheet, cell, col.Value(rec)); err != nil {
				return nil, err
			}
		}
	}
	if err := f.SetPanes(ExportSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}
