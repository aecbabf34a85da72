// Package export renders registry listings for operators. Bearer tokens are
// never part of an export.
package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	registry "transit-registry/internal/registry/domain"
)

// BuildStationsXLSX renders the station inventory as a workbook.
func BuildStationsXLSX(stations []registry.Station) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "stations"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Name", "Latitude", "Longitude", "Region", "Owner", "Approved"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
	}
	for i, station := range stations {
		row := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), station.ID)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), station.Name)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), station.Lat)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), station.Lon)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), station.Region)
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), station.Owner)
		_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", row), station.Approved)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildRegionsPDF renders the region catalog as a PDF report.
func BuildRegionsPDF(regions []registry.Region) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Broadcast Regions")
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(15, 6, "ID", "1", 0, "C", false, 0, "")
	pdf.CellFormat(55, 6, "Name", "1", 0, "C", false, 0, "")
	pdf.CellFormat(55, 6, "Transport Company", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Frequency", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Protocol", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, region := range regions {
		pdf.CellFormat(15, 6, fmt.Sprintf("%d", region.ID), "1", 0, "C", false, 0, "")
		pdf.CellFormat(55, 6, region.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(55, 6, region.TransportCompany, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%d", region.Frequency), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, region.Protocol, "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
