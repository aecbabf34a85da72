// Package apihttp serves the operational admin endpoints next to the
// websocket listener: health and registry exports.
package apihttp

import (
	"log"
	"net/http"

	"transit-registry/internal/export"
	"transit-registry/internal/observability/metrics"
	"transit-registry/internal/registry/application"
	registry "transit-registry/internal/registry/domain"
)

// NewHealthHandler reports process liveness.
func NewHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

// NewExportStationsXLSXHandler streams the station inventory as a workbook.
func NewExportStationsXLSXHandler(gateway *application.Gateway, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		stations, err := gateway.ListStations(r.Context(), registry.StationFilter{})
		if err != nil {
			logger.Printf("export stations: %v", err)
			metrics.ExportResult("xlsx", false)
			http.Error(w, "store unavailable", http.StatusInternalServerError)
			return
		}
		data, err := export.BuildStationsXLSX(stations)
		if err != nil {
			logger.Printf("export stations: %v", err)
			metrics.ExportResult("xlsx", false)
			http.Error(w, "export failed", http.StatusInternalServerError)
			return
		}
		metrics.ExportResult("xlsx", true)
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="stations.xlsx"`)
		_, _ = w.Write(data)
	})
}

// NewExportRegionsPDFHandler streams the region catalog as a PDF report.
func NewExportRegionsPDFHandler(gateway *application.Gateway, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		regions, err := gateway.ListRegions(r.Context())
		if err != nil {
			logger.Printf("export regions: %v", err)
			metrics.ExportResult("pdf", false)
			http.Error(w, "store unavailable", http.StatusInternalServerError)
			return
		}
		data, err := export.BuildRegionsPDF(regions)
		if err != nil {
			logger.Printf("export regions: %v", err)
			metrics.ExportResult("pdf", false)
			http.Error(w, "export failed", http.StatusInternalServerError)
			return
		}
		metrics.ExportResult("pdf", true)
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="regions.pdf"`)
		_, _ = w.Write(data)
	})
}
