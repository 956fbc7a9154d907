package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"spendwise/internal/export"
	applog "spendwise/internal/log"
)

// handleExport streams every transaction of the user as a file download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	txs, err := s.Transactions.All(r.Context(), currentUser(r).ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	// Rendered in full first so a writer error still yields a clean 500.
	var buf bytes.Buffer
	if err := export.Write(&buf, format, export.BuildTable(txs)); err != nil {
		applog.NewStructuredLogger(applog.FromContext(r.Context())).LogError(r.Context(),
			"Export failed", err, applog.OpExport,
			applog.NewFields().WithComponent(applog.ComponentExport))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, format.Filename()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)

	slog.InfoContext(r.Context(), "Export served", "format", format, "rows", len(txs))
}

// handleExportSheets replaces the user's sheet with the export table.
func (s *Server) handleExportSheets(w http.ResponseWriter, r *http.Request) {
	if s.Sheets == nil {
		s.notFound(w, r)
		return
	}

	u := currentUser(r)
	txs, err := s.Transactions.All(r.Context(), u.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	ref, err := s.Sheets.WriteTable(r.Context(), u.Username, export.BuildTable(txs).Values())
	if err != nil {
		applog.NewStructuredLogger(applog.FromContext(r.Context())).LogError(r.Context(),
			"Sheets export failed", err, applog.OpExport,
			applog.NewFields().WithComponent(applog.ComponentSheets))
		http.Error(w, "Spreadsheet export failed", http.StatusBadGateway)
		return
	}

	slog.InfoContext(r.Context(), "Sheets export done", "range", ref, "rows", len(txs))
	redirect(w, r, "/dashboard/")
}
