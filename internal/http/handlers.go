package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pontber/internal/dataset"
	applog "pontber/internal/log"
	"pontber/internal/report"
	"pontber/internal/services"
	"pontber/internal/xlsx"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded", applog.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	snap := s.store.Snapshot()

	type variantLink struct {
		ID    string
		Title string
	}
	type historyRow struct {
		Variant      string
		Source       string
		RowCount     int
		PaymentTotal string
		GeneratedAt  string
	}
	data := struct {
		Loaded       bool
		RowCount     int
		Source       string
		LoadedAt     string
		MultiplierA  float64
		MultiplierB  float64
		SheetsSource bool
		Variants     []variantLink
		History      []historyRow
	}{
		Loaded:       len(snap.Rows) > 0,
		RowCount:     len(snap.Rows),
		Source:       snap.Source,
		MultiplierA:  snap.MultiplierA,
		MultiplierB:  snap.MultiplierB,
		SheetsSource: s.rowSource != nil,
	}
	if !snap.LoadedAt.IsZero() {
		data.LoadedAt = snap.LoadedAt.Format("2006-01-02 15:04:05")
	}
	for _, v := range report.Variants() {
		data.Variants = append(data.Variants, variantLink{ID: v.ID, Title: v.Title})
	}

	entries, err := s.reports.RecentHistory(r.Context(), s.cfg.HistoryLimit)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "History list error", applog.FieldError, err)
	}
	for _, e := range entries {
		data.History = append(data.History, historyRow{
			Variant:      e.Variant,
			Source:       e.Source,
			RowCount:     e.RowCount,
			PaymentTotal: strconv.FormatFloat(e.PaymentTotal, 'f', -1, 64),
			GeneratedAt:  e.GeneratedAt.Format("2006-01-02 15:04"),
		})
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Index template execution failed",
			applog.FieldError, err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleUpload replaces the session with a freshly uploaded xlsx file.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	logger := applog.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		logger.WarnContext(r.Context(), "Upload form parse error", applog.FieldError, err)
		writeFragment(w, http.StatusRequestEntityTooLarge, `<div class="error">A fájl túl nagy vagy a kérés hibás</div>`)
		return
	}
	file, header, err := r.FormFile("timesheet")
	if err != nil {
		writeFragment(w, http.StatusBadRequest, `<div class="error">Hiányzó fájl</div>`)
		return
	}
	defer file.Close()

	sheet, err := xlsx.Decode(file)
	if err != nil {
		logger.WarnContext(r.Context(), "Timesheet decode failed",
			applog.FieldError, err, "file", header.Filename)
		writeFragment(w, http.StatusUnprocessableEntity, `<div class="error">A fájl nem olvasható xlsx munkafüzetként</div>`)
		return
	}

	count := s.store.Reload(sheet, header.Filename)
	logger.InfoContext(r.Context(), "Timesheet loaded",
		applog.FieldSource, header.Filename,
		applog.FieldRowCount, count,
		applog.FieldOperation, applog.OpUpload)

	w.Header().Set("HX-Trigger", "dataset:reloaded")
	writeFragment(w, http.StatusOK, `<div class="success">Betöltve: `+
		template.HTMLEscapeString(header.Filename)+` (`+strconv.Itoa(count)+` sor)</div>`)
}

// handleReload pulls the timesheet again from the configured Google
// Sheets range. Only available when that source is configured.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.rowSource == nil {
		writeFragment(w, http.StatusConflict, `<div class="error">Nincs beállított Google Sheets forrás</div>`)
		return
	}
	logger := applog.FromContext(r.Context())

	rows, source, err := s.rowSource.ReadRows(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "Sheets read failed", applog.FieldError, err)
		writeFragment(w, http.StatusBadGateway, `<div class="error">A munkalap nem érhető el</div>`)
		return
	}
	count := s.store.Reload(rows, source)
	logger.InfoContext(r.Context(), "Timesheet loaded",
		applog.FieldSource, source,
		applog.FieldRowCount, count,
		applog.FieldOperation, applog.OpRead)

	w.Header().Set("HX-Trigger", "dataset:reloaded")
	writeFragment(w, http.StatusOK, `<div class="success">Frissítve: `+
		template.HTMLEscapeString(source)+` (`+strconv.Itoa(count)+` sor)</div>`)
}

// handleMultipliers sets the two session-wide pay multipliers.
func (s *Server) handleMultipliers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeFragment(w, http.StatusBadRequest, `<div class="error">Érvénytelen kérés</div>`)
		return
	}

	a, errA := parseDecimal(r.Form.Get("multiplier_a"))
	b, errB := parseDecimal(r.Form.Get("multiplier_b"))
	if errA != nil || errB != nil || a < 0 || b < 0 {
		writeFragment(w, http.StatusUnprocessableEntity, `<div class="error">Érvénytelen szorzó</div>`)
		return
	}

	s.store.SetGlobalMultipliers(a, b)
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Multipliers updated",
		"multiplier_a", a, "multiplier_b", b)
	writeFragment(w, http.StatusOK, `<div class="success">Szorzók beállítva</div>`)
}

// handleMultiplierOverride sets or clears a per-row multiplier. An
// empty value clears the override.
func (s *Server) handleMultiplierOverride(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeFragment(w, http.StatusBadRequest, `<div class="error">Érvénytelen kérés</div>`)
		return
	}

	rowID, err := strconv.Atoi(strings.TrimSpace(r.Form.Get("row")))
	if err != nil {
		writeFragment(w, http.StatusUnprocessableEntity, `<div class="error">Érvénytelen sorazonosító</div>`)
		return
	}

	raw := strings.TrimSpace(r.Form.Get("value"))
	if raw == "" {
		err = s.store.ClearMultiplierOverride(rowID)
	} else {
		var mult float64
		mult, err = parseDecimal(raw)
		if err != nil || mult < 0 {
			writeFragment(w, http.StatusUnprocessableEntity, `<div class="error">Érvénytelen szorzó</div>`)
			return
		}
		err = s.store.SetMultiplierOverride(rowID, mult)
	}
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Row multiplier override",
		applog.FieldRowID, rowID, applog.FieldOperation, applog.OpOverride)
	writeFragment(w, http.StatusOK, `<div class="success">Sor szorzó mentve</div>`)
}

// handleNoteOverride replaces the note cell of one row.
func (s *Server) handleNoteOverride(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeFragment(w, http.StatusBadRequest, `<div class="error">Érvénytelen kérés</div>`)
		return
	}

	rowID, err := strconv.Atoi(strings.TrimSpace(r.Form.Get("row")))
	if err != nil {
		writeFragment(w, http.StatusUnprocessableEntity, `<div class="error">Érvénytelen sorazonosító</div>`)
		return
	}
	note := sanitizeInput(r.Form.Get("note"))

	if err := s.store.SetNoteOverride(rowID, note); err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Row note override",
		applog.FieldRowID, rowID, applog.FieldOperation, applog.OpOverride)
	writeFragment(w, http.StatusOK, `<div class="success">Megjegyzés mentve</div>`)
}

// handleReportDownload renders one report variant as an xlsx download.
// Unchanged sessions are served from the report cache.
func (s *Server) handleReportDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	logger := applog.FromContext(r.Context())

	variantID := strings.TrimPrefix(r.URL.Path, "/reports/")
	variantID = strings.TrimSuffix(variantID, ".xlsx")
	if variantID == "" || strings.Contains(variantID, "/") {
		http.NotFound(w, r)
		return
	}

	fileName := fmt.Sprintf("%s-%s.xlsx", variantID, time.Now().Format("20060102-150405"))
	cacheKey := fmt.Sprintf("%s:%d", variantID, s.store.Revision())
	if content, ok := s.reportCache.Get(cacheKey); ok {
		logger.DebugContext(r.Context(), "Report cache hit", applog.FieldVariant, variantID)
		serveXlsx(w, fileName, content)
		return
	}

	result, err := s.reports.Generate(r.Context(), variantID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrVariantUnknown):
			http.NotFound(w, r)
		case errors.Is(err, services.ErrNoDataset):
			http.Error(w, "no timesheet loaded", http.StatusConflict)
		default:
			logger.ErrorContext(r.Context(), "Report generation failed",
				applog.FieldVariant, variantID, applog.FieldError, err)
			http.Error(w, "report generation failed", http.StatusInternalServerError)
		}
		return
	}

	s.reportCache.Put(cacheKey, result.Content)
	serveXlsx(w, result.FileName, result.Content)
}

// handleHistory lists the most recent generated reports as JSON.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	limit := s.cfg.HistoryLimit
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	entries, err := s.reports.RecentHistory(r.Context(), limit)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "History list error", applog.FieldError, err)
		http.Error(w, "history unavailable", http.StatusInternalServerError)
		return
	}

	type item struct {
		ID           int64     `json:"id"`
		Variant      string    `json:"variant"`
		Source       string    `json:"source"`
		RowCount     int       `json:"row_count"`
		SummaryCount int       `json:"summary_count"`
		PaymentTotal float64   `json:"payment_total"`
		GeneratedAt  time.Time `json:"generated_at"`
	}
	items := make([]item, 0, len(entries))
	for _, e := range entries {
		items = append(items, item{
			ID:           e.ID,
			Variant:      e.Variant,
			Source:       e.Source,
			RowCount:     e.RowCount,
			SummaryCount: e.SummaryCount,
			PaymentTotal: e.PaymentTotal,
			GeneratedAt:  e.GeneratedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(items); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "History encode error", applog.FieldError, err)
	}
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, dataset.ErrNoDataset):
		writeFragment(w, http.StatusConflict, `<div class="error">Előbb tölts be egy munkalapot</div>`)
	case errors.Is(err, dataset.ErrUnknownRow):
		writeFragment(w, http.StatusUnprocessableEntity, `<div class="error">Ismeretlen sor</div>`)
	default:
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Session update failed", applog.FieldError, err)
		writeFragment(w, http.StatusInternalServerError, `<div class="error">Hiba a mentés közben</div>`)
	}
}

func serveXlsx(w http.ResponseWriter, fileName string, content []byte) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	_, _ = w.Write(content)
}

func writeFragment(w http.ResponseWriter, status int, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(html))
}

// parseDecimal accepts both dot and comma decimal separators.
func parseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	return strconv.ParseFloat(s, 64)
}

// sanitizeInput removes potentially dangerous characters and trims whitespace
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	// Remove control characters except tab, newline, carriage return
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
