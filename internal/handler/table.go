package handler

import (
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"cropclassify/internal/apperr"
	"cropclassify/internal/dto"
	"cropclassify/internal/logger"
	"cropclassify/internal/service"
)

//go:embed templates/*.html
var templateFiles embed.FS

var tableTemplate = template.Must(template.New("table.html").Funcs(template.FuncMap{
	"formatValue": formatValue,
}).ParseFS(templateFiles, "templates/table.html"))

type tablePage struct {
	StartDate string
	EndDate   string
	Rows      []dto.DocumentRow
	Error     string
}

// TableHandler renders GET / as an HTML table of stored submissions with
// thumbnails and a date range form.
func TableHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		q := r.URL.Query()
		page := tablePage{
			StartDate: q.Get("start_date"),
			EndDate:   q.Get("end_date"),
		}
		status := http.StatusOK

		filter, err := parseFilter(q)
		if err == nil {
			page.Rows, err = manager.List(r.Context(), filter)
		}
		if err != nil {
			logger.Error("Failed to list documents: %v", err)
			page.Error = apperr.Message(err)
			status = statusFor(apperr.KindOf(err))
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		if err := tableTemplate.Execute(w, page); err != nil {
			logger.Error("Error rendering table: %v", err)
		}
	}
}

// formatValue prints a percentage the way the stored JSON shows it, always
// with a decimal point.
func formatValue(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
