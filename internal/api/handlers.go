package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mksoul/liversettle/internal/domain"
	"github.com/mksoul/liversettle/internal/export"
	"github.com/mksoul/liversettle/internal/repository"
	"github.com/mksoul/liversettle/internal/settlement"
)

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	runner  *settlement.Runner
	runRepo *repository.RunRepo
	now     func() time.Time
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return def
	}
	return v
}

// --- ListMonths ---

// ListMonths returns the selectable delivery months, latest first. The KPI
// feed for the current calendar month is never complete, so the newest
// option is always last month.
func (h *Handlers) ListMonths(w http.ResponseWriter, r *http.Request) {
	type monthEntry struct {
		Key     string `json:"key"`
		Display string `json:"display"`
	}
	months := domain.RecentDeliveryMonths(h.now(), 12)
	entries := make([]monthEntry, 0, len(months))
	for _, m := range months {
		entries = append(entries, monthEntry{Key: m.Key(), Display: m.Display()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"months": entries})
}

// --- RunSettlement ---

func (h *Handlers) RunSettlement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Month string `json:"month"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	month, err := domain.ParseMonth(req.Month)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	started := time.Now()
	run, records, err := h.runner.Run(r.Context(), month)
	runDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		runErrorsTotal.Inc()
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	runsTotal.Inc()

	revenueJoined := 0
	for i := range records {
		if records[i].BaseAmount.State == domain.AmountPresent {
			revenueJoined++
		}
	}

	writeJSON(w, http.StatusOK, domain.RunSummary{
		RunID:         run.ID,
		DeliveryMonth: run.DeliveryMonth.Key(),
		PaymentMonth:  run.PaymentMonth.Key(),
		AggregateTier: run.AggregateTier,
		RoomCount:     run.RoomCount,
		StreamedCount: run.StreamedCount,
		RevenueJoined: revenueJoined,
		Warnings:      run.Warnings,
	})
}

// --- ListRuns ---

func (h *Handlers) ListRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.RunFilter{
		DeliveryMonth: q.Get("month"),
		Page:          parseIntDefault(q.Get("page"), 1),
		Limit:         parseIntDefault(q.Get("limit"), 50),
	}

	runs, total, err := h.runRepo.ListRuns(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"runs":  runs,
		"total": total,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}

// --- GetRun ---

func (h *Handlers) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := h.runRepo.GetRun(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	records, err := h.runRepo.GetRecords(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"run":     run,
		"records": records,
	})
}

// --- ExportCSV ---

func (h *Handlers) ExportCSV(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := h.runRepo.GetRun(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	records, err := h.runRepo.GetRecords(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	data, err := export.CSV(records)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		`attachment; filename="`+export.Filename(run.DeliveryMonth, "csv")+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("[api] write csv: %v", err)
	}
}

// --- ExportXLSX ---

func (h *Handlers) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := h.runRepo.GetRun(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	records, err := h.runRepo.GetRecords(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	data, err := export.XLSX(run, records)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		`attachment; filename="`+export.Filename(run.DeliveryMonth, "xlsx")+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("[api] write xlsx: %v", err)
	}
}

// --- GetDashboard ---

func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.runRepo.GetDashboardStats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
