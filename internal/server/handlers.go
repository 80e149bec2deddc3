package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/theirongolddev/homeloan/internal/amortization"
	"github.com/theirongolddev/homeloan/internal/export"
	"github.com/theirongolddev/homeloan/internal/income"
	"github.com/theirongolddev/homeloan/internal/scenario"
	"github.com/theirongolddev/homeloan/internal/store"
)

type errorBody struct {
	Error string `json:"error"`
}

// sessionBody is served at GET /v1/sessions/{id}.
type sessionBody struct {
	ID          string                   `json:"id"`
	NextID      int                      `json:"next_id"`
	Comparison  []scenario.ComparisonRow `json:"comparison"`
	Streams     []streamSummary          `json:"streams"`
	TotalIncome float64                  `json:"total_income"`
}

type streamSummary struct {
	ID            int           `json:"id"`
	Name          string        `json:"name"`
	MonthlyIncome float64       `json:"monthly_income"`
	Growth        income.Growth `json:"growth"`
	Years         int           `json:"years"`
	Start         string        `json:"start"`
	Total         float64       `json:"total"`
}

// projectionBody adds the horizon total to a projection.
type projectionBody struct {
	income.Projection
	Total float64 `json:"total"`
}

// writeJSON buffers the encoding so a failure becomes a 500 instead of a
// truncated 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(errorBody{Error: "encoding response: " + err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (s *Service) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, amortization.ErrInvalidInput),
		errors.Is(err, income.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, income.ErrGrowthNotImplemented):
		status = http.StatusNotImplemented
	case errors.Is(err, store.ErrSessionNotFound),
		errors.Is(err, scenario.ErrNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.status(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// compute returns the memoised result for p. Results are never mutated
// after Compute returns, so cached values are shared between requests.
func (s *Service) compute(p amortization.Params) (amortization.Result, error) {
	key := resultKey(p)
	if v, ok := s.results.Get(key); ok {
		return v.(amortization.Result), nil
	}
	res, err := amortization.Compute(p)
	if err != nil {
		return amortization.Result{}, err
	}
	s.results.SetDefault(key, res)
	return res, nil
}

func resultKey(p amortization.Params) string {
	opt := func(v *float64) string {
		if v == nil {
			return "-"
		}
		return strconv.FormatFloat(*v, 'g', -1, 64)
	}
	return fmt.Sprintf("%g|%g|%d|%d|%s|%s|%s",
		p.Principal, p.AnnualRatePercent, p.TermYears, p.Frequency,
		p.StartDate.Format("2006-01-02T15:04:05.999999999Z07:00"), opt(p.HomePrice), opt(p.DownPayment))
}

func (s *Service) loanFromRequest(r *http.Request) (string, amortization.Result, error) {
	var req loanRequest
	if err := decode(r, &req); err != nil {
		return "", amortization.Result{}, err
	}
	p, err := req.params()
	if err != nil {
		return "", amortization.Result{}, err
	}
	res, err := s.compute(p)
	return req.Name, res, err
}

func (s *Service) handleAmortization(w http.ResponseWriter, r *http.Request) {
	_, res, err := s.loanFromRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Service) handleScheduleCSV(w http.ResponseWriter, r *http.Request) {
	name, res, err := s.loanFromRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if name == "" {
		name = "schedule"
	}
	s.writeCSV(w, r, name, res.Schedule)
}

func (s *Service) writeCSV(w http.ResponseWriter, r *http.Request, name string, schedule []amortization.Payment) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(name)))
	if err := export.WriteScheduleCSV(w, schedule); err != nil {
		s.log.Error("writing csv", "path", r.URL.Path, "err", err)
	}
}

func (s *Service) handleIncome(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	proj, err := req.project()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectionBody{Projection: proj, Total: proj.Total()})
}

func (s *Service) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, err := s.store.CreateSession(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/sessions/"+id)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Service) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	book, err := s.store.LoadBook(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body := sessionBody{
		ID:         id,
		NextID:     book.NextID(),
		Comparison: book.Comparison(),
		Streams:    make([]streamSummary, 0, len(book.Streams)),
	}
	for _, st := range book.Streams {
		p := st.Projection
		total := p.Total()
		body.Streams = append(body.Streams, streamSummary{
			ID:            st.ID,
			Name:          st.Name,
			MonthlyIncome: p.MonthlyIncome,
			Growth:        p.Growth,
			Years:         p.Years,
			Start:         p.Start,
			Total:         total,
		})
		body.TotalIncome += total
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Service) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	book, err := s.store.LoadBook(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, book.Comparison())
}

func (s *Service) handleAddScenario(w http.ResponseWriter, r *http.Request) {
	name, res, err := s.loanFromRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	loan, err := s.store.SaveLoan(r.Context(), chi.URLParam(r, "id"), name, res)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, loan)
}

func (s *Service) handleClearScenarios(w http.ResponseWriter, r *http.Request) {
	if err := s.store.ClearLoans(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleScenarioCSV accepts either a scenario ID or its name.
func (s *Service) handleScenarioCSV(w http.ResponseWriter, r *http.Request) {
	book, err := s.store.LoadBook(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ref := chi.URLParam(r, "scenarioID")
	var loan scenario.Loan
	if id, aerr := strconv.Atoi(ref); aerr == nil {
		loan, err = book.LoanByID(id)
	} else {
		loan, err = book.Loan(ref)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeCSV(w, r, loan.Name, loan.Result.Schedule)
}

func (s *Service) handleAddStream(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	proj, err := req.project()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	stream, err := s.store.SaveStream(r.Context(), chi.URLParam(r, "id"), req.Name, proj)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, stream)
}
