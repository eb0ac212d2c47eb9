package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/invoiceirr/invoiceirr/internal/application"
	"github.com/invoiceirr/invoiceirr/internal/domain"
)

const (
	maxBodyBytes   = 4 << 20
	maxBatchLength = 10000
)

// Server exposes the IRR engine over HTTP.
type Server struct {
	svc    *application.ComputeService
	cfg    domain.ProjectConfig
	logger *slog.Logger
}

func NewServer(svc *application.ComputeService, cfg domain.ProjectConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{svc: svc, cfg: cfg, logger: logger}
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/v1", func(r chi.Router) {
		r.Post("/irr", s.handleIRR)
		r.Post("/xnpv", s.handleXNPV)
		r.Post("/solve", s.handleSolve)
	})
	return r
}

// invoiceJSON leaves the optional fields nil when absent so config defaults
// can apply.
type invoiceJSON struct {
	Amount                    float64  `json:"amount"`
	DiscountRatePercent       float64  `json:"discount_rate_percent"`
	TenorDays                 int      `json:"tenor_days"`
	DefaultProbabilityPercent *float64 `json:"default_probability_percent"`
	RecoveryRatePercent       *float64 `json:"recovery_rate_percent"`
}

type irrRequest struct {
	Invoices []invoiceJSON `json:"invoices"`
	Guess    *float64      `json:"guess"`
}

type irrResponse struct {
	RunID   string             `json:"run_id"`
	Solved  int                `json:"solved"`
	Failed  int                `json:"failed"`
	Results []domain.IRRResult `json:"results"`
}

func (s *Server) handleIRR(w http.ResponseWriter, r *http.Request) {
	var req irrRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	if len(req.Invoices) > maxBatchLength {
		writeError(w, http.StatusRequestEntityTooLarge, "BATCH_TOO_LARGE",
			fmt.Sprintf("at most %d invoices per request", maxBatchLength))
		return
	}

	cfg := s.cfg
	if req.Guess != nil {
		if *req.Guess <= -1 {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", "guess must be greater than -1")
			return
		}
		cfg.Solver.InitialGuess = req.Guess
	}

	records := make([]domain.InvoiceRecord, len(req.Invoices))
	for i, in := range req.Invoices {
		records[i] = toRecord(in, cfg.Defaults)
	}

	report, err := s.svc.ComputeRecords(r.Context(), records, cfg)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "CANCELED", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, irrResponse{
		RunID:   report.RunID,
		Solved:  report.Solved(),
		Failed:  report.Failed(),
		Results: report.Results,
	})
}

type scheduleRequest struct {
	Rate      float64                 `json:"rate"`
	Guess     *float64                `json:"guess"`
	Cashflows domain.CashflowSchedule `json:"cashflows"`
}

func (s *Server) handleXNPV(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	v, err := domain.XNPV(req.Rate, req.Cashflows)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, failureCode(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"rate": req.Rate, "xnpv": v})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	guess := s.cfg.Guess()
	if req.Guess != nil {
		guess = *req.Guess
	}
	rate, err := s.cfg.SecantSolver().Solve(domain.XNPV, req.Cashflows, guess)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, failureCode(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"rate": rate, "irr_percent": rate * 100})
}

func toRecord(in invoiceJSON, defaults domain.InvoiceDefault) domain.InvoiceRecord {
	rec := domain.InvoiceRecord{
		Amount:                    in.Amount,
		DiscountRatePercent:       in.DiscountRatePercent,
		TenorDays:                 in.TenorDays,
		DefaultProbabilityPercent: defaults.DefaultProbabilityPercent,
		RecoveryRatePercent:       defaults.RecoveryRatePercent,
	}
	if in.DefaultProbabilityPercent != nil {
		rec.DefaultProbabilityPercent = *in.DefaultProbabilityPercent
	}
	if in.RecoveryRatePercent != nil {
		rec.RecoveryRatePercent = *in.RecoveryRatePercent
	}
	return rec
}

func failureCode(err error) string {
	switch domain.KindOf(err) {
	case domain.FailureDomain:
		return "DOMAIN_ERROR"
	case domain.FailureConvergence:
		return "CONVERGENCE_ERROR"
	case domain.FailureOverflow:
		return "OVERFLOW_ERROR"
	case domain.FailureDegenerate:
		return "DEGENERATE_SCHEDULE"
	default:
		return "SOLVER_ERROR"
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("decoding request: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"code": code, "message": msg})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
