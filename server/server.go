// Package server exposes report generation over HTTP.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ByLCY/dietreport/renderer"
	"github.com/ByLCY/dietreport/report"
)

// Route is the path the generator is mounted on.
const Route = "/api/generate-pdf"

const allowHeaders = "X-CSRF-Token, X-Requested-With, Accept, Accept-Version, Content-Length, " +
	"Content-MD5, Content-Type, Date, X-Api-Version, Authorization"

// Options configures the handler.
type Options struct {
	Theme          report.Theme
	Backend        renderer.Backend
	AllowedOrigins []string
	MaxBodyBytes   int64
	Logger         *slog.Logger
	Now            func() time.Time
}

// Handler serves POST requests carrying {userInput, plan} and answers with
// the PDF as an attachment.
type Handler struct {
	opts Options
	log  *slog.Logger
}

// New builds the generator handler wrapped in CORS and request logging.
func New(opts Options) (http.Handler, error) {
	if opts.Backend == nil {
		return nil, fmt.Errorf("server: no rendering backend")
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{opts: opts, log: logger}

	mux := http.NewServeMux()
	mux.Handle(Route, h)
	return RequestIDMiddleware(LoggingMiddleware(logger)(CORSMiddleware(opts.AllowedOrigins)(mux))), nil
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	body := http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes)
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, "Request body too large.",
				[]string{fmt.Sprintf("limit is %d bytes", tooLarge.Limit)})
			return
		}
		WriteError(w, http.StatusBadRequest, "Invalid input for PDF generation.", []string{err.Error()})
		return
	}
	content, err := report.DecodeContent(bytes.NewReader(data))
	if err != nil {
		var verr *report.ValidationError
		if errors.As(err, &verr) {
			WriteError(w, http.StatusBadRequest, "Invalid input for PDF generation.", verr.Problems)
			return
		}
		h.fail(w, r, err)
		return
	}

	art, err := report.Generate(content, h.opts.Theme, h.opts.Backend, report.Options{Now: h.opts.Now})
	var verr *report.ValidationError
	if errors.As(err, &verr) {
		WriteError(w, http.StatusBadRequest, "Invalid input for PDF generation.", verr.Problems)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.FileName))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(art.Data); err != nil {
		h.log.Warn("write response", "request_id", RequestID(r), "err", err)
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	attrs := []any{"request_id", RequestID(r), "err", err}
	var gen *report.GenerationError
	if errors.As(err, &gen) {
		attrs = append(attrs, "stage", gen.Stage)
	}
	h.log.Error("generate-pdf failed", attrs...)
	WriteError(w, http.StatusInternalServerError, "Failed to generate PDF.", nil)
}

// ErrorResponse is the JSON body of every non-PDF answer.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, status int, message string, details []string) {
	WriteJSON(w, status, ErrorResponse{Error: message, Details: details})
}

// WriteJSON writes data as a JSON response.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent, so an encode error cannot be reported.
	_ = json.NewEncoder(w).Encode(data)
}
