package relay

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/comigor/prepbuddy/internal/logger"
)

// Handler serves the assistant endpoint. It never answers with a 5xx:
// anything unexpected before the response is committed becomes a canned
// answer flagged as fallback.
type Handler struct {
	relay *Relay
}

func NewHandler(r *Relay) *Handler {
	return &Handler{relay: r}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	committed := false
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		if rec == http.ErrAbortHandler || committed {
			panic(rec)
		}
		logger.L.Error("assistant handler panic", "panic", rec)
		h.fallback(w, fmt.Sprint(rec))
	}()

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.L.Error("invalid assistant request", "error", err)
		h.fallback(w, err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeValidation(w, err)
		return
	}

	if req.Stream {
		committed = true
		err := h.relay.Stream(r.Context(), w, req)
		switch {
		case err == nil:
		case r.Context().Err() != nil:
			logger.L.Info("client went away during stream", "error", err)
		default:
			logger.L.Error("stream broke after commit; aborting connection", "error", err)
			panic(http.ErrAbortHandler)
		}
		return
	}

	resp, err := h.relay.Complete(r.Context(), req)
	if err != nil {
		logger.L.Error("assistant request failed", "error", err)
		h.fallback(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeValidation(w http.ResponseWriter, err error) {
	msg := err.Error()
	var verr *ValidationError
	if errors.As(err, &verr) {
		msg = verr.Msg
	}
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func (h *Handler) fallback(w http.ResponseWriter, prompt string) {
	writeJSON(w, http.StatusOK, Response{
		Response:  Canned(prompt),
		Timestamp: h.relay.now().UTC(),
		Fallback:  true,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.L.Warn("failed to write response", "error", err)
	}
}
