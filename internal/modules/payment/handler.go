package payment

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes payment HTTP endpoints, including the provider webhook.
type Handler struct {
	service       Service
	webhookSecret string
}

func NewHandler(service Service, webhookSecret string) *Handler {
	return &Handler{service: service, webhookSecret: webhookSecret}
}

func (h *Handler) RegisterRoutes(r *chi.Mux, admin func(http.Handler) http.Handler) {
	r.Route("/api/v1/payments", func(r chi.Router) {
		r.Post("/initiate", h.initiate)
		r.Get("/{reference}", h.getByReference)
		r.Post("/{reference}/verify", h.verify)

		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Get("/reconciliation", h.listReconciliation)
			r.Post("/{reference}/reconcile", h.reconcile)
		})
	})

	// Provider webhook: authenticated by signature, not by session.
	r.Post("/api/v1/webhooks/paystack", h.webhook)
}

// webhook verifies the provider signature over the raw body before anything
// else; an unsigned or mis-signed request never reaches the parser. Permanent
// problems answer 4xx, transient ones 5xx so the provider redelivers.
func (h *Handler) webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "unreadable body"})
		return
	}
	if !VerifySignature(body, r.Header.Get("X-Paystack-Signature"), h.webhookSecret) {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "invalid signature"})
		return
	}

	ev, err := ParseEvent(body)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := h.service.HandleEvent(r.Context(), ev); err != nil {
		if errors.Is(err, ErrAlreadySettled) {
			// Conflicting outcome is logged for operators; redelivering the
			// same notification cannot fix it, so do not invite a retry.
			respond(w, http.StatusOK, map[string]bool{"success": true})
			return
		}
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) initiate(w http.ResponseWriter, r *http.Request) {
	var req InitiatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	resp, err := h.service.Initiate(r.Context(), req)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, resp)
}

func (h *Handler) getByReference(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.GetByReference(r.Context(), chi.URLParam(r, "reference"))
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ErrPaymentNotFound) {
			code = http.StatusNotFound
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, rec)
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.VerifyAndSettle(r.Context(), chi.URLParam(r, "reference"))
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ErrPaymentNotFound) {
			code = http.StatusNotFound
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, rec)
}

func (h *Handler) listReconciliation(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListReconciliationPending(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, records)
}

func (h *Handler) reconcile(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.Reconcile(r.Context(), chi.URLParam(r, "reference"))
	if err != nil {
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, ErrPaymentNotFound):
			code = http.StatusNotFound
		case errors.Is(err, ErrNotReconcilable):
			code = http.StatusConflict
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, rec)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
