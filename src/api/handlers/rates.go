package handlers

import (
	"net/http"
)

func (h *Handler) GetRates(w http.ResponseWriter, r *http.Request) {
	table := h.Rates.GetRates(r.Context())
	h.respond(w, r, table, http.StatusOK)
}
