package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"tracker/src/schemas"
	"tracker/src/utils"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req schemas.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, utils.BadRequest("invalid request body"))
		return
	}

	account, err := h.Accounts.CreateAccount(r.Context(), req.OwnerID, req.Name, req.DefaultCurrency)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.respond(w, r, account, http.StatusCreated)
}

func (h *Handler) SetAccountHidden(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req schemas.SetAccountHiddenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, utils.BadRequest("invalid request body"))
		return
	}

	if err := h.Accounts.SetAccountHidden(r.Context(), id, req.OwnerID, req.Hidden); err != nil {
		h.HandleError(w, err)
		return
	}

	h.respond(w, r, map[string]bool{"hidden": req.Hidden}, http.StatusOK)
}

func (h *Handler) GetAccountBalances(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerIDParam(r)
	if err != nil {
		utils.WriteError(w, utils.BadRequest("invalid ownerId"))
		return
	}

	balances, err := h.Accounts.GetBalances(r.Context(), ownerID, mainCurrencyParam(r))
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.respond(w, r, balances, http.StatusOK)
}

func (h *Handler) GetPortfolioSplit(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerIDParam(r)
	if err != nil {
		utils.WriteError(w, utils.BadRequest("invalid ownerId"))
		return
	}

	split, err := h.Accounts.GetPortfolioSplit(r.Context(), ownerID, mainCurrencyParam(r))
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.respond(w, r, split, http.StatusOK)
}

func ownerIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.URL.Query().Get("ownerId"), 10, 64)
}

func mainCurrencyParam(r *http.Request) string {
	if c := r.URL.Query().Get("mainCurrency"); c != "" {
		return c
	}
	return utils.USDCurrencyCode
}
