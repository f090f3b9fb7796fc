package handlers

import (
	"encoding/json"
	"net/http"

	"tracker/src/models"
	"tracker/src/schemas"
	"tracker/src/utils"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req schemas.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, utils.BadRequest("invalid request body"))
		return
	}

	params := schemas.CreateTransactionParams{
		OwnerID:     req.OwnerID,
		AccountID:   req.AccountID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
	}
	if req.Date != nil {
		params.Date = *req.Date
	}

	switch models.TransactionDirection(req.Direction) {
	case models.DirectionExpense:
		var detail schemas.ExpenseDetail
		if req.Expense != nil {
			detail = *req.Expense
		}
		params.Detail = detail
	case models.DirectionIncome:
		var detail schemas.IncomeDetail
		if req.Income != nil {
			detail = *req.Income
		}
		params.Detail = detail
	case models.DirectionTransfer:
		if req.Transfer == nil {
			utils.WriteError(w, utils.UnprocessableEntity("transfer detail is required"))
			return
		}
		params.Detail = *req.Transfer
	default:
		utils.WriteError(w, utils.UnprocessableEntity("unknown transaction direction"))
		return
	}

	ctx := utils.WithLogger(r.Context(), h.logger)
	transaction, err := h.Ledger.CreateTransaction(ctx, params)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.respond(w, r, transaction, http.StatusCreated)
}

func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ownerID, err := ownerIDParam(r)
	if err != nil {
		utils.WriteError(w, utils.BadRequest("invalid ownerId"))
		return
	}

	var params schemas.UpdateTransactionParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		utils.WriteError(w, utils.BadRequest("invalid request body"))
		return
	}

	ctx := utils.WithLogger(r.Context(), h.logger)
	transaction, err := h.Ledger.UpdateTransaction(ctx, id, ownerID, params)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.respond(w, r, transaction, http.StatusOK)
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ownerID, err := ownerIDParam(r)
	if err != nil {
		utils.WriteError(w, utils.BadRequest("invalid ownerId"))
		return
	}

	ctx := utils.WithLogger(r.Context(), h.logger)
	transaction, err := h.Ledger.DeleteTransaction(ctx, id, ownerID)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.respond(w, r, transaction, http.StatusOK)
}
