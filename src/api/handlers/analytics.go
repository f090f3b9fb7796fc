package handlers

import (
	"net/http"
	"strconv"

	"tracker/src/schemas"
	"tracker/src/utils"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ownerID, period, err := analyticsScope(r)
	if err != nil {
		utils.WriteError(w, utils.BadRequest(err.Error()))
		return
	}

	summary, err := h.Analytics.GetSummary(r.Context(), ownerID, period, mainCurrencyParam(r), accountIDParam(r))
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.respond(w, r, summary, http.StatusOK)
}

func (h *Handler) GetTopCategories(w http.ResponseWriter, r *http.Request) {
	query, err := topQuery(r)
	if err != nil {
		utils.WriteError(w, utils.BadRequest(err.Error()))
		return
	}

	groups, err := h.Analytics.GetTopCategories(r.Context(), query)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.respond(w, r, groups, http.StatusOK)
}

func (h *Handler) GetTopTags(w http.ResponseWriter, r *http.Request) {
	query, err := topQuery(r)
	if err != nil {
		utils.WriteError(w, utils.BadRequest(err.Error()))
		return
	}

	groups, err := h.Analytics.GetTopTags(r.Context(), query)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.respond(w, r, groups, http.StatusOK)
}

func (h *Handler) GetTopTransfers(w http.ResponseWriter, r *http.Request) {
	query, err := topQuery(r)
	if err != nil {
		utils.WriteError(w, utils.BadRequest(err.Error()))
		return
	}

	transfers, err := h.Analytics.GetTopTransfers(r.Context(), query)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.respond(w, r, transfers, http.StatusOK)
}

func (h *Handler) GetAnomalies(w http.ResponseWriter, r *http.Request) {
	ownerID, period, err := analyticsScope(r)
	if err != nil {
		utils.WriteError(w, utils.BadRequest(err.Error()))
		return
	}

	query := schemas.AnomalyQuery{
		OwnerID:          ownerID,
		Period:           period,
		MainCurrency:     mainCurrencyParam(r),
		AccountID:        accountIDParam(r),
		BeginningBalance: decimalParam(r, "beginningBalance"),
	}
	if threshold := decimalParam(r, "threshold"); threshold != nil {
		query.Threshold = *threshold
	}

	anomalies, err := h.Analytics.GetAnomalies(r.Context(), query)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.respond(w, r, anomalies, http.StatusOK)
}

func (h *Handler) GetByType(w http.ResponseWriter, r *http.Request) {
	ownerID, period, err := analyticsScope(r)
	if err != nil {
		utils.WriteError(w, utils.BadRequest(err.Error()))
		return
	}

	split, err := h.Analytics.GetByType(r.Context(), ownerID, period, mainCurrencyParam(r), accountIDParam(r))
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.respond(w, r, split, http.StatusOK)
}

func (h *Handler) GetCategoryDetail(w http.ResponseWriter, r *http.Request) {
	query, err := detailQuery(r)
	if err != nil {
		utils.WriteError(w, utils.BadRequest(err.Error()))
		return
	}
	categoryID := chi.URLParam(r, "id")
	query.CategoryID = &categoryID

	page, err := h.Analytics.GetCategoryDetail(r.Context(), query)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.respond(w, r, page, http.StatusOK)
}

func (h *Handler) GetTagDetail(w http.ResponseWriter, r *http.Request) {
	query, err := detailQuery(r)
	if err != nil {
		utils.WriteError(w, utils.BadRequest(err.Error()))
		return
	}
	tagID := chi.URLParam(r, "id")
	query.TagID = &tagID

	page, err := h.Analytics.GetTagDetail(r.Context(), query)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.respond(w, r, page, http.StatusOK)
}

func analyticsScope(r *http.Request) (int64, schemas.Period, error) {
	ownerID, err := ownerIDParam(r)
	if err != nil {
		return 0, "", err
	}

	period := schemas.Period30Days
	if p := r.URL.Query().Get("period"); p != "" {
		period, err = schemas.ParsePeriod(p)
		if err != nil {
			return 0, "", err
		}
	}
	return ownerID, period, nil
}

func topQuery(r *http.Request) (schemas.TopQuery, error) {
	ownerID, period, err := analyticsScope(r)
	if err != nil {
		return schemas.TopQuery{}, err
	}

	limit := 5
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}

	return schemas.TopQuery{
		OwnerID:          ownerID,
		Period:           period,
		MainCurrency:     mainCurrencyParam(r),
		Limit:            limit,
		AccountID:        accountIDParam(r),
		BeginningBalance: decimalParam(r, "beginningBalance"),
	}, nil
}

func detailQuery(r *http.Request) (schemas.DetailQuery, error) {
	ownerID, period, err := analyticsScope(r)
	if err != nil {
		return schemas.DetailQuery{}, err
	}

	limit := 20
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}
	offset := 0
	if o, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && o > 0 {
		offset = o
	}

	return schemas.DetailQuery{
		OwnerID:      ownerID,
		Period:       period,
		MainCurrency: mainCurrencyParam(r),
		AccountID:    accountIDParam(r),
		Limit:        limit,
		Offset:       offset,
	}, nil
}

func accountIDParam(r *http.Request) *string {
	if id := r.URL.Query().Get("accountId"); id != "" {
		return &id
	}
	return nil
}

func decimalParam(r *http.Request, name string) *decimal.Decimal {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &value
}
