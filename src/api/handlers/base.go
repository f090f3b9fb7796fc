package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"tracker/src/services"
	"tracker/src/utils"

	"github.com/sirupsen/logrus"
)

type Handler struct {
	Accounts  services.AccountServiceI
	Ledger    services.LedgerServiceI
	Analytics services.AnalyticsServiceI
	Catalog   services.CatalogServiceI
	Rates     services.RateServiceI

	logger *logrus.Logger
}

func NewHandler(
	accounts services.AccountServiceI,
	ledger services.LedgerServiceI,
	analytics services.AnalyticsServiceI,
	catalog services.CatalogServiceI,
	rates services.RateServiceI,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		Accounts:  accounts,
		Ledger:    ledger,
		Analytics: analytics,
		Catalog:   catalog,
		Rates:     rates,
		logger:    logger,
	}
}

func (h *Handler) respond(w http.ResponseWriter, _ *http.Request, data interface{}, status int) {
	res, err := json.Marshal(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write(res)
}

// HandleError maps service errors onto HTTP responses.
func (h *Handler) HandleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.WriteError(w, utils.NotFound(err.Error()))
	case errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidCurrency),
		errors.Is(err, services.ErrMissingDetail),
		errors.Is(err, services.ErrMissingToAccount),
		errors.Is(err, services.ErrInvalidName):
		utils.WriteError(w, utils.UnprocessableEntity(err.Error()))
	default:
		h.logger.WithError(err).Error("request failed")
		utils.WriteError(w, utils.InternalServerError("Internal Server Error"))
	}
}

// Healthcheck responds 200 while the service is up.
func Healthcheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
