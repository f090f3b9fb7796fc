package handlers

import (
	"encoding/json"
	"net/http"

	"tracker/src/schemas"
	"tracker/src/utils"
)

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req schemas.CreateCatalogEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, utils.BadRequest("invalid request body"))
		return
	}

	category, err := h.Catalog.CreateCategory(r.Context(), req.OwnerID, req.Name)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.respond(w, r, category, http.StatusCreated)
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerIDParam(r)
	if err != nil {
		utils.WriteError(w, utils.BadRequest("invalid ownerId"))
		return
	}

	categories, err := h.Catalog.ListCategories(r.Context(), ownerID)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.respond(w, r, categories, http.StatusOK)
}

func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req schemas.CreateCatalogEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, utils.BadRequest("invalid request body"))
		return
	}

	tag, err := h.Catalog.CreateTag(r.Context(), req.OwnerID, req.Name)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.respond(w, r, tag, http.StatusCreated)
}

func (h *Handler) GetTags(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerIDParam(r)
	if err != nil {
		utils.WriteError(w, utils.BadRequest("invalid ownerId"))
		return
	}

	tags, err := h.Catalog.ListTags(r.Context(), ownerID)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.respond(w, r, tags, http.StatusOK)
}
