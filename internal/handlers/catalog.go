package handlers

import (
	"net/http"

	"github.com/NickGV/serujier/internal/models"
)

// ==================== Members ====================

func (h *Handlers) handleGetMembers(w http.ResponseWriter, r *http.Request) {
	category := models.Category(r.URL.Query().Get("category"))
	members, err := h.Catalog.Members(r.Context(), category)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, members)
}

func (h *Handlers) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	var req MemberCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	member, err := h.Catalog.AddMember(r.Context(), req.Name, req.Category)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, member)
}

func (h *Handlers) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	id, err := parseInt64Param(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req MemberUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := h.Catalog.UpdateMember(r.Context(), id, req.Name, req.Category, req.Active); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Member updated")
}

func (h *Handlers) handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	id, err := parseInt64Param(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.Catalog.DeleteMember(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

// ==================== Sympathizers ====================

func (h *Handlers) handleGetSympathizers(w http.ResponseWriter, r *http.Request) {
	sympathizers, err := h.Catalog.Sympathizers(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, sympathizers)
}

func (h *Handlers) handleCreateSympathizer(w http.ResponseWriter, r *http.Request) {
	var req SympathizerCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	sympathizer, err := h.Catalog.AddSympathizer(r.Context(), req.Name, req.Phone)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, sympathizer)
}

func (h *Handlers) handleUpdateSympathizer(w http.ResponseWriter, r *http.Request) {
	id, err := parseInt64Param(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req SympathizerUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := h.Catalog.UpdateSympathizer(r.Context(), id, req.Name, req.Phone, req.Active); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Sympathizer updated")
}

func (h *Handlers) handleDeleteSympathizer(w http.ResponseWriter, r *http.Request) {
	id, err := parseInt64Param(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.Catalog.DeleteSympathizer(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

// ==================== Ushers ====================

func (h *Handlers) handleGetUshers(w http.ResponseWriter, r *http.Request) {
	// The counter only offers active ushers; admin asks for everyone.
	if r.URL.Query().Get("all") == "true" {
		ushers, err := h.Catalog.Ushers(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}
		respondOK(w, ushers)
		return
	}
	ushers, err := h.Catalog.ActiveUshers(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, ushers)
}

func (h *Handlers) handleCreateUsher(w http.ResponseWriter, r *http.Request) {
	var req UsherCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	usher, err := h.Catalog.AddUsher(r.Context(), req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, usher)
}

func (h *Handlers) handleSetUsherActive(w http.ResponseWriter, r *http.Request) {
	id, err := parseInt64Param(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req UsherActiveRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := h.Catalog.SetUsherActive(r.Context(), id, req.Active); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Usher updated")
}

func (h *Handlers) handleDeleteUsher(w http.ResponseWriter, r *http.Request) {
	id, err := parseInt64Param(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.Catalog.DeleteUsher(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}
