package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/NickGV/serujier/internal/models"
)

// ==================== Tally API ====================

// handleGetTally returns the full counter summary: state, derived mode,
// computed totals and the flat attendee list.
func (h *Handlers) handleGetTally(w http.ResponseWriter, r *http.Request) {
	respondOK(w, h.Attendance.Summary())
}

func (h *Handlers) handleSetCounter(w http.ResponseWriter, r *http.Request) {
	var req CounterSetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := h.Attendance.SetCounter(req.Category, req.Value); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, h.Attendance.Summary())
}

func (h *Handlers) handleAdjustCounter(w http.ResponseWriter, r *http.Request) {
	var req CounterAdjustRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := h.Attendance.Increment(req.Category, req.Delta); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, h.Attendance.Summary())
}

func (h *Handlers) handleAddAttendee(w http.ResponseWriter, r *http.Request) {
	var req AttendeeAddRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	attendee, err := h.Attendance.AddAttendee(req.Category, req.ID, req.Name, req.Church)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, attendee)
}

func (h *Handlers) handleRemoveAttendee(w http.ResponseWriter, r *http.Request) {
	category := models.Category(chi.URLParam(r, "category"))
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, BadRequest("Missing attendee id"))
		return
	}
	if err := h.Attendance.RemoveAttendee(category, id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

func (h *Handlers) handleSetServiceType(w http.ResponseWriter, r *http.Request) {
	var req ServiceTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := h.Attendance.SetServiceType(req.ServiceType); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, h.Attendance.Summary())
}

func (h *Handlers) handleSetUshers(w http.ResponseWriter, r *http.Request) {
	var req UshersRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	h.Attendance.SetUshers(req.Ushers)
	respondOK(w, h.Attendance.Summary())
}

// ==================== Save Flow ====================

func (h *Handlers) handleSave(w http.ResponseWriter, r *http.Request) {
	result, err := h.Attendance.Save(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

func (h *Handlers) handleContinueConsecutive(w http.ResponseWriter, r *http.Request) {
	// The body is optional: an empty or absent one takes the default
	// follow-on service.
	var req ContinueRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, err)
			return
		}
	}
	if err := h.Attendance.ContinueConsecutive(req.FollowOnType); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, h.Attendance.Summary())
}

func (h *Handlers) handleDeclineConsecutive(w http.ResponseWriter, r *http.Request) {
	if err := h.Attendance.DeclineConsecutive(); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, h.Attendance.Summary())
}

func (h *Handlers) handleEnterEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, BadRequest("Missing record id"))
		return
	}
	summary, err := h.Attendance.EnterEdit(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, summary)
}

// ==================== Records ====================

func (h *Handlers) handleListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.Attendance.Records(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, records)
}

func (h *Handlers) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, BadRequest("Missing record id"))
		return
	}
	record, err := h.Attendance.Record(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, record)
}

// ==================== Metadata ====================

func (h *Handlers) handleGetCategories(w http.ResponseWriter, r *http.Request) {
	cats := models.Categories()
	infos := make([]CategoryInfo, 0, len(cats))
	for _, c := range cats {
		infos = append(infos, CategoryInfo{ID: c, Label: c.Label()})
	}
	respondOK(w, CategoriesResponse{Categories: infos})
}

func (h *Handlers) handleGetServiceTypes(w http.ResponseWriter, r *http.Request) {
	serviceTypes := []string{
		models.ServiceDominical,
		models.ServiceEvangelismo,
		models.ServiceMisionera,
		models.ServiceOracion,
		models.ServiceEstudio,
	}
	known := make(map[string]bool, len(serviceTypes))
	for _, t := range serviceTypes {
		known[t] = true
	}

	// Configured base types outside the built-in set still have to be
	// selectable, or the operator could never start such a service.
	baseTypes := h.Attendance.BaseServiceTypes()
	for _, t := range baseTypes {
		if !known[t] {
			serviceTypes = append(serviceTypes, t)
		}
	}

	respondOK(w, ServiceTypesResponse{
		ServiceTypes: serviceTypes,
		BaseTypes:    baseTypes,
		Default:      models.DefaultServiceType,
	})
}
