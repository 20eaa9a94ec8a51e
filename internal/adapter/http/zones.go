package httpadapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"mesa-admin/internal/core/domain"
)

func zoneID(r *http.Request) domain.ZoneID {
	return domain.ZoneID(chi.URLParam(r, "id"))
}

func (h *Handler) handleListZones(w http.ResponseWriter, r *http.Request) {
	opts := listOptions(r)
	items, total, err := h.store.ListZones(r.Context(), identityFrom(r.Context()).Namespace, opts)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, listResult(items, total, opts))
}

func (h *Handler) handleGetZone(w http.ResponseWriter, r *http.Request) {
	z, err := h.store.GetZone(r.Context(), identityFrom(r.Context()).Namespace, zoneID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, z)
}

func (h *Handler) handleCreateZone(w http.ResponseWriter, r *http.Request) {
	var in domain.ZoneInput
	if !h.decodeJSON(w, r, &in) {
		return
	}
	z, err := h.store.CreateZone(r.Context(), identityFrom(r.Context()).Namespace, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, z)
}

func (h *Handler) handleUpdateZone(w http.ResponseWriter, r *http.Request) {
	var in domain.ZoneInput
	if !h.decodeJSON(w, r, &in) {
		return
	}
	z, err := h.store.UpdateZone(r.Context(), identityFrom(r.Context()).Namespace, zoneID(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, z)
}

// handleDeleteZone only deletes inactive zones.
func (h *Handler) handleDeleteZone(w http.ResponseWriter, r *http.Request) {
	tenant := identityFrom(r.Context()).Namespace
	z, err := h.store.GetZone(r.Context(), tenant, zoneID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if z.Status == domain.ZoneActive {
		h.writeError(w, r, domain.ErrZoneActive)
		return
	}
	if err = h.store.DeleteZone(r.Context(), tenant, z.ID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
