package httpadapter

import (
	"net/http"
	"strconv"
)

func (h *Handler) handleSyncState(w http.ResponseWriter, r *http.Request) {
	st, err := h.store.SyncState(r.Context(), identityFrom(r.Context()).Namespace)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, st)
}

// handleSyncCampaign pushes one campaign to the edge. The devserver has no
// edge, so it only records the sync time.
func (h *Handler) handleSyncCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(w, r, h)
	if !ok {
		return
	}
	tenant := identityFrom(r.Context()).Namespace
	if _, err := h.store.GetCampaign(r.Context(), tenant, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.store.MarkSynced(r.Context(), tenant, "campaign", strconv.FormatInt(id, 10), h.now()); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSyncZone(w http.ResponseWriter, r *http.Request) {
	tenant := identityFrom(r.Context()).Namespace
	z, err := h.store.GetZone(r.Context(), tenant, zoneID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err = h.store.MarkSynced(r.Context(), tenant, "zone", z.ID.String(), h.now()); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
