package httpadapter

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mesa-admin/internal/core/domain"
)

// defaultTenant is served for tenants that never saved settings.
func defaultTenant(name string) domain.TenantSettings {
	return domain.TenantSettings{CompanyName: name, Timezone: "UTC"}
}

func (h *Handler) tenantSettings(r *http.Request, name string) (*domain.TenantSettings, error) {
	s, err := h.store.GetTenant(r.Context(), name)
	if errors.Is(err, domain.ErrNotFound) {
		d := defaultTenant(name)
		return &d, nil
	}
	return s, err
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, identityFrom(r.Context()))
}

func (h *Handler) handleGetTenant(w http.ResponseWriter, r *http.Request) {
	s, err := h.tenantSettings(r, identityFrom(r.Context()).Namespace)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, s)
}

func (h *Handler) handleUpdateTenant(w http.ResponseWriter, r *http.Request) {
	var in domain.TenantSettings
	if !h.decodeJSON(w, r, &in) {
		return
	}
	if err := h.store.UpdateTenant(r.Context(), identityFrom(r.Context()).Namespace, in); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, in)
}

// handlePublicTenant serves branding to callers that have not logged in.
func (h *Handler) handlePublicTenant(w http.ResponseWriter, r *http.Request) {
	s, err := h.tenantSettings(r, h.publicTenant)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, domain.PublicTenant{
		CompanyName:    s.CompanyName,
		PrimaryColor:   s.PrimaryColor,
		SecondaryColor: s.SecondaryColor,
	})
}

func (h *Handler) handleListKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.store.ListKeys(r.Context(), identityFrom(r.Context()).Namespace)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, emptyIfNil(keys))
}

func (h *Handler) handleCreateKey(w http.ResponseWriter, r *http.Request) {
	var in domain.APIKeyInput
	if !h.decodeJSON(w, r, &in) {
		return
	}
	tenant := identityFrom(r.Context()).Namespace
	key, err := h.issuer.Issue(tenant, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err = h.store.CreateKey(r.Context(), tenant, key); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, key)
}

func (h *Handler) handleRevokeKey(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if err := h.store.DeleteKey(r.Context(), identityFrom(r.Context()).Namespace, token); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
