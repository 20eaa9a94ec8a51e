package httpadapter

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"mesa-admin/internal/core/domain"
)

func campaignID(w http.ResponseWriter, r *http.Request, h *Handler) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeMessage(w, h.logger, http.StatusBadRequest, "invalid campaign id")
		return 0, false
	}
	return id, true
}

func (h *Handler) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	tenant := identityFrom(r.Context()).Namespace
	opts := listOptions(r)
	items, total, err := h.store.ListCampaigns(r.Context(), tenant, opts)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, listResult(items, total, opts))
}

func (h *Handler) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(w, r, h)
	if !ok {
		return
	}
	c, err := h.store.GetCampaign(r.Context(), identityFrom(r.Context()).Namespace, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, c)
}

func (h *Handler) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var in domain.CampaignInput
	if !h.decodeJSON(w, r, &in) {
		return
	}
	if err := h.checkRuleTypes(r, in.TargetingRules); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.store.CreateCampaign(r.Context(), identityFrom(r.Context()).Namespace, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, c)
}

// handleUpdateCampaign replaces the campaign's editable fields. An empty
// status keeps the current one; completed campaigns cannot be moved back to
// active or paused.
func (h *Handler) handleUpdateCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(w, r, h)
	if !ok {
		return
	}
	var in domain.CampaignInput
	if !h.decodeJSON(w, r, &in) {
		return
	}
	tenant := identityFrom(r.Context()).Namespace

	current, err := h.store.GetCampaign(r.Context(), tenant, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if current.Status == domain.CampaignCompleted && in.Status != "" && in.Status != domain.CampaignCompleted {
		h.writeError(w, r, domain.ErrCompletedCampaign)
		return
	}
	if err = h.checkRuleTypes(r, in.TargetingRules); err != nil {
		h.writeError(w, r, err)
		return
	}

	c, err := h.store.UpdateCampaign(r.Context(), tenant, id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, c)
}

func (h *Handler) handleDeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(w, r, h)
	if !ok {
		return
	}
	if err := h.store.DeleteCampaign(r.Context(), identityFrom(r.Context()).Namespace, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListTargetingRules(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(w, r, h)
	if !ok {
		return
	}
	rules, err := h.store.ListTargetingRules(r.Context(), identityFrom(r.Context()).Namespace, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, emptyIfNil(rules))
}

type targetingRulesRequest struct {
	TargetingRules []domain.TargetingRule `json:"targeting_rules" validate:"dive"`
}

// handleReplaceTargetingRules swaps the campaign's rules for the submitted
// set and returns what is stored afterwards.
func (h *Handler) handleReplaceTargetingRules(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(w, r, h)
	if !ok {
		return
	}
	var body targetingRulesRequest
	if !h.decodeJSON(w, r, &body) {
		return
	}
	if err := h.checkRuleTypes(r, body.TargetingRules); err != nil {
		h.writeError(w, r, err)
		return
	}
	tenant := identityFrom(r.Context()).Namespace
	if err := h.store.ReplaceTargetingRules(r.Context(), tenant, id, body.TargetingRules); err != nil {
		h.writeError(w, r, err)
		return
	}
	rules, err := h.store.ListTargetingRules(r.Context(), tenant, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, emptyIfNil(rules))
}

// checkRuleTypes rejects rules that reference an unknown type or repeat a
// type.
func (h *Handler) checkRuleTypes(r *http.Request, rules []domain.TargetingRule) error {
	if len(rules) == 0 {
		return nil
	}
	types, err := h.store.ListTargetingRuleTypes(r.Context())
	if err != nil {
		return err
	}
	known := make(map[int64]bool, len(types))
	for _, t := range types {
		known[t.ID] = true
	}
	seen := make(map[int64]bool, len(rules))
	fields := make(map[string]string)
	for i, rule := range rules {
		key := fmt.Sprintf("targeting_rules[%d].targeting_rule_type_id", i)
		switch {
		case !known[rule.TargetingRuleTypeID]:
			fields[key] = "is not a known targeting rule type"
		case seen[rule.TargetingRuleTypeID]:
			fields[key] = "is repeated"
		}
		seen[rule.TargetingRuleTypeID] = true
	}
	if len(fields) > 0 {
		return &domain.Error{Kind: domain.KindValidation, Message: "invalid targeting rules", Fields: fields}
	}
	return nil
}

func (h *Handler) handleListRuleTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.store.ListTargetingRuleTypes(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, emptyIfNil(types))
}

func (h *Handler) handleListPayoutRules(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(w, r, h)
	if !ok {
		return
	}
	rules, err := h.store.ListPayoutRules(r.Context(), identityFrom(r.Context()).Namespace, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, emptyIfNil(rules))
}

func (h *Handler) handleCreatePayoutRule(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(w, r, h)
	if !ok {
		return
	}
	var in domain.PayoutRuleInput
	if !h.decodeJSON(w, r, &in) {
		return
	}
	if in.ZoneID != nil && *in.ZoneID == "" {
		in.ZoneID = nil
	}
	rule, err := h.store.CreatePayoutRule(r.Context(), identityFrom(r.Context()).Namespace, id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, rule)
}

// handleDeletePayoutRule removes the rule of ?zone_id, or the global rule
// when no zone is given.
func (h *Handler) handleDeletePayoutRule(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(w, r, h)
	if !ok {
		return
	}
	var zone *domain.ZoneID
	if z := r.URL.Query().Get("zone_id"); z != "" {
		zone = domain.ZoneIDPtr(z)
	}
	if err := h.store.DeletePayoutRule(r.Context(), identityFrom(r.Context()).Namespace, id, zone); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
