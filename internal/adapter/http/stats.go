package httpadapter

import (
	"net/http"
	"strconv"
	"time"

	"mesa-admin/internal/core/domain"
)

const defaultStatsWindow = 7 * 24 * time.Hour

// handleStats returns delivery stats between `from` and `to` (epoch
// seconds or milliseconds), optionally narrowed to `campaign_id` and
// `zone_id` and folded by `group_by` (date, campaign or zone). Without a
// period it reports the last seven days.
func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	var (
		q   = r.URL.Query()
		now = h.now()
		req = domain.StatsQuery{
			From:    now.Add(-defaultStatsWindow).UnixMilli(),
			To:      now.UnixMilli(),
			GroupBy: q.Get("group_by"),
		}
	)

	for name, dst := range map[string]*int64{"from": &req.From, "to": &req.To} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeMessage(w, h.logger, http.StatusBadRequest, "invalid '"+name+"' timestamp")
			return
		}
		*dst = domain.NormalizeEpoch(ms)
	}
	if req.From > req.To {
		writeMessage(w, h.logger, http.StatusBadRequest, "'from' must not be after 'to'")
		return
	}

	if cid := q.Get("campaign_id"); cid != "" {
		id, err := strconv.ParseInt(cid, 10, 64)
		if err != nil {
			writeMessage(w, h.logger, http.StatusBadRequest, "invalid campaign_id")
			return
		}
		req.CampaignID = &id
	}
	if zid := q.Get("zone_id"); zid != "" {
		req.ZoneID = domain.ZoneIDPtr(zid)
	}
	switch req.GroupBy {
	case "", "date", "campaign", "zone":
	default:
		writeMessage(w, h.logger, http.StatusBadRequest, "group_by must be date, campaign or zone")
		return
	}

	stats, err := h.store.Stats(r.Context(), identityFrom(r.Context()).Namespace, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	stats.Items = emptyIfNil(stats.Items)
	writeJSON(w, h.logger, http.StatusOK, stats)
}

// handleListConversions lists conversions, newest first. `from` and `to`
// bound created_at and `search` matches a click or ad event id.
func (h *Handler) handleListConversions(w http.ResponseWriter, r *http.Request) {
	opts := listOptions(r, "from", "to")
	items, total, err := h.store.ListConversions(r.Context(), identityFrom(r.Context()).Namespace, opts)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, listResult(items, total, opts))
}
