package domain

// SyncState reports how much of the tenant has been pushed to the edge KV
// store.
type SyncState struct {
	LastSyncedAt    *int64 `json:"last_synced_at"`
	CampaignsSynced int64  `json:"campaigns_synced"`
	ZonesSynced     int64  `json:"zones_synced"`
	Pending         int64  `json:"pending"`
}
