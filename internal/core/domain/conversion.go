package domain

import "time"

// Conversion is a recorded postback for an ad event. CreatedAt arrives in
// epoch seconds, unlike campaign dates which use milliseconds; use Time to
// get a normalised value.
type Conversion struct {
	ID        int64  `json:"id,omitempty"`
	AdEventID string `json:"ad_event_id"`
	ClickID   string `json:"click_id"`
	Payload   string `json:"payload"`
	CreatedAt int64  `json:"created_at"`
}

// Time returns the conversion's creation time.
func (c Conversion) Time() time.Time {
	return EpochTime(c.CreatedAt)
}
