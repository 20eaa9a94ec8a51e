package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ZoneStatus is the state of a publisher zone.
type ZoneStatus string

const (
	ZoneActive   ZoneStatus = "active"
	ZoneInactive ZoneStatus = "inactive"
)

// ZoneID identifies a zone. The backend returns either a number or a UUID
// string, so both are accepted and kept in their textual form.
type ZoneID string

// UnmarshalJSON accepts a JSON number or string.
func (id *ZoneID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ZoneID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("zone id: %w", err)
	}
	*id = ZoneID(n.String())
	return nil
}

// MarshalJSON writes numeric ids as numbers and everything else as strings.
func (id ZoneID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ZoneID) String() string { return string(id) }

// ZoneIDPtr is a helper for optional zone references.
func ZoneIDPtr(s string) *ZoneID {
	id := ZoneID(s)
	return &id
}

// Zone is a publisher placement that serves campaigns.
type Zone struct {
	ID             ZoneID     `json:"id"`
	Name           string     `json:"name"`
	SiteURL        string     `json:"site_url"`
	TrafficBackURL string     `json:"traffic_back_url"`
	PostbackURL    string     `json:"postback_url"`
	Status         ZoneStatus `json:"status"`
	CreatedAt      int64      `json:"created_at,omitempty"`
}

// ZoneInput is the body of zone create and update requests.
type ZoneInput struct {
	Name           string     `json:"name" validate:"required,min=3,max=255"`
	SiteURL        string     `json:"site_url" validate:"required,url,max=2048"`
	TrafficBackURL string     `json:"traffic_back_url" validate:"omitempty,url,max=2048"`
	PostbackURL    string     `json:"postback_url" validate:"omitempty,url,max=2048"`
	Status         ZoneStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

// Input returns the editable fields of z.
func (z Zone) Input() ZoneInput {
	return ZoneInput{
		Name:           z.Name,
		SiteURL:        z.SiteURL,
		TrafficBackURL: z.TrafficBackURL,
		PostbackURL:    z.PostbackURL,
		Status:         z.Status,
	}
}
