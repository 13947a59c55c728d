package booking

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Party is the compact user reference embedded in booking payloads.
type Party struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Name returns the party's display name.
func (p Party) Name() string {
	n := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if n == "" {
		return p.Email
	}
	return n
}

// GuardRef is the guard profile embedded in booking payloads.
type GuardRef struct {
	ID         string  `json:"id"`
	HourlyRate float64 `json:"hourly_rate"`
	User       *Party  `json:"user,omitempty"`
}

// Booking mirrors the backend's booking representation.
type Booking struct {
	ID                  string    `json:"id"`
	ClientID            string    `json:"client_id"`
	GuardID             string    `json:"guard_id"`
	Status              Status    `json:"status"`
	HourlyRate          float64   `json:"hourly_rate"`
	TotalAmount         float64   `json:"total_amount"`
	Location            string    `json:"location"`
	Period              Period    `json:"period"`
	SpecialInstructions string    `json:"special_instructions,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	Client              *Party    `json:"user,omitempty"`
	Guard               *GuardRef `json:"guardProfile,omitempty"`
}

// ClientName returns the client's display name or a placeholder.
func (b Booking) ClientName() string {
	if b.Client == nil {
		return "Unknown client"
	}
	return b.Client.Name()
}

// GuardName returns the guard's display name or a placeholder.
func (b Booking) GuardName() string {
	if b.Guard == nil || b.Guard.User == nil {
		return "Unassigned"
	}
	return b.Guard.User.Name()
}

// AllowedNext returns the statuses this booking may move to.
func (b Booking) AllowedNext() []Status { return AllowedNext(b.Status) }

// Period is a start/end pair. The backend encodes it as a JSON array,
// either directly or as a string containing the array ('["start","end"]').
type Period struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether both bounds are set and ordered.
func (p Period) Valid() bool {
	return !p.Start.IsZero() && !p.End.IsZero() && !p.End.Before(p.Start)
}

// Hours returns the duration in hours.
func (p Period) Hours() float64 {
	if !p.Valid() {
		return 0
	}
	return p.End.Sub(p.Start).Hours()
}

// ParsePeriod parses '["start","end"]' and the Postgres range form '["start","end")'.
func ParsePeriod(raw string) (Period, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return Period{}, nil
	}
	if strings.HasSuffix(raw, ")") {
		raw = strings.TrimSuffix(raw, ")") + "]"
	}
	var parts []string
	if err := json.Unmarshal([]byte(raw), &parts); err != nil {
		return Period{}, fmt.Errorf("parse period %q: %w", raw, err)
	}
	if len(parts) != 2 {
		return Period{}, fmt.Errorf("parse period %q: expected 2 bounds, got %d", raw, len(parts))
	}
	start, err := parseBound(parts[0])
	if err != nil {
		return Period{}, err
	}
	end, err := parseBound(parts[1])
	if err != nil {
		return Period{}, err
	}
	return Period{Start: start, End: end}, nil
}

var boundLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

func parseBound(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range boundLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse period bound %q: unrecognized time format", s)
}

// UnmarshalJSON accepts an array of two timestamps or a string holding one.
func (p *Period) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := ParsePeriod(s)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	}
	parsed, err := ParsePeriod(string(data))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarshalJSON writes the string-encoded array form.
func (p Period) MarshalJSON() ([]byte, error) {
	if p.Start.IsZero() && p.End.IsZero() {
		return []byte("null"), nil
	}
	inner, err := json.Marshal([]string{p.Start.Format(time.RFC3339), p.End.Format(time.RFC3339)})
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(inner))
}
