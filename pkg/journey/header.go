package journey

import (
	"encoding/json"
	"time"
)

// SessionHeadType tags session header documents.
const SessionHeadType = "shead"

// SessionHeader summarises the start conditions of a session. It is built
// once by Initialize, reported once and discarded; there is no decode path.
type SessionHeader struct {
	ID        string
	AccountID string
	AppID     string
	Version   string
	IsRelease bool
	Since     time.Time
	Start     time.Time

	FirstLaunch            bool
	FirstLaunchThisHour    bool
	FirstLaunchToday       bool
	FirstLaunchThisMonth   bool
	FirstLaunchThisYear    bool
	FirstLaunchThisVersion bool

	PrevStage Stage
}

// NewSessionHeader allocates a header with a brand-new id and start = since = now.
func NewSessionHeader(accountID, appID, version string, isRelease bool, clock Clock, ids IDGenerator) *SessionHeader {
	now := clock.Now()
	return &SessionHeader{
		ID:        ids.NewID(),
		AccountID: accountID,
		AppID:     appID,
		Version:   version,
		IsRelease: isRelease,
		Since:     now,
		Start:     now,
		PrevStage: NewUserStage(clock),
	}
}

// markFirstLaunchEver raises every first-launch flag.
func (h *SessionHeader) markFirstLaunchEver() {
	h.FirstLaunch = true
	h.FirstLaunchThisHour = true
	h.FirstLaunchToday = true
	h.FirstLaunchThisMonth = true
	h.FirstLaunchThisYear = true
	h.FirstLaunchThisVersion = true
}

// Equal reports full structural equality.
func (h *SessionHeader) Equal(o *SessionHeader) bool {
	if h == nil || o == nil {
		return h == o
	}
	return h.ID == o.ID &&
		h.AccountID == o.AccountID &&
		h.AppID == o.AppID &&
		h.Version == o.Version &&
		h.IsRelease == o.IsRelease &&
		h.Since.Equal(o.Since) &&
		h.Start.Equal(o.Start) &&
		h.FirstLaunch == o.FirstLaunch &&
		h.FirstLaunchThisHour == o.FirstLaunchThisHour &&
		h.FirstLaunchToday == o.FirstLaunchToday &&
		h.FirstLaunchThisMonth == o.FirstLaunchThisMonth &&
		h.FirstLaunchThisYear == o.FirstLaunchThisYear &&
		h.FirstLaunchThisVersion == o.FirstLaunchThisVersion &&
		h.PrevStage.Equal(o.PrevStage)
}

type headerDoc struct {
	T                      string    `json:"t"`
	V                      string    `json:"v"`
	ID                     string    `json:"id"`
	AccountID              string    `json:"acc"`
	AppID                  string    `json:"aid"`
	Version                string    `json:"version"`
	IsRelease              bool      `json:"is_release"`
	Since                  time.Time `json:"since"`
	Start                  time.Time `json:"start"`
	FirstLaunch            bool      `json:"fst_launch"`
	FirstLaunchThisHour    bool      `json:"fst_launch_hour"`
	FirstLaunchToday       bool      `json:"fst_launch_day"`
	FirstLaunchThisMonth   bool      `json:"fst_launch_month"`
	FirstLaunchThisYear    bool      `json:"fst_launch_year"`
	FirstLaunchThisVersion bool      `json:"fst_launch_version"`
	PrevStage              Stage     `json:"prev_stage"`
}

// MarshalJSON encodes the header as a "shead" document.
func (h *SessionHeader) MarshalJSON() ([]byte, error) {
	return json.Marshal(headerDoc{
		T:                      SessionHeadType,
		V:                      ProtocolVersion,
		ID:                     h.ID,
		AccountID:              h.AccountID,
		AppID:                  h.AppID,
		Version:                h.Version,
		IsRelease:              h.IsRelease,
		Since:                  h.Since,
		Start:                  h.Start,
		FirstLaunch:            h.FirstLaunch,
		FirstLaunchThisHour:    h.FirstLaunchThisHour,
		FirstLaunchToday:       h.FirstLaunchToday,
		FirstLaunchThisMonth:   h.FirstLaunchThisMonth,
		FirstLaunchThisYear:    h.FirstLaunchThisYear,
		FirstLaunchThisVersion: h.FirstLaunchThisVersion,
		PrevStage:              h.PrevStage,
	})
}
