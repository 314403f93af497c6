package journey

import (
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"time"
)

const (
	// ProtocolVersion is the wire protocol version stamped on every document.
	ProtocolVersion = "1.1.0"

	// MaxSequenceLength caps the number of tokens kept in Session.EventSequence.
	MaxSequenceLength = 100

	// SessionTailType tags session tail documents.
	SessionTailType = "stail"
)

// Session is one bounded episode of application usage.
// It is owned by a Journey while active; stores and reporters receive copies.
type Session struct {
	ID        string
	AccountID string
	AppID     string
	Version   string
	IsRelease bool

	// Start and End bound this session instance. Since is the start of the
	// session chain and is carried over across restarts.
	Start time.Time
	End   time.Time
	Since time.Time

	FirstLaunch bool

	// PrevStage is inherited from the previous session; NewStage is the
	// highest stage reached so far.
	PrevStage Stage
	NewStage  Stage

	HasError bool
	HasCrash bool

	EventCounts   map[string]int
	EventSequence []string
}

// NewSession creates a session starting at start with empty statistics.
func NewSession(id, accountID, appID, version string, isRelease bool, start time.Time, clock Clock) *Session {
	return &Session{
		ID:            id,
		AccountID:     accountID,
		AppID:         appID,
		Version:       version,
		IsRelease:     isRelease,
		Start:         start,
		End:           start,
		Since:         start,
		PrevStage:     NewUserStage(clock),
		NewStage:      NewUserStage(clock),
		EventCounts:   make(map[string]int),
		EventSequence: make([]string, 0),
	}
}

// addEvent counts the event and appends it to the sequence.
// Consecutive collapsible events of the same name occupy a single
// "(name)" token. Nothing is appended once the sequence is full.
func (s *Session) addEvent(name string, collapsible bool) {
	if s.EventCounts == nil {
		s.EventCounts = make(map[string]int)
	}
	s.EventCounts[name]++

	if len(s.EventSequence) >= MaxSequenceLength {
		return
	}

	token := name
	if collapsible {
		token = "(" + name + ")"
	}
	if collapsible && len(s.EventSequence) > 0 && s.EventSequence[len(s.EventSequence)-1] == token {
		return
	}
	s.EventSequence = append(s.EventSequence, token)
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.EventCounts = maps.Clone(s.EventCounts)
	if c.EventCounts == nil {
		c.EventCounts = make(map[string]int)
	}
	c.EventSequence = slices.Clone(s.EventSequence)
	if c.EventSequence == nil {
		c.EventSequence = make([]string, 0)
	}
	return &c
}

// Equal reports full structural equality. Timestamps are compared as instants.
func (s *Session) Equal(o *Session) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.ID == o.ID &&
		s.AccountID == o.AccountID &&
		s.AppID == o.AppID &&
		s.Version == o.Version &&
		s.IsRelease == o.IsRelease &&
		s.Start.Equal(o.Start) &&
		s.End.Equal(o.End) &&
		s.Since.Equal(o.Since) &&
		s.FirstLaunch == o.FirstLaunch &&
		s.PrevStage.Equal(o.PrevStage) &&
		s.NewStage.Equal(o.NewStage) &&
		s.HasError == o.HasError &&
		s.HasCrash == o.HasCrash &&
		maps.Equal(s.EventCounts, o.EventCounts) &&
		slices.Equal(s.EventSequence, o.EventSequence)
}

type sessionDoc struct {
	T           string         `json:"t"`
	V           string         `json:"v"`
	ID          string         `json:"id"`
	AccountID   string         `json:"acc"`
	AppID       string         `json:"aid"`
	Version     string         `json:"version"`
	IsRelease   bool           `json:"is_release"`
	Start       time.Time      `json:"start"`
	End         time.Time      `json:"end"`
	Since       time.Time      `json:"since"`
	FirstLaunch bool           `json:"fst_launch"`
	PrevStage   Stage          `json:"prev_stage"`
	NewStage    Stage          `json:"new_stage"`
	HasError    bool           `json:"has_error"`
	HasCrash    bool           `json:"has_crash"`
	EventCounts map[string]int `json:"evts"`
	EventSeq    []string       `json:"evt_seq"`
}

// MarshalJSON encodes the session as a "stail" document.
func (s *Session) MarshalJSON() ([]byte, error) {
	doc := sessionDoc{
		T:           SessionTailType,
		V:           ProtocolVersion,
		ID:          s.ID,
		AccountID:   s.AccountID,
		AppID:       s.AppID,
		Version:     s.Version,
		IsRelease:   s.IsRelease,
		Start:       s.Start,
		End:         s.End,
		Since:       s.Since,
		FirstLaunch: s.FirstLaunch,
		PrevStage:   s.PrevStage,
		NewStage:    s.NewStage,
		HasError:    s.HasError,
		HasCrash:    s.HasCrash,
		EventCounts: s.EventCounts,
		EventSeq:    s.EventSequence,
	}
	if doc.EventCounts == nil {
		doc.EventCounts = map[string]int{}
	}
	if doc.EventSeq == nil {
		doc.EventSeq = []string{}
	}
	return json.Marshal(doc)
}

type sessionInput struct {
	ID          *string        `json:"id"`
	AccountID   *string        `json:"acc"`
	AppID       *string        `json:"aid"`
	Version     *string        `json:"version"`
	IsRelease   *bool          `json:"is_release"`
	Start       *time.Time     `json:"start"`
	End         *time.Time     `json:"end"`
	Since       *time.Time     `json:"since"`
	FirstLaunch *bool          `json:"fst_launch"`
	PrevStage   *stageInput    `json:"prev_stage"`
	NewStage    *stageInput    `json:"new_stage"`
	HasError    *bool          `json:"has_error"`
	HasCrash    *bool          `json:"has_crash"`
	EventCounts map[string]int `json:"evts"`
	EventSeq    []string       `json:"evt_seq"`
}

// ParseSession decodes a "stail" document. Missing fields take their
// defaults: a fresh id from ids, empty strings, false flags, new_user stages
// and empty statistics.
//
// The presence of "since" alone decides where all three timestamps come from:
// without it since, start and end are all set to clock.Now() even if start
// and end are present. With it, start and end are required.
func ParseSession(data []byte, clock Clock, ids IDGenerator) (*Session, error) {
	var in sessionInput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, errors.Join(ErrMalformedSession, err)
	}

	id := ids.NewID()
	if in.ID != nil {
		id = *in.ID
	}

	var since, start, end time.Time
	if in.Since != nil {
		if in.Start == nil || in.End == nil {
			return nil, errors.Join(ErrMalformedSession, errors.New("start and end are required when since is set"))
		}
		since, start, end = *in.Since, *in.Start, *in.End
	} else {
		now := clock.Now()
		since, start, end = now, now, now
	}

	s := NewSession(id, deref(in.AccountID), deref(in.AppID), deref(in.Version), deref(in.IsRelease), start, clock)
	s.End = end
	s.Since = since
	s.FirstLaunch = deref(in.FirstLaunch)
	s.HasError = deref(in.HasError)
	s.HasCrash = deref(in.HasCrash)
	s.PrevStage = in.PrevStage.stage(clock)
	s.NewStage = in.NewStage.stage(clock)
	if in.EventCounts != nil {
		s.EventCounts = in.EventCounts
	}
	if in.EventSeq != nil {
		s.EventSequence = in.EventSeq
	}
	return s, nil
}

func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
