package journey

import (
	"encoding/json"
	"time"
)

const (
	// MinStage and MaxStage bound the funnel ordinal accepted by ReportStageTransition.
	MinStage = 1
	MaxStage = 10

	newUserStageIndex = 1
	newUserStageName  = "new_user"
)

// Stage is a funnel checkpoint. It is a value type and is replaced wholesale
// on transition.
type Stage struct {
	Index      int
	Name       string
	AssignedAt time.Time
}

// NewStage creates a stage assigned at clock.Now().
// The index is not validated here.
func NewStage(index int, name string, clock Clock) Stage {
	return Stage{
		Index:      index,
		Name:       name,
		AssignedAt: clock.Now(),
	}
}

// NewUserStage returns the stage every session starts from.
func NewUserStage(clock Clock) Stage {
	return NewStage(newUserStageIndex, newUserStageName, clock)
}

// Equal reports whether both stages carry the same index, name and instant.
func (s Stage) Equal(o Stage) bool {
	return s.Index == o.Index && s.Name == o.Name && s.AssignedAt.Equal(o.AssignedAt)
}

type stageDoc struct {
	Ts    time.Time `json:"ts"`
	Stage int       `json:"stage"`
	Name  string    `json:"name"`
}

// MarshalJSON encodes the stage with the wire keys ts, stage and name.
func (s Stage) MarshalJSON() ([]byte, error) {
	return json.Marshal(stageDoc{Ts: s.AssignedAt, Stage: s.Index, Name: s.Name})
}

// stageInput mirrors stageDoc with optional fields so that absent keys can be
// told apart from zero values.
type stageInput struct {
	Ts    *time.Time `json:"ts"`
	Stage *int       `json:"stage"`
	Name  *string    `json:"name"`
}

// stage resolves the input against the new_user defaults.
func (in *stageInput) stage(clock Clock) Stage {
	st := NewUserStage(clock)
	if in == nil {
		return st
	}
	if in.Stage != nil {
		st.Index = *in.Stage
	}
	if in.Name != nil {
		st.Name = *in.Name
	}
	if in.Ts != nil {
		st.AssignedAt = *in.Ts
	}
	return st
}

// ParseStage decodes a stage document, falling back to the new_user defaults
// for every missing field.
func ParseStage(data []byte, clock Clock) (Stage, error) {
	var in stageInput
	if err := json.Unmarshal(data, &in); err != nil {
		return Stage{}, err
	}
	return in.stage(clock), nil
}
