package journey_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/journey/pkg/journey"
)

func TestNewSession(t *testing.T) {
	clock := newClock(now)
	s := journey.NewSession(sessionID, accountID, appID, version, releaseBuild, lastYear, clock)

	assert.Equal(t, lastYear, s.Start)
	assert.Equal(t, lastYear, s.End)
	assert.Equal(t, lastYear, s.Since)
	assert.True(t, journey.NewUserStage(clock).Equal(s.PrevStage))
	assert.True(t, journey.NewUserStage(clock).Equal(s.NewStage))
	assert.NotNil(t, s.EventCounts)
	assert.Empty(t, s.EventCounts)
	assert.NotNil(t, s.EventSequence)
	assert.Empty(t, s.EventSequence)
	assert.False(t, s.FirstLaunch || s.HasError || s.HasCrash)
}

func TestSession_MarshalJSON(t *testing.T) {
	clock := newClock(now)
	s := journey.NewSession(sessionID, accountID, appID, version, releaseBuild, now, clock)
	s.NewStage = journey.NewStage(3, "checkout", clock)
	s.EventCounts["click"] = 2
	s.EventSequence = []string{"click", "(scroll)", "click"}
	s.HasError = true

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "stail", doc["t"])
	assert.Equal(t, "1.1.0", doc["v"])
	assert.Equal(t, sessionID, doc["id"])
	assert.Equal(t, accountID, doc["acc"])
	assert.Equal(t, appID, doc["aid"])
	assert.Equal(t, version, doc["version"])
	assert.Equal(t, true, doc["is_release"])
	assert.Equal(t, "2022-01-01T00:00:00Z", doc["start"])
	assert.Equal(t, "2022-01-01T00:00:00Z", doc["end"])
	assert.Equal(t, "2022-01-01T00:00:00Z", doc["since"])
	assert.Equal(t, false, doc["fst_launch"])
	assert.Equal(t, true, doc["has_error"])
	assert.Equal(t, false, doc["has_crash"])
	assert.Equal(t, map[string]any{"click": float64(2)}, doc["evts"])
	assert.Equal(t, []any{"click", "(scroll)", "click"}, doc["evt_seq"])
	assert.Equal(t, map[string]any{"ts": "2022-01-01T00:00:00Z", "stage": float64(3), "name": "checkout"}, doc["new_stage"])
	assert.Equal(t, map[string]any{"ts": "2022-01-01T00:00:00Z", "stage": float64(1), "name": "new_user"}, doc["prev_stage"])
}

func TestSession_MarshalJSON_EmptyCollections(t *testing.T) {
	s := &journey.Session{ID: "x"}

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"evts":{}`)
	assert.Contains(t, string(data), `"evt_seq":[]`)
}

func TestSession_RoundTrip(t *testing.T) {
	clock := newClock(now)
	offset := time.FixedZone("UTC+3", 3*60*60)

	full := journey.NewSession(sessionID, accountID, appID, version, releaseBuild, now, clock)
	full.End = now.Add(90 * time.Minute)
	full.Since = lastYear
	full.FirstLaunch = true
	full.HasError = true
	full.HasCrash = true
	full.PrevStage = journey.NewStage(2, "engaged", newClock(lastYear))
	full.NewStage = journey.NewStage(7, "paid", newClock(now.Add(time.Hour+123*time.Nanosecond)))
	full.EventCounts = map[string]int{"click": 3, "scroll": 10}
	full.EventSequence = []string{"click", "(scroll)", "click", "click"}

	withOffset := journey.NewSession("other", "", "", "", false, time.Date(2022, 3, 4, 5, 6, 7, 8, offset), clock)

	tests := []struct {
		name    string
		session *journey.Session
	}{
		{"fully populated", full},
		{"freshly created", journey.NewSession(sessionID, accountID, appID, version, false, now, clock)},
		{"non-utc offset", withOffset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.session)
			require.NoError(t, err)

			got, err := journey.ParseSession(data, newClock(later), fixedIDs("generated"))
			require.NoError(t, err)
			assertSession(t, tt.session, got)
		})
	}
}

func TestParseSession_Defaults(t *testing.T) {
	clock := newClock(now)

	got, err := journey.ParseSession([]byte(`{}`), clock, fixedIDs("generated"))
	require.NoError(t, err)

	expected := journey.NewSession("generated", "", "", "", false, now, clock)
	assertSession(t, expected, got)
}

func TestParseSession_SinceGatesAllTimestamps(t *testing.T) {
	clock := newClock(now)

	t.Run("start and end are discarded without since", func(t *testing.T) {
		doc := `{"id":"s1","start":"2021-01-01T00:00:00Z","end":"2021-01-01T01:00:00Z"}`

		got, err := journey.ParseSession([]byte(doc), clock, fixedIDs("generated"))
		require.NoError(t, err)

		assert.Equal(t, now, got.Start)
		assert.Equal(t, now, got.End)
		assert.Equal(t, now, got.Since)
	})

	t.Run("since requires start and end", func(t *testing.T) {
		doc := `{"id":"s1","since":"2021-01-01T00:00:00Z","start":"2021-01-01T00:00:00Z"}`

		_, err := journey.ParseSession([]byte(doc), clock, fixedIDs("generated"))
		assert.ErrorIs(t, err, journey.ErrMalformedSession)
	})

	t.Run("all three present", func(t *testing.T) {
		doc := `{"since":"2020-01-01T00:00:00Z","start":"2021-01-01T00:00:00Z","end":"2021-01-01T01:00:00Z"}`

		got, err := journey.ParseSession([]byte(doc), clock, fixedIDs("generated"))
		require.NoError(t, err)

		assert.Equal(t, "generated", got.ID)
		assert.True(t, got.Since.Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))
		assert.True(t, got.Start.Equal(lastYear))
		assert.True(t, got.End.Equal(lastYear.Add(time.Hour)))
	})
}

func TestParseSession_Malformed(t *testing.T) {
	clock := newClock(now)

	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{"id":`},
		{"bad timestamp", `{"since":"yesterday","start":"x","end":"y"}`},
		{"wrong type", `{"is_release":"yes"}`},
		{"bad stage", `{"new_stage":{"stage":"three"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := journey.ParseSession([]byte(tt.doc), clock, fixedIDs("generated"))
			assert.ErrorIs(t, err, journey.ErrMalformedSession)
		})
	}
}

func TestSession_Clone(t *testing.T) {
	clock := newClock(now)
	s := journey.NewSession(sessionID, accountID, appID, version, releaseBuild, now, clock)
	s.EventCounts["a"] = 1
	s.EventSequence = append(s.EventSequence, "a")

	c := s.Clone()
	assertSession(t, s, c)

	c.EventCounts["a"] = 2
	c.EventSequence[0] = "b"
	assert.Equal(t, 1, s.EventCounts["a"])
	assert.Equal(t, "a", s.EventSequence[0])

	var nilSession *journey.Session
	assert.Nil(t, nilSession.Clone())
}

func TestSession_Equal(t *testing.T) {
	clock := newClock(now)
	a := journey.NewSession(sessionID, accountID, appID, version, releaseBuild, now, clock)
	b := a.Clone()
	assert.True(t, a.Equal(b))

	b.EventCounts["x"] = 1
	assert.False(t, a.Equal(b))

	b = a.Clone()
	b.NewStage = journey.NewStage(2, "two", clock)
	assert.False(t, a.Equal(b))

	b = a.Clone()
	b.End = b.End.Add(time.Nanosecond)
	assert.False(t, a.Equal(b))

	assert.False(t, a.Equal(nil))
}
