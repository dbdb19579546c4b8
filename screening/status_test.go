package screening_test

import (
	"encoding/json"
	"testing"

	"github.com/jrsteele09/cares-session/internal/errors"
	"github.com/jrsteele09/cares-session/screening"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	cases := map[string]screening.Status{
		"Pending":     screening.StatusPending,
		" approved ":  screening.StatusApproved,
		"In Progress": screening.StatusInProgress,
		"in_progress": screening.StatusInProgress,
		"INPROGRESS":  screening.StatusInProgress,
		"Complete":    screening.StatusComplete,
		"completed":   screening.StatusComplete,
	}
	for in, want := range cases {
		got, err := screening.ParseStatus(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := screening.ParseStatus("Rejected")
	require.True(t, errors.Is(err, errors.ErrUnknownStatus))

	_, err = screening.ParseStatus("")
	require.Error(t, err)
}

func TestStatus_Step(t *testing.T) {
	for i, s := range screening.Statuses() {
		step, ok := s.Step()
		require.True(t, ok)
		require.Equal(t, i, step)
	}

	for _, s := range []screening.Status{"", "Lost", "in_progress"} {
		_, ok := s.Step()
		require.False(t, ok, s)
	}
}

func TestStatus_JSON(t *testing.T) {
	var payload struct {
		Status screening.Status `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"status":"in_progress"}`), &payload))
	require.Equal(t, screening.StatusInProgress, payload.Status)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	require.JSONEq(t, `{"status":"In Progress"}`, string(out))

	require.Error(t, json.Unmarshal([]byte(`{"status":"Unknown"}`), &payload))

	_, err = json.Marshal(screening.Status("bogus"))
	require.Error(t, err)
}
