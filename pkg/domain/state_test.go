package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{in: "COMPLETED", want: StatusCompleted},
		{in: "completed", want: StatusCompleted},
		{in: "Not Started", want: StatusNotStarted},
		{in: "in-progress", want: StatusInProgress},
		{in: "  Guest User ", want: StatusGuestUser},
		{in: "REGISTERED_USER", want: StatusRegisteredUser},
		{in: "done", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatus_StringAndCategory(t *testing.T) {
	assert.Equal(t, "In Progress", StatusInProgress.String())
	assert.Equal(t, "Registered User", StatusRegisteredUser.String())
	assert.Equal(t, "CUSTOM", Status("CUSTOM").String())

	assert.Equal(t, CategoryLifecycle, StatusCompleted.Category())
	assert.Equal(t, CategoryOutcome, StatusFailed.Category())
	assert.Equal(t, CategoryUser, StatusGuestUser.Category())
	assert.Equal(t, CategoryUnknown, Status("CUSTOM").Category())
}

func TestStatuses(t *testing.T) {
	all := Statuses()
	require.Len(t, all, 7)
	assert.Equal(t, StatusNotStarted, all[0])

	all[0] = StatusFailed
	assert.Equal(t, StatusNotStarted, Statuses()[0], "Statuses must return a copy")
}

func TestStatus_JSON(t *testing.T) {
	var body struct {
		State Status `json:"state"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"state":"Successful"}`), &body))
	assert.Equal(t, StatusSuccessful, body.State)

	out, err := json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"SUCCESSFUL"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"state":"maybe"}`), &body))
}
