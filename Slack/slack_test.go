package Slack

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"Oryx/Models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessagePostsToConfiguredChannel(t *testing.T) {
	var got SlackMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat.postMessage", r.URL.Path)
		assert.Equal(t, "Bearer xoxb-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(SlackResponse{OK: true, TS: "1725.0001"})
	}))
	defer server.Close()

	client := NewSlackClient("xoxb-test", "C0DISPATCH")
	client.BaseURL = server.URL

	resp, err := client.SendMessage("test alert")
	require.NoError(t, err)
	assert.Equal(t, "1725.0001", resp.TS)
	assert.Equal(t, "C0DISPATCH", got.Channel)
	assert.Equal(t, "test alert", got.Text)
}

func TestSendMessageSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(SlackResponse{OK: false, Error: "channel_not_found"})
	}))
	defer server.Close()

	client := NewSlackClient("xoxb-test", "C0MISSING")
	client.BaseURL = server.URL

	_, err := client.SendMessage("test alert")
	assert.ErrorContains(t, err, "channel_not_found")
}

func TestEnabledRequiresTokenAndChannel(t *testing.T) {
	assert.False(t, NewSlackClient("", "").Enabled())
	assert.False(t, NewSlackClient("xoxb-test", "").Enabled())
	assert.True(t, NewSlackClient("xoxb-test", "C0DISPATCH").Enabled())

	var nilClient *SlackClient
	assert.False(t, nilClient.Enabled())
}

func TestFormatDispatchAlertFlagsRiskAreas(t *testing.T) {
	entry := Models.DispatchLog{
		TargetLng:       28.0473,
		TargetLat:       -26.2041,
		PlateNo:         "CA 123-456",
		VehicleType:     "tow truck",
		DistanceKm:      12.4,
		AdjustedKm:      18.6,
		CrossesRiskArea: true,
	}

	message := FormatDispatchAlert(entry)
	assert.Contains(t, message, "CA 123-456")
	assert.Contains(t, message, "tow truck")
	assert.Contains(t, message, "risk-adjusted")
	assert.Contains(t, message, "high-risk area")

	entry.CrossesRiskArea = false
	assert.NotContains(t, FormatDispatchAlert(entry), "high-risk")
}
