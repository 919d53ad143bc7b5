package Slack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"Oryx/Models"
)

// SlackClient holds the Slack bot token and base URL
type SlackClient struct {
	Token   string
	Channel string
	BaseURL string
}

// SlackMessage represents a message payload
type SlackMessage struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
	Parse   string `json:"parse,omitempty"`
}

// SlackResponse represents the API response
type SlackResponse struct {
	OK      bool   `json:"ok"`
	Channel string `json:"channel,omitempty"`
	TS      string `json:"ts,omitempty"`
	Error   string `json:"error,omitempty"`
	Warning string `json:"warning,omitempty"`
}

// NewSlackClient creates a new Slack client.
// Required Bot Token Scopes:
// - chat:write (send messages)
// - chat:write.public (send to channels without being invited)
func NewSlackClient(token, channel string) *SlackClient {
	return &SlackClient{
		Token:   token,
		Channel: channel,
		BaseURL: "https://slack.com/api",
	}
}

// Enabled reports whether a token and channel are configured
func (s *SlackClient) Enabled() bool {
	return s != nil && s.Token != "" && s.Channel != ""
}

// SendMessage sends a message to the configured Slack channel
func (s *SlackClient) SendMessage(message string) (*SlackResponse, error) {
	payload := SlackMessage{
		Channel: s.Channel,
		Text:    message,
		Parse:   "full",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error marshaling JSON: %v", err)
	}

	url := fmt.Sprintf("%s/chat.postMessage", s.BaseURL)
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.Token))

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %v", err)
	}

	var slackResp SlackResponse
	if err := json.Unmarshal(body, &slackResp); err != nil {
		return nil, fmt.Errorf("error unmarshaling response: %v", err)
	}

	if !slackResp.OK {
		return &slackResp, fmt.Errorf("slack API error: %s", slackResp.Error)
	}

	return &slackResp, nil
}

// NotifyDispatch posts a dispatch decision to the operations channel.
// Failures are logged, never surfaced to the dispatcher.
func (s *SlackClient) NotifyDispatch(entry Models.DispatchLog) {
	if !s.Enabled() {
		return
	}

	message := FormatDispatchAlert(entry)
	if _, err := s.SendMessage(message); err != nil {
		log.Printf("Error sending dispatch alert to Slack: %v", err)
		return
	}

	log.Printf("Dispatch alert sent for %s", entry.PlateNo)
}

// FormatDispatchAlert builds the channel message for a dispatch decision
func FormatDispatchAlert(entry Models.DispatchLog) string {
	var message strings.Builder

	message.WriteString("🚨 **NEW DISPATCH**\n")
	message.WriteString(fmt.Sprintf("**Vehicle:** %s", entry.PlateNo))
	if entry.VehicleType != "" {
		message.WriteString(fmt.Sprintf(" (%s)", entry.VehicleType))
	}
	message.WriteString("\n")
	message.WriteString(fmt.Sprintf("**Incident:** %.5f, %.5f  \n", entry.TargetLat, entry.TargetLng))
	message.WriteString(fmt.Sprintf("**Maps:** https://maps.google.com/?q=%.5f,%.5f  \n", entry.TargetLat, entry.TargetLng))
	message.WriteString(fmt.Sprintf("**Distance:** %.2f km", entry.DistanceKm))

	if entry.CrossesRiskArea {
		message.WriteString(fmt.Sprintf(" (%.2f km risk-adjusted)\n", entry.AdjustedKm))
		message.WriteString("⚠️ **Approach crosses a high-risk area, advise the driver**\n")
	} else {
		message.WriteString("\n")
	}

	message.WriteString(fmt.Sprintf("*Dispatched at %s*", time.Now().Format("15:04, January 2")))

	return message.String()
}
