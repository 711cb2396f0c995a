package remote

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationPatchToWireRenames(t *testing.T) {
	wire := ApplicationPatchToWire(map[string]any{
		"status":          "selected",
		"interviewStatus": "completed",
		"round1Feedback":  `{"recommendation":"proceed_to_round2"}`,
	})

	assert.Equal(t, "selected", wire["application_status"])
	assert.Equal(t, "completed", wire["interview_status"])
	assert.Equal(t, `{"recommendation":"proceed_to_round2"}`, wire["round1_feedback"])
	// internal names must not leak to the wire
	assert.NotContains(t, wire, "status")
	assert.NotContains(t, wire, "interviewStatus")
}

func TestApplicationPatchToWireWrapsRecommendation(t *testing.T) {
	wire := ApplicationPatchToWire(map[string]any{
		"round2Recommendation": "reject",
	})

	raw, ok := wire["round2_feedback"].(string)
	require.True(t, ok)

	var fb map[string]string
	require.NoError(t, json.Unmarshal([]byte(raw), &fb))
	assert.Equal(t, "reject", fb["recommendation"])
}

func TestApplicationPatchToWireFeedbackWinsOverRecommendation(t *testing.T) {
	wire := ApplicationPatchToWire(map[string]any{
		"clientFeedback":       `{"recommendation":"hire","notes":"strong"}`,
		"clientRecommendation": "reject",
	})

	// the full feedback payload must not be clobbered by the shorthand
	assert.Equal(t, `{"recommendation":"hire","notes":"strong"}`, wire["client_feedback"])
}

func TestDecodeRecommendation(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"valid", `{"recommendation":"proceed_to_round2"}`, "proceed_to_round2"},
		{"empty", "", ""},
		{"malformed", "not json", ""},
		{"missing field", `{"notes":"fine"}`, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, decodeRecommendation(tc.raw))
		})
	}
}

func TestMapApplicationDerivations(t *testing.T) {
	c := mapApplication(wireApplication{
		ID:                 "7",
		FullName:           "Asha Rao",
		Email:              "asha@example.com",
		ContactNumber:      "555-0101",
		InterestedPosition: "Backend Engineer",
		ApplicationStatus:  "screening",
		SubmittedAt:        "2026-01-05T10:00:00Z",
		TotalExperience:    "4",
		CurrentLocation:    "Pune",
		Round1Feedback:     `{"recommendation":"proceed_to_round2"}`,
	})

	assert.Equal(t, "7", c.ID)
	assert.Equal(t, "Asha Rao", c.Name)
	assert.Equal(t, "555-0101", c.Phone)
	assert.Equal(t, "backend-engineer", c.DemandID)
	assert.Equal(t, "screening", c.Status)
	assert.Equal(t, "4 years", c.Experience)
	assert.Equal(t, "Pune", c.Location)
	assert.Equal(t, "proceed_to_round2", c.Round1Recommendation)
	assert.Equal(t, 2, c.CurrentRound) // promoted by the round1 recommendation
	assert.Equal(t, "pending", c.InterviewStatus)
}

func TestMapApplicationDefaults(t *testing.T) {
	c := mapApplication(wireApplication{ID: "1", Email: "x@example.com"})

	assert.Equal(t, "Unknown", c.Name)
	assert.Equal(t, "applied", c.Status)
	assert.Equal(t, "unknown", c.DemandID)
	assert.Equal(t, "External", c.Experience)
	assert.Equal(t, "Remote", c.Location)
	assert.Equal(t, []string{"General"}, c.Skills)
	assert.Equal(t, 1, c.CurrentRound)
	assert.NotEmpty(t, c.AppliedAt)
}

func TestMapApplicationMalformedFeedbackIsSwallowed(t *testing.T) {
	c := mapApplication(wireApplication{
		ID:             "2",
		Round1Feedback: "not json",
	})

	assert.Equal(t, "not json", c.Round1Feedback) // raw payload kept
	assert.Empty(t, c.Round1Recommendation)       // but nothing decoded
	assert.Equal(t, 1, c.CurrentRound)
}

func TestMapApplicationNumericID(t *testing.T) {
	var w wireApplication
	require.NoError(t, json.Unmarshal([]byte(`{"id": 42, "total_experience": 3}`), &w))

	c := mapApplication(w)
	assert.Equal(t, "42", c.ID)
	assert.Equal(t, "3 years", c.Experience)
}

// Round-trip: every row of the patch table must land on a wire name that the
// wire struct decodes, so updates and reads stay in sync.
func TestPatchTableRoundTrip(t *testing.T) {
	patch := map[string]any{
		"round1Feedback":    `{"recommendation":"a"}`,
		"round2Feedback":    `{"recommendation":"b"}`,
		"clientFeedback":    `{"recommendation":"c"}`,
		"screeningFeedback": "ok",
		"status":            "selected",
		"interviewStatus":   "completed",
	}
	wireMap := ApplicationPatchToWire(patch)
	require.Len(t, wireMap, len(patch))

	b, err := json.Marshal(wireMap)
	require.NoError(t, err)
	var w wireApplication
	require.NoError(t, json.Unmarshal(b, &w))

	c := mapApplication(w)
	assert.Equal(t, patch["round1Feedback"], c.Round1Feedback)
	assert.Equal(t, patch["round2Feedback"], c.Round2Feedback)
	assert.Equal(t, patch["clientFeedback"], c.ClientFeedback)
	assert.Equal(t, "ok", c.ScreeningFeedback)
	assert.Equal(t, "selected", c.Status)
	assert.Equal(t, "completed", c.InterviewStatus)
}
