package remote

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"talent-engine/internal/domain"
)

// FieldMap is one row of the internal<->wire translation table for
// application records. The API speaks snake_case; the rest of the engine
// speaks the domain struct field names.
type FieldMap struct {
	Internal string
	Wire     string
}

// applicationPatchFields are the patchable fields that rename across the
// boundary. Fields absent from the table (and from the recommendation
// fallbacks) are not sent remotely.
var applicationPatchFields = []FieldMap{
	{Internal: "round1Feedback", Wire: "round1_feedback"},
	{Internal: "round2Feedback", Wire: "round2_feedback"},
	{Internal: "clientFeedback", Wire: "client_feedback"},
	{Internal: "screeningFeedback", Wire: "initial_screening"},
	{Internal: "status", Wire: "application_status"},
	{Internal: "interviewStatus", Wire: "interview_status"},
}

// recommendationFallbacks: when a patch carries only a recommendation and no
// full feedback payload, the API still wants the feedback column, so the
// recommendation is wrapped into the embedded-JSON form it uses.
var recommendationFallbacks = []struct {
	Recommendation string
	Wire           string
}{
	{Recommendation: "round1Recommendation", Wire: "round1_feedback"},
	{Recommendation: "round2Recommendation", Wire: "round2_feedback"},
	{Recommendation: "clientRecommendation", Wire: "client_feedback"},
}

// ApplicationPatchToWire translates an internal sparse patch into the shape
// the API's update endpoint expects.
func ApplicationPatchToWire(patch map[string]any) map[string]any {
	out := make(map[string]any, len(patch))
	for _, fm := range applicationPatchFields {
		if v, ok := patch[fm.Internal]; ok {
			out[fm.Wire] = v
		}
	}
	for _, rf := range recommendationFallbacks {
		if _, ok := out[rf.Wire]; ok {
			continue
		}
		if rec, ok := patch[rf.Recommendation].(string); ok && rec != "" {
			b, _ := json.Marshal(map[string]string{"recommendation": rec})
			out[rf.Wire] = string(b)
		}
	}
	return out
}

// decodeRecommendation pulls the recommendation out of an embedded-JSON
// feedback payload. Malformed or non-JSON content yields "", never an error:
// a bad feedback blob must not fail a whole read.
func decodeRecommendation(raw string) string {
	if raw == "" {
		return ""
	}
	var fb struct {
		Recommendation string `json:"recommendation"`
	}
	if err := json.Unmarshal([]byte(raw), &fb); err != nil {
		return ""
	}
	return fb.Recommendation
}

// flexString tolerates remote fields that arrive as either string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// wireApplication is the remote representation of a candidate.
type wireApplication struct {
	ID                 flexString `json:"id"`
	FullName           string     `json:"full_name"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	ContactNumber      string     `json:"contact_number"`
	Phone              string     `json:"phone"`
	InterestedPosition string     `json:"interested_position"`
	Role               string     `json:"role"`
	ApplicationStatus  string     `json:"application_status"`
	SubmittedAt        string     `json:"submitted_at"`
	AppliedAt          string     `json:"applied_at"`
	TotalExperience    flexString `json:"total_experience"`
	CurrentLocation    string     `json:"current_location"`
	ResumeURL          string     `json:"resume_url"`
	Round1Feedback     string     `json:"round1_feedback"`
	Round2Feedback     string     `json:"round2_feedback"`
	ClientFeedback     string     `json:"client_feedback"`
	InterviewStatus    string     `json:"interview_status"`
	InitialScreening   string     `json:"initial_screening"`
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// mapApplication turns a wire application into the internal Candidate shape,
// deriving the fields the API doesn't track directly.
func mapApplication(w wireApplication) domain.Candidate {
	c := domain.Candidate{
		ID:        string(w.ID),
		Name:      firstNonEmpty(w.FullName, w.Name, "Unknown"),
		Email:     w.Email,
		Phone:     firstNonEmpty(w.ContactNumber, w.Phone),
		Role:      firstNonEmpty(w.InterestedPosition, w.Role),
		Status:    firstNonEmpty(w.ApplicationStatus, "applied"),
		AppliedAt: firstNonEmpty(w.SubmittedAt, w.AppliedAt, time.Now().UTC().Format(time.RFC3339)),
		Location:  firstNonEmpty(w.CurrentLocation, "Remote"),
		Source:    "Guhatek API",
		ResumeURL: w.ResumeURL,

		Round1Feedback:       w.Round1Feedback,
		Round1Recommendation: decodeRecommendation(w.Round1Feedback),
		Round2Feedback:       w.Round2Feedback,
		Round2Recommendation: decodeRecommendation(w.Round2Feedback),
		ClientFeedback:       w.ClientFeedback,
		ClientRecommendation: decodeRecommendation(w.ClientFeedback),
		ScreeningFeedback:    w.InitialScreening,

		InterviewStatus: firstNonEmpty(w.InterviewStatus, "pending"),
	}

	if w.InterestedPosition != "" {
		c.DemandID = strings.ReplaceAll(strings.ToLower(w.InterestedPosition), " ", "-")
	} else {
		c.DemandID = "unknown"
	}

	c.Skills = []string{firstNonEmpty(w.InterestedPosition, "General")}

	if w.TotalExperience != "" {
		c.Experience = fmt.Sprintf("%s years", w.TotalExperience)
	} else {
		c.Experience = "External"
	}

	c.CurrentRound = 1
	if w.Round2Feedback != "" || c.Round1Recommendation == "proceed_to_round2" {
		c.CurrentRound = 2
	}

	return c
}

// applicationToWire encodes a new candidate for the insert endpoint.
func applicationToWire(c domain.Candidate) map[string]any {
	out := map[string]any{
		"full_name":           c.Name,
		"email":               c.Email,
		"contact_number":      c.Phone,
		"interested_position": c.Role,
		"application_status":  c.Status,
		"current_location":    c.Location,
		"resume_url":          c.ResumeURL,
	}
	if c.AppliedAt != "" {
		out["submitted_at"] = c.AppliedAt
	}
	return out
}
