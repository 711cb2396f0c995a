package domain

// Candidate is the internal shape of one application in the pipeline.
// Remote (snake_case) records are mapped into this by internal/remote;
// locally created records are stored in this shape directly.
type Candidate struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone,omitempty"`
	DemandID  string   `json:"demandId,omitempty"`
	Role      string   `json:"role,omitempty"`
	Status    string   `json:"status"` // applied/screening/selected/rejected/...
	AppliedAt string   `json:"appliedAt,omitempty"`
	Skills    []string `json:"skills,omitempty"`
	Experience string  `json:"experience,omitempty"`
	Location  string   `json:"location,omitempty"`
	Source    string   `json:"source,omitempty"`
	ResumeURL string   `json:"resumeUrl,omitempty"`

	// Interview feedback. The *Feedback fields hold the raw (usually JSON)
	// payload as stored remotely; the *Recommendation fields hold the decoded
	// recommendation, when the payload was decodable.
	Round1Feedback       string `json:"round1Feedback,omitempty"`
	Round1Recommendation string `json:"round1Recommendation,omitempty"`
	Round2Feedback       string `json:"round2Feedback,omitempty"`
	Round2Recommendation string `json:"round2Recommendation,omitempty"`
	ClientFeedback       string `json:"clientFeedback,omitempty"`
	ClientRecommendation string `json:"clientRecommendation,omitempty"`
	ScreeningFeedback    string `json:"screeningFeedback,omitempty"`

	CurrentRound    int    `json:"currentRound,omitempty"`
	InterviewStatus string `json:"interviewStatus,omitempty"`

	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// OverlayLocal copies the locally-authoritative fields of l onto c wherever l
// has a value. This is the closed allow-list for the candidate read merge:
// feedback, recommendations, round/interview progress and status are owned by
// the local document once set there; everything else stays remote.
func (c *Candidate) OverlayLocal(l Candidate) {
	if l.Round1Feedback != "" {
		c.Round1Feedback = l.Round1Feedback
	}
	if l.Round1Recommendation != "" {
		c.Round1Recommendation = l.Round1Recommendation
	}
	if l.Round2Feedback != "" {
		c.Round2Feedback = l.Round2Feedback
	}
	if l.Round2Recommendation != "" {
		c.Round2Recommendation = l.Round2Recommendation
	}
	if l.ClientFeedback != "" {
		c.ClientFeedback = l.ClientFeedback
	}
	if l.ClientRecommendation != "" {
		c.ClientRecommendation = l.ClientRecommendation
	}
	if l.ScreeningFeedback != "" {
		c.ScreeningFeedback = l.ScreeningFeedback
	}
	if l.CurrentRound != 0 {
		c.CurrentRound = l.CurrentRound
	}
	if l.InterviewStatus != "" {
		c.InterviewStatus = l.InterviewStatus
	}
	if l.Status != "" {
		c.Status = l.Status
	}
}
