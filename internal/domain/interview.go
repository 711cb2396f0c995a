package domain

// Interview is one scheduled meeting between a candidate and an interviewer.
type Interview struct {
	ID            string `json:"id"`
	CandidateID   string `json:"candidateId,omitempty"`
	CandidateName string `json:"candidateName,omitempty"`
	DemandID      string `json:"demandId,omitempty"`
	Interviewer   string `json:"interviewer,omitempty"`
	Round         int    `json:"round,omitempty"`
	ScheduledAt   string `json:"scheduledAt,omitempty"`
	MeetingLink   string `json:"meetingLink,omitempty"`
	Status        string `json:"status,omitempty"` // scheduled/completed/cancelled
	CreatedAt     string `json:"createdAt,omitempty"`
}
