package domain

// Demand is one open position ("job opening" on the remote side).
type Demand struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Role       string   `json:"role,omitempty"`
	Status     string   `json:"status,omitempty"` // open/on_hold/closed
	Openings   int      `json:"openings,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	Location   string   `json:"location,omitempty"`
	Priority   string   `json:"priority,omitempty"`
	ClientName string   `json:"clientName,omitempty"`
	CreatedAt  string   `json:"createdAt,omitempty"`
}
