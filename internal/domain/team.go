package domain

import "time"

// Team statuses stored on the team document.
const (
	TeamStatusOpen   = "open"
	TeamStatusClosed = "closed"
	TeamStatusFull   = "full"
)

// Team is a roster for one hackathon. Invariants: LeaderID is always present
// in Members, Members has no duplicates, and a team with no members does not
// exist (removing the last member deletes the document).
type Team struct {
	ID          string    `json:"id"`
	HackathonID string    `json:"hackathon_id"`
	Name        string    `json:"name"`
	LeaderID    string    `json:"leader_id"`
	Members     []string  `json:"members"`
	LookingFor  []string  `json:"looking_for"`
	Status      string    `json:"status"`
	ProjectRepo string    `json:"project_repo,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasMember reports whether the user id is on the roster.
func (t *Team) HasMember(userID string) bool {
	for _, m := range t.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// Hackathon is created independently and never mutated by this system.
type Hackathon struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Location    string    `json:"location"`
	Tags        []string  `json:"tags"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
