// Package match computes deterministic profile-to-job compatibility
// scores and ranks job sets by them.
package match

// Profile describes the candidate. Every field is optional; an absent
// field removes that factor's contribution to the score, it never
// penalizes.
type Profile struct {
	Name              string `json:"name,omitempty"`
	Purpose           string `json:"purpose,omitempty"`
	CurrentRole       string `json:"currentRole,omitempty"`
	DesiredRole       string `json:"desiredRole,omitempty"`
	Experience        string `json:"experience,omitempty"`
	Location          string `json:"location,omitempty"`
	WorkMode          string `json:"workMode,omitempty"`
	PreferredLocation string `json:"preferredLocation,omitempty"`
	Skills            string `json:"skills,omitempty"`
	Salary            string `json:"salary,omitempty"`
	Availability      string `json:"availability,omitempty"`
	Education         string `json:"education,omitempty"`
	LinkedIn          string `json:"linkedin,omitempty"`
}
