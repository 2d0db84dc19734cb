package models

import "strings"

// Role is the authorization level stored on a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Capability is a single permission checked by the authorization gate.
type Capability string

const (
	CapabilitySubmitReport  Capability = "submit_report"
	CapabilityTriageReports Capability = "triage_reports"
)

var roleCapabilities = map[Role][]Capability{
	RoleUser:  {CapabilitySubmitReport},
	RoleAdmin: {CapabilitySubmitReport, CapabilityTriageReports},
}

func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	_, ok := roleCapabilities[r]
	return r, ok
}

func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// Can reports whether the role grants the capability. Unknown roles grant nothing.
func (r Role) Can(c Capability) bool {
	for _, granted := range roleCapabilities[r] {
		if granted == c {
			return true
		}
	}
	return false
}
