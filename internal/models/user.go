// Package models holds the entity snapshots exchanged with the Wrk API.
// The client never derives identity or enforces cross-entity rules on these
// values; they are passed through exactly as the backend returns them.
package models

import "time"

// Role values issued by the backend.
const (
	RoleAdmin         = "ADMIN"
	RoleTeacher       = "DOCENTE"
	RoleScrumMaster   = "SCRUM_MASTER"
	RoleStudent       = "STUDENT"
	RoleTeamDeveloper = "TEAM_DEVELOPER"
)

// User is a backend user profile. The login response carries only the first
// four fields.
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Avatar    *string    `json:"avatar,omitempty"`
	Active    *bool      `json:"active,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// IsTeacher reports whether the user may manage rubrics and grade work.
func (u *User) IsTeacher() bool {
	return u != nil && (u.Role == RoleAdmin || u.Role == RoleTeacher)
}

// CanCreateProjects reports whether the user may open new projects.
func (u *User) CanCreateProjects() bool {
	return u != nil && (u.Role == RoleAdmin || u.Role == RoleScrumMaster || u.Role == RoleTeacher)
}
