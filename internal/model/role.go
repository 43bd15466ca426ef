package model

// Role is the user's position in the sales hierarchy.
type Role string

// Role codes as constants
const (
	RoleAdmin        Role = "admin"
	RoleAgent        Role = "agent"
	RoleCollaborator Role = "collaborator"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAgent, RoleCollaborator:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
