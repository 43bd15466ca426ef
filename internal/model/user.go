package model

import (
	"golang.org/x/crypto/bcrypt"
)

// User represents an authenticated user in the system
type User struct {
	BaseModel
	Username     string `json:"username" validate:"required"`
	Email        string `json:"email" validate:"omitempty,email"`
	Password     string `json:"-"` // bcrypt hash, hidden from JSON
	Role         Role   `json:"role" validate:"required,oneof=admin agent collaborator"`
	FullName     string `json:"full_name"`
	AgentID      *uint  `json:"agent_id,omitempty"` // collaborators only
	TokenVersion string `json:"-"`                  // For single session enforcement
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// DisplayName prefers the full name over the username.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// Actor builds the request identity the core consumes for this user.
func (u *User) Actor() Actor {
	a := Actor{UserID: u.ID, Role: u.Role}
	if u.AgentID != nil {
		a.AgentID = *u.AgentID
	}
	return a
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	FullName string `json:"full_name"`
	AgentID  *uint  `json:"agent_id,omitempty"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		FullName: u.FullName,
		AgentID:  u.AgentID,
	}
}
