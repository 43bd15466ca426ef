package repository

import (
	"fmt"

	"go-sales-tracker/internal/apperror"
	"go-sales-tracker/internal/model"
)

type UserRepository interface {
	Create(user model.User) model.User
	Register(user model.User) (model.User, error)
	Update(user model.User) (model.User, error)
	Delete(id uint) bool
	FindByID(id uint) (model.User, bool)
	FindByUsername(username string) (model.User, bool)
	FindAll() []model.User
	FindCollaboratorsByAgent(agentID uint) []model.User
}

type userRepo struct {
	s *Store
}

// Create inserts without checks; seeding and tests use it. Request paths go
// through Register.
func (r *userRepo) Create(user model.User) model.User {
	return r.s.users.insert(user, r.s.now())
}

// Register enforces the user invariants (valid role, unique username,
// collaborator bound to an existing agent) and inserts, all under the users lock.
func (r *userRepo) Register(user model.User) (model.User, error) {
	t := r.s.users
	t.mu.Lock()
	defer t.mu.Unlock()

	if !user.Role.Valid() {
		return model.User{}, fmt.Errorf("role %q: %w", user.Role, apperror.ErrInvalidArgument)
	}
	for _, u := range t.rows {
		if u.Username == user.Username && u.ID != user.ID {
			return model.User{}, fmt.Errorf("username %q already taken: %w", user.Username, apperror.ErrConflict)
		}
	}
	if user.Role == model.RoleCollaborator {
		if user.AgentID == nil {
			return model.User{}, fmt.Errorf("collaborator requires an agent: %w", apperror.ErrInvalidArgument)
		}
		agent, ok := t.getLocked(*user.AgentID)
		if !ok || agent.Role != model.RoleAgent {
			return model.User{}, fmt.Errorf("agent %d: %w", *user.AgentID, apperror.ErrInvalidArgument)
		}
	} else {
		user.AgentID = nil
	}
	return t.insertLocked(user, r.s.now()), nil
}

// Update replaces the stored user. Role and creation time are kept from the
// stored record: no path changes a role after creation.
func (r *userRepo) Update(user model.User) (model.User, error) {
	t := r.s.users
	t.mu.Lock()
	defer t.mu.Unlock()

	existing, ok := t.getLocked(user.ID)
	if !ok {
		return model.User{}, fmt.Errorf("user %d: %w", user.ID, apperror.ErrNotFound)
	}
	for _, u := range t.rows {
		if u.Username == user.Username && u.ID != user.ID {
			return model.User{}, fmt.Errorf("username %q already taken: %w", user.Username, apperror.ErrConflict)
		}
	}
	user.Role = existing.Role
	user.CreatedAt = existing.CreatedAt
	if user.Role != model.RoleCollaborator {
		user.AgentID = nil
	}
	return t.replaceLocked(user)
}

func (r *userRepo) Delete(id uint) bool {
	return r.s.users.remove(id)
}

func (r *userRepo) FindByID(id uint) (model.User, bool) {
	return r.s.users.get(id)
}

func (r *userRepo) FindByUsername(username string) (model.User, bool) {
	matches := r.s.users.filter(func(u *model.User) bool { return u.Username == username })
	if len(matches) == 0 {
		return model.User{}, false
	}
	return matches[0], true
}

func (r *userRepo) FindAll() []model.User {
	return r.s.users.filter(nil)
}

func (r *userRepo) FindCollaboratorsByAgent(agentID uint) []model.User {
	return r.s.users.filter(func(u *model.User) bool {
		return u.Role == model.RoleCollaborator && u.AgentID != nil && *u.AgentID == agentID
	})
}
