package service

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"go-sales-tracker/internal/apperror"
	"go-sales-tracker/internal/model"
	"go-sales-tracker/internal/repository"
	"go-sales-tracker/pkg/validator"
)

var ErrUserNotFound = fmt.Errorf("user: %w", apperror.ErrNotFound)

type UserService interface {
	CreateUser(actor model.Actor, req *CreateUserRequest) (*model.User, error)
	UpdateUser(actor model.Actor, userID uint, req *UpdateUserRequest) (*model.User, error)
	DeleteUser(actor model.Actor, userID uint) error
	GetUser(actor model.Actor, userID uint) (*model.UserResponse, error)
	ListUsers(actor model.Actor) ([]model.UserResponse, error)
}

type CreateUserRequest struct {
	Username string     `json:"username" validate:"required,min=3"`
	Email    string     `json:"email" validate:"omitempty,email"`
	Password string     `json:"password" validate:"required,min=6"`
	FullName string     `json:"full_name"`
	Role     model.Role `json:"role" validate:"required,oneof=admin agent collaborator"`
	AgentID  *uint      `json:"agent_id"`
}

type UpdateUserRequest struct {
	Username string  `json:"username" validate:"required,min=3"`
	Email    string  `json:"email" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"` // Optional
	FullName string  `json:"full_name"`
	AgentID  *uint   `json:"agent_id"`
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// canManage: admins manage everyone, agents manage their own collaborators,
// everybody manages themselves.
func canManage(actor model.Actor, target model.User) bool {
	if actor.Role == model.RoleAdmin || actor.UserID == target.ID {
		return true
	}
	return actor.Role == model.RoleAgent && target.Role == model.RoleCollaborator &&
		target.AgentID != nil && *target.AgentID == actor.UserID
}

func (s *userService) CreateUser(actor model.Actor, req *CreateUserRequest) (*model.User, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	// Agents may only add collaborators under themselves.
	if actor.Role != model.RoleAdmin {
		if actor.Role != model.RoleAgent || req.Role != model.RoleCollaborator {
			return nil, fmt.Errorf("only admins can create %s users: %w", req.Role, apperror.ErrForbidden)
		}
		agentID := actor.UserID
		req.AgentID = &agentID
	}

	user := model.User{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Role:     req.Role,
		AgentID:  req.AgentID,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	created, err := s.userRepo.Register(user)
	if err != nil {
		log.Warn().Err(err).Str("username", req.Username).Msg("user registration rejected")
		return nil, err
	}
	log.Info().Uint("user_id", created.ID).Str("role", created.Role.String()).Uint("by", actor.UserID).Msg("user created")
	return &created, nil
}

func (s *userService) UpdateUser(actor model.Actor, userID uint, req *UpdateUserRequest) (*model.User, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	user, ok := s.userRepo.FindByID(userID)
	if !ok {
		return nil, ErrUserNotFound
	}
	if !canManage(actor, user) {
		return nil, fmt.Errorf("user %d: %w", userID, apperror.ErrForbidden)
	}

	user.Username = req.Username
	user.Email = req.Email
	user.FullName = req.FullName
	if user.Role == model.RoleCollaborator && req.AgentID != nil && actor.Role == model.RoleAdmin {
		agent, ok := s.userRepo.FindByID(*req.AgentID)
		if !ok || agent.Role != model.RoleAgent {
			return nil, fmt.Errorf("agent %d: %w", *req.AgentID, apperror.ErrInvalidArgument)
		}
		user.AgentID = req.AgentID
	}
	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, errors.New("failed to hash password")
		}
	}

	updated, err := s.userRepo.Update(user)
	if err != nil {
		return nil, err
	}
	log.Info().Uint("user_id", updated.ID).Uint("by", actor.UserID).Msg("user updated")
	return &updated, nil
}

func (s *userService) DeleteUser(actor model.Actor, userID uint) error {
	user, ok := s.userRepo.FindByID(userID)
	if !ok {
		return ErrUserNotFound
	}
	if actor.UserID == userID {
		return fmt.Errorf("cannot delete yourself: %w", apperror.ErrInvalidArgument)
	}
	if !canManage(actor, user) {
		return fmt.Errorf("user %d: %w", userID, apperror.ErrForbidden)
	}
	if user.Role == model.RoleAgent && len(s.userRepo.FindCollaboratorsByAgent(userID)) > 0 {
		return fmt.Errorf("agent %d still has collaborators: %w", userID, apperror.ErrConflict)
	}
	if !s.userRepo.Delete(userID) {
		return ErrUserNotFound
	}
	log.Info().Uint("user_id", userID).Uint("by", actor.UserID).Msg("user deleted")
	return nil
}

func (s *userService) GetUser(actor model.Actor, userID uint) (*model.UserResponse, error) {
	user, ok := s.userRepo.FindByID(userID)
	if !ok {
		return nil, ErrUserNotFound
	}
	if !canManage(actor, user) {
		return nil, fmt.Errorf("user %d: %w", userID, apperror.ErrForbidden)
	}
	resp := user.ToResponse()
	return &resp, nil
}

// ListUsers returns everyone to an admin, an agent plus their collaborators
// to an agent, and only themselves to a collaborator.
func (s *userService) ListUsers(actor model.Actor) ([]model.UserResponse, error) {
	var users []model.User
	switch actor.Role {
	case model.RoleAdmin:
		users = s.userRepo.FindAll()
	case model.RoleAgent:
		if self, ok := s.userRepo.FindByID(actor.UserID); ok {
			users = append(users, self)
		}
		users = append(users, s.userRepo.FindCollaboratorsByAgent(actor.UserID)...)
	case model.RoleCollaborator:
		if self, ok := s.userRepo.FindByID(actor.UserID); ok {
			users = append(users, self)
		}
	default:
		return nil, fmt.Errorf("role %q: %w", actor.Role, apperror.ErrInvalidArgument)
	}

	out := make([]model.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToResponse())
	}
	return out, nil
}
