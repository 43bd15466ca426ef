package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"go-sales-tracker/internal/apperror"
	"go-sales-tracker/internal/model"
	"go-sales-tracker/internal/repository"
	"go-sales-tracker/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWrongPassword      = fmt.Errorf("current password is incorrect: %w", apperror.ErrInvalidArgument)
	ErrSessionReplaced    = errors.New("session expired (logged in on another device)")
)

type AuthService interface {
	Login(username, password string) (*LoginResponse, error)
	ChangePassword(actor model.Actor, oldPassword, newPassword string) error
	ValidateToken(tokenString string) (*TokenValidationResponse, error)
	// Authenticate resolves a bearer token to the actor it runs as.
	Authenticate(tokenString string) (model.Actor, error)
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type TokenValidationResponse struct {
	User model.UserResponse `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
	issuer   *jwt.Issuer
}

func NewAuthService(userRepo repository.UserRepository, issuer *jwt.Issuer) AuthService {
	return &authService{
		userRepo: userRepo,
		issuer:   issuer,
	}
}

// Login rotates the user's token version, so only the newest session stays valid.
func (s *authService) Login(username, password string) (*LoginResponse, error) {
	user, ok := s.userRepo.FindByUsername(username)
	if !ok || !user.CheckPassword(password) {
		log.Warn().Str("username", username).Msg("login failed")
		return nil, ErrInvalidCredentials
	}

	user.TokenVersion = uuid.New().String()
	updated, err := s.userRepo.Update(user)
	if err != nil {
		return nil, errors.New("failed to update session")
	}

	actor := updated.Actor()
	token, err := s.issuer.GenerateToken(updated.ID, updated.Username, updated.Role.String(), actor.AgentID, updated.TokenVersion)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	log.Info().Uint("user_id", updated.ID).Str("role", updated.Role.String()).Msg("user logged in")
	return &LoginResponse{Token: token, User: updated.ToResponse()}, nil
}

func (s *authService) ChangePassword(actor model.Actor, oldPassword, newPassword string) error {
	user, ok := s.userRepo.FindByID(actor.UserID)
	if !ok {
		return ErrUserNotFound
	}
	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}
	if len(newPassword) < 6 {
		return fmt.Errorf("new password must be at least 6 characters: %w", apperror.ErrInvalidArgument)
	}
	if err := user.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash new password")
	}
	// Invalidate existing sessions
	user.TokenVersion = uuid.New().String()

	if _, err := s.userRepo.Update(user); err != nil {
		return err
	}
	log.Info().Uint("user_id", user.ID).Msg("password changed")
	return nil
}

func (s *authService) authenticate(tokenString string) (model.User, error) {
	claims, err := s.issuer.ValidateToken(tokenString)
	if err != nil {
		return model.User{}, err
	}
	user, ok := s.userRepo.FindByID(claims.UserID)
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	if user.TokenVersion != claims.TokenVersion {
		return model.User{}, ErrSessionReplaced
	}
	return user, nil
}

func (s *authService) ValidateToken(tokenString string) (*TokenValidationResponse, error) {
	user, err := s.authenticate(tokenString)
	if err != nil {
		return nil, err
	}
	return &TokenValidationResponse{User: user.ToResponse()}, nil
}

// Authenticate builds the actor from the stored user rather than the claims,
// so a reassigned collaborator picks up their new agent immediately.
func (s *authService) Authenticate(tokenString string) (model.Actor, error) {
	user, err := s.authenticate(tokenString)
	if err != nil {
		return model.Actor{}, err
	}
	return user.Actor(), nil
}
