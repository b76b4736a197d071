package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/hongminglow/library-be/internal/models"
	"github.com/hongminglow/library-be/internal/storage"
)

// ErrInvalidCredentials is returned for an unknown username or a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenIssuer mints access tokens.
type TokenIssuer interface {
	Generate(username string, roles []string) (string, error)
}

// RegisterInput is the account data supplied at registration.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginResult is returned from a successful login.
type LoginResult struct {
	Token    string
	Username string
	Roles    []string
}

// Service registers accounts and exchanges credentials for tokens.
type Service struct {
	users  storage.UserStore
	tokens TokenIssuer
	cost   int
}

// NewService wires the service. cost is the bcrypt cost; 0 means bcrypt.DefaultCost.
func NewService(users storage.UserStore, tokens TokenIssuer, cost int) *Service {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{users: users, tokens: tokens, cost: cost}
}

// Register creates a normal or admin account.
func (s *Service) Register(ctx context.Context, in RegisterInput, isAdmin bool) (models.User, error) {
	username := strings.TrimSpace(in.Username)
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return models.User{}, storage.ErrAlreadyExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		return models.User{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username:     username,
		Email:        strings.TrimSpace(in.Email),
		Roles:        models.RolesFor(isAdmin),
		PasswordHash: string(hash),
	}
	created, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.User{}, err
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// Login verifies the password and mints a token carrying the stored roles.
func (s *Service) Login(ctx context.Context, username, password string) (LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("lookup user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}
	token, err := s.tokens.Generate(user.Username, user.Roles)
	if err != nil {
		return LoginResult{}, fmt.Errorf("generate token: %w", err)
	}
	return LoginResult{Token: token, Username: user.Username, Roles: user.Roles}, nil
}

// EnsureAdmin creates the admin account unless the username already exists.
// It reports whether an account was created.
func (s *Service) EnsureAdmin(ctx context.Context, in RegisterInput) (bool, error) {
	_, err := s.Register(ctx, in, true)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, storage.ErrAlreadyExists):
		return false, nil
	default:
		return false, err
	}
}
