package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fitness-duel-system/auth"
	"fitness-duel-system/models"
	"fitness-duel-system/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const minPasswordLength = 6

// UserService handles registration, login and the friend list.
type UserService struct {
	users     UserDirectory
	tokens    *auth.Tokens
	passwords auth.Passwords
	log       *zap.Logger
}

func NewUserService(users UserDirectory, tokens *auth.Tokens, passwords auth.Passwords, log *zap.Logger) *UserService {
	return &UserService{users: users, tokens: tokens, passwords: passwords, log: log}
}

type RegisterInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)

	var missing []string
	if email == "" {
		missing = append(missing, "email")
	}
	if username == "" {
		missing = append(missing, "username")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Message: "required fields are missing", Fields: missing}
	}
	if len(in.Password) < minPasswordLength {
		return nil, &ValidationError{Message: fmt.Sprintf("password must be at least %d characters", minPasswordLength), Fields: []string{"password"}}
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Lost a race with another registration for the same email.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("user registered", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login checks the credentials and issues an access token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !s.passwords.Check(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user}, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.UserSummary, len(users))
	for i := range users {
		out[i] = users[i].Summary()
	}
	return out, nil
}

// AddFriend links the two users both ways.
func (s *UserService) AddFriend(ctx context.Context, userID, friendID string) error {
	if userID == friendID {
		return ErrSelfFriend
	}
	err := s.users.AddFriend(ctx, userID, friendID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

func (s *UserService) Friends(ctx context.Context, userID string) ([]models.UserSummary, error) {
	friends, err := s.users.Friends(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.UserSummary, len(friends))
	for i, f := range friends {
		out[i] = f.Summary()
	}
	return out, nil
}
