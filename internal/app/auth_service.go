package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"secondhand-market/internal/model"
	"secondhand-market/internal/pkg/jwtutil"
	"secondhand-market/internal/pkg/logger"
	"secondhand-market/internal/repository"
)

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id uint) (*model.User, error)
}

type TokenIssuer interface {
	Issue(userID uint, username string) (string, time.Time, error)
	Parse(token string) (*jwtutil.Claims, error)
}

type AuthService struct {
	users  UserStore
	tokens TokenIssuer
}

type RegisterInput struct {
	Username string
	Password string
	FullName string
	Address  string
}

type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

func NewAuthService(users UserStore, tokens TokenIssuer) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	log := logger.FromContext(ctx)

	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, ErrInvalidInput
	}

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, internalErr(err)
	}
	if existing != nil {
		log.Warn("registration rejected, username taken", "username", username)
		return nil, ErrDuplicateUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrInvalidInput
		}
		return nil, internalErr(fmt.Errorf("hash password failed: %w", err))
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(input.FullName),
		Address:      strings.TrimSpace(input.Address),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration of the same name
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDuplicateUser
		}
		return nil, internalErr(err)
	}

	log.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Authenticate checks the credentials and issues an access token. A missing
// user and a wrong password both yield ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*AuthResult, error) {
	log := logger.FromContext(ctx)

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, internalErr(err)
	}
	if user == nil {
		log.Warn("authentication failed", "username", username)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			log.Warn("authentication failed", "username", username)
			return nil, ErrInvalidCredentials
		}
		return nil, internalErr(fmt.Errorf("compare password failed: %w", err))
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, internalErr(err)
	}

	log.Info("user authenticated", "user_id", user.ID)
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// ResolveCaller turns a bearer token into the caller identity. The user must
// still exist under the same name.
func (s *AuthService) ResolveCaller(ctx context.Context, token string) (*Caller, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, internalErr(err)
	}
	if user == nil || user.Username != claims.Username {
		return nil, ErrUnauthenticated
	}
	return &Caller{UserID: user.ID, Username: user.Username}, nil
}

func (s *AuthService) Profile(ctx context.Context, caller *Caller) (*model.User, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	user, err := s.users.GetByID(ctx, caller.UserID)
	if err != nil {
		return nil, internalErr(err)
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}
