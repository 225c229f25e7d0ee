package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/arturocg96/EduTrackAPI/internal/model"
	"github.com/arturocg96/EduTrackAPI/internal/pkg/jwt"
	"github.com/arturocg96/EduTrackAPI/internal/repository"
)

var (
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrRegistrationFailed = errors.New("registration failed")
)

// TokenIssuer signs bearer tokens
type TokenIssuer interface {
	GenerateToken(username, role string) (string, error)
}

// UserService registers and authenticates users
type UserService struct {
	users  *repository.UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
	log    *zap.Logger
}

var _ TokenIssuer = (*jwt.Manager)(nil)

// NewUserService wires the user repository, hasher and token issuer
func NewUserService(users *repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer, log *zap.Logger) *UserService {
	return &UserService{users: users, hasher: hasher, tokens: tokens, log: log}
}

// List returns every user with roles loaded
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

// GetByID returns a user or nil
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

// IsUniqueUser reports whether username is free, ignoring case
func (s *UserService) IsUniqueUser(ctx context.Context, username string) (bool, error) {
	return s.users.IsUniqueUser(ctx, username)
}

// Register creates a user and adds it to the requested role. Only "admin"
// (any case) yields RoleAdmin; everything else becomes RoleUser.
func (s *UserService) Register(ctx context.Context, req model.UserRegisterDTO) (*model.UserDataDTO, error) {
	if strings.TrimSpace(req.Username) == "" || req.Password == "" || strings.TrimSpace(req.Name) == "" {
		return nil, ErrRegistrationFailed
	}

	unique, err := s.users.IsUniqueUser(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, ErrUsernameExists
	}

	if err := ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     strings.TrimSpace(req.Username),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.log.Warn("User creation failed", zap.String("username", req.Username), zap.Error(err))
		return nil, ErrRegistrationFailed
	}

	if err := s.users.EnsureRoles(ctx, model.AllRoles...); err != nil {
		return nil, err
	}

	role := model.ParseRole(req.Role)
	if err := s.users.AddToRole(ctx, user, role); err != nil {
		return nil, err
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID),
		zap.String("username", user.Username),
		zap.String("role", string(role)))

	return model.ToUserDataDTO(user), nil
}

// Login verifies credentials and issues a token carrying the user's first
// role. Rejected credentials yield an empty token, a nil user and
// ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, req model.UserLoginDTO) (*model.LoginResponseDTO, error) {
	rejected := &model.LoginResponseDTO{Token: "", User: nil}

	if req.Username == "" || req.Password == "" {
		return rejected, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.hasher.Verify(user.PasswordHash, req.Password) {
		return rejected, ErrInvalidCredentials
	}

	roles, err := s.users.GetRoles(ctx, user)
	if err != nil {
		return nil, err
	}
	role := string(model.RoleUser)
	if len(roles) > 0 {
		role = roles[0]
	}

	token, err := s.tokens.GenerateToken(user.Username, role)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponseDTO{
		Token: token,
		User:  model.ToUserDataDTO(user),
	}, nil
}
