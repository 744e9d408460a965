package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"estate/internal/model"
)

const defaultAvatar = "/images/profile.png"

// ProfileUpdatedMessage is shown after a profile edit
const ProfileUpdatedMessage = "Profile updated successfully!"

// Claims are carried in issued tokens
type Claims struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the token holder is the admin
func (c *Claims) IsAdmin() bool {
	return c != nil && c.Role == model.RoleAdmin
}

// AuthService is the mock account store. Accounts live in memory; any
// unknown email may log in, registered ones must match their password.
type AuthService struct {
	adminEmail string
	secret     []byte
	ttl        time.Duration
	cost       int
	logger     *slog.Logger
	now        func() time.Time

	mu     sync.RWMutex
	users  map[string]*model.User
	lastID int64
}

// NewAuthService creates a new auth service
func NewAuthService(adminEmail, secret string, ttl time.Duration, logger *slog.Logger) *AuthService {
	return &AuthService{
		adminEmail: strings.ToLower(strings.TrimSpace(adminEmail)),
		secret:     []byte(secret),
		ttl:        ttl,
		cost:       bcrypt.DefaultCost,
		logger:     logger,
		now:        time.Now,
		users:      make(map[string]*model.User),
	}
}

// Signup registers an account and returns a token for it
func (s *AuthService) Signup(req model.SignupRequest) (*model.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := requireFields(
		[2]string{"name", req.Name},
		[2]string{"email", email},
		[2]string{"password", req.Password},
	); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	if _, exists := s.users[email]; exists {
		s.mu.Unlock()
		return nil, ErrEmailTaken
	}
	user := s.newUserLocked(strings.TrimSpace(req.Name), email)
	user.PasswordHash = string(hash)
	s.users[email] = user
	s.mu.Unlock()

	s.logger.Info("user signed up", "user_id", user.ID, "role", user.Role)
	return s.issue(user)
}

// Login authenticates an account. Unknown emails get a mock session named
// after the email's local part.
func (s *AuthService) Login(req model.LoginRequest) (*model.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	s.mu.Lock()
	user, exists := s.users[email]
	if !exists {
		name, _, _ := strings.Cut(email, "@")
		user = s.newUserLocked(name, email)
		s.users[email] = user
	}
	s.mu.Unlock()

	if user.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			return nil, ErrInvalidCredentials
		}
	}

	s.logger.Info("user logged in", "user_id", user.ID, "role", user.Role)
	return s.issue(user)
}

// ParseToken validates a token and returns its claims
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	return claims, nil
}

// Me returns the account behind the claims
func (s *AuthService) Me(claims *Claims) (*model.User, error) {
	if claims == nil {
		return nil, ErrInvalidToken
	}
	s.mu.RLock()
	user, ok := s.users[claims.Email]
	s.mu.RUnlock()
	if ok {
		out := *user
		out.PasswordHash = ""
		return &out, nil
	}
	// the store is in memory, so tokens outlive restarts; rebuild from claims
	return &model.User{
		ID:     claims.UserID,
		Name:   claims.Name,
		Email:  claims.Email,
		Avatar: defaultAvatar,
		Role:   claims.Role,
	}, nil
}

// UpdateProfile merges the submitted fields into the account and re-issues
// the token, since name and email travel in the claims. Role never changes.
func (s *AuthService) UpdateProfile(claims *Claims, req model.ProfileUpdate) (*model.AuthResponse, error) {
	if claims == nil {
		return nil, ErrInvalidToken
	}

	var name, email string
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, &ValidationError{Fields: []string{"name"}}
		}
	}
	if req.Email != nil {
		email = strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" {
			return nil, &ValidationError{Fields: []string{"email"}}
		}
	}

	// accounts are replaced, never edited in place; Login reads them unlocked
	s.mu.Lock()
	var user model.User
	if current, ok := s.users[claims.Email]; ok {
		user = *current
	} else {
		user = model.User{
			ID:     claims.UserID,
			Name:   claims.Name,
			Email:  claims.Email,
			Avatar: defaultAvatar,
			Role:   claims.Role,
		}
	}
	if email != "" && email != user.Email {
		if _, taken := s.users[email]; taken || email == s.adminEmail {
			s.mu.Unlock()
			return nil, ErrEmailTaken
		}
		delete(s.users, user.Email)
		user.Email = email
	}
	if name != "" {
		user.Name = name
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Bio != nil {
		user.Bio = strings.TrimSpace(*req.Bio)
	}
	stored := user
	s.users[user.Email] = &stored
	s.mu.Unlock()

	s.logger.Info("profile updated", "user_id", user.ID)
	resp, err := s.issue(&user)
	if err != nil {
		return nil, err
	}
	resp.Message = ProfileUpdatedMessage
	return resp, nil
}

func (s *AuthService) newUserLocked(name, email string) *model.User {
	s.lastID++
	role := model.RoleMember
	if email == s.adminEmail {
		role = model.RoleAdmin
	}
	return &model.User{
		ID:     s.lastID,
		Name:   name,
		Email:  email,
		Avatar: defaultAvatar,
		Role:   role,
	}
}

func (s *AuthService) issue(user *model.User) (*model.AuthResponse, error) {
	now := s.now()
	claims := &Claims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	out := *user
	out.PasswordHash = ""
	return &model.AuthResponse{Token: token, User: &out}, nil
}
