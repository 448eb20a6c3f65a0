package services

import (
	"context"
	"fmt"
	"time"

	"trego/internal/apperr"
	"trego/internal/models"
	"trego/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
	log        *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenTTL time.Duration, log *zap.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: tokenTTL,
		log:        log.Named("auth"),
	}
}

// RegisterUser registers a new customer, hashes their password, and saves them to the database.
func (s *AuthService) RegisterUser(ctx context.Context, user *models.User) error {
	user.Role = models.RoleCustomer
	return s.createUser(ctx, user)
}

// EnsureAdmin creates the bootstrap admin account unless the username already exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	_, err := s.userRepo.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if apperr.KindOf(err) != apperr.KindNotFound {
		return err
	}
	admin := &models.User{Username: username, Email: email, Password: password, Role: models.RoleAdmin}
	if err := s.createUser(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin %s: %w", username, err)
	}
	s.log.Info("bootstrap admin created", zap.String("username", username))
	return nil
}

func (s *AuthService) createUser(ctx context.Context, user *models.User) error {
	// Check if username or email already exists
	if err := s.ensureFree(s.userRepo.GetByUsername(ctx, user.Username)); err != nil {
		if apperr.KindOf(err) == apperr.KindConflict {
			return apperr.Conflict("username '%s' already taken", user.Username)
		}
		return err
	}
	if err := s.ensureFree(s.userRepo.GetByEmail(ctx, user.Email)); err != nil {
		if apperr.KindOf(err) == apperr.KindConflict {
			return apperr.Conflict("email '%s' already registered", user.Email)
		}
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)

	if err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// ensureFree turns a successful lookup into a Conflict and a NotFound into nil.
func (s *AuthService) ensureFree(existing *models.User, err error) error {
	switch {
	case err == nil && existing != nil:
		return apperr.ErrConflict
	case err == nil, apperr.KindOf(err) == apperr.KindNotFound:
		return nil
	default:
		return err
	}
}

// LoginUser authenticates a user and returns a JWT token if successful.
func (s *AuthService) LoginUser(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		// Do not reveal whether the username exists
		return "", apperr.Unauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", apperr.Unauthorized("invalid credentials")
	}

	return s.issueToken(models.Principal{UserID: user.ID, Username: user.Username, Role: user.Role})
}

// RefreshToken exchanges a still-valid token for a new one with a fresh expiry.
func (s *AuthService) RefreshToken(tokenString string) (string, error) {
	principal, err := s.Authenticate(tokenString)
	if err != nil {
		return "", err
	}
	return s.issueToken(principal)
}

func (s *AuthService) issueToken(p models.Principal) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  p.UserID,
		"username": p.Username,
		"role":     string(p.Role),
		"exp":      now.Add(s.tokenDurat).Unix(),
		"iat":      now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		s.log.Debug("token validation failed", zap.Error(err))
		return nil, apperr.Wrap(apperr.KindUnauthorized, err, "invalid token")
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, apperr.Unauthorized("invalid token")
}

// Authenticate validates a token and resolves the caller it was issued to.
func (s *AuthService) Authenticate(tokenString string) (models.Principal, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return models.Principal{}, err
	}
	return PrincipalFromClaims(claims)
}

// PrincipalFromClaims extracts the caller from token claims. A token without a
// known role is rejected rather than downgraded.
func PrincipalFromClaims(claims jwt.MapClaims) (models.Principal, error) {
	userID, _ := claims["user_id"].(string)
	username, _ := claims["username"].(string)
	roleName, _ := claims["role"].(string)
	if userID == "" {
		return models.Principal{}, apperr.Unauthorized("invalid token: missing user_id")
	}
	role, ok := models.ParseRole(roleName)
	if !ok {
		return models.Principal{}, apperr.Unauthorized("invalid token: unknown role %q", roleName)
	}
	return models.Principal{UserID: userID, Username: username, Role: role}, nil
}
