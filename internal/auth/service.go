package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/engineers-ent/backend-nirman/internal/common"
)

// ErrStaffNotFound is returned when an email or id does not resolve.
var ErrStaffNotFound = errors.New("auth: staff not found")

const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)

// Staff is a back-office user. PasswordHash never leaves the package.
type Staff struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Store persists staff accounts.
type Store interface {
	GetStaffByEmail(ctx context.Context, email string) (Staff, error)
	GetStaffByID(ctx context.Context, id string) (Staff, error)
	CreateStaff(ctx context.Context, s Staff) (Staff, error)
}

// Claims is the decoded token payload attached to authenticated requests.
type Claims struct {
	StaffID string
	Name    string
	Role    string
}

// Service issues and validates staff access tokens.
type Service struct {
	Store  Store
	Secret []byte
	Issuer string
	TTL    time.Duration
	Now    func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) ttl() time.Duration {
	if s.TTL <= 0 {
		return 24 * time.Hour
	}
	return s.TTL
}

// HashPassword produces a storable argon2id hash.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams)
}

// Login verifies credentials and returns a signed token with the staff
// record. Invalid email and invalid password are indistinguishable to the
// caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, Staff, error) {
	staff, err := s.Store.GetStaffByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrStaffNotFound) {
			return "", Staff{}, invalidCredentials()
		}
		return "", Staff{}, fmt.Errorf("lookup staff: %w", err)
	}
	match, err := argon2id.ComparePasswordAndHash(password, staff.PasswordHash)
	if err != nil {
		return "", Staff{}, fmt.Errorf("verify password: %w", err)
	}
	if !match {
		return "", Staff{}, invalidCredentials()
	}
	token, err := s.sign(staff)
	if err != nil {
		return "", Staff{}, err
	}
	return token, staff, nil
}

func (s *Service) sign(staff Staff) (string, error) {
	now := s.now()
	tok, err := jwt.NewBuilder().
		Issuer(s.Issuer).
		Subject(staff.ID).
		IssuedAt(now).
		Expiration(now.Add(s.ttl())).
		Claim("name", staff.Name).
		Claim("role", staff.Role).
		Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, s.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return string(signed), nil
}

// ParseToken validates a bearer token and returns its claims.
func (s *Service) ParseToken(raw string) (Claims, error) {
	tok, err := jwt.Parse([]byte(raw),
		jwt.WithKey(jwa.HS256, s.Secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(s.Issuer),
		jwt.WithClock(jwt.ClockFunc(s.now)),
	)
	if err != nil {
		return Claims{}, &common.AppError{Code: "UNAUTHORIZED", Message: "invalid or expired token", HTTPStatus: 401, Err: err}
	}
	claims := Claims{StaffID: tok.Subject()}
	if v, ok := tok.Get("name"); ok {
		claims.Name, _ = v.(string)
	}
	if v, ok := tok.Get("role"); ok {
		claims.Role, _ = v.(string)
	}
	return claims, nil
}

func invalidCredentials() error {
	return &common.AppError{Code: "UNAUTHORIZED", Message: "invalid email or password", HTTPStatus: 401}
}
