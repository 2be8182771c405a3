package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mickael234/projet-psah-sub003/internal/access"
	"github.com/mickael234/projet-psah-sub003/internal/auth"
	"github.com/mickael234/projet-psah-sub003/internal/domain"
	"github.com/mickael234/projet-psah-sub003/internal/repo"
)

// TokenIssuer signs bearer tokens for a principal.
type TokenIssuer interface {
	Issue(p domain.Principal) (string, time.Time, error)
}

// Session is the result of a successful login.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	Role      domain.Role `json:"role"`
}

// minPasswordLen is the shortest password accepted at registration.
const minPasswordLen = 8

// Registration is a client signing themselves up.
type Registration struct {
	Email    string
	Password string
	FullName string
	Phone    string
}

// StaffRegistration is an administrator creating a personnel account.
type StaffRegistration struct {
	Email    string
	Password string
	FullName string
	Role     string
}

// StaffAccount is a newly created personnel account.
type StaffAccount struct {
	Account   domain.Account   `json:"account"`
	Personnel domain.Personnel `json:"personnel"`
}

// AuthService checks credentials, registers accounts and issues tokens.
type AuthService struct {
	accounts repo.AccountRepo
	tokens   TokenIssuer
}

// NewAuthService constructs an AuthService.
func NewAuthService(accounts repo.AccountRepo, tokens TokenIssuer) *AuthService {
	return &AuthService{accounts: accounts, tokens: tokens}
}

// Login verifies email/password and returns a signed token. Unknown emails and
// wrong passwords both yield domain.ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Session{}, fmt.Errorf("service.AuthService.Login: %w: email and password are required", domain.ErrValidation)
	}

	acc, err := s.accounts.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return Session{}, fmt.Errorf("service.AuthService.Login: %w: invalid credentials", domain.ErrUnauthorized)
	}
	if err != nil {
		return Session{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}
	if err := auth.CheckPassword(acc.PasswordHash, password); err != nil {
		return Session{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}

	token, exp, err := s.tokens.Issue(domain.Principal{Email: acc.Email, Role: acc.Role})
	if err != nil {
		return Session{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}
	return Session{Token: token, ExpiresAt: exp, Role: acc.Role}, nil
}

// Register creates a CLIENT account with its client row and logs it in.
// A taken email is domain.ErrConflict.
func (s *AuthService) Register(ctx context.Context, in Registration) (Session, error) {
	email, err := credentials(in.Email, in.Password, in.FullName)
	if err != nil {
		return Session{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return Session{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}

	acc, _, err := s.accounts.RegisterClient(ctx,
		domain.Account{Email: email, PasswordHash: hash, Role: domain.RoleClient},
		domain.Client{FullName: strings.TrimSpace(in.FullName), Phone: strings.TrimSpace(in.Phone)})
	if err != nil {
		return Session{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}

	token, exp, err := s.tokens.Issue(domain.Principal{Email: acc.Email, Role: acc.Role})
	if err != nil {
		return Session{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}
	return Session{Token: token, ExpiresAt: exp, Role: acc.Role}, nil
}

// RegisterStaff creates a personnel account. Only administrators may do so,
// and only SUPER_ADMIN may create another administrator.
func (s *AuthService) RegisterStaff(ctx context.Context, actor domain.Actor, in StaffRegistration) (StaffAccount, error) {
	if err := access.Authorize(actor, access.PersonnelCreate, access.Resource{}); err != nil {
		return StaffAccount{}, fmt.Errorf("service.AuthService.RegisterStaff: %w", err)
	}
	email, err := credentials(in.Email, in.Password, in.FullName)
	if err != nil {
		return StaffAccount{}, fmt.Errorf("service.AuthService.RegisterStaff: %w", err)
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return StaffAccount{}, fmt.Errorf("service.AuthService.RegisterStaff: %w", err)
	}
	switch {
	case role == domain.RoleClient:
		return StaffAccount{}, fmt.Errorf("service.AuthService.RegisterStaff: %w: clients register themselves", domain.ErrValidation)
	case role.Elevated() && actor.Role != domain.RoleSuperAdmin:
		return StaffAccount{}, fmt.Errorf("service.AuthService.RegisterStaff: %w: only %s may create %s accounts", domain.ErrForbidden, domain.RoleSuperAdmin, role)
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return StaffAccount{}, fmt.Errorf("service.AuthService.RegisterStaff: %w", err)
	}

	acc, p, err := s.accounts.RegisterPersonnel(ctx,
		domain.Account{Email: email, PasswordHash: hash, Role: role},
		domain.Personnel{FullName: strings.TrimSpace(in.FullName)})
	if err != nil {
		return StaffAccount{}, fmt.Errorf("service.AuthService.RegisterStaff: %w", err)
	}
	return StaffAccount{Account: acc, Personnel: p}, nil
}

// credentials validates the fields every registration carries and returns
// the trimmed email.
func credentials(email, password, fullName string) (string, error) {
	email = strings.TrimSpace(email)
	switch {
	case email == "" || !strings.Contains(email, "@"):
		return "", fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
	case len(password) < minPasswordLen:
		return "", fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	case strings.TrimSpace(fullName) == "":
		return "", fmt.Errorf("%w: full_name is required", domain.ErrValidation)
	}
	return email, nil
}
