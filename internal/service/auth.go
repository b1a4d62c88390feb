package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"eventrent-backend/internal/domain"
	"eventrent-backend/internal/logger"
	"eventrent-backend/internal/repository"
	"eventrent-backend/internal/security"
)

// IdentityProvider proves who a caller is. It never decides what the caller
// may do; that is the role repository's job.
type IdentityProvider interface {
	Name() string
	Register(ctx context.Context, email, password string) (*domain.Identity, error)
	Authenticate(ctx context.Context, creds Credentials) (*domain.Identity, error)
	SignOut(ctx context.Context, identity *domain.Identity) error
}

type signUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type authService struct {
	provider        IdentityProvider
	userRepo        repository.AdminUserRepository
	roleRepo        repository.RoleRepository
	tokens          security.TokenManager
	bootstrapAdmins map[string]bool
}

func NewAuthService(
	provider IdentityProvider,
	userRepo repository.AdminUserRepository,
	roleRepo repository.RoleRepository,
	tokens security.TokenManager,
	bootstrapAdmins []string,
) AuthService {
	admins := make(map[string]bool, len(bootstrapAdmins))
	for _, email := range bootstrapAdmins {
		if email = normalizeEmail(email); email != "" {
			admins[email] = true
		}
	}
	return &authService{
		provider:        provider,
		userRepo:        userRepo,
		roleRepo:        roleRepo,
		tokens:          tokens,
		bootstrapAdmins: admins,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates an account. The account holds no role unless its email is
// listed as a bootstrap admin.
func (s *authService) SignUp(ctx context.Context, email, password string) (*domain.AdminUser, error) {
	logger.EnterMethod("authService.SignUp", "provider", s.provider.Name())

	req := signUpRequest{Email: normalizeEmail(email), Password: password}
	if err := validateStruct(&req); err != nil {
		logger.ExitMethodWithError("authService.SignUp", err)
		return nil, err
	}

	identity, err := s.provider.Register(ctx, req.Email, req.Password)
	if err != nil {
		logger.ExitMethodWithError("authService.SignUp", err)
		return nil, err
	}
	if err := s.resolveUser(ctx, identity); err != nil {
		logger.ExitMethodWithError("authService.SignUp", err)
		return nil, err
	}

	if s.bootstrapAdmins[req.Email] {
		if err := s.grant(ctx, identity.UserID, domain.RoleAdmin); err != nil {
			logger.ExitMethodWithError("authService.SignUp", err)
			return nil, err
		}
		logger.Info("Bootstrap admin role granted", "userID", identity.UserID)
	}

	user, err := s.userRepo.GetByID(ctx, identity.UserID)
	if err != nil {
		logger.ExitMethodWithError("authService.SignUp", err)
		return nil, err
	}
	logger.ExitMethod("authService.SignUp", "userID", user.ID)
	return user, nil
}

// resolveUser links an externally issued identity to its admin_users row,
// creating the row on first sight.
func (s *authService) resolveUser(ctx context.Context, identity *domain.Identity) error {
	if identity.UserID != "" {
		return nil
	}
	if identity.ExternalUID == "" {
		return domain.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByExternalUID(ctx, identity.ExternalUID)
	if errors.Is(err, domain.ErrUserNotFound) {
		uid := identity.ExternalUID
		user = &domain.AdminUser{Email: normalizeEmail(identity.Email), ExternalUID: &uid}
		err = s.userRepo.Create(ctx, user)
	}
	if err != nil {
		return err
	}
	identity.UserID = user.ID
	return nil
}

func (s *authService) Authenticate(ctx context.Context, creds Credentials) (*domain.Identity, error) {
	creds.Email = normalizeEmail(creds.Email)
	identity, err := s.provider.Authenticate(ctx, creds)
	if err != nil {
		return nil, err
	}
	if err := s.resolveUser(ctx, identity); err != nil {
		return nil, err
	}
	return identity, nil
}

func (s *authService) Authorize(ctx context.Context, identity *domain.Identity) (domain.Role, error) {
	ok, err := s.roleRepo.HasRole(ctx, identity.UserID, domain.RoleAdmin)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrNotAdmin
	}
	return domain.RoleAdmin, nil
}

func (s *authService) SignIn(ctx context.Context, creds Credentials) (*AdminSession, error) {
	logger.EnterMethod("authService.SignIn", "provider", s.provider.Name())

	identity, err := s.Authenticate(ctx, creds)
	if err != nil {
		logger.ExitMethodWithError("authService.SignIn", err)
		return nil, err
	}

	role, err := s.Authorize(ctx, identity)
	if err != nil {
		if errors.Is(err, domain.ErrNotAdmin) {
			if serr := s.provider.SignOut(ctx, identity); serr != nil {
				logger.Warn("Failed to sign out unauthorized identity", "userID", identity.UserID, "error", serr)
			}
		}
		logger.ExitMethodWithError("authService.SignIn", err, "userID", identity.UserID)
		return nil, err
	}

	token, expiresAt, err := s.tokens.GenerateAdminToken(identity.UserID, identity.Email, []string{string(role)})
	if err != nil {
		logger.ExitMethodWithError("authService.SignIn", err, "userID", identity.UserID)
		return nil, err
	}

	logger.ExitMethod("authService.SignIn", "userID", identity.UserID)
	return &AdminSession{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    identity.UserID,
		Email:     identity.Email,
		Role:      role,
	}, nil
}

func (s *authService) SignOut(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	identity := &domain.Identity{UserID: user.ID, Email: user.Email, Provider: s.provider.Name()}
	if user.ExternalUID != nil {
		identity.ExternalUID = *user.ExternalUID
	}
	return s.provider.SignOut(ctx, identity)
}

func (s *authService) GrantRole(ctx context.Context, email string, role domain.Role) error {
	if role != domain.RoleAdmin {
		verr := domain.NewValidationError()
		verr.Add("role", "must be one of: admin")
		return verr
	}
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	return s.grant(ctx, user.ID, role)
}

func (s *authService) grant(ctx context.Context, userID string, role domain.Role) error {
	return s.roleRepo.Grant(ctx, &domain.RoleGrant{UserID: userID, Role: role, GrantedOn: time.Now()})
}

// BootstrapAdmins grants the admin role to every configured email that
// already has an account. The rest are granted at sign-up.
func (s *authService) BootstrapAdmins(ctx context.Context) error {
	for email := range s.bootstrapAdmins {
		user, err := s.userRepo.GetByEmail(ctx, email)
		if errors.Is(err, domain.ErrUserNotFound) {
			logger.Debug("Bootstrap admin has no account yet", "email", email)
			continue
		}
		if err != nil {
			return err
		}
		if err := s.grant(ctx, user.ID, domain.RoleAdmin); err != nil {
			return err
		}
	}
	return nil
}

// LocalIdentityProvider checks bcrypt password hashes stored in admin_users.
type LocalIdentityProvider struct {
	userRepo repository.AdminUserRepository
}

func NewLocalIdentityProvider(userRepo repository.AdminUserRepository) *LocalIdentityProvider {
	return &LocalIdentityProvider{userRepo: userRepo}
}

func (p *LocalIdentityProvider) Name() string { return "local" }

func (p *LocalIdentityProvider) Register(ctx context.Context, email, password string) (*domain.Identity, error) {
	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &domain.AdminUser{Email: email, PasswordHash: hash}
	if err := p.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return &domain.Identity{UserID: user.ID, Email: user.Email, Provider: p.Name()}, nil
}

func (p *LocalIdentityProvider) Authenticate(ctx context.Context, creds Credentials) (*domain.Identity, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	user, err := p.userRepo.GetByEmail(ctx, creds.Email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if user.PasswordHash == "" {
		return nil, domain.ErrInvalidCredentials
	}
	ok, err := security.CheckPassword(user.PasswordHash, creds.Password)
	if err != nil || !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return &domain.Identity{UserID: user.ID, Email: user.Email, Provider: p.Name()}, nil
}

// SignOut is a no-op: local sessions are stateless tokens that expire.
func (p *LocalIdentityProvider) SignOut(context.Context, *domain.Identity) error {
	return nil
}

// FirebaseClient is the part of security.FirebaseAuthenticator used here.
type FirebaseClient interface {
	VerifyIDToken(ctx context.Context, idToken string) (*domain.Identity, error)
	CreateUser(ctx context.Context, email, password string) (*domain.Identity, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// FirebaseIdentityProvider accepts Firebase ID tokens minted by the admin
// console's client SDK.
type FirebaseIdentityProvider struct {
	client FirebaseClient
}

func NewFirebaseIdentityProvider(client FirebaseClient) *FirebaseIdentityProvider {
	return &FirebaseIdentityProvider{client: client}
}

func (p *FirebaseIdentityProvider) Name() string { return security.ProviderFirebase }

func (p *FirebaseIdentityProvider) Register(ctx context.Context, email, password string) (*domain.Identity, error) {
	return p.client.CreateUser(ctx, email, password)
}

func (p *FirebaseIdentityProvider) Authenticate(ctx context.Context, creds Credentials) (*domain.Identity, error) {
	if creds.IDToken == "" {
		return nil, domain.ErrInvalidCredentials
	}
	return p.client.VerifyIDToken(ctx, creds.IDToken)
}

func (p *FirebaseIdentityProvider) SignOut(ctx context.Context, identity *domain.Identity) error {
	if identity.ExternalUID == "" {
		return nil
	}
	return p.client.RevokeRefreshTokens(ctx, identity.ExternalUID)
}
