package admins

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oguzsenturk/vitalshop-backend/pkg/auth"
	"github.com/oguzsenturk/vitalshop-backend/pkg/config"
	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
	"github.com/oguzsenturk/vitalshop-backend/pkg/enums"
	pkgerrors "github.com/oguzsenturk/vitalshop-backend/pkg/errors"
	"github.com/oguzsenturk/vitalshop-backend/pkg/logger"
	"github.com/oguzsenturk/vitalshop-backend/pkg/security"
)

// invalidCredentialsMessage is deliberately identical for unknown
// emails and wrong passwords.
const invalidCredentialsMessage = "invalid credentials"

// Service manages back-office accounts and sign-in.
type Service interface {
	Login(ctx context.Context, input LoginRequest, clientIP string) (*LoginResponse, error)
	List(ctx context.Context, actorRole enums.AdminRole) ([]View, error)
	Create(ctx context.Context, actorRole enums.AdminRole, input CreateInput) (*View, error)
	Update(ctx context.Context, actorRole enums.AdminRole, id uuid.UUID, input UpdateInput) (*View, error)
	Delete(ctx context.Context, actorRole enums.AdminRole, actorID, id uuid.UUID) error
	EnsureSeedAdmin(ctx context.Context, email, password string) error
}

type loginLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams bundles the dependencies of the admins service.
type ServiceParams struct {
	Repo      Repository
	Tx        txRunner
	Limiter   loginLimiter
	JWT       config.JWTConfig
	Password  config.PasswordConfig
	RateLimit config.AuthRateLimitConfig
	Logger    *logger.Logger
}

type service struct {
	repo      Repository
	tx        txRunner
	limiter   loginLimiter
	jwt       config.JWTConfig
	password  config.PasswordConfig
	rateLimit config.AuthRateLimitConfig
	logg      *logger.Logger
}

// NewService builds the admins service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("admins repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      params.Repo,
		tx:        params.Tx,
		limiter:   params.Limiter,
		jwt:       params.JWT,
		password:  params.Password,
		rateLimit: params.RateLimit,
		logg:      params.Logger,
	}, nil
}

func (s *service) Login(ctx context.Context, input LoginRequest, clientIP string) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if err := s.allowLoginAttempt(ctx, email, clientIP); err != nil {
		return nil, err
	}

	admin, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up admin")
	}

	match, err := security.VerifyPassword(input.Password, admin.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !match {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	now := time.Now().UTC()
	token, err := auth.MintAccessToken(s.jwt, now, auth.AccessTokenPayload{
		AdminID: admin.ID,
		Email:   admin.Email,
		Role:    admin.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	if err := s.repo.UpdateLastLogin(ctx, admin.ID, now); err != nil {
		// Login still succeeds, the timestamp is informational.
		logCtx := s.logg.WithField(ctx, "admin_id", admin.ID.String())
		s.logg.Warn(logCtx, "failed to record last login: "+err.Error())
	} else {
		admin.LastLoginAt = &now
	}

	return &LoginResponse{AccessToken: token, Admin: NewView(admin)}, nil
}

func (s *service) allowLoginAttempt(ctx context.Context, email, clientIP string) error {
	if s.limiter == nil {
		return nil
	}

	scopes := []struct {
		scope string
		limit int64
	}{
		{scope: "login:email:" + email, limit: int64(s.rateLimit.LoginEmailLimit)},
		{scope: "login:ip:" + clientIP, limit: int64(s.rateLimit.LoginIPLimit)},
	}
	for _, sc := range scopes {
		if sc.limit <= 0 {
			continue
		}
		allowed, _, err := s.limiter.FixedWindowAllow(ctx, sc.scope, sc.limit, s.rateLimit.LoginWindow)
		if err != nil {
			// A degraded limiter must not lock every admin out.
			logCtx := s.logg.WithField(ctx, "scope", sc.scope)
			s.logg.Warn(logCtx, "login rate limiter unavailable: "+err.Error())
			continue
		}
		if !allowed {
			return pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts, try again later")
		}
	}
	return nil
}

func (s *service) List(ctx context.Context, actorRole enums.AdminRole) ([]View, error) {
	if err := requireOwner(actorRole); err != nil {
		return nil, err
	}

	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]View, 0, len(rows))
	for i := range rows {
		views = append(views, NewView(&rows[i]))
	}
	return views, nil
}

func (s *service) Create(ctx context.Context, actorRole enums.AdminRole, input CreateInput) (*View, error) {
	if err := requireOwner(actorRole); err != nil {
		return nil, err
	}

	role, err := enums.ParseAdminRole(input.Role)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if existing, err := s.repo.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "an admin with this email already exists")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up admin")
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	created, err := s.repo.Create(ctx, &models.AdminUser{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return nil, err
	}

	view := NewView(created)
	return &view, nil
}

func (s *service) Update(ctx context.Context, actorRole enums.AdminRole, id uuid.UUID, input UpdateInput) (*View, error) {
	if err := requireOwner(actorRole); err != nil {
		return nil, err
	}

	admin, err := s.findAdmin(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Role != nil {
		role, err := enums.ParseAdminRole(*input.Role)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role")
		}
		if admin.Role == enums.AdminRoleOwner && role != enums.AdminRoleOwner {
			if err := s.ensureNotLastOwner(ctx); err != nil {
				return nil, err
			}
		}
		admin.Role = role
	}

	if input.Password != nil {
		hash, err := security.HashPassword(*input.Password, s.password)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
		}
		admin.PasswordHash = hash
	}

	if err := s.repo.Save(ctx, admin); err != nil {
		return nil, err
	}

	view := NewView(admin)
	return &view, nil
}

func (s *service) Delete(ctx context.Context, actorRole enums.AdminRole, actorID, id uuid.UUID) error {
	if err := requireOwner(actorRole); err != nil {
		return err
	}
	if actorID == id {
		return pkgerrors.New(pkgerrors.CodeValidation, "cannot delete your own account")
	}

	admin, err := s.findAdmin(ctx, id)
	if err != nil {
		return err
	}
	if admin.Role == enums.AdminRoleOwner {
		if err := s.ensureNotLastOwner(ctx); err != nil {
			return err
		}
	}

	return s.repo.Delete(ctx, id)
}

// EnsureSeedAdmin creates an owner account when the table is empty.
// Used by the dev bootstrap, a no-op once any admin exists.
func (s *service) EnsureSeedAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	rows, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	if len(rows) > 0 {
		return nil
	}

	hash, err := security.HashPassword(password, s.password)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing seed password")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.repo.WithTx(tx).Create(ctx, &models.AdminUser{
			ID:           uuid.New(),
			Email:        strings.ToLower(strings.TrimSpace(email)),
			PasswordHash: hash,
			Role:         enums.AdminRoleOwner,
		})
		return err
	})
}

func (s *service) findAdmin(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	admin, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "admin not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading admin")
	}
	return admin, nil
}

func (s *service) ensureNotLastOwner(ctx context.Context) error {
	owners, err := s.repo.CountOwners(ctx)
	if err != nil {
		return err
	}
	if owners <= 1 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot remove the last owner")
	}
	return nil
}

func requireOwner(role enums.AdminRole) error {
	if role != enums.AdminRoleOwner {
		return pkgerrors.New(pkgerrors.CodeForbidden, "owner role required")
	}
	return nil
}
