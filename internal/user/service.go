// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"log/slog"

	"github.com/biolink-labs/biolink-api/internal/core"
	"github.com/biolink-labs/biolink-api/internal/i18n"
	"github.com/biolink-labs/biolink-api/internal/storage"
)

// PageRemover removes every page a user owns. Implemented by the page
// service; wired at startup to keep the dependency one-directional.
type PageRemover interface {
	DeleteAllByUser(ctx context.Context, userID string) (int64, error)
}

type Service struct {
	repo    Repository
	pages   PageRemover
	storage storage.Deleter
	tasks   *core.TaskRunner
	logger  *slog.Logger
}

func NewService(
	repo Repository,
	pages PageRemover,
	deleter storage.Deleter,
	tasks *core.TaskRunner,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		repo:    repo,
		pages:   pages,
		storage: deleter,
		tasks:   tasks,
		logger:  logger,
	}
}

// SetPageRemover wires the page cascade after both services exist. The page
// service needs this service for ownership checks, so the two are
// constructed first and linked second.
func (s *Service) SetPageRemover(pages PageRemover) {
	s.pages = pages
}

// CreateAccount registers the profile document for a fresh sign-up. Privacy
// agreement is implied by completing registration.
func (s *Service) CreateAccount(
	ctx context.Context,
	email, firstName, lastName, authID string,
) (string, error) {
	u := &User{
		AuthID:       authID,
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		AgreePrivacy: true,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return "", err
	}

	return u.ID.Hex(), nil
}

// AccountByEmail resolves the account identifiers used in token claims.
func (s *Service) AccountByEmail(
	ctx context.Context,
	email string,
) (string, string, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", "", err
	}

	return u.ID.Hex(), u.AuthID, nil
}

// AccountByID is the inverse lookup, used on token refresh.
func (s *Service) AccountByID(
	ctx context.Context,
	userID string,
) (string, string, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", "", err
	}

	return u.Email, u.AuthID, nil
}

// EmailByID resolves the stored email for userID. The page service uses it
// for ownership checks.
func (s *Service) EmailByID(ctx context.Context, userID string) (string, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	return u.Email, nil
}

// Get looks a user up by the first present selector: id, then email, then
// auth id. At least one must be given.
func (s *Service) Get(
	ctx context.Context,
	msgs i18n.Messages,
	id, email, authID string,
) (*User, error) {
	var (
		u   *User
		err error
	)

	switch {
	case id != "":
		u, err = s.repo.GetByID(ctx, id)
	case email != "":
		u, err = s.repo.GetByEmail(ctx, email)
	case authID != "":
		u, err = s.repo.GetByAuthID(ctx, authID)
	default:
		return nil, core.BadRequestError(msgs.EmailOrAuthID)
	}

	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundError(msgs.UserNotFound)
	}
	if err != nil {
		return nil, core.InternalError(msgs.InternalError, err.Error())
	}

	return u, nil
}

// Exists reports whether a user with the given id or email is registered.
// Lookup failures count as absent.
func (s *Service) Exists(ctx context.Context, id, email string) bool {
	if id != "" {
		if _, err := s.repo.GetByID(ctx, id); err == nil {
			return true
		}
	}

	if email != "" {
		if _, err := s.repo.GetByEmail(ctx, email); err == nil {
			return true
		}
	}

	return false
}

// Create registers a new account. The token's auth id must match the
// payload's when both are present.
func (s *Service) Create(
	ctx context.Context,
	tokenAuthID string,
	msgs i18n.Messages,
	req *UserRequest,
) (*User, error) {
	if tokenAuthID != "" && req.AuthID != "" && tokenAuthID != req.AuthID {
		return nil, core.UnauthorizedError(msgs.NotAuthorized)
	}

	u := req.ToUser()

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.BadRequestError(msgs.UserCreating)
		}
		return nil, core.InternalError(msgs.InternalError, err.Error())
	}

	return u, nil
}

// Update replaces the stored record but always keeps the stored email:
// email changes would orphan the identity-provider link.
func (s *Service) Update(
	ctx context.Context,
	tokenAuthID string,
	msgs i18n.Messages,
	req *UserRequest,
) (*User, error) {
	if tokenAuthID != "" && req.AuthID != "" && tokenAuthID != req.AuthID {
		return nil, core.UnauthorizedError(msgs.NotAuthorized)
	}

	u := req.ToUser()

	existing, err := s.repo.GetByID(ctx, u.ID.Hex())
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundError(msgs.UserNotFound)
	}
	if err != nil {
		return nil, core.InternalError(msgs.InternalError, err.Error())
	}

	u.Email = existing.Email
	u.CreatedAt = existing.CreatedAt
	if u.PaymentID == "" {
		u.PaymentID = existing.PaymentID
	}

	updated, err := s.repo.Update(ctx, u)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundError(msgs.UserNotFound)
	}
	if err != nil {
		return nil, core.InternalError(msgs.InternalError, err.Error())
	}

	return updated, nil
}

// UpdatePaymentID links the billing customer id to the account. Called by
// the payments service through the system surface.
func (s *Service) UpdatePaymentID(
	ctx context.Context,
	msgs i18n.Messages,
	email, paymentID string,
) (*User, error) {
	updated, err := s.repo.UpdatePaymentID(ctx, email, paymentID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundError(msgs.UserNotFound)
	}
	if err != nil {
		return nil, core.InternalError(msgs.InternalError, err.Error())
	}

	return updated, nil
}

// CompleteOnboarding marks one guided tour finished.
func (s *Service) CompleteOnboarding(
	ctx context.Context,
	msgs i18n.Messages,
	userID, event string,
) (*User, error) {
	updated, err := s.repo.SetOnboardingCompleted(ctx, userID, event)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundError(msgs.UserNotFound)
	}
	if err != nil {
		return nil, core.InternalError(msgs.InternalError, err.Error())
	}

	return updated, nil
}

// Delete removes the account and cascades: all pages go synchronously, the
// storage folder cleanup is dispatched best-effort. The token's auth id
// must match the one being deleted.
func (s *Service) Delete(
	ctx context.Context,
	tokenAuthID string,
	msgs i18n.Messages,
	userID, authID string,
) (*DeleteResult, error) {
	if userID == "" || authID == "" {
		return nil, core.BadRequestError(msgs.UserIDMissing)
	}

	if tokenAuthID != "" && tokenAuthID != authID {
		return nil, core.UnauthorizedError(msgs.NotAuthorized)
	}

	usersDeleted, err := s.repo.Delete(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundError(msgs.UserNotFound)
	}
	if err != nil {
		return nil, core.InternalError(msgs.InternalError, err.Error())
	}

	var pagesDeleted int64
	if s.pages != nil {
		pagesDeleted, err = s.pages.DeleteAllByUser(ctx, userID)
		if err != nil {
			s.logger.Warn("user delete: page cascade failed",
				"user_id", userID,
				"error", err,
			)
		}
	}

	s.tasks.Go("delete-user-storage", func(ctx context.Context) error {
		return s.storage.DeleteUserFolder(ctx, userID)
	})

	return &DeleteResult{
		UsersDeletedCount: usersDeleted,
		PagesDeletedCount: pagesDeleted,
	}, nil
}
