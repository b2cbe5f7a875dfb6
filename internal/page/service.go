// AngelaMos | 2026
// service.go

package page

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/biolink-labs/biolink-api/internal/core"
	"github.com/biolink-labs/biolink-api/internal/entitlement"
	"github.com/biolink-labs/biolink-api/internal/i18n"
	"github.com/biolink-labs/biolink-api/internal/storage"
)

// Actor is the authenticated caller as resolved from the access token.
type Actor struct {
	UserID string
	Email  string
	AuthID string
}

// UserDirectory resolves a page owner's email for ownership checks.
type UserDirectory interface {
	EmailByID(ctx context.Context, userID string) (string, error)
}

// EntitlementResolver resolves a user's plan features. nil means the most
// restrictive tier.
type EntitlementResolver interface {
	Resolve(ctx context.Context, userID string) *entitlement.Features
}

type Service struct {
	repo         Repository
	users        UserDirectory
	entitlements EntitlementResolver
	storage      storage.Deleter
	tasks        *core.TaskRunner
	logger       *slog.Logger
}

func NewService(
	repo Repository,
	users UserDirectory,
	entitlements EntitlementResolver,
	deleter storage.Deleter,
	tasks *core.TaskRunner,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		repo:         repo,
		users:        users,
		entitlements: entitlements,
		storage:      deleter,
		tasks:        tasks,
		logger:       logger,
	}
}

// Create persists a new page for the actor. The payload's userId must name
// a user whose email matches the token, the actor must have quota left, and
// the url must be free. Plan-gated fields are stripped before the write.
func (s *Service) Create(
	ctx context.Context,
	actor Actor,
	msgs i18n.Messages,
	req *PageRequest,
) (*Page, error) {
	if err := s.verifyOwnership(ctx, actor, msgs, req.UserID); err != nil {
		return nil, err
	}

	count, err := s.repo.CountByUser(ctx, req.UserID)
	if err != nil {
		return nil, core.InternalError(msgs.PageCreating, err.Error())
	}

	feats := s.entitlements.Resolve(ctx, actor.UserID)
	if !CanCreateAnother(count, feats) {
		return nil, core.QuotaExceededError(msgs.PageQuotaReached)
	}

	p := req.ToPage()
	p.URL = strings.TrimPrefix(p.URL, "/")

	exists, err := s.repo.ExistsByURL(ctx, p.URL)
	if err != nil {
		return nil, core.InternalError(msgs.PageCreating, err.Error())
	}
	if exists {
		return nil, core.ConflictError(msgs.PageURLExists)
	}

	ApplyPlanGate(p, feats)
	assignComponentIDs(p)

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.ConflictError(msgs.PageURLExists)
		}
		return nil, core.InternalError(msgs.PageCreating, err.Error())
	}

	return p, nil
}

// GetByID returns a page by document id, public read.
func (s *Service) GetByID(
	ctx context.Context,
	msgs i18n.Messages,
	pageID string,
) (*Page, error) {
	p, err := s.repo.GetByID(ctx, pageID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundError(msgs.PageNotFound)
	}
	if err != nil {
		return nil, core.InternalError(msgs.InternalError, err.Error())
	}

	return p, nil
}

// GetByURL returns a page by its shareable url, public read. No view is
// counted here; only the renderer read counts views.
func (s *Service) GetByURL(
	ctx context.Context,
	msgs i18n.Messages,
	url string,
) (*Page, error) {
	p, err := s.repo.GetByURL(ctx, strings.TrimPrefix(url, "/"))
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundError(msgs.PageNotFound)
	}
	if err != nil {
		return nil, core.InternalError(msgs.InternalError, err.Error())
	}

	return p, nil
}

// GetRendererByURL is the read the public renderer uses. When the page
// owner's plan includes analytics, the view counter is incremented on a
// detached task so a slow or failing write never delays the render.
func (s *Service) GetRendererByURL(
	ctx context.Context,
	msgs i18n.Messages,
	url string,
) (*Page, error) {
	p, err := s.GetByURL(ctx, msgs, url)
	if err != nil {
		return nil, err
	}

	feats := s.entitlements.Resolve(ctx, p.UserID)
	if HasAnalytics(feats) {
		pageID := p.ID.Hex()
		s.tasks.Go("increment-page-views", func(ctx context.Context) error {
			return s.repo.IncrementViews(ctx, pageID)
		})
	}

	return p, nil
}

// ListByUser returns every page owned by userID. The actor must be that
// user; a user without pages is an error, not an empty list.
func (s *Service) ListByUser(
	ctx context.Context,
	actor Actor,
	msgs i18n.Messages,
	userID string,
) ([]Page, error) {
	if err := s.verifyOwnership(ctx, actor, msgs, userID); err != nil {
		return nil, err
	}

	pages, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, core.InternalError(msgs.InternalError, err.Error())
	}

	if len(pages) == 0 {
		return nil, core.BadRequestError(msgs.UserHasNoPages)
	}

	return pages, nil
}

// Update replaces a page the actor owns. The url is not re-checked for
// uniqueness here; the unique index rejects a clashing change. Plan-gated
// fields are stripped before the write, so a downgraded plan loses gated
// content on its next save.
func (s *Service) Update(
	ctx context.Context,
	actor Actor,
	msgs i18n.Messages,
	req *PageRequest,
) (*Page, error) {
	if err := s.verifyOwnership(ctx, actor, msgs, req.UserID); err != nil {
		return nil, err
	}

	p := req.ToPage()
	p.URL = strings.TrimPrefix(p.URL, "/")

	existing, err := s.repo.GetByID(ctx, p.ID.Hex())
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundError(msgs.PageNotFound)
	}
	if err != nil {
		return nil, core.InternalError(msgs.PageUpdating, err.Error())
	}

	// The replace write would otherwise zero the creation timestamp.
	p.CreatedAt = existing.CreatedAt

	feats := s.entitlements.Resolve(ctx, actor.UserID)
	ApplyPlanGate(p, feats)
	assignComponentIDs(p)

	updated, err := s.repo.Update(ctx, p)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundError(msgs.PageNotFound)
	}
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return nil, core.ConflictError(msgs.PageURLExists)
		}
		return nil, core.InternalError(msgs.PageUpdating, err.Error())
	}

	return updated, nil
}

// Delete removes a page and dispatches cleanup of the media its middle
// components reference. The caller only needs a plausible identity, not
// ownership of the page.
func (s *Service) Delete(
	ctx context.Context,
	actor Actor,
	msgs i18n.Messages,
	pageID string,
) error {
	if len(actor.Email) < 5 || len(actor.AuthID) < 5 {
		return core.BadRequestError(msgs.EmailOrAuthID)
	}

	p, err := s.repo.GetByID(ctx, pageID)
	if errors.Is(err, core.ErrNotFound) {
		return core.NotFoundError(msgs.PageNotFound)
	}
	if err != nil {
		return core.InternalError(msgs.PageDeleting, err.Error())
	}

	if err := s.repo.Delete(ctx, pageID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError(msgs.PageNotFound)
		}
		return core.InternalError(msgs.PageDeleting, err.Error())
	}

	for _, objectURL := range mediaURLs(p) {
		objectURL := objectURL
		s.tasks.Go("delete-page-media", func(ctx context.Context) error {
			return s.storage.DeleteObject(ctx, objectURL)
		})
	}

	return nil
}

// IncrementComponentClicks bumps the click counter of one embedded
// component and reports whether anything was recorded. Unknown pages and
// unknown components report false without error; click registration is a
// fire-and-forget signal for the caller.
func (s *Service) IncrementComponentClicks(
	ctx context.Context,
	pageID string,
	componentID string,
) bool {
	p, err := s.repo.GetByID(ctx, pageID)
	if err != nil {
		return false
	}

	c := p.FindComponent(componentID)
	if c == nil {
		return false
	}

	c.Clicks++

	if _, err := s.repo.Update(ctx, p); err != nil {
		s.logger.Warn("component click persist failed",
			"page_id", pageID,
			"component_id", componentID,
			"error", err,
		)
		return false
	}

	return true
}

// DeleteAllByUser removes every page a user owns. Used by the user deletion
// cascade.
func (s *Service) DeleteAllByUser(
	ctx context.Context,
	userID string,
) (int64, error) {
	return s.repo.DeleteAllByUser(ctx, userID)
}

// verifyOwnership checks that the token's email matches the email of the
// user the request claims to act for. A missing owner record is an identity
// failure (401); a mismatch is an ownership failure (403).
func (s *Service) verifyOwnership(
	ctx context.Context,
	actor Actor,
	msgs i18n.Messages,
	userID string,
) error {
	if userID == "" {
		return core.BadRequestError(msgs.UserIDMissing)
	}

	email, err := s.users.EmailByID(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		return core.UnauthorizedError(msgs.UserPageOwnerGone)
	}
	if err != nil {
		return core.InternalError(msgs.InternalError, err.Error())
	}

	if email != actor.Email {
		return core.ForbiddenErrorWithDetails(
			msgs.NotAuthorized,
			msgs.TokenAnotherUser,
		)
	}

	return nil
}

// assignComponentIDs gives every component missing an id a fresh one, so
// click tracking can address components the client created locally.
func assignComponentIDs(p *Page) {
	for _, list := range p.ComponentLists() {
		for i := range list {
			if list[i].ID == "" {
				list[i].ID = primitive.NewObjectID().Hex()
			}
		}
	}
}

// mediaURLs collects the deduplicated media object urls referenced by the
// page's middle components.
func mediaURLs(p *Page) []string {
	seen := make(map[string]struct{})
	var urls []string

	add := func(u string) {
		if u == "" {
			return
		}
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}

	for i := range p.MiddleComponents {
		c := &p.MiddleComponents[i]
		add(c.MediaURL)
		if c.Style != nil {
			add(c.Style.BackgroundImage)
		}
	}

	return urls
}
