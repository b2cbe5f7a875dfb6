// AngelaMos | 2026
// service_test.go

package page

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/biolink-labs/biolink-api/internal/core"
	"github.com/biolink-labs/biolink-api/internal/entitlement"
	"github.com/biolink-labs/biolink-api/internal/i18n"
)

type fakeRepo struct {
	mu    sync.Mutex
	pages map[string]*Page
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{pages: make(map[string]*Page)}
}

func (f *fakeRepo) Create(_ context.Context, p *Page) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}

	for _, existing := range f.pages {
		if existing.URL == p.URL {
			return fmt.Errorf("create page: %w", core.ErrDuplicateKey)
		}
	}

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	stored := *p
	f.pages[p.ID.Hex()] = &stored
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.pages[id]
	if !ok {
		return nil, fmt.Errorf("get page: %w", core.ErrNotFound)
	}

	copied := *p
	return &copied, nil
}

func (f *fakeRepo) GetByURL(_ context.Context, url string) (*Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.pages {
		if p.URL == url {
			copied := *p
			return &copied, nil
		}
	}

	return nil, fmt.Errorf("get page by url: %w", core.ErrNotFound)
}

func (f *fakeRepo) ListByUser(_ context.Context, userID string) ([]Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var pages []Page
	for _, p := range f.pages {
		if p.UserID == userID {
			pages = append(pages, *p)
		}
	}

	return pages, nil
}

func (f *fakeRepo) CountByUser(_ context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, p := range f.pages {
		if p.UserID == userID {
			count++
		}
	}

	return count, nil
}

func (f *fakeRepo) ExistsByURL(_ context.Context, url string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.pages {
		if p.URL == url {
			return true, nil
		}
	}

	return false, nil
}

func (f *fakeRepo) Update(_ context.Context, p *Page) (*Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.pages[p.ID.Hex()]; !ok {
		return nil, fmt.Errorf("update page: %w", core.ErrNotFound)
	}

	p.UpdatedAt = time.Now().UTC()

	stored := *p
	f.pages[p.ID.Hex()] = &stored

	copied := stored
	return &copied, nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.pages[id]; !ok {
		return fmt.Errorf("delete page: %w", core.ErrNotFound)
	}

	delete(f.pages, id)
	return nil
}

func (f *fakeRepo) DeleteAllByUser(
	_ context.Context,
	userID string,
) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for id, p := range f.pages {
		if p.UserID == userID {
			delete(f.pages, id)
			count++
		}
	}

	return count, nil
}

func (f *fakeRepo) IncrementViews(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.pages[id]
	if !ok {
		return fmt.Errorf("increment views: %w", core.ErrNotFound)
	}

	p.Views++
	return nil
}

func (f *fakeRepo) views(id string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pages[id].Views
}

type fakeUsers struct {
	emails map[string]string
}

func (f *fakeUsers) EmailByID(_ context.Context, userID string) (string, error) {
	email, ok := f.emails[userID]
	if !ok {
		return "", fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	return email, nil
}

type fakeResolver struct {
	feats map[string]*entitlement.Features
}

func (f *fakeResolver) Resolve(
	_ context.Context,
	userID string,
) *entitlement.Features {
	return f.feats[userID]
}

type fakeDeleter struct {
	mu      sync.Mutex
	deleted []string
	folders []string
	fail    bool
}

func (f *fakeDeleter) DeleteObject(_ context.Context, objectURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleted = append(f.deleted, objectURL)
	if f.fail {
		return errors.New("storage unavailable")
	}
	return nil
}

func (f *fakeDeleter) DeleteUserFolder(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.folders = append(f.folders, userID)
	return nil
}

func (f *fakeDeleter) deletedURLs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, len(f.deleted))
	copy(out, f.deleted)
	return out
}

type fixture struct {
	svc     *Service
	repo    *fakeRepo
	users   *fakeUsers
	plans   *fakeResolver
	deleter *fakeDeleter
	tasks   *core.TaskRunner
}

func newFixture() *fixture {
	repo := newFakeRepo()
	users := &fakeUsers{emails: map[string]string{"u1": "owner@example.com"}}
	plans := &fakeResolver{feats: map[string]*entitlement.Features{}}
	deleter := &fakeDeleter{}
	tasks := core.NewTaskRunner(time.Second, nil)

	return &fixture{
		svc:     NewService(repo, users, plans, deleter, tasks, nil),
		repo:    repo,
		users:   users,
		plans:   plans,
		deleter: deleter,
		tasks:   tasks,
	}
}

func owner() Actor {
	return Actor{
		UserID: "u1",
		Email:  "owner@example.com",
		AuthID: "auth-12345",
	}
}

func validRequest(url string) *PageRequest {
	isPublic := true
	views := int64(0)
	return &PageRequest{
		UserID:   "u1",
		Name:     "My Page",
		URL:      url,
		IsPublic: &isPublic,
		Views:    &views,
	}
}

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("strips exactly one leading slash", func(t *testing.T) {
		fx := newFixture()

		p, err := fx.svc.Create(ctx, owner(), i18n.EN, validRequest("/slug"))

		require.NoError(t, err)
		assert.Equal(t, "slug", p.URL)
	})

	t.Run("second leading slash survives", func(t *testing.T) {
		fx := newFixture()

		p, err := fx.svc.Create(ctx, owner(), i18n.EN, validRequest("//slug"))

		require.NoError(t, err)
		assert.Equal(t, "/slug", p.URL)
	})

	t.Run("duplicate url rejected with 400", func(t *testing.T) {
		fx := newFixture()
		fx.plans.feats["u1"] = &entitlement.Features{MaxPages: 10}

		_, err := fx.svc.Create(ctx, owner(), i18n.EN, validRequest("taken"))
		require.NoError(t, err)

		_, err = fx.svc.Create(ctx, owner(), i18n.EN, validRequest("/taken"))
		require.Error(t, err)

		var appErr *core.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.StatusCode)
		assert.Equal(t, "URL already exist.", appErr.Message)
	})

	t.Run("url match is case sensitive", func(t *testing.T) {
		fx := newFixture()
		fx.plans.feats["u1"] = &entitlement.Features{MaxPages: 10}

		_, err := fx.svc.Create(ctx, owner(), i18n.EN, validRequest("slug"))
		require.NoError(t, err)

		_, err = fx.svc.Create(ctx, owner(), i18n.EN, validRequest("Slug"))
		assert.NoError(t, err)
	})

	t.Run("quota without plan allows only first page", func(t *testing.T) {
		fx := newFixture()

		_, err := fx.svc.Create(ctx, owner(), i18n.EN, validRequest("one"))
		require.NoError(t, err)

		_, err = fx.svc.Create(ctx, owner(), i18n.EN, validRequest("two"))
		require.Error(t, err)

		var appErr *core.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 403, appErr.StatusCode)
		assert.ErrorIs(t, err, core.ErrQuotaExceeded)
	})

	t.Run("gated fields stripped without plan", func(t *testing.T) {
		fx := newFixture()

		req := validRequest("gated")
		req.TopComponents = []Component{
			{Animation: &Animation{Name: "fade"}, LaunchDate: "2026-09-01"},
		}
		req.CustomScripts = &CustomScripts{Header: "<script></script>"}

		p, err := fx.svc.Create(ctx, owner(), i18n.EN, req)

		require.NoError(t, err)
		assert.Nil(t, p.TopComponents[0].Animation)
		assert.Empty(t, p.TopComponents[0].LaunchDate)
		assert.Nil(t, p.CustomScripts)
	})

	t.Run("components get ids assigned", func(t *testing.T) {
		fx := newFixture()

		req := validRequest("withcomp")
		req.MiddleComponents = []Component{{Text: "link"}}

		p, err := fx.svc.Create(ctx, owner(), i18n.EN, req)

		require.NoError(t, err)
		assert.NotEmpty(t, p.MiddleComponents[0].ID)
	})

	t.Run("mismatched owner rejected with 403", func(t *testing.T) {
		fx := newFixture()
		fx.users.emails["u2"] = "other@example.com"

		req := validRequest("foreign")
		req.UserID = "u2"

		_, err := fx.svc.Create(ctx, owner(), i18n.EN, req)

		var appErr *core.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 403, appErr.StatusCode)
	})

	t.Run("missing owner record rejected with 401", func(t *testing.T) {
		fx := newFixture()

		req := validRequest("ghost")
		req.UserID = "missing"

		_, err := fx.svc.Create(ctx, owner(), i18n.EN, req)

		var appErr *core.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 401, appErr.StatusCode)
	})
}

func TestServiceListByUser(t *testing.T) {
	ctx := context.Background()

	t.Run("zero pages is an error", func(t *testing.T) {
		fx := newFixture()

		_, err := fx.svc.ListByUser(ctx, owner(), i18n.EN, "u1")

		var appErr *core.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.StatusCode)
		assert.Equal(t, "User has no pages.", appErr.Message)
	})

	t.Run("returns owned pages", func(t *testing.T) {
		fx := newFixture()
		fx.plans.feats["u1"] = &entitlement.Features{MaxPages: 5}

		_, err := fx.svc.Create(ctx, owner(), i18n.EN, validRequest("a"))
		require.NoError(t, err)
		_, err = fx.svc.Create(ctx, owner(), i18n.EN, validRequest("b"))
		require.NoError(t, err)

		pages, err := fx.svc.ListByUser(ctx, owner(), i18n.EN, "u1")

		require.NoError(t, err)
		assert.Len(t, pages, 2)
	})
}

func TestServiceRenderer(t *testing.T) {
	ctx := context.Background()

	t.Run("increments views when owner plan has analytics", func(t *testing.T) {
		fx := newFixture()
		fx.plans.feats["u1"] = &entitlement.Features{
			MaxPages:  5,
			Analytics: true,
		}

		created, err := fx.svc.Create(ctx, owner(), i18n.EN, validRequest("viewme"))
		require.NoError(t, err)

		p, err := fx.svc.GetRendererByURL(ctx, i18n.EN, "viewme")
		require.NoError(t, err)
		assert.Equal(t, created.ID, p.ID)

		fx.tasks.Wait()
		assert.Equal(t, int64(1), fx.repo.views(created.ID.Hex()))
	})

	t.Run("no increment without analytics", func(t *testing.T) {
		fx := newFixture()
		fx.plans.feats["u1"] = &entitlement.Features{MaxPages: 5}

		created, err := fx.svc.Create(ctx, owner(), i18n.EN, validRequest("plain"))
		require.NoError(t, err)

		_, err = fx.svc.GetRendererByURL(ctx, i18n.EN, "plain")
		require.NoError(t, err)

		fx.tasks.Wait()
		assert.Equal(t, int64(0), fx.repo.views(created.ID.Hex()))
	})

	t.Run("plain url read never counts a view", func(t *testing.T) {
		fx := newFixture()
		fx.plans.feats["u1"] = &entitlement.Features{
			MaxPages:  5,
			Analytics: true,
		}

		created, err := fx.svc.Create(ctx, owner(), i18n.EN, validRequest("noview"))
		require.NoError(t, err)

		_, err = fx.svc.GetByURL(ctx, i18n.EN, "noview")
		require.NoError(t, err)

		fx.tasks.Wait()
		assert.Equal(t, int64(0), fx.repo.views(created.ID.Hex()))
	})
}

func TestServiceIncrementComponentClicks(t *testing.T) {
	ctx := context.Background()

	t.Run("two sequential increments add exactly two", func(t *testing.T) {
		fx := newFixture()

		req := validRequest("clickme")
		req.MiddleComponents = []Component{{Text: "link"}}

		created, err := fx.svc.Create(ctx, owner(), i18n.EN, req)
		require.NoError(t, err)
		componentID := created.MiddleComponents[0].ID

		assert.True(t, fx.svc.IncrementComponentClicks(
			ctx, created.ID.Hex(), componentID))
		assert.True(t, fx.svc.IncrementComponentClicks(
			ctx, created.ID.Hex(), componentID))

		stored, err := fx.repo.GetByID(ctx, created.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, int64(2), stored.MiddleComponents[0].Clicks)
	})

	t.Run("unknown page reports false without error", func(t *testing.T) {
		fx := newFixture()

		assert.False(t, fx.svc.IncrementComponentClicks(
			ctx, primitive.NewObjectID().Hex(), "c1"))
	})

	t.Run("unknown component reports false", func(t *testing.T) {
		fx := newFixture()

		created, err := fx.svc.Create(ctx, owner(), i18n.EN, validRequest("nocomp"))
		require.NoError(t, err)

		assert.False(t, fx.svc.IncrementComponentClicks(
			ctx, created.ID.Hex(), "missing"))
	})
}

func TestServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("restrips gated fields on downgraded plan", func(t *testing.T) {
		fx := newFixture()
		fx.plans.feats["u1"] = &entitlement.Features{
			MaxPages: 5,
			CustomJS: true,
		}

		req := validRequest("downgraded")
		req.CustomScripts = &CustomScripts{Header: "<script></script>"}

		created, err := fx.svc.Create(ctx, owner(), i18n.EN, req)
		require.NoError(t, err)
		require.NotNil(t, created.CustomScripts)

		// Plan lapses between saves.
		delete(fx.plans.feats, "u1")

		update := validRequest("downgraded")
		update.ID = created.ID.Hex()
		update.CustomScripts = &CustomScripts{Header: "<script></script>"}

		updated, err := fx.svc.Update(ctx, owner(), i18n.EN, update)
		require.NoError(t, err)
		assert.Nil(t, updated.CustomScripts)
	})

	t.Run("keeps the creation timestamp", func(t *testing.T) {
		fx := newFixture()

		created, err := fx.svc.Create(ctx, owner(), i18n.EN, validRequest("kept"))
		require.NoError(t, err)
		require.False(t, created.CreatedAt.IsZero())

		update := validRequest("kept")
		update.ID = created.ID.Hex()
		update.Name = "Renamed"

		updated, err := fx.svc.Update(ctx, owner(), i18n.EN, update)
		require.NoError(t, err)

		assert.Equal(t, created.CreatedAt, updated.CreatedAt)
		assert.Equal(t, "Renamed", updated.Name)
	})

	t.Run("unknown page is a 400", func(t *testing.T) {
		fx := newFixture()

		update := validRequest("nowhere")
		update.ID = primitive.NewObjectID().Hex()

		_, err := fx.svc.Update(ctx, owner(), i18n.EN, update)

		var appErr *core.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.StatusCode)
	})
}

func TestServiceDelete(t *testing.T) {
	ctx := context.Background()

	seedPage := func(fx *fixture) *Page {
		req := validRequest("todelete")
		req.MiddleComponents = []Component{
			{Text: "a", MediaURL: "https://cdn/x.png"},
			{Text: "b", MediaURL: "https://cdn/x.png"},
			{
				Text:  "c",
				Style: &Style{BackgroundImage: "https://cdn/bg.jpg"},
			},
		}

		created, err := fx.svc.Create(ctx, owner(), i18n.EN, req)
		require.NoError(t, err)
		return created
	}

	t.Run("deletes dedup referenced media", func(t *testing.T) {
		fx := newFixture()
		created := seedPage(fx)

		err := fx.svc.Delete(ctx, owner(), i18n.EN, created.ID.Hex())
		require.NoError(t, err)

		fx.tasks.Wait()
		assert.ElementsMatch(t,
			[]string{"https://cdn/x.png", "https://cdn/bg.jpg"},
			fx.deleter.deletedURLs(),
		)

		_, err = fx.repo.GetByID(ctx, created.ID.Hex())
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("storage failure does not fail the delete", func(t *testing.T) {
		fx := newFixture()
		fx.deleter.fail = true
		created := seedPage(fx)

		err := fx.svc.Delete(ctx, owner(), i18n.EN, created.ID.Hex())
		require.NoError(t, err)

		fx.tasks.Wait()
		_, err = fx.repo.GetByID(ctx, created.ID.Hex())
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("rejects caller without plausible identity", func(t *testing.T) {
		tests := []struct {
			name  string
			actor Actor
		}{
			{"both malformed", Actor{Email: "a@b", AuthID: "x1"}},
			{"empty auth id", Actor{Email: "owner@example.com", AuthID: ""}},
			{"short auth id", Actor{Email: "owner@example.com", AuthID: "x1"}},
			{"empty email", Actor{Email: "", AuthID: "auth-12345"}},
			{"short email", Actor{Email: "a@b", AuthID: "auth-12345"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				fx := newFixture()
				created := seedPage(fx)

				err := fx.svc.Delete(ctx, tt.actor, i18n.EN, created.ID.Hex())

				var appErr *core.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, 400, appErr.StatusCode)

				_, getErr := fx.repo.GetByID(ctx, created.ID.Hex())
				assert.NoError(t, getErr)
			})
		}
	})
}
