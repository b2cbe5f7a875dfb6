// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/biolink-labs/biolink-api/internal/core"
	"github.com/biolink-labs/biolink-api/internal/i18n"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*User)}
}

func (f *fakeUserRepo) Create(_ context.Context, u *User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.users {
		if existing.Email == u.Email || existing.AuthID == u.AuthID {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
	}

	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}

	stored := *u
	f.users[u.ID.Hex()] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}

	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}

	return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
}

func (f *fakeUserRepo) GetByAuthID(_ context.Context, authID string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.AuthID == authID {
			copied := *u
			return &copied, nil
		}
	}

	return nil, fmt.Errorf("get user by auth id: %w", core.ErrNotFound)
}

func (f *fakeUserRepo) Update(_ context.Context, u *User) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[u.ID.Hex()]; !ok {
		return nil, fmt.Errorf("update user: %w", core.ErrNotFound)
	}

	stored := *u
	f.users[u.ID.Hex()] = &stored

	copied := stored
	return &copied, nil
}

func (f *fakeUserRepo) UpdatePaymentID(
	_ context.Context,
	email, paymentID string,
) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email {
			u.PaymentID = paymentID
			copied := *u
			return &copied, nil
		}
	}

	return nil, fmt.Errorf("update payment id: %w", core.ErrNotFound)
}

func (f *fakeUserRepo) SetOnboardingCompleted(
	_ context.Context,
	id, event string,
) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("set onboarding: %w", core.ErrNotFound)
	}

	if u.Onboardings == nil {
		u.Onboardings = &Onboardings{}
	}

	state := OnboardingState{Completed: true, CompletedAt: time.Now()}
	switch event {
	case "pageList":
		u.Onboardings.PageList = state
	case "pageEditor":
		u.Onboardings.PageEditor = state
	}

	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[id]; !ok {
		return 0, fmt.Errorf("delete user: %w", core.ErrNotFound)
	}

	delete(f.users, id)
	return 1, nil
}

type fakePages struct {
	mu      sync.Mutex
	byUser  map[string]int64
	removed []string
}

func (f *fakePages) DeleteAllByUser(
	_ context.Context,
	userID string,
) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.removed = append(f.removed, userID)
	return f.byUser[userID], nil
}

type fakeStorage struct {
	mu      sync.Mutex
	folders []string
}

func (f *fakeStorage) DeleteObject(_ context.Context, _ string) error {
	return nil
}

func (f *fakeStorage) DeleteUserFolder(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.folders = append(f.folders, userID)
	return nil
}

type userFixture struct {
	svc     *Service
	repo    *fakeUserRepo
	pages   *fakePages
	storage *fakeStorage
	tasks   *core.TaskRunner
}

func newUserFixture() *userFixture {
	repo := newFakeUserRepo()
	pages := &fakePages{byUser: map[string]int64{}}
	st := &fakeStorage{}
	tasks := core.NewTaskRunner(time.Second, nil)

	svc := NewService(repo, nil, st, tasks, nil)
	svc.SetPageRemover(pages)

	return &userFixture{
		svc:     svc,
		repo:    repo,
		pages:   pages,
		storage: st,
		tasks:   tasks,
	}
}

func seededRequest() *UserRequest {
	agree := true
	comms := false
	return &UserRequest{
		AuthID:                "auth-12345",
		Email:                 "owner@example.com",
		FirstName:             "Ana",
		LastName:              "Silva",
		AgreePrivacy:          &agree,
		ReceiveCommunications: &comms,
	}
}

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("registers and assigns id", func(t *testing.T) {
		fx := newUserFixture()

		u, err := fx.svc.Create(ctx, "auth-12345", i18n.EN, seededRequest())

		require.NoError(t, err)
		assert.False(t, u.ID.IsZero())
		assert.Equal(t, "owner@example.com", u.Email)
		assert.True(t, u.AgreePrivacy)
	})

	t.Run("token auth id mismatch is rejected", func(t *testing.T) {
		fx := newUserFixture()

		_, err := fx.svc.Create(ctx, "auth-other", i18n.EN, seededRequest())

		var appErr *core.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 401, appErr.StatusCode)
	})

	t.Run("duplicate email is 400", func(t *testing.T) {
		fx := newUserFixture()

		_, err := fx.svc.Create(ctx, "auth-12345", i18n.EN, seededRequest())
		require.NoError(t, err)

		_, err = fx.svc.Create(ctx, "auth-12345", i18n.EN, seededRequest())

		var appErr *core.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.StatusCode)
		assert.Equal(t, "Error creating user.", appErr.Message)
	})
}

func TestServiceGet(t *testing.T) {
	ctx := context.Background()

	t.Run("selector priority id first", func(t *testing.T) {
		fx := newUserFixture()
		created, err := fx.svc.Create(ctx, "", i18n.EN, seededRequest())
		require.NoError(t, err)

		u, err := fx.svc.Get(ctx, i18n.EN, created.ID.Hex(), "wrong@example.com", "")

		require.NoError(t, err)
		assert.Equal(t, "owner@example.com", u.Email)
	})

	t.Run("falls back to email then auth id", func(t *testing.T) {
		fx := newUserFixture()
		_, err := fx.svc.Create(ctx, "", i18n.EN, seededRequest())
		require.NoError(t, err)

		byEmail, err := fx.svc.Get(ctx, i18n.EN, "", "owner@example.com", "")
		require.NoError(t, err)

		byAuth, err := fx.svc.Get(ctx, i18n.EN, "", "", "auth-12345")
		require.NoError(t, err)

		assert.Equal(t, byEmail.ID, byAuth.ID)
	})

	t.Run("no selector is 400", func(t *testing.T) {
		fx := newUserFixture()

		_, err := fx.svc.Get(ctx, i18n.EN, "", "", "")

		var appErr *core.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.StatusCode)
	})

	t.Run("unknown user is 400 not 404", func(t *testing.T) {
		fx := newUserFixture()

		_, err := fx.svc.Get(
			ctx,
			i18n.EN,
			primitive.NewObjectID().Hex(),
			"",
			"",
		)

		var appErr *core.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.StatusCode)
	})
}

func TestServiceExists(t *testing.T) {
	ctx := context.Background()
	fx := newUserFixture()

	created, err := fx.svc.Create(ctx, "", i18n.EN, seededRequest())
	require.NoError(t, err)

	assert.True(t, fx.svc.Exists(ctx, created.ID.Hex(), ""))
	assert.True(t, fx.svc.Exists(ctx, "", "owner@example.com"))
	assert.False(t, fx.svc.Exists(ctx, primitive.NewObjectID().Hex(), ""))
	assert.False(t, fx.svc.Exists(ctx, "", ""))
}

func TestServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("stored email always wins", func(t *testing.T) {
		fx := newUserFixture()
		created, err := fx.svc.Create(ctx, "", i18n.EN, seededRequest())
		require.NoError(t, err)

		req := seededRequest()
		req.ID = created.ID.Hex()
		req.Email = "hijacked@example.com"
		req.FirstName = "Updated"

		updated, err := fx.svc.Update(ctx, "auth-12345", i18n.EN, req)

		require.NoError(t, err)
		assert.Equal(t, "owner@example.com", updated.Email)
		assert.Equal(t, "Updated", updated.FirstName)
	})

	t.Run("payment id survives profile updates", func(t *testing.T) {
		fx := newUserFixture()
		created, err := fx.svc.Create(ctx, "", i18n.EN, seededRequest())
		require.NoError(t, err)

		_, err = fx.svc.UpdatePaymentID(
			ctx,
			i18n.EN,
			"owner@example.com",
			"cus_123",
		)
		require.NoError(t, err)

		req := seededRequest()
		req.ID = created.ID.Hex()

		updated, err := fx.svc.Update(ctx, "auth-12345", i18n.EN, req)

		require.NoError(t, err)
		assert.Equal(t, "cus_123", updated.PaymentID)
	})

	t.Run("unknown user is 400", func(t *testing.T) {
		fx := newUserFixture()

		req := seededRequest()
		req.ID = primitive.NewObjectID().Hex()

		_, err := fx.svc.Update(ctx, "auth-12345", i18n.EN, req)

		var appErr *core.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.StatusCode)
	})
}

func TestServiceCompleteOnboarding(t *testing.T) {
	ctx := context.Background()
	fx := newUserFixture()

	created, err := fx.svc.Create(ctx, "", i18n.EN, seededRequest())
	require.NoError(t, err)

	updated, err := fx.svc.CompleteOnboarding(
		ctx,
		i18n.EN,
		created.ID.Hex(),
		"pageEditor",
	)

	require.NoError(t, err)
	require.NotNil(t, updated.Onboardings)
	assert.True(t, updated.Onboardings.PageEditor.Completed)
	assert.False(t, updated.Onboardings.PageList.Completed)
}

func TestServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("cascades pages and reports counts", func(t *testing.T) {
		fx := newUserFixture()
		created, err := fx.svc.Create(ctx, "", i18n.EN, seededRequest())
		require.NoError(t, err)

		fx.pages.byUser[created.ID.Hex()] = 3

		result, err := fx.svc.Delete(
			ctx,
			"auth-12345",
			i18n.EN,
			created.ID.Hex(),
			"auth-12345",
		)
		require.NoError(t, err)

		assert.Equal(t, int64(1), result.UsersDeletedCount)
		assert.Equal(t, int64(3), result.PagesDeletedCount)
		assert.False(t, fx.svc.Exists(ctx, created.ID.Hex(), ""))

		fx.tasks.Wait()
		assert.Equal(t, []string{created.ID.Hex()}, fx.storage.folders)
	})

	t.Run("token auth id mismatch is 401", func(t *testing.T) {
		fx := newUserFixture()
		created, err := fx.svc.Create(ctx, "", i18n.EN, seededRequest())
		require.NoError(t, err)

		_, err = fx.svc.Delete(
			ctx,
			"auth-other",
			i18n.EN,
			created.ID.Hex(),
			"auth-12345",
		)

		var appErr *core.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 401, appErr.StatusCode)
	})

	t.Run("missing identifiers is 400", func(t *testing.T) {
		fx := newUserFixture()

		_, err := fx.svc.Delete(ctx, "auth-12345", i18n.EN, "", "auth-12345")

		var appErr *core.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.StatusCode)
	})
}
