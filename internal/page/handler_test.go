// AngelaMos | 2026
// handler_test.go

package page

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/biolink-labs/biolink-api/internal/core"
	"github.com/biolink-labs/biolink-api/internal/entitlement"
	"github.com/biolink-labs/biolink-api/internal/middleware"
)

// stubAuth injects a fixed identity the way the real authenticator does
// after verifying a bearer token.
func stubAuth(actor Actor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ctx = context.WithValue(ctx, middleware.UserIDKey, actor.UserID)
			ctx = context.WithValue(ctx, middleware.UserEmailKey, actor.Email)
			ctx = context.WithValue(ctx, middleware.AuthIDKey, actor.AuthID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newTestRouter(fx *fixture) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Lang)
	NewHandler(fx.svc).RegisterRoutes(r, stubAuth(owner()))
	return r
}

func doJSON(
	t *testing.T,
	router chi.Router,
	method, path string,
	body any,
) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandlerCreate(t *testing.T) {
	t.Run("end to end create normalizes url", func(t *testing.T) {
		fx := newFixture()
		router := newTestRouter(fx)

		rec := doJSON(t, router, http.MethodPost, "/page", map[string]any{
			"userId":   "u1",
			"name":     "My Page",
			"url":      "/slug",
			"isPublic": true,
			"views":    0,
		})

		require.Equal(t, http.StatusOK, rec.Code)

		var created Page
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, "slug", created.URL)
		assert.False(t, created.ID.IsZero())
	})

	t.Run("duplicate url returns 400", func(t *testing.T) {
		fx := newFixture()
		fx.plans.feats["u1"] = &entitlement.Features{MaxPages: 10}
		router := newTestRouter(fx)

		payload := map[string]any{
			"userId":   "u1",
			"name":     "My Page",
			"url":      "/slug",
			"isPublic": true,
			"views":    0,
		}

		rec := doJSON(t, router, http.MethodPost, "/page", payload)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, router, http.MethodPost, "/page", payload)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var appErr core.AppError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &appErr))
		assert.Equal(t, "URL already exist.", appErr.Message)
		assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	})

	t.Run("missing required fields is 400", func(t *testing.T) {
		fx := newFixture()
		router := newTestRouter(fx)

		rec := doJSON(t, router, http.MethodPost, "/page", map[string]any{
			"userId": "u1",
			"name":   "My Page",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandlerReads(t *testing.T) {
	t.Run("unknown id returns 400 shape, not 500", func(t *testing.T) {
		fx := newFixture()
		router := newTestRouter(fx)

		rec := doJSON(t, router, http.MethodGet,
			"/page/id/"+primitive.NewObjectID().Hex(), nil)

		require.Equal(t, http.StatusBadRequest, rec.Code)

		var appErr core.AppError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &appErr))
		assert.Equal(t, "Page not found.", appErr.Message)
		assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	})

	t.Run("unknown url returns 400 shape", func(t *testing.T) {
		fx := newFixture()
		router := newTestRouter(fx)

		rec := doJSON(t, router, http.MethodGet, "/page/url/ghost", nil)

		require.Equal(t, http.StatusBadRequest, rec.Code)

		var appErr core.AppError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &appErr))
		assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	})

	t.Run("localized message for pt lang header", func(t *testing.T) {
		fx := newFixture()
		router := newTestRouter(fx)

		req := httptest.NewRequest(http.MethodGet, "/page/url/ghost", nil)
		req.Header.Set("lang", "pt")

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		var appErr core.AppError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &appErr))
		assert.Equal(t, "Página não encontrada.", appErr.Message)
	})
}

func TestHandlerComponentClicks(t *testing.T) {
	t.Run("unknown page still answers 200", func(t *testing.T) {
		fx := newFixture()
		router := newTestRouter(fx)

		rec := doJSON(t, router, http.MethodPost, "/page/component-clicks",
			map[string]any{
				"pageId":      primitive.NewObjectID().Hex(),
				"componentId": "c1",
			})

		require.Equal(t, http.StatusOK, rec.Code)

		var resp core.MessageResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Component clicks registered.", resp.Message)
	})

	t.Run("known component increments and answers 200", func(t *testing.T) {
		fx := newFixture()
		router := newTestRouter(fx)

		rec := doJSON(t, router, http.MethodPost, "/page", map[string]any{
			"userId":           "u1",
			"name":             "My Page",
			"url":              "clicks",
			"isPublic":         true,
			"views":            0,
			"middleComponents": []map[string]any{{"text": "link"}},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var created Page
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

		rec = doJSON(t, router, http.MethodPost, "/page/component-clicks",
			map[string]any{
				"pageId":      created.ID.Hex(),
				"componentId": created.MiddleComponents[0].ID,
			})

		require.Equal(t, http.StatusOK, rec.Code)

		stored, err := fx.repo.GetByID(
			context.Background(),
			created.ID.Hex(),
		)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stored.MiddleComponents[0].Clicks)
	})

	t.Run("missing body fields is 400", func(t *testing.T) {
		fx := newFixture()
		router := newTestRouter(fx)

		rec := doJSON(t, router, http.MethodPost, "/page/component-clicks",
			map[string]any{"pageId": "only"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandlerDelete(t *testing.T) {
	t.Run("returns message envelope", func(t *testing.T) {
		fx := newFixture()
		router := newTestRouter(fx)

		rec := doJSON(t, router, http.MethodPost, "/page", map[string]any{
			"userId":   "u1",
			"name":     "My Page",
			"url":      "gone",
			"isPublic": true,
			"views":    0,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var created Page
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

		rec = doJSON(t, router, http.MethodDelete,
			"/page/id/"+created.ID.Hex(), nil)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp core.MessageResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Page successfully deleted.", resp.Message)
	})
}
