package server_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/emreb/cinematch/internal/app"
	"github.com/emreb/cinematch/internal/cache"
	"github.com/emreb/cinematch/internal/classifier"
	"github.com/emreb/cinematch/internal/config"
	"github.com/emreb/cinematch/internal/db"
	"github.com/emreb/cinematch/internal/server"
	"github.com/emreb/cinematch/internal/service/collection"
	"github.com/emreb/cinematch/internal/service/game"
)

type stubAnalyzer struct{}

func (stubAnalyzer) Analyze(ctx context.Context, text string) (string, error) {
	return classifier.LabelPositive, nil
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbase, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared&_foreign_keys=1"), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(dbase))
	require.NoError(t, db.SeedMinimalTestData(dbase))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	appCtx := app.New(dbase, cache.NewRedisCache(cfg), slog.New(slog.NewTextHandler(io.Discard, nil)))
	return server.Router(appCtx, game.NewService(appCtx, stubAnalyzer{}), collection.NewService(appCtx))
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLoginEndpoint(t *testing.T) {
	router := setupRouter(t)

	// missing username is a validation error
	w := doJSON(t, router, http.MethodPost, "/login", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// new username creates a user
	w = doJSON(t, router, http.MethodPost, "/login", `{"username":"cem"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var first struct {
		ID       uint64 `json:"id"`
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.Equal(t, "cem", first.Username)
	assert.NotZero(t, first.ID)

	// same username returns the same id
	w = doJSON(t, router, http.MethodPost, "/login", `{"username":"cem"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var second struct {
		ID uint64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.Equal(t, first.ID, second.ID)
}

func TestGetGameMovies(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodGet, "/get-game-movies", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	var movies []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &movies))
	assert.Len(t, movies, 5)
}

// Filters that match nothing are 200 with an empty array, not a 404.
func TestGetGameMoviesEmptyResult(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodGet, "/get-game-movies?platforms=Disney+Plus", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestSaveMatchAndLibrary(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/save-match", `{"user_id":1,"movie_id":1}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/save-match", `{"user_id":1,"movie_id":2,"partner_id":1}`)
	require.Equal(t, http.StatusOK, w.Code)

	// solo view excludes the partnered like
	w = doJSON(t, router, http.MethodGet, "/get-library?user_id=1&partner_id=solo", "")
	require.Equal(t, http.StatusOK, w.Code)

	var items []struct {
		ID uint64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, uint64(1), items[0].ID)

	w = doJSON(t, router, http.MethodGet, "/get-library?user_id=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	assert.Len(t, items, 2)
}

func TestGetLibraryBadPartnerParam(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodGet, "/get-library?user_id=1&partner_id=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProfileValidation(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodGet, "/get-profile", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/get-profile?user_id=1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var profile struct {
		Username    string `json:"username"`
		PartnerName string `json:"partner_name"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "ayse", profile.Username)
	assert.Equal(t, "Deniz", profile.PartnerName)
}

func TestGetMovie(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodGet, "/get-movie", "")
	require.Equal(t, http.StatusOK, w.Code)

	var pick struct {
		Movie struct {
			ID    uint64 `json:"id"`
			Title string `json:"title"`
		} `json:"movie"`
		Sentiment  string `json:"sentiment"`
		Commentary string `json:"commentary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pick))
	assert.NotZero(t, pick.Movie.ID)
	assert.Equal(t, classifier.LabelPositive, pick.Sentiment)
	assert.NotEmpty(t, pick.Commentary)
}

func TestHealthz(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
