package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"conduit/internal/database"
	"conduit/internal/domain"
	"conduit/internal/middleware"
	"conduit/internal/modules/article"
	"conduit/internal/modules/profile"
	"conduit/internal/modules/tag"
	"conduit/internal/modules/user"
	jwtsvc "conduit/internal/pkg/jwt"
	"conduit/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type TestSuite struct {
	router *gin.Engine
	db     *gorm.DB
}

func setupTestSuite(t *testing.T) *TestSuite {
	// In-memory SQLite per suite
	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")

	// Every pooled connection would get its own empty in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Article{},
		&domain.Tag{},
		&domain.ArticleTag{},
		&domain.Favorite{},
		&domain.Follow{},
	))

	userRepo := repository.NewUserRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	tagRepo := repository.NewTagRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	followRepo := repository.NewFollowRepository(db)

	j := jwtsvc.New("e2e-test-secret", time.Hour)

	userHandler := user.NewHandler(user.NewService(userRepo, j))
	profileHandler := profile.NewHandler(profile.NewService(userRepo, followRepo))
	articleHandler := article.NewHandler(article.NewService(articleRepo, tagRepo, favoriteRepo, userRepo))
	tagHandler := tag.NewHandler(tagRepo)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorLogger())

	api := r.Group("/api")
	{
		public := api.Group("/")
		public.Use(middleware.OptionalAuth(j))
		{
			userHandler.RegisterPublicRoutes(public)
			profileHandler.RegisterPublicRoutes(public)
			articleHandler.RegisterPublicRoutes(public)
			tagHandler.RegisterRoutes(public)
		}

		protected := api.Group("/")
		protected.Use(middleware.Auth(j))
		{
			userHandler.RegisterProtectedRoutes(protected)
			profileHandler.RegisterProtectedRoutes(protected)
			articleHandler.RegisterProtectedRoutes(protected)
		}
	}

	return &TestSuite{router: r, db: db}
}

func (s *TestSuite) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "body: %s", w.Body.String())
}

type userEnvelope struct {
	User struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Bio      string `json:"bio"`
		Token    string `json:"token"`
	} `json:"user"`
}

type articleEnvelope struct {
	Article struct {
		Slug           string   `json:"slug"`
		Title          string   `json:"title"`
		Description    string   `json:"description"`
		Body           string   `json:"body"`
		TagList        []string `json:"tagList"`
		CreatedAt      string   `json:"createdAt"`
		Favorited      bool     `json:"favorited"`
		FavoritesCount int64    `json:"favoritesCount"`
		Author         struct {
			Username  string `json:"username"`
			Following bool   `json:"following"`
		} `json:"author"`
	} `json:"article"`
}

type articlesEnvelope struct {
	Articles      []json.RawMessage `json:"articles"`
	ArticlesCount int64             `json:"articlesCount"`
}

func (s *TestSuite) registerUser(t *testing.T, username string) string {
	w := s.request(t, http.MethodPost, "/api/users", "", gin.H{
		"user": gin.H{
			"username": username,
			"email":    fmt.Sprintf("%s@example.com", username),
			"password": "password123",
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	var resp userEnvelope
	decode(t, w, &resp)
	require.NotEmpty(t, resp.User.Token)
	return resp.User.Token
}

func TestUserLifecycle(t *testing.T) {
	s := setupTestSuite(t)

	token := s.registerUser(t, "jake")

	// Login with the same credentials
	w := s.request(t, http.MethodPost, "/api/users/login", "", gin.H{
		"user": gin.H{"email": "jake@example.com", "password": "password123"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var login userEnvelope
	decode(t, w, &login)
	assert.Equal(t, "jake", login.User.Username)
	assert.NotEmpty(t, login.User.Token)

	// Wrong password is rejected
	w = s.request(t, http.MethodPost, "/api/users/login", "", gin.H{
		"user": gin.H{"email": "jake@example.com", "password": "wrong-password"},
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Current user
	w = s.request(t, http.MethodGet, "/api/user", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var current userEnvelope
	decode(t, w, &current)
	assert.Equal(t, "jake@example.com", current.User.Email)

	// Partial update keeps unset fields
	w = s.request(t, http.MethodPut, "/api/user", token, gin.H{
		"user": gin.H{"bio": "I like to skateboard"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var updated userEnvelope
	decode(t, w, &updated)
	assert.Equal(t, "I like to skateboard", updated.User.Bio)
	assert.Equal(t, "jake", updated.User.Username)
}

func TestArticleLifecycle(t *testing.T) {
	s := setupTestSuite(t)

	authorToken := s.registerUser(t, "author")
	readerToken := s.registerUser(t, "reader")

	// Create with tags
	w := s.request(t, http.MethodPost, "/api/articles", authorToken, gin.H{
		"article": gin.H{
			"title":       "How to Train Your Dragon",
			"description": "Ever wonder how?",
			"body":        "Very carefully.",
			"tagList":     []string{"dragons", "training"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	var created articleEnvelope
	decode(t, w, &created)
	assert.Equal(t, "how-to-train-your-dragon", created.Article.Slug)
	assert.ElementsMatch(t, []string{"dragons", "training"}, created.Article.TagList)
	assert.Equal(t, "author", created.Article.Author.Username)

	// Reuse an existing tag: only "rainbows" is new
	w = s.request(t, http.MethodPost, "/api/articles", authorToken, gin.H{
		"article": gin.H{
			"title":   "Second Post",
			"tagList": []string{"dragons", "rainbows"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.request(t, http.MethodGet, "/api/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tagsResp struct {
		Tags []string `json:"tags"`
	}
	decode(t, w, &tagsResp)
	assert.ElementsMatch(t, []string{"dragons", "training", "rainbows"}, tagsResp.Tags)

	// Detail view without a token
	w = s.request(t, http.MethodGet, "/api/articles/how-to-train-your-dragon", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail articleEnvelope
	decode(t, w, &detail)
	assert.False(t, detail.Article.Favorited)
	assert.NotEmpty(t, detail.Article.CreatedAt)

	// Favorite bumps the reported count
	w = s.request(t, http.MethodPost, "/api/articles/how-to-train-your-dragon/favorite", readerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var favorited articleEnvelope
	decode(t, w, &favorited)
	assert.True(t, favorited.Article.Favorited)
	assert.Equal(t, int64(1), favorited.Article.FavoritesCount)

	// Unfavorite always reports zero
	w = s.request(t, http.MethodDelete, "/api/articles/how-to-train-your-dragon/favorite", readerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var unfavorited articleEnvelope
	decode(t, w, &unfavorited)
	assert.False(t, unfavorited.Article.Favorited)
	assert.Equal(t, int64(0), unfavorited.Article.FavoritesCount)

	// Partial update recomputes the slug from the new title
	w = s.request(t, http.MethodPut, "/api/articles/how-to-train-your-dragon", authorToken, gin.H{
		"article": gin.H{"title": "A Fresh Title"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var patched articleEnvelope
	decode(t, w, &patched)
	assert.Equal(t, "a-fresh-title", patched.Article.Slug)
	assert.Equal(t, "Very carefully.", patched.Article.Body)

	// Listing
	w = s.request(t, http.MethodGet, "/api/articles?tag=dragons", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed articlesEnvelope
	decode(t, w, &listed)
	assert.Equal(t, int64(2), listed.ArticlesCount)

	// Delete, then the slug is gone
	w = s.request(t, http.MethodDelete, "/api/articles/a-fresh-title", authorToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = s.request(t, http.MethodGet, "/api/articles/a-fresh-title", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestArticleNotFoundIsCleanError(t *testing.T) {
	s := setupTestSuite(t)

	w := s.request(t, http.MethodGet, "/api/articles/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp struct {
		Errors struct {
			Code string `json:"code"`
		} `json:"errors"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "NOT_FOUND", resp.Errors.Code)
}

func TestFeedAndFollows(t *testing.T) {
	s := setupTestSuite(t)

	_ = s.registerUser(t, "celeb")
	readerToken := s.registerUser(t, "reader")

	celebToken := func() string {
		w := s.request(t, http.MethodPost, "/api/users/login", "", gin.H{
			"user": gin.H{"email": "celeb@example.com", "password": "password123"},
		})
		require.Equal(t, http.StatusOK, w.Code)
		var resp userEnvelope
		decode(t, w, &resp)
		return resp.User.Token
	}()

	w := s.request(t, http.MethodPost, "/api/articles", celebToken, gin.H{
		"article": gin.H{"title": "Celeb Thoughts"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Empty feed before following
	w = s.request(t, http.MethodGet, "/api/articles/feed", readerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var feed articlesEnvelope
	decode(t, w, &feed)
	assert.Equal(t, int64(0), feed.ArticlesCount)

	// Follow, profile reflects it
	w = s.request(t, http.MethodPost, "/api/profiles/celeb/follow", readerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.request(t, http.MethodGet, "/api/profiles/celeb", readerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var prof struct {
		Profile struct {
			Username  string `json:"username"`
			Following bool   `json:"following"`
		} `json:"profile"`
	}
	decode(t, w, &prof)
	assert.True(t, prof.Profile.Following)

	// Feed now carries the followed author's article
	w = s.request(t, http.MethodGet, "/api/articles/feed", readerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &feed)
	require.Equal(t, int64(1), feed.ArticlesCount)

	var entry articleEnvelope
	require.NoError(t, json.Unmarshal(feed.Articles[0], &entry.Article))
	assert.Equal(t, "celeb-thoughts", entry.Article.Slug)
	assert.Equal(t, "celeb", entry.Article.Author.Username)

	// Unfollow empties it again
	w = s.request(t, http.MethodDelete, "/api/profiles/celeb/follow", readerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.request(t, http.MethodGet, "/api/articles/feed", readerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &feed)
	assert.Equal(t, int64(0), feed.ArticlesCount)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := setupTestSuite(t)

	w := s.request(t, http.MethodPost, "/api/articles", "", gin.H{
		"article": gin.H{"title": "nope"},
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.request(t, http.MethodGet, "/api/user", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
