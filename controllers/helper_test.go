package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"library-management-system/app"
	"library-management-system/auth"
	"library-management-system/db"
	"library-management-system/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "controller-test-secret"

// memoryRefreshStore stands in for the redis-backed store.
type memoryRefreshStore struct {
	mu     sync.Mutex
	tokens map[string]string // jti -> userID
}

func newMemoryRefreshStore() *memoryRefreshStore {
	return &memoryRefreshStore{tokens: map[string]string{}}
}

func (m *memoryRefreshStore) Save(_ context.Context, jti, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[jti] = userID
	return nil
}

func (m *memoryRefreshStore) Consume(_ context.Context, jti string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	uid, ok := m.tokens[jti]
	if !ok {
		return "", context.Canceled // any error will do; callers only branch on nil
	}
	delete(m.tokens, jti)
	return uid, nil
}

func (m *memoryRefreshStore) RevokeAll(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for jti, uid := range m.tokens {
		if uid == userID {
			delete(m.tokens, jti)
		}
	}
	return nil
}

type testServer struct {
	router *gin.Engine
	srv    *Srv
	repo   *db.Repo
	tokens *auth.Issuer
}

func newTestServer(t *testing.T, selfService bool) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	s := &Srv{
		Repo:    db.NewRepo(conn),
		Tokens:  auth.NewIssuer(testSecret),
		Refresh: newMemoryRefreshStore(),
		Cfg:     app.Config{BorrowSelfService: selfService},
	}

	r := gin.New()
	registerTestRoutes(r, s)
	return &testServer{router: r, srv: s, repo: s.Repo, tokens: s.Tokens}
}

// registerTestRoutes mirrors routes.RegisterRoutes minus the redis-backed
// last-seen middleware.
func registerTestRoutes(r *gin.Engine, s *Srv) {
	uc := NewUserController(s)
	bookCtl := NewBookController(s)
	borrowCtl := NewBorrowController(s)
	reviewCtl := NewReviewController(s)

	authMW := app.AuthRequired(s.Tokens, s.Repo)
	adminMW := app.AdminOnly()
	librarianMW := app.AdminOrLibrarian()

	v1 := r.Group("/api/v1")

	users := v1.Group("/users")
	{
		users.POST("/register", uc.Register)
		users.POST("/login", uc.Login)
		users.POST("/token/refresh", uc.RefreshToken)
	}
	usersAdmin := v1.Group("/users", authMW, adminMW)
	{
		usersAdmin.GET("/all", uc.ListUsers)
		usersAdmin.GET("/:id", uc.GetUser)
		usersAdmin.PATCH("/:id", uc.UpdateUser)
	}

	books := v1.Group("/books", authMW)
	{
		books.GET("", bookCtl.ListBooks)
		books.GET("/:id", bookCtl.GetBook)
	}
	booksWrite := v1.Group("/books", authMW, librarianMW)
	{
		booksWrite.POST("", bookCtl.CreateBook)
		booksWrite.PATCH("/:id", bookCtl.UpdateBook)
		booksWrite.DELETE("/:id", bookCtl.DeleteBook)
		booksWrite.GET("/:id/borrow", bookCtl.ListBookBorrows)
	}

	borrow := v1.Group("/borrow", authMW)
	{
		borrow.POST("", borrowCtl.CreateBorrow)
		borrow.GET("", borrowCtl.ListBorrows)
		borrow.PATCH("/:id", borrowCtl.UpdateBorrow)
	}

	review := v1.Group("/review", authMW)
	{
		review.POST("", reviewCtl.CreateReview)
		review.GET("", reviewCtl.ListReviews)
		review.GET("/book/:id", reviewCtl.GetReview)
	}
}

// user fixtures

func (ts *testServer) makeUser(t *testing.T, email, role string) *models.User {
	t.Helper()
	u, err := ts.repo.RegisterUser(context.Background(), db.RegisterUserInput{
		Email:    email,
		Password: "sw0rdf1sh!pass",
	})
	require.NoError(t, err)
	if role != models.RoleUser {
		r := role
		u, err = ts.repo.UpdateUser(context.Background(), u.ID, db.UserPatch{Role: &r})
		require.NoError(t, err)
	}
	return u
}

func (ts *testServer) makeAdmin(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := ts.repo.CreateSuperuser(context.Background(), email, "sup3r-secret-pw")
	require.NoError(t, err)
	return u
}

func (ts *testServer) tokenFor(t *testing.T, u *models.User) string {
	t.Helper()
	pair, err := ts.tokens.IssuePair(u.ID, u.Email, u.Role, u.IsSuperuser)
	require.NoError(t, err)
	return pair.Access
}

// request helpers

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func dataOf(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	data, ok := decode(t, w)["data"].(map[string]any)
	require.True(t, ok, "data is not an object: %s", w.Body.String())
	return data
}
