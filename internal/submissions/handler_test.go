package submissions

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tycoonhub/internal/auth"
	"tycoonhub/pkg/database"
)

func newTestHandler(t *testing.T) (*gin.Engine, *Repo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	_, err = db.Exec(`INSERT INTO users (id, username, email, password_hash) VALUES (?, ?, ?, ?)`,
		"u-1", "alice", "alice@example.com", "x")
	require.NoError(t, err)

	repo := NewRepo(db)
	router := gin.New()
	group := router.Group("/users")
	group.Use(func(c *gin.Context) {
		c.Set(auth.CtxClaimsKey, &auth.Claims{UserID: "u-1", Username: "alice"})
	})
	NewHandler(repo).RegisterRoutes(group)
	return router, repo
}

func postSubmission(router *gin.Engine, body map[string]string) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/submissions", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func validBody() map[string]string {
	return map[string]string{
		"name":        "Mall Magnate",
		"developer":   "Indie Dev Co",
		"type":        "paid",
		"status":      "released",
		"link":        "https://store.steampowered.com/app/10",
		"description": "Build and manage shopping malls.",
	}
}

func TestCreateSubmission(t *testing.T) {
	router, _ := newTestHandler(t)

	w := postSubmission(router, validBody())
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		SubmittedBy string `json:"submitted_by"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Mall Magnate", created.Name)
	assert.Equal(t, "u-1", created.SubmittedBy)
}

func TestCreateSubmission_Validation(t *testing.T) {
	router, _ := newTestHandler(t)

	cases := []struct {
		name    string
		mutate  func(map[string]string)
		wantErr string
	}{
		{
			name:    "short name",
			mutate:  func(b map[string]string) { b["name"] = "X" },
			wantErr: "game name",
		},
		{
			name:    "short developer",
			mutate:  func(b map[string]string) { b["developer"] = "Y" },
			wantErr: "developer name",
		},
		{
			name:    "bad type",
			mutate:  func(b map[string]string) { b["type"] = "freemium" },
			wantErr: "type must be",
		},
		{
			name:    "bad status",
			mutate:  func(b map[string]string) { b["status"] = "soon" },
			wantErr: "status must be",
		},
		{
			name:    "invalid link",
			mutate:  func(b map[string]string) { b["link"] = "not a url" },
			wantErr: "store link",
		},
		{
			name:    "invalid image",
			mutate:  func(b map[string]string) { b["image"] = "also not a url" },
			wantErr: "image",
		},
		{
			name:    "short description",
			mutate:  func(b map[string]string) { b["description"] = "too short" },
			wantErr: "description",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := validBody()
			tc.mutate(body)

			w := postSubmission(router, body)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp struct {
				Error string `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Contains(t, resp.Error, tc.wantErr)
		})
	}
}

func TestCreateSubmission_OptionalLinkAndImage(t *testing.T) {
	router, _ := newTestHandler(t)

	body := validBody()
	delete(body, "link")

	w := postSubmission(router, body)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestListSubmissions(t *testing.T) {
	router, _ := newTestHandler(t)

	require.Equal(t, http.StatusCreated, postSubmission(router, validBody()).Code)

	second := validBody()
	second["name"] = "Rail Empire"
	require.Equal(t, http.StatusCreated, postSubmission(router, second).Code)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/submissions", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
		Items  []struct {
			Name string `json:"name"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 20, resp.Limit)
	assert.Len(t, resp.Items, 2)
}

func TestValidate_DescriptionTooLong(t *testing.T) {
	body := validBody()
	long := make([]byte, maxDescriptionLen+1)
	for i := range long {
		long[i] = 'a'
	}
	body["description"] = string(long)

	router, _ := newTestHandler(t)
	w := postSubmission(router, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
