package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/lanternhq/lantern/server/middlewares"
	"github.com/lanternhq/lantern/server/service"
	"github.com/lanternhq/lantern/utils"
	"github.com/lanternhq/lantern/utils/dotenv"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	dotenv.LoadDotEnvsInTests()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func prepareTestRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(middlewares.Viewer())
	NewAPI(service.New(db)).RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, viewer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if viewer != "" {
		req.Header.Set("sub", viewer)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestHealthz(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	router := prepareTestRouter(db)

	resp := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
}

func TestFeedEndpoint(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	router := prepareTestRouter(db)

	author := utils.TestCreateUser(t, db, "alice")
	viewer := utils.TestCreateUser(t, db, "bob")
	category := utils.TestCreateCategory(t, db, "linux")
	post := utils.TestCreatePost(t, db, author, category, "hello world", time.Now())

	resp := doJSON(t, router, http.MethodPost, "/vote", viewer.Id, map[string]interface{}{
		"target_kind": "post",
		"target_id":   post.Id,
		"choice":      1,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(t, router, http.MethodGet, "/c/linux/feed", viewer.Id, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var feed struct {
		Posts []PostOutput `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &feed))
	require.Len(t, feed.Posts, 1)

	want := PostOutput{
		Id:           post.Id,
		Title:        "hello world",
		Slug:         "hello-world",
		Score:        1,
		Upvoted:      true,
		Author:       "alice",
		CategorySlug: "linux",
		CategoryName: "linux",
	}
	ignoreTimes := cmp.FilterPath(func(p cmp.Path) bool {
		return p.Last().String() == ".CreatedAt" || p.Last().String() == ".ImageUrls"
	}, cmp.Ignore())
	require.Empty(t, cmp.Diff(want, feed.Posts[0], ignoreTimes))
}

func TestErrorMapping(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	router := prepareTestRouter(db)

	user := utils.TestCreateUser(t, db, "alice")
	category := utils.TestCreateCategory(t, db, "linux")

	// NotFound
	resp := doJSON(t, router, http.MethodGet, "/p/no-such-post", "", nil)
	require.Equal(t, http.StatusNotFound, resp.Code)

	// Unauthorized: anonymous subscribed-only feed
	resp = doJSON(t, router, http.MethodGet, "/feed?subscribed=true", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	// Conflict: double subscribe
	resp = doJSON(t, router, http.MethodPost, "/c/linux/subscribe", user.Id, nil)
	require.Equal(t, http.StatusCreated, resp.Code)
	resp = doJSON(t, router, http.MethodPost, "/c/linux/subscribe", user.Id, nil)
	require.Equal(t, http.StatusConflict, resp.Code)

	// InvalidArgument: vote choice out of range
	post := utils.TestCreatePost(t, db, user, category, "post", time.Now())
	resp = doJSON(t, router, http.MethodPost, "/vote", user.Id, map[string]interface{}{
		"target_kind": "post",
		"target_id":   post.Id,
		"choice":      7,
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestPostDetailEndpoint(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	router := prepareTestRouter(db)

	author := utils.TestCreateUser(t, db, "alice")
	category := utils.TestCreateCategory(t, db, "linux")
	post := utils.TestCreatePost(t, db, author, category, "a post", time.Now())

	resp := doJSON(t, router, http.MethodPost, fmt.Sprintf("/posts/%s/comments", post.Id), author.Id, map[string]interface{}{
		"body": "first!",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = doJSON(t, router, http.MethodGet, "/p/"+post.Id, "", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var detail struct {
		Post     PostOutput      `json:"post"`
		Comments []CommentOutput `json:"comments"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &detail))
	require.Equal(t, 1, detail.Post.CommentCount)
	require.Len(t, detail.Comments, 1)
	require.Equal(t, "first!", detail.Comments[0].Body)
	require.Equal(t, "alice", detail.Comments[0].Author)
}

func TestUserPageEndpoint(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	router := prepareTestRouter(db)

	author := utils.TestCreateUser(t, db, "alice")
	category := utils.TestCreateCategory(t, db, "linux")
	utils.TestCreatePost(t, db, author, category, "my post", time.Now())

	resp := doJSON(t, router, http.MethodGet, "/u/alice", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var page struct {
		User  struct{ Handle string `json:"handle"` } `json:"user"`
		Posts []PostOutput                            `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	require.Equal(t, "alice", page.User.Handle)
	require.Len(t, page.Posts, 1)
	require.Equal(t, "my post", page.Posts[0].Title)

	resp = doJSON(t, router, http.MethodGet, "/u/nobody", "", nil)
	require.Equal(t, http.StatusNotFound, resp.Code)
}
