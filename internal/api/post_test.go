package api

import (
	"fmt"
	"net/http"
	"testing"

	"blog_system/internal/cache"
	"blog_system/internal/domain"
	"blog_system/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestListPosts_PageEnvelope(t *testing.T) {
	s := newTestServer(t)
	author := testutil.NewUser(t, s.db, "author@example.com", domain.RoleUser)
	for _, slug := range []string{"one", "two", "three"} {
		testutil.NewPost(t, s.db, author, slug)
	}

	w := s.get(t, "/api/posts?page=1&size=2")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.EqualValues(t, 3, gjson.Get(body, "totalElements").Int())
	assert.EqualValues(t, 2, gjson.Get(body, "totalPages").Int())
	assert.EqualValues(t, 2, gjson.Get(body, "size").Int())
	assert.EqualValues(t, 1, gjson.Get(body, "number").Int())
	assert.Equal(t, "three", gjson.Get(body, "content.0.slug").String())
	assert.True(t, gjson.Get(body, "content.0.tags").IsArray())
}

func TestListPosts_Filters(t *testing.T) {
	s := newTestServer(t)
	author := testutil.NewUser(t, s.db, "author@example.com", domain.RoleUser)
	tag := testutil.NewTag(t, s.db, "go")
	testutil.NewPost(t, s.db, author, "gin-routing", *tag)
	testutil.NewPost(t, s.db, author, "cooking")

	w := s.get(t, "/api/posts?nameCont=GIN")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, gjson.Get(w.Body.String(), "totalElements").Int())

	for _, wildcard := range []string{"_", "%25", "g_n", "%25routing"} {
		w = s.get(t, "/api/posts?nameCont="+wildcard)
		require.Equal(t, http.StatusOK, w.Code)
		assert.EqualValues(t, 0, gjson.Get(w.Body.String(), "totalElements").Int(), "nameCont=%s", wildcard)
	}

	w = s.get(t, "/api/posts?tagId=1&createdAtGt=2000-01-01")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gin-routing", gjson.Get(w.Body.String(), "content.0.slug").String())

	w = s.get(t, "/api/posts?createdAtLt=2000-01-01")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, gjson.Get(w.Body.String(), "totalElements").Int())

	w = s.get(t, "/api/posts?createdAtGt=yesterday")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPosts_PageIsClamped(t *testing.T) {
	s := newTestServer(t)
	author := testutil.NewUser(t, s.db, "author@example.com", domain.RoleUser)
	testutil.NewPost(t, s.db, author, "only")

	w := s.get(t, "/api/posts?page=999999999999&size=1000")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := w.Body.String()
	assert.EqualValues(t, maxPage, gjson.Get(body, "number").Int())
	assert.EqualValues(t, maxPageSize, gjson.Get(body, "size").Int())
	assert.EqualValues(t, 1, gjson.Get(body, "totalElements").Int())
	assert.Empty(t, gjson.Get(body, "content").Array())

	w = s.get(t, "/api/posts?page=99999999999999999999")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, gjson.Get(w.Body.String(), "number").Int())
	assert.Equal(t, "only", gjson.Get(w.Body.String(), "content.0.slug").String())
}

func TestGetPost(t *testing.T) {
	s := newTestServer(t)
	author := testutil.NewUser(t, s.db, "author@example.com", domain.RoleUser)
	post := testutil.NewPost(t, s.db, author, "hello")

	w := s.get(t, "/api/posts/1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", gjson.Get(w.Body.String(), "slug").String())
	assert.EqualValues(t, author.ID, gjson.Get(w.Body.String(), "authorId").Int())
	assert.EqualValues(t, post.ID, gjson.Get(w.Body.String(), "id").Int())

	w = s.get(t, "/api/posts/999")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Post not found with id: 999", gjson.Get(w.Body.String(), "error").String())

	w = s.get(t, "/api/posts/abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePost(t *testing.T) {
	s := newTestServer(t)
	author := testutil.NewUser(t, s.db, "author@example.com", domain.RoleUser)
	tag := testutil.NewTag(t, s.db, "go")
	token := tokenFor(t, author)

	w := s.do(t, http.MethodPost, "/api/posts", map[string]any{
		"title":     "My first post",
		"content":   "Some meaningful content.",
		"published": true,
		"tagIds":    []uint{tag.ID},
	}, token)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := w.Body.String()
	assert.Equal(t, "my-first-post", gjson.Get(body, "slug").String())
	assert.EqualValues(t, author.ID, gjson.Get(body, "authorId").Int())
	assert.Equal(t, "go", gjson.Get(body, "tags.0.name").String())
	assert.True(t, gjson.Get(body, "published").Bool())
}

func TestCreatePost_Errors(t *testing.T) {
	s := newTestServer(t)
	author := testutil.NewUser(t, s.db, "author@example.com", domain.RoleUser)
	token := tokenFor(t, author)

	w := s.do(t, http.MethodPost, "/api/posts", map[string]any{"title": "No auth", "content": "Some meaningful content."}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/posts", map[string]any{"title": "x", "content": "short"}, token)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "min", gjson.Get(w.Body.String(), "fields.title").String())
	assert.Equal(t, "min", gjson.Get(w.Body.String(), "fields.content").String())

	w = s.do(t, http.MethodPost, "/api/posts", map[string]any{"slug": "blank", "title": "   ", "content": "            "}, token)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "notblank", gjson.Get(w.Body.String(), "fields.title").String())
	assert.Equal(t, "notblank", gjson.Get(w.Body.String(), "fields.content").String())

	w = s.do(t, http.MethodPost, "/api/posts", `{"title":`, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/posts", map[string]any{
		"title": "Tagged", "content": "Some meaningful content.", "tagIds": []uint{7},
	}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	testutil.NewPost(t, s.db, author, "taken")
	w = s.do(t, http.MethodPost, "/api/posts", map[string]any{
		"slug": "taken", "title": "Duplicate", "content": "Some meaningful content.",
	}, token)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdateAndDeletePost(t *testing.T) {
	s := newTestServer(t)
	author := testutil.NewUser(t, s.db, "author@example.com", domain.RoleUser)
	stranger := testutil.NewUser(t, s.db, "stranger@example.com", domain.RoleUser)
	tag := testutil.NewTag(t, s.db, "go")
	post := testutil.NewPost(t, s.db, author, "post", *tag)
	path := fmt.Sprintf("/api/posts/%d", post.ID)
	update := map[string]any{"title": "Edited title", "content": "Edited content here.", "tagIds": []uint{}}

	w := s.do(t, http.MethodPut, path, update, tokenFor(t, stranger))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPut, path, map[string]any{"title": "\t\t\t", "content": "Edited content here."}, tokenFor(t, author))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "notblank", gjson.Get(w.Body.String(), "fields.title").String())

	w = s.do(t, http.MethodPut, path, update, tokenFor(t, author))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Edited title", gjson.Get(w.Body.String(), "title").String())
	assert.Len(t, gjson.Get(w.Body.String(), "tags").Array(), 0)

	w = s.do(t, http.MethodDelete, path, nil, tokenFor(t, author))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.get(t, path)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostReadsAreCachedAndInvalidated(t *testing.T) {
	s := newTestServer(t)
	author := testutil.NewUser(t, s.db, "author@example.com", domain.RoleUser)
	testutil.NewPost(t, s.db, author, "cached")

	require.Equal(t, http.StatusOK, s.get(t, "/api/posts").Code)
	assert.NotEmpty(t, testutil.CachedKeys(s.redis, cache.PostsPrefix))

	w := s.do(t, http.MethodPost, "/api/posts", map[string]any{
		"title": "Second post", "content": "Some meaningful content.",
	}, tokenFor(t, author))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, testutil.CachedKeys(s.redis, cache.PostsPrefix))

	w = s.get(t, "/api/posts")
	assert.EqualValues(t, 2, gjson.Get(w.Body.String(), "totalElements").Int())
}
