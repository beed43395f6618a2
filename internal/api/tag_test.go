package api

import (
	"fmt"
	"net/http"
	"testing"

	"blog_system/internal/domain"
	"blog_system/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestTagEndpoints(t *testing.T) {
	s := newTestServer(t)
	user := testutil.NewUser(t, s.db, "user@example.com", domain.RoleUser)
	token := tokenFor(t, user)

	w := s.do(t, http.MethodPost, "/api/tags", map[string]any{"name": "go"}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := gjson.Get(w.Body.String(), "id").Int()

	w = s.do(t, http.MethodPost, "/api/tags", map[string]any{"name": "go"}, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/tags/bulk", []map[string]any{{"name": "gin"}, {"name": "gorm"}}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Len(t, gjson.Parse(w.Body.String()).Array(), 2)

	w = s.do(t, http.MethodPost, "/api/tags/bulk", []map[string]any{{"name": "sql"}, {"name": "go"}}, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/tags/bulk", []map[string]any{{"name": "ok"}, {"name": "x"}}, token)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "min", gjson.Get(w.Body.String(), "fields.name").String())

	w = s.do(t, http.MethodPost, "/api/tags", map[string]any{"name": "   "}, token)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "notblank", gjson.Get(w.Body.String(), "fields.name").String())

	w = s.get(t, "/api/tags")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"go", "gin", "gorm"}, names(gjson.Get(w.Body.String(), "#.name").Array()))

	path := fmt.Sprintf("/api/tags/%d", id)
	w = s.do(t, http.MethodPatch, path, map[string]any{"name": "golang"}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "golang", gjson.Get(w.Body.String(), "name").String())

	w = s.do(t, http.MethodPatch, path, map[string]any{"name": nil}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "golang", gjson.Get(w.Body.String(), "name").String())

	w = s.do(t, http.MethodPatch, path, map[string]any{"name": "    "}, token)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "notblank", gjson.Get(w.Body.String(), "fields.name").String())

	w = s.do(t, http.MethodPatch, path, map[string]any{"name": "gin"}, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.get(t, "/api/tags/999")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTag_LinkedToPost(t *testing.T) {
	s := newTestServer(t)
	user := testutil.NewUser(t, s.db, "user@example.com", domain.RoleUser)
	tag := testutil.NewTag(t, s.db, "linked")
	testutil.NewPost(t, s.db, user, "post", *tag)
	token := tokenFor(t, user)
	path := fmt.Sprintf("/api/tags/%d", tag.ID)

	w := s.get(t, path+"/posts")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "post", gjson.Get(w.Body.String(), "0.slug").String())

	w = s.do(t, http.MethodDelete, path, nil, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPut, "/api/posts/1", map[string]any{
		"title": "Untagged", "content": "No tags anymore here.", "tagIds": []uint{},
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodDelete, path, nil, token)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodDelete, path, nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func names(results []gjson.Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.String()
	}
	return out
}
