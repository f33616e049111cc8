package users_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/EmpoweredVote/EV-Dashboard/internal/apierror"
	"github.com/EmpoweredVote/EV-Dashboard/internal/dbtest"
	"github.com/EmpoweredVote/EV-Dashboard/internal/users"
	"github.com/EmpoweredVote/EV-Dashboard/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type staticVerifier struct{}

func (staticVerifier) Verify(token string) (utils.Claims, error) {
	if token != "good" {
		return utils.Claims{}, errors.New("bad token")
	}
	return utils.Claims{ID: "admin-1", Role: "admin"}, nil
}

func setup(t *testing.T) (*gorm.DB, http.Handler) {
	t.Helper()
	d := dbtest.Use(t, users.Migrate)
	return d, users.SetupRoutes(staticVerifier{})
}

func do(t *testing.T, h http.Handler, method, path string, body any, authed bool) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.AddCookie(&http.Cookie{Name: "token", Value: "good"})
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return rec.Code, out
}

func validUser(email string) map[string]any {
	return map[string]any{
		"fullName": "Ada Lovelace",
		"age":      "28",
		"email":    email,
		"phone":    "+1 555 010 2000",
		"gender":   "female",
		"course":   "Mathematics",
	}
}

func TestCreateAndList(t *testing.T) {
	_, h := setup(t)

	status, body := do(t, h, http.MethodPost, "/", validUser("Ada@Example.com"), false)
	require.Equal(t, http.StatusCreated, status, "body: %v", body)
	user := body["user"].(map[string]any)
	assert.Equal(t, "ada@example.com", user["email"])
	assert.Equal(t, "Female", user["gender"])
	assert.EqualValues(t, 28, user["age"])
	assert.NotEmpty(t, user["id"])

	status, body = do(t, h, http.MethodGet, "/", nil, true)
	require.Equal(t, http.StatusOK, status)
	list := body["users"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "ada@example.com", list[0].(map[string]any)["email"])

	p := body["pagination"].(map[string]any)
	assert.EqualValues(t, 1, p["totalUsers"])
	assert.EqualValues(t, 1, p["totalItems"])
	assert.EqualValues(t, 1, p["totalPages"])
	assert.Equal(t, false, p["hasNext"])
}

func TestCreateMissingFields(t *testing.T) {
	_, h := setup(t)

	status, body := do(t, h, http.MethodPost, "/", map[string]any{"fullName": "Only Name"}, false)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apierror.CodeValidation, body["error"])
	assert.ElementsMatch(t, []any{"age", "email", "phone", "gender", "course"}, body["details"])
}

func TestCreateRejectsBadValues(t *testing.T) {
	_, h := setup(t)

	cases := map[string]map[string]any{
		"young":  {"age": 12},
		"old":    {"age": 121},
		"email":  {"email": "not-an-email"},
		"gender": {"gender": "robot"},
		"birth":  {"birthDate": "31/12/1999"},
		"phone":  {"phone": "call me"},
	}
	for name, patch := range cases {
		t.Run(name, func(t *testing.T) {
			in := validUser(name + "@example.com")
			for k, v := range patch {
				in[k] = v
			}
			status, body := do(t, h, http.MethodPost, "/", in, false)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, apierror.CodeValidation, body["error"])
		})
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	d, h := setup(t)

	status, _ := do(t, h, http.MethodPost, "/", validUser("dup@example.com"), false)
	require.Equal(t, http.StatusCreated, status)

	status, body := do(t, h, http.MethodPost, "/", validUser("DUP@example.com"), false)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, apierror.CodeDuplicateMail, body["error"])

	var n int64
	require.NoError(t, d.Model(&users.User{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestListRequiresAuth(t *testing.T) {
	_, h := setup(t)
	status, body := do(t, h, http.MethodGet, "/", nil, false)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apierror.CodeNoToken, body["error"])
}

func TestListPagingAndOrder(t *testing.T) {
	d, h := setup(t)

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		u, err := users.Create(t.Context(), toInput(validUser(fmt.Sprintf("u%02d@example.com", i))))
		require.NoError(t, err)
		require.NoError(t, d.Model(&u).UpdateColumn("created_at", base.Add(time.Duration(i)*time.Hour)).Error)
	}

	status, body := do(t, h, http.MethodGet, "/?page=1&limit=5", nil, true)
	require.Equal(t, http.StatusOK, status)
	list := body["users"].([]any)
	require.Len(t, list, 5)
	assert.Equal(t, "u11@example.com", list[0].(map[string]any)["email"])
	p := body["pagination"].(map[string]any)
	assert.EqualValues(t, 3, p["totalPages"])
	assert.Equal(t, true, p["hasNext"])
	assert.Equal(t, false, p["hasPrev"])

	status, body = do(t, h, http.MethodGet, "/?page=3&limit=5", nil, true)
	require.Equal(t, http.StatusOK, status)
	list = body["users"].([]any)
	require.Len(t, list, 2)
	assert.Equal(t, "u00@example.com", list[1].(map[string]any)["email"])

	status, body = do(t, h, http.MethodGet, "/?page=9&limit=5", nil, true)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["users"])
	p = body["pagination"].(map[string]any)
	assert.Equal(t, false, p["hasNext"])
	assert.EqualValues(t, 12, p["totalUsers"])

	for _, q := range []string{"/?page=2305843009213693953&limit=8", "/?page=4611686018427387904&limit=4"} {
		status, body = do(t, h, http.MethodGet, q, nil, true)
		require.Equal(t, http.StatusOK, status, q)
		assert.Empty(t, body["users"], q)
		p = body["pagination"].(map[string]any)
		assert.Equal(t, false, p["hasNext"], q)
		assert.EqualValues(t, 12, p["totalItems"], q)
	}

	status, body = do(t, h, http.MethodGet, "/?page=abc&limit=-2", nil, true)
	require.Equal(t, http.StatusOK, status)
	p = body["pagination"].(map[string]any)
	assert.EqualValues(t, 1, p["currentPage"])
	assert.EqualValues(t, 10, p["itemsPerPage"])
}

func TestListSearch(t *testing.T) {
	_, h := setup(t)

	a := validUser("grace@example.com")
	a["fullName"] = "Grace Hopper"
	a["course"] = "Computer Science"
	b := validUser("alan@example.com")
	b["fullName"] = "Alan Turing"
	b["course"] = "Cryptography"
	for _, in := range []map[string]any{a, b} {
		status, _ := do(t, h, http.MethodPost, "/", in, false)
		require.Equal(t, http.StatusCreated, status)
	}

	status, body := do(t, h, http.MethodGet, "/?search=HOPPER", nil, true)
	require.Equal(t, http.StatusOK, status)
	list := body["users"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "grace@example.com", list[0].(map[string]any)["email"])

	status, body = do(t, h, http.MethodGet, "/?search=crypto", nil, true)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["users"], 1)

	status, body = do(t, h, http.MethodGet, "/?search=%25", nil, true)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["users"])
}

func TestPartialUpdate(t *testing.T) {
	_, h := setup(t)

	_, body := do(t, h, http.MethodPost, "/", validUser("patch@example.com"), false)
	id := body["user"].(map[string]any)["id"].(string)

	status, body := do(t, h, http.MethodPut, "/"+id, map[string]any{"course": "Physics", "age": 30}, true)
	require.Equal(t, http.StatusOK, status, "body: %v", body)

	status, body = do(t, h, http.MethodGet, "/"+id, nil, true)
	require.Equal(t, http.StatusOK, status)
	user := body["user"].(map[string]any)
	assert.Equal(t, "Physics", user["course"])
	assert.EqualValues(t, 30, user["age"])
	assert.Equal(t, "Ada Lovelace", user["fullName"])
	assert.Equal(t, "patch@example.com", user["email"])

	status, body = do(t, h, http.MethodPut, "/"+id, map[string]any{"age": 7}, true)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apierror.CodeValidation, body["error"])
}

func TestUpdateDuplicateEmail(t *testing.T) {
	_, h := setup(t)

	do(t, h, http.MethodPost, "/", validUser("first@example.com"), false)
	_, body := do(t, h, http.MethodPost, "/", validUser("second@example.com"), false)
	id := body["user"].(map[string]any)["id"].(string)

	status, body := do(t, h, http.MethodPut, "/"+id, map[string]any{"email": "first@example.com"}, true)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, apierror.CodeDuplicateMail, body["error"])
}

func TestInvalidIDAndNotFound(t *testing.T) {
	_, h := setup(t)

	status, body := do(t, h, http.MethodPut, "/not-a-uuid", map[string]any{"age": 20}, true)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apierror.CodeInvalidID, body["error"])

	status, body = do(t, h, http.MethodGet, "/6b0f3a2e-9c4e-4a57-8d0e-8f4f3a8f1c11", nil, true)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, apierror.CodeNotFound, body["error"])
}

func TestDelete(t *testing.T) {
	_, h := setup(t)

	_, body := do(t, h, http.MethodPost, "/", validUser("gone@example.com"), false)
	id := body["user"].(map[string]any)["id"].(string)

	status, body := do(t, h, http.MethodDelete, "/"+id, nil, true)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "gone@example.com", body["user"].(map[string]any)["email"])

	status, _ = do(t, h, http.MethodGet, "/"+id, nil, true)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, h, http.MethodDelete, "/"+id, nil, true)
	assert.Equal(t, http.StatusNotFound, status)
}

func toInput(m map[string]any) users.Input {
	var in users.Input
	b, _ := json.Marshal(m)
	_ = json.Unmarshal(b, &in)
	return in
}
