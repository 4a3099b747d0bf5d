package student_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aanand-mishra/student-management/internal/http/handlers/student"
	"github.com/aanand-mishra/student-management/internal/manager"
	"github.com/aanand-mishra/student-management/internal/query"
	"github.com/aanand-mishra/student-management/internal/storage/memory"
	"github.com/aanand-mishra/student-management/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer wires the same route table as main over an in-memory
// roster and the keyword rules agent.
func newTestServer(t *testing.T, seed ...types.Student) (*httptest.Server, *manager.Manager) {
	t.Helper()

	mgr, err := manager.New(context.Background(), memory.New(), query.NewRuleAgent())
	require.NoError(t, err)
	for _, s := range seed {
		require.NoError(t, mgr.Add(s))
	}

	router := http.NewServeMux()
	router.HandleFunc("POST /api/students", student.New(mgr))
	router.HandleFunc("GET /api/students", student.GetList(mgr))
	router.HandleFunc("GET /api/students/query", student.Query(mgr))
	router.HandleFunc("GET /api/students/{sid}", student.GetBySID(mgr))
	router.HandleFunc("PUT /api/students/{sid}", student.Update(mgr))
	router.HandleFunc("DELETE /api/students/{sid}", student.Delete(mgr))
	router.HandleFunc("POST /api/save", student.Save(mgr))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, mgr
}

func alice() types.Student {
	return types.Student{SID: "S1", Name: "Alice", Age: 21, Gender: "Female", Major: "Computer Science"}
}

func doJSON(t *testing.T, method, url, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestCreateStudent(t *testing.T) {
	srv, mgr := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/students",
		`{"sid":"S1","name":"Alice","age":21,"gender":"Female","major":"Computer Science"}`)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "S1", body["sid"])
	assert.Equal(t, 1, mgr.Count())
}

func TestCreateStudentEmptyBody(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/students", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateStudentValidationFailure(t *testing.T) {
	srv, mgr := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/students",
		`{"sid":"S1","name":"Alice","age":21,"gender":"Robot","major":"CS"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["error"], "Gender")
	assert.Equal(t, 0, mgr.Count())
}

func TestCreateStudentDuplicate(t *testing.T) {
	srv, _ := newTestServer(t, alice())

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/students",
		`{"sid":"S1","name":"Alice","age":21,"gender":"Female","major":"Computer Science"}`)

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestGetBySID(t *testing.T) {
	srv, _ := newTestServer(t, alice())

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/students/S1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got types.Student
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, alice(), got)
}

func TestGetBySIDNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/students/S404", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetListEmptyIsArray(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/students", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got []types.Student
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestUpdateStudent(t *testing.T) {
	srv, mgr := newTestServer(t, alice())

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/students/S1",
		`{"name":"Alice","age":22,"gender":"Female","major":"Finance"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	got, err := mgr.Get("S1")
	require.NoError(t, err)
	assert.Equal(t, 22, got.Age)
	assert.Equal(t, "Finance", got.Major)
}

func TestUpdateStudentNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/students/S404",
		`{"name":"Alice","age":22,"gender":"Female","major":"Finance"}`)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteStudent(t *testing.T) {
	srv, mgr := newTestServer(t, alice())

	resp := doJSON(t, http.MethodDelete, srv.URL+"/api/students/S1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, mgr.Count())
}

func TestDeleteStudentNotFound(t *testing.T) {
	srv, mgr := newTestServer(t, alice())

	resp := doJSON(t, http.MethodDelete, srv.URL+"/api/students/S2", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 1, mgr.Count())
}

func TestQueryEndpoint(t *testing.T) {
	srv, _ := newTestServer(t,
		alice(),
		types.Student{SID: "S2", Name: "Bob", Age: 19, Gender: "Male", Major: "Finance"},
	)

	resp := doJSON(t, http.MethodGet,
		srv.URL+"/api/students/query?q=all+females+over+20", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got student.QueryResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got.Students, 1)
	assert.Equal(t, "S1", got.Students[0].SID)
	assert.Equal(t, query.Filters{AgeMin: 20, Gender: "Female"}, got.Filters)
}

func TestQueryEndpointUnparseable(t *testing.T) {
	srv, _ := newTestServer(t, alice())

	resp := doJSON(t, http.MethodGet,
		srv.URL+"/api/students/query?q=tell+me+a+joke", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestQueryEndpointMissingParam(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/students/query", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSaveEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, alice())

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/save", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
