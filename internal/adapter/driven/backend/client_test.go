package backend_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcastellan/workpanel/internal/adapter/driven/backend"
	"github.com/jcastellan/workpanel/internal/domain/model"
)

// staticToken is a TokenSource returning a fixed value.
type staticToken string

func (s staticToken) Token() string { return string(s) }

// newTestClient creates a Client backed by the given httptest handler.
func newTestClient(t *testing.T, handler http.Handler) *backend.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return backend.NewClientWithHTTPClient(server.Client(), server.URL+"/api/")
}

func TestLogin_Success(t *testing.T) {
	var gotAuth string
	var gotBody map[string]string

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/token/", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"access": "tok-123"})
	})

	client := newTestClient(t, handler)
	// Even with a token source attached, the exchange goes out bare.
	client.SetTokenSource(staticToken("stale-token"))

	token, err := client.Login(context.Background(), "alice", "s3cret")

	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
	assert.Empty(t, gotAuth, "token exchange must not carry a bearer token")
	assert.Equal(t, map[string]string{"username": "alice", "password": "s3cret"}, gotBody)
}

func TestLogin_Rejected(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "No active account found with the given credentials"})
	})

	client := newTestClient(t, handler)
	_, err := client.Login(context.Background(), "alice", "wrong")

	var apiErr *model.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, model.KindNotAuthenticated, apiErr.Kind)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Contains(t, apiErr.Message, "No active account")
}

func TestListWorkOrders_Envelope(t *testing.T) {
	var gotQuery map[string]string
	var gotAuth string

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/workorders/", r.URL.Path)
		gotQuery = map[string]string{
			"status": r.URL.Query().Get("status"),
			"page":   r.URL.Query().Get("page"),
		}
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"count":    25,
			"next":     "http://backend/api/workorders/?page=3",
			"previous": "http://backend/api/workorders/?page=1",
			"results": []map[string]any{
				{"id": 7, "title": "Grease bearings", "station": "A3", "status": "OPEN", "created_at": "2026-08-01T10:00:00Z"},
				{"id": 8, "title": "Swap belt", "station": "A4", "status": "DONE", "created_at": "2026-08-02T11:30:00Z"},
			},
		})
	})

	client := newTestClient(t, handler)
	client.SetTokenSource(staticToken("tok-abc"))

	page, err := client.ListWorkOrders(context.Background(), model.StatusOpen, 2)

	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-abc", gotAuth)
	assert.Equal(t, map[string]string{"status": "OPEN", "page": "2"}, gotQuery)

	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(7), page.Items[0].ID)
	assert.Equal(t, "Grease bearings", page.Items[0].Title)
	assert.Equal(t, model.StatusOpen, page.Items[0].Status)
	require.NotNil(t, page.Count)
	assert.Equal(t, 25, *page.Count)
	assert.True(t, page.HasNext)
	assert.True(t, page.HasPrev)
}

func TestListWorkOrders_BareArray(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("status"), "empty filter is omitted")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": 1, "title": "Check valves", "station": "B1", "status": "IN_PROGRESS", "created_at": "2026-08-03T08:00:00Z"},
		})
	})

	client := newTestClient(t, handler)
	page, err := client.ListWorkOrders(context.Background(), "", 1)

	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Nil(t, page.Count, "bare arrays carry no total")
	assert.False(t, page.HasNext)
	assert.False(t, page.HasPrev)
}

func TestListWorkOrders_EmptyEnvelope(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"count": 0, "next": nil, "previous": nil, "results": []any{}})
	})

	client := newTestClient(t, handler)
	page, err := client.ListWorkOrders(context.Background(), "", 1)

	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	require.NotNil(t, page.Count)
	assert.Zero(t, *page.Count)
	assert.False(t, page.HasNext)
}

func TestCreateWorkOrder_ValidationError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"title":   []string{"This field may not be blank."},
			"station": "This field is required.",
		})
	})

	client := newTestClient(t, handler)
	_, err := client.CreateWorkOrder(context.Background(), model.WorkOrderFields{})

	var apiErr *model.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, model.KindFieldValidation, apiErr.Kind)
	assert.Equal(t, []string{"This field may not be blank."}, apiErr.Fields["title"])
	assert.Equal(t, []string{"This field is required."}, apiErr.Fields["station"])
}

func TestGetWorkOrder_NotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Not found."})
	})

	client := newTestClient(t, handler)
	_, err := client.GetWorkOrder(context.Background(), 999)

	var apiErr *model.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, model.KindNotFound, apiErr.Kind)
	assert.Equal(t, "Not found.", apiErr.Message)
}

func TestDeleteWorkOrder_NoContent(t *testing.T) {
	var gotMethod, gotPath string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	client := newTestClient(t, handler)
	err := client.DeleteWorkOrder(context.Background(), 12)

	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/workorders/12/", gotPath)
}

func TestUpdateWorkOrder_PartialBody(t *testing.T) {
	var gotBody map[string]any
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id": 5, "title": "Swap belt", "station": "A4", "status": "DONE",
			"created_at": "2026-08-02T11:30:00Z",
		})
	})

	client := newTestClient(t, handler)
	status := model.StatusDone
	wo, err := client.UpdateWorkOrder(context.Background(), 5, model.WorkOrderPatch{Status: &status})

	require.NoError(t, err)
	assert.Equal(t, model.StatusDone, wo.Status)
	assert.Equal(t, map[string]any{"status": "DONE"}, gotBody, "nil patch fields stay out of the body")
}

func TestListInspections_ScopedToWorkOrder(t *testing.T) {
	var gotQuery string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/inspections/", r.URL.Path)
		gotQuery = r.URL.Query().Get("work_order")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"count": 1, "next": nil, "previous": nil,
			"results": []map[string]any{
				{"id": 3, "work_order": 7, "result": "FAIL", "notes": "loose bolt", "created_at": "2026-08-05T09:00:00Z"},
			},
		})
	})

	client := newTestClient(t, handler)
	page, err := client.ListInspections(context.Background(), 7, 1)

	require.NoError(t, err)
	assert.Equal(t, "7", gotQuery)
	require.Len(t, page.Items, 1)
	assert.Equal(t, model.ResultFail, page.Items[0].Result)
	assert.Equal(t, int64(7), page.Items[0].WorkOrder)
}

func TestCreateInspection_Success(t *testing.T) {
	var gotBody map[string]any
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"id": 9, "work_order": 7, "result": "OK", "notes": "",
			"created_at": "2026-08-05T10:00:00Z",
		})
	})

	client := newTestClient(t, handler)
	ins, err := client.CreateInspection(context.Background(), model.InspectionFields{
		WorkOrder: 7,
		Result:    model.ResultOK,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(9), ins.ID)
	assert.Equal(t, float64(7), gotBody["work_order"], "work order reference is numeric on the wire")
}

func TestServerError_ClassifiesOperationFailed(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	client := newTestClient(t, handler)
	_, err := client.ListWorkOrders(context.Background(), "", 1)

	var apiErr *model.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, model.KindOperationFailed, apiErr.Kind)
}

func TestTransportError_IsNotAPIError(t *testing.T) {
	client := backend.NewClientWithHTTPClient(&http.Client{}, "http://127.0.0.1:1/api/")

	_, err := client.ListWorkOrders(context.Background(), "", 1)

	require.Error(t, err)
	assert.Equal(t, model.KindOperationFailed, model.ErrorKindOf(err))
}
