package application_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/jcastellan/workpanel/internal/domain/model"
	"github.com/jcastellan/workpanel/internal/domain/port/driven"
)

// testLogger returns a logger that discards nothing but writes through the
// testing log so failures carry context.
func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.Default()
}

// memStore is an in-memory CredentialStore for tests.
type memStore struct {
	mu     sync.Mutex
	values map[string]string
}

var _ driven.CredentialStore = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{values: map[string]string{}}
}

func (s *memStore) Set(_ context.Context, key, plaintext string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = plaintext
	return nil
}

func (s *memStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key], nil
}

func (s *memStore) List(_ context.Context) ([]model.StoredValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.StoredValue
	for k, v := range s.values {
		out = append(out, model.StoredValue{Key: k, Value: v})
	}
	return out, nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *memStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}

// fakeBackend implements driven.BackendClient with per-method hooks. Methods
// without a hook fail the test when called.
type fakeBackend struct {
	t *testing.T

	loginFn            func(ctx context.Context, username, password string) (string, error)
	listWorkOrdersFn   func(ctx context.Context, status model.WorkOrderStatus, page int) (model.Page[model.WorkOrder], error)
	getWorkOrderFn     func(ctx context.Context, id int64) (*model.WorkOrder, error)
	createWorkOrderFn  func(ctx context.Context, fields model.WorkOrderFields) (*model.WorkOrder, error)
	updateWorkOrderFn  func(ctx context.Context, id int64, patch model.WorkOrderPatch) (*model.WorkOrder, error)
	deleteWorkOrderFn  func(ctx context.Context, id int64) error
	listInspectionsFn  func(ctx context.Context, workOrder int64, page int) (model.Page[model.Inspection], error)
	createInspectionFn func(ctx context.Context, fields model.InspectionFields) (*model.Inspection, error)
}

var _ driven.BackendClient = (*fakeBackend)(nil)

func (f *fakeBackend) Login(ctx context.Context, username, password string) (string, error) {
	if f.loginFn == nil {
		f.t.Fatal("unexpected Login call")
	}
	return f.loginFn(ctx, username, password)
}

func (f *fakeBackend) ListWorkOrders(ctx context.Context, status model.WorkOrderStatus, page int) (model.Page[model.WorkOrder], error) {
	if f.listWorkOrdersFn == nil {
		f.t.Fatal("unexpected ListWorkOrders call")
	}
	return f.listWorkOrdersFn(ctx, status, page)
}

func (f *fakeBackend) GetWorkOrder(ctx context.Context, id int64) (*model.WorkOrder, error) {
	if f.getWorkOrderFn == nil {
		f.t.Fatal("unexpected GetWorkOrder call")
	}
	return f.getWorkOrderFn(ctx, id)
}

func (f *fakeBackend) CreateWorkOrder(ctx context.Context, fields model.WorkOrderFields) (*model.WorkOrder, error) {
	if f.createWorkOrderFn == nil {
		f.t.Fatal("unexpected CreateWorkOrder call")
	}
	return f.createWorkOrderFn(ctx, fields)
}

func (f *fakeBackend) UpdateWorkOrder(ctx context.Context, id int64, patch model.WorkOrderPatch) (*model.WorkOrder, error) {
	if f.updateWorkOrderFn == nil {
		f.t.Fatal("unexpected UpdateWorkOrder call")
	}
	return f.updateWorkOrderFn(ctx, id, patch)
}

func (f *fakeBackend) DeleteWorkOrder(ctx context.Context, id int64) error {
	if f.deleteWorkOrderFn == nil {
		f.t.Fatal("unexpected DeleteWorkOrder call")
	}
	return f.deleteWorkOrderFn(ctx, id)
}

func (f *fakeBackend) ListInspections(ctx context.Context, workOrder int64, page int) (model.Page[model.Inspection], error) {
	if f.listInspectionsFn == nil {
		f.t.Fatal("unexpected ListInspections call")
	}
	return f.listInspectionsFn(ctx, workOrder, page)
}

func (f *fakeBackend) CreateInspection(ctx context.Context, fields model.InspectionFields) (*model.Inspection, error) {
	if f.createInspectionFn == nil {
		f.t.Fatal("unexpected CreateInspection call")
	}
	return f.createInspectionFn(ctx, fields)
}

func (f *fakeBackend) UpdateInspection(context.Context, int64, model.InspectionPatch) (*model.Inspection, error) {
	f.t.Fatal("unexpected UpdateInspection call")
	return nil, nil
}

func (f *fakeBackend) DeleteInspection(context.Context, int64) error {
	f.t.Fatal("unexpected DeleteInspection call")
	return nil
}

func intPtr(n int) *int { return &n }
