package application_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcastellan/workpanel/internal/application"
	"github.com/jcastellan/workpanel/internal/domain/model"
)

func TestDetailController_LoadFetchesEntityAndInspections(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	api := &fakeBackend{
		t: t,
		getWorkOrderFn: func(_ context.Context, id int64) (*model.WorkOrder, error) {
			assert.Equal(t, int64(7), id)
			return &model.WorkOrder{ID: 7, Title: "Calibrate press", Station: "A3", Status: model.StatusOpen, CreatedAt: created}, nil
		},
		listInspectionsFn: func(_ context.Context, workOrder int64, page int) (model.Page[model.Inspection], error) {
			assert.Equal(t, int64(7), workOrder)
			assert.Equal(t, 1, page)
			return model.Page[model.Inspection]{
				Items: []model.Inspection{{ID: 31, WorkOrder: 7, Result: model.ResultOK}},
				Count: intPtr(1),
			}, nil
		},
	}
	ctrl := application.NewDetailController(api, testLogger(t))

	ctrl.Load(context.Background(), 7)

	state := ctrl.Snapshot()
	require.NoError(t, state.Err)
	require.NotNil(t, state.Order)
	assert.Equal(t, "Calibrate press", state.Order.Title)
	require.Len(t, state.Inspections, 1)
	assert.Equal(t, int64(31), state.Inspections[0].ID)
	require.NotNil(t, state.InsCount)
	assert.Equal(t, 1, *state.InsCount)
	assert.False(t, state.InsDegraded)
	assert.False(t, state.Loading)
}

func TestDetailController_EntityFailureIsFatal(t *testing.T) {
	rejection := &model.APIError{Kind: model.KindNotFound, Status: 404, Message: "not found"}
	api := &fakeBackend{
		t: t,
		getWorkOrderFn: func(context.Context, int64) (*model.WorkOrder, error) {
			return nil, rejection
		},
		listInspectionsFn: func(context.Context, int64, int) (model.Page[model.Inspection], error) {
			return model.Page[model.Inspection]{Items: []model.Inspection{{ID: 1}}}, nil
		},
	}
	ctrl := application.NewDetailController(api, testLogger(t))

	ctrl.Load(context.Background(), 42)

	state := ctrl.Snapshot()
	assert.ErrorIs(t, state.Err, rejection)
	assert.Equal(t, model.KindNotFound, model.ErrorKindOf(state.Err))
	assert.Nil(t, state.Order)
	assert.Empty(t, state.Inspections, "a fatal entity error hides everything, inspections included")
}

func TestDetailController_InspectionFailureDegrades(t *testing.T) {
	api := &fakeBackend{
		t: t,
		getWorkOrderFn: func(context.Context, int64) (*model.WorkOrder, error) {
			return &model.WorkOrder{ID: 7, Title: "t"}, nil
		},
		listInspectionsFn: func(context.Context, int64, int) (model.Page[model.Inspection], error) {
			return model.Page[model.Inspection]{}, &model.APIError{Kind: model.KindOperationFailed, Status: 500}
		},
	}
	ctrl := application.NewDetailController(api, testLogger(t))

	ctrl.Load(context.Background(), 7)

	state := ctrl.Snapshot()
	require.NoError(t, state.Err, "entity fetch succeeded, the view is usable")
	require.NotNil(t, state.Order)
	assert.Empty(t, state.Inspections)
	assert.True(t, state.InsDegraded)
	assert.Nil(t, state.InsCount)
}

func TestDetailController_StaleLoadSuppressed(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	api := &fakeBackend{
		t: t,
		getWorkOrderFn: func(_ context.Context, id int64) (*model.WorkOrder, error) {
			if id == 1 {
				close(firstStarted)
				<-releaseFirst
			}
			return &model.WorkOrder{ID: id}, nil
		},
		listInspectionsFn: func(_ context.Context, workOrder int64, _ int) (model.Page[model.Inspection], error) {
			return model.Page[model.Inspection]{}, nil
		},
	}
	ctrl := application.NewDetailController(api, testLogger(t))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctrl.Load(context.Background(), 1)
	}()
	<-firstStarted

	ctrl.Load(context.Background(), 2)
	close(releaseFirst)
	wg.Wait()

	state := ctrl.Snapshot()
	require.NotNil(t, state.Order)
	assert.Equal(t, int64(2), state.Order.ID, "the late response for the old id must not win")
	assert.Equal(t, int64(2), state.ID)
	assert.False(t, state.Loading)
}

func TestDetailController_UpdateReplacesEntityWholesale(t *testing.T) {
	done := model.StatusDone
	api := &fakeBackend{
		t: t,
		getWorkOrderFn: func(context.Context, int64) (*model.WorkOrder, error) {
			return &model.WorkOrder{ID: 7, Title: "before", Status: model.StatusOpen}, nil
		},
		listInspectionsFn: func(context.Context, int64, int) (model.Page[model.Inspection], error) {
			return model.Page[model.Inspection]{}, nil
		},
		updateWorkOrderFn: func(_ context.Context, id int64, patch model.WorkOrderPatch) (*model.WorkOrder, error) {
			assert.Equal(t, int64(7), id)
			require.NotNil(t, patch.Status)
			assert.Equal(t, model.StatusDone, *patch.Status)
			assert.Nil(t, patch.Title)
			// The server may normalize fields beyond what the patch sent.
			return &model.WorkOrder{ID: 7, Title: "normalized title", Status: model.StatusDone}, nil
		},
	}
	ctrl := application.NewDetailController(api, testLogger(t))
	ctrl.Load(context.Background(), 7)

	updated, err := ctrl.Update(context.Background(), model.WorkOrderPatch{Status: &done})

	require.NoError(t, err)
	assert.Equal(t, "normalized title", updated.Title)

	state := ctrl.Snapshot()
	require.NotNil(t, state.Order)
	assert.Equal(t, "normalized title", state.Order.Title, "held entity is the server representation, not a local merge")
	assert.Equal(t, model.StatusDone, state.Order.Status)
}

func TestDetailController_UpdateFailureKeepsEntity(t *testing.T) {
	rejection := &model.APIError{Kind: model.KindFieldValidation, Status: 400, Fields: map[string][]string{"status": {"invalid"}}}
	api := &fakeBackend{
		t: t,
		getWorkOrderFn: func(context.Context, int64) (*model.WorkOrder, error) {
			return &model.WorkOrder{ID: 7, Title: "before"}, nil
		},
		listInspectionsFn: func(context.Context, int64, int) (model.Page[model.Inspection], error) {
			return model.Page[model.Inspection]{}, nil
		},
		updateWorkOrderFn: func(context.Context, int64, model.WorkOrderPatch) (*model.WorkOrder, error) {
			return nil, rejection
		},
	}
	ctrl := application.NewDetailController(api, testLogger(t))
	ctrl.Load(context.Background(), 7)

	bad := model.WorkOrderStatus("NOPE")
	_, err := ctrl.Update(context.Background(), model.WorkOrderPatch{Status: &bad})

	assert.ErrorIs(t, err, rejection)
	state := ctrl.Snapshot()
	require.NotNil(t, state.Order)
	assert.Equal(t, "before", state.Order.Title)
}

func TestDetailController_AddInspectionScopesAndPrepends(t *testing.T) {
	api := &fakeBackend{
		t: t,
		getWorkOrderFn: func(context.Context, int64) (*model.WorkOrder, error) {
			return &model.WorkOrder{ID: 7}, nil
		},
		listInspectionsFn: func(context.Context, int64, int) (model.Page[model.Inspection], error) {
			return model.Page[model.Inspection]{
				Items: []model.Inspection{{ID: 10, WorkOrder: 7, Result: model.ResultOK}},
				Count: intPtr(1),
			}, nil
		},
		createInspectionFn: func(_ context.Context, fields model.InspectionFields) (*model.Inspection, error) {
			assert.Equal(t, int64(7), fields.WorkOrder, "inspection is scoped to the loaded work order")
			assert.Equal(t, model.ResultFail, fields.Result)
			return &model.Inspection{ID: 11, WorkOrder: 7, Result: fields.Result, Notes: fields.Notes}, nil
		},
	}
	ctrl := application.NewDetailController(api, testLogger(t))
	ctrl.Load(context.Background(), 7)

	created, err := ctrl.AddInspection(context.Background(), model.ResultFail, "bearing play out of tolerance")

	require.NoError(t, err)
	assert.Equal(t, int64(11), created.ID)

	state := ctrl.Snapshot()
	require.Len(t, state.Inspections, 2)
	assert.Equal(t, int64(11), state.Inspections[0].ID, "new inspection lands at index 0")
	assert.Equal(t, int64(10), state.Inspections[1].ID)
	require.NotNil(t, state.InsCount)
	assert.Equal(t, 2, *state.InsCount)
}

func TestDetailController_AddInspectionFailureChangesNothing(t *testing.T) {
	rejection := &model.APIError{Kind: model.KindFieldValidation, Status: 400}
	api := &fakeBackend{
		t: t,
		getWorkOrderFn: func(context.Context, int64) (*model.WorkOrder, error) {
			return &model.WorkOrder{ID: 7}, nil
		},
		listInspectionsFn: func(context.Context, int64, int) (model.Page[model.Inspection], error) {
			return model.Page[model.Inspection]{Items: []model.Inspection{{ID: 10}}, Count: intPtr(1)}, nil
		},
		createInspectionFn: func(context.Context, model.InspectionFields) (*model.Inspection, error) {
			return nil, rejection
		},
	}
	ctrl := application.NewDetailController(api, testLogger(t))
	ctrl.Load(context.Background(), 7)

	_, err := ctrl.AddInspection(context.Background(), model.InspectionResult(""), "")

	assert.ErrorIs(t, err, rejection)
	state := ctrl.Snapshot()
	assert.Len(t, state.Inspections, 1)
	assert.Equal(t, 1, *state.InsCount)
}
