package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/childcare-sync/internal/fetcher"
	"github.com/sells-group/childcare-sync/internal/model"
	"github.com/sells-group/childcare-sync/pkg/discourse"
)

// --- Source Mock ---

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Fetch(ctx context.Context) (*fetcher.Dataset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fetcher.Dataset), args.Error(1)
}

// --- Publisher Mock ---

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) CreateGroup(ctx context.Context, payload model.SubmissionPayload) discourse.Result {
	args := m.Called(ctx, payload)
	return args.Get(0).(discourse.Result)
}

func datasetOf(records ...*model.FacilityRecord) *fetcher.Dataset {
	return fetcher.NewDataset(records)
}

func created(id int64) discourse.Result {
	return discourse.Result{Kind: discourse.KindCreated, StatusCode: 200, GroupID: id}
}
