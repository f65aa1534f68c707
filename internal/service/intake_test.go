package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/codevox/codevox-go/internal/domain/model"
	apperrors "github.com/codevox/codevox-go/internal/errors"
	"github.com/codevox/codevox-go/internal/mocks"
)

func submitRequest() *model.SubmitJobRequest {
	return &model.SubmitJobRequest{
		UserID:   "user-1",
		Repo:     "git@example.com:org/api.git",
		Branch:   "main",
		TaskText: "add rate limiting to the login endpoint",
		Heuristics: model.Heuristics{
			AutoMergeLOCLimit: 50,
			BlockedPaths:      []string{"migrations"},
		},
	}
}

func createdJob(req *model.SubmitJobRequest) *model.JobRecord {
	return &model.JobRecord{
		ID:         testJobID,
		UserID:     req.UserID,
		Repo:       req.Repo,
		Branch:     req.Branch,
		TaskText:   req.TaskText,
		StyleGuide: req.StyleGuide,
		Heuristics: req.Heuristics,
		Status:     model.JobStatusPending,
	}
}

func TestNewIntakeService(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("success", func(t *testing.T) {
		svc, err := NewIntakeService(IntakeServiceOptions{
			Repo:  mocks.NewMockJobRepository(ctrl),
			Queue: mocks.NewMockJobQueue(ctrl),
		})
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("missing repo", func(t *testing.T) {
		_, err := NewIntakeService(IntakeServiceOptions{
			Queue: mocks.NewMockJobQueue(ctrl),
		})
		require.Error(t, err)
	})

	t.Run("missing queue", func(t *testing.T) {
		_, err := NewIntakeService(IntakeServiceOptions{
			Repo: mocks.NewMockJobRepository(ctrl),
		})
		require.Error(t, err)
	})
}

func TestIntakeService_Submit_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	req := submitRequest()
	created := createdJob(req)

	repo := mocks.NewMockJobRepository(ctrl)
	queue := mocks.NewMockJobQueue(ctrl)
	gomock.InOrder(
		repo.EXPECT().Create(gomock.Any(), req).Return(created, nil),
		queue.EXPECT().Enqueue(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, desc *model.JobDescriptor) error {
				assert.Equal(t, created.ID, desc.JobID)
				assert.Equal(t, created.UserID, desc.UserID)
				assert.Equal(t, created.Repo, desc.Repo)
				assert.Equal(t, created.Branch, desc.Branch)
				assert.Equal(t, created.TaskText, desc.TaskText)
				assert.Equal(t, created.Heuristics, desc.Heuristics)
				return nil
			},
		),
	)

	svc := MustNewIntakeService(IntakeServiceOptions{Repo: repo, Queue: queue})

	job, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, model.JobStatusPending, job.Status)
	assert.Equal(t, testJobID, job.ID)
}

func TestIntakeService_Submit_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := MustNewIntakeService(IntakeServiceOptions{
		Repo:  mocks.NewMockJobRepository(ctrl),
		Queue: mocks.NewMockJobQueue(ctrl),
	})

	t.Run("nil request", func(t *testing.T) {
		job, err := svc.Submit(context.Background(), nil)
		require.Error(t, err)
		assert.Nil(t, job)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("missing task text", func(t *testing.T) {
		req := submitRequest()
		req.TaskText = "  "
		job, err := svc.Submit(context.Background(), req)
		require.Error(t, err)
		assert.Nil(t, job)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("malformed client job id", func(t *testing.T) {
		req := submitRequest()
		req.JobID = "not-a-uuid"
		_, err := svc.Submit(context.Background(), req)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("negative loc limit", func(t *testing.T) {
		req := submitRequest()
		req.Heuristics.AutoMergeLOCLimit = -1
		_, err := svc.Submit(context.Background(), req)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestIntakeService_Submit_CreateError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	req := submitRequest()
	conflict := apperrors.Conflictf("job %s already exists", testJobID)

	repo := mocks.NewMockJobRepository(ctrl)
	repo.EXPECT().Create(gomock.Any(), req).Return(nil, conflict)

	svc := MustNewIntakeService(IntakeServiceOptions{
		Repo:  repo,
		Queue: mocks.NewMockJobQueue(ctrl),
	})

	job, err := svc.Submit(context.Background(), req)
	require.Error(t, err)
	assert.Nil(t, job)
	assert.True(t, apperrors.IsConflict(err))
}

func TestIntakeService_Submit_EnqueueFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	req := submitRequest()
	created := createdJob(req)

	repo := mocks.NewMockJobRepository(ctrl)
	queue := mocks.NewMockJobQueue(ctrl)
	gomock.InOrder(
		repo.EXPECT().Create(gomock.Any(), req).Return(created, nil),
		queue.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(errors.New("redis: connection refused")),
	)

	svc := MustNewIntakeService(IntakeServiceOptions{Repo: repo, Queue: queue})

	job, err := svc.Submit(context.Background(), req)
	require.Error(t, err)
	assert.Nil(t, job)
	assert.True(t, apperrors.IsInfra(err))
}
