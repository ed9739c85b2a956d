package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"reelpilot/domain/dto"
	"reelpilot/domain/model"
	"reelpilot/usecase"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, videoID, userID string, platforms []string) (*dto.PublishResult, error) {
	args := m.Called(ctx, videoID, userID, platforms)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PublishResult), args.Error(1)
}

func (m *MockPublisher) VerifyPlatforms(ctx context.Context, userID string, platforms []string) (map[string]dto.PlatformStatus, error) {
	args := m.Called(ctx, userID, platforms)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]dto.PlatformStatus), args.Error(1)
}

func generatingVideo() *model.Video {
	slot := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return &model.Video{
		ID:           "video-1",
		SeriesID:     "series-1",
		Topic:        "Ancient Rome",
		Status:       model.VideoStatusGenerating,
		ScheduledFor: &slot,
	}
}

func renderSuccess() dto.RenderCompleteRequest {
	return dto.RenderCompleteRequest{
		Success:         true,
		ProjectDir:      "/tmp/projects/video-1",
		VideoPath:       "/tmp/projects/video-1/final_video.mp4",
		ThumbnailPath:   "/tmp/projects/video-1/thumbnail.jpg",
		Title:           "The Fall of Rome",
		Tags:            []string{"history", "rome"},
		DurationSeconds: 44.5,
	}
}

func TestHandleRenderComplete_MarksReadyAndAutoPublishes(t *testing.T) {
	videoRepo := new(MockVideoRepo)
	seriesRepo := new(MockSeriesRepo)
	jobRepo := new(MockJobRepo)
	publisher := new(MockPublisher)

	video := generatingVideo()
	videoRepo.On("GetByID", mock.Anything, "video-1").Return(video, nil).Once()
	seriesRepo.On("GetByID", mock.Anything, "series-1").Return(sampleSeries(), nil).Once()

	var marked *model.Video
	videoRepo.On("MarkReady", mock.Anything, mock.AnythingOfType("*model.Video")).
		Run(func(args mock.Arguments) {
			marked = args.Get(1).(*model.Video)
		}).
		Return(nil).
		Once()
	jobRepo.On("MarkResult", mock.Anything, "job-1", true, (*string)(nil)).Return(nil).Once()
	publisher.On("Publish", mock.Anything, "video-1", "user-1", []string{"youtube", "tiktok"}).
		Return(&dto.PublishResult{Success: true}, nil).
		Once()

	u := usecase.NewVideoUsecase(videoRepo, seriesRepo, jobRepo).WithPublisher(publisher)

	require.NoError(t, u.HandleRenderComplete(context.Background(), "video-1", "job-1", renderSuccess()))

	require.NotNil(t, marked)
	assert.Equal(t, "The Fall of Rome", marked.Title)
	assert.Equal(t, "/tmp/projects/video-1/final_video.mp4", marked.VideoPath)
	assert.Equal(t, 44.5, marked.DurationSeconds)
	publisher.AssertExpectations(t)
	jobRepo.AssertExpectations(t)
}

func TestHandleRenderComplete_ManualVideoIsNotAutoPublished(t *testing.T) {
	videoRepo := new(MockVideoRepo)
	seriesRepo := new(MockSeriesRepo)
	jobRepo := new(MockJobRepo)
	publisher := new(MockPublisher)

	video := generatingVideo()
	video.ScheduledFor = nil
	videoRepo.On("GetByID", mock.Anything, "video-1").Return(video, nil).Once()
	seriesRepo.On("GetByID", mock.Anything, "series-1").Return(sampleSeries(), nil).Once()
	videoRepo.On("MarkReady", mock.Anything, mock.Anything).Return(nil).Once()
	jobRepo.On("MarkResult", mock.Anything, "job-1", true, (*string)(nil)).Return(nil).Once()

	u := usecase.NewVideoUsecase(videoRepo, seriesRepo, jobRepo).WithPublisher(publisher)

	require.NoError(t, u.HandleRenderComplete(context.Background(), "video-1", "job-1", renderSuccess()))

	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleRenderComplete_FailureMarksVideoFailed(t *testing.T) {
	videoRepo := new(MockVideoRepo)
	seriesRepo := new(MockSeriesRepo)
	jobRepo := new(MockJobRepo)

	videoRepo.On("GetByID", mock.Anything, "video-1").Return(generatingVideo(), nil).Once()
	seriesRepo.On("GetByID", mock.Anything, "series-1").Return(sampleSeries(), nil).Once()
	jobRepo.On("MarkResult", mock.Anything, "job-1", false, mock.Anything).Return(nil).Once()
	videoRepo.On("UpdateStatus", mock.Anything, "video-1", model.VideoStatusFailed, mock.Anything).Return(nil).Once()

	u := usecase.NewVideoUsecase(videoRepo, seriesRepo, jobRepo)

	req := dto.RenderCompleteRequest{Success: false, Error: "tts provider unavailable"}
	require.NoError(t, u.HandleRenderComplete(context.Background(), "video-1", "job-1", req))

	videoRepo.AssertNotCalled(t, "MarkReady", mock.Anything, mock.Anything)
	videoRepo.AssertExpectations(t)
	jobRepo.AssertExpectations(t)
}

func TestHandleRenderComplete_SuccessWithoutPathRejected(t *testing.T) {
	videoRepo := new(MockVideoRepo)
	seriesRepo := new(MockSeriesRepo)

	videoRepo.On("GetByID", mock.Anything, "video-1").Return(generatingVideo(), nil).Once()
	seriesRepo.On("GetByID", mock.Anything, "series-1").Return(sampleSeries(), nil).Once()

	u := usecase.NewVideoUsecase(videoRepo, seriesRepo, new(MockJobRepo))

	err := u.HandleRenderComplete(context.Background(), "video-1", "job-1", dto.RenderCompleteRequest{Success: true})
	assert.Error(t, err)
}

func TestVideoListBySeries_OwnershipEnforced(t *testing.T) {
	seriesRepo := new(MockSeriesRepo)
	seriesRepo.On("GetByID", mock.Anything, "series-1").Return(sampleSeries(), nil).Once()

	u := usecase.NewVideoUsecase(new(MockVideoRepo), seriesRepo, new(MockJobRepo))

	videos, err := u.ListBySeries(context.Background(), "intruder", "series-1", 10, 0)

	assert.Nil(t, videos)
	assert.ErrorIs(t, err, usecase.ErrNotSeriesOwner)
}

func TestVideoGet_NotFound(t *testing.T) {
	videoRepo := new(MockVideoRepo)
	videoRepo.On("GetByID", mock.Anything, "missing").Return(nil, nil).Once()

	u := usecase.NewVideoUsecase(videoRepo, new(MockSeriesRepo), new(MockJobRepo))

	video, err := u.Get(context.Background(), "user-1", "missing")

	assert.Nil(t, video)
	assert.ErrorIs(t, err, usecase.ErrVideoNotFound)
}
