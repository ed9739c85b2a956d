package usecase_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"reelpilot/domain/dto"
	"reelpilot/domain/model"
	"reelpilot/domain/repository"
	"reelpilot/usecase"
)

// Mock implementations

type MockVideoRepo struct {
	mock.Mock
}

func (m *MockVideoRepo) Create(ctx context.Context, v *model.Video) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVideoRepo) GetByID(ctx context.Context, id string) (*model.Video, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Video), args.Error(1)
}

func (m *MockVideoRepo) ListBySeries(ctx context.Context, seriesID string, limit, offset int) ([]*model.Video, error) {
	args := m.Called(ctx, seriesID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Video), args.Error(1)
}

func (m *MockVideoRepo) UpdateStatus(ctx context.Context, id, status string, errMsg *string) error {
	args := m.Called(ctx, id, status, errMsg)
	return args.Error(0)
}

func (m *MockVideoRepo) MarkReady(ctx context.Context, v *model.Video) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVideoRepo) SetPlatformResult(ctx context.Context, id, platform, platformID, url string, publishedAt time.Time) error {
	args := m.Called(ctx, id, platform, platformID, url, publishedAt)
	return args.Error(0)
}

func (m *MockVideoRepo) ClearLocalPaths(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVideoRepo) LastScheduledFor(ctx context.Context, seriesID string) (*time.Time, error) {
	args := m.Called(ctx, seriesID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *MockVideoRepo) ExistsForSlot(ctx context.Context, seriesID string, slot time.Time) (bool, error) {
	args := m.Called(ctx, seriesID, slot)
	return args.Bool(0), args.Error(1)
}

type MockSeriesRepo struct {
	mock.Mock
}

func (m *MockSeriesRepo) Create(ctx context.Context, s *model.Series) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSeriesRepo) GetByID(ctx context.Context, id string) (*model.Series, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Series), args.Error(1)
}

func (m *MockSeriesRepo) ListByUser(ctx context.Context, userID string) ([]*model.Series, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Series), args.Error(1)
}

func (m *MockSeriesRepo) ListActive(ctx context.Context) ([]*model.Series, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Series), args.Error(1)
}

func (m *MockSeriesRepo) Update(ctx context.Context, s *model.Series) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSeriesRepo) AdvanceSchedule(ctx context.Context, id string, lastVideoAt, nextVideoAt time.Time) error {
	args := m.Called(ctx, id, lastVideoAt, nextVideoAt)
	return args.Error(0)
}

func (m *MockSeriesRepo) IncrementPublished(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockConnRepo struct {
	mock.Mock
}

func (m *MockConnRepo) Upsert(ctx context.Context, c *model.PlatformConnection) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockConnRepo) GetActive(ctx context.Context, userID, platform string) (*model.PlatformConnection, error) {
	args := m.Called(ctx, userID, platform)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PlatformConnection), args.Error(1)
}

func (m *MockConnRepo) ListByUser(ctx context.Context, userID string) ([]*model.PlatformConnection, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PlatformConnection), args.Error(1)
}

func (m *MockConnRepo) UpdateTokens(ctx context.Context, c *model.PlatformConnection) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockConnRepo) MarkStatus(ctx context.Context, id, status string, lastError *string) error {
	args := m.Called(ctx, id, status, lastError)
	return args.Error(0)
}

func (m *MockConnRepo) TouchLastUsed(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUploader struct {
	mock.Mock
	name string
}

func (m *MockUploader) Platform() string {
	return m.name
}

func (m *MockUploader) Upload(ctx context.Context, conn *model.PlatformConnection, req *dto.UploadRequest) (*dto.UploadOutcome, error) {
	args := m.Called(ctx, conn, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UploadOutcome), args.Error(1)
}

func (m *MockUploader) RefreshToken(ctx context.Context, conn *model.PlatformConnection) (bool, error) {
	args := m.Called(ctx, conn)
	return args.Bool(0), args.Error(1)
}

type MockCleaner struct {
	mock.Mock
}

func (m *MockCleaner) Remove(projectDir string) error {
	args := m.Called(projectDir)
	return args.Error(0)
}

// Helpers

func writeTempVideo(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "final_video.mp4")
	require.NoError(t, os.WriteFile(path, []byte("mp4"), 0o644))
	return dir, path
}

func readyVideo(dir, path string) *model.Video {
	return &model.Video{
		ID:         "video-1",
		SeriesID:   "series-1",
		Topic:      "Ancient Rome",
		Title:      "Sample Title",
		Tags:       []string{"history", "rome"},
		Status:     model.VideoStatusReady,
		ProjectDir: dir,
		VideoPath:  path,
	}
}

func sampleSeries() *model.Series {
	return &model.Series{
		ID:          "series-1",
		UserID:      "user-1",
		Name:        "History Shorts",
		Description: "Daily history facts",
		Platforms:   []string{"youtube", "tiktok"},
		Status:      model.SeriesStatusActive,
	}
}

func activeConn(platform string) *model.PlatformConnection {
	exp := time.Now().UTC().Add(time.Hour)
	return &model.PlatformConnection{
		ID:                   "conn-" + platform,
		UserID:               "user-1",
		Platform:             platform,
		AccessToken:          "token",
		Status:               model.ConnectionStatusActive,
		AccessTokenExpiresAt: &exp,
	}
}

func TestPublish_PartialFailureStillSucceeds(t *testing.T) {
	dir, path := writeTempVideo(t)
	video := readyVideo(dir, path)

	videoRepo := new(MockVideoRepo)
	seriesRepo := new(MockSeriesRepo)
	connRepo := new(MockConnRepo)
	cleaner := new(MockCleaner)
	yt := &MockUploader{name: "youtube"}
	tk := &MockUploader{name: "tiktok"}

	videoRepo.On("GetByID", mock.Anything, "video-1").Return(video, nil).Once()
	seriesRepo.On("GetByID", mock.Anything, "series-1").Return(sampleSeries(), nil).Once()

	connRepo.On("GetActive", mock.Anything, "user-1", "youtube").Return(activeConn("youtube"), nil).Once()
	connRepo.On("GetActive", mock.Anything, "user-1", "tiktok").Return(activeConn("tiktok"), nil).Once()

	yt.On("Upload", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, assert.AnError).
		Once()
	tk.On("Upload", mock.Anything, mock.Anything, mock.Anything).
		Return(&dto.UploadOutcome{PlatformID: "tt-1", URL: "https://tiktok.com/@u/video/tt-1"}, nil).
		Once()

	videoRepo.On("SetPlatformResult", mock.Anything, "video-1", "tiktok", "tt-1", "https://tiktok.com/@u/video/tt-1", mock.Anything).
		Return(nil).
		Once()
	connRepo.On("TouchLastUsed", mock.Anything, "conn-tiktok").Return(nil).Once()

	videoRepo.On("UpdateStatus", mock.Anything, "video-1", model.VideoStatusPublished, (*string)(nil)).Return(nil).Once()
	seriesRepo.On("IncrementPublished", mock.Anything, "series-1").Return(nil).Once()
	cleaner.On("Remove", dir).Return(nil).Once()
	videoRepo.On("ClearLocalPaths", mock.Anything, "video-1").Return(nil).Once()

	u := usecase.NewPublishUsecase(videoRepo, seriesRepo, connRepo,
		[]repository.IPlatformUploader{yt, tk}, cleaner)

	result, err := u.Publish(context.Background(), "video-1", "user-1", []string{"youtube", "tiktok"})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, []string{"youtube", "tiktok"}, result.Attempted)
	assert.Equal(t, []string{"tiktok"}, result.Succeeded)
	assert.Equal(t, []string{"youtube"}, result.Failed)
	assert.False(t, result.Results["youtube"].Success)
	assert.Equal(t, assert.AnError.Error(), result.Results["youtube"].Error)
	assert.True(t, result.Results["tiktok"].Success)
	assert.Equal(t, "tt-1", result.Results["tiktok"].PlatformID)

	videoRepo.AssertExpectations(t)
	seriesRepo.AssertExpectations(t)
	connRepo.AssertExpectations(t)
	cleaner.AssertExpectations(t)
	yt.AssertExpectations(t)
	tk.AssertExpectations(t)
}

func TestPublish_RejectsVideoNotReady(t *testing.T) {
	dir, path := writeTempVideo(t)
	video := readyVideo(dir, path)
	video.Status = model.VideoStatusGenerating

	videoRepo := new(MockVideoRepo)
	videoRepo.On("GetByID", mock.Anything, "video-1").Return(video, nil).Once()

	u := usecase.NewPublishUsecase(videoRepo, new(MockSeriesRepo), new(MockConnRepo), nil, new(MockCleaner))

	result, err := u.Publish(context.Background(), "video-1", "user-1", []string{"youtube"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, usecase.ErrVideoNotReady)
	videoRepo.AssertExpectations(t)
}

func TestPublish_RejectsMissingVideoFile(t *testing.T) {
	dir, path := writeTempVideo(t)
	video := readyVideo(dir, path)
	require.NoError(t, os.Remove(path))

	videoRepo := new(MockVideoRepo)
	videoRepo.On("GetByID", mock.Anything, "video-1").Return(video, nil).Once()

	u := usecase.NewPublishUsecase(videoRepo, new(MockSeriesRepo), new(MockConnRepo), nil, new(MockCleaner))

	result, err := u.Publish(context.Background(), "video-1", "user-1", []string{"youtube"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, usecase.ErrVideoNotReady)
	videoRepo.AssertExpectations(t)
}

func TestPublish_AllPlatformsFailKeepsStatus(t *testing.T) {
	dir, path := writeTempVideo(t)
	video := readyVideo(dir, path)

	videoRepo := new(MockVideoRepo)
	seriesRepo := new(MockSeriesRepo)
	connRepo := new(MockConnRepo)
	cleaner := new(MockCleaner)
	yt := &MockUploader{name: "youtube"}

	videoRepo.On("GetByID", mock.Anything, "video-1").Return(video, nil).Once()
	seriesRepo.On("GetByID", mock.Anything, "series-1").Return(sampleSeries(), nil).Once()
	connRepo.On("GetActive", mock.Anything, "user-1", "youtube").Return(activeConn("youtube"), nil).Once()
	// tiktok is simply not connected.
	connRepo.On("GetActive", mock.Anything, "user-1", "tiktok").Return(nil, nil).Once()
	yt.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return(nil, assert.AnError).Once()

	u := usecase.NewPublishUsecase(videoRepo, seriesRepo, connRepo,
		[]repository.IPlatformUploader{yt}, cleaner)

	result, err := u.Publish(context.Background(), "video-1", "user-1", []string{"youtube", "tiktok"})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Empty(t, result.Succeeded)
	assert.Equal(t, []string{"youtube", "tiktok"}, result.Failed)
	assert.Equal(t, "NotConnected", result.Results["tiktok"].ErrorType)

	// No status flip, no cleanup on total failure.
	videoRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	cleaner.AssertNotCalled(t, "Remove", mock.Anything)
	videoRepo.AssertExpectations(t)
	connRepo.AssertExpectations(t)
}

func TestPublish_CleanupFailureDoesNotUndoPublish(t *testing.T) {
	dir, path := writeTempVideo(t)
	video := readyVideo(dir, path)

	videoRepo := new(MockVideoRepo)
	seriesRepo := new(MockSeriesRepo)
	connRepo := new(MockConnRepo)
	cleaner := new(MockCleaner)
	yt := &MockUploader{name: "youtube"}

	videoRepo.On("GetByID", mock.Anything, "video-1").Return(video, nil).Once()
	seriesRepo.On("GetByID", mock.Anything, "series-1").Return(sampleSeries(), nil).Once()
	connRepo.On("GetActive", mock.Anything, "user-1", "youtube").Return(activeConn("youtube"), nil).Once()
	yt.On("Upload", mock.Anything, mock.Anything, mock.Anything).
		Return(&dto.UploadOutcome{PlatformID: "yt-1", URL: "https://youtube.com/shorts/yt-1"}, nil).
		Once()
	videoRepo.On("SetPlatformResult", mock.Anything, "video-1", "youtube", "yt-1", "https://youtube.com/shorts/yt-1", mock.Anything).Return(nil).Once()
	connRepo.On("TouchLastUsed", mock.Anything, "conn-youtube").Return(nil).Once()
	videoRepo.On("UpdateStatus", mock.Anything, "video-1", model.VideoStatusPublished, (*string)(nil)).Return(nil).Once()
	seriesRepo.On("IncrementPublished", mock.Anything, "series-1").Return(nil).Once()
	cleaner.On("Remove", dir).Return(assert.AnError).Once()

	u := usecase.NewPublishUsecase(videoRepo, seriesRepo, connRepo,
		[]repository.IPlatformUploader{yt}, cleaner)

	result, err := u.Publish(context.Background(), "video-1", "user-1", []string{"youtube"})

	require.NoError(t, err)
	assert.True(t, result.Success)
	// Local paths stay recorded when cleanup could not delete them.
	videoRepo.AssertNotCalled(t, "ClearLocalPaths", mock.Anything, mock.Anything)
	videoRepo.AssertExpectations(t)
	cleaner.AssertExpectations(t)
}

func TestPublish_RefreshFailureStillAttemptsUpload(t *testing.T) {
	dir, path := writeTempVideo(t)
	video := readyVideo(dir, path)

	conn := activeConn("youtube")
	soon := time.Now().UTC().Add(time.Minute) // inside the refresh buffer
	conn.AccessTokenExpiresAt = &soon

	videoRepo := new(MockVideoRepo)
	seriesRepo := new(MockSeriesRepo)
	connRepo := new(MockConnRepo)
	cleaner := new(MockCleaner)
	yt := &MockUploader{name: "youtube"}

	videoRepo.On("GetByID", mock.Anything, "video-1").Return(video, nil).Once()
	seriesRepo.On("GetByID", mock.Anything, "series-1").Return(sampleSeries(), nil).Once()
	connRepo.On("GetActive", mock.Anything, "user-1", "youtube").Return(conn, nil).Once()
	yt.On("RefreshToken", mock.Anything, conn).Return(false, assert.AnError).Once()
	yt.On("Upload", mock.Anything, conn, mock.Anything).
		Return(&dto.UploadOutcome{PlatformID: "yt-1", URL: "https://youtube.com/shorts/yt-1"}, nil).
		Once()
	videoRepo.On("SetPlatformResult", mock.Anything, "video-1", "youtube", "yt-1", "https://youtube.com/shorts/yt-1", mock.Anything).Return(nil).Once()
	connRepo.On("TouchLastUsed", mock.Anything, "conn-youtube").Return(nil).Once()
	videoRepo.On("UpdateStatus", mock.Anything, "video-1", model.VideoStatusPublished, (*string)(nil)).Return(nil).Once()
	seriesRepo.On("IncrementPublished", mock.Anything, "series-1").Return(nil).Once()
	cleaner.On("Remove", dir).Return(nil).Once()
	videoRepo.On("ClearLocalPaths", mock.Anything, "video-1").Return(nil).Once()

	u := usecase.NewPublishUsecase(videoRepo, seriesRepo, connRepo,
		[]repository.IPlatformUploader{yt}, cleaner)

	result, err := u.Publish(context.Background(), "video-1", "user-1", []string{"youtube"})

	require.NoError(t, err)
	assert.True(t, result.Success)
	// Refresh never persisted because it failed.
	connRepo.AssertNotCalled(t, "UpdateTokens", mock.Anything, mock.Anything)
	yt.AssertExpectations(t)
	connRepo.AssertExpectations(t)
}

func TestPublish_SuccessfulRefreshIsPersisted(t *testing.T) {
	dir, path := writeTempVideo(t)
	video := readyVideo(dir, path)

	conn := activeConn("tiktok")
	soon := time.Now().UTC().Add(time.Minute)
	conn.AccessTokenExpiresAt = &soon

	videoRepo := new(MockVideoRepo)
	seriesRepo := new(MockSeriesRepo)
	connRepo := new(MockConnRepo)
	cleaner := new(MockCleaner)
	tk := &MockUploader{name: "tiktok"}

	videoRepo.On("GetByID", mock.Anything, "video-1").Return(video, nil).Once()
	seriesRepo.On("GetByID", mock.Anything, "series-1").Return(sampleSeries(), nil).Once()
	connRepo.On("GetActive", mock.Anything, "user-1", "tiktok").Return(conn, nil).Once()
	tk.On("RefreshToken", mock.Anything, conn).Return(true, nil).Once()
	connRepo.On("UpdateTokens", mock.Anything, conn).Return(nil).Once()
	tk.On("Upload", mock.Anything, conn, mock.Anything).
		Return(&dto.UploadOutcome{PlatformID: "tt-9", URL: "https://tiktok.com/@u/video/tt-9"}, nil).
		Once()
	videoRepo.On("SetPlatformResult", mock.Anything, "video-1", "tiktok", "tt-9", "https://tiktok.com/@u/video/tt-9", mock.Anything).Return(nil).Once()
	connRepo.On("TouchLastUsed", mock.Anything, "conn-tiktok").Return(nil).Once()
	videoRepo.On("UpdateStatus", mock.Anything, "video-1", model.VideoStatusPublished, (*string)(nil)).Return(nil).Once()
	seriesRepo.On("IncrementPublished", mock.Anything, "series-1").Return(nil).Once()
	cleaner.On("Remove", dir).Return(nil).Once()
	videoRepo.On("ClearLocalPaths", mock.Anything, "video-1").Return(nil).Once()

	u := usecase.NewPublishUsecase(videoRepo, seriesRepo, connRepo,
		[]repository.IPlatformUploader{tk}, cleaner)

	result, err := u.Publish(context.Background(), "video-1", "user-1", []string{"tiktok"})

	require.NoError(t, err)
	assert.True(t, result.Success)
	connRepo.AssertExpectations(t)
	tk.AssertExpectations(t)
}

func TestPublish_TruncatesTitleAndCaption(t *testing.T) {
	dir, path := writeTempVideo(t)
	video := readyVideo(dir, path)
	long := make([]rune, 150)
	for i := range long {
		long[i] = 'a'
	}
	video.Title = string(long)

	videoRepo := new(MockVideoRepo)
	seriesRepo := new(MockSeriesRepo)
	connRepo := new(MockConnRepo)
	cleaner := new(MockCleaner)
	yt := &MockUploader{name: "youtube"}

	videoRepo.On("GetByID", mock.Anything, "video-1").Return(video, nil).Once()
	seriesRepo.On("GetByID", mock.Anything, "series-1").Return(sampleSeries(), nil).Once()
	connRepo.On("GetActive", mock.Anything, "user-1", "youtube").Return(activeConn("youtube"), nil).Once()

	var captured *dto.UploadRequest
	yt.On("Upload", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).(*dto.UploadRequest)
		}).
		Return(&dto.UploadOutcome{PlatformID: "yt-1", URL: "https://youtube.com/shorts/yt-1"}, nil).
		Once()
	videoRepo.On("SetPlatformResult", mock.Anything, "video-1", "youtube", "yt-1", "https://youtube.com/shorts/yt-1", mock.Anything).Return(nil).Once()
	connRepo.On("TouchLastUsed", mock.Anything, "conn-youtube").Return(nil).Once()
	videoRepo.On("UpdateStatus", mock.Anything, "video-1", model.VideoStatusPublished, (*string)(nil)).Return(nil).Once()
	seriesRepo.On("IncrementPublished", mock.Anything, "series-1").Return(nil).Once()
	cleaner.On("Remove", dir).Return(nil).Once()
	videoRepo.On("ClearLocalPaths", mock.Anything, "video-1").Return(nil).Once()

	u := usecase.NewPublishUsecase(videoRepo, seriesRepo, connRepo,
		[]repository.IPlatformUploader{yt}, cleaner)

	result, err := u.Publish(context.Background(), "video-1", "user-1", []string{"youtube"})

	require.NoError(t, err)
	assert.True(t, result.Success)
	require.NotNil(t, captured)
	assert.Len(t, []rune(captured.Title), 100)
	assert.Contains(t, captured.Caption, "#history")
	assert.LessOrEqual(t, len([]rune(captured.Caption)), 2200)
}

func TestPublish_UploadTimeoutIsReported(t *testing.T) {
	dir, path := writeTempVideo(t)
	video := readyVideo(dir, path)

	videoRepo := new(MockVideoRepo)
	seriesRepo := new(MockSeriesRepo)
	connRepo := new(MockConnRepo)
	yt := &MockUploader{name: "youtube"}

	videoRepo.On("GetByID", mock.Anything, "video-1").Return(video, nil).Once()
	seriesRepo.On("GetByID", mock.Anything, "series-1").Return(sampleSeries(), nil).Once()
	connRepo.On("GetActive", mock.Anything, "user-1", "youtube").Return(activeConn("youtube"), nil).Once()
	yt.On("Upload", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			<-ctx.Done()
		}).
		Return(nil, context.DeadlineExceeded).
		Once()

	u := usecase.NewPublishUsecase(videoRepo, seriesRepo, connRepo,
		[]repository.IPlatformUploader{yt}, new(MockCleaner)).
		WithUploadTimeout(10 * time.Millisecond)

	result, err := u.Publish(context.Background(), "video-1", "user-1", []string{"youtube"})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Timeout", result.Results["youtube"].ErrorType)
}

func TestPublish_AlreadyPublishedPlatformIsNotReuploaded(t *testing.T) {
	dir, path := writeTempVideo(t)
	video := readyVideo(dir, path)
	ytID := "yt-1"
	ytURL := "https://youtube.com/shorts/yt-1"
	video.YouTubeID = &ytID
	video.YouTubeURL = &ytURL

	videoRepo := new(MockVideoRepo)
	seriesRepo := new(MockSeriesRepo)
	connRepo := new(MockConnRepo)
	cleaner := new(MockCleaner)
	yt := &MockUploader{name: "youtube"}

	videoRepo.On("GetByID", mock.Anything, "video-1").Return(video, nil).Once()
	seriesRepo.On("GetByID", mock.Anything, "series-1").Return(sampleSeries(), nil).Once()
	videoRepo.On("UpdateStatus", mock.Anything, "video-1", model.VideoStatusPublished, (*string)(nil)).Return(nil).Once()
	seriesRepo.On("IncrementPublished", mock.Anything, "series-1").Return(nil).Once()
	cleaner.On("Remove", dir).Return(nil).Once()
	videoRepo.On("ClearLocalPaths", mock.Anything, "video-1").Return(nil).Once()

	u := usecase.NewPublishUsecase(videoRepo, seriesRepo, connRepo,
		[]repository.IPlatformUploader{yt}, cleaner)

	result, err := u.Publish(context.Background(), "video-1", "user-1", []string{"youtube"})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "yt-1", result.Results["youtube"].PlatformID)
	yt.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
	connRepo.AssertNotCalled(t, "GetActive", mock.Anything, mock.Anything, mock.Anything)
	videoRepo.AssertNotCalled(t, "SetPlatformResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	videoRepo.AssertExpectations(t)
}

func TestVerifyPlatforms(t *testing.T) {
	connRepo := new(MockConnRepo)
	connRepo.On("GetActive", mock.Anything, "user-1", "youtube").Return(activeConn("youtube"), nil).Once()
	connRepo.On("GetActive", mock.Anything, "user-1", "instagram").Return(nil, nil).Once()

	u := usecase.NewPublishUsecase(new(MockVideoRepo), new(MockSeriesRepo), connRepo, nil, new(MockCleaner))

	status, err := u.VerifyPlatforms(context.Background(), "user-1", []string{"youtube", "instagram"})

	require.NoError(t, err)
	assert.True(t, status["youtube"].Connected)
	assert.True(t, status["youtube"].Active)
	assert.False(t, status["instagram"].Connected)
	connRepo.AssertExpectations(t)
}
