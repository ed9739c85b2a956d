package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"reelpilot/domain/model"
	"reelpilot/domain/repository"
	"reelpilot/infrastructure/logger"
)

var (
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrInvalidOAuthState   = errors.New("invalid or expired oauth state")
)

const defaultStateTTL = 10 * time.Minute

type IConnectUsecase interface {
	// ConnectURL starts the handshake: stores a single-use state and returns the
	// platform consent URL to redirect the user to.
	ConnectURL(ctx context.Context, userID, platform, returnTo string) (string, error)
	// HandleCallback consumes the state, exchanges the code and stores the
	// connection. Returns the connection and the return-to path.
	HandleCallback(ctx context.Context, state, code string) (*model.PlatformConnection, string, error)
	List(ctx context.Context, userID string) ([]*model.PlatformConnection, error)
	Disconnect(ctx context.Context, userID, platform string) error
}

type connectUsecase struct {
	connRepo   repository.IPlatformConnection
	stateStore repository.IOAuthState
	connectors map[string]repository.IOAuthConnector
	stateTTL   time.Duration
}

func NewConnectUsecase(connRepo repository.IPlatformConnection, stateStore repository.IOAuthState, connectors []repository.IOAuthConnector) *connectUsecase {
	m := make(map[string]repository.IOAuthConnector, len(connectors))
	for _, c := range connectors {
		m[strings.ToLower(c.Platform())] = c
	}
	return &connectUsecase{
		connRepo:   connRepo,
		stateStore: stateStore,
		connectors: m,
		stateTTL:   defaultStateTTL,
	}
}

// WithStateTTL overrides how long a handshake state stays valid (fluent).
func (u *connectUsecase) WithStateTTL(ttl time.Duration) *connectUsecase {
	if ttl > 0 {
		u.stateTTL = ttl
	}
	return u
}

func (u *connectUsecase) ConnectURL(ctx context.Context, userID, platform, returnTo string) (string, error) {
	platform = strings.ToLower(platform)
	connector, ok := u.connectors[platform]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, platform)
	}
	state := uuid.NewString()
	payload := repository.OAuthState{UserID: userID, Platform: platform, ReturnTo: returnTo}
	if err := u.stateStore.Put(ctx, state, payload, u.stateTTL); err != nil {
		return "", fmt.Errorf("failed to store oauth state: %w", err)
	}
	return connector.AuthCodeURL(state), nil
}

func (u *connectUsecase) HandleCallback(ctx context.Context, state, code string) (*model.PlatformConnection, string, error) {
	if state == "" || code == "" {
		return nil, "", ErrInvalidOAuthState
	}
	payload, err := u.stateStore.Consume(ctx, state)
	if err != nil {
		return nil, "", fmt.Errorf("failed to consume oauth state: %w", err)
	}
	if payload == nil {
		return nil, "", ErrInvalidOAuthState
	}
	connector, ok := u.connectors[payload.Platform]
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, payload.Platform)
	}

	conn, err := connector.Exchange(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("code exchange failed: %w", err)
	}
	conn.UserID = payload.UserID
	if conn.ID == "" {
		conn.ID = uuid.NewString()
	}
	if err := u.connRepo.Upsert(ctx, conn); err != nil {
		return nil, "", fmt.Errorf("failed to store connection: %w", err)
	}
	logger.GetLogger().WithFields(map[string]interface{}{"user_id": payload.UserID, "platform": payload.Platform}).Info("Platform connected")
	return conn, payload.ReturnTo, nil
}

func (u *connectUsecase) List(ctx context.Context, userID string) ([]*model.PlatformConnection, error) {
	return u.connRepo.ListByUser(ctx, userID)
}

func (u *connectUsecase) Disconnect(ctx context.Context, userID, platform string) error {
	platform = strings.ToLower(platform)
	conn, err := u.connRepo.GetActive(ctx, userID, platform)
	if err != nil {
		return err
	}
	if conn == nil {
		return nil
	}
	return u.connRepo.MarkStatus(ctx, conn.ID, model.ConnectionStatusRevoked, nil)
}
