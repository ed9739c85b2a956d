package realtime

import (
    "encoding/json"
    "net/http"
    "sync"

    "github.com/gin-gonic/gin"
)

// StatusEvent is an SSE payload for publish and generation status updates.
type StatusEvent struct {
    Type     string  `json:"type"`
    VideoID  string  `json:"video_id"`
    Platform string  `json:"platform,omitempty"`
    Status   string  `json:"status"`
    URL      *string `json:"url,omitempty"`
    Error    *string `json:"error,omitempty"`
}

// Hub maintains per-user subscribers listening for status events.
type Hub struct {
    mu    sync.RWMutex
    users map[string]map[chan StatusEvent]struct{}
}

func NewStatusHub() *Hub {
    return &Hub{users: make(map[string]map[chan StatusEvent]struct{})}
}

// Serve registers an SSE stream for the authenticated user (user_id set by middleware).
func (h *Hub) Serve(c *gin.Context) {
    userID := c.GetString("user_id")
    if userID == "" {
        c.Status(http.StatusUnauthorized)
        return
    }
    c.Header("Content-Type", "text/event-stream")
    c.Header("Cache-Control", "no-cache")
    c.Header("Connection", "keep-alive")
    c.Header("X-Accel-Buffering", "no") // disable nginx buffering

    ch := make(chan StatusEvent, 8)
    h.addSubscriber(userID, ch)
    defer h.removeSubscriber(userID, ch)

    // Initial comment to keep connection open
    c.Writer.Write([]byte(":ok\n\n"))
    c.Writer.Flush()

    notify := c.Writer.CloseNotify()
    for {
        select {
        case <-notify:
            return
        case evt := <-ch:
            data, _ := json.Marshal(evt)
            _, _ = c.Writer.Write([]byte("event: " + evt.Type + "\n"))
            _, _ = c.Writer.Write([]byte("data: "))
            _, _ = c.Writer.Write(data)
            _, _ = c.Writer.Write([]byte("\n\n"))
            c.Writer.Flush()
        case <-c.Request.Context().Done():
            return
        }
    }
}

func (h *Hub) addSubscriber(userID string, ch chan StatusEvent) {
    h.mu.Lock()
    defer h.mu.Unlock()
    if h.users[userID] == nil {
        h.users[userID] = make(map[chan StatusEvent]struct{})
    }
    h.users[userID][ch] = struct{}{}
}

func (h *Hub) removeSubscriber(userID string, ch chan StatusEvent) {
    h.mu.Lock()
    defer h.mu.Unlock()
    if subs := h.users[userID]; subs != nil {
        delete(subs, ch)
        close(ch)
        if len(subs) == 0 {
            delete(h.users, userID)
        }
    }
}

// BroadcastPublishStatus fans a per-platform publish result out to all of the
// user's open streams. Slow subscribers are skipped rather than blocked on.
func (h *Hub) BroadcastPublishStatus(userID, videoID, platform, status string, url, errMsg *string) {
    h.broadcast(userID, StatusEvent{
        Type:     "publish_status",
        VideoID:  videoID,
        Platform: platform,
        Status:   status,
        URL:      url,
        Error:    errMsg,
    })
}

// BroadcastVideoStatus announces a generation lifecycle change for a video.
func (h *Hub) BroadcastVideoStatus(userID, videoID, status string, errMsg *string) {
    h.broadcast(userID, StatusEvent{
        Type:    "video_status",
        VideoID: videoID,
        Status:  status,
        Error:   errMsg,
    })
}

func (h *Hub) broadcast(userID string, evt StatusEvent) {
    h.mu.RLock()
    subs := h.users[userID]
    for ch := range subs {
        select { // non-blocking
        case ch <- evt:
        default:
        }
    }
    h.mu.RUnlock()
}
