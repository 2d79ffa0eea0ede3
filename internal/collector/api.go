// Package collector polls a live room's public JSON APIs while it is live,
// buffers comments, gifts and fan-list entries in a session log, snapshots
// the logs to CSV on a schedule and uploads the snapshots to a file server.
package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// APIClient talks to the live platform's public endpoints.
type APIClient struct {
	baseURL string
	http    *http.Client
}

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type liveInfo struct {
	LiveStatus int `json:"live_status"`
}

// liveStatusOnAir is the platform's "currently streaming" status code.
const liveStatusOnAir = 2

// IsLive reports whether the room is currently streaming.
func (c *APIClient) IsLive(ctx context.Context, roomID string) (bool, error) {
	var info liveInfo
	if err := c.getJSON(ctx, "/api/live/live_info", roomID, &info); err != nil {
		return false, err
	}
	return info.LiveStatus == liveStatusOnAir, nil
}

// CommentEntry is one chat comment from the comment log endpoint.
type CommentEntry struct {
	UserID    int64  `json:"user_id"`
	Name      string `json:"name"`
	Comment   string `json:"comment"`
	CreatedAt int64  `json:"created_at"`
}

type commentLogFile struct {
	CommentLog []CommentEntry `json:"comment_log"`
}

// CommentLog fetches the room's recent comments. The endpoint returns a
// sliding window; the session log dedupes across polls.
func (c *APIClient) CommentLog(ctx context.Context, roomID string) ([]CommentEntry, error) {
	var file commentLogFile
	if err := c.getJSON(ctx, "/api/live/comment_log", roomID, &file); err != nil {
		return nil, err
	}
	return file.CommentLog, nil
}

// GiftEntry is one thrown gift from the gift log endpoint.
type GiftEntry struct {
	UserID    int64  `json:"user_id"`
	Name      string `json:"name"`
	GiftID    int    `json:"gift_id"`
	Num       int    `json:"num"`
	CreatedAt int64  `json:"created_at"`
}

type giftLogFile struct {
	GiftLog []GiftEntry `json:"gift_log"`
}

// GiftLog fetches the room's recent gifts.
func (c *APIClient) GiftLog(ctx context.Context, roomID string) ([]GiftEntry, error) {
	var file giftLogFile
	if err := c.getJSON(ctx, "/api/live/gift_log", roomID, &file); err != nil {
		return nil, err
	}
	return file.GiftLog, nil
}

// FanEntry is one fan-list row from the stage user list endpoint.
type FanEntry struct {
	Rank int `json:"rank"`
	User struct {
		UserID int64  `json:"user_id"`
		Name   string `json:"name"`
	} `json:"user"`
}

type fanListFile struct {
	StageUserList []FanEntry `json:"stage_user_list"`
}

// FanList fetches the room's current top-fan standings.
func (c *APIClient) FanList(ctx context.Context, roomID string) ([]FanEntry, error) {
	var file fanListFile
	if err := c.getJSON(ctx, "/api/live/stage_user_list", roomID, &file); err != nil {
		return nil, err
	}
	return file.StageUserList, nil
}

func (c *APIClient) getJSON(ctx context.Context, path, roomID string, v any) error {
	u := fmt.Sprintf("%s%s?room_id=%s", c.baseURL, path, url.QueryEscape(roomID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: status %d", path, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return nil
}

func formatUnix(ts int64) string {
	if ts == 0 {
		return ""
	}
	return time.Unix(ts, 0).Format(time.RFC3339)
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
