package collector

import (
	"fmt"
	"strconv"
	"sync"
)

// SessionLog buffers everything collected for one room during one collector
// session. The poller appends while the snapshot schedule reads, so access
// is guarded; entries are deduped because the platform endpoints return
// sliding windows that overlap between polls.
type SessionLog struct {
	mu       sync.Mutex
	comments []CommentEntry
	gifts    []GiftEntry
	fans     []FanEntry
	seen     map[string]bool
}

func NewSessionLog() *SessionLog {
	return &SessionLog{seen: make(map[string]bool)}
}

// AddComments appends unseen comments, returning how many were new.
func (l *SessionLog) AddComments(entries []CommentEntry) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	added := 0
	for _, e := range entries {
		key := fmt.Sprintf("c|%d|%d|%s", e.UserID, e.CreatedAt, e.Comment)
		if l.seen[key] {
			continue
		}
		l.seen[key] = true
		l.comments = append(l.comments, e)
		added++
	}
	return added
}

// AddGifts appends unseen gifts, returning how many were new.
func (l *SessionLog) AddGifts(entries []GiftEntry) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	added := 0
	for _, e := range entries {
		key := fmt.Sprintf("g|%d|%d|%d|%d", e.UserID, e.GiftID, e.Num, e.CreatedAt)
		if l.seen[key] {
			continue
		}
		l.seen[key] = true
		l.gifts = append(l.gifts, e)
		added++
	}
	return added
}

// SetFans replaces the fan standings; the endpoint returns the whole current
// ranking each time, so last write wins.
func (l *SessionLog) SetFans(entries []FanEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fans = entries
}

// Counts returns the buffered entry counts.
func (l *SessionLog) Counts() (comments, gifts, fans int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.comments), len(l.gifts), len(l.fans)
}

// CommentRows renders the buffered comments as CSV rows with a header.
func (l *SessionLog) CommentRows() [][]string {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows := [][]string{{"user_id", "name", "comment", "created_at"}}
	for _, e := range l.comments {
		rows = append(rows, []string{
			formatInt(e.UserID), e.Name, e.Comment, formatUnix(e.CreatedAt),
		})
	}
	return rows
}

// GiftRows renders the buffered gifts as CSV rows with a header.
func (l *SessionLog) GiftRows() [][]string {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows := [][]string{{"user_id", "name", "gift_id", "num", "created_at"}}
	for _, e := range l.gifts {
		rows = append(rows, []string{
			formatInt(e.UserID), e.Name, strconv.Itoa(e.GiftID),
			strconv.Itoa(e.Num), formatUnix(e.CreatedAt),
		})
	}
	return rows
}

// FanRows renders the latest fan standings as CSV rows with a header.
func (l *SessionLog) FanRows() [][]string {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows := [][]string{{"rank", "user_id", "name"}}
	for _, e := range l.fans {
		rows = append(rows, []string{
			strconv.Itoa(e.Rank), formatInt(e.User.UserID), e.User.Name,
		})
	}
	return rows
}
