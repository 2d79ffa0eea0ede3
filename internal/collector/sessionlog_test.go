package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLogDedupesComments(t *testing.T) {
	l := NewSessionLog()

	first := []CommentEntry{
		{UserID: 1, Name: "a", Comment: "hello", CreatedAt: 100},
		{UserID: 2, Name: "b", Comment: "hi", CreatedAt: 101},
	}
	assert.Equal(t, 2, l.AddComments(first))

	// Overlapping window: one repeat, one new.
	second := []CommentEntry{
		{UserID: 2, Name: "b", Comment: "hi", CreatedAt: 101},
		{UserID: 3, Name: "c", Comment: "yo", CreatedAt: 102},
	}
	assert.Equal(t, 1, l.AddComments(second))

	comments, _, _ := l.Counts()
	assert.Equal(t, 3, comments)
}

func TestSessionLogDistinguishesSameUserSameSecond(t *testing.T) {
	l := NewSessionLog()
	entries := []CommentEntry{
		{UserID: 1, Comment: "one", CreatedAt: 100},
		{UserID: 1, Comment: "two", CreatedAt: 100},
	}
	assert.Equal(t, 2, l.AddComments(entries))
}

func TestSessionLogDedupesGifts(t *testing.T) {
	l := NewSessionLog()
	entries := []GiftEntry{
		{UserID: 1, GiftID: 5, Num: 3, CreatedAt: 100},
		{UserID: 1, GiftID: 5, Num: 3, CreatedAt: 100},
		{UserID: 1, GiftID: 5, Num: 3, CreatedAt: 101},
	}
	assert.Equal(t, 2, l.AddGifts(entries))
}

func TestSessionLogFansLastWriteWins(t *testing.T) {
	l := NewSessionLog()
	l.SetFans([]FanEntry{{Rank: 1}, {Rank: 2}})
	l.SetFans([]FanEntry{{Rank: 1}})

	_, _, fans := l.Counts()
	assert.Equal(t, 1, fans)
}

func TestSessionLogRowsCarryHeaders(t *testing.T) {
	l := NewSessionLog()
	l.AddComments([]CommentEntry{{UserID: 7, Name: "a", Comment: "hello", CreatedAt: 1700000000}})
	l.AddGifts([]GiftEntry{{UserID: 7, Name: "a", GiftID: 2, Num: 10, CreatedAt: 1700000000}})

	rows := l.CommentRows()
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"user_id", "name", "comment", "created_at"}, rows[0])
	assert.Equal(t, "7", rows[1][0])
	assert.Equal(t, "hello", rows[1][2])

	rows = l.GiftRows()
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"user_id", "name", "gift_id", "num", "created_at"}, rows[0])
	assert.Equal(t, "10", rows[1][3])

	rows = l.FanRows()
	require.Len(t, rows, 1) // header only
}
