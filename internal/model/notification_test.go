package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "Just now"},
		{time.Minute, "1 minute ago"},
		{5 * time.Minute, "5 minutes ago"},
		{time.Hour, "1 hour ago"},
		{3 * time.Hour, "3 hours ago"},
		{24 * time.Hour, "1 day ago"},
		{72 * time.Hour, "3 days ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RelativeTime(now.Add(-tt.ago), now))
	}
}

func TestNotificationMessage(t *testing.T) {
	assert.Equal(t, "alice liked your design", NotificationMessage(NotificationLike, "alice", ""))
	assert.Equal(t, "bob favorited your design", NotificationMessage(NotificationFavorite, "bob", ""))
	assert.Equal(t, "carol commented on your design: nice!", NotificationMessage(NotificationComment, "carol", "nice!"))
}
