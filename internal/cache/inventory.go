package cache

import (
	"fmt"
	"time"
)

const (
	CommentsKeyPrefix  = "comments:post:%s"
	RateLimitKeyPrefix = "rl:%s:%s"
)

const (
	CommentsTTL = 2 * time.Minute
)

func CommentsKey(postID string) string {
	return fmt.Sprintf(CommentsKeyPrefix, postID)
}

func RateLimitKey(resource, id string) string {
	return fmt.Sprintf(RateLimitKeyPrefix, resource, id)
}
