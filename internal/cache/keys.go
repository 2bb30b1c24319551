package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	postKeyPrefix       = "post:%d"
	globalFeedKeyPrefix = "feed:global:%d"
	groupKeyPrefix      = "group:%s"
)

// Default TTLs. The feed TTL is short on purpose: feed pages are also
// invalidated on write, the TTL only bounds staleness if an invalidation
// is lost.
const (
	PostTTL  = 30 * time.Minute
	FeedTTL  = 20 * time.Second
	GroupTTL = 10 * time.Minute
)

// PostKey returns the cache key for a post detail entry.
func PostKey(postID uint) string {
	return fmt.Sprintf(postKeyPrefix, postID)
}

// GlobalFeedKey returns the cache key for one page of the global feed.
func GlobalFeedKey(page int) string {
	return fmt.Sprintf(globalFeedKeyPrefix, page)
}

// GroupKey returns the cache key for a group detail entry.
func GroupKey(slug string) string {
	return fmt.Sprintf(groupKeyPrefix, slug)
}

// Invalidate removes a single key. Best-effort.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidatePost removes a post detail entry.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

// InvalidateGlobalFeed removes every cached global feed page.
// New posts must appear in the feed without waiting out the TTL.
func InvalidateGlobalFeed(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, "feed:global:*", 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}

// InvalidateGroup removes a group detail entry.
func InvalidateGroup(ctx context.Context, slug string) {
	Invalidate(ctx, GroupKey(slug))
}
