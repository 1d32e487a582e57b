package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix   = "user:%d"
	PostKeyPrefix   = "post:%d"
	ListKeyPrefix   = "list:%d"
	PostsListKey    = "posts:recent"
	TrendingTagsKey = "hashtags:trending"
)

const (
	UserTTL     = 5 * time.Minute
	PostTTL     = 30 * time.Minute
	ListTTL     = 10 * time.Minute
	TrendingTTL = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func ListKey(listID uint) string {
	return fmt.Sprintf(ListKeyPrefix, listID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePostsList(ctx context.Context) {
	Invalidate(ctx, PostsListKey)
}
