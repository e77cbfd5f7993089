package application_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thryve-market/service-marketplace/internal/application"
	"github.com/thryve-market/service-marketplace/internal/platform/domain"
)

func TestCommunityFeed(t *testing.T) {
	stack := setupStack(t)
	ctx := context.Background()
	authorID := uuid.New()
	viewerID := uuid.New()

	post, err := stack.Community.CreatePost(ctx, authorID, application.CreatePostRequest{
		Content: "Anyone selling a pallet jack?",
	})
	require.NoError(t, err)

	liked, err := stack.Community.ToggleLike(ctx, post.ID, viewerID)
	require.NoError(t, err)
	assert.True(t, liked)

	_, err = stack.Community.AddComment(ctx, post.ID, viewerID, application.CreateCommentRequest{
		Content: "I have one, sending you a request",
	})
	require.NoError(t, err)

	feed, err := stack.Community.Feed(ctx, viewerID, 1, 20)
	require.NoError(t, err)
	require.Equal(t, int64(1), feed.Total)

	item := feed.Items[0]
	assert.Equal(t, int64(1), item.LikeCount)
	assert.Equal(t, int64(1), item.CommentCount)
	assert.True(t, item.LikedByUser)

	authorFeed, err := stack.Community.Feed(ctx, authorID, 1, 20)
	require.NoError(t, err)
	assert.False(t, authorFeed.Items[0].LikedByUser)
}

func TestToggleLike_Unlikes(t *testing.T) {
	stack := setupStack(t)
	ctx := context.Background()
	viewerID := uuid.New()

	post, err := stack.Community.CreatePost(ctx, uuid.New(), application.CreatePostRequest{Content: "hello"})
	require.NoError(t, err)

	liked, err := stack.Community.ToggleLike(ctx, post.ID, viewerID)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = stack.Community.ToggleLike(ctx, post.ID, viewerID)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestDeletePost_AuthorOnly(t *testing.T) {
	stack := setupStack(t)
	ctx := context.Background()
	authorID := uuid.New()

	post, err := stack.Community.CreatePost(ctx, authorID, application.CreatePostRequest{Content: "selling soon"})
	require.NoError(t, err)

	err = stack.Community.DeletePost(ctx, post.ID, uuid.New())
	assert.True(t, domain.IsCode(err, domain.ErrCodeNotFound))

	require.NoError(t, stack.Community.DeletePost(ctx, post.ID, authorID))

	feed, err := stack.Community.Feed(ctx, authorID, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, feed.Total)
}

func TestDeleteComment_AuthorOnly(t *testing.T) {
	stack := setupStack(t)
	ctx := context.Background()
	commenterID := uuid.New()

	post, err := stack.Community.CreatePost(ctx, uuid.New(), application.CreatePostRequest{Content: "looking for movers"})
	require.NoError(t, err)
	comment, err := stack.Community.AddComment(ctx, post.ID, commenterID, application.CreateCommentRequest{Content: "try the co-op"})
	require.NoError(t, err)

	err = stack.Community.DeleteComment(ctx, comment.ID, uuid.New())
	assert.True(t, domain.IsCode(err, domain.ErrCodeNotFound))

	require.NoError(t, stack.Community.DeleteComment(ctx, comment.ID, commenterID))

	comments, err := stack.Community.ListComments(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
