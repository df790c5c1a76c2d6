package social

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateCommunity(t *testing.T) {
	e, _ := newTestEngine(t)

	id, err := e.CreateCommunity(fundedCall("alice"), "Go Devs", "all things go", "", "")
	require.NoError(t, err)
	require.Equal(t, "go_devs", id)

	_, err = e.CreateCommunity(fundedCall("bob"), "GO DEVS", "same slug", "", "")
	require.ErrorIs(t, err, ErrCommunityExists)

	stats, err := e.GetCommunity(id)
	require.NoError(t, err)
	require.Equal(t, "alice", stats.Admin)
	require.Equal(t, uint64(0), stats.PostsCount)

	member, err := e.IsMember(id, "alice")
	require.NoError(t, err)
	require.True(t, member)

	joined, err := e.JoinedCommunities("alice", 0, 10)
	require.NoError(t, err)
	require.Len(t, joined, 1)
}

func TestJoinAndLeave(t *testing.T) {
	e, _ := newTestEngine(t)

	id, err := e.CreateCommunity(fundedCall("alice"), "club", "", "", "")
	require.NoError(t, err)

	require.ErrorIs(t, e.JoinCommunity(fundedCall("bob"), "nope"), ErrCommunityNotFound)
	require.NoError(t, e.JoinCommunity(fundedCall("bob"), id))
	require.ErrorIs(t, e.JoinCommunity(fundedCall("bob"), id), ErrDuplicateRelation)

	members, err := e.Members(id)
	require.NoError(t, err)
	require.Len(t, members, 2)

	require.NoError(t, e.LeaveCommunity(fundedCall("bob"), id))
	require.ErrorIs(t, e.LeaveCommunity(fundedCall("bob"), id), ErrRelationNotFound)

	// The admin is stuck with their community.
	require.ErrorIs(t, e.LeaveCommunity(fundedCall("alice"), id), ErrPermission)
}

func TestCommunityPosts(t *testing.T) {
	e, clk := newTestEngine(t)

	id, err := e.CreateCommunity(fundedCall("alice"), "club", "", "", "")
	require.NoError(t, err)

	_, err = e.CreateCommunityPost(fundedCall("bob"), id, "hi", "body", PostPayload{}, DefaultTopicID)
	require.ErrorIs(t, err, ErrPermission)

	require.NoError(t, e.JoinCommunity(fundedCall("bob"), id))
	clk.Tick()
	post, err := e.CreateCommunityPost(fundedCall("bob"), id, "hi", "a full body, not a hash", PostPayload{}, DefaultTopicID)
	require.NoError(t, err)

	got, err := e.GetCommunityPost(id, post.ID)
	require.NoError(t, err)
	require.Equal(t, "bob", got.Author)

	// Community posts live in their own sub-store, not the global one.
	_, err = e.GetPost(post.ID)
	require.ErrorIs(t, err, ErrPostNotFound)

	listing, err := e.GetCommunityPosts(id, 0, 10)
	require.NoError(t, err)
	require.Len(t, listing, 1)

	stats, err := e.GetCommunity(id)
	require.NoError(t, err)
	require.Equal(t, uint64(1), stats.PostsCount)
}

func TestDeleteCommunityPostPermissions(t *testing.T) {
	e, clk := newTestEngine(t)

	id, err := e.CreateCommunity(fundedCall("alice"), "club", "", "", "")
	require.NoError(t, err)
	require.NoError(t, e.JoinCommunity(fundedCall("bob"), id))
	clk.Tick()

	post, err := e.CreateCommunityPost(fundedCall("bob"), id, "hi", "body", PostPayload{}, DefaultTopicID)
	require.NoError(t, err)
	clk.Tick()

	require.ErrorIs(t, e.DeleteCommunityPost(fundedCall("carol"), id, post.ID), ErrPermission)

	// The community admin may delete a member's post.
	require.NoError(t, e.DeleteCommunityPost(fundedCall("alice"), id, post.ID))
	_, err = e.GetCommunityPost(id, post.ID)
	require.ErrorIs(t, err, ErrPostNotFound)

	tombstones, err := e.DeletedPosts()
	require.NoError(t, err)
	require.Contains(t, tombstones, post.ID)
}

func TestCommunityFieldEdits(t *testing.T) {
	e, _ := newTestEngine(t)

	id, err := e.CreateCommunity(fundedCall("alice"), "club", "", "", "")
	require.NoError(t, err)

	require.ErrorIs(t, e.SetCommunityAvatar(fundedCall("bob"), id, "https://img.example/x.png"), ErrPermission)

	require.NoError(t, e.SetCommunityAvatar(fundedCall("alice"), id, "https://img.example/x.png"))
	require.NoError(t, e.SetCommunityDescription(fundedCall("alice"), id, "about"))

	stats, err := e.GetCommunity(id)
	require.NoError(t, err)
	require.Equal(t, "https://img.example/x.png", stats.Avatar)
	require.Equal(t, "about", stats.Description)
}
