package social

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProfileUpdates(t *testing.T) {
	e, _ := newTestEngine(t)

	name := "Alice"
	bio := "hello"
	require.NoError(t, e.UpdateProfile(fundedCall("alice"), ProfileUpdate{DisplayName: &name, Bio: &bio}))
	require.NoError(t, e.SetAvatar(fundedCall("alice"), "https://img.example/a.png"))

	stats, err := e.GetAccount("alice")
	require.NoError(t, err)
	require.Equal(t, "Alice", stats.DisplayName)
	require.Equal(t, "hello", stats.Bio)
	require.Equal(t, "https://img.example/a.png", stats.Avatar)

	// Nil fields leave the previous values alone.
	thumb := "https://img.example/t.png"
	require.NoError(t, e.UpdateProfile(fundedCall("alice"), ProfileUpdate{Thumbnail: &thumb}))
	stats, err = e.GetAccount("alice")
	require.NoError(t, err)
	require.Equal(t, "Alice", stats.DisplayName)
	require.Equal(t, thumb, stats.Thumbnail)

	// The standalone setter touches only the display name.
	require.NoError(t, e.SetDisplayName(fundedCall("alice"), "Alice B."))
	stats, err = e.GetAccount("alice")
	require.NoError(t, err)
	require.Equal(t, "Alice B.", stats.DisplayName)
	require.Equal(t, "hello", stats.Bio)
}

func TestFollowSymmetry(t *testing.T) {
	e, _ := newTestEngine(t)

	require.NoError(t, e.Follow(fundedCall("alice"), "bob"))

	following, err := e.IsFollowing("alice", "bob")
	require.NoError(t, err)
	require.True(t, following)

	alice, err := e.GetAccount("alice")
	require.NoError(t, err)
	require.Equal(t, uint64(1), alice.NumFollowing)
	require.Equal(t, uint64(0), alice.NumFollowers)

	bob, err := e.GetAccount("bob")
	require.NoError(t, err)
	require.Equal(t, uint64(1), bob.NumFollowers)
	require.Equal(t, uint64(0), bob.NumFollowing)

	followers, err := e.GetFollowers("bob", 0, 10)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	require.Equal(t, "alice", followers[0].AccountID)
}

func TestFollowRejectsSelfAndDuplicates(t *testing.T) {
	e, _ := newTestEngine(t)

	require.ErrorIs(t, e.Follow(fundedCall("alice"), "alice"), ErrPermission)

	require.NoError(t, e.Follow(fundedCall("alice"), "bob"))
	require.ErrorIs(t, e.Follow(fundedCall("alice"), "bob"), ErrDuplicateRelation)
}

func TestUnfollowPrunesBothSides(t *testing.T) {
	e, _ := newTestEngine(t)

	require.NoError(t, e.Follow(fundedCall("alice"), "bob"))
	require.NoError(t, e.Unfollow(fundedCall("alice"), "bob"))

	following, err := e.IsFollowing("alice", "bob")
	require.NoError(t, err)
	require.False(t, following)

	// Emptied buckets are deleted outright.
	has, err := e.st.KVHas(relFollowing.key("alice"))
	require.NoError(t, err)
	require.False(t, has)
	has, err = e.st.KVHas(relFollowers.key("bob"))
	require.NoError(t, err)
	require.False(t, has)

	require.ErrorIs(t, e.Unfollow(fundedCall("alice"), "bob"), ErrRelationNotFound)
}

func TestUnfollowUnknownAccount(t *testing.T) {
	e, _ := newTestEngine(t)
	require.ErrorIs(t, e.Unfollow(fundedCall("alice"), "bob"), ErrAccountNotFound)
}

func TestBookmarks(t *testing.T) {
	e, clk := newTestEngine(t)

	require.ErrorIs(t, e.AddBookmark(fundedCall("alice"), "no-such-post"), ErrPostNotFound)

	first, err := e.CreatePost(fundedCall("bob"), "first", contentHash(), PostPayload{}, DefaultTopicID)
	require.NoError(t, err)
	clk.Tick()
	second, err := e.CreatePost(fundedCall("bob"), "second", contentHash(), PostPayload{}, DefaultTopicID)
	require.NoError(t, err)

	require.NoError(t, e.AddBookmark(fundedCall("alice"), first.ID))
	require.NoError(t, e.AddBookmark(fundedCall("alice"), second.ID))

	posts, err := e.GetBookmarks("alice", 0, 10)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	require.Equal(t, second.ID, posts[0].ID)
	require.Equal(t, first.ID, posts[1].ID)

	require.NoError(t, e.RemoveBookmark(fundedCall("alice"), first.ID))
	require.ErrorIs(t, e.RemoveBookmark(fundedCall("alice"), first.ID), ErrRelationNotFound)
}

func TestAccountListings(t *testing.T) {
	e, _ := newTestEngine(t)

	for _, actor := range []string{"alice", "bob", "carol"} {
		require.NoError(t, e.SetBio(fundedCall(actor), "hi"))
	}

	total, err := e.NumAccounts()
	require.NoError(t, err)
	require.Equal(t, uint64(3), total)

	page, err := e.GetAccounts(1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, "bob", page[0].AccountID)

	batch, err := e.GetAccountsByIDs([]string{"alice", "carol"})
	require.NoError(t, err)
	require.Len(t, batch, 2)

	_, err = e.GetAccountsByIDs([]string{"alice", "nobody"})
	require.ErrorIs(t, err, ErrAccountNotFound)

	// Listing an unknown actor's following is an empty page, not an error.
	following, err := e.GetFollowing("nobody", 0, 10)
	require.NoError(t, err)
	require.Empty(t, following)

	_, err = e.GetFollowers("nobody", 0, 10)
	require.ErrorIs(t, err, ErrAccountNotFound)
}
