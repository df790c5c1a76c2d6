package social

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTopUsersCapped(t *testing.T) {
	e, _ := newTestEngine(t)

	for i := 0; i < int(TopK)+3; i++ {
		require.NoError(t, e.SetBio(fundedCall(fmt.Sprintf("user-%02d", i)), "hi"))
	}

	top, err := e.TopUsers()
	require.NoError(t, err)
	require.Len(t, top, int(TopK))
	require.Equal(t, "user-00", top[0].AccountID)
}

func TestTopCommunitiesCapped(t *testing.T) {
	e, _ := newTestEngine(t)

	for i := 0; i < int(TopK)+1; i++ {
		_, err := e.CreateCommunity(fundedCall("alice"), fmt.Sprintf("club %d", i), "", "", "")
		require.NoError(t, err)
	}

	top, err := e.TopCommunities()
	require.NoError(t, err)
	require.Len(t, top, int(TopK))
	require.Equal(t, "club_0", top[0].ID)
}

func TestHotAndTrendingWindows(t *testing.T) {
	e, clk := newTestEngine(t)

	stale, err := e.CreatePost(fundedCall("alice"), "stale", contentHash(), PostPayload{}, DefaultTopicID)
	require.NoError(t, err)
	clk.Tick()
	require.NoError(t, e.Upvote(fundedCall("bob"), stale.ID))

	// Two days later the stale post drops out of the day window but stays in
	// the week window.
	clk.Advance(2 * OneDaySeconds)
	fresh, err := e.CreatePost(fundedCall("alice"), "fresh", contentHash(), PostPayload{}, DefaultTopicID)
	require.NoError(t, err)
	clk.Tick()
	require.NoError(t, e.Upvote(fundedCall("bob"), fresh.ID))
	require.NoError(t, e.Upvote(fundedCall("carol"), fresh.ID))

	hot, err := e.HotPosts()
	require.NoError(t, err)
	require.Len(t, hot, 1)
	require.Equal(t, fresh.ID, hot[0].PostID)
	require.Equal(t, int64(2), hot[0].Score)

	trending, err := e.TrendingPosts()
	require.NoError(t, err)
	require.Len(t, trending, 2)
	require.Equal(t, fresh.ID, trending[0].PostID)
	require.Equal(t, stale.ID, trending[1].PostID)
}

func TestUnvotedPostsNeverRank(t *testing.T) {
	e, clk := newTestEngine(t)

	post, err := e.CreatePost(fundedCall("alice"), "quiet", contentHash(), PostPayload{}, DefaultTopicID)
	require.NoError(t, err)
	clk.Tick()

	hot, err := e.HotPosts()
	require.NoError(t, err)
	require.Empty(t, hot)

	require.NoError(t, e.Upvote(fundedCall("bob"), post.ID))
	require.NoError(t, e.Unvote(fundedCall("bob"), post.ID))

	hot, err = e.HotPosts()
	require.NoError(t, err)
	require.Empty(t, hot)
}

func TestPostIDTime(t *testing.T) {
	created, ok := postIDTime("1700000000_alice")
	if !ok || created != 1_700_000_000 {
		t.Fatalf("postIDTime = %d, %v", created, ok)
	}
	if _, ok := postIDTime("no-timestamp"); ok {
		t.Fatal("expected parse failure without a timestamp segment")
	}
	if _, ok := postIDTime("abc_def"); ok {
		t.Fatal("expected parse failure for a non-numeric segment")
	}
}
