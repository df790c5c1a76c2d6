package social

import (
	"sort"
	"strconv"
	"strings"
)

// Ranking queries. These are whole-set scans over enumeration sets, acceptable
// at current cardinalities; none of them allocates per-entry state beyond the
// result slice.

// TopUsers returns the first TopK registered accounts in registration order.
func (e *Engine) TopUsers() ([]*AccountStats, error) {
	ids, err := e.enumMembers(accountIndexKey)
	if err != nil {
		return nil, err
	}
	if uint64(len(ids)) > TopK {
		ids = ids[:TopK]
	}
	return e.statsForRange(ids)
}

// TopCommunities returns the first TopK communities in creation order.
func (e *Engine) TopCommunities() ([]*CommunityStats, error) {
	ids, err := e.enumMembers(communityIndexKey)
	if err != nil {
		return nil, err
	}
	if uint64(len(ids)) > TopK {
		ids = ids[:TopK]
	}
	stats := make([]*CommunityStats, 0, len(ids))
	for _, id := range ids {
		community, err := e.requireCommunity(id)
		if err != nil {
			return nil, err
		}
		s, err := e.communityStats(community)
		if err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, nil
}

// HotPosts ranks the voted posts of the past day by score, highest first.
func (e *Engine) HotPosts() ([]*PostStats, error) {
	return e.votedPostsSince(OneDaySeconds)
}

// TrendingPosts ranks the voted posts of the past week by score, highest first.
func (e *Engine) TrendingPosts() ([]*PostStats, error) {
	return e.votedPostsSince(OneWeekSeconds)
}

// votedPostsSince scans the vote enumeration set for posts created within the
// window and orders them by score. Equal scores keep no particular order.
func (e *Engine) votedPostsSince(window uint64) ([]*PostStats, error) {
	ids, err := e.enumMembers(voteIndexKey)
	if err != nil {
		return nil, err
	}
	now := e.now()
	var cutoff uint64
	if now > window {
		cutoff = now - window
	}
	stats := make([]*PostStats, 0, len(ids))
	for _, id := range ids {
		created, ok := postIDTime(id)
		if !ok || created <= cutoff {
			continue
		}
		score, err := e.Votes(id)
		if err != nil {
			return nil, err
		}
		stats = append(stats, &PostStats{PostID: id, Score: score})
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Score > stats[j].Score
	})
	return stats, nil
}

// postIDTime extracts the creation timestamp every post id carries as its
// first underscore-separated segment.
func postIDTime(postID string) (uint64, bool) {
	segment, _, found := strings.Cut(postID, "_")
	if !found {
		return 0, false
	}
	created, err := strconv.ParseUint(segment, 10, 64)
	if err != nil {
		return 0, false
	}
	return created, true
}
