package social

import "fmt"

// Votes are a per-post map from voter to a binary flag; today the only
// recorded value is the single up flag. Buckets register their post id in the
// vote enumeration set so the ranking scans can walk every voted post, and
// are pruned the moment the last vote goes.

const voteUp uint8 = 1

func (e *Engine) votesKey(postID string) []byte {
	return entityKey(votesPrefix, postID)
}

func (e *Engine) getVotes(postID string) ([]voteEntry, error) {
	var entries []voteEntry
	ok, err := e.st.KVGet(e.votesKey(postID), &entries)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []voteEntry{}, nil
	}
	return entries, nil
}

// Upvote records the caller's up flag on the post; voting twice is rejected.
func (e *Engine) Upvote(call Call, postID string) error {
	return e.apply("upvote", call, func() error {
		if _, ok, err := e.getPost(postID); err != nil {
			return err
		} else if !ok {
			return fmt.Errorf("%w: %s", ErrPostNotFound, postID)
		}
		if _, err := e.getOrCreateAccount(call.Caller); err != nil {
			return err
		}
		entries, err := e.getVotes(postID)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if entry.Voter == call.Caller {
				return fmt.Errorf("%w: already upvoted", ErrDuplicateRelation)
			}
		}
		if len(entries) == 0 {
			if err := e.enumAdd(voteIndexKey, postID); err != nil {
				return err
			}
		}
		entries = append(entries, voteEntry{Voter: call.Caller, Value: voteUp})
		return e.st.KVPut(e.votesKey(postID), entries)
	})
}

// Unvote withdraws the caller's vote; it fails when no vote is recorded. An
// emptied bucket is deleted and unregistered from the enumeration set.
func (e *Engine) Unvote(call Call, postID string) error {
	return e.apply("unvote", call, func() error {
		entries, err := e.getVotes(postID)
		if err != nil {
			return err
		}
		idx := -1
		for i, entry := range entries {
			if entry.Voter == call.Caller {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("%w: no vote recorded", ErrRelationNotFound)
		}
		entries = append(entries[:idx], entries[idx+1:]...)
		if len(entries) == 0 {
			if err := e.st.KVDelete(e.votesKey(postID)); err != nil {
				return err
			}
			return e.enumRemove(voteIndexKey, postID)
		}
		return e.st.KVPut(e.votesKey(postID), entries)
	})
}

// Votes returns the post's score: twice the up count minus the total count,
// which collapses to the up count while up is the only recorded value.
func (e *Engine) Votes(postID string) (int64, error) {
	entries, err := e.getVotes(postID)
	if err != nil {
		return 0, err
	}
	var up int64
	for _, entry := range entries {
		if entry.Value == voteUp {
			up++
		}
	}
	return 2*up - int64(len(entries)), nil
}

// VoteStatusOf reports the recorded vote of one actor on one post.
func (e *Engine) VoteStatusOf(postID, actor string) (VoteStatus, error) {
	entries, err := e.getVotes(postID)
	if err != nil {
		return VoteDefault, err
	}
	for _, entry := range entries {
		if entry.Voter == actor && entry.Value == voteUp {
			return VoteUp, nil
		}
	}
	return VoteDefault, nil
}
