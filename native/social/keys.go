package social

import (
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Primary-record prefixes. Entity keys append the keccak digest of the id so
// unrelated records can never collide however their ids are shaped.
var (
	accountPrefix       = []byte("social/account/")
	ledgerPrefix        = []byte("social/ledger/")
	postPrefix          = []byte("social/post/")
	communityPostPrefix = []byte("social/community-post/")
	topicPrefix         = []byte("social/topic/")
	communityPrefix     = []byte("social/community/")
	chestPrefix         = []byte("social/chest/")
	threadPrefix        = []byte("social/thread/")
	mintPendingPrefix   = []byte("social/mint/pending/")
	votesPrefix         = []byte("social/votes/")
	commentsPrefix      = []byte("social/comments/")
)

// Enumeration sets: ordered lists of keys used by full scans and pagination.
var (
	accountIndexKey   = []byte("social/accounts/index")
	postIndexKey      = []byte("social/posts/index")
	deletedPostsKey   = []byte("social/posts/deleted")
	topicIndexKey     = []byte("social/topics/index")
	communityIndexKey = []byte("social/communities/index")
	placeIndexKey     = []byte("social/places/index")
	voteIndexKey      = []byte("social/votes/index")
	adminSetKey       = []byte("social/admins")
)

func entityKey(prefix []byte, id string) []byte {
	digest := ethcrypto.Keccak256([]byte(id))
	return []byte(fmt.Sprintf("%s%x", prefix, digest))
}

func communityPostKey(communityID, postID string) []byte {
	digest := ethcrypto.Keccak256([]byte(communityID + "/" + postID))
	return []byte(fmt.Sprintf("%s%x", communityPostPrefix, digest))
}

// relation names a secondary index: an outer map from left key to an inner
// member list, addressed by the keccak digest of the left key under a
// relation-specific tag. Relations whose left keys must be enumerable carry
// the key of their enumeration set.
type relation struct {
	tag  []byte
	enum []byte
}

func (r relation) key(left string) []byte {
	return entityKey(r.tag, left)
}

var (
	relFollowing         = relation{tag: []byte("social/rel/following/")}
	relFollowers         = relation{tag: []byte("social/rel/followers/")}
	relUserPosts         = relation{tag: []byte("social/rel/user-posts/")}
	relTopicPosts        = relation{tag: []byte("social/rel/topic-posts/")}
	relCommunityPosts    = relation{tag: []byte("social/rel/community-posts/")}
	relCommunityMembers  = relation{tag: []byte("social/rel/community-members/")}
	relJoinedCommunities = relation{tag: []byte("social/rel/joined-communities/")}
	relConversations     = relation{tag: []byte("social/rel/conversations/")}
	relPlaceChests       = relation{tag: []byte("social/rel/place-chests/"), enum: placeIndexKey}
	relRepostGuard       = relation{tag: []byte("social/rel/repost-guard/")}
)
