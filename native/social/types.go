package social

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/rlp"
)

// Account holds the per-actor record. The follow graph, joined communities and
// related conversations live in relation buckets keyed off the actor id;
// bookmarks and chests are ordered lists kept inline because their order is
// part of the data.
type Account struct {
	DisplayName   string
	Bio           string
	Avatar        string
	Thumbnail     string
	MessagePubKey string
	Bookmarks     []string
	Chests        []string
}

// AccountStats is the read-side projection of an account.
type AccountStats struct {
	AccountID            string   `json:"accountId"`
	NumFollowers         uint64   `json:"numFollowers"`
	NumFollowing         uint64   `json:"numFollowing"`
	RelatedConversations []string `json:"relatedConversations"`
	MessagePubKey        string   `json:"messagePubKey"`
	Avatar               string   `json:"avatar"`
	Thumbnail            string   `json:"thumbnail"`
	Bio                  string   `json:"bio"`
	DisplayName          string   `json:"displayName"`
}

// PostKind discriminates the typed payload attached to a post.
type PostKind uint8

const (
	PostStandard PostKind = iota
	PostImage
	PostVideo
	PostExternalLink
	PostNFT
)

// PostPayload carries the variant-specific fields of a post. URL is set for
// image/video/external-link posts, TokenID for NFT references.
type PostPayload struct {
	Kind    PostKind
	URL     string
	TokenID string
}

func (p PostPayload) validate() error {
	switch p.Kind {
	case PostStandard:
		return nil
	case PostImage, PostVideo, PostExternalLink:
		if !validURL(p.URL) {
			return fmt.Errorf("%w: payload url %q is not a valid url", ErrValidation, p.URL)
		}
		return nil
	case PostNFT:
		if _, err := strconv.ParseUint(p.TokenID, 10, 64); err != nil {
			return fmt.Errorf("%w: nft token id %q is not numeric", ErrValidation, p.TokenID)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown post kind %d", ErrValidation, p.Kind)
	}
}

// Post embeds a copy of its topic taken at creation time; later topic edits do
// not retroactively change the post.
type Post struct {
	ID      string      `json:"id"`
	Author  string      `json:"author"`
	Topic   Topic       `json:"topic"`
	Title   string      `json:"title"`
	Body    string      `json:"body"`
	Payload PostPayload `json:"payload"`
	Time    uint64      `json:"time"`
}

// PostStats pairs a post id with its vote score for ranking listings.
type PostStats struct {
	PostID string `json:"postId"`
	Score  int64  `json:"score"`
}

type Comment struct {
	Owner string `json:"owner"`
	Body  string `json:"body"`
	Time  uint64 `json:"time"`
}

type Topic struct {
	ID          string `json:"id"`
	Admin       string `json:"admin"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedTime uint64 `json:"createdTime"`
}

type Community struct {
	ID          string `json:"id"`
	Admin       string `json:"admin"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Avatar      string `json:"avatar"`
	Thumbnail   string `json:"thumbnail"`
	CreatedTime uint64 `json:"createdTime"`
}

// CommunityStats decorates a community with its post count for listings.
type CommunityStats struct {
	Community
	PostsCount uint64 `json:"postsCount"`
}

// PrivateMessage holds the latest exchange on a thread. PrevHeight records the
// height of the preceding message so a thread cannot be posted to twice within
// one execution unit.
type PrivateMessage struct {
	ThreadID     string `json:"threadId"`
	Sender       string `json:"sender"`
	Receiver     string `json:"receiver"`
	SenderBody   string `json:"senderBody"`
	ReceiverBody string `json:"receiverBody"`
	Time         uint64 `json:"time"`
	Height       uint64 `json:"height"`
	PrevHeight   uint64 `json:"prevHeight"`
}

// ChestKind discriminates the chest payload variant.
type ChestKind uint8

const (
	ChestStandard ChestKind = iota
	ChestImage
	ChestVideo
)

type ChestPayload struct {
	Kind ChestKind
	URL  string
}

// Location labels a coordinate pair; the label doubles as the place key the
// chest is indexed under. Coordinates are kept as decimal strings because the
// storage codec has no floating-point form.
type Location struct {
	Label string `json:"label"`
	Lat   string `json:"lat"`
	Lng   string `json:"lng"`
}

// Chest is a geolocated, time-limited object. Minted transitions false→true at
// most once, via a confirmed external mint.
type Chest struct {
	ID         string       `json:"id"`
	Sender     string       `json:"sender"`
	SenderName string       `json:"senderName"`
	Code       string       `json:"code"`
	Message    string       `json:"message"`
	Location   Location     `json:"location"`
	Time       uint64       `json:"time"`
	ExpiresIn  uint64       `json:"expiresIn"`
	Minted     bool         `json:"minted"`
	Payload    ChestPayload `json:"payload"`
}

func (c *Chest) expired(now uint64) bool {
	return c.Time+c.ExpiresIn < now
}

// StorageLedger tracks the byte footprint attributed to one actor and the
// quota that actor has paid for.
type StorageLedger struct {
	UsedBytes uint64 `json:"usedBytes"`
	PaidBytes uint64 `json:"paidBytes"`
}

// MintRequest is a pending two-phase mint: issued by MintChest, consumed
// exactly once by ConfirmMint.
type MintRequest struct {
	ID       string `json:"id"`
	ChestID  string `json:"chestId"`
	TokenID  string `json:"tokenId"`
	Receiver string `json:"receiver"`
	Height   uint64 `json:"height"`
}

// VoteStatus reflects the recorded vote of one actor on one post.
type VoteStatus string

const (
	VoteUp      VoteStatus = "UpVote"
	VoteDefault VoteStatus = "Default"
)

type voteEntry struct {
	Voter string
	Value uint8
}

// Stored records are wrapped in a tagged envelope so future schema generations
// can be added without rewriting old bytes. Writers always emit the latest
// schema; readers normalise any known schema to the current in-memory shape.
type envelope struct {
	Schema uint64
	Body   []byte
}

const schemaV1 = 1

func wrapRecord(record interface{}) (*envelope, error) {
	body, err := rlp.EncodeToBytes(record)
	if err != nil {
		return nil, err
	}
	return &envelope{Schema: schemaV1, Body: body}, nil
}

func unwrapRecord(env *envelope, out interface{}) error {
	switch env.Schema {
	case schemaV1:
		return rlp.DecodeBytes(env.Body, out)
	default:
		return fmt.Errorf("social: unknown record schema %d", env.Schema)
	}
}

func validURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return parsed.Scheme != "" && parsed.Host != ""
}

func validActor(actor string) bool {
	return strings.TrimSpace(actor) != ""
}
