package social

import "errors"

var (
	// ErrValidation marks length/format/type violations on caller input.
	ErrValidation = errors.New("social: invalid input")
	// ErrPermission marks access-policy violations.
	ErrPermission = errors.New("social: permission denied")

	ErrAccountNotFound   = errors.New("social: account not found")
	ErrPostNotFound      = errors.New("social: post not found")
	ErrCommentNotFound   = errors.New("social: comment not found")
	ErrTopicNotFound     = errors.New("social: topic not found")
	ErrCommunityNotFound = errors.New("social: community not found")
	ErrChestNotFound     = errors.New("social: chest not found")
	ErrThreadNotFound    = errors.New("social: message thread not found")

	ErrTopicExists     = errors.New("social: topic already exists")
	ErrCommunityExists = errors.New("social: community already exists")

	// ErrDuplicateRelation is returned when inserting a member that is already
	// present in a relation that disallows duplicates.
	ErrDuplicateRelation = errors.New("social: relation member already present")
	// ErrRelationNotFound is returned when removing a member that is absent
	// from a relation.
	ErrRelationNotFound = errors.New("social: relation member not found")

	// ErrInsufficientStorage rejects a call whose byte-footprint growth exceeds
	// the initiator's paid quota.
	ErrInsufficientStorage = errors.New("social: insufficient storage balance")

	ErrAlreadyMinted       = errors.New("social: chest already minted")
	ErrMintRequestNotFound = errors.New("social: mint request not found")
	// ErrChestActive rejects replacing a chest before it expired.
	ErrChestActive = errors.New("social: chest still active")
	// ErrChestExpired rejects minting a chest past its expiry.
	ErrChestExpired = errors.New("social: chest expired")
	// ErrChestLimit caps the number of chests an account may have placed.
	ErrChestLimit = errors.New("social: chest limit reached")

	// ErrSameHeightMessage rejects a second message on a thread within one
	// execution unit.
	ErrSameHeightMessage = errors.New("social: thread already posted to at this height")

	// ErrExternalCallFailed reports a failed acknowledgment from the external
	// mint service.
	ErrExternalCallFailed = errors.New("social: external mint call failed")
)
