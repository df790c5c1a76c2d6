package social

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"agorachain/observability/metrics"
)

// MintService hands a mint over to the external NFT backend. The engine does
// not wait for it; the backend (or the node driving it) reports the outcome
// later through ConfirmMint.
type MintService interface {
	RequestMint(ctx context.Context, req MintRequest) error
}

func (e *Engine) mintPendingKey(requestID string) []byte {
	return entityKey(mintPendingPrefix, requestID)
}

// MintChest starts a two-phase mint of a chest into an NFT for the receiver.
// The chest must exist, be unexpired and unminted, and the receiver must not
// be the chest's own sender. The request is parked in the pending table until
// ConfirmMint settles it; the chest itself is untouched until then.
func (e *Engine) MintChest(call Call, chestID, receiver string) (*MintRequest, error) {
	if receiver == "" {
		receiver = call.Caller
	}
	var request *MintRequest
	err := e.apply("mint_chest", call, func() error {
		chest, err := e.requireChest(chestID)
		if err != nil {
			return err
		}
		if err := requireDistinct(chest.Sender, receiver); err != nil {
			return err
		}
		if chest.expired(e.now()) {
			return fmt.Errorf("%w: %s", ErrChestExpired, chestID)
		}
		if chest.Minted {
			return fmt.Errorf("%w: %s", ErrAlreadyMinted, chestID)
		}
		request = &MintRequest{
			ID:       uuid.NewString(),
			ChestID:  chestID,
			TokenID:  fmt.Sprintf("%d_%s_invite_%s", e.now(), chest.Sender, receiver),
			Receiver: receiver,
			Height:   e.height(),
		}
		if err := e.putRecord(e.mintPendingKey(request.ID), request); err != nil {
			return err
		}
		e.emit(mintRequested{RequestID: request.ID, ChestID: chestID, TokenID: request.TokenID, Receiver: receiver})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// ConfirmMint settles a pending mint. It runs as its own call: the pending
// entry is consumed exactly once whichever way the mint went, and the chest is
// re-fetched rather than trusted from request time. A failed mint leaves the
// chest unminted; the sender may start over with a fresh MintChest. Only root
// identities (the node driving the mint backend) may confirm.
func (e *Engine) ConfirmMint(call Call, requestID string, minted bool) (*Chest, error) {
	var settled *Chest
	err := e.apply("confirm_mint", call, func() error {
		if !e.isRoot(call.Caller) {
			return fmt.Errorf("%w: only root identities may confirm mints", ErrPermission)
		}
		var request MintRequest
		ok, err := e.getRecord(e.mintPendingKey(requestID), &request)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrMintRequestNotFound, requestID)
		}
		if err := e.st.KVDelete(e.mintPendingKey(requestID)); err != nil {
			return err
		}
		if !minted {
			metrics.Social().ObserveMint("failed")
			return nil
		}
		chest, err := e.requireChest(request.ChestID)
		if err != nil {
			return err
		}
		if chest.Minted {
			return fmt.Errorf("%w: %s", ErrAlreadyMinted, request.ChestID)
		}
		chest.Minted = true
		if err := e.putRecord(e.chestKey(request.ChestID), chest); err != nil {
			return err
		}
		metrics.Social().ObserveMint("confirmed")
		e.emit(chestMinted{RequestID: requestID, ChestID: request.ChestID, TokenID: request.TokenID, Receiver: request.Receiver})
		settled = chest
		return nil
	})
	if err != nil {
		return nil, err
	}
	return settled, nil
}

// PendingMint returns a parked mint request, or nil when the id is unknown or
// already settled.
func (e *Engine) PendingMint(requestID string) (*MintRequest, error) {
	var request MintRequest
	ok, err := e.getRecord(e.mintPendingKey(requestID), &request)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &request, nil
}
