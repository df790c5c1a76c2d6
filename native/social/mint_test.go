package social

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMintChestCreatesPendingRequest(t *testing.T) {
	e, clk := newTestEngine(t)

	chest := placeTestChest(t, e, "alice", "spot")
	clk.Tick()

	request, err := e.MintChest(fundedCall("bob"), chest.ID, "")
	require.NoError(t, err)
	require.NotEmpty(t, request.ID)
	require.Equal(t, chest.ID, request.ChestID)
	require.Equal(t, "bob", request.Receiver)
	require.Equal(t, fmt.Sprintf("%d_alice_invite_bob", clk.now), request.TokenID)
	require.Equal(t, clk.height, request.Height)

	pending, err := e.PendingMint(request.ID)
	require.NoError(t, err)
	require.NotNil(t, pending)

	// The chest itself is untouched until the mint settles.
	got, err := e.requireChest(chest.ID)
	require.NoError(t, err)
	require.False(t, got.Minted)
}

func TestMintChestRejections(t *testing.T) {
	e, clk := newTestEngine(t)

	_, err := e.MintChest(fundedCall("bob"), "ghost", "")
	require.ErrorIs(t, err, ErrChestNotFound)

	chest := placeTestChest(t, e, "alice", "spot")
	clk.Tick()

	// The sender cannot mint their own chest to themselves.
	_, err = e.MintChest(fundedCall("alice"), chest.ID, "")
	require.ErrorIs(t, err, ErrPermission)

	clk.Advance(int64(DefaultChestExpiry) + 1)
	_, err = e.MintChest(fundedCall("bob"), chest.ID, "")
	require.ErrorIs(t, err, ErrChestExpired)
}

func TestConfirmMintOneShot(t *testing.T) {
	e, clk := newTestEngine(t)

	chest := placeTestChest(t, e, "alice", "spot")
	clk.Tick()
	request, err := e.MintChest(fundedCall("bob"), chest.ID, "")
	require.NoError(t, err)
	clk.Tick()

	_, err = e.ConfirmMint(fundedCall("bob"), request.ID, true)
	require.ErrorIs(t, err, ErrPermission)

	settled, err := e.ConfirmMint(fundedCall(rootAccount), request.ID, true)
	require.NoError(t, err)
	require.True(t, settled.Minted)

	// The pending entry is consumed exactly once.
	pending, err := e.PendingMint(request.ID)
	require.NoError(t, err)
	require.Nil(t, pending)
	_, err = e.ConfirmMint(fundedCall(rootAccount), request.ID, true)
	require.ErrorIs(t, err, ErrMintRequestNotFound)

	// A minted chest cannot be minted again.
	_, err = e.MintChest(fundedCall("carol"), chest.ID, "")
	require.ErrorIs(t, err, ErrAlreadyMinted)
}

func TestConfirmMintFailureIsRetryable(t *testing.T) {
	e, clk := newTestEngine(t)

	chest := placeTestChest(t, e, "alice", "spot")
	clk.Tick()
	request, err := e.MintChest(fundedCall("bob"), chest.ID, "")
	require.NoError(t, err)
	clk.Tick()

	settled, err := e.ConfirmMint(fundedCall(rootAccount), request.ID, false)
	require.NoError(t, err)
	require.Nil(t, settled)

	pending, err := e.PendingMint(request.ID)
	require.NoError(t, err)
	require.Nil(t, pending)

	got, err := e.requireChest(chest.ID)
	require.NoError(t, err)
	require.False(t, got.Minted)

	// The chest stays mintable; a fresh request starts over.
	clk.Tick()
	retry, err := e.MintChest(fundedCall("bob"), chest.ID, "")
	require.NoError(t, err)
	require.NotEqual(t, request.ID, retry.ID)
}

func TestMintForExplicitReceiver(t *testing.T) {
	e, clk := newTestEngine(t)

	chest := placeTestChest(t, e, "alice", "spot")
	clk.Tick()

	request, err := e.MintChest(fundedCall("bob"), chest.ID, "carol")
	require.NoError(t, err)
	require.Equal(t, "carol", request.Receiver)

	// An explicit receiver equal to the sender is still rejected.
	_, err = e.MintChest(fundedCall("bob"), chest.ID, "alice")
	require.ErrorIs(t, err, ErrPermission)
}
