package social

import (
	"fmt"
	"math"
	"math/big"
)

// storageScope brackets one call for storage accounting. beginScope snapshots
// the footprint of the whole store, not just the initiator's records: a call
// may grow another actor's indices (following someone grows their follower
// set) and the cost still lands on the initiator.
type storageScope struct {
	actor  string
	before uint64
	// consumed marks the attached deposit as spent on a purchase, excluding it
	// from the storage-quota conversion at commit.
	consumed bool
}

func (e *Engine) ledgerKey(actor string) []byte {
	return entityKey(ledgerPrefix, actor)
}

// Ledger returns the storage ledger recorded for the actor.
func (e *Engine) Ledger(actor string) (*StorageLedger, error) {
	var ledger StorageLedger
	ok, err := e.st.KVGet(e.ledgerKey(actor), &ledger)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: no storage ledger for %s", ErrAccountNotFound, actor)
	}
	return &ledger, nil
}

// beginScope lazily creates the initiator's ledger with zero usage, then
// snapshots the total footprint. The ledger record itself is written before
// the snapshot so its own bytes are never attributed to the actor.
func (e *Engine) beginScope(actor string) (*storageScope, error) {
	key := e.ledgerKey(actor)
	exists, err := e.st.KVHas(key)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := e.st.KVPut(key, &StorageLedger{}); err != nil {
			return nil, err
		}
	}
	return &storageScope{actor: actor, before: e.st.Usage()}, nil
}

// consumeAttachedDeposit marks the current call's deposit as spent on a
// purchase price. Only meaningful inside apply.
func (e *Engine) consumeAttachedDeposit() {
	if e.scope != nil {
		e.scope.consumed = true
	}
}

// commitScope recomputes the footprint and settles the delta against the
// initiator's ledger. Growth must be covered by the paid quota plus whatever
// unconsumed deposit the call attached; shrinkage is credited back as reduced
// usage. commitScope only runs on the success path - a failed call abandons
// its scope and the surrounding overlay discard makes the ledger untouched.
func (e *Engine) commitScope(scope *storageScope, deposit *big.Int) error {
	key := e.ledgerKey(scope.actor)
	var ledger StorageLedger
	ok, err := e.st.KVGet(key, &ledger)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: no storage ledger for %s", ErrAccountNotFound, scope.actor)
	}

	var paidDelta uint64
	if !scope.consumed && deposit.Sign() > 0 {
		bytesBought := new(big.Int).Div(deposit, e.pricePerByte)
		if bytesBought.IsUint64() {
			paidDelta = bytesBought.Uint64()
		} else {
			paidDelta = math.MaxUint64 - ledger.PaidBytes
		}
	}

	after := e.st.Usage()
	if after >= scope.before {
		delta := after - scope.before
		if ledger.UsedBytes+delta > ledger.PaidBytes+paidDelta {
			return fmt.Errorf("%w: need %d bytes, paid for %d",
				ErrInsufficientStorage, ledger.UsedBytes+delta, ledger.PaidBytes+paidDelta)
		}
		ledger.UsedBytes += delta
	} else {
		shrink := scope.before - after
		if shrink > ledger.UsedBytes {
			ledger.UsedBytes = 0
		} else {
			ledger.UsedBytes -= shrink
		}
	}
	ledger.PaidBytes += paidDelta
	return e.st.KVPut(key, &ledger)
}
