package social

import (
	"fmt"
	"math/big"
	"time"

	"agorachain/core/events"
	"agorachain/core/state"
	"agorachain/observability/metrics"
)

// Call carries the authenticated initiator of a mutating operation and the
// payment attached to it. Identity verification happens outside this layer.
type Call struct {
	Caller  string
	Deposit *big.Int
}

func (c Call) deposit() *big.Int {
	if c.Deposit == nil {
		return big.NewInt(0)
	}
	return c.Deposit
}

// Engine owns the social state: primary records, secondary relations, storage
// ledgers and the pending mint table. Mutating operations run bracketed by a
// state overlay and a storage scope so a call either commits everything it
// wrote, with its footprint delta attributed to the initiator, or nothing.
//
// Execution is strictly single-threaded and call-atomic; the engine holds no
// locks and must not be shared across goroutines without external ordering.
type Engine struct {
	st               *state.Manager
	emitter          events.Emitter
	pricePerByte     *big.Int
	messageChestCost *big.Int
	roots            map[string]struct{}
	nowFn            func() int64
	heightFn         func() uint64

	// scope of the call currently inside apply; ops that consume the attached
	// deposit as a purchase price (rather than storage credit) flag it here.
	scope *storageScope
	// events buffered during the call, flushed only after it commits.
	pending []events.Payload
}

// NewEngine creates an engine on the provided state manager.
func NewEngine(st *state.Manager) *Engine {
	return &Engine{
		st:               st,
		emitter:          events.NoopEmitter{},
		pricePerByte:     big.NewInt(1),
		messageChestCost: big.NewInt(0),
		roots:            map[string]struct{}{},
		nowFn:            func() int64 { return time.Now().Unix() },
		heightFn:         func() uint64 { return 0 },
	}
}

// SetEmitter configures the event emitter. Passing nil resets it to a no-op
// implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetPricePerByte fixes the conversion rate between attached payment units and
// storage bytes.
func (e *Engine) SetPricePerByte(price *big.Int) {
	if price == nil || price.Sign() <= 0 {
		return
	}
	e.pricePerByte = new(big.Int).Set(price)
}

// SetMessageChestCost fixes the exact payment PlaceMessageChest requires.
func (e *Engine) SetMessageChestCost(cost *big.Int) {
	if cost == nil || cost.Sign() < 0 {
		return
	}
	e.messageChestCost = new(big.Int).Set(cost)
}

// SetRootAccounts configures the identities allowed to grant and revoke admin
// rights. The set is fixed at deployment time rather than baked into the code.
func (e *Engine) SetRootAccounts(accounts []string) {
	roots := make(map[string]struct{}, len(accounts))
	for _, account := range accounts {
		if validActor(account) {
			roots[account] = struct{}{}
		}
	}
	e.roots = roots
}

// SetNowFunc overrides the wall clock. Primarily leveraged in tests to provide
// deterministic timestamps.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

// SetHeightFunc overrides the execution-unit height source.
func (e *Engine) SetHeightFunc(height func() uint64) {
	if height == nil {
		e.heightFn = func() uint64 { return 0 }
		return
	}
	e.heightFn = height
}

func (e *Engine) now() uint64 {
	return uint64(e.nowFn())
}

func (e *Engine) height() uint64 {
	return e.heightFn()
}

// emit buffers the payload while a call is in flight so a later rejection
// leaks no events; outside apply it goes straight to the emitter.
func (e *Engine) emit(p events.Payload) {
	if e.emitter == nil || p == nil {
		return
	}
	if e.scope != nil {
		e.pending = append(e.pending, p)
		return
	}
	e.emitter.Emit(p)
}

// Initialize seeds the default topic. Runs once at deployment, outside any
// metered scope.
func (e *Engine) Initialize(owner string) error {
	if !validActor(owner) {
		return fmt.Errorf("%w: owner required", ErrValidation)
	}
	e.st.Begin()
	key := entityKey(topicPrefix, DefaultTopicID)
	exists, err := e.st.KVHas(key)
	if err != nil {
		e.st.Discard()
		return err
	}
	if !exists {
		topic := &Topic{
			ID:          DefaultTopicID,
			Admin:       owner,
			Name:        "Default",
			Description: "Default topic for all posts",
			CreatedTime: e.now(),
		}
		if err := e.putRecord(key, topic); err != nil {
			e.st.Discard()
			return err
		}
		if err := e.enumAdd(topicIndexKey, DefaultTopicID); err != nil {
			e.st.Discard()
			return err
		}
	}
	return e.st.Commit()
}

// apply brackets one mutating call: overlay begin, storage scope begin, op
// body, scope commit, overlay commit. Any error discards the overlay, so the
// ledger and every write of the call vanish together.
func (e *Engine) apply(op string, call Call, fn func() error) error {
	if !validActor(call.Caller) {
		return fmt.Errorf("%w: caller required", ErrValidation)
	}
	e.st.Begin()
	scope, err := e.beginScope(call.Caller)
	if err != nil {
		e.st.Discard()
		return err
	}
	e.scope = scope
	e.pending = nil
	defer func() {
		e.scope = nil
		e.pending = nil
	}()

	if err := fn(); err != nil {
		e.st.Discard()
		metrics.Social().ObserveCall(op, "rejected")
		return err
	}
	if err := e.commitScope(scope, call.deposit()); err != nil {
		e.st.Discard()
		metrics.Social().ObserveCall(op, "rejected")
		return err
	}
	if err := e.st.Commit(); err != nil {
		return err
	}
	for _, p := range e.pending {
		e.emitter.Emit(p)
	}
	metrics.Social().ObserveCall(op, "committed")
	metrics.Social().SetFootprint(e.st.Usage())
	return nil
}

// --- record helpers ---

func (e *Engine) putRecord(key []byte, record interface{}) error {
	env, err := wrapRecord(record)
	if err != nil {
		return err
	}
	return e.st.KVPut(key, env)
}

func (e *Engine) getRecord(key []byte, out interface{}) (bool, error) {
	var env envelope
	ok, err := e.st.KVGet(key, &env)
	if err != nil || !ok {
		return false, err
	}
	if err := unwrapRecord(&env, out); err != nil {
		return false, err
	}
	return true, nil
}

func (e *Engine) getAccount(actor string) (*Account, bool, error) {
	var account Account
	ok, err := e.getRecord(entityKey(accountPrefix, actor), &account)
	if err != nil || !ok {
		return nil, ok, err
	}
	return &account, true, nil
}

func (e *Engine) putAccount(actor string, account *Account) error {
	return e.putRecord(entityKey(accountPrefix, actor), account)
}

// getOrCreateAccount creates the account on first mutating reference; actors
// never register explicitly.
func (e *Engine) getOrCreateAccount(actor string) (*Account, error) {
	account, ok, err := e.getAccount(actor)
	if err != nil {
		return nil, err
	}
	if ok {
		return account, nil
	}
	account = &Account{}
	if err := e.putAccount(actor, account); err != nil {
		return nil, err
	}
	if err := e.enumAdd(accountIndexKey, actor); err != nil {
		return nil, err
	}
	return account, nil
}

func (e *Engine) requireAccount(actor string) (*Account, error) {
	account, ok, err := e.getAccount(actor)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, actor)
	}
	return account, nil
}
