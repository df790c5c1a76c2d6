package mint

import (
	"context"
	"log/slog"

	"agorachain/native/social"
)

// Dispatcher drives the two-phase mint flow: it parks the request in the
// engine, hands it to the backend, and later settles the pending entry with
// the backend's verdict. Settlement runs under the operator identity, which
// must be one of the engine's configured roots.
type Dispatcher struct {
	engine   *social.Engine
	service  social.MintService
	operator social.Call
	logger   *slog.Logger
}

// NewDispatcher wires a dispatcher over the engine and the mint backend.
func NewDispatcher(engine *social.Engine, service social.MintService, operator string, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		engine:   engine,
		service:  service,
		operator: social.Call{Caller: operator},
		logger:   logger,
	}
}

// Mint starts a chest mint on behalf of the caller and submits it to the
// backend. When the backend cannot even accept the submission the pending
// entry is settled as failed right away, so the chest stays mintable.
func (d *Dispatcher) Mint(ctx context.Context, call social.Call, chestID, receiver string) (*social.MintRequest, error) {
	request, err := d.engine.MintChest(call, chestID, receiver)
	if err != nil {
		return nil, err
	}
	if err := d.service.RequestMint(ctx, *request); err != nil {
		d.logger.Warn("mint submission failed",
			slog.String("requestId", request.ID),
			slog.Any("error", err))
		if _, settleErr := d.engine.ConfirmMint(d.operator, request.ID, false); settleErr != nil {
			d.logger.Error("failed to settle rejected mint",
				slog.String("requestId", request.ID),
				slog.Any("error", settleErr))
		}
		return nil, err
	}
	return request, nil
}

// Settle consumes a pending mint with the backend's verdict.
func (d *Dispatcher) Settle(requestID string, minted bool) (*social.Chest, error) {
	return d.engine.ConfirmMint(d.operator, requestID, minted)
}
