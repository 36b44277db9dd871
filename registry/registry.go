// Package registry dispatches (account, method) invocations to registered
// contract handlers. It implements common.Invoker for in-process execution
// and is the seam a cross-VM host call would plug into in production.
package registry

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tailabs/settlement-contracts/common"
)

// ErrUnknownMethod is returned when no handler is registered for the
// requested account and method.
var ErrUnknownMethod = errors.New("unknown method")

type key struct {
	account common.AccountID
	method  string
}

// Registry maps (account, method) pairs to contract handlers and executes
// them synchronously, one call chain at a time.
type Registry struct {
	log      *zap.Logger
	handlers map[key]common.Handler
}

// New creates an empty registry logging through the given logger.
func New(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{log: log, handlers: make(map[key]common.Handler)}
}

// Register binds one method of an account to its handler.
func (r *Registry) Register(account common.AccountID, method string, h common.Handler) {
	r.handlers[key{account: account, method: method}] = h
}

// RegisterAll binds a contract's full method table to its account.
func (r *Registry) RegisterAll(account common.AccountID, handlers map[string]common.Handler) {
	for method, h := range handlers {
		r.Register(account, method, h)
	}
}

// Submit runs a top-level transaction signed by origin against the target
// account. Each submission gets a uuid for log correlation.
func (r *Registry) Submit(origin, account common.AccountID, method string, args []byte) ([]byte, error) {
	tx := uuid.NewString()
	ctx := common.CallCtx{Caller: origin, Owner: account, Origin: origin, Depth: 0}
	r.log.Info("transaction submitted",
		zap.String("tx", tx),
		zap.String("origin", string(origin)),
		zap.String("account", string(account)),
		zap.String("method", method))
	res, err := r.dispatch(ctx, account, method, args)
	if err != nil {
		r.log.Info("transaction failed", zap.String("tx", tx), zap.Error(err))
		return nil, err
	}
	r.log.Info("transaction applied", zap.String("tx", tx))
	return res, nil
}

// Invoke performs a nested synchronous cross-contract call: the parent
// owner becomes the caller and the depth counter increments, which is what
// lets the asset contract tell a contract-initiated lock from an owner one.
func (r *Registry) Invoke(parent common.CallCtx, account common.AccountID, method string, args []byte) ([]byte, error) {
	ctx := common.CallCtx{
		Caller: parent.Owner,
		Owner:  account,
		Origin: parent.Origin,
		Depth:  parent.Depth + 1,
	}
	return r.dispatch(ctx, account, method, args)
}

func (r *Registry) dispatch(ctx common.CallCtx, account common.AccountID, method string, args []byte) ([]byte, error) {
	h, ok := r.handlers[key{account: account, method: method}]
	if !ok {
		return nil, fmt.Errorf("%s has no method %q: %w", account, method, ErrUnknownMethod)
	}
	r.log.Debug("dispatch",
		zap.String("account", string(account)),
		zap.String("method", method),
		zap.String("caller", string(ctx.Caller)),
		zap.Int("depth", ctx.Depth))
	return h(ctx, args)
}
