package registry_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tailabs/settlement-contracts/common"
	"github.com/tailabs/settlement-contracts/registry"
)

func TestSubmitContext(t *testing.T) {
	r := registry.New(zap.NewNop())

	var seen common.CallCtx
	r.Register("target", "probe", func(ctx common.CallCtx, _ []byte) ([]byte, error) {
		seen = ctx
		return []byte{1}, nil
	})

	res, err := r.Submit("origin", "target", "probe", nil)
	require.NoError(t, err)
	require.Equal(t, []byte{1}, res)

	require.Equal(t, common.AccountID("origin"), seen.Caller)
	require.Equal(t, common.AccountID("target"), seen.Owner)
	require.Equal(t, common.AccountID("origin"), seen.Origin)
	require.Equal(t, 0, seen.Depth)
}

func TestInvokeNestsContext(t *testing.T) {
	r := registry.New(nil)

	var inner common.CallCtx
	r.Register("ca11ee", "probe", func(ctx common.CallCtx, _ []byte) ([]byte, error) {
		inner = ctx
		return nil, nil
	})
	r.Register("midd1e", "re1ay", func(ctx common.CallCtx, _ []byte) ([]byte, error) {
		return r.Invoke(ctx, "ca11ee", "probe", nil)
	})

	_, err := r.Submit("origin", "midd1e", "re1ay", nil)
	require.NoError(t, err)

	// the middle contract's account is the caller, origin is preserved
	// and the depth counter advanced
	require.Equal(t, common.AccountID("midd1e"), inner.Caller)
	require.Equal(t, common.AccountID("ca11ee"), inner.Owner)
	require.Equal(t, common.AccountID("origin"), inner.Origin)
	require.Equal(t, 1, inner.Depth)
}

func TestUnknownMethod(t *testing.T) {
	r := registry.New(nil)

	_, err := r.Submit("origin", "target", "missing", nil)
	require.ErrorIs(t, err, registry.ErrUnknownMethod)
}
