package exchange

import "github.com/tailabs/settlement-contracts/common"

// Handlers exposes the exchange methods over the wire codec.
func (c *Contract) Handlers() map[string]common.Handler {
	return map[string]common.Handler{
		common.MethodInit:    c.handleInit,
		common.MethodGetInfo: c.handleGetInfo,
		"apply":              c.handleApply,
		"abort":              c.handleAbort,
	}
}

func (c *Contract) handleInit(ctx common.CallCtx, args []byte) ([]byte, error) {
	var cfg Config
	if err := common.Unmarshal(args, &cfg); err != nil {
		return nil, err
	}
	return nil, c.Init(ctx, cfg)
}

func (c *Contract) handleGetInfo(ctx common.CallCtx, _ []byte) ([]byte, error) {
	info, err := c.GetInfo(ctx)
	if err != nil {
		return nil, err
	}
	return common.Marshal(info)
}

func (c *Contract) handleApply(ctx common.CallCtx, args []byte) ([]byte, error) {
	var a ApplyArgs
	if err := common.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return nil, c.Apply(ctx, a.Asset, a.Amount)
}

func (c *Contract) handleAbort(ctx common.CallCtx, _ []byte) ([]byte, error) {
	return nil, c.Abort(ctx)
}
