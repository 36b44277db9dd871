package asset

import "github.com/tailabs/settlement-contracts/common"

// Handlers exposes the contract methods over the wire codec so a dispatcher
// can register them under the asset's account.
func (c *Contract) Handlers() map[string]common.Handler {
	return map[string]common.Handler{
		common.MethodInit:          c.handleInit,
		common.MethodGetInfo:       c.handleGetInfo,
		common.MethodMint:          c.handleMint,
		common.MethodBurn:          c.handleBurn,
		common.MethodTransfer:      c.handleTransfer,
		common.MethodBalance:       c.handleBalance,
		common.MethodLock:          c.handleLock,
		common.MethodAddDelegation: c.handleAddDelegation,
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

func (c *Contract) handleMint(ctx common.CallCtx, args []byte) ([]byte, error) {
	var a common.MintArgs
	if err := common.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return nil, c.Mint(ctx, a.To, a.Units)
}

func (c *Contract) handleBurn(ctx common.CallCtx, args []byte) ([]byte, error) {
	var a common.BurnArgs
	if err := common.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return nil, c.Burn(ctx, a.From, a.Units)
}

func (c *Contract) handleTransfer(ctx common.CallCtx, args []byte) ([]byte, error) {
	var a common.TransferArgs
	if err := common.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return nil, c.Transfer(ctx, a.From, a.To, a.Units)
}

func (c *Contract) handleBalance(ctx common.CallCtx, _ []byte) ([]byte, error) {
	units, err := c.Balance(ctx)
	if err != nil {
		return nil, err
	}
	return common.Marshal(units)
}

func (c *Contract) handleLock(ctx common.CallCtx, args []byte) ([]byte, error) {
	var a common.LockArgs
	if err := common.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return nil, c.SetLock(ctx, a.To, a.Lock)
}

func (c *Contract) handleAddDelegation(ctx common.CallCtx, args []byte) ([]byte, error) {
	var a common.AddDelegationArgs
	if err := common.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return nil, c.AddDelegation(ctx, a.Delegate, a.Units, a.To)
}
