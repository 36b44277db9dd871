package common

// LockType is the bitmask of balance-changing directions currently forbidden
// on an asset entry.
type LockType uint8

const (
	LockNone     LockType = 0
	LockDeposit  LockType = 1
	LockWithdraw LockType = 2
	LockFull     LockType = LockDeposit | LockWithdraw
)

// Blocks reports whether the lock forbids any of the given directions.
func (t LockType) Blocks(dir LockType) bool {
	return t&dir != 0
}

func (t LockType) String() string {
	switch t {
	case LockNone:
		return "none"
	case LockDeposit:
		return "deposit"
	case LockWithdraw:
		return "withdraw"
	case LockFull:
		return "full"
	}
	return "invalid"
}

// LockPrivilege is the authority level required to change or remove a lock.
// The order Owner < Contract < Creator is a documented total order exposed
// through Rank, not an accident of the numeric encoding.
type LockPrivilege uint8

const (
	PrivilegeOwner    LockPrivilege = 0
	PrivilegeContract LockPrivilege = 1
	PrivilegeCreator  LockPrivilege = 2
)

// Rank returns the position of the privilege in the total order. A lock set
// at rank r can only be replaced or cleared by an actor deriving rank >= r.
func (p LockPrivilege) Rank() int {
	return int(p)
}

func (p LockPrivilege) String() string {
	switch p {
	case PrivilegeOwner:
		return "owner"
	case PrivilegeContract:
		return "contract"
	case PrivilegeCreator:
		return "creator"
	}
	return "invalid"
}

// Lock records the standing restriction on an asset entry together with the
// privilege required to change it.
type Lock struct {
	Privilege LockPrivilege `msgpack:"privilege"`
	Type      LockType      `msgpack:"type"`
}

// Asset is one fungible balance entry co-located in the holder's account
// data under the asset account id as key.
type Asset struct {
	Units uint64 `msgpack:"units"`
	Lock  *Lock  `msgpack:"lock"`
}
