/*
Package asset implements the common asset interface contract: a fungible
balance attached to holder accounts, minted and burned by its creator,
transferred by holders or by third parties holding one-shot delegations, and
guarded by privilege-ordered locks.

Balances are co-located in the holder's account data under the asset account
id as key. Every balance-changing direction is checked against the entry's
lock before any mutation, and a call either persists all of its writes or
none of them.
*/
package asset
