/*
Package escrow implements a multi-merchant escrow settlement contract.

The escrow account custodies a locked asset balance funded by the customer.
When the guarantor signals "OK" every merchant receives its configured fixed
amount and the remainder stays with the escrow, unlocked. When the guarantor
signals "KO" the customer is refunded the configured total, capped at the
balance actually held, and the remainder is locked down. Either resolution
is terminal: further updates fail with a closed-escrow error and no balance
moves again.
*/
package escrow
