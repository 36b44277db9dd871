/*
Package exchange implements a dynamic exchange settlement contract.

The exchange account custodies a locked balance of the asset being sold.
Buyers apply offered assets at per-asset rates; each apply pays the offered
amount out to guarantor and seller, converts at the configured rate with
half-up rounding, and releases the converted amount from custody to the
buyer. The exchange exhausts itself the moment the custody balance reaches
zero. The seller or guarantor may abort an open exchange, returning custody
to the seller minus a penalty paid to the guarantor, either as a share of
the remaining balance or as a fixed amount of a distinct penalty asset.
*/
package exchange
