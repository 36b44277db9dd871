/*
Package withdraw implements a delivery-versus-payment withdraw settlement.

The contract account custodies two locked entries funded before init: the
currency the customer pays and the asset the exchange delivers. Init
refuses to start on a funding shortfall, with nothing written. The exchange
resolves the swap: "OK" sends the currency to the exchange and the
withdrawn asset to the customer, "KO" refunds both sides. Both entries end
locked down and the terminal status is permanent.
*/
package withdraw
