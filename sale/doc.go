/*
Package sale implements a fixed-price sale of a custodied asset with
creator and intermediary cuts taken out of the price. The first buyer able
to pay the price receives the whole custodied balance and the sale closes.
*/
package sale
