/*
Package escrow implements a custodial asset for payment exchange.

A seller creates an escrow for an asset, which allocates a record at an
address derived from the asset and this program. No private key exists for
that address, only this program can act for it. The seller then deposits
the asset into the holding account of the escrow address. Finally a buyer
settles: the asset moves to the buyer and, in the same invocation, the price
moves from the buyer to the seller.

The record tracks a status that only moves forward: created, funded,
settled. By default the terms in the record are not enforced, enable
StrictTerms in the escrow configuration to bind the deposit and the
settlement to the seller, the price and the deposited quantity.
*/
package escrow
