/*
Package x contains the programs hosted by the ledger and the helpers they
share.

Each sub package is one program (system, token, escrow) or a set of
decorators (sigs, utils). Programs never read signatures directly: they get
an Authenticator and ask it whether an address authorized the current call.
*/
package x
