/*
Package custody defines the interfaces and primitives shared by the ledger
extensions: addresses, derived program addresses, storage, transactions,
handlers and the execution context.

Every invocation carries a single Instruction addressed to a program. The
program receives an ordered list of accounts, each tagged by the caller as
signer and/or writable, together with opaque instruction data. Programs never
hold private keys; a program may still act for an address it derived itself
by presenting a DerivedAuthority, which only this package can produce.
*/
package custody
