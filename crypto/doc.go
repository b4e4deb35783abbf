/*
Package crypto provides the ed25519 keys used to sign transactions.

An account address is the raw 32 byte public key. Keys can be generated at
random, restored from a seed or derived from a master seed following
SLIP-0010 hardened paths.
*/
package crypto
