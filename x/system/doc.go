/*
Package system is the native currency program. It keeps the lamport balance
of every account, allocates the data region of program owned accounts and
computes the minimum balance that keeps an account rent exempt.

Both the creation and the transfer primitives accept derived authorities,
so a program can act for an address it derived without holding a key.
*/
package system
