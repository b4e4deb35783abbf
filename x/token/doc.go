/*
Package token implements fungible assets. A mint defines an asset and the
authority allowed to issue it. Balances are kept in holding accounts, one
per owner and mint, that live at an address derived by the holding program.

The package registers two programs: the token program itself, that moves
and issues balances, and the holding program, that creates holding
accounts on behalf of anybody willing to pay their rent.
*/
package token
