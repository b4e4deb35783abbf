package x

import (
	"github.com/iov-one/custody"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system,
// rather than hard-coding x/sigs for all programs.
type Authenticator interface {
	// GetSigners reveals all addresses that signed the current call
	GetSigners(custody.Context) []custody.Address
	// HasAddress checks if any signer matches this address
	HasAddress(custody.Context, custody.Address) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetSigners combines all signers from all Authenticators
func (m MultiAuth) GetSigners(ctx custody.Context) []custody.Address {
	var res []custody.Address
	for _, impl := range m.impls {
		res = append(res, impl.GetSigners(ctx)...)
	}
	return res
}

// HasAddress returns true iff any Authenticator support this
func (m MultiAuth) HasAddress(ctx custody.Context, addr custody.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// HasAllAddresses returns true if all elements in required are
// also in context.
func HasAllAddresses(ctx custody.Context, auth Authenticator, required []custody.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}

// IsAuthorized returns true if addr signed the current call, or if one of
// the proofs is a derived authority over addr held by the program that is
// currently executing. An authority derived by another program never
// authorizes anything.
func IsAuthorized(ctx custody.Context, auth Authenticator, addr custody.Address, proofs ...custody.DerivedAuthority) bool {
	if auth.HasAddress(ctx, addr) {
		return true
	}
	program, ok := custody.GetProgram(ctx)
	if !ok {
		return false
	}
	for _, p := range proofs {
		if p.Grants(program, addr) {
			return true
		}
	}
	return false
}

// Accounts returns the accounts referenced by the instruction. An account
// is a signer only if it claims to be one and its signature was verified.
func Accounts(ctx custody.Context, auth Authenticator, ins *custody.Instruction) []custody.AccountInfo {
	res := make([]custody.AccountInfo, len(ins.Accounts))
	for i, meta := range ins.Accounts {
		addr := custody.Address(meta.Address)
		res[i] = custody.AccountInfo{
			Address:    addr,
			IsSigner:   meta.IsSigner && auth.HasAddress(ctx, addr),
			IsWritable: meta.IsWritable,
		}
	}
	return res
}
