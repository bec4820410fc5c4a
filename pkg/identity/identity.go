// Package identity describes who the ledger is synced for.
package identity

import "context"

// Identity is the opaque id of a signed-in user. The zero value means no
// one is signed in.
type Identity string

// None is the absence of an identity.
const None Identity = ""

func (i Identity) IsNone() bool { return i == None }

func (i Identity) String() string { return string(i) }

// Source reports identity changes, current identity first. The channel is
// closed when the source has nothing more to report or ctx ends.
type Source interface {
	Changes(ctx context.Context) <-chan Identity
}

// Static is a Source that reports a fixed identity once.
type Static Identity

func (s Static) Changes(ctx context.Context) <-chan Identity {
	ch := make(chan Identity, 1)
	ch <- Identity(s)
	close(ch)
	return ch
}
