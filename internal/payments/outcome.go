package payments

import "github.com/oguzsenturk/vitalshop-backend/pkg/enums"

// Outcome is the result of a payment initiation. Exactly one of the
// three variants below implements it.
type Outcome interface {
	outcome()
}

// Accepted means the order was created immediately. Bank transfers
// settle out of band, so there is nothing left to redirect to.
type Accepted struct {
	OrderCode string
}

// Redirect hands the shopper off to a card gateway, either as a hosted
// iframe URL or as raw 3-D-Secure challenge markup.
type Redirect struct {
	Kind  enums.RedirectKind
	Value string
}

// Failure means initiation was rejected before any order side effect,
// either by a local precondition or by the gateway itself.
type Failure struct {
	Message string
}

func (Accepted) outcome() {}
func (Redirect) outcome() {}
func (Failure) outcome()  {}
