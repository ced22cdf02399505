package domain

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus enumerates the lifecycle of an ad request. The pending
// state is the only one an auction may start from; served and failed are
// terminal and a request is never re-auctioned once it reaches them.
type RequestStatus string

const (
	RequestPending RequestStatus = "pending"
	RequestServed  RequestStatus = "served"
	RequestFailed  RequestStatus = "failed"
	RequestBlocked RequestStatus = "blocked"
)

// Terminal reports whether the status admits no further auction.
func (s RequestStatus) Terminal() bool {
	return s == RequestServed || s == RequestFailed
}

// AdRequest is one placement opportunity. The request id doubles as the
// idempotency key for the auction: a second run on a terminal request
// returns the stored outcome without re-auctioning.
type AdRequest struct {
	ID       uuid.UUID
	OrgID    int64
	SiteID   int64
	AdUnitID int64
	Context  RequestContext
	Status   RequestStatus

	// Outcome fields, set exactly once when the request turns terminal.
	WinningAdID   *int64
	WinningBid    Money
	ClearingPrice Money
	Participants  int

	CreatedAt time.Time
	ServedAt  *time.Time
}

// AdUnit is the placement definition the request fills: its declared
// format and size are the hard filters of eligibility.
type AdUnit struct {
	ID     int64
	SiteID int64
	Name   string
	Format string
	Size   string
}
