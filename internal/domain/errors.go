package domain

import "errors"

// Ledger errors. Rule rejections wrap these with the relevant threshold in
// the message so the caller can show it directly.
var (
	ErrListingNotFound  = errors.New("listing not found")
	ErrCategoryNotFound = errors.New("category does not exist")

	ErrMissingStartingPrice = errors.New("starting price is required")
	ErrInvalidAmount        = errors.New("invalid amount")

	ErrBidBelowStarting   = errors.New("bid below starting price")
	ErrBidNotAboveCurrent = errors.New("bid not above current price")

	// Close by a non-owner and close of an already-closed listing report
	// identically, matching the single authorization check on the transition.
	ErrNotAllowed = errors.New("you are not allowed to close this auction")
)

// Rejection is a recoverable rule violation. Message is meant for direct
// display and names the threshold that was not met; Reason is one of the
// sentinels above so callers can branch with errors.Is.
type Rejection struct {
	Reason  error
	Message string
}

func (r *Rejection) Error() string { return r.Message }
func (r *Rejection) Unwrap() error { return r.Reason }

func Reject(reason error, message string) *Rejection {
	return &Rejection{Reason: reason, Message: message}
}
