package biddingerrors

import "errors"

// Repository-level errors
var (
	ErrItemNotFound     = errors.New("item not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrNoBids           = errors.New("no bids found for item")
	ErrUserNoBids       = errors.New("user has not placed any bids")
	ErrBidNotFound      = errors.New("bid not found")
	ErrCooldownNotFound = errors.New("cooldown not found")
	ErrAlertNotFound    = errors.New("fraud alert not found")
	ErrDuplicate        = errors.New("record already exists")
)

// business logic errors
var (
	ErrInvalidBid        = errors.New("invalid bid")
	ErrBidTooLow         = errors.New("bid amount too low")
	ErrAuctionClosed     = errors.New("auction is not accepting bids")
	ErrSelfBid           = errors.New("cannot bid on own item")
	ErrAlreadyPurchased  = errors.New("item already purchased")
	ErrBuyNowUnavailable = errors.New("buy now is not available for this item")
	ErrAlertResolved     = errors.New("fraud alert already resolved")
	ErrInvalidPayment    = errors.New("invalid payment")
	ErrNotSeller         = errors.New("only the seller can change this item")
	ErrInvalidTransition = errors.New("item status transition not allowed")
)

// session and cache errors
var (
	ErrPendingBidNotFound = errors.New("no pending bid found")
	ErrPendingBidExpired  = errors.New("pending bid verification expired")
	ErrCacheMiss          = errors.New("cache miss")
)
