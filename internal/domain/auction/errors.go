package auction

import "errors"

var (
	// ErrNotFound is returned when the auction doesn't exist
	ErrNotFound = errors.New("auction not found")

	// ErrAuctionClosed is returned when bidding on an auction past its close time
	ErrAuctionClosed = errors.New("auction closed")

	// ErrInsufficientCredits is returned when the bid fee exceeds the bidder's spendable balance
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrDuplicatePrice is returned when the bidder already holds a bid at this price
	ErrDuplicatePrice = errors.New("duplicate bid price")

	// ErrInvalidPrice is returned for a non-positive or over-cap bid price
	ErrInvalidPrice = errors.New("invalid bid price")

	// ErrSerialMismatch is returned when the submitted serial is not the next available one
	ErrSerialMismatch = errors.New("auction serial is not the next available serial")

	// ErrSerialTaken is returned when a concurrent creation claimed the serial first
	ErrSerialTaken = errors.New("auction serial already taken")

	// ErrInvalidPriceRange is returned when bidblab price exceeds retail price
	ErrInvalidPriceRange = errors.New("bidblab price must not exceed retail price")

	// ErrInvalidDateRange is returned when closes is not after starts
	ErrInvalidDateRange = errors.New("closes must be after starts")

	ErrInternal = errors.New("internal error")
)
