package auction

import "time"

// CreateRequest carries an admin's new-auction payload. The serial candidate
// must equal the next available serial at creation time.
type CreateRequest struct {
	Title        string    `json:"title" validate:"required,min=3,max=200"`
	RetailPrice  float64   `json:"retailPrice" validate:"required,gt=0"`
	BidblabPrice float64   `json:"bidblabPrice" validate:"required,gt=0"`
	BidFee       int       `json:"bidFee" validate:"gte=0"`
	Starts       time.Time `json:"starts" validate:"required"`
	Closes       time.Time `json:"closes" validate:"required"`
	Serial       int       `json:"auctionSerial" validate:"required,gt=0"`
}

// PlaceBidRequest carries a bid payload.
type PlaceBidRequest struct {
	BidPrice float64 `json:"bidPrice" validate:"required,gt=0,lte=1000000"`
}

// ListResponse pairs a page of auctions with the unfiltered total.
type ListResponse struct {
	Total    int        `json:"total"`
	Auctions []*Auction `json:"auctions"`
}
