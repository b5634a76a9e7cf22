package auction

import (
	"time"

	"github.com/google/uuid"
)

// Role classifies auction lifecycle state. Stored as a bitmask for parity with
// legacy clients that filter on combined roles.
type Role int

const (
	RolePending    Role = 1 // now < starts
	RoleProcessing Role = 2 // starts <= now < closes
	RoleClosed     Role = 4 // now >= closes
)

// BidStatus bits are derived at read time and never stored.
type BidStatus int

const (
	// BidDuplicated marks a bid whose exact price appears on another bid in
	// the same auction.
	BidDuplicated BidStatus = 1
	// BidUniqueMax marks the single highest-priced bid among non-duplicated bids.
	BidUniqueMax BidStatus = 2
)

// MaxBidPrice caps a single bid price.
const MaxBidPrice = 1000000

// BidderProfile is the public slice of a user attached to a bid.
type BidderProfile struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Bid is owned by its auction and immutable once created. BidderID is nil for
// admin house bids, which carry no bidder identity.
type Bid struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	AuctionID uuid.UUID      `db:"auction_id" json:"auctionId"`
	BidderID  *uuid.UUID     `db:"bidder_id" json:"bidderId,omitempty"`
	BidPrice  float64        `db:"bid_price" json:"bidPrice"`
	ClientIP  string         `db:"client_ip" json:"-"`
	Status    BidStatus      `db:"-" json:"bidStatus"`
	Bidder    *BidderProfile `db:"-" json:"bidder,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
}

// Picture is an auction image attachment.
type Picture struct {
	ID           uuid.UUID `db:"id" json:"id"`
	AuctionID    uuid.UUID `db:"auction_id" json:"-"`
	URL          string    `db:"url" json:"url"`
	ThumbnailURL string    `db:"thumbnail_url" json:"thumbnailUrl"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// Auction invariants: Serial is unique and monotonically assigned,
// BidblabPrice <= RetailPrice, Closes > Starts.
type Auction struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Serial       int       `db:"serial" json:"auctionSerial"`
	Title        string    `db:"title" json:"title"`
	RetailPrice  float64   `db:"retail_price" json:"retailPrice"`
	BidblabPrice float64   `db:"bidblab_price" json:"bidblabPrice"`
	BidFee       int       `db:"bid_fee" json:"bidFee"`
	Starts       time.Time `db:"starts" json:"starts"`
	Closes       time.Time `db:"closes" json:"closes"`
	Role         Role      `db:"role" json:"role"`
	CreatedBy    uuid.UUID `db:"created_by" json:"createdBy"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`

	Pictures     []Picture `db:"-" json:"pictures"`
	Bids         []Bid     `db:"-" json:"bids"`
	MaxUniqueBid *Bid      `db:"-" json:"maxUniqueBid,omitempty"`
}
