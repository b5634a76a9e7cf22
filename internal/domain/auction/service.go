package auction

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Ledger recomputes a bidder's spendable balance. The Tx variant runs the
// bid-fee sum under the auction row lock held by bid admission.
type Ledger interface {
	SpendableTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) (int, error)
}

// ProfileDirectory resolves the public profile attached to end-user bids.
type ProfileDirectory interface {
	ProfileByID(ctx context.Context, userID uuid.UUID) (*BidderProfile, error)
}

// Broadcaster fans out admitted-bid events to live feed subscribers.
type Broadcaster interface {
	BidPlaced(auctionID uuid.UUID, serial int)
}

type Service struct {
	db       *sqlx.DB
	repo     Repository
	ledger   Ledger
	profiles ProfileDirectory
	feed     Broadcaster

	now func() time.Time
}

func NewService(db *sqlx.DB, repo Repository, ledger Ledger, profiles ProfileDirectory, feed Broadcaster) *Service {
	return &Service{
		db:       db,
		repo:     repo,
		ledger:   ledger,
		profiles: profiles,
		feed:     feed,
		now:      time.Now,
	}
}

// List reclassifies every auction's role from the clock, then returns a ranked
// and viewer-scoped page. Reclassification runs fully before the role filter
// so the filter is consistent with "now".
func (s *Service) List(ctx context.Context, filter *Filter, pagination *Pagination, viewerID uuid.UUID, viewerIsAdmin bool) ([]*Auction, int, error) {
	if err := s.repo.ReclassifyAll(ctx, s.now()); err != nil {
		return nil, 0, err
	}

	auctions, total, err := s.repo.List(ctx, filter, pagination)
	if err != nil {
		return nil, 0, err
	}

	for _, a := range auctions {
		Rank(a)
		if !viewerIsAdmin {
			ScopeToViewer(a, viewerID)
		}
	}

	return auctions, total, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID, viewerID uuid.UUID, viewerIsAdmin bool) (*Auction, error) {
	if err := s.repo.ReclassifyAll(ctx, s.now()); err != nil {
		return nil, err
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	Rank(a)
	if !viewerIsAdmin {
		ScopeToViewer(a, viewerID)
	}

	return a, nil
}

// PlaceBid admits or rejects a bid. Steps 2-5 of admission run in a single
// transaction with the auction row locked, so the spendable balance cannot be
// consumed twice by concurrent bids on the same auction. A nil bidderID is an
// admin house bid: it carries no identity and skips the affordability and
// duplicate-price checks.
func (s *Service) PlaceBid(ctx context.Context, auctionID uuid.UUID, bidderID *uuid.UUID, price float64, clientIP string) (*Bid, error) {
	if price <= 0 || price > MaxBidPrice {
		return nil, ErrInvalidPrice
	}

	now := s.now()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, ErrInternal
	}
	defer tx.Rollback()

	a, err := s.repo.GetForUpdateTx(ctx, tx, auctionID)
	if err != nil {
		return nil, err
	}

	if !a.Closes.After(now) {
		return nil, ErrAuctionClosed
	}

	if bidderID != nil {
		spendable, err := s.ledger.SpendableTx(ctx, tx, *bidderID)
		if err != nil {
			return nil, err
		}
		if a.BidFee > spendable {
			return nil, ErrInsufficientCredits
		}

		dup, err := s.repo.HasBidAtPriceTx(ctx, tx, auctionID, *bidderID, price)
		if err != nil {
			return nil, err
		}
		if dup {
			return nil, ErrDuplicatePrice
		}
	}

	bid := &Bid{
		ID:        uuid.New(),
		AuctionID: auctionID,
		BidderID:  bidderID,
		BidPrice:  price,
		ClientIP:  clientIP,
		CreatedAt: now,
	}

	if err := s.repo.InsertBidTx(ctx, tx, bid); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, ErrInternal
	}

	if bidderID != nil && s.profiles != nil {
		if profile, err := s.profiles.ProfileByID(ctx, *bidderID); err == nil {
			bid.Bidder = profile
		}
	}

	if s.feed != nil {
		s.feed.BidPlaced(a.ID, a.Serial)
	}

	log.Info().
		Str("auction_id", auctionID.String()).
		Int("serial", a.Serial).
		Float64("bid_price", price).
		Bool("house_bid", bidderID == nil).
		Msg("bid admitted")

	return bid, nil
}

// Create validates invariants and claims the submitted serial. The serial must
// equal the next available one; the unique constraint settles concurrent
// creations racing for it.
func (s *Service) Create(ctx context.Context, req *CreateRequest, createdBy uuid.UUID) (*Auction, error) {
	if !req.Closes.After(req.Starts) {
		return nil, ErrInvalidDateRange
	}
	if req.BidblabPrice > req.RetailPrice {
		return nil, ErrInvalidPriceRange
	}

	next, err := s.repo.NextSerial(ctx)
	if err != nil {
		return nil, err
	}
	if req.Serial != next {
		return nil, ErrSerialMismatch
	}

	now := s.now()
	a := &Auction{
		ID:           uuid.New(),
		Serial:       req.Serial,
		Title:        req.Title,
		RetailPrice:  req.RetailPrice,
		BidblabPrice: req.BidblabPrice,
		BidFee:       req.BidFee,
		Starts:       req.Starts,
		Closes:       req.Closes,
		Role:         Classify(now, req.Starts, req.Closes),
		CreatedBy:    createdBy,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	a.Bids = make([]Bid, 0)
	a.Pictures = make([]Picture, 0)

	log.Info().Int("serial", a.Serial).Str("title", a.Title).Msg("auction created")
	return a, nil
}

func (s *Service) NextSerial(ctx context.Context) (int, error) {
	return s.repo.NextSerial(ctx)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) AddPicture(ctx context.Context, auctionID uuid.UUID, url, thumbnailURL string) (*Picture, error) {
	picture := &Picture{
		ID:           uuid.New(),
		AuctionID:    auctionID,
		URL:          url,
		ThumbnailURL: thumbnailURL,
	}
	if err := s.repo.AddPicture(ctx, picture); err != nil {
		return nil, err
	}
	return picture, nil
}
