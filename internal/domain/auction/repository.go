package auction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const queryTimeout = 3 * time.Second

// Filter narrows auction listings.
type Filter struct {
	Role *Role
}

// Pagination for listing
type Pagination struct {
	Offset int
	Limit  int
}

// Repository defines auction data access.
type Repository interface {
	Create(ctx context.Context, a *Auction) error
	GetByID(ctx context.Context, id uuid.UUID) (*Auction, error)
	List(ctx context.Context, filter *Filter, pagination *Pagination) ([]*Auction, int, error)
	Delete(ctx context.Context, id uuid.UUID) error

	NextSerial(ctx context.Context) (int, error)
	ReclassifyAll(ctx context.Context, now time.Time) error

	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*Auction, error)
	HasBidAtPriceTx(ctx context.Context, tx *sqlx.Tx, auctionID, bidderID uuid.UUID, price float64) (bool, error)
	InsertBidTx(ctx context.Context, tx *sqlx.Tx, bid *Bid) error

	AddPicture(ctx context.Context, picture *Picture) error
}

type repository struct {
	db *sqlx.DB
}

const auctionSelectColumns = `
	id, serial, title, retail_price, bidblab_price, bid_fee,
	starts, closes, role, created_by, created_at, updated_at
`

// NewRepository creates new auction repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Auction) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		INSERT INTO auctions (
			id, serial, title, retail_price, bidblab_price, bid_fee,
			starts, closes, role, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		a.ID, a.Serial, a.Title, a.RetailPrice, a.BidblabPrice, a.BidFee,
		a.Starts, a.Closes, a.Role, a.CreatedBy,
	)
	if err != nil {
		log.Error().
			Str("query", "auctions.create").
			Int("serial", a.Serial).
			Err(err).
			Msg("auction insert failed")
		return mapCreateDBError(err)
	}

	return nil
}

func mapCreateDBError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return fmt.Errorf("%w: create auction", ErrInternal)
	}

	constraint := strings.ToLower(pqErr.Constraint)
	switch pqErr.Code {
	case "23505":
		if strings.Contains(constraint, "serial") {
			return ErrSerialTaken
		}
	case "23514":
		switch {
		case strings.Contains(constraint, "price_range"):
			return fmt.Errorf("%w: %w", ErrInvalidPriceRange, err)
		case strings.Contains(constraint, "date_range"):
			return fmt.Errorf("%w: %w", ErrInvalidDateRange, err)
		}
	}

	return fmt.Errorf("%w: create auction", ErrInternal)
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Auction, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var a Auction
	err := r.db.GetContext(ctx2, &a, `
		SELECT `+auctionSelectColumns+`
		FROM auctions
		WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: get auction", ErrInternal)
	}

	if err := r.attachChildren(ctx2, []*Auction{&a}); err != nil {
		return nil, err
	}

	return &a, nil
}

func (r *repository) List(ctx context.Context, filter *Filter, pagination *Pagination) ([]*Auction, int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	where := ""
	args := make([]interface{}, 0, 3)
	if filter != nil && filter.Role != nil {
		where = " WHERE role & $1 != 0"
		args = append(args, *filter.Role)
	}

	var total int
	if err := r.db.GetContext(ctx2, &total, `SELECT COUNT(*) FROM auctions`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("%w: count auctions", ErrInternal)
	}

	limit := 20
	offset := 0
	if pagination != nil {
		if pagination.Limit > 0 {
			limit = pagination.Limit
		}
		if pagination.Offset > 0 {
			offset = pagination.Offset
		}
	}

	query := `SELECT ` + auctionSelectColumns + ` FROM auctions` + where +
		fmt.Sprintf(" ORDER BY serial DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	auctions := make([]*Auction, 0)
	if err := r.db.SelectContext(ctx2, &auctions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("%w: list auctions", ErrInternal)
	}

	if err := r.attachChildren(ctx2, auctions); err != nil {
		return nil, 0, err
	}

	return auctions, total, nil
}

// attachChildren loads bids (with bidder profiles) and pictures for a page of auctions.
func (r *repository) attachChildren(ctx context.Context, auctions []*Auction) error {
	if len(auctions) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(auctions))
	byID := make(map[uuid.UUID]*Auction, len(auctions))
	for _, a := range auctions {
		ids = append(ids, a.ID)
		byID[a.ID] = a
		a.Bids = make([]Bid, 0)
		a.Pictures = make([]Picture, 0)
	}

	type bidRow struct {
		Bid
		BidderName *string `db:"bidder_name"`
	}

	var bidRows []bidRow
	err := r.db.SelectContext(ctx, &bidRows, `
		SELECT b.id, b.auction_id, b.bidder_id, b.bid_price, b.client_ip, b.created_at,
		       u.name AS bidder_name
		FROM bids b
		LEFT JOIN users u ON u.id = b.bidder_id
		WHERE b.auction_id = ANY($1)
		ORDER BY b.created_at ASC
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("%w: load bids", ErrInternal)
	}

	for _, row := range bidRows {
		bid := row.Bid
		if bid.BidderID != nil && row.BidderName != nil {
			bid.Bidder = &BidderProfile{ID: *bid.BidderID, Name: *row.BidderName}
		}
		a := byID[bid.AuctionID]
		a.Bids = append(a.Bids, bid)
	}

	var pictures []Picture
	err = r.db.SelectContext(ctx, &pictures, `
		SELECT id, auction_id, url, thumbnail_url, created_at
		FROM auction_pictures
		WHERE auction_id = ANY($1)
		ORDER BY created_at ASC
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("%w: load pictures", ErrInternal)
	}

	for _, p := range pictures {
		a := byID[p.AuctionID]
		a.Pictures = append(a.Pictures, p)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx2, `DELETE FROM auctions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: delete auction", ErrInternal)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected", ErrInternal)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// NextSerial peeks the next available serial. Advisory only: nothing is
// reserved until creation, where the unique constraint settles races.
func (r *repository) NextSerial(ctx context.Context) (int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var next int
	err := r.db.GetContext(ctx2, &next, `SELECT COALESCE(MAX(serial), 0) + 1 FROM auctions`)
	if err != nil {
		return 0, fmt.Errorf("%w: next serial", ErrInternal)
	}

	return next, nil
}

// ReclassifyAll rewrites every auction's role from the clock. Idempotent and
// commutative across concurrent callers; runs before any role-filtered query.
func (r *repository) ReclassifyAll(ctx context.Context, now time.Time) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		UPDATE auctions SET role = CASE
			WHEN $1 < starts THEN $2
			WHEN $1 < closes THEN $3
			ELSE $4
		END
	`, now, RolePending, RoleProcessing, RoleClosed)
	if err != nil {
		return fmt.Errorf("%w: reclassify auctions", ErrInternal)
	}

	return nil
}

// GetForUpdateTx locks the auction row for the duration of the caller's
// transaction, serializing bid admission per auction.
func (r *repository) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*Auction, error) {
	var a Auction
	err := tx.GetContext(ctx, &a, `
		SELECT `+auctionSelectColumns+`
		FROM auctions
		WHERE id = $1
		FOR UPDATE
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: lock auction row", ErrInternal)
	}

	return &a, nil
}

func (r *repository) HasBidAtPriceTx(ctx context.Context, tx *sqlx.Tx, auctionID, bidderID uuid.UUID, price float64) (bool, error) {
	var exists bool
	err := tx.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM bids
			WHERE auction_id = $1 AND bidder_id = $2 AND bid_price = $3
		)
	`, auctionID, bidderID, price)
	if err != nil {
		return false, fmt.Errorf("%w: check duplicate price", ErrInternal)
	}

	return exists, nil
}

func (r *repository) InsertBidTx(ctx context.Context, tx *sqlx.Tx, bid *Bid) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO bids (id, auction_id, bidder_id, bid_price, client_ip, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, bid.ID, bid.AuctionID, bid.BidderID, bid.BidPrice, bid.ClientIP, bid.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: insert bid", ErrInternal)
	}

	return nil
}

func (r *repository) AddPicture(ctx context.Context, picture *Picture) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		INSERT INTO auction_pictures (id, auction_id, url, thumbnail_url)
		VALUES ($1, $2, $3, $4)
	`, picture.ID, picture.AuctionID, picture.URL, picture.ThumbnailURL)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrNotFound
		}
		return fmt.Errorf("%w: add picture", ErrInternal)
	}

	return nil
}
