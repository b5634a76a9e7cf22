package auction_test

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bidblab/bidblab-api/internal/domain/auction"
)

func bidAt(price float64) auction.Bid {
	bidder := uuid.New()
	return auction.Bid{
		ID:       uuid.New(),
		BidderID: &bidder,
		BidPrice: price,
	}
}

func bidBy(bidder uuid.UUID, price float64) auction.Bid {
	return auction.Bid{
		ID:       uuid.New(),
		BidderID: &bidder,
		BidPrice: price,
	}
}

// A duplicated higher pair loses to a lower unique price. Unique outranks
// raw amount.
func TestRankBidsUniqueOutranksHigherDuplicates(t *testing.T) {
	bids := []auction.Bid{bidAt(10), bidAt(10), bidAt(8)}

	max := auction.RankBids(bids)

	if bids[0].Status&auction.BidDuplicated == 0 || bids[1].Status&auction.BidDuplicated == 0 {
		t.Error("both bids at 10 should carry the duplicated bit")
	}
	if bids[0].Status&auction.BidUniqueMax != 0 || bids[1].Status&auction.BidUniqueMax != 0 {
		t.Error("duplicated bids must never carry the unique-max bit")
	}
	if bids[2].Status&auction.BidDuplicated != 0 {
		t.Error("the bid at 8 is not duplicated")
	}
	if max == nil || max.BidPrice != 8 {
		t.Fatalf("expected max unique bid at 8, got %+v", max)
	}
	if max.Status&auction.BidUniqueMax == 0 {
		t.Error("max unique bid should carry the unique-max bit")
	}
}

func TestRankBidsAllDuplicated(t *testing.T) {
	bids := []auction.Bid{bidAt(5), bidAt(5), bidAt(7), bidAt(7)}

	if max := auction.RankBids(bids); max != nil {
		t.Fatalf("expected no max unique bid, got price %v", max.BidPrice)
	}
	for i, b := range bids {
		if b.Status&auction.BidDuplicated == 0 {
			t.Errorf("bid %d should be duplicated", i)
		}
		if b.Status&auction.BidUniqueMax != 0 {
			t.Errorf("bid %d must not be unique max", i)
		}
	}
}

func TestRankBidsSingleBid(t *testing.T) {
	bids := []auction.Bid{bidAt(3)}

	max := auction.RankBids(bids)
	if max == nil || max.BidPrice != 3 {
		t.Fatalf("a lone bid is the unique max, got %+v", max)
	}
	if bids[0].Status != auction.BidUniqueMax {
		t.Fatalf("expected status %d, got %d", auction.BidUniqueMax, bids[0].Status)
	}
}

func TestRankBidsEmpty(t *testing.T) {
	if max := auction.RankBids(nil); max != nil {
		t.Fatalf("expected nil for no bids, got %+v", max)
	}
}

// Unique-max is set on at most one bid, and marks are a pure function of the
// bid multiset regardless of slice order.
func TestRankBidsOrderInsensitive(t *testing.T) {
	forward := []auction.Bid{bidAt(10), bidAt(10), bidAt(8), bidAt(6)}
	reversed := []auction.Bid{forward[3], forward[2], forward[1], forward[0]}

	maxForward := auction.RankBids(forward)
	maxReversed := auction.RankBids(reversed)

	if maxForward == nil || maxReversed == nil {
		t.Fatal("expected a unique max in both orders")
	}
	if maxForward.BidPrice != maxReversed.BidPrice {
		t.Fatalf("order changed the result: %v vs %v", maxForward.BidPrice, maxReversed.BidPrice)
	}

	uniqueMaxCount := 0
	for _, b := range forward {
		if b.Status&auction.BidUniqueMax != 0 {
			uniqueMaxCount++
		}
	}
	if uniqueMaxCount != 1 {
		t.Fatalf("expected exactly one unique-max bid, got %d", uniqueMaxCount)
	}
}

func TestScopeToViewerHidesCompetitorBidsWhileOpen(t *testing.T) {
	viewer := uuid.New()
	rival := uuid.New()
	owner := uuid.New()

	a := &auction.Auction{
		Role:      auction.RoleProcessing,
		CreatedBy: owner,
		Closes:    time.Now().Add(time.Hour),
		Bids:      []auction.Bid{bidBy(viewer, 4), bidBy(rival, 9), bidBy(viewer, 6)},
	}

	auction.Rank(a)
	auction.ScopeToViewer(a, viewer)

	if len(a.Bids) != 2 {
		t.Fatalf("expected only the viewer's 2 bids, got %d", len(a.Bids))
	}
	for _, b := range a.Bids {
		if b.BidderID == nil || *b.BidderID != viewer {
			t.Fatalf("leaked a competitor bid: %+v", b)
		}
	}
	if a.MaxUniqueBid != nil {
		t.Fatal("rival's max unique bid must not leak before close")
	}
}

func TestScopeToViewerClosedAuctionIsPublic(t *testing.T) {
	viewer := uuid.New()
	rival := uuid.New()

	a := &auction.Auction{
		Role:      auction.RoleClosed,
		CreatedBy: uuid.New(),
		Bids:      []auction.Bid{bidBy(viewer, 4), bidBy(rival, 9)},
	}

	auction.Rank(a)
	auction.ScopeToViewer(a, viewer)

	if len(a.Bids) != 2 {
		t.Fatalf("closed auction should expose all bids, got %d", len(a.Bids))
	}
	if a.MaxUniqueBid == nil || a.MaxUniqueBid.BidPrice != 9 {
		t.Fatalf("expected public max unique bid at 9, got %+v", a.MaxUniqueBid)
	}
}

func TestScopeToViewerOwnerSeesEverything(t *testing.T) {
	owner := uuid.New()

	a := &auction.Auction{
		Role:      auction.RoleProcessing,
		CreatedBy: owner,
		Bids:      []auction.Bid{bidAt(4), bidAt(9)},
	}

	auction.Rank(a)
	auction.ScopeToViewer(a, owner)

	if len(a.Bids) != 2 {
		t.Fatalf("owner should see all bids, got %d", len(a.Bids))
	}
}

// Ranking runs against the complete bid set before scoping; a partial view
// must not influence the marks the viewer's own bids carry.
func TestScopeAfterRankKeepsGlobalMarks(t *testing.T) {
	viewer := uuid.New()
	rival := uuid.New()

	a := &auction.Auction{
		Role:      auction.RoleProcessing,
		CreatedBy: uuid.New(),
		Bids:      []auction.Bid{bidBy(viewer, 10), bidBy(rival, 10)},
	}

	auction.Rank(a)
	auction.ScopeToViewer(a, viewer)

	if len(a.Bids) != 1 {
		t.Fatalf("expected the viewer's single bid, got %d", len(a.Bids))
	}
	if a.Bids[0].Status&auction.BidDuplicated == 0 {
		t.Fatal("the viewer's bid is duplicated by a hidden rival bid and must say so")
	}
}
