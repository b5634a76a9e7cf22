package auction

import "github.com/google/uuid"

// RankBids recomputes every bid's status bits against the complete bid set and
// returns the unique highest-priced bid among non-duplicated prices, or nil
// when every price is duplicated. Pure function of the bid multiset: scan
// order never changes the marks.
func RankBids(bids []Bid) *Bid {
	for i := range bids {
		bids[i].Status = 0
	}

	for i := range bids {
		for j := range bids {
			if i != j && bids[i].BidPrice == bids[j].BidPrice {
				bids[i].Status |= BidDuplicated
				break
			}
		}
	}

	var max *Bid
	for i := range bids {
		if bids[i].Status&BidDuplicated != 0 {
			continue
		}
		if max == nil || bids[i].BidPrice > max.BidPrice {
			max = &bids[i]
		}
	}

	if max != nil {
		max.Status |= BidUniqueMax
	}
	return max
}

// Rank annotates an auction with derived bid metadata. Must run before any
// viewer scoping so the marks reflect the full bid set.
func Rank(a *Auction) {
	a.MaxUniqueBid = RankBids(a.Bids)
}

// ScopeToViewer filters an open auction's bids down to the viewer's own, so
// competitors' amounts never leak before close. The auction owner sees
// everything; once closed the full ranked list is public. Always call Rank
// first: marks computed on a filtered view would be wrong.
func ScopeToViewer(a *Auction, viewerID uuid.UUID) {
	if a.Role == RoleClosed || a.CreatedBy == viewerID {
		return
	}

	own := make([]Bid, 0, len(a.Bids))
	for _, b := range a.Bids {
		if b.BidderID != nil && *b.BidderID == viewerID {
			own = append(own, b)
		}
	}
	a.Bids = own

	if a.MaxUniqueBid != nil {
		if a.MaxUniqueBid.BidderID == nil || *a.MaxUniqueBid.BidderID != viewerID {
			a.MaxUniqueBid = nil
		}
	}
}
