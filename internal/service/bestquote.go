package service

import (
	"qr-settlement-gateway/internal/core/domain"
)

// BestQuote folds a set of per-source quotes into the single winning quote.
// The policy is numeric maximum across sources, which favors the merchant
// receiving crypto, with one carve-out: a retail aggregator quote carrying a
// sell rate is promoted to that sell rate when it beats the running best.
// Unusable quotes are skipped. The fold is commutative over the successful
// set, so callers may collect quotes concurrently in any order.
func BestQuote(quotes []domain.Quote) (domain.Quote, bool) {
	var best domain.Quote
	found := false

	for _, q := range quotes {
		if !q.Usable() {
			continue
		}

		candidate := q
		if q.Source == domain.SourceCriptoYa && q.Sell > 0 {
			bestPrice := 0.0
			if found {
				bestPrice = best.Price
			}
			if q.Sell > bestPrice && q.Sell > candidate.Price {
				candidate.Price = q.Sell
			}
		}

		if !found || candidate.Price > best.Price {
			best = candidate
			found = true
		}
	}

	return best, found
}
