// Package loyalty implements point accrual, redemption bookkeeping and tier
// membership.
package loyalty

import (
	"math"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"

	"salonpos/models"
)

const defaultMultiplier = 1.0

// DefaultTiers is the stock Silver/Gold/Platinum ladder.
func DefaultTiers() []models.LoyaltyTier {
	return []models.LoyaltyTier{
		{ID: models.TierSilver, Name: "Silver Tier", MinSpend: 0, PointMultiplier: 1.0, Benefits: []string{"Standard Earning Rate", "Birthday Bonus"}},
		{ID: models.TierGold, Name: "Gold Tier", MinSpend: 10000, PointMultiplier: 1.5, Benefits: []string{"1.5x Points per Spend", "5% Off Products", "Priority Booking"}},
		{ID: models.TierPlatinum, Name: "Platinum Tier", MinSpend: 50000, PointMultiplier: 2.0, Benefits: []string{"2x Points per Spend", "10% Off Products", "Free Monthly Spa"}},
	}
}

// SortTiers orders tiers by MinSpend ascending without touching the input.
func SortTiers(tiers []models.LoyaltyTier) []models.LoyaltyTier {
	out := make([]models.LoyaltyTier, len(tiers))
	copy(out, tiers)
	sort.SliceStable(out, func(i, j int) bool { return out[i].MinSpend < out[j].MinSpend })
	return out
}

// TierFor returns the highest tier whose MinSpend the spend meets or exceeds.
// With no qualifying tier the lowest one is returned; with no tiers at all
// the zero value.
func TierFor(tiers []models.LoyaltyTier, spend float64) models.LoyaltyTier {
	sorted := SortTiers(tiers)
	if len(sorted) == 0 {
		return models.LoyaltyTier{}
	}
	best := sorted[0]
	for _, t := range sorted {
		if spend >= t.MinSpend {
			best = t
		}
	}
	return best
}

// Multiplier looks up a tier's point multiplier, falling back to 1.0.
func Multiplier(tiers []models.LoyaltyTier, tierID string) float64 {
	for _, t := range tiers {
		if t.ID == tierID && t.PointMultiplier > 0 {
			return t.PointMultiplier
		}
	}
	return defaultMultiplier
}

// PointsEarned is floor(total/100 * multiplier).
func PointsEarned(total, multiplier float64) int {
	if total <= 0 || multiplier <= 0 {
		return 0
	}
	// guard against 1.5*1000/100 landing on 14.999999
	return int(math.Floor(total/100*multiplier + 1e-9))
}

// Result is the outcome of applying one sale to a customer.
type Result struct {
	Customer     models.Customer
	PointsEarned int
	Redeemed     int
	PreviousTier string
	Entries      []models.LoyaltyTransaction
}

// TierChanged reports whether the sale moved the customer to another tier.
func (r Result) TierChanged() bool {
	return r.PreviousTier != r.Customer.Tier
}

// Accrue applies a finalized sale to the customer. Points are earned at the
// multiplier of the tier held before the sale. Redemption must already be
// clamped to the balance; it is clamped again here so the balance can never
// go negative.
func Accrue(c models.Customer, tiers []models.LoyaltyTier, total float64, redeemed int, billID string, at time.Time) Result {
	if redeemed < 0 {
		redeemed = 0
	}
	if redeemed > c.LoyaltyPoints {
		redeemed = c.LoyaltyPoints
	}

	prevTier := c.Tier
	earned := PointsEarned(total, Multiplier(tiers, c.Tier))

	c.LoyaltyPoints = c.LoyaltyPoints - redeemed + earned
	c.TotalSpend = math.Round((c.TotalSpend+total)*100) / 100
	if t := TierFor(tiers, c.TotalSpend); t.ID != "" {
		c.Tier = t.ID
	}
	date := at.Format(time.DateOnly)
	c.LastVisit = date

	var entries []models.LoyaltyTransaction
	if redeemed > 0 {
		entries = append(entries, models.LoyaltyTransaction{
			ID:           ulid.Make().String(),
			CustomerID:   c.ID,
			CustomerName: c.Name,
			BillID:       billID,
			Type:         models.LoyaltyRedeemed,
			Points:       -redeemed,
			Date:         date,
			CreatedAt:    at,
		})
	}
	if earned > 0 {
		entries = append(entries, models.LoyaltyTransaction{
			ID:           ulid.Make().String(),
			CustomerID:   c.ID,
			CustomerName: c.Name,
			BillID:       billID,
			Type:         models.LoyaltyEarned,
			Points:       earned,
			Date:         date,
			Amount:       total,
			CreatedAt:    at,
		})
	}

	return Result{
		Customer:     c,
		PointsEarned: earned,
		Redeemed:     redeemed,
		PreviousTier: prevTier,
		Entries:      entries,
	}
}

// Adjust applies a manual point correction. The balance is floored at zero
// and the entry records the delta actually applied.
func Adjust(c models.Customer, delta int, reason string, at time.Time) (models.Customer, models.LoyaltyTransaction) {
	if c.LoyaltyPoints+delta < 0 {
		delta = -c.LoyaltyPoints
	}
	c.LoyaltyPoints += delta
	return c, models.LoyaltyTransaction{
		ID:           ulid.Make().String(),
		CustomerID:   c.ID,
		CustomerName: c.Name,
		Type:         models.LoyaltyAdjusted,
		Points:       delta,
		Date:         at.Format(time.DateOnly),
		Reason:       reason,
		CreatedAt:    at,
	}
}
