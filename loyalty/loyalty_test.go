package loyalty

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"salonpos/models"
)

var saleTime = time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)

func TestTierFor(t *testing.T) {
	tiers := DefaultTiers()

	require.Equal(t, models.TierSilver, TierFor(tiers, 0).ID)
	require.Equal(t, models.TierSilver, TierFor(tiers, 9999.99).ID)
	require.Equal(t, models.TierGold, TierFor(tiers, 10000).ID)
	require.Equal(t, models.TierGold, TierFor(tiers, 49999).ID)
	require.Equal(t, models.TierPlatinum, TierFor(tiers, 50000).ID)
	require.Empty(t, TierFor(nil, 100).ID)
}

func TestTierForIgnoresInputOrder(t *testing.T) {
	tiers := DefaultTiers()
	reversed := []models.LoyaltyTier{tiers[2], tiers[0], tiers[1]}

	require.Equal(t, models.TierGold, TierFor(reversed, 12000).ID)
	require.Equal(t, models.TierPlatinum, reversed[0].ID, "input slice must not be reordered")
}

func TestMultiplierFallsBackToOne(t *testing.T) {
	tiers := DefaultTiers()
	require.Equal(t, 1.5, Multiplier(tiers, models.TierGold))
	require.Equal(t, 1.0, Multiplier(tiers, "Diamond"))
}

func TestPointsEarned(t *testing.T) {
	require.Equal(t, 5, PointsEarned(590, 1.0))
	require.Equal(t, 15, PointsEarned(1000, 1.5))
	require.Equal(t, 41, PointsEarned(2065, 2.0))
	require.Equal(t, 0, PointsEarned(99.99, 1.0))
	require.Equal(t, 0, PointsEarned(-10, 1.0))
}

func TestAccrueCrossesIntoGold(t *testing.T) {
	c := models.Customer{ID: "c1", Name: "Vikram Singh", LoyaltyPoints: 10, TotalSpend: 9800, Tier: models.TierSilver}

	res := Accrue(c, DefaultTiers(), 400, 0, "bill-1", saleTime)

	require.Equal(t, models.TierGold, res.Customer.Tier)
	require.True(t, res.TierChanged())
	require.Equal(t, 10200.0, res.Customer.TotalSpend)
	// earned at the Silver multiplier held before the sale
	require.Equal(t, 4, res.PointsEarned)
	require.Equal(t, 14, res.Customer.LoyaltyPoints)
	require.Equal(t, "2024-03-09", res.Customer.LastVisit)
}

func TestAccrueEmitsRedeemedAndEarnedEntries(t *testing.T) {
	c := models.Customer{ID: "c2", Name: "Priya Sharma", LoyaltyPoints: 50, TotalSpend: 12000, Tier: models.TierGold}

	res := Accrue(c, DefaultTiers(), 2065, 50, "bill-2", saleTime)

	require.Equal(t, 30, res.PointsEarned)
	require.Equal(t, 30, res.Customer.LoyaltyPoints)
	require.Len(t, res.Entries, 2)

	redeemed, earned := res.Entries[0], res.Entries[1]
	require.Equal(t, models.LoyaltyRedeemed, redeemed.Type)
	require.Equal(t, -50, redeemed.Points)
	require.Zero(t, redeemed.Amount)
	require.Equal(t, models.LoyaltyEarned, earned.Type)
	require.Equal(t, 30, earned.Points)
	require.Equal(t, 2065.0, earned.Amount)
	for _, e := range res.Entries {
		require.Equal(t, "bill-2", e.BillID)
		require.Equal(t, "2024-03-09", e.Date)
		require.NotEmpty(t, e.ID)
	}
	require.NotEqual(t, redeemed.ID, earned.ID)
}

func TestAccrueSkipsZeroEntries(t *testing.T) {
	c := models.Customer{ID: "c3", Tier: models.TierSilver}

	res := Accrue(c, DefaultTiers(), 50, 0, "bill-3", saleTime)

	require.Empty(t, res.Entries)
	require.Zero(t, res.Customer.LoyaltyPoints)
	require.Equal(t, 50.0, res.Customer.TotalSpend)
}

func TestAccrueNeverGoesNegative(t *testing.T) {
	c := models.Customer{ID: "c4", LoyaltyPoints: 20, Tier: models.TierSilver}

	res := Accrue(c, DefaultTiers(), 0, 500, "bill-4", saleTime)

	require.Equal(t, 20, res.Redeemed)
	require.Zero(t, res.Customer.LoyaltyPoints)
}

func TestAdjust(t *testing.T) {
	c := models.Customer{ID: "c5", Name: "Rahul Verma", LoyaltyPoints: 30}

	c, entry := Adjust(c, 25, "goodwill", saleTime)
	require.Equal(t, 55, c.LoyaltyPoints)
	require.Equal(t, 25, entry.Points)
	require.Equal(t, models.LoyaltyAdjusted, entry.Type)

	c, entry = Adjust(c, -100, "correction", saleTime)
	require.Zero(t, c.LoyaltyPoints)
	require.Equal(t, -55, entry.Points)
}
