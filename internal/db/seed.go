package db

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Seed inserts demo data into the decision engine database: one active
// organization with a site and two ad units, campaigns covering every bid
// strategy, active ads with targeting, a handful of pending ad requests
// and thirty days of campaign history for the advisor.
func Seed(ctx context.Context, db *pgxpool.Pool) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	_, err := db.Exec(ctx, `INSERT INTO organizations (id, name, status)
VALUES (1, 'Demo Advertiser', 'active') ON CONFLICT DO NOTHING`)
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, `INSERT INTO sites (id, org_id, name, domain, status)
VALUES (1, 1, 'Demo Publisher', 'demo.example.com', 'active') ON CONFLICT DO NOTHING`)
	if err != nil {
		return err
	}
	adUnits := []struct {
		id     int
		name   string
		format string
		size   string
	}{
		{1, "Homepage Leaderboard", "banner", "728x90"},
		{2, "Article Sidebar", "banner", "300x250"},
	}
	for _, u := range adUnits {
		_, err = db.Exec(ctx, `INSERT INTO ad_units (id, site_id, name, format, size)
VALUES ($1, 1, $2, $3, $4) ON CONFLICT DO NOTHING`, u.id, u.name, u.format, u.size)
		if err != nil {
			return err
		}
	}

	strategies := []string{"manual", "auto_cpc", "auto_cpm", "target_cpa", "predictive", "ai_optimized"}
	start := time.Now().AddDate(0, 0, -31)
	end := time.Now().AddDate(0, 1, 0)
	for i := 1; i <= len(strategies); i++ {
		name := fmt.Sprintf("Campaign %d (%s)", i, strategies[i-1])
		_, err = db.Exec(ctx, `INSERT INTO campaigns
    (id, org_id, name, status, bid_strategy, target_cpc, target_cpm, target_cpa,
     max_bid, daily_budget, total_budget, start_date, end_date, created_at, updated_at)
VALUES ($1, 1, $2, 'active', $3, $4, $5, $6, $7, 100000, 500000, $8, $9, now(), now())
ON CONFLICT DO NOTHING`,
			i, name, strategies[i-1],
			100+r.Intn(200),   // target_cpc cents
			800+r.Intn(1200),  // target_cpm cents
			2000+r.Intn(3000), // target_cpa cents
			150+r.Intn(300),   // max_bid cents
			start, end)
		if err != nil {
			return err
		}

		// two ads per campaign with overlapping targeting
		for j := 1; j <= 2; j++ {
			adID := (i-1)*2 + j
			targeting := map[string]any{
				"geos":      []string{"US", "US-CA", "DE"}[:1+r.Intn(3)],
				"devices":   []string{"mobile", "desktop"},
				"interests": []string{"tech", "music", "sports"}[:1+r.Intn(3)],
				"formats":   []string{"banner"},
				"sizes":     []string{"728x90", "300x250"},
			}
			tgtJSON, _ := json.Marshal(targeting)
			_, err = db.Exec(ctx, `INSERT INTO ads
    (id, campaign_id, org_id, status, title, creative_type, creative_url,
     landing_url, targeting, weight, impressions, clicks, conversions, created_at, updated_at)
VALUES ($1, $2, 1, 'active', $3, 'banner', $4, $5, $6, 1, $7, $8, $9, now() - interval '10 days', now())
ON CONFLICT DO NOTHING`,
				adID, i, fmt.Sprintf("Creative %d for campaign %d", j, i),
				fmt.Sprintf("https://cdn.example.com/creative/%d.png", adID),
				fmt.Sprintf("https://example.com/landing/%d", adID),
				tgtJSON,
				int64(r.Intn(50000)), int64(r.Intn(500)), int64(r.Intn(50)))
			if err != nil {
				return err
			}
		}

		// thirty days of history for the advisor
		for d := 0; d < 30; d++ {
			day := time.Now().AddDate(0, 0, -d)
			auctions := int64(50 + r.Intn(200))
			wins := int64(r.Intn(int(auctions) + 1))
			_, err = db.Exec(ctx, `INSERT INTO campaign_daily_stats
    (campaign_id, day, auctions, wins, impressions, clicks, conversions, cap_rejections, spend)
VALUES ($1, $2::date, $3, $4, $4, $5, $6, $7, $8) ON CONFLICT DO NOTHING`,
				i, day, auctions, wins, r.Intn(20), r.Intn(5), r.Intn(10), wins*int64(50+r.Intn(100)))
			if err != nil {
				return err
			}
		}
	}

	// pending requests ready to auction
	for i := 0; i < 10; i++ {
		rc := map[string]any{
			"user_id":   fmt.Sprintf("user-%d", 1+r.Intn(3)),
			"geo":       []string{"US", "US-CA", "DE", "FR"}[r.Intn(4)],
			"device":    []string{"mobile", "tablet", "desktop"}[r.Intn(3)],
			"interests": []string{"tech", "music"},
		}
		rcJSON, _ := json.Marshal(rc)
		_, err = db.Exec(ctx, `INSERT INTO ad_requests (id, org_id, site_id, ad_unit_id, context, status, created_at)
VALUES ($1, 1, 1, $2, $3, 'pending', now()) ON CONFLICT DO NOTHING`,
			uuid.New(), 1+r.Intn(2), rcJSON)
		if err != nil {
			return err
		}
	}
	return nil
}
