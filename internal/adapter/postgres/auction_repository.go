package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"adengine/internal/core/domain"
	"adengine/internal/core/port"
	"adengine/internal/errortypes"
)

// AuctionRepository implements port.AuctionRepository using pgxpool for
// PostgreSQL. Every operation is bounded by the configured query timeout:
// ad serving is latency-sensitive and a slow store is a failed auction.
type AuctionRepository struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewAuctionRepository returns a new repository instance.
func NewAuctionRepository(pool *pgxpool.Pool, timeout time.Duration) *AuctionRepository {
	return &AuctionRepository{pool: pool, timeout: timeout}
}

func (r *AuctionRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

// GetAdRequest returns the request by id, or nil when it does not exist.
func (r *AuctionRepository) GetAdRequest(ctx context.Context, id uuid.UUID) (*domain.AdRequest, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var (
		req        domain.AdRequest
		contextRaw []byte
	)
	err := r.pool.QueryRow(ctx, `
        SELECT id, org_id, site_id, ad_unit_id, context, status,
               winning_ad_id, winning_bid, clearing_price, participants,
               created_at, served_at
        FROM ad_requests WHERE id = $1`, id).
		Scan(&req.ID, &req.OrgID, &req.SiteID, &req.AdUnitID, &contextRaw, &req.Status,
			&req.WinningAdID, &req.WinningBid, &req.ClearingPrice, &req.Participants,
			&req.CreatedAt, &req.ServedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err = json.Unmarshal(contextRaw, &req.Context); err != nil {
		return nil, err
	}
	return &req, nil
}

// CreateAdRequest inserts a new pending request.
func (r *AuctionRepository) CreateAdRequest(ctx context.Context, req *domain.AdRequest) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	contextRaw, err := json.Marshal(req.Context)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
        INSERT INTO ad_requests (id, org_id, site_id, ad_unit_id, context, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		req.ID, req.OrgID, req.SiteID, req.AdUnitID, contextRaw, req.Status, req.CreatedAt)
	return err
}

// GetAdUnit returns the placement definition, or nil when unknown.
func (r *AuctionRepository) GetAdUnit(ctx context.Context, id int64) (*domain.AdUnit, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var unit domain.AdUnit
	err := r.pool.QueryRow(ctx, `
        SELECT id, site_id, name, format, size FROM ad_units WHERE id = $1`, id).
		Scan(&unit.ID, &unit.SiteID, &unit.Name, &unit.Format, &unit.Size)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

// GetEligibleAds returns active ads of active campaigns of active
// organizations whose schedule covers "now". Hard format/size and
// exclusion filtering happens in the engine, where the rules live next to
// the scorer that shares their vocabulary.
func (r *AuctionRepository) GetEligibleAds(ctx context.Context, unit domain.AdUnit) ([]port.AdCandidate, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.pool.Query(ctx, `
        SELECT
            a.id, a.campaign_id, a.org_id, a.status, a.title,
            a.creative_type, a.creative_url, a.landing_url, a.targeting,
            a.weight, a.impressions, a.clicks, a.conversions,
            a.created_at, a.updated_at,
            c.id, c.org_id, c.name, c.status, c.bid_strategy,
            c.target_cpc, c.target_cpm, c.target_cpa, c.max_bid,
            c.daily_budget, c.total_budget, c.frequency_caps,
            c.start_date, c.end_date, c.created_at, c.updated_at
        FROM ads a
        JOIN campaigns c ON a.campaign_id = c.id
        JOIN organizations o ON c.org_id = o.id
        WHERE a.status = 'active'
          AND c.status = 'active'
          AND o.status = 'active'
          AND now() BETWEEN c.start_date AND c.end_date`)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (port.AdCandidate, error) {
		var (
			cand         port.AdCandidate
			targetingRaw []byte
			capsRaw      []byte
		)
		err := row.Scan(
			&cand.Ad.ID, &cand.Ad.CampaignID, &cand.Ad.OrgID, &cand.Ad.Status, &cand.Ad.Title,
			&cand.Ad.CreativeType, &cand.Ad.CreativeURL, &cand.Ad.LandingURL, &targetingRaw,
			&cand.Ad.Weight, &cand.Ad.Impressions, &cand.Ad.Clicks, &cand.Ad.Conversions,
			&cand.Ad.CreatedAt, &cand.Ad.UpdatedAt,
			&cand.Campaign.ID, &cand.Campaign.OrgID, &cand.Campaign.Name, &cand.Campaign.Status,
			&cand.Campaign.BidStrategy,
			&cand.Campaign.TargetCPC, &cand.Campaign.TargetCPM, &cand.Campaign.TargetCPA,
			&cand.Campaign.MaxBid,
			&cand.Campaign.DailyBudget, &cand.Campaign.TotalBudget, &capsRaw,
			&cand.Campaign.StartDate, &cand.Campaign.EndDate,
			&cand.Campaign.CreatedAt, &cand.Campaign.UpdatedAt,
		)
		if err != nil {
			return cand, err
		}
		// Malformed targeting means "no constraint", not a dropped
		// candidate.
		if len(targetingRaw) > 0 {
			_ = json.Unmarshal(targetingRaw, &cand.Ad.Targeting)
		}
		if len(capsRaw) > 0 {
			cand.Campaign.FrequencyCaps = decodeCaps(capsRaw)
		}
		return cand, nil
	})
}

// storedCap is the JSONB shape of a per-campaign frequency cap override.
type storedCap struct {
	Limit         int64 `json:"limit"`
	WindowSeconds int64 `json:"window_seconds"`
}

func decodeCaps(raw []byte) map[domain.EventType]domain.FrequencyCap {
	var stored map[domain.EventType]storedCap
	if err := json.Unmarshal(raw, &stored); err != nil || len(stored) == 0 {
		return nil
	}
	caps := make(map[domain.EventType]domain.FrequencyCap, len(stored))
	for et, sc := range stored {
		caps[et] = domain.FrequencyCap{
			Limit:  sc.Limit,
			Window: time.Duration(sc.WindowSeconds) * time.Second,
		}
	}
	return caps
}

// CommitOutcome finalizes one auction exactly once. The status update is
// guarded on the pending state, so a concurrent or repeated commit for
// the same request hits zero rows and reports InvalidInput instead of
// double-serving. Winner counters, the audit record and daily earnings
// ride in the same transaction.
func (r *AuctionRepository) CommitOutcome(ctx context.Context, out domain.AuctionOutcome, siteID int64) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	status := domain.RequestFailed
	if out.WinnerAdID != nil {
		status = domain.RequestServed
	}

	ct, err := tx.Exec(ctx, `
        UPDATE ad_requests
        SET status = $2, winning_ad_id = $3, winning_bid = $4,
            clearing_price = $5, participants = $6, served_at = $7
        WHERE id = $1 AND status = 'pending'`,
		out.RequestID, status, out.WinnerAdID, out.WinningBid,
		out.ClearingPrice, out.Participants, out.CreatedAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		err = &errortypes.InvalidInput{Message: "ad request is no longer pending"}
		return err
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO auction_outcomes (request_id, winner_ad_id, winning_bid, clearing_price, participants, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		out.RequestID, out.WinnerAdID, out.WinningBid, out.ClearingPrice, out.Participants, out.CreatedAt)
	if err != nil {
		return err
	}

	if out.WinnerAdID == nil {
		return nil
	}

	_, err = tx.Exec(ctx, `
        UPDATE ads SET impressions = impressions + 1, updated_at = now()
        WHERE id = $1`, *out.WinnerAdID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO daily_earnings (site_id, day, revenue, impressions)
        VALUES ($1, $2::date, $3, 1)
        ON CONFLICT (site_id, day) DO UPDATE
        SET revenue = daily_earnings.revenue + EXCLUDED.revenue,
            impressions = daily_earnings.impressions + 1`,
		siteID, out.CreatedAt, out.ClearingPrice)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO campaign_daily_stats (campaign_id, day, auctions, wins, impressions, spend)
        SELECT a.campaign_id, $2::date, 1, 1, 1, $3 FROM ads a WHERE a.id = $1
        ON CONFLICT (campaign_id, day) DO UPDATE
        SET auctions = campaign_daily_stats.auctions + 1,
            wins = campaign_daily_stats.wins + 1,
            impressions = campaign_daily_stats.impressions + 1,
            spend = campaign_daily_stats.spend + EXCLUDED.spend`,
		*out.WinnerAdID, out.CreatedAt, out.ClearingPrice)
	return err
}

// GetStats aggregates auction outcomes over a period.
func (r *AuctionRepository) GetStats(ctx context.Context, req port.StatsReq) (*port.StatsResp, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
        SELECT COALESCE(count(*), 0),
               COALESCE(count(o.winner_ad_id), 0),
               COALESCE(sum(o.clearing_price) FILTER (WHERE o.winner_ad_id IS NOT NULL), 0),
               COALESCE(sum(o.participants), 0)
        FROM auction_outcomes o
        JOIN ad_requests r ON r.id = o.request_id
        WHERE o.created_at >= $1 AND o.created_at <= $2`
	args := []any{req.From, req.To}
	if req.SiteID != nil {
		query += " AND r.site_id = $3"
		args = append(args, *req.SiteID)
	}

	var resp port.StatsResp
	err := r.pool.QueryRow(ctx, query, args...).
		Scan(&resp.Auctions, &resp.Served, &resp.Revenue, &resp.Participants)
	if err != nil {
		return nil, err
	}
	resp.Failed = resp.Auctions - resp.Served
	if resp.Served > 0 {
		resp.AvgClearing = resp.Revenue / domain.Money(resp.Served)
	}
	return &resp, nil
}

// GetCampaignHistory returns per-day serving snapshots for the advisor.
func (r *AuctionRepository) GetCampaignHistory(ctx context.Context, campaignID int64, from, to time.Time) ([]domain.PerformanceSnapshot, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.pool.Query(ctx, `
        SELECT s.campaign_id, s.day, s.auctions, s.wins, s.impressions,
               s.clicks, s.conversions, s.cap_rejections, s.spend, c.target_cpa
        FROM campaign_daily_stats s
        JOIN campaigns c ON c.id = s.campaign_id
        WHERE s.campaign_id = $1 AND s.day >= $2::date AND s.day <= $3::date
        ORDER BY s.day`, campaignID, from, to)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PerformanceSnapshot, error) {
		var s domain.PerformanceSnapshot
		err := row.Scan(&s.CampaignID, &s.Day, &s.Auctions, &s.Wins, &s.Impressions,
			&s.Clicks, &s.Conversions, &s.CapRejections, &s.Spend, &s.TargetCPA)
		return s, err
	})
}
