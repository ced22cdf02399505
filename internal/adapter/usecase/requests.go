package usecase

import (
	"context"

	"github.com/google/uuid"

	"adengine/internal/core/domain"
	"adengine/internal/core/port"
	"adengine/internal/errortypes"
)

// CreateRequest registers a new pending placement opportunity. The ad
// unit must exist; its site provides the earnings attribution at commit
// time.
func (e *AuctionEngine) CreateRequest(ctx context.Context, orgID, siteID, adUnitID int64, rc domain.RequestContext) (*domain.AdRequest, error) {
	if rc.UserID == "" {
		return nil, &errortypes.InvalidInput{Message: "request context requires a user id"}
	}
	unit, err := e.repo.GetAdUnit(ctx, adUnitID)
	if err != nil {
		return nil, &errortypes.UpstreamUnavailable{Message: "loading ad unit: " + err.Error(), Cause: err}
	}
	if unit == nil {
		return nil, &errortypes.NotFound{Message: "ad unit not found"}
	}

	// The placement's declared format and size complete the context when
	// the caller left them out.
	if rc.Format == "" {
		rc.Format = unit.Format
	}
	if rc.Size == "" {
		rc.Size = unit.Size
	}

	req := &domain.AdRequest{
		ID:        uuid.New(),
		OrgID:     orgID,
		SiteID:    siteID,
		AdUnitID:  adUnitID,
		Context:   rc,
		Status:    domain.RequestPending,
		CreatedAt: e.now(),
	}
	if err = e.repo.CreateAdRequest(ctx, req); err != nil {
		return nil, &errortypes.UpstreamUnavailable{Message: "creating ad request: " + err.Error(), Cause: err}
	}
	return req, nil
}

// GetStats aggregates auction outcomes for reporting.
func (e *AuctionEngine) GetStats(ctx context.Context, req port.StatsReq) (*port.StatsResp, error) {
	resp, err := e.repo.GetStats(ctx, req)
	if err != nil {
		return nil, &errortypes.UpstreamUnavailable{Message: "loading stats: " + err.Error(), Cause: err}
	}
	return resp, nil
}

// Recommendations runs the optimization advisor over the campaign's
// recent serving history. Read-only, off the hot path.
func (e *AuctionEngine) Recommendations(ctx context.Context, campaignID int64) ([]port.Recommendation, error) {
	to := e.now()
	from := to.AddDate(0, 0, -30)
	history, err := e.repo.GetCampaignHistory(ctx, campaignID, from, to)
	if err != nil {
		return nil, &errortypes.UpstreamUnavailable{Message: "loading history: " + err.Error(), Cause: err}
	}
	return e.optimizer.Analyze(history), nil
}
