package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"adengine/internal/config/configs"
	"adengine/internal/core/domain"
	"adengine/internal/core/port"
	"adengine/internal/errortypes"
	"adengine/internal/metrics"
)

// AuctionEngine implements port.AuctionUseCase. It orchestrates
// eligibility filtering, parallel candidate scoring, generalized
// second-price selection, frequency capping and the atomic commit of the
// outcome.
type AuctionEngine struct {
	repo      port.AuctionRepository
	freq      port.FrequencyStore
	targeting *TargetingEvaluator
	bids      *BidCalculator
	optimizer port.Optimizer
	caps      map[domain.EventType]domain.FrequencyCap
	cfg       configs.Auction
	logger    *slog.Logger

	// now and score are injectable for tests.
	now   func() time.Time
	score func(cand port.AdCandidate, rc domain.RequestContext, now time.Time) domain.Bid
}

// NewAuctionEngine wires the engine with its collaborators. caps are the
// configured default frequency caps per event type; campaigns may carry
// overrides.
func NewAuctionEngine(
	repo port.AuctionRepository,
	freq port.FrequencyStore,
	optimizer port.Optimizer,
	caps map[domain.EventType]domain.FrequencyCap,
	cfg configs.Auction,
	logger *slog.Logger,
) *AuctionEngine {
	e := &AuctionEngine{
		repo:      repo,
		freq:      freq,
		targeting: NewTargetingEvaluator(cfg),
		bids:      NewBidCalculator(cfg),
		optimizer: optimizer,
		caps:      caps,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
	e.score = e.scoreCandidate
	return e
}

// scoreCandidate evaluates targeting and computes the bid for one
// candidate. The default for the engine's score seam.
func (e *AuctionEngine) scoreCandidate(cand port.AdCandidate, rc domain.RequestContext, now time.Time) domain.Bid {
	tr := e.targeting.Evaluate(cand.Ad.Targeting, rc)
	bid := e.bids.Compute(cand.Campaign, cand.Ad.Performance(), tr.Score, now)
	bid.AdID = cand.Ad.ID
	return bid
}

// scoredCandidate pairs a bid with the campaign it came from so the
// frequency walk can consult per-campaign cap overrides.
type scoredCandidate struct {
	bid      domain.Bid
	campaign domain.Campaign
}

// RunAuction executes the full decision flow for one pending ad request.
// The request id is the idempotency key: a terminal request replays its
// stored outcome without writes. Business conditions (no candidates,
// cap-blocked winner) yield a nil-winner result, never an error.
func (e *AuctionEngine) RunAuction(ctx context.Context, requestID uuid.UUID) (*port.AuctionResult, error) {
	start := e.now()
	result := "error"
	defer func() {
		metrics.RecordAuctionDuration(result, e.now().Sub(start).Seconds())
	}()

	req, err := e.repo.GetAdRequest(ctx, requestID)
	if err != nil {
		return nil, &errortypes.UpstreamUnavailable{Message: "loading ad request: " + err.Error(), Cause: err}
	}
	if req == nil {
		return nil, &errortypes.NotFound{Message: fmt.Sprintf("ad request %s not found", requestID)}
	}
	if req.Status.Terminal() {
		result = "replayed"
		return replayOutcome(req), nil
	}
	if req.Status != domain.RequestPending {
		return nil, &errortypes.InvalidInput{Message: fmt.Sprintf("ad request %s is %s, not pending", requestID, req.Status)}
	}

	unit, err := e.repo.GetAdUnit(ctx, req.AdUnitID)
	if err != nil {
		return nil, &errortypes.UpstreamUnavailable{Message: "loading ad unit: " + err.Error(), Cause: err}
	}
	if unit == nil {
		return nil, &errortypes.NotFound{Message: fmt.Sprintf("ad unit %d not found", req.AdUnitID)}
	}

	candidates, err := e.repo.GetEligibleAds(ctx, *unit)
	if err != nil {
		return nil, &errortypes.UpstreamUnavailable{Message: "loading candidates: " + err.Error(), Cause: err}
	}
	candidates = filterHardConstraints(candidates, *unit, req.Context)
	metrics.AuctionCandidates.Observe(float64(len(candidates)))

	ranked := e.scoreAll(candidates, req.Context)

	// Walk the ranking until a candidate clears its frequency cap. A
	// rejected candidate is removed and the next one retried; everything
	// ranked below the eventual winner is untouched, so the clearing
	// price is simply the next entry's own bid.
	winnerIdx := -1
	for i, sc := range ranked {
		key := domain.FrequencyKey{
			UserID:     req.Context.UserID,
			AdID:       sc.bid.AdID,
			CampaignID: sc.bid.CampaignID,
			EventType:  domain.EventImpression,
		}
		fc := e.capFor(sc.campaign, domain.EventImpression)
		decision, err := e.freq.CheckAndReserve(ctx, key, fc)
		if err != nil {
			return nil, &errortypes.UpstreamUnavailable{Message: "frequency check: " + err.Error(), Cause: err}
		}
		if !decision.Allowed {
			metrics.RecordFrequencyRejection(string(domain.EventImpression))
			continue
		}
		winnerIdx = i
		break
	}

	out := domain.AuctionOutcome{
		RequestID:    req.ID,
		Participants: len(ranked),
		CreatedAt:    e.now(),
	}
	if winnerIdx >= 0 {
		winner := ranked[winnerIdx]
		out.WinnerAdID = &winner.bid.AdID
		out.WinningBid = winner.bid.Amount
		// Generalized second price: the runner-up's own monetary bid, or
		// the winner's own bid in a single-bidder auction.
		if winnerIdx+1 < len(ranked) {
			out.ClearingPrice = ranked[winnerIdx+1].bid.Amount
		} else {
			out.ClearingPrice = winner.bid.Amount
		}
	}

	if err = e.repo.CommitOutcome(ctx, out, req.SiteID); err != nil {
		var invalid *errortypes.InvalidInput
		if errors.As(err, &invalid) {
			// Lost the pending guard to a concurrent run. The stored
			// outcome is the auction's answer; replay it.
			latest, ferr := e.repo.GetAdRequest(ctx, requestID)
			if ferr == nil && latest != nil && latest.Status.Terminal() {
				result = "replayed"
				return replayOutcome(latest), nil
			}
			return nil, err
		}
		// The request stays pending; a retry is safe.
		return nil, &errortypes.UpstreamUnavailable{Message: "committing outcome: " + err.Error(), Cause: err}
	}

	if winnerIdx >= 0 {
		winner := ranked[winnerIdx]
		key := domain.FrequencyKey{
			UserID:     req.Context.UserID,
			AdID:       winner.bid.AdID,
			CampaignID: winner.bid.CampaignID,
			EventType:  domain.EventImpression,
		}
		if _, err = e.freq.RecordEvent(ctx, key, e.capFor(winner.campaign, domain.EventImpression)); err != nil {
			// The impression is already committed; losing the counter
			// update risks over-serving one event for this user. Log loud
			// and keep the committed outcome.
			e.logger.Error("frequency record failed after commit",
				slog.String("request_id", req.ID.String()),
				slog.Int64("ad_id", winner.bid.AdID),
				slog.Any("error", err))
		}
		result = "served"
	} else {
		result = "failed"
	}

	return buildResult(req.ID, out, ranked), nil
}

// scoreAll scores candidates in parallel and returns them ranked. A
// panicking candidate is dropped; the rest of the auction proceeds.
// Ranking is descending by rank score with ties broken by the lower ad id
// so results are reproducible regardless of scoring order.
func (e *AuctionEngine) scoreAll(candidates []port.AdCandidate, rc domain.RequestContext) []scoredCandidate {
	scored := make([]*scoredCandidate, len(candidates))

	var g errgroup.Group
	if e.cfg.MaxParallelScoring > 0 {
		g.SetLimit(e.cfg.MaxParallelScoring)
	}
	for i, cand := range candidates {
		i, cand := i, cand
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					metrics.ScoringFailures.Inc()
					e.logger.Error("candidate scoring panicked",
						slog.Int64("ad_id", cand.Ad.ID),
						slog.Any("panic", r))
				}
			}()
			bid := e.score(cand, rc, e.now())
			scored[i] = &scoredCandidate{bid: bid, campaign: cand.Campaign}
			return nil
		})
	}
	_ = g.Wait()

	ranked := make([]scoredCandidate, 0, len(scored))
	for _, sc := range scored {
		if sc != nil {
			ranked = append(ranked, *sc)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].bid.RankScore != ranked[j].bid.RankScore {
			return ranked[i].bid.RankScore > ranked[j].bid.RankScore
		}
		return ranked[i].bid.AdID < ranked[j].bid.AdID
	})
	return ranked
}

// filterHardConstraints applies the pass/fail checks that exclude a
// candidate outright: declared formats/sizes must admit the placement,
// and declared geo/device constraints must not be mutually exclusive with
// a context that states them. Soft mismatches are left to the scorer.
func filterHardConstraints(candidates []port.AdCandidate, unit domain.AdUnit, rc domain.RequestContext) []port.AdCandidate {
	out := candidates[:0]
	for _, cand := range candidates {
		t := cand.Ad.Targeting
		if len(t.Formats) > 0 && !containsFold(t.Formats, unit.Format) {
			continue
		}
		if len(t.Sizes) > 0 && !containsFold(t.Sizes, unit.Size) {
			continue
		}
		if rc.Geo != "" && containsFold(t.ExcludedGeos, rc.Geo) {
			continue
		}
		if rc.Device != "" && containsFold(t.ExcludedDevices, rc.Device) {
			continue
		}
		out = append(out, cand)
	}
	return out
}

func containsFold(haystack []string, needle string) bool {
	for _, v := range haystack {
		if strings.EqualFold(v, needle) {
			return true
		}
	}
	return false
}

// capFor resolves the frequency cap for an event: the campaign override
// when present, the configured default otherwise.
func (e *AuctionEngine) capFor(camp domain.Campaign, et domain.EventType) domain.FrequencyCap {
	if fc, ok := camp.FrequencyCaps[et]; ok && fc.Limit > 0 && fc.Window > 0 {
		return fc
	}
	return e.caps[et]
}

// replayOutcome rebuilds the caller-facing result from the stored outcome
// of an already-terminal request. Per-candidate diagnostics are not
// persisted, so the replay carries only the committed fields.
func replayOutcome(req *domain.AdRequest) *port.AuctionResult {
	return &port.AuctionResult{
		RequestID:     req.ID,
		Winner:        req.WinningAdID,
		WinningBid:    req.WinningBid,
		ClearingPrice: req.ClearingPrice,
		Participants:  req.Participants,
	}
}

func buildResult(id uuid.UUID, out domain.AuctionOutcome, ranked []scoredCandidate) *port.AuctionResult {
	res := &port.AuctionResult{
		RequestID:     id,
		Winner:        out.WinnerAdID,
		WinningBid:    out.WinningBid,
		ClearingPrice: out.ClearingPrice,
		Participants:  out.Participants,
	}
	for i, sc := range ranked {
		if i == 0 || sc.bid.Amount < res.AuctionData.BidRange.Min {
			res.AuctionData.BidRange.Min = sc.bid.Amount
		}
		if sc.bid.Amount > res.AuctionData.BidRange.Max {
			res.AuctionData.BidRange.Max = sc.bid.Amount
		}
		res.AuctionData.QualityScores = append(res.AuctionData.QualityScores, port.QualityScore{
			AdID:           sc.bid.AdID,
			QualityScore:   sc.bid.QualityScore,
			TargetingScore: sc.bid.TargetingScore,
		})
	}
	return res
}
