package domain

// Bid is one scored candidate inside one auction. It is ephemeral: built
// and discarded within a single auction execution, never persisted except
// for the winner's amounts on the AdRequest.
type Bid struct {
	AdID       int64
	CampaignID int64
	OrgID      int64

	// Amount is the monetary bid used for pricing; RankScore is what the
	// auction sorts on. They deliberately differ: quality can win an ad
	// the slot, but the clearing price comes from Amount.
	Amount         Money
	QualityScore   float64
	TargetingScore float64
	RankScore      float64
}
