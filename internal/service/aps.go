package service

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/caseyos/caseyos/internal/domain"
)

// APS component weights. They sum to 1; the final score is scaled to 0-100.
const (
	apsWeightRevenue   = 0.40
	apsWeightUrgency   = 0.25
	apsWeightEffort    = 0.15
	apsWeightStrategic = 0.20

	// apsRevenueCap normalizes deal amounts: anything at or above this is
	// full marks on the revenue component.
	apsRevenueCap = 100000.0

	// apsUrgencyHalfLife is the decay constant of the urgency component.
	apsUrgencyHalfLife = 48 * time.Hour

	// apsEffortCapMinutes caps the effort denominator.
	apsEffortCapMinutes = 60.0

	// apsRevenueBaseline is the revenue component for contacts with no deal
	// and no ICP score.
	apsRevenueBaseline = 0.3

	// strategic component increments
	apsStrategicSegment = 0.5
	apsStrategicAccount = 0.3
	apsStrategicSource  = 0.2

	// apsTieBand is how close two scores must be before the tie-breaks
	// decide the queue order.
	apsTieBand = 0.5
)

// APSInput carries everything the scorer needs. The scorer is pure: same
// input, same score.
type APSInput struct {
	// DealAmount is the summed open deal value for the contact's company.
	DealAmount float64
	// SignalAt is when the triggering signal was received.
	SignalAt time.Time
	// Now is the scoring time, injected for determinism.
	Now time.Time
	// DueBy is the action deadline, when one exists. An overdue deadline
	// pins urgency to full marks.
	DueBy *time.Time
	// ActionType selects the fixed effort estimate.
	ActionType domain.ActionType
	// Source is where the triggering signal came from.
	Source domain.SignalSource
	// ICPScore is the company fit score in [0,1], 0 when unknown.
	ICPScore float64
	// Strategic is set when the company is on the strategic accounts list.
	Strategic bool
	// TargetSegment is set when the contact belongs to a target segment.
	TargetSegment bool
	// OutcomeImpact is the accumulated outcome feedback for the contact.
	OutcomeImpact float64
}

// APSComponents breaks a score down for the reasoning string.
type APSComponents struct {
	Revenue   float64 `json:"revenue"`
	Urgency   float64 `json:"urgency"`
	Effort    float64 `json:"effort"`
	Strategic float64 `json:"strategic"`
	Score     float64 `json:"score"`
}

// ScoreAPS computes the action priority score on a 0-100 scale.
//
// revenue   = min(deal, cap) / cap when a deal exists, else the ICP score,
//             else a 0.3 baseline
// urgency   = exp(-age / 48h); an overdue due_by pins it to 1.0
// effort    = 1 - min(minutes, 60) / 60
// strategic = 0.5 target segment + 0.3 strategic account + 0.2 form/crm
//             source, capped at 1.0
//
// Positive outcome feedback nudges the score up and negative feedback down,
// bounded to ±5 points, and the result is clamped to [0, 100].
func ScoreAPS(input APSInput) APSComponents {
	var revenue float64
	switch {
	case input.DealAmount > 0:
		revenue = math.Min(input.DealAmount, apsRevenueCap) / apsRevenueCap
	case input.ICPScore > 0:
		revenue = input.ICPScore
	default:
		revenue = apsRevenueBaseline
	}

	age := input.Now.Sub(input.SignalAt)
	if age < 0 {
		age = 0
	}
	urgency := math.Exp(-float64(age) / float64(apsUrgencyHalfLife))
	if input.DueBy != nil && !input.DueBy.After(input.Now) {
		urgency = 1.0
	}

	minutes, ok := domain.ActionEffortMinutes[input.ActionType]
	if !ok {
		minutes = apsEffortCapMinutes
	}
	effort := 1 - math.Min(minutes, apsEffortCapMinutes)/apsEffortCapMinutes

	strategic := 0.0
	if input.TargetSegment {
		strategic += apsStrategicSegment
	}
	if input.Strategic {
		strategic += apsStrategicAccount
	}
	if input.Source == domain.SignalSourceForm || input.Source == domain.SignalSourceCRM {
		strategic += apsStrategicSource
	}
	strategic = math.Min(strategic, 1.0)

	score := 100 * (apsWeightRevenue*revenue +
		apsWeightUrgency*urgency +
		apsWeightEffort*effort +
		apsWeightStrategic*strategic)

	// outcome feedback is a bounded nudge, never a dominant term
	score += math.Max(-5, math.Min(5, input.OutcomeImpact/10))

	score = math.Max(0, math.Min(100, score))

	return APSComponents{
		Revenue:   revenue,
		Urgency:   urgency,
		Effort:    effort,
		Strategic: strategic,
		Score:     math.Round(score*100) / 100,
	}
}

// Reasoning renders the component breakdown as the queue item's
// human-readable explanation.
func (c APSComponents) Reasoning() string {
	return fmt.Sprintf(
		"aps %.2f = revenue %.2f (w %.2f) + urgency %.2f (w %.2f) + effort %.2f (w %.2f) + strategic %.2f (w %.2f)",
		c.Score,
		c.Revenue, apsWeightRevenue,
		c.Urgency, apsWeightUrgency,
		c.Effort, apsWeightEffort,
		c.Strategic, apsWeightStrategic,
	)
}

// SortQueueItems orders items the way the queue presents them: APS
// descending; scores within half a point of each other count as tied and
// fall through to earlier received_at, then id.
func SortQueueItems(items []*domain.CommandQueueItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if math.Abs(a.APSScore-b.APSScore) > apsTieBand {
			return a.APSScore > b.APSScore
		}
		if !a.ReceivedAt.Equal(b.ReceivedAt) {
			return a.ReceivedAt.Before(b.ReceivedAt)
		}
		return a.ID < b.ID
	})
}
