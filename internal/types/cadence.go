package types

import (
	"fmt"

	ierr "github.com/revboard/revboard/internal/errors"
)

// PaymentCadence identifies the billing recurrence category of a settled
// payment. The set is closed and ordered; extension happens through the
// cadence registry below, never through ad hoc string keys.
type PaymentCadence string

const (
	CadenceOneTime    PaymentCadence = "oneTime"
	CadenceMonthly    PaymentCadence = "monthly"
	CadenceQuarterly  PaymentCadence = "quarterly"
	CadenceSemiannual PaymentCadence = "semiannual"
	CadenceAnnual     PaymentCadence = "annual"
)

// CadenceDefinition binds a cadence to the recurring interval it matches.
// IntervalKey is the composed form of (interval unit, interval count):
// count==1 yields the bare unit ("month", "year"), count>1 yields
// "<count>-<unit>" ("3-month", "6-month").
type CadenceDefinition struct {
	ID          PaymentCadence
	Name        string
	IntervalKey string
}

// cadenceRegistry is the ordered table of subscription cadence definitions.
// First match wins on lookup.
var cadenceRegistry = []CadenceDefinition{
	{ID: CadenceMonthly, Name: "Monthly Subscription", IntervalKey: "month"},
	{ID: CadenceQuarterly, Name: "Quarterly Subscription", IntervalKey: "3-month"},
	{ID: CadenceSemiannual, Name: "Semi-Annual Subscription", IntervalKey: "6-month"},
	{ID: CadenceAnnual, Name: "Annual Subscription", IntervalKey: "year"},
}

// SubscriptionCadences returns the ordered cadence definitions, excluding
// one-time
func SubscriptionCadences() []CadenceDefinition {
	out := make([]CadenceDefinition, len(cadenceRegistry))
	copy(out, cadenceRegistry)
	return out
}

// ComposeIntervalKey builds the composite interval key for a recurring
// interval descriptor
func ComposeIntervalKey(unit string, count int64) string {
	if count <= 1 {
		return unit
	}
	return fmt.Sprintf("%d-%s", count, unit)
}

// CadenceForInterval resolves a recurring interval descriptor to a cadence.
// An interval with no registry match falls back to one-time classification;
// that fallback is deliberate and must stay total, the classifier can never
// fail.
func CadenceForInterval(unit string, count int64) PaymentCadence {
	if unit == "" {
		return CadenceOneTime
	}
	key := ComposeIntervalKey(unit, count)
	for _, def := range cadenceRegistry {
		if def.IntervalKey == key {
			return def.ID
		}
	}
	return CadenceOneTime
}

// ValidateCadenceRegistry checks registry consistency at startup: no
// duplicate interval keys, no empty ids, no one-time entry masquerading as
// a subscription cadence.
func ValidateCadenceRegistry() error {
	seen := make(map[string]PaymentCadence, len(cadenceRegistry))
	for _, def := range cadenceRegistry {
		if def.ID == "" || def.IntervalKey == "" {
			return ierr.NewError("cadence definition is incomplete").
				WithHint("Every cadence needs an id and an interval key").
				Mark(ierr.ErrValidation)
		}
		if def.ID == CadenceOneTime {
			return ierr.NewError("oneTime cannot appear in the subscription cadence registry").
				Mark(ierr.ErrValidation)
		}
		if prev, ok := seen[def.IntervalKey]; ok {
			return ierr.NewError("duplicate cadence interval key").
				WithReportableDetails(map[string]interface{}{
					"interval_key": def.IntervalKey,
					"first":        prev,
					"second":       def.ID,
				}).
				Mark(ierr.ErrValidation)
		}
		seen[def.IntervalKey] = def.ID
	}
	return nil
}
