package safety

import (
	"fmt"

	"github.com/mariveth/lootsweep/internal/model"
)

// GearsetFunc answers whether an item id is assigned to any saved gear
// preset. A nil func degrades to "not in gearset"; callers whose lookup
// can fail should swallow the error and return false.
type GearsetFunc func(model.ItemID) bool

// verdictBuilder accumulates reasons and tracks severity while the
// classification rules run. Blocking rules overwrite severity
// unconditionally, tag rules only raise it; see DESIGN.md before
// changing either policy.
type verdictBuilder struct {
	verdict model.SafetyVerdict
}

func newVerdictBuilder(id model.ItemID) *verdictBuilder {
	return &verdictBuilder{verdict: model.SafetyVerdict{
		ItemID:        id,
		Severity:      model.SeverityNone,
		SafeToDiscard: true,
	}}
}

// block marks the item unsafe and overwrites severity unconditionally.
// An overwrite can downgrade an earlier grade (a gearset hit demotes a
// prior Critical to Warning).
func (b *verdictBuilder) block(reason string, severity model.Severity) {
	b.verdict.SafeToDiscard = false
	b.verdict.Reasons = append(b.verdict.Reasons, reason)
	b.verdict.Severity = severity
}

// flag records a tag reason and raises severity only if the current
// grade is lower.
func (b *verdictBuilder) flag(reason string, severity model.Severity) {
	b.verdict.Reasons = append(b.verdict.Reasons, reason)
	if severity > b.verdict.Severity {
		b.verdict.Severity = severity
	}
}

// Classify evaluates every safety rule against one item snapshot and
// returns a fresh verdict. Evaluation order is load-bearing: reasons
// accumulate in rule order, and the severity each rule establishes
// depends on which rules ran before it.
//
// The blocking rules (hardcoded blacklist, currency, user blacklist,
// gearset, indisposable) apply regardless of any filter toggle; the
// toggles only gate the advisory tag rules and candidate selection.
func Classify(item model.ItemFacts, cfg FilterConfig, userBlacklist map[model.ItemID]struct{}, isInGearset GearsetFunc) model.SafetyVerdict {
	b := newVerdictBuilder(item.ID)

	if IsHardcodedBlacklisted(item.ID) {
		b.block("Ultimate Token / Special Item", model.SeverityCritical)
	}
	if IsCurrency(item.ID) {
		b.block("Currency Item", model.SeverityCritical)
	}
	if _, ok := userBlacklist[item.ID]; ok {
		b.block("User Blacklisted", model.SeverityCritical)
	}
	if isInGearset != nil && isInGearset(item.ID) {
		b.block("In Gearset", model.SeverityWarning)
	}
	if item.Indisposable {
		b.block("Cannot Be Discarded", model.SeverityCritical)
	}

	if cfg.FilterHighLevelGear && item.IsGear() && item.ItemLevel >= cfg.MaxGearItemLevel {
		b.flag(fmt.Sprintf("High Level Gear (i%d)", item.ItemLevel), model.SeverityWarning)
	}
	if cfg.FilterUniqueUntradeable && item.Unique && !item.Tradeable && !IsSafeUnique(item.ID) {
		b.flag("Unique & Untradeable", model.SeverityWarning)
	}
	if cfg.FilterHQ && item.HighQuality {
		b.flag("High Quality", model.SeverityCaution)
	}
	if cfg.FilterCollectable && item.Collectable {
		b.flag("Collectable", model.SeverityInfo)
	}
	if cfg.FilterSpiritbond && item.SpiritbondPercent >= cfg.MinSpiritbondPercent {
		b.flag(fmt.Sprintf("Spiritbond %.0f%%", item.SpiritbondPercent), model.SeverityInfo)
	}

	return b.verdict
}

// QuickSafe is the cheap filtering fast path: only the unconditional
// blocking rules that need no external lookup (hardcoded blacklist,
// currency range, user blacklist, indisposable flag). Use it to thin a
// candidate list before paying for full classification.
func QuickSafe(item model.ItemFacts, userBlacklist map[model.ItemID]struct{}) bool {
	if IsHardcodedBlacklisted(item.ID) || IsCurrency(item.ID) {
		return false
	}
	if _, ok := userBlacklist[item.ID]; ok {
		return false
	}
	return !item.Indisposable
}

// ShouldAutoFilter reports whether the configured toggles exclude this
// item from bulk-delete candidate selection. Unlike Classify, every
// rule here respects its toggle; the user blacklist alone is
// unconditional.
func ShouldAutoFilter(item model.ItemFacts, cfg FilterConfig, userBlacklist map[model.ItemID]struct{}, isInGearset GearsetFunc) bool {
	if _, ok := userBlacklist[item.ID]; ok {
		return true
	}
	if cfg.FilterUltimateTokens && IsHardcodedBlacklisted(item.ID) {
		return true
	}
	if cfg.FilterCurrency && IsCurrency(item.ID) {
		return true
	}
	if cfg.FilterCrystals && IsCrystal(item.ID) {
		return true
	}
	if cfg.FilterGearset && isInGearset != nil && isInGearset(item.ID) {
		return true
	}
	if cfg.FilterIndisposable && item.Indisposable {
		return true
	}
	if cfg.FilterHighLevelGear && item.IsGear() && item.ItemLevel >= cfg.MaxGearItemLevel {
		return true
	}
	if cfg.FilterUniqueUntradeable && item.Unique && !item.Tradeable && !IsSafeUnique(item.ID) {
		return true
	}
	if cfg.FilterHQ && item.HighQuality {
		return true
	}
	if cfg.FilterCollectable && item.Collectable {
		return true
	}
	if cfg.FilterSpiritbond && item.SpiritbondPercent >= cfg.MinSpiritbondPercent {
		return true
	}
	return false
}
