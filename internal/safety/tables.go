// Package safety implements the rule-based discard risk classifier and
// the static safety tables that parameterize it.
package safety

import "github.com/mariveth/lootsweep/internal/model"

// Items that must never be discarded no matter how the filters are
// configured. Mostly raid tokens that are expensive or impossible to
// reacquire.
var hardcodedBlacklist = map[model.ItemID]struct{}{
	21197: {}, // UCoB token
	23175: {}, // UwU token
	28633: {}, // TEA token
	36810: {}, // DSR token
	38951: {}, // TOP token
	10155: {}, // Ceruleum Tank
	10373: {}, // Magitek Repair Materials
}

// Unique & untradeable items that are nevertheless fine to toss because
// the game hands them back from a calamity salvager.
var safeUniqueItems = map[model.ItemID]struct{}{
	9387: {}, // Antique Helm
	9388: {}, // Antique Mail
	9389: {}, // Antique Gauntlets
	9390: {}, // Antique Breeches
	9391: {}, // Antique Sollerets
}

// Currency occupies the low end of the item id space; shards, crystals
// and clusters sit inside it.
const (
	currencyIDMin model.ItemID = 1
	currencyIDMax model.ItemID = 99

	crystalIDMin model.ItemID = 2
	crystalIDMax model.ItemID = 19
)

// IsHardcodedBlacklisted reports membership in the fixed never-discard set.
func IsHardcodedBlacklisted(id model.ItemID) bool {
	_, ok := hardcodedBlacklist[id]
	return ok
}

// IsCurrency reports whether the id falls in the reserved currency range.
func IsCurrency(id model.ItemID) bool {
	return id >= currencyIDMin && id <= currencyIDMax
}

// IsCrystal reports whether the id is a shard, crystal or cluster.
func IsCrystal(id model.ItemID) bool {
	return id >= crystalIDMin && id <= crystalIDMax
}

// IsSafeUnique reports membership in the safe-unique exemption set.
func IsSafeUnique(id model.ItemID) bool {
	_, ok := safeUniqueItems[id]
	return ok
}
