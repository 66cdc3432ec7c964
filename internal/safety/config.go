package safety

// FilterConfig holds the per-user toggles and thresholds that drive
// candidate selection and the tag reasons of the classifier. Both
// thresholds are inclusive bounds: an item level equal to
// MaxGearItemLevel flags, as does a spiritbond equal to
// MinSpiritbondPercent.
type FilterConfig struct {
	FilterUltimateTokens    bool    `mapstructure:"filter_ultimate_tokens"`
	FilterCurrency          bool    `mapstructure:"filter_currency"`
	FilterCrystals          bool    `mapstructure:"filter_crystals"`
	FilterGearset           bool    `mapstructure:"filter_gearset"`
	FilterIndisposable      bool    `mapstructure:"filter_indisposable"`
	FilterHighLevelGear     bool    `mapstructure:"filter_high_level_gear"`
	FilterUniqueUntradeable bool    `mapstructure:"filter_unique_untradeable"`
	FilterHQ                bool    `mapstructure:"filter_hq"`
	FilterCollectable       bool    `mapstructure:"filter_collectable"`
	FilterSpiritbond        bool    `mapstructure:"filter_spiritbond"`
	MaxGearItemLevel        int     `mapstructure:"max_gear_item_level"`
	MinSpiritbondPercent    float64 `mapstructure:"min_spiritbond_percent"`
}

// DefaultFilterConfig returns the documented defaults: every protective
// filter on, the cosmetic ones (HQ, collectable, spiritbond) off.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		FilterUltimateTokens:    true,
		FilterCurrency:          true,
		FilterCrystals:          true,
		FilterGearset:           true,
		FilterIndisposable:      true,
		FilterHighLevelGear:     true,
		FilterUniqueUntradeable: true,
		FilterHQ:                false,
		FilterCollectable:       false,
		FilterSpiritbond:        false,
		MaxGearItemLevel:        45,
		MinSpiritbondPercent:    100,
	}
}
