package ration

// Preset is a named ration map offered as a one-tap split.
type Preset struct {
	Label  string `json:"label"`
	Ration Map    `json:"ration"`
}

func percents(a, b, c, d string) Map {
	return Map{
		{Amount: a, Unit: Percent},
		{Amount: b, Unit: Percent},
		{Amount: c, Unit: Percent},
		{Amount: d, Unit: Percent},
	}
}

var presets = []Preset{
	{Label: "Preset #1", Ration: percents("25", "25", "25", "25")},
	{Label: "Preset #2", Ration: percents("0", "33", "33", "33")},
	{Label: "Preset #3", Ration: percents("0", "50", "50", "0")},
	{Label: "Preset #4", Ration: percents("100", "0", "0", "0")},
	{Label: "Preset #5", Ration: percents("0", "100", "0", "0")},
	{Label: "Preset #6", Ration: percents("0", "0", "0", "100")},
}

// Presets returns the built-in presets.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// PresetByLabel looks up a built-in preset.
func PresetByLabel(label string) (Preset, bool) {
	for _, p := range presets {
		if p.Label == label {
			return p, true
		}
	}
	return Preset{}, false
}
