package config

// builtinPresets are always available, so no presets file is required.
func builtinPresets() []Preset {
	comet := Preset{
		Name:        "comet",
		CometRadius: 1.5,
		Camera: PresetCamera{
			Position: [3]float64{0, 5, 20},
			Target:   [3]float64{0, 0, 0},
		},
		Path: PresetPath{
			Kind:      "linear",
			StartX:    -30,
			EndX:      30,
			Height:    10,
			Duration:  500,
			Amplitude: 2,
		},
		Pools: []PresetPool{
			{Name: "main", Count: 1000, SpeedScale: 1, SpreadScale: 0.25, DecayScale: 0.12, Color: "#ff6622", Size: 0.35, Opacity: 0.5},
			{Name: "spark", Count: 150, SpeedScale: 1.4, SpreadScale: 0.6, DecayScale: 0.2, Color: "#ffc27a", Size: 0.2, Opacity: 0.8},
		},
		Stars:  PresetStarfield{Count: 5000, Spread: 100, Height: 100, Spin: 0.0001, Size: 1.5},
		Ground: PresetGround{Enabled: true, Height: -10, Size: 100, Color: "#1a472a"},
		Tail:   PresetTail{Length: 9, Radius: 0.9, Color: "#ff4400", Opacity: 0.6},
		Label:  PresetLabel{Text: "memex.tech", Offset: [3]float64{0, -0.5, 1.5}},
	}

	station := Preset{
		Name:        "station",
		CometRadius: 3,
		Camera: PresetCamera{
			Position: [3]float64{0, 160, 420},
			Target:   [3]float64{0, 0, -100},
		},
		Path: PresetPath{
			Kind:         "circular",
			Radius:       300,
			Height:       70,
			CenterX:      0,
			CenterZ:      -100,
			AngularSpeed: 0.0005,
		},
		Pools: []PresetPool{
			{Name: "main", Count: 1500, SpeedScale: 1, SpreadScale: 0.6, DecayScale: 0.9, Color: "#ff6622", Size: 1.2, Opacity: 0.6},
			{Name: "spark", Count: 300, SpeedScale: 1.8, SpreadScale: 1.6, DecayScale: 0.8, Color: "#ffd27a", Size: 0.6, Opacity: 0.9},
			{Name: "glow", Count: 400, SpeedScale: 0.6, SpreadScale: 0.3, DecayScale: 0.5, Color: "#ff3300", Size: 2.5, Opacity: 0.3},
		},
		Structure: PresetStruct{
			Enabled:     true,
			Center:      [3]float64{0, 0, -100},
			Spin:        0.0002,
			Radius:      120,
			Details:     900,
			DetailScale: 4,
			Dish:        PresetZone{Phi: 0, Theta: 60, Radius: 35},
		},
		Firing: PresetFiring{
			CycleMs:    10000,
			ActiveMs:   4000,
			BeamLength: 400,
		},
		Stars: PresetStarfield{Count: 4000, Spread: 1200, Height: 600, Spin: 0.0001, Size: 1.5},
		Tail:  PresetTail{Length: 24, Radius: 2.5, Color: "#ff4400", Opacity: 0.5},
	}

	return []Preset{comet, station}
}
