package config

var DefaultConfig Config
var DefaultTheme Theme
var DefaultKeys Keys

func init() {
	DefaultTheme = Theme{
		DrawBlockBackground: true,
		DrawGhost:           true,
		CheckeredWell:       false,
		Colors: ConfigColors{
			WellColor:    234,
			WellColorAlt: 235,
			BorderColor:  244,
			GhostColor:   240,
			GarbageColor: 245,
			IColor:       51,
			OColor:       226,
			TColor:       129,
			SColor:       46,
			ZColor:       196,
			JColor:       21,
			LColor:       208,
		},
		Symbols: ConfigSymbols{
			Block: '█',
			Empty: ' ',
			Ghost: '░',
		},
	}

	DefaultKeys = Keys{
		Single: KeyBindings{
			Left:    []string{"Left"},
			Right:   []string{"Right"},
			Down:    []string{"Down"},
			Rotate:  []string{"Up", "x"},
			Drop:    []string{"Space"},
			Restart: []string{"r"},
		},
		PlayerOne: KeyBindings{
			Left:    []string{"a"},
			Right:   []string{"d"},
			Down:    []string{"s"},
			Rotate:  []string{"w"},
			Drop:    []string{"q"},
			Restart: []string{"r"},
		},
		PlayerTwo: KeyBindings{
			Left:    []string{"Left"},
			Right:   []string{"Right"},
			Down:    []string{"Down"},
			Rotate:  []string{"Up"},
			Drop:    []string{"Enter", "/"},
			Restart: []string{"r"},
		},
	}

	DefaultConfig = Config{
		Sound: true,
		Theme: DefaultTheme,
		Keys:  DefaultKeys,
	}
}
