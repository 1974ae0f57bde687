package cosmos

const (
	SolarMass   = 1.98847e30
	SolarRadius = 6.957e8
	EarthMass   = 5.9722e24
	EarthRadius = 6.371e6
	JupiterMass = 1.89813e27
	AU          = 1.495978707e11
	LightYear   = 9.4607304725808e15
	Parsec      = 3.0856775814913673e16
	Megaparsec  = 1e6 * Parsec

	// SolarTemperature is the Sun's effective temperature in kelvin.
	SolarTemperature = 5772.0
	// BackgroundTemperature is the cosmic microwave background in kelvin.
	BackgroundTemperature = 2.725
)
