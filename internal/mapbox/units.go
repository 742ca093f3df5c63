package mapbox

const (
	metersPerMile = 1609.344
	feetPerMeter  = 3.28084
)

func SecondsToMinutes(s float64) float64 {
	return s / 60
}

func MetersToMiles(m float64) float64 {
	return m / metersPerMile
}

func MetersToFeet(m float64) float64 {
	return m * feetPerMeter
}
