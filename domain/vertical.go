package domain

// Vertical is an insurance product line with its own feature schema
// and pricing multiplier.
type Vertical string

const (
	VerticalAuto       Vertical = "auto"
	VerticalHome       Vertical = "home"
	VerticalHealth     Vertical = "health"
	VerticalLife       Vertical = "life"
	VerticalRenters    Vertical = "renters"
	VerticalCommercial Vertical = "commercial"
)

var supportedVerticals = []Vertical{
	VerticalAuto,
	VerticalHome,
	VerticalHealth,
	VerticalLife,
	VerticalRenters,
	VerticalCommercial,
}

func SupportedVerticals() []Vertical {
	out := make([]Vertical, len(supportedVerticals))
	copy(out, supportedVerticals)
	return out
}

func (v Vertical) Supported() bool {
	for _, s := range supportedVerticals {
		if v == s {
			return true
		}
	}
	return false
}

func (v Vertical) String() string {
	return string(v)
}
