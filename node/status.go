package node

// Status is the visual state a node instance reports to the host. The zero
// value means "no status"; reporting it clears any previous status.
type Status struct {
	Fill  string
	Shape string
	Text  string
}

// Recognized status fills.
const (
	FillRed    = "red"
	FillGreen  = "green"
	FillYellow = "yellow"
	FillBlue   = "blue"
	FillGrey   = "grey"
)

// Recognized status shapes.
const (
	ShapeRing = "ring"
	ShapeDot  = "dot"
)

// Empty reports whether the status is the zero "no status" value.
func (s Status) Empty() bool {
	return s == Status{}
}
