package roster

// Alignment describes the team a player ends up on.
type Alignment int

const (
	// AlignmentUnspecified represents an absent or unknown alignment value.
	AlignmentUnspecified Alignment = iota
	// AlignmentGood indicates the good team.
	AlignmentGood
	// AlignmentEvil indicates the evil team.
	AlignmentEvil
)

// String returns the storage label for the alignment.
func (a Alignment) String() string {
	switch a {
	case AlignmentGood:
		return "GOOD"
	case AlignmentEvil:
		return "EVIL"
	default:
		return "UNSPECIFIED"
	}
}

// ParseAlignment maps a storage label back to an Alignment.
// Unknown labels map to AlignmentUnspecified.
func ParseAlignment(value string) Alignment {
	switch value {
	case "GOOD":
		return AlignmentGood
	case "EVIL":
		return AlignmentEvil
	default:
		return AlignmentUnspecified
	}
}
