package quadbin

// IsValidIndex reports whether v is a well-formed quadbin index of any mode (0-6).
func IsValidIndex(v uint64) bool {
	return hasValidLayout(v) && (v>>modeShift)&modeMask <= maxMode
}

// IsValidCell reports whether v is a well-formed quadbin cell (an index of mode 1).
func IsValidCell(v uint64) bool {
	return hasValidLayout(v) && (v>>modeShift)&modeMask == cellMode
}

// IsValid reports whether the cell is well-formed.
func (c Cell) IsValid() bool {
	return IsValidCell(uint64(c))
}

func hasValidLayout(v uint64) bool {
	if v&reserved != 0 || v&header == 0 {
		return false
	}
	resolution := int((v >> resolutionShift) & resolutionMask)
	if resolution > MaxResolution {
		return false
	}
	unused := padding(resolution)
	return v&unused == unused
}
