package metadata

/**
 * @brief Output of a hyperframe builder. CenterLines holds the nested
 * skeleton struts, CurvedLines the connectors between nesting levels and
 * rotated copies. Diagonals is optional decoration and may be nil.
 */
type HyperframeResult struct {
	CenterLines *Group
	CurvedLines *Group
	Diagonals   *Group
}

func (h *HyperframeResult) Dispose() {
	if h == nil {
		return
	}
	h.CenterLines.Dispose()
	h.CurvedLines.Dispose()
	h.Diagonals.Dispose()
}
