package truncate

// cutEnd keeps the longest prefix that fits and appends the marker.
func (t *Truncator) cutEnd(runes []rune, target int) string {
	keep := t.prefixLen(runes, target)
	if keep == 0 {
		return t.marker
	}
	return string(runes[:keep]) + t.marker
}

// cutStart keeps the longest suffix that fits and prepends the marker.
func (t *Truncator) cutStart(runes []rune, target int) string {
	start := t.suffixStart(runes, target)
	if start >= len(runes) {
		return t.marker
	}
	return t.marker + string(runes[start:])
}

// cutMiddle spends half the target on each end.
func (t *Truncator) cutMiddle(runes []rune, target int) string {
	half := target / 2
	head := t.prefixLen(runes, half)
	tail := t.suffixStart(runes[head:], target-half) + head
	return string(runes[:head]) + t.marker + string(runes[tail:])
}

// prefixLen binary searches the longest prefix within limit tokens.
func (t *Truncator) prefixLen(runes []rune, limit int) int {
	low, high := 0, len(runes)
	for low < high {
		mid := (low + high + 1) / 2
		if t.counter.FitsInLimit(string(runes[:mid]), limit) {
			low = mid
		} else {
			high = mid - 1
		}
	}
	return low
}

// suffixStart binary searches the earliest start index whose suffix fits.
func (t *Truncator) suffixStart(runes []rune, limit int) int {
	low, high := 0, len(runes)
	for low < high {
		mid := (low + high) / 2
		if t.counter.FitsInLimit(string(runes[mid:]), limit) {
			high = mid
		} else {
			low = mid + 1
		}
	}
	return low
}
