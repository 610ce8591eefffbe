package ring

// snapshot copies the next n logical elements, oldest first, without touching
// the cursors. The run wraps across the end of storage as at most two
// contiguous copies. n is clamped to the available count.
func (r *Ring[T]) snapshot(n int) []T {
	n = min(n, r.available)
	if n <= 0 {
		return nil
	}
	out := make([]T, n)
	end := min(r.readPos+n, len(r.items))
	first := copy(out, r.items[r.readPos:end])
	if first < n {
		copy(out[first:], r.items[:n-first])
	}
	return out
}
