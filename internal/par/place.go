package par

// BlockRange splits [0, n) into nthreads near-equal contiguous blocks and
// returns the half-open block for tid. Remainder elements go to the lowest
// tids, so the split is a pure function of (n, tid, nthreads).
func BlockRange(n uint64, tid, nthreads int) (uint64, uint64) {
	per := n / uint64(nthreads)
	rem := n % uint64(nthreads)

	t := uint64(tid)
	var lo uint64
	if t < rem {
		lo = t * (per + 1)
	} else {
		lo = rem*(per+1) + (t-rem)*per
	}
	hi := lo + per
	if t < rem {
		hi++
	}
	return lo, hi
}

// Place runs the two-pass parallel append pattern over [0, n):
//
//  1. every worker counts the qualifying elements in its block;
//  2. a serial prefix over the per-worker counts fixes each worker's output
//     offset;
//  3. every worker re-walks its block and places qualifying elements
//     starting at its offset.
//
// The count pass and the place pass must agree element-for-element, which
// makes the output layout independent of scheduling. grow, if non-nil, is
// called serially with the total between the two passes so destination
// storage can be resized. Place returns the total number of elements
// placed.
func Place(p *Pool, n uint64,
	count func(lo, hi uint64) uint64,
	grow func(total uint64),
	place func(lo, hi, offset uint64),
) uint64 {
	if n == 0 {
		return 0
	}

	threadCounts := make([]uint64, p.Workers())
	p.OnEach(func(tid, nthreads int) {
		lo, hi := BlockRange(n, tid, nthreads)
		threadCounts[tid] = count(lo, hi)
	})

	// exclusive prefix over thread counts
	var total uint64
	for i, c := range threadCounts {
		threadCounts[i] = total
		total += c
	}
	if total == 0 {
		return 0
	}

	if grow != nil {
		grow(total)
	}

	p.OnEach(func(tid, nthreads int) {
		lo, hi := BlockRange(n, tid, nthreads)
		place(lo, hi, threadCounts[tid])
	})

	return total
}
