package lz4block

// High-compression block encoder (spec §4.3): a hash-chain match finder
// shared by three parsing strategies selected by compression level —
// fast-path fallback, greedy/lazy, and windowed optimal parsing.

const (
	HCMinLevel     = 1
	HCMaxLevel     = 12
	HCDefaultLevel = 9

	// optimalLevel is the lowest level that enables the cost-table
	// optimal parser (spec §4.3 "Level mapping").
	optimalLevel = 10
	// optimalWindow bounds the optimal parser's per-pass position count
	// (spec §4.3: "a per-position cost table over up to 4096 positions").
	optimalWindow = 4096

	hcHashLog = 16
	// winMask masks a relative position down to its slot in the
	// fixed 64 KiB chain table; the chain table must be exactly window
	// sized since it is indexed by position, not by hash.
	winMask = MaxOffset
)

// ClampLevel maps an arbitrary requested level onto the supported range,
// defaulting non-positive values to HCDefaultLevel (spec §4.3).
func ClampLevel(level int) int {
	if level <= 0 {
		return HCDefaultLevel
	}
	if level > HCMaxLevel {
		return HCMaxLevel
	}
	return level
}

// levelDepth maps a level to a chain-walk budget. Level <=2 never reaches
// here (CompressBlockHC routes those to the fast encoder).
func levelDepth(level int) int {
	switch {
	case level >= HCMaxLevel:
		return 1 << 16
	default:
		return 1 << uint(level+2)
	}
}

// HCState owns the hash and chain tables the high-compression encoder
// needs, reusable across many blocks of a stream so repeated allocation
// doesn't dominate (spec §4.3/§5: "Compressor context (HC)").
type HCState struct {
	hashTable  []int32
	chainTable []int32
}

// NewHCState allocates a ready-to-use HC encoder state.
func NewHCState() *HCState {
	s := &HCState{
		hashTable:  make([]int32, 1<<hcHashLog),
		chainTable: make([]int32, winMask+1),
	}
	s.Reset()
	return s
}

// Reset clears both tables, marking every slot invalid.
func (s *HCState) Reset() {
	for i := range s.hashTable {
		s.hashTable[i] = invalidPos
	}
	for i := range s.chainTable {
		s.chainTable[i] = invalidPos
	}
}

func (s *HCState) chainIndex(pos int) uint32 {
	return uint32(pos) & winMask
}

// insert records pos in the hash/chain tables, per spec §4.3's
// "For each input position, store a link to the previous position with
// the same 4-byte hash."
func (s *HCState) insert(w *window, pos int) {
	h := hash(w.u32At(pos), hcHashLog)
	s.chainTable[s.chainIndex(pos)] = s.hashTable[h]
	s.hashTable[h] = int32(pos)
}

// loadDict seeds the chain with every position of the dictionary window,
// so the first block of a stream can reference dictionary content
// exactly as if it had just been compressed (spec §4.5).
func (s *HCState) loadDict(w *window) {
	for p := -len(w.dict); p < 0; p++ {
		s.insert(w, p)
	}
}

// findLongestMatch walks the hash chain at si up to depth entries,
// keeping the longest valid match, and returns its length (0 if none
// reached MinMatch) and reference position.
func (s *HCState) findLongestMatch(w *window, si, sn, depth int) (mLen, ref int) {
	h := hash(w.u32At(si), hcHashLog)
	next := int(s.hashTable[h])
	limit := sn - si

	for try := depth; try > 0 && next != int(invalidPos) && si-next <= MaxOffset && next >= -len(w.dict); try-- {
		if w.byteAt(next+mLen) == w.byteAt(si+mLen) {
			ml := w.matchLen(next, si, limit)
			if ml >= MinMatch && ml > mLen {
				mLen = ml
				ref = next
			}
		}
		next = int(s.chainTable[s.chainIndex(next)])
	}
	return mLen, ref
}

// CompressBlockHC compresses src into dst with the high-compression
// parser at the given level (spec §4.3). dict, if non-nil, supplies up
// to 64 KiB of history the match finder may reference. It returns 0 (not
// an error) when the input did not compress.
func CompressBlockHC(src, dst []byte, level int, dict *Dict) (int, error) {
	level = ClampLevel(level)
	if level <= 2 {
		return CompressBlock(src, dst, NewHashTable(DefaultHashLog), dict, 3-level)
	}
	s := NewHCState()
	return s.Compress(src, dst, level, dict, false)
}

// Compress runs the greedy/lazy or optimal parser (depending on level)
// using s's tables, which may already hold chain entries from a prior
// call in the same stream. favorDecSpeed only affects the optimal parser
// (level >= optimalLevel); it is ignored below that (spec SPEC_FULL §D.2
// "favorDecSpeed").
func (s *HCState) Compress(src, dst []byte, level int, dict *Dict, favorDecSpeed bool) (di int, err error) {
	defer recoverBlock(&err)

	sn := len(src) - MFLimit
	if sn <= 0 || len(dst) == 0 {
		return 0, nil
	}

	w := &window{src: src}
	if dict != nil {
		w.dict = dict.window()
	}

	if level >= optimalLevel {
		return s.compressOptimal(w, dst, sn, levelDepth(level), favorDecSpeed)
	}

	depth := levelDepth(level)
	var si, anchor int

	for si < sn {
		mLen, ref := s.findLongestMatch(w, si, sn, depth)
		s.insert(w, si)

		if mLen < MinMatch {
			si++
			continue
		}

		// Lazy matching (spec §4.3): keep deferring to the next position
		// while it strictly improves on the current match.
		for si+1 < sn {
			mLen2, ref2 := s.findLongestMatch(w, si+1, sn, depth)
			if mLen2 <= mLen {
				break
			}
			s.insert(w, si+1)
			si++
			mLen, ref = mLen2, ref2
		}

		lLen := si - anchor
		offset := si - ref
		mStart := si
		si += mLen

		winStart := mStart + 1
		if ws := si - MaxOffset; ws > winStart {
			winStart = ws
		}
		for p := winStart; p < si; p++ {
			s.insert(w, p)
		}

		di = emitSequence(dst, di, src, anchor, lLen, offset, mLen)
		anchor = si
	}

	if anchor == 0 {
		return 0, nil
	}
	di = emitLastLiterals(dst, di, src, anchor)
	if di >= len(src) {
		return 0, nil
	}
	return di, nil
}
