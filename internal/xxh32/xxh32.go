// Package xxh32 implements the 32-bit xxHash checksum algorithm (XXH32),
// the non-cryptographic hash the LZ4 frame format uses for its header,
// block and content checksums.
//
// The hasher is treated as an opaque collaborator by the rest of the
// module: construct one with New, feed it bytes with Write, and read the
// running digest with Sum32. Checksum is the one-shot form.
package xxh32

import "encoding/binary"

const (
	prime1 uint32 = 2654435761
	prime2 uint32 = 2246822519
	prime3 uint32 = 3266489917
	prime4 uint32 = 668265263
	prime5 uint32 = 374761393
)

// Digest computes a running XXH32 checksum. The zero value is not usable;
// construct one with New.
type Digest struct {
	seed       uint32
	v1, v2, v3, v4 uint32
	totalLen   uint64
	buf        [16]byte
	bufUsed    int
}

// New returns a Digest seeded with seed.
func New(seed uint32) *Digest {
	d := &Digest{}
	d.Reset(seed)
	return d
}

// Reset reinitializes the digest with a (possibly new) seed.
func (d *Digest) Reset(seed uint32) {
	d.seed = seed
	d.v1 = seed + prime1 + prime2
	d.v2 = seed + prime2
	d.v3 = seed
	d.v4 = seed - prime1
	d.totalLen = 0
	d.bufUsed = 0
}

// Write implements io.Writer. It never returns an error.
func (d *Digest) Write(p []byte) (int, error) {
	n := len(p)
	d.totalLen += uint64(n)

	if d.bufUsed+n < 16 {
		copy(d.buf[d.bufUsed:], p)
		d.bufUsed += n
		return n, nil
	}

	if d.bufUsed > 0 {
		need := 16 - d.bufUsed
		copy(d.buf[d.bufUsed:], p[:need])
		d.round4(d.buf[:])
		p = p[need:]
		d.bufUsed = 0
	}

	for len(p) >= 16 {
		d.round4(p)
		p = p[16:]
	}

	if len(p) > 0 {
		d.bufUsed = copy(d.buf[:], p)
	}
	return n, nil
}

func (d *Digest) round4(p []byte) {
	d.v1 = round(d.v1, binary.LittleEndian.Uint32(p[0:]))
	d.v2 = round(d.v2, binary.LittleEndian.Uint32(p[4:]))
	d.v3 = round(d.v3, binary.LittleEndian.Uint32(p[8:]))
	d.v4 = round(d.v4, binary.LittleEndian.Uint32(p[12:]))
}

// Sum32 returns the digest of all bytes written so far. It does not
// mutate the Digest, so more bytes may be written afterwards.
func (d *Digest) Sum32() uint32 {
	var h uint32
	if d.totalLen >= 16 {
		h = rotl(d.v1, 1) + rotl(d.v2, 7) + rotl(d.v3, 12) + rotl(d.v4, 18)
	} else {
		h = d.seed + prime5
	}
	h += uint32(d.totalLen)

	p := d.buf[:d.bufUsed]
	for len(p) >= 4 {
		h += binary.LittleEndian.Uint32(p) * prime3
		h = rotl(h, 17) * prime4
		p = p[4:]
	}
	for _, b := range p {
		h += uint32(b) * prime5
		h = rotl(h, 11) * prime1
	}

	h ^= h >> 15
	h *= prime2
	h ^= h >> 13
	h *= prime3
	h ^= h >> 16
	return h
}

// Checksum returns the XXH32 digest of input under seed, in one shot.
func Checksum(seed uint32, input []byte) uint32 {
	n := len(input)
	var h uint32
	p := 0

	if n >= 16 {
		v1 := seed + prime1 + prime2
		v2 := seed + prime2
		v3 := seed
		v4 := seed - prime1
		for n-p >= 16 {
			v1 = round(v1, binary.LittleEndian.Uint32(input[p:]))
			v2 = round(v2, binary.LittleEndian.Uint32(input[p+4:]))
			v3 = round(v3, binary.LittleEndian.Uint32(input[p+8:]))
			v4 = round(v4, binary.LittleEndian.Uint32(input[p+12:]))
			p += 16
		}
		h = rotl(v1, 1) + rotl(v2, 7) + rotl(v3, 12) + rotl(v4, 18)
	} else {
		h = seed + prime5
	}

	h += uint32(n)
	for n-p >= 4 {
		h += binary.LittleEndian.Uint32(input[p:]) * prime3
		h = rotl(h, 17) * prime4
		p += 4
	}
	for p < n {
		h += uint32(input[p]) * prime5
		h = rotl(h, 11) * prime1
		p++
	}

	h ^= h >> 15
	h *= prime2
	h ^= h >> 13
	h *= prime3
	h ^= h >> 16
	return h
}

func round(acc, input uint32) uint32 {
	acc += input * prime2
	acc = rotl(acc, 13)
	acc *= prime1
	return acc
}

func rotl(x uint32, r uint) uint32 {
	return (x << r) | (x >> (32 - r))
}
