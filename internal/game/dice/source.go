package dice

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand"
)

// cryptoSource implements Source using crypto/rand.
//
// Invariant: All values produced are uniformly distributed in [0, n) for any n > 0.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
// Panics with "dice: crypto/rand failure: <err>" if crypto/rand fails.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// seededSource implements Source with a deterministic math/rand generator.
type seededSource struct {
	rng *mrand.Rand
}

// NewSeededSource returns a Source that produces the same sequence for the
// same seed. Intended for tests and replayable sessions.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewSeededSource(seed int64) Source {
	return &seededSource{rng: mrand.New(mrand.NewSource(seed))}
}

// Intn returns the next value of the seeded sequence in [0, n).
//
// Precondition: n > 0. Panics if n <= 0.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	return s.rng.Intn(n)
}

// FixedSource replays predetermined die faces. Each call to Intn returns the
// next face minus one, so a FixedSource of {20, 3} rolls a 20 then a 3.
// Faces wrap around when exhausted and are reduced modulo n.
type FixedSource struct {
	Faces []int
	next  int
}

// NewFixedSource returns a FixedSource replaying faces.
//
// Precondition: len(faces) > 0.
func NewFixedSource(faces ...int) *FixedSource {
	return &FixedSource{Faces: faces}
}

// Intn returns (next face - 1) mod n.
//
// Precondition: n > 0 and len(f.Faces) > 0.
func (f *FixedSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	if len(f.Faces) == 0 {
		panic("dice: FixedSource has no faces")
	}
	face := f.Faces[f.next%len(f.Faces)]
	f.next++
	v := (face - 1) % n
	if v < 0 {
		v += n
	}
	return v
}
