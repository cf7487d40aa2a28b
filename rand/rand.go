//
// Copyright 2024 The Data Anonymizer Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

// Package rand provides cryptographically secure random numbers for salting,
// substitution, shuffling and noise sampling. The package-level functions
// share a single synchronized source; callers that process columns on
// independent workers can create one Source per worker instead.
package rand

import (
	"bufio"
	cryptorand "crypto/rand"
	"encoding/binary"
	"io"
	"math"
	mathrand "math/rand"
	"sync"

	log "github.com/golang/glog"
)

const saltAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Source is a buffered reader over the operating system's entropy pool.
// A Source is safe for concurrent use; dedicating one Source per worker
// avoids lock contention at the cost of nondeterministic interleaving
// between runs.
type Source struct {
	mu  sync.Mutex
	buf io.Reader
}

// NewSource returns a Source backed by crypto/rand with its own read buffer.
func NewSource() *Source {
	return &Source{buf: bufio.NewReaderSize(cryptorand.Reader, 65536)}
}

// global is the synchronized source behind the package-level functions.
var global = NewSource()

// Default returns the shared package-level Source.
func Default() *Source {
	return global
}

func (s *Source) read(b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.ReadFull(s.buf, b); err != nil {
		log.Fatalf("out of randomness, should never happen: %v", err)
	}
}

// U64 returns a uniformly random uint64.
func (s *Source) U64() uint64 {
	var r [8]uint8
	s.read(r[:])
	return binary.LittleEndian.Uint64(r[:])
}

// Boolean returns true or false with equal probability.
func (s *Source) Boolean() bool {
	var r [1]uint8
	s.read(r[:])
	return r[0]&1 == 1
}

// Sign returns +1.0 or -1.0 with equal probabilities.
func (s *Source) Sign() float64 {
	if s.Boolean() {
		return 1.0
	}
	return -1.0
}

// I63n returns an integer from the set {0,...,n-1} uniformly at random.
// The value of n must be positive.
func (s *Source) I63n(n int64) int64 {
	largestMultipleOfN := (math.MaxInt64 / n) * n
	var positiveRandomInteger int64
	for {
		// Draw a random 64 bit sequence and clear the sign bit.
		positiveRandomInteger = int64(s.U64()) & 0x7fffffffffffffff
		if positiveRandomInteger < largestMultipleOfN {
			break
		}
	}
	return positiveRandomInteger % n
}

// Uniform returns a float64 from the interval (0,1] such that each float
// in the interval is returned with positive probability and the resulting
// distribution simulates a continuous uniform distribution on (0, 1].
func (s *Source) Uniform() float64 {
	i := s.U64() % (1 << 53)
	r := (1 + float64(i)/(1<<53)) / math.Pow(2, s.geometricHalf())
	// We want to avoid returning 0, since callers may take the log of the output.
	if r == 0 {
		return 1
	}
	return r
}

// geometricHalf counts the number of Bernoulli trials until the first success
// for a success probability of 0.5. One plus the number of leading zeros from
// an infinite stream of random bits follows the desired distribution.
func (s *Source) geometricHalf() float64 {
	b := 1
	var r [1]uint8
	for {
		s.read(r[:])
		if r[0] != 0 {
			break
		}
		b += 8
	}
	v := r[0]
	for v&0x80 == 0 {
		v <<= 1
		b++
	}
	return float64(b)
}

// Normal returns a normally distributed float with mean 0 and standard deviation 1.
func (s *Source) Normal() float64 {
	return mathrand.New(&secureSource{s: s}).NormFloat64()
}

// Shuffle performs a Fisher-Yates shuffle of n elements using the secure source.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := int(s.I63n(int64(i + 1)))
		swap(i, j)
	}
}

// AlphanumericString returns a random string of length n drawn from
// [A-Za-z0-9], suitable as a high-entropy salt.
func (s *Source) AlphanumericString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = saltAlphabet[s.I63n(int64(len(saltAlphabet)))]
	}
	return string(b)
}

// U64 returns a uniformly random uint64 from the shared source.
func U64() uint64 { return global.U64() }

// Boolean returns true or false with equal probability from the shared source.
func Boolean() bool { return global.Boolean() }

// Sign returns +1.0 or -1.0 with equal probabilities from the shared source.
func Sign() float64 { return global.Sign() }

// I63n returns an integer from {0,...,n-1} uniformly at random from the shared source.
func I63n(n int64) int64 { return global.I63n(n) }

// Uniform returns a float64 from (0,1] from the shared source.
func Uniform() float64 { return global.Uniform() }

// Normal returns a standard normal sample from the shared source.
func Normal() float64 { return global.Normal() }

// Shuffle shuffles n elements using the shared source.
func Shuffle(n int, swap func(i, j int)) { global.Shuffle(n, swap) }

// AlphanumericString returns a random [A-Za-z0-9] string from the shared source.
func AlphanumericString(n int) string { return global.AlphanumericString(n) }

// secureSource implements a cryptographically secure math/rand.Source.
type secureSource struct {
	s *Source
}

// Int63 returns a uniformly random int64 in [0, 1<<63).
func (ss *secureSource) Int63() int64 {
	i := int64(ss.s.U64())
	if i < 0 {
		return -i
	}
	return i
}

// Seed is a no-op.
func (ss *secureSource) Seed(_ int64) {}
