package primes

import (
	"errors"
	"fmt"
	"math"
)

// MaxBound is the largest sieve bound FirstN will grow to. The sieve keeps
// one byte per integer up to the bound, so memory, not this constant, is the
// practical limit on most machines: a bound of 2^31-1 needs about 2 GiB.
const MaxBound = math.MaxInt32

const (
	smallCountBound = 15
	smallCountLimit = 6
	boundInflation  = 1.3
)

var ErrBoundExceeded = errors.New("prime bound exceeded")

// SieveUpTo returns every prime <= limit in ascending order.
// The marker buffer holds limit+1 bytes; callers bound limit themselves.
func SieveUpTo(limit int) []int {
	if limit < 2 {
		return []int{}
	}

	composite := make([]bool, limit+1)
	out := make([]int, 0, countHint(limit))
	for i := 2; i <= limit; i++ {
		if composite[i] {
			continue
		}
		out = append(out, i)
		// Multiples below i*i already carry a smaller factor.
		if i > limit/i {
			continue
		}
		for j := i * i; j <= limit; j += i {
			composite[j] = true
		}
	}
	return out
}

// FirstN returns exactly the first n primes, growing the sieve up to MaxBound.
func FirstN(n int) ([]int, error) {
	return FirstNWithin(n, MaxBound)
}

// FirstNWithin is FirstN with a caller supplied cap on the sieve bound.
// The bound starts from an estimate of the n-th prime and doubles until the
// sieve yields n primes. If n primes do not fit below maxBound it returns
// ErrBoundExceeded.
func FirstNWithin(n, maxBound int) ([]int, error) {
	if n <= 0 {
		return []int{}, nil
	}
	if n == 1 {
		return []int{2}, nil
	}

	bound := estimateBound(n)
	for {
		if bound > maxBound {
			bound = maxBound
		}
		found := SieveUpTo(bound)
		if len(found) >= n {
			return found[:n:n], nil
		}
		if bound >= maxBound {
			return nil, fmt.Errorf("%d primes need a bound above %d: %w", n, maxBound, ErrBoundExceeded)
		}
		if bound > maxBound/2 {
			bound = maxBound
		} else {
			bound *= 2
		}
	}
}

// IsPrime tests n by trial division with odd candidates up to sqrt(n).
func IsPrime(n int) bool {
	if n < 2 {
		return false
	}
	if n == 2 {
		return true
	}
	if n%2 == 0 {
		return false
	}
	for i := 3; i <= n/i; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}

// estimateBound approximates the n-th prime by n(ln n + ln ln n), inflated
// so that the first sieve pass usually suffices.
func estimateBound(n int) int {
	if n < smallCountLimit {
		return smallCountBound
	}
	f := float64(n)
	ln := math.Log(f)
	est := f * (ln + math.Log(ln)) * boundInflation
	if est >= float64(MaxBound) {
		return MaxBound
	}
	return int(est)
}

// countHint is an upper estimate of pi(limit) used to size the output slice.
func countHint(limit int) int {
	if limit < 17 {
		return limit/2 + 1
	}
	f := float64(limit)
	return int(1.26*f/math.Log(f)) + 1
}
