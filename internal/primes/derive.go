package primes

import (
	"errors"
	"fmt"
)

var ErrInvalidModulus = errors.New("modulus must be positive")

// Gaps returns the differences between consecutive elements of primes.
// The input is trusted to be ascending; it is not re-validated.
func Gaps(primes []int) []int {
	if len(primes) < 2 {
		return []int{}
	}
	out := make([]int, len(primes)-1)
	for i := 1; i < len(primes); i++ {
		out[i-1] = primes[i] - primes[i-1]
	}
	return out
}

// Factorize returns the prime factors of n in ascending order, with
// multiplicity. Values below 2 have no factors.
func Factorize(n int) []int {
	factors := []int{}
	if n < 2 {
		return factors
	}
	for n%2 == 0 {
		factors = append(factors, 2)
		n /= 2
	}
	// n shrinks as factors are removed, so the i*i bound tightens too.
	for i := 3; i <= n/i; i += 2 {
		for n%i == 0 {
			factors = append(factors, i)
			n /= i
		}
	}
	if n > 1 {
		factors = append(factors, n)
	}
	return factors
}

// Residues maps every prime to its remainder modulo m.
func Residues(primes []int, m int) ([]int, error) {
	if m < 1 {
		return nil, fmt.Errorf("modulus %d: %w", m, ErrInvalidModulus)
	}
	out := make([]int, len(primes))
	for i, p := range primes {
		out[i] = p % m
	}
	return out, nil
}

// Counting returns pi(k), the number of primes <= k, for k = 0..limit.
func Counting(limit int) []int {
	if limit < 0 {
		return []int{}
	}
	counts := make([]int, limit+1)
	found := SieveUpTo(limit)
	idx := 0
	for k := range counts {
		for idx < len(found) && found[idx] <= k {
			idx++
		}
		counts[k] = idx
	}
	return counts
}
