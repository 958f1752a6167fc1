package primes

import (
	"errors"
	"reflect"
	"testing"
)

func TestGaps(t *testing.T) {
	if got := Gaps([]int{2, 3, 5, 7, 11}); !reflect.DeepEqual(got, []int{1, 2, 2, 4}) {
		t.Fatalf("Gaps = %v, want [1 2 2 4]", got)
	}
	if got := Gaps([]int{2}); len(got) != 0 {
		t.Fatalf("Gaps of single prime = %v, want empty", got)
	}
	if got := Gaps(nil); got == nil || len(got) != 0 {
		t.Fatalf("Gaps(nil) = %#v, want empty non-nil slice", got)
	}
}

func TestGapsAreEvenAfterFirst(t *testing.T) {
	ps, err := FirstN(2000)
	if err != nil {
		t.Fatalf("FirstN: %v", err)
	}
	gaps := Gaps(ps)
	if len(gaps) != len(ps)-1 {
		t.Fatalf("expected %d gaps, got %d", len(ps)-1, len(gaps))
	}
	if gaps[0] != 1 {
		t.Fatalf("first gap = %d, want 1", gaps[0])
	}
	for i, g := range gaps[1:] {
		if g < 2 || g%2 != 0 {
			t.Fatalf("gap %d = %d, want even and >= 2", i+1, g)
		}
	}
}

func TestFactorize(t *testing.T) {
	cases := []struct {
		n    int
		want []int
	}{
		{n: -12, want: []int{}},
		{n: 0, want: []int{}},
		{n: 1, want: []int{}},
		{n: 2, want: []int{2}},
		{n: 17, want: []int{17}},
		{n: 60, want: []int{2, 2, 3, 5}},
		{n: 1024, want: []int{2, 2, 2, 2, 2, 2, 2, 2, 2, 2}},
		{n: 9973 * 2, want: []int{2, 9973}},
		{n: 3 * 3 * 7 * 11 * 11, want: []int{3, 3, 7, 11, 11}},
	}
	for _, tc := range cases {
		if got := Factorize(tc.n); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Factorize(%d) = %v, want %v", tc.n, got, tc.want)
		}
	}
}

func TestFactorizeProductAndPrimality(t *testing.T) {
	for n := 2; n <= 3000; n++ {
		factors := Factorize(n)
		product := 1
		for i, f := range factors {
			if !IsPrime(f) {
				t.Fatalf("Factorize(%d) has non-prime factor %d", n, f)
			}
			if i > 0 && f < factors[i-1] {
				t.Fatalf("Factorize(%d) not ascending: %v", n, factors)
			}
			product *= f
		}
		if product != n {
			t.Fatalf("product of Factorize(%d) = %d", n, product)
		}
	}
}

func TestResidues(t *testing.T) {
	got, err := Residues([]int{2, 3, 5, 7, 11, 13}, 6)
	if err != nil {
		t.Fatalf("Residues: %v", err)
	}
	if want := []int{2, 3, 5, 1, 5, 1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Residues = %v, want %v", got, want)
	}

	if _, err := Residues([]int{2, 3}, 0); !errors.Is(err, ErrInvalidModulus) {
		t.Fatalf("expected ErrInvalidModulus, got %v", err)
	}
}

func TestCounting(t *testing.T) {
	got := Counting(10)
	want := []int{0, 0, 1, 2, 2, 3, 3, 4, 4, 4, 4}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Counting(10) = %v, want %v", got, want)
	}
	if got := Counting(-1); len(got) != 0 {
		t.Fatalf("Counting(-1) = %v, want empty", got)
	}
	if got := Counting(0); !reflect.DeepEqual(got, []int{0}) {
		t.Fatalf("Counting(0) = %v, want [0]", got)
	}
	if got := Counting(1000); got[1000] != 168 {
		t.Fatalf("pi(1000) = %d, want 168", got[1000])
	}
}
