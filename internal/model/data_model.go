package model

type SequenceKind byte

const (
	PRIMES SequenceKind = iota
	GAPS
	FACTORS
	RESIDUES
	COUNTS
)

var kindNames = [...]string{
	PRIMES:   "primes",
	GAPS:     "gaps",
	FACTORS:  "factors",
	RESIDUES: "residues",
	COUNTS:   "counts",
}

func (k SequenceKind) Valid() bool {
	return int(k) < len(kindNames)
}

func (k SequenceKind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return kindNames[k]
}

// Sequence is an ordered integer list tagged with what it was derived as.
type Sequence struct {
	Kind   SequenceKind
	Values []int
}
