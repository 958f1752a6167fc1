package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"primeexplorer/internal/model"
	"primeexplorer/internal/primes"
	"primeexplorer/internal/storage"
)

type Cfg struct {
	MaxBound        int
	MaxCachedPrimes int
	MaxEnqueuing    int
	EnqueueTimeout  time.Duration
	SnapshotPath    string
}

const (
	defaultMaxCachedPrimes = 1_000_000
	defaultMaxEnqueuing    = 64
	defaultEnqueueTimeout  = 2 * time.Second
)

var (
	ErrQueueTimeout = errors.New("timed out waiting for the sieve queue")
	ErrClosed       = errors.New("sequence service closed")
)

type jobKind byte

const (
	jobFirstN jobKind = iota
	jobUpTo
)

type job struct {
	kind jobKind
	arg  int
	done chan jobResult
}

type jobResult struct {
	values []int
	err    error
}

// primeTable holds every prime <= bound, ascending.
type primeTable struct {
	primes []int
	bound  int
}

/*
A single worker goroutine runs all sieve work:
- Ownership: only the worker reads or replaces the cached table, so no locks.
- Backpressure: the bounded job channel plus EnqueueTimeout fails callers fast
  instead of queueing unbounded sieve passes.
- Isolation: callers always receive a fresh copy, never the cached slice.
- Shutdown: on context cancellation the worker persists the table (when a
  snapshot path is configured) and every later call returns ErrClosed.
*/
type Service struct {
	cfg     Cfg
	jobs    chan job
	stopped chan struct{}
	table   primeTable
}

func New(ctx context.Context, cfg Cfg) (*Service, context.CancelFunc, error) {
	if cfg.MaxBound <= 0 || cfg.MaxBound > primes.MaxBound {
		cfg.MaxBound = primes.MaxBound
	}
	if cfg.MaxCachedPrimes <= 0 {
		cfg.MaxCachedPrimes = defaultMaxCachedPrimes
	}
	if cfg.MaxEnqueuing <= 0 {
		cfg.MaxEnqueuing = defaultMaxEnqueuing
	}
	if cfg.EnqueueTimeout <= 0 {
		cfg.EnqueueTimeout = defaultEnqueueTimeout
	}

	s := &Service{
		cfg:     cfg,
		jobs:    make(chan job, cfg.MaxEnqueuing),
		stopped: make(chan struct{}),
		table:   primeTable{primes: []int{}, bound: 1},
	}
	if cfg.SnapshotPath != "" {
		if err := s.loadSnapshot(); err != nil {
			return nil, nil, err
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	go func() {
		s.run(runCtx)
		if cfg.SnapshotPath != "" {
			s.saveSnapshot()
		}
		close(s.stopped)
	}()
	return s, cancel, nil
}

// FirstN returns the first n primes.
func (s *Service) FirstN(ctx context.Context, n int) ([]int, error) {
	return s.submit(ctx, jobFirstN, n)
}

// UpTo returns every prime <= limit.
func (s *Service) UpTo(ctx context.Context, limit int) ([]int, error) {
	return s.submit(ctx, jobUpTo, limit)
}

// Done is closed once the worker has exited and the snapshot, if any, is written.
func (s *Service) Done() <-chan struct{} {
	return s.stopped
}

func (s *Service) submit(ctx context.Context, kind jobKind, arg int) ([]int, error) {
	select {
	case <-s.stopped:
		return nil, ErrClosed
	default:
	}

	j := job{kind: kind, arg: arg, done: make(chan jobResult, 1)}
	timer := time.NewTimer(s.cfg.EnqueueTimeout)
	defer timer.Stop()

	select {
	case s.jobs <- j:
	case <-timer.C:
		return nil, ErrQueueTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.stopped:
		return nil, ErrClosed
	}

	select {
	case res := <-j.done:
		return res.values, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.stopped:
		select {
		case res := <-j.done:
			return res.values, res.err
		default:
			return nil, ErrClosed
		}
	}
}

func (s *Service) run(ctx context.Context) {
	for {
		select {
		case j := <-s.jobs:
			j.done <- s.handle(j)
		case <-ctx.Done():
			log.Printf("sequence service is shutting down - cached primes: %d", len(s.table.primes))
			return
		}
	}
}

func (s *Service) handle(j job) jobResult {
	switch j.kind {
	case jobFirstN:
		return s.firstN(j.arg)
	case jobUpTo:
		return s.upTo(j.arg)
	default:
		return jobResult{err: fmt.Errorf("unknown job kind %d", j.kind)}
	}
}

func (s *Service) firstN(n int) jobResult {
	if n <= 0 {
		return jobResult{values: []int{}}
	}
	if n <= len(s.table.primes) {
		return jobResult{values: clonePrefix(s.table.primes, n)}
	}
	found, err := primes.FirstNWithin(n, s.cfg.MaxBound)
	if err != nil {
		return jobResult{err: err}
	}
	s.adopt(primeTable{primes: found, bound: found[len(found)-1]})
	return jobResult{values: clonePrefix(found, n)}
}

func (s *Service) upTo(limit int) jobResult {
	if limit > s.cfg.MaxBound {
		return jobResult{err: fmt.Errorf("limit %d above %d: %w", limit, s.cfg.MaxBound, primes.ErrBoundExceeded)}
	}
	if limit <= s.table.bound {
		n := sort.SearchInts(s.table.primes, limit+1)
		return jobResult{values: clonePrefix(s.table.primes, n)}
	}
	found := primes.SieveUpTo(limit)
	s.adopt(primeTable{primes: found, bound: limit})
	return jobResult{values: clonePrefix(found, len(found))}
}

// adopt replaces the cached table when t covers more and still fits the cap.
func (s *Service) adopt(t primeTable) {
	if len(t.primes) > s.cfg.MaxCachedPrimes || t.bound <= s.table.bound {
		return
	}
	s.table = t
}

func (s *Service) loadSnapshot() error {
	seqs, err := storage.LoadFile(s.cfg.SnapshotPath)
	if err != nil {
		return err
	}
	for _, seq := range seqs {
		if seq.Kind != model.PRIMES {
			continue
		}
		if !validTable(seq.Values) || len(seq.Values) > s.cfg.MaxCachedPrimes {
			log.Printf("snapshot %s: discarding prime table of %d values", s.cfg.SnapshotPath, len(seq.Values))
			continue
		}
		if len(seq.Values) > 0 {
			s.adopt(primeTable{primes: seq.Values, bound: seq.Values[len(seq.Values)-1]})
		}
	}
	return nil
}

func (s *Service) saveSnapshot() {
	if len(s.table.primes) == 0 {
		return
	}
	seq := model.Sequence{Kind: model.PRIMES, Values: s.table.primes}
	if err := storage.SaveFile(s.cfg.SnapshotPath, seq); err != nil {
		log.Printf("snapshot %s: save failed: %v", s.cfg.SnapshotPath, err)
		return
	}
	log.Printf("saved %d primes to snapshot %s", len(s.table.primes), s.cfg.SnapshotPath)
}

// validTable reports whether vs looks like a prime table: it starts at 2,
// increases strictly and holds no even value after 2.
func validTable(vs []int) bool {
	if len(vs) == 0 {
		return true
	}
	if vs[0] != 2 {
		return false
	}
	for i := 1; i < len(vs); i++ {
		if vs[i] <= vs[i-1] || vs[i]%2 == 0 {
			return false
		}
	}
	return primes.IsPrime(vs[len(vs)-1])
}

func clonePrefix(vs []int, n int) []int {
	out := make([]int, n)
	copy(out, vs[:n])
	return out
}
