package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"primeexplorer/internal/engine"
	"primeexplorer/internal/model"
	"primeexplorer/internal/primes"
	"primeexplorer/internal/storage"
)

// MaxTrialInput bounds single-value queries so trial division stays below
// roughly 5e7 steps.
const MaxTrialInput int64 = 1 << 53

// Sequencer produces prime tables. *engine.Service satisfies it.
type Sequencer interface {
	FirstN(ctx context.Context, n int) ([]int, error)
	UpTo(ctx context.Context, limit int) ([]int, error)
}

// Limits caps what a single request may ask for.
type Limits struct {
	MaxCount int
	MaxBound int
}

var errBadParam = errors.New("bad parameter")

// Handlers implements ServerInterface on top of a Sequencer.
type Handlers struct {
	seq    Sequencer
	limits Limits
}

func NewHandlers(seq Sequencer, limits Limits) *Handlers {
	return &Handlers{seq: seq, limits: limits}
}

func (h *Handlers) GetPrimes(w http.ResponseWriter, r *http.Request, params GetPrimesParams) {
	if err := h.checkCount(params.Count); err != nil {
		writeError(w, err)
		return
	}
	ps, err := h.seq.FirstN(r.Context(), params.Count)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSequence(w, params.Format, model.Sequence{Kind: model.PRIMES, Values: ps})
}

func (h *Handlers) GetPrimesUpTo(w http.ResponseWriter, r *http.Request, limit int, params FormatParams) {
	if err := h.checkBound("limit", limit); err != nil {
		writeError(w, err)
		return
	}
	ps, err := h.seq.UpTo(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSequence(w, params.Format, model.Sequence{Kind: model.PRIMES, Values: ps})
}

func (h *Handlers) GetGaps(w http.ResponseWriter, r *http.Request, params GetGapsParams) {
	if err := h.checkCount(params.Count); err != nil {
		writeError(w, err)
		return
	}
	ps, err := h.seq.FirstN(r.Context(), params.Count)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSequence(w, params.Format, model.Sequence{Kind: model.GAPS, Values: primes.Gaps(ps)})
}

func (h *Handlers) GetResidues(w http.ResponseWriter, r *http.Request, params GetResiduesParams) {
	if err := h.checkCount(params.Count); err != nil {
		writeError(w, err)
		return
	}
	if params.Modulus < 1 {
		writeError(w, fmt.Errorf("modulus %d: %w", params.Modulus, primes.ErrInvalidModulus))
		return
	}
	ps, err := h.seq.FirstN(r.Context(), params.Count)
	if err != nil {
		writeError(w, err)
		return
	}
	rs, err := primes.Residues(ps, params.Modulus)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSequence(w, params.Format, model.Sequence{Kind: model.RESIDUES, Values: rs})
}

func (h *Handlers) GetCounting(w http.ResponseWriter, r *http.Request, limit int, params FormatParams) {
	// The table has limit+1 entries, so it is held to the count cap.
	if limit < 0 || limit >= h.limits.MaxCount {
		writeError(w, fmt.Errorf("limit %d outside [0, %d): %w", limit, h.limits.MaxCount, errBadParam))
		return
	}
	writeSequence(w, params.Format, model.Sequence{Kind: model.COUNTS, Values: primes.Counting(limit)})
}

func (h *Handlers) GetFactors(w http.ResponseWriter, r *http.Request, n int, params FormatParams) {
	if err := checkTrialInput(n); err != nil {
		writeError(w, err)
		return
	}
	writeSequence(w, params.Format, model.Sequence{Kind: model.FACTORS, Values: primes.Factorize(n)})
}

func (h *Handlers) GetIsPrime(w http.ResponseWriter, r *http.Request, n int) {
	if err := checkTrialInput(n); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PrimalityResponse{N: n, Prime: primes.IsPrime(n)})
}

func (h *Handlers) checkCount(n int) error {
	if n < 0 || n > h.limits.MaxCount {
		return fmt.Errorf("count %d outside [0, %d]: %w", n, h.limits.MaxCount, errBadParam)
	}
	return nil
}

func (h *Handlers) checkBound(name string, v int) error {
	if v < 0 || v > h.limits.MaxBound {
		return fmt.Errorf("%s %d outside [0, %d]: %w", name, v, h.limits.MaxBound, errBadParam)
	}
	return nil
}

func checkTrialInput(n int) error {
	if n < 0 || int64(n) > MaxTrialInput {
		return fmt.Errorf("n %d outside [0, %d]: %w", n, MaxTrialInput, errBadParam)
	}
	return nil
}

func writeSequence(w http.ResponseWriter, format *Format, seq model.Sequence) {
	if format != nil && *format == FormatBinary {
		record, err := storage.AppendFrame(nil, seq)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.WriteHeader(http.StatusOK)
		_ = storage.WriteFrames(w, record)
		return
	}
	if format != nil && *format != FormatJson {
		writeError(w, fmt.Errorf("format %q: %w", *format, errBadParam))
		return
	}
	writeJSON(w, http.StatusOK, SequenceResponse{
		Kind:   seq.Kind.String(),
		Count:  len(seq.Values),
		Values: seq.Values,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), ErrorResponse{Message: err.Error()})
}

func statusFor(err error) int {
	var paramErr *InvalidParamFormatError
	switch {
	case errors.Is(err, errBadParam), errors.Is(err, primes.ErrInvalidModulus), errors.As(err, &paramErr):
		return http.StatusBadRequest
	case errors.Is(err, primes.ErrBoundExceeded), errors.Is(err, storage.ErrValueRange):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, engine.ErrQueueTimeout), errors.Is(err, engine.ErrClosed),
		errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
