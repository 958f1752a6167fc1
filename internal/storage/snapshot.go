package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"primeexplorer/internal/model"
)

// Note: snapshot files have a single writer (the engine worker on shutdown)
// and a single reader (the engine worker on start). Nothing here coordinates
// concurrent access beyond the atomic rename on save.

// SaveFile writes seqs to path as consecutive frames. The data goes to a
// temporary file that is synced and renamed over path, so readers never see
// a partially written snapshot.
func SaveFile(path string, seqs ...model.Sequence) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	var record []byte
	for _, seq := range seqs {
		if record, err = AppendFrame(record, seq); err != nil {
			_ = tmp.Close()
			return err
		}
	}
	if err := WriteFrames(tmp, record); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// WriteFrames writes already encoded frames to w.
func WriteFrames(w io.Writer, record []byte) error {
	writer := bufio.NewWriter(w)
	if _, err := writer.Write(record); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// LoadFile reads every intact frame from path. It stops at the first corrupt
// or truncated frame and returns what precedes it. A missing file yields no
// sequences and no error.
func LoadFile(path string) ([]model.Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	var seqs []model.Sequence
	for {
		seq, err := ReadFrame(reader)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Printf("snapshot %s: stopping at frame %d: %v", path, len(seqs), err)
			break
		}
		seqs = append(seqs, seq)
	}
	log.Printf("loaded %d sequences from snapshot %s", len(seqs), path)
	return seqs, nil
}
