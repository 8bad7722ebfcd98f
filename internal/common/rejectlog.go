package common

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// RejectEntry records one flight log record that was skipped.
type RejectEntry struct {
	File   string    `json:"file"`
	Record int       `json:"record"`
	Offset int64     `json:"offset"`
	Field  string    `json:"field,omitempty"`
	Reason string    `json:"reason"`
	RawHex string    `json:"rawHex,omitempty"`
	Ts     time.Time `json:"ts"`
}

// RawBytes decodes the hexadecimal copy of the failing field's bytes.
func (e RejectEntry) RawBytes() ([]byte, error) {
	if strings.TrimSpace(e.RawHex) == "" {
		return nil, nil
	}
	return hex.DecodeString(e.RawHex)
}

// RejectLog appends rejected records to a JSONL file.
type RejectLog struct {
	path string
	mu   sync.Mutex
}

func NewRejectLog(path string) *RejectLog {
	return &RejectLog{path: path}
}

func (r *RejectLog) Path() string {
	if r == nil {
		return ""
	}
	return r.path
}

// Append writes entry as one JSON line.
func (r *RejectLog) Append(entry RejectEntry) error {
	if r == nil {
		return errors.New("nil reject log")
	}
	if entry.File == "" {
		return errors.New("reject entry missing file")
	}
	if entry.Ts.IsZero() {
		entry.Ts = time.Now().UTC()
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	dir := filepath.Dir(r.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(append(data, '\n'))
	return err
}

// ReadRejectLog loads every entry from the supplied JSONL file.
func ReadRejectLog(path string) ([]RejectEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	var entries []RejectEntry
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry RejectEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, fmt.Errorf("decode reject entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
