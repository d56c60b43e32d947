// Package embedlog is the append-only, durable record of every embedding
// generated: one JSON line per generation event, rotated by size or day
// but never rewritten in place.
package embedlog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"github.com/todozi/todozi/pkg/errs"
	"github.com/todozi/todozi/pkg/logging"
)

// Record is one embedding-generation event. Unknown fields are tolerated on
// read (Go's encoding/json ignores them by default), so a log written by a
// newer version of this package with extra fields stays readable here.
type Record struct {
	Timestamp   time.Time `json:"timestamp"`
	ContentType string    `json:"content_type"`
	ID          string    `json:"id"`
	Project     string    `json:"project,omitempty"`
	Text        string    `json:"text"`
	Vector      []float64 `json:"vector"`
	ModelID     string    `json:"model_id"`
}

// Log is the append-only writer. It wraps a logging.RotatingFile so
// rotation (size- and day-based) is the same mechanism the diagnostic log
// uses, just pointed at structured data instead of slog output.
type Log struct {
	path string
	rf   *logging.RotatingFile
}

// Option configures a Log.
type Option func(*logging.RotatingFile)

// WithMaxSizeBytes rotates the current file once it exceeds this size.
func WithMaxSizeBytes(n int64) Option { return Option(logging.WithMaxSize(n)) }

// WithDailyRotation additionally rotates once per calendar day.
func WithDailyRotation() Option { return Option(logging.WithDailyRotation()) }

// Open creates or appends to the log file at path.
func Open(path string, opts ...Option) (*Log, error) {
	logOpts := make([]logging.Option, 0, len(opts))
	for _, o := range opts {
		logOpts = append(logOpts, logging.Option(o))
	}
	rf, err := logging.NewRotatingFile(path, logOpts...)
	if err != nil {
		return nil, errs.StorageWrap(err, "opening embedding log at %q", path)
	}
	return &Log{path: path, rf: rf}, nil
}

// Append writes one record as a single JSON line. Concurrent callers are
// safe: the underlying RotatingFile serializes writes.
func (l *Log) Append(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return errs.StorageWrap(err, "marshaling embedding record for id %q", rec.ID)
	}
	data = append(data, '\n')
	if _, err := l.rf.Write(data); err != nil {
		return errs.StorageWrap(err, "appending embedding record for id %q", rec.ID)
	}
	return nil
}

// Close closes the current file. Rotated backups remain on disk and
// readable by All.
func (l *Log) Close() error {
	return l.rf.Close()
}

// All reads every record across the current file and any rotated backups,
// oldest first. Individual malformed lines are skipped with a warning
// rather than failing the whole read, since the log is append-only and a
// single torn write (e.g. from a crash) should not make the rest
// unreadable.
func (l *Log) All() ([]Record, error) {
	paths, err := l.rotatedPaths()
	if err != nil {
		return nil, err
	}

	var out []Record
	for _, p := range paths {
		recs, err := readRecords(p)
		if err != nil {
			return nil, err
		}
		out = append(out, recs...)
	}
	return out, nil
}

// rotatedPaths returns every file backing this log, oldest backup first and
// the live file last (".N" backups count down from maxBackups to 1, so the
// highest N is oldest).
func (l *Log) rotatedPaths() ([]string, error) {
	dir := filepath.Dir(l.path)
	base := filepath.Base(l.path)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errs.StorageWrap(err, "listing embedding log directory %q", dir)
	}

	type backup struct {
		path string
		n    int
	}
	var backups []backup
	for _, e := range entries {
		name := e.Name()
		if name == base {
			continue
		}
		if !strings.HasPrefix(name, base+".") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(name, base+"."))
		if err != nil {
			continue
		}
		backups = append(backups, backup{path: filepath.Join(dir, name), n: n})
	}
	sort.Slice(backups, func(i, j int) bool { return backups[i].n > backups[j].n })

	paths := make([]string, 0, len(backups)+1)
	for _, b := range backups {
		paths = append(paths, b.path)
	}
	if _, err := os.Stat(l.path); err == nil {
		paths = append(paths, l.path)
	}
	return paths, nil
}

func readRecords(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errs.StorageWrap(err, "opening embedding log file %q", path)
	}
	defer f.Close()

	var out []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			slog.Warn("embedlog: skipping malformed record", "file", path, "error", err)
			continue
		}
		out = append(out, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.StorageWrap(err, "reading embedding log file %q", path)
	}
	return out, nil
}

// Backup writes every record, across all rotated files, as one consolidated
// newline-delimited file at destPath, using an atomic rename so a crash
// mid-write never leaves a half-written backup.
func (l *Log) Backup(destPath string) error {
	records, err := l.All()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return errs.StorageWrap(err, "marshaling record for backup")
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}

	if err := atomic.WriteFile(destPath, &buf); err != nil {
		return errs.StorageWrap(err, "writing backup to %q", destPath)
	}
	return nil
}

// Restore reads a backup file written by Backup and returns its records,
// for the caller to rehydrate a log and registry from. It does not itself
// append to this Log.
func Restore(srcPath string) ([]Record, error) {
	return readRecords(srcPath)
}
