package embedlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog_AppendAndAll(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(filepath.Join(dir, "embed.jsonl"))
	require.NoError(t, err)
	defer l.Close()

	rec := Record{
		Timestamp:   time.Now(),
		ContentType: "task",
		ID:          "t1",
		Text:        "implement login",
		Vector:      []float64{0.1, 0.2, 0.3},
		ModelID:     "local/dev",
	}
	require.NoError(t, l.Append(rec))

	recs, err := l.All()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "t1", recs[0].ID)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, recs[0].Vector)
}

func TestLog_AppendMultiplePreservesOrder(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(filepath.Join(dir, "embed.jsonl"))
	require.NoError(t, err)
	defer l.Close()

	for i, id := range []string{"a", "b", "c"} {
		_ = i
		require.NoError(t, l.Append(Record{ID: id, ContentType: "task"}))
	}

	recs, err := l.All()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{recs[0].ID, recs[1].ID, recs[2].ID})
}

func TestLog_BackupAndRestore(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(filepath.Join(dir, "embed.jsonl"))
	require.NoError(t, err)
	defer l.Close()

	require.NoError(t, l.Append(Record{ID: "t1", ContentType: "task", Vector: []float64{1, 2}}))
	require.NoError(t, l.Append(Record{ID: "t2", ContentType: "memory", Vector: []float64{3, 4}}))

	backupPath := filepath.Join(dir, "backup.jsonl")
	require.NoError(t, l.Backup(backupPath))

	restored, err := Restore(backupPath)
	require.NoError(t, err)
	require.Len(t, restored, 2)
	assert.Equal(t, "t1", restored[0].ID)
	assert.Equal(t, "t2", restored[1].ID)
}

func TestLog_SkipsMalformedLinesOnRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "embed.jsonl")
	l, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l.Append(Record{ID: "good"}))
	require.NoError(t, l.Close())

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString("not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	l2, err := Open(path)
	require.NoError(t, err)
	defer l2.Close()

	recs, err := l2.All()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "good", recs[0].ID)
}
