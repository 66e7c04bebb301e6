package attempt

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/adaptiq/internal/difficulty"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func rec(tier difficulty.Tier, correct bool, took float64) Record {
	return Record{Timestamp: t0, Tier: tier, Prompt: "1 + 1 = ?", Answer: 2, Correct: correct, TimeTaken: took}
}

func TestLog_AppendSnapshot(t *testing.T) {
	l := NewLog("")
	assert.Equal(t, DefaultUser, l.User())

	local := time.FixedZone("X", 3600)
	l.Append(Record{Timestamp: t0.In(local), Prompt: "a", TimeTaken: -1})
	l.Append(Record{Timestamp: t0, Prompt: "b"})
	l.Append(Record{Timestamp: t0, Prompt: "c", TimeTaken: math.NaN()})

	snap := l.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "a", snap[0].Prompt)
	assert.Equal(t, "b", snap[1].Prompt)
	assert.Equal(t, time.UTC, snap[0].Timestamp.Location())
	assert.Equal(t, 0.0, snap[0].TimeTaken)
	assert.Equal(t, DefaultUser, snap[0].User)
	assert.Equal(t, 0.0, snap[2].TimeTaken)
	assert.False(t, math.IsNaN(l.Summary().MeanTime))

	snap[0].Prompt = "changed"
	assert.Equal(t, "a", l.Snapshot()[0].Prompt)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "AdaLovelace20240301T120000Z.csv", FileName("Ada Lovelace", t0))
	assert.Equal(t, "a_b20240301T120000Z.csv", FileName("a/b", t0))
	assert.Equal(t, "Learner20240301T120000Z.csv", FileName("   ", t0))
}

func TestExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	l := NewLog("Ada Lovelace")
	l.Append(Record{Timestamp: t0, Tier: difficulty.Medium, Prompt: "6 * 7 = ?", Answer: 42, Correct: true, TimeTaken: 3.25})

	path, err := l.Export(dir, t0)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "AdaLovelace20240301T120000Z.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "timestamp,user,difficulty,prompt,answer,correct,time_taken", lines[0])
	assert.Equal(t, "2024-03-01T12:00:00Z,Ada Lovelace,Medium,6 * 7 = ?,42,true,3.25", lines[1])
}

func TestExport_SameSecondDoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	first := NewLog("Ada")
	first.Append(rec(difficulty.Easy, true, 1))

	p1, err := first.Export(dir, t0)
	require.NoError(t, err)
	p2, err := NewLog("Ada").Export(dir, t0)
	require.NoError(t, err)
	p3, err := NewLog("Ada").Export(dir, t0)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "Ada20240301T120000Z.csv"), p1)
	assert.Equal(t, filepath.Join(dir, "Ada20240301T120000Z-2.csv"), p2)
	assert.Equal(t, filepath.Join(dir, "Ada20240301T120000Z-3.csv"), p3)

	f, err := os.Open(p1)
	require.NoError(t, err)
	defer f.Close()
	records, err := ReadCSV(f)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestExport_EmptyLogWritesHeader(t *testing.T) {
	path, err := NewLog("x").Export(t.TempDir(), t0)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := ReadCSV(f)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCSVRoundTrip(t *testing.T) {
	in := []Record{
		{Timestamp: t0.Add(1500 * time.Millisecond), User: "Sam, Jr.", Tier: difficulty.Hard, Prompt: "84 / 7 = ?", Answer: 12, Correct: false, TimeTaken: 30.125},
		{Timestamp: t0, User: "Sam", Tier: difficulty.Easy, Prompt: "3 - 8 = ?", Answer: -5, Correct: true, TimeTaken: 0},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, in))

	out, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, out, 2)
	for i := range in {
		assert.True(t, in[i].Timestamp.Equal(out[i].Timestamp))
		out[i].Timestamp = in[i].Timestamp
	}
	assert.Equal(t, in, out)
}

func TestReadCSV_Errors(t *testing.T) {
	tests := map[string]string{
		"wrong header": "a,b,c,d,e,f,g\n",
		"bad tier":     strings.Join(Header, ",") + "\n2024-03-01T12:00:00Z,u,Expert,p,1,true,1\n",
		"bad bool":     strings.Join(Header, ",") + "\n2024-03-01T12:00:00Z,u,Easy,p,1,maybe,1\n",
		"short row":    strings.Join(Header, ",") + "\n2024-03-01T12:00:00Z,u\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(content))
			assert.Error(t, err)
		})
	}
}
