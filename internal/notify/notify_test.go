package notify

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog_Notify(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	NewLog(logger).Notify("Categories added while loading books:\nAventura with 2 books.\n")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Categories added while loading books:", entry["msg"])
	assert.Equal(t, "notify", entry["component"])
	assert.Equal(t, []any{"Aventura with 2 books."}, entry["lines"])
}

func TestWriter_Notify(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	w.Notify("first\n")
	w.Notify("second")

	assert.Equal(t, "first\n\nsecond\n\n", buf.String())
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	assert.Empty(t, r.Messages())
	assert.Equal(t, "", r.Last())

	r.Notify("a")
	r.Notify("b")

	assert.Equal(t, []string{"a", "b"}, r.Messages())
	assert.Equal(t, "b", r.Last())

	msgs := r.Messages()
	msgs[0] = "changed"
	assert.Equal(t, "a", r.Messages()[0])

	r.Reset()
	assert.Empty(t, r.Messages())
}

func TestMulti(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}

	Multi{a, nil, b}.Notify("hello")

	assert.Equal(t, []string{"hello"}, a.Messages())
	assert.Equal(t, []string{"hello"}, b.Messages())
}
