package vocab

import (
	"bufio"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestBinaryRoundTrip(t *testing.T) {
	v := New("the", "cat", "sat")
	data, err := v.MarshalBinary()
	require.NoError(t, err)

	var got Vocabulary[string]
	require.NoError(t, got.UnmarshalBinary(data))
	assert.Equal(t, v.Tokens(), got.Tokens())
	assert.Equal(t, 1, got.Lookup("cat"))
	assert.Equal(t, 3, got.Ensure("mat"))
}

func TestWriteToReadFrom(t *testing.T) {
	v := New(3, 1, 4, 15, 9)
	var buf bytes.Buffer
	n, err := v.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	got := New[int]()
	m, err := got.ReadFrom(&buf)
	require.NoError(t, err)
	assert.Equal(t, n, m)
	assert.Equal(t, []int{3, 1, 4, 15, 9}, got.Tokens())
	assert.Equal(t, 3, got.Lookup(15))
}

func TestReadFromBackToBack(t *testing.T) {
	var buf bytes.Buffer
	n1, err := New("a", "b").WriteTo(&buf)
	require.NoError(t, err)
	n2, err := New("c").WriteTo(&buf)
	require.NoError(t, err)

	f := filepath.Join(t.TempDir(), "vocabs.bin")
	require.NoError(t, os.WriteFile(f, buf.Bytes(), 0o644))
	fd, err := os.Open(f)
	require.NoError(t, err)
	defer fd.Close()
	r := bufio.NewReader(fd)

	first := New[string]()
	m1, err := first.ReadFrom(r)
	require.NoError(t, err)
	assert.Equal(t, n1, m1)
	second := New[string]()
	m2, err := second.ReadFrom(r)
	require.NoError(t, err)
	assert.Equal(t, n2, m2)

	assert.Equal(t, []string{"a", "b"}, first.Tokens())
	assert.Equal(t, []string{"c"}, second.Tokens())
}

func TestCBORRoundTrip(t *testing.T) {
	v := New("x", "y")
	data, err := cbor.Marshal(v)
	require.NoError(t, err)

	got := New[string]()
	require.NoError(t, cbor.Unmarshal(data, got))
	assert.Equal(t, []string{"x", "y"}, got.Tokens())
	assert.Equal(t, 1, got.Lookup("y"))
}

func TestEmbeddedMsgpack(t *testing.T) {
	type model struct {
		Words   *Vocabulary[string] `msgpack:"words"`
		Weights []float64           `msgpack:"weights"`
	}
	in := model{Words: New("a", "b"), Weights: []float64{0.5, 1.5}}
	data, err := msgpack.Marshal(&in)
	require.NoError(t, err)

	var out model
	require.NoError(t, msgpack.Unmarshal(data, &out))
	require.NotNil(t, out.Words)
	assert.Equal(t, []string{"a", "b"}, out.Words.Tokens())
	assert.Equal(t, in.Weights, out.Weights)
}

func TestRestoreEmpty(t *testing.T) {
	data, err := New[string]().MarshalBinary()
	require.NoError(t, err)
	got := New("stale")
	require.NoError(t, got.UnmarshalBinary(data))
	assert.Equal(t, 0, got.Size())
	assert.Equal(t, Unknown, got.Lookup("stale"))
}

func TestRestoreWithIndex(t *testing.T) {
	cases := []struct {
		name    string
		st      state[string]
		corrupt bool
	}{
		{
			name: "consistent index",
			st:   state[string]{Tokens: []string{"a", "b"}, Index: map[string]int{"a": 0, "b": 1}},
		},
		{
			name:    "inconsistent index",
			st:      state[string]{Tokens: []string{"a", "b"}, Index: map[string]int{"a": 0, "b": 0}},
			corrupt: true,
		},
		{
			name:    "duplicate tokens",
			st:      state[string]{Tokens: []string{"a", "a"}},
			corrupt: true,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			data, err := msgpack.Marshal(c.st)
			require.NoError(t, err)
			var got Vocabulary[string]
			err = got.UnmarshalBinary(data)
			if c.corrupt {
				assert.True(t, errors.Is(err, ErrCorrupt))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.st.Tokens, got.Tokens())

			data, err = cbor.Marshal(c.st)
			require.NoError(t, err)
			require.NoError(t, got.UnmarshalCBOR(data))
			assert.Equal(t, c.st.Tokens, got.Tokens())
		})
	}
}

func TestFingerprint(t *testing.T) {
	a := New("a", "b", "c")
	b := New[string]()
	b.EnsureAll([]string{"a", "b", "c"})
	fa, err := a.Fingerprint()
	require.NoError(t, err)
	fb, err := b.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, fa, fb)

	b.Compress(func(_ int, w string) bool { return w != "b" })
	fb, err = b.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, fa, fb)

	c := New("c", "b", "a")
	fc, err := c.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, fa, fc)
}
