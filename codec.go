package vocab

import (
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// state is the saved form. Index is optional: when present it is checked
// against Tokens, otherwise it is rebuilt.
type state[T comparable] struct {
	Tokens []T       `msgpack:"tokens" cbor:"tokens"`
	Index  map[T]int `msgpack:"index,omitempty" cbor:"index,omitempty"`
}

func (v *Vocabulary[T]) restore(st state[T]) error {
	nv, err := NewWithIndex(st.Tokens, st.Index)
	if err != nil {
		return err
	}
	*v = *nv
	return nil
}

func (v *Vocabulary[T]) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(state[T]{Tokens: v.tokens})
}

func (v *Vocabulary[T]) DecodeMsgpack(dec *msgpack.Decoder) error {
	var st state[T]
	if err := dec.Decode(&st); err != nil {
		return err
	}
	return v.restore(st)
}

func (v *Vocabulary[T]) MarshalBinary() ([]byte, error) {
	return msgpack.Marshal(v)
}

func (v *Vocabulary[T]) UnmarshalBinary(data []byte) error {
	return msgpack.Unmarshal(data, v)
}

func (v *Vocabulary[T]) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(state[T]{Tokens: v.tokens})
}

func (v *Vocabulary[T]) UnmarshalCBOR(data []byte) error {
	var st state[T]
	if err := cbor.Unmarshal(data, &st); err != nil {
		return err
	}
	return v.restore(st)
}

type countWriter struct {
	w io.Writer
	n int64
}

func (cw *countWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

type countReader struct {
	r io.Reader
	n int64
}

func (cr *countReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}

// countScanner keeps r an io.ByteScanner so the decoder reads it directly
// instead of buffering ahead.
type countScanner struct {
	countReader
	bs io.ByteScanner
}

func (cs *countScanner) ReadByte() (byte, error) {
	b, err := cs.bs.ReadByte()
	if err == nil {
		cs.n++
	}
	return b, err
}

func (cs *countScanner) UnreadByte() error {
	err := cs.bs.UnreadByte()
	if err == nil {
		cs.n--
	}
	return err
}

// WriteTo writes v as a single msgpack value.
func (v *Vocabulary[T]) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: w}
	err := msgpack.NewEncoder(cw).Encode(v)
	return cw.n, err
}

// ReadFrom replaces v with the value written by WriteTo. When r is an
// io.ByteScanner, such as a *bufio.Reader, exactly one value is consumed, so
// several vocabularies can be read back to back from one stream. Any other
// reader is buffered and may be read past the end of the value.
func (v *Vocabulary[T]) ReadFrom(r io.Reader) (int64, error) {
	if bs, ok := r.(io.ByteScanner); ok {
		cs := &countScanner{countReader: countReader{r: r}, bs: bs}
		err := msgpack.NewDecoder(cs).Decode(v)
		return cs.n, err
	}
	cr := &countReader{r: r}
	err := msgpack.NewDecoder(cr).Decode(v)
	return cr.n, err
}

// Fingerprint hashes the token sequence. Vocabularies holding the same tokens
// with the same ids share a fingerprint.
func (v *Vocabulary[T]) Fingerprint() (uint64, error) {
	data, err := msgpack.Marshal(v.tokens)
	if err != nil {
		return 0, fmt.Errorf("fingerprint: %w", err)
	}
	return xxhash.Sum64(data), nil
}
