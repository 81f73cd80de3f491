package ktchn

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// jsonObject builds a JSON object with its fields in insertion order, so
// that snapshots are stable from one save to the next.
// Its zero value is ready to use.
type jsonObject struct {
	buf bytes.Buffer
	err error
}

// Field appends a key-value pair. The value is marshaled using json.Marshal.
func (w *jsonObject) Field(key string, value any) *jsonObject {
	if w.err != nil {
		return w
	}
	data, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("cannot marshal field %q: %w", key, err)
		return w
	}
	if w.buf.Len() > 0 {
		w.buf.WriteByte(',')
	}
	k, _ := json.Marshal(key)
	w.buf.Write(k)
	w.buf.WriteByte(':')
	w.buf.Write(data)
	return w
}

// Optional appends a key-value pair only if value is not the zero value of
// its type. Absent numbers and empty names are therefore left out.
func (w *jsonObject) Optional(key string, value any) *jsonObject {
	if w.err != nil {
		return w
	}
	v := reflect.ValueOf(value)
	if !v.IsValid() || v.IsZero() {
		return w
	}
	return w.Field(key, value)
}

// MarshalJSON returns the object built so far, or the first error met.
func (w *jsonObject) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	out := make([]byte, 0, w.buf.Len()+2)
	out = append(out, '{')
	out = append(out, w.buf.Bytes()...)
	out = append(out, '}')
	return out, nil
}
