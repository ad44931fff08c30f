package tree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

var errInvalidJSON = errors.New("tree: invalid JSON")

// MarshalJSON implements json.Marshaler, emitting mapping keys in insertion
// order.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler. Mappings keep the key order of
// the input and a repeated key keeps its first position with the last value.
// Numbers become int64 when they are integral and fit, float64 otherwise.
func (n *Node) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	decoded, err := decodeJSONValue(dec)
	if err != nil {
		return fmt.Errorf("tree: decoding JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errInvalidJSON
	}
	*n = *decoded
	return nil
}

func decodeJSONValue(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := NewMapping()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, errInvalidJSON
				}
				child, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				m.Set(key, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil
		case '[':
			var items []*Node
			for dec.More() {
				item, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return Sequence(items...), nil
		default:
			return nil, errInvalidJSON
		}
	case json.Number:
		return FromAny(t), nil
	case nil:
		return Null(), nil
	default:
		return Scalar(t), nil
	}
}

func (n *Node) writeJSON(buf *bytes.Buffer) error {
	switch n.Kind() {
	case KindNull:
		buf.WriteString("null")
		return nil
	case KindScalar:
		return writeJSONScalar(buf, n.value)
	case KindSequence:
		buf.WriteByte('[')
		for i, item := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		buf.WriteByte('{')
		for i, k := range n.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			keyJSON, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(keyJSON)
			buf.WriteByte(':')
			if err := n.fields[k].writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	}
}

func writeJSONScalar(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case int64:
		buf.WriteString(strconv.FormatInt(val, 10))
		return nil
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return fmt.Errorf("tree: %v cannot be represented in JSON", val)
		}
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Errorf("tree: encoding float as JSON: %w", err)
		}
		buf.Write(data)
		// Whole floats keep a fraction so they decode as floats again.
		if !bytes.ContainsAny(data, ".eE") {
			buf.WriteString(".0")
		}
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("tree: encoding %T as JSON: %w", v, err)
	}
	buf.Write(data)
	return nil
}
