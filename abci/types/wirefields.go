package types

import "google.golang.org/protobuf/encoding/protowire"

// rawField is one decoded (tag, value) pair from a protobuf wire-format
// message, used by every message's Unmarshal to walk its own fields without
// requiring full protoc-generated reflection.
type rawField struct {
	Num   protowire.Number
	Typ   protowire.Type
	Bytes []byte // set when Typ == BytesType
	Varint uint64 // set when Typ == VarintType
}

// parseFields decodes every top-level (tag, value) pair in data. It is the
// shared primitive every concrete message's Unmarshal builds on.
func parseFields(data []byte) ([]rawField, error) {
	var out []rawField
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		data = data[n:]

		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			out = append(out, rawField{Num: num, Typ: typ, Varint: v})
			data = data[n:]
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			buf := make([]byte, len(v))
			copy(buf, v)
			out = append(out, rawField{Num: num, Typ: typ, Bytes: buf})
			data = data[n:]
		case protowire.Fixed32Type:
			_, n := protowire.ConsumeFixed32(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			data = data[n:]
		case protowire.Fixed64Type:
			_, n := protowire.ConsumeFixed64(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return out, nil
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, []byte(s))
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendInt64(b []byte, num protowire.Number, v int64) []byte {
	return appendVarint(b, num, uint64(v))
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	return appendVarint(b, num, 1)
}

func stringOf(f rawField) string { return string(f.Bytes) }
func bytesOf(f rawField) []byte  { return f.Bytes }
func int64Of(f rawField) int64   { return int64(f.Varint) }
func uint32Of(f rawField) uint32 { return uint32(f.Varint) }
func boolOf(f rawField) bool     { return f.Varint != 0 }
