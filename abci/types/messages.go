package types

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// messageBody is implemented by every concrete Request*/Response* struct.
// It knows how to marshal and unmarshal only its own fields; the oneof
// envelope tag is handled once, generically, by Request/Response.
type messageBody interface {
	marshalFields() []byte
	unmarshalFields(fields []rawField) error
}

// Request is the tagged union over the 15 ABCI request variants.
type Request struct {
	Name  Name
	Value messageBody
}

// Response is the tagged union over the 15 ABCI response variants,
// symmetric to Request.
type Response struct {
	Name  Name
	Value messageBody
}

// Marshal encodes the request as its oneof wire representation.
func (r Request) Marshal() ([]byte, error) {
	num, ok := oneofField[r.Name]
	if !ok {
		return nil, fmt.Errorf("types: unknown request name %q", r.Name)
	}
	inner := r.Value.marshalFields()
	var b []byte
	b = protowire.AppendTag(b, num, protowire.BytesType)
	b = protowire.AppendBytes(b, inner)
	return b, nil
}

// Marshal encodes the response as its oneof wire representation.
func (r Response) Marshal() ([]byte, error) {
	num, ok := oneofField[r.Name]
	if !ok {
		return nil, fmt.Errorf("types: unknown response name %q", r.Name)
	}
	inner := r.Value.marshalFields()
	var b []byte
	b = protowire.AppendTag(b, num, protowire.BytesType)
	b = protowire.AppendBytes(b, inner)
	return b, nil
}

// UnmarshalRequest parses one length-delimited protobuf payload into a
// Request, identifying the active oneof variant by its field number.
func UnmarshalRequest(data []byte) (Request, error) {
	fields, err := parseFields(data)
	if err != nil {
		return Request{}, err
	}
	if len(fields) == 0 {
		return Request{}, fmt.Errorf("types: %w: empty request", ErrUnknownMethod)
	}
	f := fields[len(fields)-1]
	name, ok := fieldOneof[f.Num]
	if !ok {
		return Request{}, fmt.Errorf("types: %w: oneof field %d", ErrUnknownMethod, f.Num)
	}
	value := newRequestValue(name)
	inner, err := parseFields(f.Bytes)
	if err != nil {
		return Request{}, err
	}
	if err := value.unmarshalFields(inner); err != nil {
		return Request{}, err
	}
	return Request{Name: name, Value: value}, nil
}

// UnmarshalResponse is the Response-side counterpart of UnmarshalRequest.
func UnmarshalResponse(data []byte) (Response, error) {
	fields, err := parseFields(data)
	if err != nil {
		return Response{}, err
	}
	if len(fields) == 0 {
		return Response{}, fmt.Errorf("types: %w: empty response", ErrUnknownMethod)
	}
	f := fields[len(fields)-1]
	name, ok := fieldOneof[f.Num]
	if !ok {
		return Response{}, fmt.Errorf("types: %w: oneof field %d", ErrUnknownMethod, f.Num)
	}
	value := newResponseValue(name)
	inner, err := parseFields(f.Bytes)
	if err != nil {
		return Response{}, err
	}
	if err := value.unmarshalFields(inner); err != nil {
		return Response{}, err
	}
	return Response{Name: name, Value: value}, nil
}

func newRequestValue(name Name) messageBody {
	switch name {
	case NameEcho:
		return &RequestEcho{}
	case NameFlush:
		return &RequestFlush{}
	case NameInfo:
		return &RequestInfo{}
	case NameSetOption:
		return &RequestSetOption{}
	case NameQuery:
		return &RequestQuery{}
	case NameCheckTx:
		return &RequestCheckTx{}
	case NameInitChain:
		return &RequestInitChain{}
	case NameBeginBlock:
		return &RequestBeginBlock{}
	case NameDeliverTx:
		return &RequestDeliverTx{}
	case NameEndBlock:
		return &RequestEndBlock{}
	case NameCommit:
		return &RequestCommit{}
	case NameListSnapshots:
		return &RequestListSnapshots{}
	case NameOfferSnapshot:
		return &RequestOfferSnapshot{}
	case NameLoadSnapshotChunk:
		return &RequestLoadSnapshotChunk{}
	case NameApplySnapshotChunk:
		return &RequestApplySnapshotChunk{}
	default:
		return nil
	}
}

func newResponseValue(name Name) messageBody {
	switch name {
	case NameEcho:
		return &ResponseEcho{}
	case NameFlush:
		return &ResponseFlush{}
	case NameInfo:
		return &ResponseInfo{}
	case NameSetOption:
		return &ResponseSetOption{}
	case NameQuery:
		return &ResponseQuery{}
	case NameCheckTx:
		return &ResponseCheckTx{}
	case NameInitChain:
		return &ResponseInitChain{}
	case NameBeginBlock:
		return &ResponseBeginBlock{}
	case NameDeliverTx:
		return &ResponseDeliverTx{}
	case NameEndBlock:
		return &ResponseEndBlock{}
	case NameCommit:
		return &ResponseCommit{}
	case NameListSnapshots:
		return &ResponseListSnapshots{}
	case NameOfferSnapshot:
		return &ResponseOfferSnapshot{}
	case NameLoadSnapshotChunk:
		return &ResponseLoadSnapshotChunk{}
	case NameApplySnapshotChunk:
		return &ResponseApplySnapshotChunk{}
	default:
		return nil
	}
}

// --- echo / flush -----------------------------------------------------

type RequestEcho struct{ Message string }

func (m *RequestEcho) marshalFields() []byte { return appendString(nil, 1, m.Message) }
func (m *RequestEcho) unmarshalFields(fields []rawField) error {
	for _, f := range fields {
		if f.Num == 1 {
			m.Message = stringOf(f)
		}
	}
	return nil
}

type ResponseEcho struct{ Message string }

func (m *ResponseEcho) marshalFields() []byte { return appendString(nil, 1, m.Message) }
func (m *ResponseEcho) unmarshalFields(fields []rawField) error {
	for _, f := range fields {
		if f.Num == 1 {
			m.Message = stringOf(f)
		}
	}
	return nil
}

type RequestFlush struct{}

func (m *RequestFlush) marshalFields() []byte                  { return nil }
func (m *RequestFlush) unmarshalFields(fields []rawField) error { return nil }

type ResponseFlush struct{}

func (m *ResponseFlush) marshalFields() []byte                  { return nil }
func (m *ResponseFlush) unmarshalFields(fields []rawField) error { return nil }

// --- info / set_option / query -----------------------------------------

type RequestInfo struct {
	Version      string
	BlockVersion uint64
	P2PVersion   uint64
}

func (m *RequestInfo) marshalFields() []byte {
	b := appendString(nil, 1, m.Version)
	b = appendVarint(b, 2, m.BlockVersion)
	b = appendVarint(b, 3, m.P2PVersion)
	return b
}
func (m *RequestInfo) unmarshalFields(fields []rawField) error {
	for _, f := range fields {
		switch f.Num {
		case 1:
			m.Version = stringOf(f)
		case 2:
			m.BlockVersion = f.Varint
		case 3:
			m.P2PVersion = f.Varint
		}
	}
	return nil
}

type ResponseInfo struct {
	Data             string
	Version          string
	AppVersion       uint64
	LastBlockHeight  int64
	LastBlockAppHash []byte
}

func (m *ResponseInfo) marshalFields() []byte {
	b := appendString(nil, 1, m.Data)
	b = appendString(b, 2, m.Version)
	b = appendVarint(b, 3, m.AppVersion)
	b = appendInt64(b, 4, m.LastBlockHeight)
	b = appendBytes(b, 5, m.LastBlockAppHash)
	return b
}
func (m *ResponseInfo) unmarshalFields(fields []rawField) error {
	for _, f := range fields {
		switch f.Num {
		case 1:
			m.Data = stringOf(f)
		case 2:
			m.Version = stringOf(f)
		case 3:
			m.AppVersion = f.Varint
		case 4:
			m.LastBlockHeight = int64Of(f)
		case 5:
			m.LastBlockAppHash = bytesOf(f)
		}
	}
	return nil
}

type RequestSetOption struct{ Key, Value string }

func (m *RequestSetOption) marshalFields() []byte {
	b := appendString(nil, 1, m.Key)
	b = appendString(b, 2, m.Value)
	return b
}
func (m *RequestSetOption) unmarshalFields(fields []rawField) error {
	for _, f := range fields {
		switch f.Num {
		case 1:
			m.Key = stringOf(f)
		case 2:
			m.Value = stringOf(f)
		}
	}
	return nil
}

type ResponseSetOption struct {
	Code uint32
	Log  string
	Info string
}

func (m *ResponseSetOption) marshalFields() []byte {
	b := appendVarint(nil, 1, uint64(m.Code))
	b = appendString(b, 2, m.Log)
	b = appendString(b, 3, m.Info)
	return b
}
func (m *ResponseSetOption) unmarshalFields(fields []rawField) error {
	for _, f := range fields {
		switch f.Num {
		case 1:
			m.Code = uint32Of(f)
		case 2:
			m.Log = stringOf(f)
		case 3:
			m.Info = stringOf(f)
		}
	}
	return nil
}

type RequestQuery struct {
	Data   []byte
	Path   string
	Height int64
	Prove  bool
}

func (m *RequestQuery) marshalFields() []byte {
	b := appendBytes(nil, 1, m.Data)
	b = appendString(b, 2, m.Path)
	b = appendInt64(b, 3, m.Height)
	b = appendBool(b, 4, m.Prove)
	return b
}
func (m *RequestQuery) unmarshalFields(fields []rawField) error {
	for _, f := range fields {
		switch f.Num {
		case 1:
			m.Data = bytesOf(f)
		case 2:
			m.Path = stringOf(f)
		case 3:
			m.Height = int64Of(f)
		case 4:
			m.Prove = boolOf(f)
		}
	}
	return nil
}

type ResponseQuery struct {
	Code      uint32
	Log       string
	Info      string
	Index     int64
	Key       []byte
	Value     []byte
	Height    int64
	Codespace string
}

func (m *ResponseQuery) marshalFields() []byte {
	b := appendVarint(nil, 1, uint64(m.Code))
	b = appendString(b, 2, m.Log)
	b = appendString(b, 3, m.Info)
	b = appendInt64(b, 4, m.Index)
	b = appendBytes(b, 5, m.Key)
	b = appendBytes(b, 6, m.Value)
	b = appendInt64(b, 7, m.Height)
	b = appendString(b, 8, m.Codespace)
	return b
}
func (m *ResponseQuery) unmarshalFields(fields []rawField) error {
	for _, f := range fields {
		switch f.Num {
		case 1:
			m.Code = uint32Of(f)
		case 2:
			m.Log = stringOf(f)
		case 3:
			m.Info = stringOf(f)
		case 4:
			m.Index = int64Of(f)
		case 5:
			m.Key = bytesOf(f)
		case 6:
			m.Value = bytesOf(f)
		case 7:
			m.Height = int64Of(f)
		case 8:
			m.Codespace = stringOf(f)
		}
	}
	return nil
}

// --- check_tx ------------------------------------------------------------

type RequestCheckTx struct {
	Tx   []byte
	Type int32
}

func (m *RequestCheckTx) marshalFields() []byte {
	b := appendBytes(nil, 1, m.Tx)
	b = appendVarint(b, 2, uint64(m.Type))
	return b
}
func (m *RequestCheckTx) unmarshalFields(fields []rawField) error {
	for _, f := range fields {
		switch f.Num {
		case 1:
			m.Tx = bytesOf(f)
		case 2:
			m.Type = int32(f.Varint)
		}
	}
	return nil
}

type ResponseCheckTx struct {
	Code      uint32
	Data      []byte
	Log       string
	Info      string
	GasWanted int64
	GasUsed   int64
	Codespace string
}

func (m *ResponseCheckTx) marshalFields() []byte {
	b := appendVarint(nil, 1, uint64(m.Code))
	b = appendBytes(b, 2, m.Data)
	b = appendString(b, 3, m.Log)
	b = appendString(b, 4, m.Info)
	b = appendInt64(b, 5, m.GasWanted)
	b = appendInt64(b, 6, m.GasUsed)
	b = appendString(b, 7, m.Codespace)
	return b
}
func (m *ResponseCheckTx) unmarshalFields(fields []rawField) error {
	for _, f := range fields {
		switch f.Num {
		case 1:
			m.Code = uint32Of(f)
		case 2:
			m.Data = bytesOf(f)
		case 3:
			m.Log = stringOf(f)
		case 4:
			m.Info = stringOf(f)
		case 5:
			m.GasWanted = int64Of(f)
		case 6:
			m.GasUsed = int64Of(f)
		case 7:
			m.Codespace = stringOf(f)
		}
	}
	return nil
}

// --- init_chain / begin_block / deliver_tx / end_block / commit --------

type RequestInitChain struct {
	Time          int64
	ChainID       string
	AppStateBytes []byte
	InitialHeight int64
}

func (m *RequestInitChain) marshalFields() []byte {
	b := appendInt64(nil, 1, m.Time)
	b = appendString(b, 2, m.ChainID)
	b = appendBytes(b, 3, m.AppStateBytes)
	b = appendInt64(b, 4, m.InitialHeight)
	return b
}
func (m *RequestInitChain) unmarshalFields(fields []rawField) error {
	for _, f := range fields {
		switch f.Num {
		case 1:
			m.Time = int64Of(f)
		case 2:
			m.ChainID = stringOf(f)
		case 3:
			m.AppStateBytes = bytesOf(f)
		case 4:
			m.InitialHeight = int64Of(f)
		}
	}
	return nil
}

type ResponseInitChain struct {
	AppHash []byte
}

func (m *ResponseInitChain) marshalFields() []byte { return appendBytes(nil, 2, m.AppHash) }
func (m *ResponseInitChain) unmarshalFields(fields []rawField) error {
	for _, f := range fields {
		if f.Num == 2 {
			m.AppHash = bytesOf(f)
		}
	}
	return nil
}

type RequestBeginBlock struct {
	Hash   []byte
	Height int64
}

func (m *RequestBeginBlock) marshalFields() []byte {
	b := appendBytes(nil, 1, m.Hash)
	b = appendInt64(b, 2, m.Height)
	return b
}
func (m *RequestBeginBlock) unmarshalFields(fields []rawField) error {
	for _, f := range fields {
		switch f.Num {
		case 1:
			m.Hash = bytesOf(f)
		case 2:
			m.Height = int64Of(f)
		}
	}
	return nil
}

type ResponseBeginBlock struct{}

func (m *ResponseBeginBlock) marshalFields() []byte                  { return nil }
func (m *ResponseBeginBlock) unmarshalFields(fields []rawField) error { return nil }

type RequestDeliverTx struct{ Tx []byte }

func (m *RequestDeliverTx) marshalFields() []byte { return appendBytes(nil, 1, m.Tx) }
func (m *RequestDeliverTx) unmarshalFields(fields []rawField) error {
	for _, f := range fields {
		if f.Num == 1 {
			m.Tx = bytesOf(f)
		}
	}
	return nil
}

type ResponseDeliverTx struct {
	Code      uint32
	Data      []byte
	Log       string
	Info      string
	GasWanted int64
	GasUsed   int64
	Codespace string
}

func (m *ResponseDeliverTx) marshalFields() []byte {
	b := appendVarint(nil, 1, uint64(m.Code))
	b = appendBytes(b, 2, m.Data)
	b = appendString(b, 3, m.Log)
	b = appendString(b, 4, m.Info)
	b = appendInt64(b, 5, m.GasWanted)
	b = appendInt64(b, 6, m.GasUsed)
	b = appendString(b, 7, m.Codespace)
	return b
}
func (m *ResponseDeliverTx) unmarshalFields(fields []rawField) error {
	for _, f := range fields {
		switch f.Num {
		case 1:
			m.Code = uint32Of(f)
		case 2:
			m.Data = bytesOf(f)
		case 3:
			m.Log = stringOf(f)
		case 4:
			m.Info = stringOf(f)
		case 5:
			m.GasWanted = int64Of(f)
		case 6:
			m.GasUsed = int64Of(f)
		case 7:
			m.Codespace = stringOf(f)
		}
	}
	return nil
}

type RequestEndBlock struct{ Height int64 }

func (m *RequestEndBlock) marshalFields() []byte { return appendInt64(nil, 1, m.Height) }
func (m *RequestEndBlock) unmarshalFields(fields []rawField) error {
	for _, f := range fields {
		if f.Num == 1 {
			m.Height = int64Of(f)
		}
	}
	return nil
}

type ResponseEndBlock struct{}

func (m *ResponseEndBlock) marshalFields() []byte                  { return nil }
func (m *ResponseEndBlock) unmarshalFields(fields []rawField) error { return nil }

type RequestCommit struct{}

func (m *RequestCommit) marshalFields() []byte                  { return nil }
func (m *RequestCommit) unmarshalFields(fields []rawField) error { return nil }

type ResponseCommit struct {
	Data         []byte
	RetainHeight int64
}

func (m *ResponseCommit) marshalFields() []byte {
	b := appendBytes(nil, 2, m.Data)
	b = appendInt64(b, 3, m.RetainHeight)
	return b
}
func (m *ResponseCommit) unmarshalFields(fields []rawField) error {
	for _, f := range fields {
		switch f.Num {
		case 2:
			m.Data = bytesOf(f)
		case 3:
			m.RetainHeight = int64Of(f)
		}
	}
	return nil
}

// --- state sync ----------------------------------------------------------

type RequestListSnapshots struct{}

func (m *RequestListSnapshots) marshalFields() []byte                  { return nil }
func (m *RequestListSnapshots) unmarshalFields(fields []rawField) error { return nil }

// Snapshot describes one state-sync snapshot offer. Nested validator-set
// and chunk-hash detail that the real ABCI schema carries is intentionally
// omitted here: state-sync chunking logic is a collaborator concern this
// engine only needs to frame and dispatch, never inspect.
type Snapshot struct {
	Height   uint64
	Format   uint32
	Chunks   uint32
	Hash     []byte
	Metadata []byte
}

type ResponseListSnapshots struct {
	Snapshots []Snapshot
}

func (m *ResponseListSnapshots) marshalFields() []byte {
	var b []byte
	for _, s := range m.Snapshots {
		var sb []byte
		sb = appendVarint(sb, 1, s.Height)
		sb = appendVarint(sb, 2, uint64(s.Format))
		sb = appendVarint(sb, 3, uint64(s.Chunks))
		sb = appendBytes(sb, 4, s.Hash)
		sb = appendBytes(sb, 5, s.Metadata)
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, sb)
	}
	return b
}
func (m *ResponseListSnapshots) unmarshalFields(fields []rawField) error {
	for _, f := range fields {
		if f.Num != 1 {
			continue
		}
		inner, err := parseFields(f.Bytes)
		if err != nil {
			return err
		}
		var s Snapshot
		for _, sf := range inner {
			switch sf.Num {
			case 1:
				s.Height = sf.Varint
			case 2:
				s.Format = uint32Of(sf)
			case 3:
				s.Chunks = uint32Of(sf)
			case 4:
				s.Hash = bytesOf(sf)
			case 5:
				s.Metadata = bytesOf(sf)
			}
		}
		m.Snapshots = append(m.Snapshots, s)
	}
	return nil
}

type RequestOfferSnapshot struct {
	Snapshot Snapshot
	AppHash  []byte
}

func (m *RequestOfferSnapshot) marshalFields() []byte {
	var sb []byte
	sb = appendVarint(sb, 1, m.Snapshot.Height)
	sb = appendVarint(sb, 2, uint64(m.Snapshot.Format))
	sb = appendVarint(sb, 3, uint64(m.Snapshot.Chunks))
	sb = appendBytes(sb, 4, m.Snapshot.Hash)
	sb = appendBytes(sb, 5, m.Snapshot.Metadata)

	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, sb)
	b = appendBytes(b, 2, m.AppHash)
	return b
}
func (m *RequestOfferSnapshot) unmarshalFields(fields []rawField) error {
	for _, f := range fields {
		switch f.Num {
		case 1:
			inner, err := parseFields(f.Bytes)
			if err != nil {
				return err
			}
			for _, sf := range inner {
				switch sf.Num {
				case 1:
					m.Snapshot.Height = sf.Varint
				case 2:
					m.Snapshot.Format = uint32Of(sf)
				case 3:
					m.Snapshot.Chunks = uint32Of(sf)
				case 4:
					m.Snapshot.Hash = bytesOf(sf)
				case 5:
					m.Snapshot.Metadata = bytesOf(sf)
				}
			}
		case 2:
			m.AppHash = bytesOf(f)
		}
	}
	return nil
}

type ResponseOfferSnapshot struct{ Result int32 }

func (m *ResponseOfferSnapshot) marshalFields() []byte { return appendVarint(nil, 1, uint64(m.Result)) }
func (m *ResponseOfferSnapshot) unmarshalFields(fields []rawField) error {
	for _, f := range fields {
		if f.Num == 1 {
			m.Result = int32(f.Varint)
		}
	}
	return nil
}

type RequestLoadSnapshotChunk struct {
	Height uint64
	Format uint32
	Chunk  uint32
}

func (m *RequestLoadSnapshotChunk) marshalFields() []byte {
	b := appendVarint(nil, 1, m.Height)
	b = appendVarint(b, 2, uint64(m.Format))
	b = appendVarint(b, 3, uint64(m.Chunk))
	return b
}
func (m *RequestLoadSnapshotChunk) unmarshalFields(fields []rawField) error {
	for _, f := range fields {
		switch f.Num {
		case 1:
			m.Height = f.Varint
		case 2:
			m.Format = uint32Of(f)
		case 3:
			m.Chunk = uint32Of(f)
		}
	}
	return nil
}

type ResponseLoadSnapshotChunk struct{ Chunk []byte }

func (m *ResponseLoadSnapshotChunk) marshalFields() []byte { return appendBytes(nil, 1, m.Chunk) }
func (m *ResponseLoadSnapshotChunk) unmarshalFields(fields []rawField) error {
	for _, f := range fields {
		if f.Num == 1 {
			m.Chunk = bytesOf(f)
		}
	}
	return nil
}

type RequestApplySnapshotChunk struct {
	Index  uint32
	Chunk  []byte
	Sender string
}

func (m *RequestApplySnapshotChunk) marshalFields() []byte {
	b := appendVarint(nil, 1, uint64(m.Index))
	b = appendBytes(b, 2, m.Chunk)
	b = appendString(b, 3, m.Sender)
	return b
}
func (m *RequestApplySnapshotChunk) unmarshalFields(fields []rawField) error {
	for _, f := range fields {
		switch f.Num {
		case 1:
			m.Index = uint32Of(f)
		case 2:
			m.Chunk = bytesOf(f)
		case 3:
			m.Sender = stringOf(f)
		}
	}
	return nil
}

type ResponseApplySnapshotChunk struct {
	Result        int32
	RefetchChunks []uint32
	RejectSenders []string
}

func (m *ResponseApplySnapshotChunk) marshalFields() []byte {
	b := appendVarint(nil, 1, uint64(m.Result))
	for _, c := range m.RefetchChunks {
		b = appendVarint(b, 2, uint64(c))
	}
	for _, s := range m.RejectSenders {
		b = appendString(b, 3, s)
	}
	return b
}
func (m *ResponseApplySnapshotChunk) unmarshalFields(fields []rawField) error {
	for _, f := range fields {
		switch f.Num {
		case 1:
			m.Result = int32(f.Varint)
		case 2:
			m.RefetchChunks = append(m.RefetchChunks, uint32Of(f))
		case 3:
			m.RejectSenders = append(m.RejectSenders, stringOf(f))
		}
	}
	return nil
}
