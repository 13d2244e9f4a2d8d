// Package types defines the 15 ABCI request/response message pairs as a
// closed, named oneof. The wire definitions are, per the core engine's
// contract, an opaque concern owned upstream by Tendermint; this package
// reproduces the v0.34.x field layout closely enough to round-trip real
// traffic, built on google.golang.org/protobuf's low-level wire primitives
// rather than full protoc codegen.
package types

import "google.golang.org/protobuf/encoding/protowire"

// Name identifies one of the 15 ABCI methods. It is the oneof tag shared by
// a Request and its matching Response.
type Name string

// The closed set of ABCI method names, grouped by connection kind.
const (
	NameEcho  Name = "echo"
	NameFlush Name = "flush"

	NameInfo      Name = "info"
	NameSetOption Name = "set_option"
	NameQuery     Name = "query"

	NameCheckTx Name = "check_tx"

	NameInitChain  Name = "init_chain"
	NameBeginBlock Name = "begin_block"
	NameDeliverTx  Name = "deliver_tx"
	NameEndBlock   Name = "end_block"
	NameCommit     Name = "commit"

	NameListSnapshots      Name = "list_snapshots"
	NameOfferSnapshot      Name = "offer_snapshot"
	NameLoadSnapshotChunk  Name = "load_snapshot_chunk"
	NameApplySnapshotChunk Name = "apply_snapshot_chunk"
)

// oneofField maps a Name to the wire field number of the corresponding
// oneof entry in both the Request and Response envelopes.
var oneofField = map[Name]protowire.Number{
	NameEcho:               2,
	NameFlush:              3,
	NameInfo:               4,
	NameSetOption:          5,
	NameInitChain:          6,
	NameQuery:              7,
	NameBeginBlock:         8,
	NameCheckTx:            9,
	NameDeliverTx:          10,
	NameEndBlock:           11,
	NameCommit:             12,
	NameListSnapshots:      13,
	NameOfferSnapshot:      14,
	NameLoadSnapshotChunk:  15,
	NameApplySnapshotChunk: 16,
}

var fieldOneof = func() map[protowire.Number]Name {
	m := make(map[protowire.Number]Name, len(oneofField))
	for name, num := range oneofField {
		m[num] = name
	}
	return m
}()

// InfoKindNames lists the names that classify a connection as Info.
var InfoKindNames = []Name{NameInfo, NameSetOption, NameQuery}

// MempoolKindNames lists the names that classify a connection as Mempool.
var MempoolKindNames = []Name{NameCheckTx}

// ConsensusKindNames lists the names that classify a connection as Consensus.
var ConsensusKindNames = []Name{NameInitChain, NameBeginBlock, NameDeliverTx, NameEndBlock, NameCommit}

// StateSyncKindNames lists the names that classify a connection as StateSync.
var StateSyncKindNames = []Name{NameListSnapshots, NameOfferSnapshot, NameLoadSnapshotChunk, NameApplySnapshotChunk}
