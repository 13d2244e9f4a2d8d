package abci

import (
	"context"

	"github.com/jeeves-cluster-organization/abci-core/abci/types"
)

// Kind is the classification a connection settles into after its first
// non-echo, non-flush request. It never changes after that.
type Kind int

const (
	// KindUnclassified is the zero value: no classifying request has
	// arrived yet on this connection.
	KindUnclassified Kind = iota
	KindInfo
	KindMempool
	KindConsensus
	KindStateSync
)

func (k Kind) String() string {
	switch k {
	case KindInfo:
		return "info"
	case KindMempool:
		return "mempool"
	case KindConsensus:
		return "consensus"
	case KindStateSync:
		return "state_sync"
	default:
		return "none"
	}
}

// KindForName classifies a request name, or reports KindUnclassified for
// echo/flush which never classify a connection on their own.
func KindForName(name types.Name) Kind {
	for _, n := range types.InfoKindNames {
		if n == name {
			return KindInfo
		}
	}
	for _, n := range types.MempoolKindNames {
		if n == name {
			return KindMempool
		}
	}
	for _, n := range types.ConsensusKindNames {
		if n == name {
			return KindConsensus
		}
	}
	for _, n := range types.StateSyncKindNames {
		if n == name {
			return KindStateSync
		}
	}
	return KindUnclassified
}

// InfoHandler serves the Info connection kind: queries about application
// state that do not mutate it.
type InfoHandler interface {
	Info(ctx context.Context, req *types.RequestInfo) (*types.ResponseInfo, error)
	SetOption(ctx context.Context, req *types.RequestSetOption) (*types.ResponseSetOption, error)
	Query(ctx context.Context, req *types.RequestQuery) (*types.ResponseQuery, error)
}

// MempoolHandler serves the Mempool connection kind: transaction
// admissibility checks run ahead of, and independent from, consensus.
type MempoolHandler interface {
	CheckTx(ctx context.Context, req *types.RequestCheckTx) (*types.ResponseCheckTx, error)
}

// ConsensusHandler serves the Consensus connection kind: the one path that
// actually advances application state, always in strict request order.
type ConsensusHandler interface {
	InitChain(ctx context.Context, req *types.RequestInitChain) (*types.ResponseInitChain, error)
	BeginBlock(ctx context.Context, req *types.RequestBeginBlock) (*types.ResponseBeginBlock, error)
	DeliverTx(ctx context.Context, req *types.RequestDeliverTx) (*types.ResponseDeliverTx, error)
	EndBlock(ctx context.Context, req *types.RequestEndBlock) (*types.ResponseEndBlock, error)
	Commit(ctx context.Context, req *types.RequestCommit) (*types.ResponseCommit, error)
}

// StateSyncHandler serves the StateSync connection kind: snapshot discovery
// and transfer for a node bootstrapping from a snapshot instead of replaying
// history.
type StateSyncHandler interface {
	ListSnapshots(ctx context.Context, req *types.RequestListSnapshots) (*types.ResponseListSnapshots, error)
	OfferSnapshot(ctx context.Context, req *types.RequestOfferSnapshot) (*types.ResponseOfferSnapshot, error)
	LoadSnapshotChunk(ctx context.Context, req *types.RequestLoadSnapshotChunk) (*types.ResponseLoadSnapshotChunk, error)
	ApplySnapshotChunk(ctx context.Context, req *types.RequestApplySnapshotChunk) (*types.ResponseApplySnapshotChunk, error)
}

// Resolver hands a connection the handler for the Kind it has just
// classified as. It is called at most once per connection, the moment the
// first classifying request arrives, and the result is cached for the
// connection's lifetime.
//
// A monolithic application that implements all four handler interfaces on
// one value can satisfy Resolver with SingleApplication.
type Resolver interface {
	Resolve(ctx context.Context, kind Kind) (any, error)
}

// SingleApplication adapts one value implementing some subset of
// InfoHandler/MempoolHandler/ConsensusHandler/StateSyncHandler into a
// Resolver that always returns that same value, regardless of kind. Type
// assertions at dispatch time report ErrUnknownMethod for any capability
// the value does not actually implement.
type SingleApplication struct {
	App any
}

func (s SingleApplication) Resolve(ctx context.Context, kind Kind) (any, error) {
	return s.App, nil
}
