package abci

import (
	"context"
	"fmt"

	"github.com/jeeves-cluster-organization/abci-core/abci/types"
)

// invokeHandler type-asserts handler to the capability req.Name requires and
// calls the matching method. It returns ErrUnknownMethod, never a panic, if
// handler is nil or does not implement the required capability.
func invokeHandler(ctx context.Context, handler any, req types.Request) (types.Response, error) {
	switch req.Name {
	case types.NameInfo:
		h, ok := handler.(InfoHandler)
		if !ok {
			return types.Response{}, fmt.Errorf("abci: %w: info", ErrUnknownMethod)
		}
		resp, err := h.Info(ctx, req.Value.(*types.RequestInfo))
		if err != nil {
			return types.Response{}, err
		}
		return types.Response{Name: req.Name, Value: resp}, nil

	case types.NameSetOption:
		h, ok := handler.(InfoHandler)
		if !ok {
			return types.Response{}, fmt.Errorf("abci: %w: set_option", ErrUnknownMethod)
		}
		resp, err := h.SetOption(ctx, req.Value.(*types.RequestSetOption))
		if err != nil {
			return types.Response{}, err
		}
		return types.Response{Name: req.Name, Value: resp}, nil

	case types.NameQuery:
		h, ok := handler.(InfoHandler)
		if !ok {
			return types.Response{}, fmt.Errorf("abci: %w: query", ErrUnknownMethod)
		}
		resp, err := h.Query(ctx, req.Value.(*types.RequestQuery))
		if err != nil {
			return types.Response{}, err
		}
		return types.Response{Name: req.Name, Value: resp}, nil

	case types.NameCheckTx:
		h, ok := handler.(MempoolHandler)
		if !ok {
			return types.Response{}, fmt.Errorf("abci: %w: check_tx", ErrUnknownMethod)
		}
		resp, err := h.CheckTx(ctx, req.Value.(*types.RequestCheckTx))
		if err != nil {
			return types.Response{}, err
		}
		return types.Response{Name: req.Name, Value: resp}, nil

	case types.NameInitChain:
		h, ok := handler.(ConsensusHandler)
		if !ok {
			return types.Response{}, fmt.Errorf("abci: %w: init_chain", ErrUnknownMethod)
		}
		resp, err := h.InitChain(ctx, req.Value.(*types.RequestInitChain))
		if err != nil {
			return types.Response{}, err
		}
		return types.Response{Name: req.Name, Value: resp}, nil

	case types.NameBeginBlock:
		h, ok := handler.(ConsensusHandler)
		if !ok {
			return types.Response{}, fmt.Errorf("abci: %w: begin_block", ErrUnknownMethod)
		}
		resp, err := h.BeginBlock(ctx, req.Value.(*types.RequestBeginBlock))
		if err != nil {
			return types.Response{}, err
		}
		return types.Response{Name: req.Name, Value: resp}, nil

	case types.NameDeliverTx:
		h, ok := handler.(ConsensusHandler)
		if !ok {
			return types.Response{}, fmt.Errorf("abci: %w: deliver_tx", ErrUnknownMethod)
		}
		resp, err := h.DeliverTx(ctx, req.Value.(*types.RequestDeliverTx))
		if err != nil {
			return types.Response{}, err
		}
		return types.Response{Name: req.Name, Value: resp}, nil

	case types.NameEndBlock:
		h, ok := handler.(ConsensusHandler)
		if !ok {
			return types.Response{}, fmt.Errorf("abci: %w: end_block", ErrUnknownMethod)
		}
		resp, err := h.EndBlock(ctx, req.Value.(*types.RequestEndBlock))
		if err != nil {
			return types.Response{}, err
		}
		return types.Response{Name: req.Name, Value: resp}, nil

	case types.NameCommit:
		h, ok := handler.(ConsensusHandler)
		if !ok {
			return types.Response{}, fmt.Errorf("abci: %w: commit", ErrUnknownMethod)
		}
		resp, err := h.Commit(ctx, req.Value.(*types.RequestCommit))
		if err != nil {
			return types.Response{}, err
		}
		return types.Response{Name: req.Name, Value: resp}, nil

	case types.NameListSnapshots:
		h, ok := handler.(StateSyncHandler)
		if !ok {
			return types.Response{}, fmt.Errorf("abci: %w: list_snapshots", ErrUnknownMethod)
		}
		resp, err := h.ListSnapshots(ctx, req.Value.(*types.RequestListSnapshots))
		if err != nil {
			return types.Response{}, err
		}
		return types.Response{Name: req.Name, Value: resp}, nil

	case types.NameOfferSnapshot:
		h, ok := handler.(StateSyncHandler)
		if !ok {
			return types.Response{}, fmt.Errorf("abci: %w: offer_snapshot", ErrUnknownMethod)
		}
		resp, err := h.OfferSnapshot(ctx, req.Value.(*types.RequestOfferSnapshot))
		if err != nil {
			return types.Response{}, err
		}
		return types.Response{Name: req.Name, Value: resp}, nil

	case types.NameLoadSnapshotChunk:
		h, ok := handler.(StateSyncHandler)
		if !ok {
			return types.Response{}, fmt.Errorf("abci: %w: load_snapshot_chunk", ErrUnknownMethod)
		}
		resp, err := h.LoadSnapshotChunk(ctx, req.Value.(*types.RequestLoadSnapshotChunk))
		if err != nil {
			return types.Response{}, err
		}
		return types.Response{Name: req.Name, Value: resp}, nil

	case types.NameApplySnapshotChunk:
		h, ok := handler.(StateSyncHandler)
		if !ok {
			return types.Response{}, fmt.Errorf("abci: %w: apply_snapshot_chunk", ErrUnknownMethod)
		}
		resp, err := h.ApplySnapshotChunk(ctx, req.Value.(*types.RequestApplySnapshotChunk))
		if err != nil {
			return types.Response{}, err
		}
		return types.Response{Name: req.Name, Value: resp}, nil

	default:
		return types.Response{}, fmt.Errorf("abci: %w: %s", ErrUnknownMethod, req.Name)
	}
}
