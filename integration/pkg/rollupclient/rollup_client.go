package rollupclient

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// RPC is the subset of *rpc.Client the rollup client needs.
type RPC interface {
	CallContext(ctx context.Context, result any, method string, args ...any) error
	Close()
}

var _ RPC = (*rpc.Client)(nil)

// BlockID identifies an L1 block.
type BlockID struct {
	Hash   common.Hash `json:"hash"`
	Number uint64      `json:"number"`
}

// L2BlockRef is a rollup block as reported by the node.
type L2BlockRef struct {
	Hash           common.Hash `json:"hash"`
	Number         uint64      `json:"number"`
	ParentHash     common.Hash `json:"parentHash"`
	Time           uint64      `json:"timestamp"`
	L1Origin       BlockID     `json:"l1origin"`
	SequenceNumber uint64      `json:"sequenceNumber"`
}

// L1BlockRef is an L1 block as reported by the node.
type L1BlockRef struct {
	Hash       common.Hash `json:"hash"`
	Number     uint64      `json:"number"`
	ParentHash common.Hash `json:"parentHash"`
	Time       uint64      `json:"timestamp"`
}

type SyncStatus struct {
	CurrentL1   L1BlockRef `json:"current_l1"`
	HeadL1      L1BlockRef `json:"head_l1"`
	SafeL1      L1BlockRef `json:"safe_l1"`
	FinalizedL1 L1BlockRef `json:"finalized_l1"`
	UnsafeL2    L2BlockRef `json:"unsafe_l2"`
	SafeL2      L2BlockRef `json:"safe_l2"`
	FinalizedL2 L2BlockRef `json:"finalized_l2"`
}

// OutputResponse is the output root of an L2 block together with its preimage.
type OutputResponse struct {
	Version               common.Hash `json:"version"`
	OutputRoot            common.Hash `json:"outputRoot"`
	BlockRef              L2BlockRef  `json:"blockRef"`
	WithdrawalStorageRoot common.Hash `json:"withdrawalStorageRoot"`
	StateRoot             common.Hash `json:"stateRoot"`
	Status                *SyncStatus `json:"syncStatus"`
}

// Client talks to the kanvas namespace of a rollup node.
type Client struct {
	rpc RPC
}

func NewClient(rpc RPC) *Client {
	return &Client{rpc: rpc}
}

// Dial connects to a rollup node.
func Dial(ctx context.Context, url string) (*Client, error) {
	c, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rollup node %s: %w", url, err)
	}
	return NewClient(c), nil
}

// OutputAtBlock returns the output root the node computes for an L2 block.
func (c *Client) OutputAtBlock(ctx context.Context, blockNumber uint64) (*OutputResponse, error) {
	var output *OutputResponse
	if err := c.rpc.CallContext(ctx, &output, "kanvas_outputAtBlock", hexutil.Uint64(blockNumber)); err != nil {
		return nil, fmt.Errorf("failed to get output at block %d: %w", blockNumber, err)
	}
	if output == nil {
		return nil, fmt.Errorf("no output at block %d", blockNumber)
	}
	return output, nil
}

func (c *Client) SyncStatus(ctx context.Context) (*SyncStatus, error) {
	var status *SyncStatus
	if err := c.rpc.CallContext(ctx, &status, "kanvas_syncStatus"); err != nil {
		return nil, fmt.Errorf("failed to get sync status: %w", err)
	}
	return status, nil
}

func (c *Client) Version(ctx context.Context) (string, error) {
	var version string
	if err := c.rpc.CallContext(ctx, &version, "kanvas_version"); err != nil {
		return "", fmt.Errorf("failed to get node version: %w", err)
	}
	return version, nil
}

func (c *Client) Close() {
	c.rpc.Close()
}
