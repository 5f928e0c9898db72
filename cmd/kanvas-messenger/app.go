package main

import (
	"context"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/ethclient/gethclient"
	"github.com/grafana/pyroscope-go"

	"github.com/joonkeep/kanvas/integration/pkg/contracts"
	"github.com/joonkeep/kanvas/integration/pkg/contracttransmitter"
	"github.com/joonkeep/kanvas/integration/pkg/destinationreader"
	"github.com/joonkeep/kanvas/integration/pkg/proofprovider"
	"github.com/joonkeep/kanvas/integration/pkg/rollupclient"
	"github.com/joonkeep/kanvas/messenger"
	"github.com/joonkeep/kanvas/messenger/pkg/crosschain"
	"github.com/joonkeep/kanvas/messenger/pkg/monitoring"
	"github.com/joonkeep/kanvas/messenger/pkg/tracker"
	"github.com/joonkeep/kanvas/protocol"
	"github.com/joonkeep/kanvas/protocol/common/logging"
	"github.com/smartcontractkit/chainlink-common/pkg/beholder"
	"github.com/smartcontractkit/chainlink-common/pkg/logger"
)

var errNoSigner = fmt.Errorf("%s is not set, transactions cannot be signed", privateKeyEnvVar)

// app holds the clients and the messenger of one command invocation.
type app struct {
	lggr               logger.Logger
	source             *ethclient.Client
	destination        *ethclient.Client
	rollup             *rollupclient.Client
	profiler           *pyroscope.Profiler
	messenger          *crosschain.CrossChainMessenger
	destinationTracker *tracker.Tracker
}

func loadConfiguration(path string) (*messenger.Configuration, error) {
	var cfg messenger.Configuration
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func newLogger(cfg *messenger.Configuration) (logger.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	lggr, err := logger.NewWith(logging.DevelopmentConfig(level))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger.Sugared(logger.Named(lggr, "kanvas-messenger")), nil
}

func newApp(ctx context.Context, lggr logger.Logger, cfg *messenger.Configuration, privateKey string) (_ *app, err error) {
	a := &app{lggr: lggr}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	if cfg.PyroscopeURL != "" {
		a.profiler, err = pyroscope.Start(pyroscope.Config{
			ApplicationName: "kanvas-messenger",
			ServerAddress:   cfg.PyroscopeURL,
			Logger:          nil,
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileGoroutines,
			},
		})
		if err != nil {
			lggr.Errorw("Failed to start pyroscope", "error", err)
			err = nil
		}
	}

	if a.source, err = ethclient.DialContext(ctx, cfg.Source.RPCURL); err != nil {
		return nil, fmt.Errorf("failed to dial source chain: %w", err)
	}
	if a.destination, err = ethclient.DialContext(ctx, cfg.Destination.RPCURL); err != nil {
		return nil, fmt.Errorf("failed to dial destination chain: %w", err)
	}
	if a.rollup, err = rollupclient.Dial(ctx, cfg.RollupRPCURL); err != nil {
		return nil, fmt.Errorf("failed to dial rollup node: %w", err)
	}

	set := cfg.Contracts.ContractSet()
	sourceChain, destChain := protocol.ChainID(cfg.Source.ChainID), protocol.ChainID(cfg.Destination.ChainID)
	sourceTracker, err := newTracker(lggr, contracts.SourceDecoders(set), sourceChain, destChain)
	if err != nil {
		return nil, err
	}
	// Destination receipts carry no withdrawal, the tracker is only used to decode them.
	if a.destinationTracker, err = newTracker(lggr, contracts.DestinationDecoders(set), destChain, sourceChain); err != nil {
		return nil, err
	}

	settlement, err := destinationreader.NewEvmSettlementReader(destinationreader.Params{
		Lggr:                   lggr,
		ChainClient:            a.destination,
		PortalAddress:          set.Portal,
		OutputOracleAddress:    set.OutputOracle,
		FinalizationStartBlock: cfg.FinalizationStartBlock,
		CacheExpiry:            cfg.GetChallengePeriodCacheExpiry(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create settlement reader: %w", err)
	}
	proofs, err := proofprovider.NewEvmProofProvider(lggr, gethclient.New(a.source.Client()), a.rollup, set.MessagePasser)
	if err != nil {
		return nil, fmt.Errorf("failed to create proof provider: %w", err)
	}

	var transmitter messenger.Transmitter = readOnlyTransmitter{}
	if privateKey != "" {
		ct, err := contracttransmitter.NewEVMContractTransmitterFromRPC(ctx, lggr, cfg.Destination.RPCURL, privateKey,
			set.Portal, cfg.GetProveGasLimit(), cfg.GetFinalizeGasLimit())
		if err != nil {
			return nil, fmt.Errorf("failed to create contract transmitter: %w", err)
		}
		lggr.Infow("Transactions will be sent from", "address", ct.From().Hex())
		transmitter = ct
	}

	a.messenger, err = crosschain.NewCrossChainMessenger(crosschain.Params{
		Lggr:                 lggr,
		Tracker:              sourceTracker,
		Source:               a.source,
		Settlement:           settlement,
		Proofs:               proofs,
		Transmitter:          transmitter,
		Monitoring:           newMonitoring(lggr, cfg),
		PollInterval:         cfg.GetPollInterval(),
		StatusReportInterval: cfg.GetStatusReportInterval(),
		ReorgPollInterval:    cfg.GetReorgPollInterval(),
		ReorgStabilityWindow: cfg.GetReorgStabilityWindow(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create messenger: %w", err)
	}
	return a, nil
}

func newTracker(lggr logger.Logger, decoders map[common.Address]messenger.EventDecoder, sourceChain, destChain protocol.ChainID) (*tracker.Tracker, error) {
	registry := tracker.NewRegistry()
	for address, decoder := range decoders {
		if err := registry.Register(address, decoder); err != nil {
			return nil, fmt.Errorf("failed to register %s decoder: %w", decoder.Contract(), err)
		}
	}
	return tracker.NewTracker(lggr, registry, sourceChain, destChain)
}

func newMonitoring(lggr logger.Logger, cfg *messenger.Configuration) messenger.Monitoring {
	if !cfg.Monitoring.Enabled || cfg.Monitoring.Type != "beholder" {
		lggr.Debugw("Using noop monitoring")
		return monitoring.NewNoopMessengerMonitoring()
	}
	m, err := monitoring.InitMonitoring(beholder.Config{
		InsecureConnection:       cfg.Monitoring.Beholder.InsecureConnection,
		CACertFile:               cfg.Monitoring.Beholder.CACertFile,
		OtelExporterHTTPEndpoint: cfg.Monitoring.Beholder.OtelExporterHTTPEndpoint,
		OtelExporterGRPCEndpoint: cfg.Monitoring.Beholder.OtelExporterGRPCEndpoint,
		LogStreamingEnabled:      cfg.Monitoring.Beholder.LogStreamingEnabled,
		MetricReaderInterval:     time.Second * time.Duration(cfg.Monitoring.Beholder.MetricReaderInterval),
		TraceSampleRatio:         cfg.Monitoring.Beholder.TraceSampleRatio,
		TraceBatchTimeout:        time.Second * time.Duration(cfg.Monitoring.Beholder.TraceBatchTimeout),
	})
	if err != nil {
		lggr.Errorw("Failed to initialize beholder monitoring, using noop", "error", err)
		return monitoring.NewNoopMessengerMonitoring()
	}
	return m
}

func (a *app) decodeDestination(ctx context.Context, txHash common.Hash) ([]messenger.DecodedEvent, error) {
	receipt, err := a.destination.TransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("failed to get destination receipt of tx %s: %w", txHash.Hex(), err)
	}
	return a.destinationTracker.DecodeAll(receipt), nil
}

func (a *app) Close() {
	if a.source != nil {
		a.source.Close()
	}
	if a.destination != nil {
		a.destination.Close()
	}
	if a.rollup != nil {
		a.rollup.Close()
	}
	if a.profiler != nil {
		if err := a.profiler.Stop(); err != nil {
			a.lggr.Warnw("Failed to stop pyroscope", "error", err)
		}
	}
}

// readOnlyTransmitter backs the commands that never submit transactions.
type readOnlyTransmitter struct{}

func (readOnlyTransmitter) ProveWithdrawal(context.Context, protocol.Message, protocol.WithdrawalProof) (*types.Receipt, error) {
	return nil, errNoSigner
}

func (readOnlyTransmitter) FinalizeWithdrawal(context.Context, protocol.Message) (*types.Receipt, error) {
	return nil, errNoSigner
}
