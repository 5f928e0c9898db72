package messenger

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/joonkeep/kanvas/protocol"
)

const (
	DefaultConfigFile = "messenger.toml"

	DefaultPollInterval               = 1 * time.Second
	DefaultStatusReportInterval       = 3 * time.Second
	DefaultReorgPollInterval          = 1 * time.Second
	DefaultReorgStabilityWindow       = 30
	DefaultChallengePeriodCacheExpiry = 1 * time.Hour
	DefaultProveGasLimit              = 1_000_000
	DefaultFinalizeGasLimit           = 500_000
)

type Configuration struct {
	Source      ChainConfig     `toml:"source"`
	Destination ChainConfig     `toml:"destination"`
	Contracts   ContractsConfig `toml:"contracts"`
	// RollupRPCURL is the source rollup node, used to fetch output roots for proofs.
	RollupRPCURL               string           `toml:"rollup_rpc_url"`
	PollInterval               string           `toml:"poll_interval"`
	StatusReportInterval       string           `toml:"status_report_interval"`
	ReorgPollInterval          string           `toml:"reorg_poll_interval"`
	ReorgStabilityWindow       int              `toml:"reorg_stability_window"`
	ChallengePeriodCacheExpiry string           `toml:"challenge_period_cache_expiry"`
	ProveGasLimit              uint64           `toml:"prove_gas_limit"`
	FinalizeGasLimit           uint64           `toml:"finalize_gas_limit"`
	// FinalizationStartBlock bounds the WithdrawalFinalized log search; set it to the portal's
	// deployment block. Zero searches from genesis.
	FinalizationStartBlock     uint64           `toml:"finalization_search_start_block"`
	LogLevel                   string           `toml:"log_level"`
	PyroscopeURL               string           `toml:"pyroscope_url"`
	Monitoring                 MonitoringConfig `toml:"Monitoring"`
}

// ChainConfig locates one chain.
type ChainConfig struct {
	ChainID uint64 `toml:"chain_id"`
	RPCURL  string `toml:"rpc_url"`
}

// ContractsConfig holds the bridge contract addresses on both chains.
type ContractsConfig struct {
	MessagePasser          string `toml:"l2_to_l1_message_passer"`
	L2CrossDomainMessenger string `toml:"l2_cross_domain_messenger"`
	L2StandardBridge       string `toml:"l2_standard_bridge"`
	Portal                 string `toml:"kanvas_portal"`
	OutputOracle           string `toml:"l2_output_oracle"`
}

func (c *Configuration) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Source),
		validation.Field(&c.Destination),
		validation.Field(&c.Contracts),
		validation.Field(&c.RollupRPCURL, validation.Required, is.URL),
		validation.Field(&c.PollInterval, validation.By(isDuration)),
		validation.Field(&c.StatusReportInterval, validation.By(isDuration)),
		validation.Field(&c.ReorgPollInterval, validation.By(isDuration)),
		validation.Field(&c.ChallengePeriodCacheExpiry, validation.By(isDuration)),
		validation.Field(&c.ReorgStabilityWindow, validation.Min(0)),
	); err != nil {
		return err
	}
	if c.Source.ChainID == c.Destination.ChainID {
		return fmt.Errorf("source and destination chain ids must differ, both are %d", c.Source.ChainID)
	}
	if err := c.Monitoring.Validate(); err != nil {
		return fmt.Errorf("monitoring config validation failed: %w", err)
	}
	return nil
}

func (c ChainConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ChainID, validation.Required),
		validation.Field(&c.RPCURL, validation.Required, is.URL),
	)
}

func (c ContractsConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.MessagePasser, validation.Required, validation.By(isAddress)),
		validation.Field(&c.L2CrossDomainMessenger, validation.By(isAddress)),
		validation.Field(&c.L2StandardBridge, validation.By(isAddress)),
		validation.Field(&c.Portal, validation.Required, validation.By(isAddress)),
		validation.Field(&c.OutputOracle, validation.Required, validation.By(isAddress)),
	)
}

// ContractSet converts the configured addresses. Empty optional addresses stay zero.
func (c ContractsConfig) ContractSet() protocol.ContractSet {
	return protocol.ContractSet{
		MessagePasser:          common.HexToAddress(c.MessagePasser),
		L2CrossDomainMessenger: common.HexToAddress(c.L2CrossDomainMessenger),
		L2StandardBridge:       common.HexToAddress(c.L2StandardBridge),
		Portal:                 common.HexToAddress(c.Portal),
		OutputOracle:           common.HexToAddress(c.OutputOracle),
	}
}

func isAddress(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if !common.IsHexAddress(s) {
		return fmt.Errorf("must be a hex address")
	}
	return nil
}

func isDuration(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := time.ParseDuration(s); err != nil {
		return fmt.Errorf("must be a duration: %w", err)
	}
	return nil
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func (c *Configuration) GetPollInterval() time.Duration {
	return parseDuration(c.PollInterval, DefaultPollInterval)
}

func (c *Configuration) GetStatusReportInterval() time.Duration {
	return parseDuration(c.StatusReportInterval, DefaultStatusReportInterval)
}

func (c *Configuration) GetReorgPollInterval() time.Duration {
	return parseDuration(c.ReorgPollInterval, DefaultReorgPollInterval)
}

func (c *Configuration) GetChallengePeriodCacheExpiry() time.Duration {
	return parseDuration(c.ChallengePeriodCacheExpiry, DefaultChallengePeriodCacheExpiry)
}

func (c *Configuration) GetReorgStabilityWindow() int {
	if c.ReorgStabilityWindow <= 0 {
		return DefaultReorgStabilityWindow
	}
	return c.ReorgStabilityWindow
}

func (c *Configuration) GetProveGasLimit() uint64 {
	if c.ProveGasLimit == 0 {
		return DefaultProveGasLimit
	}
	return c.ProveGasLimit
}

func (c *Configuration) GetFinalizeGasLimit() uint64 {
	if c.FinalizeGasLimit == 0 {
		return DefaultFinalizeGasLimit
	}
	return c.FinalizeGasLimit
}

// MonitoringConfig provides monitoring configuration for the messenger.
type MonitoringConfig struct {
	// Enabled enables the monitoring system.
	Enabled bool `toml:"Enabled"`
	// Type is the type of monitoring system to use (beholder, noop).
	Type string `toml:"Type"`
	// Beholder is the configuration for the beholder client (Not required if type is noop).
	Beholder BeholderConfig `toml:"Beholder"`
}

// BeholderConfig wraps OpenTelemetry configuration for the beholder client.
type BeholderConfig struct {
	// InsecureConnection disables TLS for the beholder client.
	InsecureConnection bool `toml:"InsecureConnection"`
	// CACertFile is the path to the CA certificate file for the beholder client.
	CACertFile string `toml:"CACertFile"`
	// OtelExporterGRPCEndpoint is the endpoint for the beholder client to export to the collector.
	OtelExporterGRPCEndpoint string `toml:"OtelExporterGRPCEndpoint"`
	// OtelExporterHTTPEndpoint is the endpoint for the beholder client to export to the collector.
	OtelExporterHTTPEndpoint string `toml:"OtelExporterHTTPEndpoint"`
	// LogStreamingEnabled enables log streaming to the collector.
	LogStreamingEnabled bool `toml:"LogStreamingEnabled"`
	// MetricReaderInterval is the interval to scrape metrics (in seconds).
	MetricReaderInterval int64 `toml:"MetricReaderInterval"`
	// TraceSampleRatio is the ratio of traces to sample.
	TraceSampleRatio float64 `toml:"TraceSampleRatio"`
	// TraceBatchTimeout is the timeout for a batch of traces.
	TraceBatchTimeout int64 `toml:"TraceBatchTimeout"`
}

// Validate performs validation on the monitoring configuration.
func (m *MonitoringConfig) Validate() error {
	if !m.Enabled {
		return nil
	}
	if err := validation.ValidateStruct(m,
		validation.Field(&m.Type, validation.Required, validation.In("beholder", "noop")),
	); err != nil {
		return err
	}
	if m.Type == "beholder" {
		if err := m.Beholder.Validate(); err != nil {
			return fmt.Errorf("beholder config validation failed: %w", err)
		}
	}
	return nil
}

// Validate performs validation on the beholder configuration.
func (b *BeholderConfig) Validate() error {
	if b.MetricReaderInterval <= 0 {
		return fmt.Errorf("metric_reader_interval must be positive, got %d", b.MetricReaderInterval)
	}

	if b.TraceSampleRatio < 0 || b.TraceSampleRatio > 1 {
		return fmt.Errorf("trace_sample_ratio must be between 0 and 1, got %f", b.TraceSampleRatio)
	}

	if b.TraceBatchTimeout <= 0 {
		return fmt.Errorf("trace_batch_timeout must be positive, got %d", b.TraceBatchTimeout)
	}

	return nil
}
