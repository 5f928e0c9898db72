package contracts

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const (
	MessagePasser          = "L2ToL1MessagePasser"
	L2CrossDomainMessenger = "L2CrossDomainMessenger"
	L2StandardBridge       = "L2StandardBridge"
	Portal                 = "KanvasPortal"
	OutputOracle           = "L2OutputOracle"
)

var (
	//go:embed abi/L2ToL1MessagePasser.json
	messagePasserABIJSON string
	//go:embed abi/L2CrossDomainMessenger.json
	l2CrossDomainMessengerABIJSON string
	//go:embed abi/L2StandardBridge.json
	l2StandardBridgeABIJSON string
	//go:embed abi/KanvasPortal.json
	portalABIJSON string
	//go:embed abi/L2OutputOracle.json
	outputOracleABIJSON string
)

var (
	MessagePasserABI          = mustParseABI(MessagePasser, messagePasserABIJSON)
	L2CrossDomainMessengerABI = mustParseABI(L2CrossDomainMessenger, l2CrossDomainMessengerABIJSON)
	L2StandardBridgeABI       = mustParseABI(L2StandardBridge, l2StandardBridgeABIJSON)
	PortalABI                 = mustParseABI(Portal, portalABIJSON)
	OutputOracleABI           = mustParseABI(OutputOracle, outputOracleABIJSON)
)

func mustParseABI(name, raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("parse %s ABI: %v", name, err))
	}
	return parsed
}
