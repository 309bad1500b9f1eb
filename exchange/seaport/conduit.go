package seaport

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/x-xyz/aggregator/domain"
)

// conduit creation code hash of the canonical conduit controller
var conduitCreationCodeHash = common.HexToHash("0x023d904f2503c37127200ca07b976c3a53cc562623f67023115bf311f5805059")

// DeriveConduit computes the create2 address a conduit key resolves to.
// A zero key means tokens move through the exchange itself.
func DeriveConduit(controller domain.Address, conduitKey string, exchange domain.Address) (domain.Address, error) {
	key, err := hexutil.Decode(conduitKey)
	if err != nil {
		return "", err
	}
	if common.BytesToHash(key) == (common.Hash{}) {
		return exchange.ToLower(), nil
	}

	payload := make([]byte, 0, 1+20+32+32)
	payload = append(payload, 0xff)
	payload = append(payload, common.HexToAddress(controller.ToLowerStr()).Bytes()...)
	payload = append(payload, common.BytesToHash(key).Bytes()...)
	payload = append(payload, conduitCreationCodeHash.Bytes()...)
	return domain.Address(common.BytesToAddress(crypto.Keccak256(payload)[12:]).Hex()).ToLower(), nil
}
