package seaport

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/x-xyz/aggregator/domain"
)

const (
	PrimaryType      = "OrderComponents"
	Eip712DomainName = "EIP712Domain"
)

func GetDomainSeperator(chainId domain.ChainId, address domain.Address, version Version) apitypes.TypedDataDomain {
	v := "1.1"
	if version == VersionV14 {
		v = "1.4"
	}
	return apitypes.TypedDataDomain{
		Name:              "Seaport",
		Version:           v,
		ChainId:           math.NewHexOrDecimal256(int64(chainId)),
		VerifyingContract: address.ToLowerStr(),
	}
}

var OrderTypes = apitypes.Types{
	"OrderComponents": {
		{Name: "offerer", Type: "address"},
		{Name: "zone", Type: "address"},
		{Name: "offer", Type: "OfferItem[]"},
		{Name: "consideration", Type: "ConsiderationItem[]"},
		{Name: "orderType", Type: "uint8"},
		{Name: "startTime", Type: "uint256"},
		{Name: "endTime", Type: "uint256"},
		{Name: "zoneHash", Type: "bytes32"},
		{Name: "salt", Type: "uint256"},
		{Name: "conduitKey", Type: "bytes32"},
		{Name: "counter", Type: "uint256"},
	},
	"OfferItem": {
		{Name: "itemType", Type: "uint8"},
		{Name: "token", Type: "address"},
		{Name: "identifierOrCriteria", Type: "uint256"},
		{Name: "startAmount", Type: "uint256"},
		{Name: "endAmount", Type: "uint256"},
	},
	"ConsiderationItem": {
		{Name: "itemType", Type: "uint8"},
		{Name: "token", Type: "address"},
		{Name: "identifierOrCriteria", Type: "uint256"},
		{Name: "startAmount", Type: "uint256"},
		{Name: "endAmount", Type: "uint256"},
		{Name: "recipient", Type: "address"},
	},
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
}

func (i *OfferItem) ToMessage() apitypes.TypedDataMessage {
	return apitypes.TypedDataMessage{
		"itemType":             float64(i.ItemType),
		"token":                i.Token.ToLowerStr(),
		"identifierOrCriteria": i.IdentifierOrCriteria,
		"startAmount":          i.StartAmount,
		"endAmount":            i.EndAmount,
	}
}

func (i *ConsiderationItem) ToMessage() apitypes.TypedDataMessage {
	return apitypes.TypedDataMessage{
		"itemType":             float64(i.ItemType),
		"token":                i.Token.ToLowerStr(),
		"identifierOrCriteria": i.IdentifierOrCriteria,
		"startAmount":          i.StartAmount,
		"endAmount":            i.EndAmount,
		"recipient":            i.Recipient.ToLowerStr(),
	}
}

func (c *OrderComponents) ToMessage() apitypes.TypedDataMessage {
	offer := []interface{}{}
	for i := range c.Offer {
		offer = append(offer, c.Offer[i].ToMessage())
	}
	consideration := []interface{}{}
	for i := range c.Consideration {
		consideration = append(consideration, c.Consideration[i].ToMessage())
	}
	return apitypes.TypedDataMessage{
		"offerer":       c.Offerer.ToLowerStr(),
		"zone":          c.Zone.ToLowerStr(),
		"offer":         offer,
		"consideration": consideration,
		"orderType":     float64(c.OrderType),
		"startTime":     float64(c.StartTime),
		"endTime":       float64(c.EndTime),
		"zoneHash":      c.ZoneHash,
		"salt":          c.Salt,
		"conduitKey":    c.ConduitKey,
		"counter":       c.Counter,
	}
}

// Hash returns the order hash, the typed data struct hash of the components.
// The domain does not enter the struct hash but EncodeData refuses an empty
// one, so any non-empty domain works here.
func (c *OrderComponents) Hash() ([]byte, error) {
	typedData := apitypes.TypedData{
		Types:       OrderTypes,
		PrimaryType: PrimaryType,
		Domain:      apitypes.TypedDataDomain{Name: "Seaport"},
		Message:     c.ToMessage(),
	}

	return typedData.HashStruct(typedData.PrimaryType, typedData.Message)
}

// SignHash returns the digest the maker actually signs, domain separator included.
func (c *OrderComponents) SignHash(chainId domain.ChainId, exchange domain.Address, version Version) ([]byte, error) {
	typedData := apitypes.TypedData{
		Types:       OrderTypes,
		PrimaryType: PrimaryType,
		Domain:      GetDomainSeperator(chainId, exchange, version),
		Message:     c.ToMessage(),
	}

	domainSeparator, err := typedData.HashStruct(Eip712DomainName, typedData.Domain.Map())
	if err != nil {
		return nil, err
	}
	structHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return nil, err
	}
	raw := append([]byte{0x19, 0x01}, append(domainSeparator, structHash...)...)
	return crypto.Keccak256(raw), nil
}
