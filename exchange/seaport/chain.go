package seaport

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/xerrors"

	"github.com/x-xyz/aggregator/base/abi"
	"github.com/x-xyz/aggregator/domain"
)

// FromChainParameters converts abi decoded order parameters back into the
// json components the rest of the pipeline works with. The counter is not
// part of the chain encoding and must be filled in by the caller.
func FromChainParameters(p *abi.SeaportOrderParameters) *OrderComponents {
	offer := make([]OfferItem, len(p.Offer))
	for i, o := range p.Offer {
		offer[i] = OfferItem{
			ItemType:             ItemType(o.ItemType),
			Token:                domain.Address(o.Token.Hex()).ToLower(),
			IdentifierOrCriteria: o.IdentifierOrCriteria.String(),
			StartAmount:          o.StartAmount.String(),
			EndAmount:            o.EndAmount.String(),
		}
	}
	consideration := make([]ConsiderationItem, len(p.Consideration))
	for i, c := range p.Consideration {
		consideration[i] = ConsiderationItem{
			ItemType:             ItemType(c.ItemType),
			Token:                domain.Address(c.Token.Hex()).ToLower(),
			IdentifierOrCriteria: c.IdentifierOrCriteria.String(),
			StartAmount:          c.StartAmount.String(),
			EndAmount:            c.EndAmount.String(),
			Recipient:            domain.Address(c.Recipient.Hex()).ToLower(),
		}
	}
	return &OrderComponents{
		Offerer:                         domain.Address(p.Offerer.Hex()).ToLower(),
		Zone:                            domain.Address(p.Zone.Hex()).ToLower(),
		Offer:                           offer,
		Consideration:                   consideration,
		OrderType:                       OrderType(p.OrderType),
		StartTime:                       p.StartTime.Int64(),
		EndTime:                         p.EndTime.Int64(),
		ZoneHash:                        hexutil.Encode(p.ZoneHash[:]),
		Salt:                            p.Salt.String(),
		ConduitKey:                      hexutil.Encode(p.ConduitKey[:]),
		TotalOriginalConsiderationItems: int(p.TotalOriginalConsiderationItems.Int64()),
	}
}

// ToChainParameters converts json components into the abi structs used to
// pack fulfillment calldata.
func (c *OrderComponents) ToChainParameters() (*abi.SeaportOrderParameters, error) {
	offer := make([]abi.SeaportOfferItem, len(c.Offer))
	for i, o := range c.Offer {
		identifier, err := toBig(o.IdentifierOrCriteria)
		if err != nil {
			return nil, err
		}
		start, err := toBig(o.StartAmount)
		if err != nil {
			return nil, err
		}
		end, err := toBig(o.EndAmount)
		if err != nil {
			return nil, err
		}
		offer[i] = abi.SeaportOfferItem{
			ItemType:             uint8(o.ItemType),
			Token:                common.HexToAddress(string(o.Token)),
			IdentifierOrCriteria: identifier,
			StartAmount:          start,
			EndAmount:            end,
		}
	}
	consideration := make([]abi.SeaportConsiderationItem, len(c.Consideration))
	for i, item := range c.Consideration {
		identifier, err := toBig(item.IdentifierOrCriteria)
		if err != nil {
			return nil, err
		}
		start, err := toBig(item.StartAmount)
		if err != nil {
			return nil, err
		}
		end, err := toBig(item.EndAmount)
		if err != nil {
			return nil, err
		}
		consideration[i] = abi.SeaportConsiderationItem{
			ItemType:             uint8(item.ItemType),
			Token:                common.HexToAddress(string(item.Token)),
			IdentifierOrCriteria: identifier,
			StartAmount:          start,
			EndAmount:            end,
			Recipient:            common.HexToAddress(string(item.Recipient)),
		}
	}
	salt, err := toBig(c.Salt)
	if err != nil {
		return nil, err
	}
	zoneHash, err := toBytes32(c.ZoneHash)
	if err != nil {
		return nil, err
	}
	conduitKey, err := toBytes32(c.ConduitKey)
	if err != nil {
		return nil, err
	}
	total := c.TotalOriginalConsiderationItems
	if total == 0 {
		total = len(c.Consideration)
	}
	return &abi.SeaportOrderParameters{
		Offerer:                         common.HexToAddress(string(c.Offerer)),
		Zone:                            common.HexToAddress(string(c.Zone)),
		Offer:                           offer,
		Consideration:                   consideration,
		OrderType:                       uint8(c.OrderType),
		StartTime:                       big.NewInt(c.StartTime),
		EndTime:                         big.NewInt(c.EndTime),
		ZoneHash:                        zoneHash,
		Salt:                            salt,
		ConduitKey:                      conduitKey,
		TotalOriginalConsiderationItems: big.NewInt(int64(total)),
	}, nil
}

func toBytes32(s string) ([32]byte, error) {
	var out [32]byte
	if s == "" {
		return out, nil
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return out, xerrors.Errorf("decode bytes32 %s: %w", s, err)
	}
	if len(b) != 32 {
		return out, xerrors.Errorf("bytes32 must be 32 bytes, got %d", len(b))
	}
	copy(out[:], b)
	return out, nil
}
