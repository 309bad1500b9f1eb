package seaport

import (
	"math/big"

	"github.com/x-xyz/aggregator/domain"
	"golang.org/x/xerrors"
)

type ItemType int

const (
	ItemTypeNative ItemType = iota
	ItemTypeErc20
	ItemTypeErc721
	ItemTypeErc1155
	ItemTypeErc721WithCriteria
	ItemTypeErc1155WithCriteria
)

type OrderType int

const (
	OrderTypeFullOpen OrderType = iota
	OrderTypePartialOpen
	OrderTypeFullRestricted
	OrderTypePartialRestricted
	OrderTypeContract
)

type Version string

const (
	VersionV11 Version = "v1.1"
	VersionV14 Version = "v1.4"
)

type Scope string

const (
	ScopeSingleToken  Scope = "single-token"
	ScopeContractWide Scope = "contract-wide"
	ScopeTokenList    Scope = "token-list"
)

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

type OfferItem struct {
	ItemType             ItemType       `json:"itemType"`
	Token                domain.Address `json:"token"`
	IdentifierOrCriteria string         `json:"identifierOrCriteria"`
	StartAmount          string         `json:"startAmount"`
	EndAmount            string         `json:"endAmount"`
}

type ConsiderationItem struct {
	ItemType             ItemType       `json:"itemType"`
	Token                domain.Address `json:"token"`
	IdentifierOrCriteria string         `json:"identifierOrCriteria"`
	StartAmount          string         `json:"startAmount"`
	EndAmount            string         `json:"endAmount"`
	Recipient            domain.Address `json:"recipient"`
}

type OrderComponents struct {
	Offerer                         domain.Address      `json:"offerer"`
	Zone                            domain.Address      `json:"zone"`
	Offer                           []OfferItem         `json:"offer"`
	Consideration                   []ConsiderationItem `json:"consideration"`
	OrderType                       OrderType           `json:"orderType"`
	StartTime                       int64               `json:"startTime"`
	EndTime                         int64               `json:"endTime"`
	ZoneHash                        string              `json:"zoneHash"`
	Salt                            string              `json:"salt"`
	ConduitKey                      string              `json:"conduitKey"`
	Counter                         string              `json:"counter"`
	TotalOriginalConsiderationItems int                 `json:"totalOriginalConsiderationItems,omitempty"`

	Signature string `json:"signature,omitempty"`
}

// Info is the normalized view of an order extracted from its components.
type Info struct {
	Side         Side
	Scope        Scope
	TokenKind    domain.TokenType
	Contract     domain.Address
	TokenId      string
	MerkleRoot   string
	Amount       string
	PaymentToken domain.Address
	Price        *big.Int
	// total consideration routed to parties other than the offerer
	Fees      []Fee
	Taker     domain.Address
	IsDynamic bool
}

type Fee struct {
	Recipient domain.Address
	Amount    *big.Int
}

func (i *Info) FeeAmount() *big.Int {
	total := new(big.Int)
	for _, f := range i.Fees {
		total.Add(total, f.Amount)
	}
	return total
}

// TokenSetId derives the canonical token set id for the order target.
func (i *Info) TokenSetId() (string, error) {
	switch i.Scope {
	case ScopeSingleToken:
		return "token:" + i.Contract.ToLowerStr() + ":" + i.TokenId, nil
	case ScopeContractWide:
		return "contract:" + i.Contract.ToLowerStr(), nil
	case ScopeTokenList:
		return "list:" + i.Contract.ToLowerStr() + ":" + i.MerkleRoot, nil
	}
	return "", xerrors.Errorf("unknown scope %s", i.Scope)
}

func toBig(s string) (*big.Int, error) {
	if len(s) == 0 {
		return new(big.Int), nil
	}
	base := 10
	str := s
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		base = 16
		str = s[2:]
	}
	v, ok := new(big.Int).SetString(str, base)
	if !ok {
		return nil, xerrors.Errorf("invalid number %s", s)
	}
	return v, nil
}
