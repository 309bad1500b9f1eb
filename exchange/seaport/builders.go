package seaport

import (
	"crypto/rand"
	"math/big"

	"github.com/x-xyz/aggregator/domain"
	"golang.org/x/xerrors"
)

// BuildParams carries everything a builder needs to assemble components.
// Fees are resolved by the caller, price is the gross amount including them.
type BuildParams struct {
	ChainId      domain.ChainId
	Version      Version
	Offerer      domain.Address
	Contract     domain.Address
	TokenId      string
	TokenKind    domain.TokenType
	Quantity     *big.Int
	PaymentToken domain.Address
	Price        *big.Int
	Fees         []BuildFee
	Counter      string
	StartTime    int64
	EndTime      int64
	Source       string

	ConduitKey string
	Zone       domain.Address
	// restricted zone orders can be cancelled without a chain tx
	UseOffChainCancellation bool
	CancellationZone        domain.Address
	// reuse the salt of the order being replaced
	ReplaceOrderId domain.OrderHash

	// token-list bids
	MerkleRoot string
}

type BuildFee struct {
	Recipient domain.Address
	Amount    *big.Int
}

func (p *BuildParams) base() (*OrderComponents, error) {
	zone := p.Zone
	orderType := OrderTypeFullOpen
	if p.UseOffChainCancellation {
		if p.CancellationZone.IsEmpty() {
			return nil, xerrors.New("off chain cancellation needs a cancellation zone")
		}
		zone = p.CancellationZone
		orderType = OrderTypeFullRestricted
	}
	if p.Quantity != nil && p.Quantity.Cmp(domain.Big1) > 0 {
		if orderType == OrderTypeFullOpen {
			orderType = OrderTypePartialOpen
		} else {
			orderType = OrderTypePartialRestricted
		}
	}

	salt, err := p.salt()
	if err != nil {
		return nil, err
	}

	conduitKey := p.ConduitKey
	if conduitKey == "" {
		conduitKey = HashZero
	}
	if zone.IsEmpty() {
		zone = domain.EmptyAddress
	}
	counter := p.Counter
	if counter == "" {
		counter = "0"
	}

	return &OrderComponents{
		Offerer:    p.Offerer.ToLower(),
		Zone:       zone.ToLower(),
		OrderType:  orderType,
		StartTime:  p.StartTime,
		EndTime:    p.EndTime,
		ZoneHash:   HashZero,
		Salt:       salt,
		ConduitKey: conduitKey,
		Counter:    counter,
	}, nil
}

func (p *BuildParams) salt() (string, error) {
	if p.ReplaceOrderId != "" {
		// replacement orders must collide on salt so the zone can
		// invalidate the old one
		v, err := toBig(string(p.ReplaceOrderId))
		if err != nil {
			return "", err
		}
		return v.String(), nil
	}
	random, err := rand.Int(rand.Reader, new(big.Int).Lsh(domain.Big1, 96))
	if err != nil {
		return "", err
	}
	return padSourceToSalt(p.Source, random)
}

func (p *BuildParams) quantity() string {
	if p.Quantity == nil {
		return "1"
	}
	return p.Quantity.String()
}

func (p *BuildParams) netPrice() (*big.Int, error) {
	net := new(big.Int).Set(p.Price)
	for _, f := range p.Fees {
		net.Sub(net, f.Amount)
	}
	if net.Sign() <= 0 {
		return nil, xerrors.New("fees exceed price")
	}
	return net, nil
}

func nftItemType(kind domain.TokenType, withCriteria bool) ItemType {
	if kind == domain.TokenType1155 {
		if withCriteria {
			return ItemTypeErc1155WithCriteria
		}
		return ItemTypeErc1155
	}
	if withCriteria {
		return ItemTypeErc721WithCriteria
	}
	return ItemTypeErc721
}

func paymentItemType(token domain.Address) ItemType {
	if token.IsEmpty() {
		return ItemTypeNative
	}
	return ItemTypeErc20
}

// paymentTokenAddress normalizes the native currency to the zero address,
// typed data encoding rejects an empty address string.
func paymentTokenAddress(token domain.Address) domain.Address {
	if token.IsEmpty() {
		return domain.EmptyAddress
	}
	return token.ToLower()
}

// BuildSingleTokenSell builds a listing. The offerer receives the price
// minus fees, each fee gets its own consideration item.
func BuildSingleTokenSell(p *BuildParams) (*Order, error) {
	components, err := p.base()
	if err != nil {
		return nil, err
	}
	net, err := p.netPrice()
	if err != nil {
		return nil, err
	}

	components.Offer = []OfferItem{{
		ItemType:             nftItemType(p.TokenKind, false),
		Token:                p.Contract.ToLower(),
		IdentifierOrCriteria: p.TokenId,
		StartAmount:          p.quantity(),
		EndAmount:            p.quantity(),
	}}
	components.Consideration = []ConsiderationItem{{
		ItemType:             paymentItemType(p.PaymentToken),
		Token:                paymentTokenAddress(p.PaymentToken),
		IdentifierOrCriteria: "0",
		StartAmount:          net.String(),
		EndAmount:            net.String(),
		Recipient:            p.Offerer.ToLower(),
	}}
	for _, f := range p.Fees {
		components.Consideration = append(components.Consideration, ConsiderationItem{
			ItemType:             paymentItemType(p.PaymentToken),
			Token:                paymentTokenAddress(p.PaymentToken),
			IdentifierOrCriteria: "0",
			StartAmount:          f.Amount.String(),
			EndAmount:            f.Amount.String(),
			Recipient:            f.Recipient.ToLower(),
		})
	}
	components.TotalOriginalConsiderationItems = len(components.Consideration)

	return &Order{ChainId: p.ChainId, Version: p.Version, Params: *components}, nil
}

// BuildSingleTokenBuy builds a bid on one token.
func BuildSingleTokenBuy(p *BuildParams) (*Order, error) {
	return buildBuy(p, nftItemType(p.TokenKind, false), p.TokenId)
}

// BuildContractWideBuy builds a collection bid, criteria zero matches
// any token of the contract.
func BuildContractWideBuy(p *BuildParams) (*Order, error) {
	return buildBuy(p, nftItemType(p.TokenKind, true), "0")
}

// BuildTokenListBuy builds a bid on an explicit token list, the criteria
// is the merkle root over the sorted token ids.
func BuildTokenListBuy(p *BuildParams) (*Order, error) {
	if p.MerkleRoot == "" {
		return nil, xerrors.New("token list bid needs a merkle root")
	}
	root, err := toBig(p.MerkleRoot)
	if err != nil {
		return nil, err
	}
	return buildBuy(p, nftItemType(p.TokenKind, true), root.String())
}

func buildBuy(p *BuildParams, itemType ItemType, identifierOrCriteria string) (*Order, error) {
	if p.PaymentToken.IsEmpty() {
		return nil, xerrors.New("bids must fund with an erc20")
	}
	components, err := p.base()
	if err != nil {
		return nil, err
	}
	if _, err := p.netPrice(); err != nil {
		return nil, err
	}

	components.Offer = []OfferItem{{
		ItemType:             ItemTypeErc20,
		Token:                p.PaymentToken.ToLower(),
		IdentifierOrCriteria: "0",
		StartAmount:          p.Price.String(),
		EndAmount:            p.Price.String(),
	}}
	components.Consideration = []ConsiderationItem{{
		ItemType:             itemType,
		Token:                p.Contract.ToLower(),
		IdentifierOrCriteria: identifierOrCriteria,
		StartAmount:          p.quantity(),
		EndAmount:            p.quantity(),
		Recipient:            p.Offerer.ToLower(),
	}}
	for _, f := range p.Fees {
		components.Consideration = append(components.Consideration, ConsiderationItem{
			ItemType:             ItemTypeErc20,
			Token:                p.PaymentToken.ToLower(),
			IdentifierOrCriteria: "0",
			StartAmount:          f.Amount.String(),
			EndAmount:            f.Amount.String(),
			Recipient:            f.Recipient.ToLower(),
		})
	}
	components.TotalOriginalConsiderationItems = len(components.Consideration)

	return &Order{ChainId: p.ChainId, Version: p.Version, Params: *components}, nil
}
