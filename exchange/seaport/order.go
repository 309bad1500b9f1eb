package seaport

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	bCtx "github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/base/ethereum"
	"github.com/x-xyz/aggregator/domain"
	"github.com/x-xyz/aggregator/service/chain/contract"
	"golang.org/x/xerrors"
)

var (
	ErrInvalidOrderFormat = xerrors.New("invalid order format")
	ErrInvalidSignature   = xerrors.New("invalid signature")
)

const HashZero = "0x0000000000000000000000000000000000000000000000000000000000000000"

type Order struct {
	ChainId domain.ChainId  `json:"chainId"`
	Version Version         `json:"version"`
	Params  OrderComponents `json:"params"`
}

// SignatureData renders the typed data a wallet prompts for.
func (o *Order) SignatureData(exchange domain.Address) *apitypes.TypedData {
	return &apitypes.TypedData{
		Types:       OrderTypes,
		PrimaryType: PrimaryType,
		Domain:      GetDomainSeperator(o.ChainId, exchange, o.Version),
		Message:     o.Params.ToMessage(),
	}
}

func (o *Order) HashHex() (domain.OrderHash, error) {
	h, err := o.Params.Hash()
	if err != nil {
		return "", err
	}
	return domain.OrderHash(hexutil.Encode(h)), nil
}

// GetInfo normalizes the components into side, scope, price and fees.
// Exactly one offer item is supported.
func (o *Order) GetInfo() (*Info, error) {
	p := &o.Params
	if len(p.Offer) != 1 {
		return nil, xerrors.Errorf("%w: expected single offer item", ErrInvalidOrderFormat)
	}
	if len(p.Consideration) == 0 {
		return nil, xerrors.Errorf("%w: missing consideration", ErrInvalidOrderFormat)
	}

	offer := p.Offer[0]
	switch offer.ItemType {
	case ItemTypeErc721, ItemTypeErc1155, ItemTypeErc721WithCriteria, ItemTypeErc1155WithCriteria:
		return o.getSellInfo()
	case ItemTypeNative, ItemTypeErc20:
		return o.getBuyInfo()
	}
	return nil, xerrors.Errorf("%w: unknown offer item type %d", ErrInvalidOrderFormat, offer.ItemType)
}

func (o *Order) getSellInfo() (*Info, error) {
	p := &o.Params
	nft := p.Offer[0]

	scope, tokenId, merkleRoot, err := resolveScope(nft.ItemType, nft.IdentifierOrCriteria)
	if err != nil {
		return nil, err
	}
	if scope != ScopeSingleToken {
		// criteria listings are not a thing, sellers always know their token
		return nil, xerrors.Errorf("%w: criteria listing", ErrInvalidOrderFormat)
	}

	info := &Info{
		Side:       SideSell,
		Scope:      scope,
		TokenKind:  tokenKind(nft.ItemType),
		Contract:   nft.Token.ToLower(),
		TokenId:    tokenId,
		MerkleRoot: merkleRoot,
		Amount:     nft.StartAmount,
		Taker:      domain.EmptyAddress,
	}
	if nft.StartAmount != nft.EndAmount {
		info.IsDynamic = true
	}

	price := new(big.Int)
	for i := range p.Consideration {
		c := &p.Consideration[i]
		if c.ItemType != ItemTypeNative && c.ItemType != ItemTypeErc20 {
			return nil, xerrors.Errorf("%w: non payment consideration on listing", ErrInvalidOrderFormat)
		}
		if i == 0 {
			info.PaymentToken = c.Token.ToLower()
		} else if !c.Token.Equals(info.PaymentToken) {
			return nil, xerrors.Errorf("%w: mixed payment tokens", ErrInvalidOrderFormat)
		}
		amount, err := toBig(c.StartAmount)
		if err != nil {
			return nil, err
		}
		if c.StartAmount != c.EndAmount {
			info.IsDynamic = true
		}
		price.Add(price, amount)
		if !c.Recipient.Equals(p.Offerer) {
			info.Fees = append(info.Fees, Fee{Recipient: c.Recipient.ToLower(), Amount: amount})
		}
	}
	info.Price = price

	return info, nil
}

func (o *Order) getBuyInfo() (*Info, error) {
	p := &o.Params
	payment := p.Offer[0]

	nft := &p.Consideration[0]
	scope, tokenId, merkleRoot, err := resolveScope(nft.ItemType, nft.IdentifierOrCriteria)
	if err != nil {
		return nil, err
	}
	if !nft.Recipient.Equals(p.Offerer) {
		return nil, xerrors.Errorf("%w: bid item not routed to offerer", ErrInvalidOrderFormat)
	}

	info := &Info{
		Side:         SideBuy,
		Scope:        scope,
		TokenKind:    tokenKind(nft.ItemType),
		Contract:     nft.Token.ToLower(),
		TokenId:      tokenId,
		MerkleRoot:   merkleRoot,
		Amount:       nft.StartAmount,
		PaymentToken: payment.Token.ToLower(),
		Taker:        domain.EmptyAddress,
	}
	if payment.ItemType == ItemTypeNative {
		// native bids cannot be escrowed
		return nil, xerrors.Errorf("%w: native bid", ErrInvalidOrderFormat)
	}
	if payment.StartAmount != payment.EndAmount || nft.StartAmount != nft.EndAmount {
		info.IsDynamic = true
	}

	price, err := toBig(payment.StartAmount)
	if err != nil {
		return nil, err
	}
	info.Price = price

	for i := 1; i < len(p.Consideration); i++ {
		c := &p.Consideration[i]
		if c.ItemType != payment.ItemType || !c.Token.Equals(payment.Token) {
			return nil, xerrors.Errorf("%w: fee in foreign token", ErrInvalidOrderFormat)
		}
		amount, err := toBig(c.StartAmount)
		if err != nil {
			return nil, err
		}
		info.Fees = append(info.Fees, Fee{Recipient: c.Recipient.ToLower(), Amount: amount})
	}

	return info, nil
}

func resolveScope(itemType ItemType, identifierOrCriteria string) (Scope, string, string, error) {
	switch itemType {
	case ItemTypeErc721, ItemTypeErc1155:
		return ScopeSingleToken, identifierOrCriteria, "", nil
	case ItemTypeErc721WithCriteria, ItemTypeErc1155WithCriteria:
		criteria, err := toBig(identifierOrCriteria)
		if err != nil {
			return "", "", "", err
		}
		if criteria.Sign() == 0 {
			return ScopeContractWide, "", "", nil
		}
		return ScopeTokenList, "", hexutil.Encode(common.BigToHash(criteria).Bytes()), nil
	}
	return "", "", "", xerrors.Errorf("%w: unexpected item type %d", ErrInvalidOrderFormat, itemType)
}

func tokenKind(itemType ItemType) domain.TokenType {
	switch itemType {
	case ItemTypeErc721, ItemTypeErc721WithCriteria:
		return domain.TokenType721
	case ItemTypeErc1155, ItemTypeErc1155WithCriteria:
		return domain.TokenType1155
	}
	return 0
}

// CheckValidity runs the structural checks that do not need chain access.
func (o *Order) CheckValidity() error {
	p := &o.Params
	if p.Offerer.IsEmpty() {
		return xerrors.Errorf("%w: missing offerer", ErrInvalidOrderFormat)
	}
	if p.OrderType < OrderTypeFullOpen || p.OrderType > OrderTypePartialRestricted {
		return xerrors.Errorf("%w: unsupported order type %d", ErrInvalidOrderFormat, p.OrderType)
	}
	if p.EndTime != 0 && p.EndTime <= p.StartTime {
		return xerrors.Errorf("%w: end before start", ErrInvalidOrderFormat)
	}
	if !isBytes32(p.ZoneHash) || !isBytes32(p.ConduitKey) {
		return xerrors.Errorf("%w: malformed bytes32 field", ErrInvalidOrderFormat)
	}
	if p.TotalOriginalConsiderationItems > len(p.Consideration) {
		return xerrors.Errorf("%w: inconsistent consideration count", ErrInvalidOrderFormat)
	}
	if _, err := toBig(p.Salt); err != nil {
		return xerrors.Errorf("%w: malformed salt", ErrInvalidOrderFormat)
	}
	if _, err := toBig(p.Counter); err != nil {
		return xerrors.Errorf("%w: malformed counter", ErrInvalidOrderFormat)
	}
	return nil
}

func isBytes32(s string) bool {
	if !strings.HasPrefix(s, "0x") || len(s) != 66 {
		return false
	}
	_, err := hexutil.Decode(s)
	return err == nil
}

// CheckSignature verifies the maker signature, falling back to ERC-1271 for
// contract makers. Bulk signed orders carry the merkle proof inside the
// signature blob and are reduced to the tree root first.
func (o *Order) CheckSignature(ctx bCtx.Ctx, erc1271 contract.Erc1271Contract, exchange domain.Address) error {
	sig, err := hexutil.Decode(o.Params.Signature)
	if err != nil {
		return xerrors.Errorf("decode signature: %w", err)
	}

	var digest []byte
	if IsBulkSignature(sig) {
		digest, sig, err = o.bulkDigest(sig, exchange)
		if err != nil {
			return err
		}
	} else {
		digest, err = o.Params.SignHash(o.ChainId, exchange, o.Version)
		if err != nil {
			return err
		}
	}

	if len(sig) == 64 {
		sig = unpackCompactSignature(sig)
	}
	if len(sig) != 65 {
		return ErrInvalidSignature
	}

	valid, err := ethereum.ValidateHashSignature(digest, hexutil.Encode(sig), o.Params.Offerer.ToLowerStr())
	if err == nil && valid {
		return nil
	}

	// contract wallet fallback
	var hash common.Hash
	copy(hash[:], digest)
	valid, err = erc1271.IsValidSignature(ctx, int32(o.ChainId), o.Params.Offerer.ToLowerStr(), hash, sig)
	if err != nil {
		return xerrors.Errorf("erc1271 check: %w", err)
	}
	if !valid {
		return ErrInvalidSignature
	}
	return nil
}

func (o *Order) bulkDigest(sig []byte, exchange domain.Address) ([]byte, []byte, error) {
	inner, key, proofs, err := DecodeBulkSignature(sig)
	if err != nil {
		return nil, nil, err
	}
	leaf, err := o.Params.Hash()
	if err != nil {
		return nil, nil, err
	}
	root := ComputeBulkRoot(leaf, key, proofs)
	digest, err := BulkSignHash(o.ChainId, o.Version, exchange, len(proofs), root)
	if err != nil {
		return nil, nil, err
	}
	return digest, inner, nil
}

// eip2098 compact signatures pack yParity into the top bit of s
func unpackCompactSignature(sig []byte) []byte {
	r := sig[:32]
	vs := sig[32:64]
	v := byte(27)
	if vs[0]&0x80 != 0 {
		v = 28
	}
	s := make([]byte, 32)
	copy(s, vs)
	s[0] &= 0x7f
	out := make([]byte, 65)
	copy(out[:32], r)
	copy(out[32:64], s)
	out[64] = v
	return out
}

func padSourceToSalt(source string, random *big.Int) (string, error) {
	if source == "" {
		return random.String(), nil
	}
	src := new(big.Int).SetBytes([]byte(source))
	// source hex in the top bytes, randomness in the bottom 16
	salt := new(big.Int).Lsh(src, 128)
	salt.Add(salt, new(big.Int).Mod(random, new(big.Int).Lsh(domain.Big1, 128)))
	return salt.String(), nil
}
