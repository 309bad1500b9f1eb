package router

import (
	"encoding/json"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/xerrors"

	"github.com/x-xyz/aggregator/base/abi"
	"github.com/x-xyz/aggregator/domain"
	"github.com/x-xyz/aggregator/domain/exchange"
	"github.com/x-xyz/aggregator/domain/order"
	"github.com/x-xyz/aggregator/exchange/seaport"
	"github.com/x-xyz/aggregator/service/orderfetcher"
)

// ErrNothingToFill is returned when no order in the batch produced a
// usable transaction.
var ErrNothingToFill = errors.New("could not fill any of the requested orders")

// ErrTokenListBid rejects bids whose criteria needs a merkle proof we do
// not carry.
var ErrTokenListBid = errors.New("token list bids are not fillable")

type RouterCfg struct {
	ChainId      domain.ChainId
	OrderFetcher orderfetcher.Client
}

// Router turns batches of order details into the minimum set of
// transactions filling them.
type Router struct {
	chainId domain.ChainId
	addrs   *exchange.Addresses
	fetcher orderfetcher.Client
}

func NewRouter(cfg *RouterCfg) (*Router, error) {
	addrs, err := exchange.AddressesByChain(cfg.ChainId)
	if err != nil {
		return nil, err
	}
	return &Router{
		chainId: cfg.ChainId,
		addrs:   addrs,
		fetcher: cfg.OrderFetcher,
	}, nil
}

func isSeaportKind(kind order.Kind) bool {
	return kind == order.KindSeaport || kind == order.KindSeaportV14
}

// hasModule reports whether the kind can be aggregated through a router
// module. Everything else fills in its own dedicated transaction.
func hasModule(kind order.Kind) bool {
	return isSeaportKind(kind)
}

func parseSeaportOrder(raw json.RawMessage) (*seaport.OrderComponents, error) {
	comps := &seaport.OrderComponents{}
	if err := json.Unmarshal(raw, comps); err != nil {
		return nil, xerrors.Errorf("unmarshal order components: %w", err)
	}
	return comps, nil
}

func decodeSignature(sig string) ([]byte, error) {
	if sig == "" {
		return []byte{}, nil
	}
	b, err := hexutil.Decode(sig)
	if err != nil {
		return nil, xerrors.Errorf("decode signature: %w", err)
	}
	return b, nil
}

// advancedOrder wraps components for fulfillment. fillAmount below the
// order quantity turns into a partial fraction.
func advancedOrder(comps *seaport.OrderComponents, fillAmount *big.Int) (*abi.SeaportAdvancedOrder, error) {
	params, err := comps.ToChainParameters()
	if err != nil {
		return nil, err
	}
	sig, err := decodeSignature(comps.Signature)
	if err != nil {
		return nil, err
	}
	numerator := big.NewInt(1)
	denominator := big.NewInt(1)
	if fillAmount != nil && len(params.Offer) > 0 && params.Offer[0].StartAmount.Cmp(fillAmount) > 0 {
		numerator = fillAmount
		denominator = params.Offer[0].StartAmount
	}
	return &abi.SeaportAdvancedOrder{
		Parameters:  *params,
		Numerator:   numerator,
		Denominator: denominator,
		Signature:   sig,
		ExtraData:   []byte{},
	}, nil
}

func toCommon(a domain.Address) common.Address {
	return common.HexToAddress(string(a))
}

func hexString(data []byte) string {
	return hexutil.Encode(data)
}

func parseBig(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		v, ok := new(big.Int).SetString(s[2:], 16)
		if !ok {
			return nil, xerrors.Errorf("invalid number %s", s)
		}
		return v, nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, xerrors.Errorf("invalid number %s", s)
	}
	return v, nil
}

func isNativeCurrency(a domain.Address) bool {
	return a.IsEmpty() || a.ToLowerStr() == "0x0000000000000000000000000000000000000000"
}

func sameCurrency(a, b domain.Address) bool {
	if isNativeCurrency(a) && isNativeCurrency(b) {
		return true
	}
	return a.Equals(b)
}

// proRata splits batch wide fees proportionally to the share of orders a
// group holds. Floor division, residual dust stays with the payer.
func proRata(globalFees []Fee, groupSize, total int) []abi.ModuleFee {
	fees := make([]abi.ModuleFee, 0, len(globalFees))
	for _, f := range globalFees {
		amount := new(big.Int).Mul(f.Amount, big.NewInt(int64(groupSize)))
		amount.Div(amount, big.NewInt(int64(total)))
		if amount.Sign() == 0 {
			continue
		}
		fees = append(fees, abi.ModuleFee{
			Recipient: toCommon(f.Recipient),
			Amount:    amount,
		})
	}
	return fees
}

func sumModuleFees(fees []abi.ModuleFee) *big.Int {
	total := new(big.Int)
	for _, f := range fees {
		total.Add(total, f.Amount)
	}
	return total
}
