package fillevent

import (
	"time"

	"github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/domain"
)

// FillEvent is one settled fill of an order. Events are keyed by
// (orderHash, txHash, logIndex) so replaying a block range is idempotent.
type FillEvent struct {
	ChainId       domain.ChainId   `json:"chainId" bson:"chainId"`
	OrderHash     domain.OrderHash `json:"orderHash" bson:"orderHash"`
	OrderSide     string           `json:"orderSide" bson:"orderSide"`
	Maker         domain.Address   `json:"maker" bson:"maker"`
	Taker         domain.Address   `json:"taker" bson:"taker"`
	Contract      domain.Address   `json:"contract" bson:"contract"`
	TokenId       string           `json:"tokenId" bson:"tokenId"`
	Amount        string           `json:"amount" bson:"amount"`
	Currency      domain.Address   `json:"currency" bson:"currency"`
	CurrencyPrice string           `json:"currencyPrice" bson:"currencyPrice"`
	// settlement price expressed in wrapped native wei
	Price       string             `json:"price" bson:"price"`
	PriceInUsd  float64            `json:"priceInUsd" bson:"priceInUsd"`
	TxHash      domain.TxHash      `json:"txHash" bson:"txHash"`
	BlockNumber domain.BlockNumber `json:"blockNumber" bson:"blockNumber"`
	LogIndex    uint               `json:"logIndex" bson:"logIndex"`
	Timestamp   time.Time          `json:"timestamp" bson:"timestamp"`
}

type CancelEvent struct {
	ChainId     domain.ChainId     `json:"chainId" bson:"chainId"`
	OrderHash   domain.OrderHash   `json:"orderHash" bson:"orderHash"`
	Maker       domain.Address     `json:"maker" bson:"maker"`
	TxHash      domain.TxHash      `json:"txHash" bson:"txHash"`
	BlockNumber domain.BlockNumber `json:"blockNumber" bson:"blockNumber"`
	LogIndex    uint               `json:"logIndex" bson:"logIndex"`
	Timestamp   time.Time          `json:"timestamp" bson:"timestamp"`
}

type FindAllOptions struct {
	ChainId   *domain.ChainId
	OrderHash *domain.OrderHash
	Contract  *domain.Address
	TxHash    *domain.TxHash
	Offset    *int32
	Limit     *int32
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func WithChainId(chainId domain.ChainId) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.ChainId = &chainId
		return nil
	}
}

func WithOrderHash(hash domain.OrderHash) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.OrderHash = &hash
		return nil
	}
}

func WithContract(contract domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Contract = &contract
		return nil
	}
}

func WithTxHash(txHash domain.TxHash) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.TxHash = &txHash
		return nil
	}
}

func WithPagination(offset int32, limit int32) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

type Repo interface {
	// InsertFill stores the fill, replays of the same log are no-ops.
	InsertFill(ctx ctx.Ctx, event *FillEvent) error
	InsertCancel(ctx ctx.Ctx, event *CancelEvent) error
	FindFills(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*FillEvent, error)
	FindCancels(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*CancelEvent, error)
}
