package order

import (
	"encoding/json"
	"time"

	"github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/domain"
)

type Kind string

const (
	KindSeaport     Kind = "seaport"
	KindSeaportV14  Kind = "seaport-v1.4"
	KindZeroExV4    Kind = "zeroex-v4"
	KindLooksRare   Kind = "looks-rare"
	KindX2Y2        Kind = "x2y2"
	KindBlur        Kind = "blur"
	KindUniverse    Kind = "universe"
	KindInfinity    Kind = "infinity"
	KindFlow        Kind = "flow"
	KindManifold    Kind = "manifold"
	KindCryptopunks Kind = "cryptopunks"
)

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

type FillabilityStatus string

const (
	FillabilityFillable  FillabilityStatus = "fillable"
	FillabilityNoBalance FillabilityStatus = "no-balance"
	FillabilityCancelled FillabilityStatus = "cancelled"
	FillabilityFilled    FillabilityStatus = "filled"
	FillabilityExpired   FillabilityStatus = "expired"
)

type ApprovalStatus string

const (
	ApprovalApproved   ApprovalStatus = "approved"
	ApprovalNoApproval ApprovalStatus = "no-approval"
	ApprovalDisabled   ApprovalStatus = "disabled"
)

type FeeKind string

const (
	FeeKindRoyalty     FeeKind = "royalty"
	FeeKindMarketplace FeeKind = "marketplace"
)

type FeeBreakdown struct {
	Kind      FeeKind        `json:"kind" bson:"kind"`
	Recipient domain.Address `json:"recipient" bson:"recipient"`
	Bps       int            `json:"bps" bson:"bps"`
}

// MissingRoyalty is a royalty payout the order itself does not carry.
// Amount is in wei of the order currency.
type MissingRoyalty struct {
	Recipient domain.Address `json:"recipient" bson:"recipient"`
	Bps       int            `json:"bps" bson:"bps"`
	Amount    string         `json:"amount" bson:"amount"`
}

type Order struct {
	ChainId           domain.ChainId    `json:"chainId" bson:"chainId"`
	Hash              domain.OrderHash  `json:"hash" bson:"hash"`
	Kind              Kind              `json:"kind" bson:"kind"`
	Side              Side              `json:"side" bson:"side"`
	Maker             domain.Address    `json:"maker" bson:"maker"`
	Taker             domain.Address    `json:"taker" bson:"taker"`
	Contract          domain.Address    `json:"contract" bson:"contract"`
	TokenSetId        string            `json:"tokenSetId" bson:"tokenSetId"`
	TokenSetSchema    string            `json:"tokenSetSchemaHash" bson:"tokenSetSchemaHash"`
	Currency          domain.Address    `json:"currency" bson:"currency"`
	Price             string            `json:"price" bson:"price"`
	Value             string            `json:"value" bson:"value"`
	CurrencyPrice     string            `json:"currencyPrice" bson:"currencyPrice"`
	CurrencyValue     string            `json:"currencyValue" bson:"currencyValue"`
	NormalizedValue   string            `json:"normalizedValue" bson:"normalizedValue"`
	PriceInUsd        float64           `json:"priceInUsd" bson:"priceInUsd"`
	QuantityRemaining string            `json:"quantityRemaining" bson:"quantityRemaining"`
	Nonce             string            `json:"nonce" bson:"nonce"`
	ValidFrom         time.Time         `json:"validFrom" bson:"validFrom"`
	ValidUntil        time.Time         `json:"validUntil" bson:"validUntil"`
	Source            string            `json:"source" bson:"source"`
	IsNative          bool              `json:"isNative" bson:"isNative"`
	Conduit           domain.Address    `json:"conduit" bson:"conduit"`
	FeeBps            int               `json:"feeBps" bson:"feeBps"`
	FeeBreakdown      []FeeBreakdown    `json:"feeBreakdown" bson:"feeBreakdown"`
	MissingRoyalties  []MissingRoyalty  `json:"missingRoyalties" bson:"missingRoyalties"`
	Fillability       FillabilityStatus `json:"fillabilityStatus" bson:"fillabilityStatus"`
	Approval          ApprovalStatus    `json:"approvalStatus" bson:"approvalStatus"`
	RawData           json.RawMessage   `json:"rawData" bson:"rawData"`

	// set when the order was recovered from chain instead of api ingestion
	BlockNumber *domain.BlockNumber `json:"blockNumber,omitempty" bson:"blockNumber,omitempty"`
	LogIndex    *uint               `json:"logIndex,omitempty" bson:"logIndex,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (o *Order) ToId() Id {
	return Id{
		ChainId: o.ChainId,
		Hash:    o.Hash,
	}
}

func (o *Order) LowerCase() {
	o.Hash = o.Hash.ToLower()
	o.Maker = o.Maker.ToLower()
	o.Taker = o.Taker.ToLower()
	o.Contract = o.Contract.ToLower()
	o.Currency = o.Currency.ToLower()
	o.Conduit = o.Conduit.ToLower()
}

func (o *Order) IsFillable() bool {
	return o.Fillability == FillabilityFillable && o.Approval == ApprovalApproved
}

type Id struct {
	ChainId domain.ChainId   `json:"chainId" bson:"chainId"`
	Hash    domain.OrderHash `json:"hash" bson:"hash"`
}

type Patchable struct {
	Fillability       *FillabilityStatus `json:"fillabilityStatus" bson:"fillabilityStatus,omitempty"`
	Approval          *ApprovalStatus    `json:"approvalStatus" bson:"approvalStatus,omitempty"`
	QuantityRemaining *string            `json:"quantityRemaining" bson:"quantityRemaining,omitempty"`
	Taker             *domain.Address    `json:"taker" bson:"taker,omitempty"`
	RawData           json.RawMessage    `json:"rawData" bson:"rawData,omitempty"`
	ValidUntil        *time.Time         `json:"validUntil" bson:"validUntil,omitempty"`
	UpdatedAt         *time.Time         `json:"updatedAt" bson:"updatedAt,omitempty"`
}

type FindAllOptions struct {
	ChainId      *domain.ChainId
	Hash         *domain.OrderHash
	Kind         *Kind
	Kinds        []Kind
	Side         *Side
	Maker        *domain.Address
	Contract     *domain.Address
	TokenSetId   *string
	Fillability  []FillabilityStatus
	Approval     []ApprovalStatus
	NonceLT      *string
	ValidUntilLT *time.Time
	IsNative     *bool
	SortBy       *string
	SortDir      *domain.SortDir
	Offset       *int32
	Limit        *int32
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

func WithHash(hash domain.OrderHash) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Hash = &hash
		return nil
	}
}

func WithKind(kind Kind) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Kind = &kind
		return nil
	}
}

func WithKinds(kinds ...Kind) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Kinds = kinds
		return nil
	}
}

func WithSide(side Side) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Side = &side
		return nil
	}
}

func WithMaker(maker domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Maker = &maker
		return nil
	}
}

func WithContract(contract domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Contract = &contract
		return nil
	}
}

func WithTokenSetId(tokenSetId string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.TokenSetId = &tokenSetId
		return nil
	}
}

func WithFillability(statuses ...FillabilityStatus) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Fillability = statuses
		return nil
	}
}

func WithApproval(statuses ...ApprovalStatus) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Approval = statuses
		return nil
	}
}

func WithNonceLT(nonce string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.NonceLT = &nonce
		return nil
	}
}

func WithValidUntilLT(t time.Time) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.ValidUntilLT = &t
		return nil
	}
}

func WithIsNative(isNative bool) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.IsNative = &isNative
		return nil
	}
}

func WithSort(sortBy string, sortDir domain.SortDir) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.SortBy = &sortBy
		options.SortDir = &sortDir
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
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Order, error)
	Count(ctx ctx.Ctx, opts ...FindAllOptionsFunc) (int, error)
	FindOne(ctx ctx.Ctx, id Id) (*Order, error)
	// InsertIgnore inserts orders skipping the ones whose id already exists.
	// Returns the ids actually inserted.
	InsertIgnore(ctx ctx.Ctx, orders []*Order) ([]Id, error)
	Upsert(ctx ctx.Ctx, order *Order) error
	Update(ctx ctx.Ctx, id Id, patchable Patchable) error
	UpdateAll(ctx ctx.Ctx, patchable Patchable, opts ...FindAllOptionsFunc) (int, error)
	RemoveAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) error
}

type UseCase interface {
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Order, error)
	GetOrder(ctx ctx.Ctx, id Id) (*Order, error)
	Save(ctx ctx.Ctx, inputs []*SaveInput) ([]*SaveResult, error)
	CancelByHash(ctx ctx.Ctx, chainId domain.ChainId, hash domain.OrderHash, lMeta *domain.LogMeta) error
	CancelByCounter(ctx ctx.Ctx, chainId domain.ChainId, maker domain.Address, kinds []Kind, newCounter string, lMeta *domain.LogMeta) error
	FillByHash(ctx ctx.Ctx, chainId domain.ChainId, hash domain.OrderHash, amount string, taker domain.Address, lMeta *domain.LogMeta) error
	// ExpireOrders marks live orders past their validUntil as expired.
	ExpireOrders(ctx ctx.Ctx, chainId domain.ChainId) (int, error)
}
