package collection

import (
	"time"

	"github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/domain"
)

type CollectionId struct {
	domain.ChainId `json:"chainId" bson:"chainId" param:"chainId"`
	domain.Address `json:"contract" bson:"contract" param:"contract"`
}

type Royalty struct {
	Recipient domain.Address `json:"recipient" bson:"recipient"`
	Bps       int            `json:"bps" bson:"bps"`
}

type MarketplaceFee struct {
	Marketplace string         `json:"marketplace" bson:"marketplace"`
	Recipient   domain.Address `json:"recipient" bson:"recipient"`
	Bps         int            `json:"bps" bson:"bps"`
}

type Collection struct {
	ChainId   domain.ChainId   `json:"chainId" bson:"chainId"`
	Contract  domain.Address   `json:"contract" bson:"contract"`
	Name      string           `json:"name" bson:"name"`
	Slug      string           `json:"slug" bson:"slug"`
	TokenType domain.TokenType `json:"tokenType" bson:"tokenType"`
	Supply    int64            `json:"supply" bson:"supply"`

	// default royalty schedule, already merged across sources
	Royalties []Royalty `json:"royalties" bson:"royalties"`
	// per marketplace fee schedule
	MarketplaceFees []MarketplaceFee `json:"marketplaceFees" bson:"marketplaceFees"`

	// current cheapest listing in wrapped native wei
	FloorAskValue string    `json:"floorAskValue" bson:"floorAskValue"`
	IsVerified    bool      `json:"isVerified" bson:"isVerified"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (c *Collection) ToId() CollectionId {
	return CollectionId{c.ChainId, c.Contract.ToLower()}
}

type Patchable struct {
	Royalties       []Royalty        `bson:"royalties,omitempty"`
	MarketplaceFees []MarketplaceFee `bson:"marketplaceFees,omitempty"`
	FloorAskValue   *string          `bson:"floorAskValue,omitempty"`
	Supply          *int64           `bson:"supply,omitempty"`
	UpdatedAt       *time.Time       `bson:"updatedAt,omitempty"`
}

type FindAllOptions struct {
	ChainId  *domain.ChainId
	Contract *domain.Address
	Offset   *int32
	Limit    *int32
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

func WithContract(contract domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Contract = &contract
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
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Collection, error)
	FindOne(ctx ctx.Ctx, id CollectionId) (*Collection, error)
	Upsert(ctx ctx.Ctx, collection *Collection) error
	Patch(ctx ctx.Ctx, id CollectionId, patchable Patchable) error
}

type UseCase interface {
	FindOne(ctx ctx.Ctx, id CollectionId) (*Collection, error)
	// GetRoyalties returns the royalty schedule capped at maxBps pro rata.
	GetRoyalties(ctx ctx.Ctx, id CollectionId, maxBps int) ([]Royalty, error)
	// GetFloorAskValue reads the cached floor, falling back to the stored
	// collection on a cache miss.
	GetFloorAskValue(ctx ctx.Ctx, id CollectionId) (string, error)
	RefreshFloorAskValue(ctx ctx.Ctx, id CollectionId, value string) error
}
