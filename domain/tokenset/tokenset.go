package tokenset

import (
	"time"

	"golang.org/x/xerrors"

	"github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/domain"
)

// ErrUnknownTokenList is returned for list ids whose token ids were never
// registered, the merkle root alone cannot recover them.
var ErrUnknownTokenList = xerrors.New("unknown token list")

type Schema string

const (
	SchemaToken                Schema = "token"
	SchemaContract             Schema = "contract"
	SchemaTokenList            Schema = "token-list"
	SchemaCollectionNonFlagged Schema = "collection-non-flagged"
	SchemaAttribute            Schema = "attribute"
)

// TokenSet records which tokens an order can settle against. The id formats
// are token:<contract>:<tokenId>, contract:<contract> and
// list:<contract>:<merkleRoot>.
type TokenSet struct {
	Id         string         `json:"id" bson:"id"`
	ChainId    domain.ChainId `json:"chainId" bson:"chainId"`
	Schema     Schema         `json:"schema" bson:"schema"`
	SchemaHash string         `json:"schemaHash" bson:"schemaHash"`
	Contract   domain.Address `json:"contract" bson:"contract"`
	TokenIds   []string       `json:"tokenIds,omitempty" bson:"tokenIds,omitempty"`
	MerkleRoot string         `json:"merkleRoot,omitempty" bson:"merkleRoot,omitempty"`
	CreatedAt  time.Time      `json:"createdAt" bson:"createdAt"`
}

type Id struct {
	ChainId domain.ChainId `json:"chainId" bson:"chainId"`
	Id      string         `json:"id" bson:"id"`
}

func (t *TokenSet) ToId() Id {
	return Id{ChainId: t.ChainId, Id: t.Id}
}

type FindAllOptions struct {
	ChainId  *domain.ChainId
	Contract *domain.Address
	Schema   *Schema
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

func WithSchema(schema Schema) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Schema = &schema
		return nil
	}
}

func WithLimit(limit int32) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Limit = &limit
		return nil
	}
}

type Repo interface {
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*TokenSet, error)
	FindOne(ctx ctx.Ctx, id Id) (*TokenSet, error)
	Upsert(ctx ctx.Ctx, tokenSet *TokenSet) error
}

type UseCase interface {
	// GetOrCreate resolves a token set from its id, materializing single
	// token and contract wide sets on demand.
	GetOrCreate(ctx ctx.Ctx, chainId domain.ChainId, id string) (*TokenSet, error)
	// CreateTokenList registers an explicit token list and returns the set
	// keyed by its merkle root.
	CreateTokenList(ctx ctx.Ctx, chainId domain.ChainId, contract domain.Address, tokenIds []string, schemaHash string) (*TokenSet, error)
	// Exists reports whether the id refers to a known set.
	Exists(ctx ctx.Ctx, chainId domain.ChainId, id string) (bool, error)
}
