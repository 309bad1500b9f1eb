package usecase

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/xerrors"

	"github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/domain"
	"github.com/x-xyz/aggregator/domain/collection"
	mCollection "github.com/x-xyz/aggregator/domain/collection/mocks"
	mContract "github.com/x-xyz/aggregator/service/chain/contract/mocks"
)

type collectionUseCaseSuite struct {
	suite.Suite

	repo *mCollection.Repo
	im   collection.UseCase
}

func TestCollectionUseCaseSuite(t *testing.T) {
	suite.Run(t, new(collectionUseCaseSuite))
}

func (s *collectionUseCaseSuite) SetupTest() {
	s.repo = &mCollection.Repo{}
	s.im = New(&CollectionUseCaseCfg{CollectionRepo: s.repo})
}

func (s *collectionUseCaseSuite) TestGetRoyaltiesUnderCap() {
	c := ctx.Background()
	id := collection.CollectionId{ChainId: 1, Address: "0x9a38dec0590abc8c883d72e52391090e948ddf12"}
	s.repo.On("FindOne", mock.Anything, id).Return(&collection.Collection{
		ChainId:  1,
		Contract: id.Address,
		Royalties: []collection.Royalty{
			{Recipient: "0x0000000000000000000000000000000000000001", Bps: 250},
			{Recipient: "0x0000000000000000000000000000000000000002", Bps: 250},
		},
	}, nil)

	royalties, err := s.im.GetRoyalties(c, id, 1000)
	s.NoError(err)
	s.Len(royalties, 2)
	s.Equal(250, royalties[0].Bps)
}

func (s *collectionUseCaseSuite) TestGetRoyaltiesCappedProRata() {
	c := ctx.Background()
	id := collection.CollectionId{ChainId: 1, Address: "0x9a38dec0590abc8c883d72e52391090e948ddf12"}
	s.repo.On("FindOne", mock.Anything, id).Return(&collection.Collection{
		ChainId:  1,
		Contract: id.Address,
		Royalties: []collection.Royalty{
			{Recipient: "0x0000000000000000000000000000000000000001", Bps: 600},
			{Recipient: "0x0000000000000000000000000000000000000002", Bps: 200},
		},
	}, nil)

	royalties, err := s.im.GetRoyalties(c, id, 400)
	s.NoError(err)
	s.Len(royalties, 2)
	s.Equal(300, royalties[0].Bps)
	s.Equal(100, royalties[1].Bps)
}

func (s *collectionUseCaseSuite) TestGetRoyaltiesUnknownCollection() {
	c := ctx.Background()
	id := collection.CollectionId{ChainId: 1, Address: "0x9a38dec0590abc8c883d72e52391090e948ddf12"}
	s.repo.On("FindOne", mock.Anything, id).Return(nil, domain.ErrNotFound)

	royalties, err := s.im.GetRoyalties(c, id, 1000)
	s.NoError(err)
	s.Nil(royalties)
}

func (s *collectionUseCaseSuite) TestGetRoyaltiesFallsBackOnChain() {
	c := ctx.Background()
	id := collection.CollectionId{ChainId: 1, Address: "0x9a38dec0590abc8c883d72e52391090e948ddf12"}
	engineAddr := domain.Address("0x0385603ab55642cb4dd5de3ae9e306809991804f")
	engine := &mContract.RoyaltyEngineContract{}
	im := New(&CollectionUseCaseCfg{
		CollectionRepo:     s.repo,
		RoyaltyEngine:      engine,
		RoyaltyEngineAddrs: map[domain.ChainId]domain.Address{1: engineAddr},
	})

	s.repo.On("FindOne", mock.Anything, id).Return(nil, domain.ErrNotFound)
	// sampled with a value of 10000 so amounts come back as bps
	engine.On("GetRoyalty", mock.Anything, int32(1), engineAddr.ToLowerStr(), id.Address.ToLowerStr(), big.NewInt(1), big.NewInt(10000)).
		Return([]string{"0xAAe7aC476b117bcCAfE2f05F582906be44bc8FF1"}, []*big.Int{big.NewInt(250)}, nil)

	royalties, err := im.GetRoyalties(c, id, 1000)
	s.NoError(err)
	s.Len(royalties, 1)
	s.Equal(domain.Address("0xaae7ac476b117bccafe2f05f582906be44bc8ff1"), royalties[0].Recipient)
	s.Equal(250, royalties[0].Bps)
}

func (s *collectionUseCaseSuite) TestGetRoyaltiesOnChainFailureIsSoft() {
	c := ctx.Background()
	id := collection.CollectionId{ChainId: 1, Address: "0x9a38dec0590abc8c883d72e52391090e948ddf12"}
	engine := &mContract.RoyaltyEngineContract{}
	im := New(&CollectionUseCaseCfg{
		CollectionRepo:     s.repo,
		RoyaltyEngine:      engine,
		RoyaltyEngineAddrs: map[domain.ChainId]domain.Address{1: "0x0385603ab55642cb4dd5de3ae9e306809991804f"},
	})

	s.repo.On("FindOne", mock.Anything, id).Return(nil, domain.ErrNotFound)
	engine.On("GetRoyalty", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil, xerrors.New("execution reverted"))

	royalties, err := im.GetRoyalties(c, id, 1000)
	s.NoError(err)
	s.Nil(royalties)
}

func (s *collectionUseCaseSuite) TestGetFloorAskValueFallsBackToStore() {
	c := ctx.Background()
	id := collection.CollectionId{ChainId: 1, Address: "0x9a38dec0590abc8c883d72e52391090e948ddf12"}
	s.repo.On("FindOne", mock.Anything, id).Return(&collection.Collection{
		ChainId:       1,
		Contract:      id.Address,
		FloorAskValue: "1000000000000000000",
	}, nil).Once()

	value, err := s.im.GetFloorAskValue(c, id)
	s.NoError(err)
	s.Equal("1000000000000000000", value)

	// second read comes from the cache
	value, err = s.im.GetFloorAskValue(c, id)
	s.NoError(err)
	s.Equal("1000000000000000000", value)
	s.repo.AssertNumberOfCalls(s.T(), "FindOne", 1)
}

func (s *collectionUseCaseSuite) TestRefreshFloorAskValue() {
	c := ctx.Background()
	id := collection.CollectionId{ChainId: 1, Address: "0x9a38dec0590abc8c883d72e52391090e948ddf12"}
	s.repo.On("Patch", mock.Anything, id, mock.Anything).Return(nil)

	s.NoError(s.im.RefreshFloorAskValue(c, id, "2000000000000000000"))

	value, err := s.im.GetFloorAskValue(c, id)
	s.NoError(err)
	s.Equal("2000000000000000000", value)
}
