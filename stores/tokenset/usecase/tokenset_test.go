package usecase

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/domain"
	"github.com/x-xyz/aggregator/domain/tokenset"
	mTokenset "github.com/x-xyz/aggregator/domain/tokenset/mocks"
)

const tsContract = "0x00000000000000000000000000000000000000bb"

type tokensetSuite struct {
	suite.Suite

	repo *mTokenset.Repo
	im   tokenset.UseCase
}

func (s *tokensetSuite) SetupTest() {
	s.repo = &mTokenset.Repo{}
	s.im = New(&TokenSetUseCaseCfg{TokenSetRepo: s.repo})
}

func TestTokensetSuite(t *testing.T) {
	suite.Run(t, new(tokensetSuite))
}

func (s *tokensetSuite) TestGetOrCreateReturnsExisting() {
	id := "token:" + tsContract + ":1"
	existing := &tokenset.TokenSet{Id: id, ChainId: 1, Schema: tokenset.SchemaToken}
	s.repo.On("FindOne", mock.Anything, tokenset.Id{ChainId: 1, Id: id}).Return(existing, nil)

	ts, err := s.im.GetOrCreate(ctx.Background(), 1, id)
	s.NoError(err)
	s.Equal(existing, ts)
	s.repo.AssertNotCalled(s.T(), "Upsert")
}

func (s *tokensetSuite) TestGetOrCreateMaterializesSingleToken() {
	id := "token:" + tsContract + ":42"
	s.repo.On("FindOne", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	s.repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	ts, err := s.im.GetOrCreate(ctx.Background(), 1, id)
	s.NoError(err)
	s.Equal(tokenset.SchemaToken, ts.Schema)
	s.Equal(domain.Address(tsContract), ts.Contract)
	s.Equal([]string{"42"}, ts.TokenIds)
	s.repo.AssertCalled(s.T(), "Upsert", mock.Anything, mock.Anything)
}

func (s *tokensetSuite) TestGetOrCreateMaterializesContractWide() {
	id := "contract:" + tsContract
	s.repo.On("FindOne", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	s.repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	ts, err := s.im.GetOrCreate(ctx.Background(), 1, id)
	s.NoError(err)
	s.Equal(tokenset.SchemaContract, ts.Schema)
	s.Empty(ts.TokenIds)
}

func (s *tokensetSuite) TestGetOrCreateRefusesUnregisteredList() {
	id := "list:" + tsContract + ":0x00000000000000000000000000000000000000000000000000000000000000aa"
	s.repo.On("FindOne", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)

	_, err := s.im.GetOrCreate(ctx.Background(), 1, id)
	s.ErrorIs(err, tokenset.ErrUnknownTokenList)
	s.repo.AssertNotCalled(s.T(), "Upsert")
}

func (s *tokensetSuite) TestGetOrCreateRejectsMalformedId() {
	s.repo.On("FindOne", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)

	_, err := s.im.GetOrCreate(ctx.Background(), 1, "garbage")
	s.ErrorContains(err, "invalid token set id")
}

func (s *tokensetSuite) TestCreateTokenListKeyedByRoot() {
	ids := []string{"1", "2", "3"}
	root, err := tokenset.MerkleRoot(ids)
	s.Require().NoError(err)
	s.repo.On("Upsert", mock.Anything, mock.MatchedBy(func(ts *tokenset.TokenSet) bool {
		return ts.Id == "list:"+tsContract+":"+root && ts.MerkleRoot == root
	})).Return(nil)

	ts, err := s.im.CreateTokenList(ctx.Background(), 1, tsContract, ids, "0xschema")
	s.NoError(err)
	s.Equal(tokenset.SchemaTokenList, ts.Schema)
	s.Equal(ids, ts.TokenIds)
	s.repo.AssertExpectations(s.T())
}

func (s *tokensetSuite) TestCreateTokenListRejectsEmpty() {
	_, err := s.im.CreateTokenList(ctx.Background(), 1, tsContract, nil, "")
	s.Error(err)
}

func (s *tokensetSuite) TestExistsCachesPositiveLookups() {
	id := "contract:" + tsContract
	s.repo.On("FindOne", mock.Anything, tokenset.Id{ChainId: 1, Id: id}).Return(&tokenset.TokenSet{Id: id}, nil).Once()

	ok, err := s.im.Exists(ctx.Background(), 1, id)
	s.NoError(err)
	s.True(ok)

	// second check is served from the cache
	ok, err = s.im.Exists(ctx.Background(), 1, id)
	s.NoError(err)
	s.True(ok)
	s.repo.AssertNumberOfCalls(s.T(), "FindOne", 1)
}

func (s *tokensetSuite) TestExistsNegativeNotCached() {
	id := "token:" + tsContract + ":7"
	s.repo.On("FindOne", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)

	ok, err := s.im.Exists(ctx.Background(), 1, id)
	s.NoError(err)
	s.False(ok)

	ok, err = s.im.Exists(ctx.Background(), 1, id)
	s.NoError(err)
	s.False(ok)
	s.repo.AssertNumberOfCalls(s.T(), "FindOne", 2)
}
