package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/domain"
	"github.com/x-xyz/aggregator/domain/order"
	mOrder "github.com/x-xyz/aggregator/domain/order/mocks"
)

type orderUseCaseSuite struct {
	suite.Suite

	repo *mOrder.Repo
	im   order.UseCase
}

func TestOrderUseCaseSuite(t *testing.T) {
	suite.Run(t, new(orderUseCaseSuite))
}

func (s *orderUseCaseSuite) SetupTest() {
	s.repo = &mOrder.Repo{}
	s.im = New(&OrderUseCaseCfg{OrderRepo: s.repo})
}

func (s *orderUseCaseSuite) TestCancelByHash() {
	c := ctx.Background()
	hash := domain.OrderHash("0xABCD000000000000000000000000000000000000000000000000000000000001")
	id := order.Id{ChainId: 1, Hash: hash.ToLower()}

	s.repo.On("Update", mock.Anything, id, mock.MatchedBy(func(p order.Patchable) bool {
		return p.Fillability != nil && *p.Fillability == order.FillabilityCancelled
	})).Return(nil)

	s.NoError(s.im.CancelByHash(c, 1, hash, nil))
	s.repo.AssertExpectations(s.T())
}

func (s *orderUseCaseSuite) TestCancelByHashUnknownOrderIsNoop() {
	c := ctx.Background()
	hash := domain.OrderHash("0xabcd000000000000000000000000000000000000000000000000000000000001")

	s.repo.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(domain.ErrNotFound)

	s.NoError(s.im.CancelByHash(c, 1, hash, nil))
}

func (s *orderUseCaseSuite) TestCancelByCounter() {
	c := ctx.Background()
	maker := domain.Address("0x00000000000000000000000000000000000000aa")

	s.repo.On("UpdateAll", mock.Anything, mock.MatchedBy(func(p order.Patchable) bool {
		return p.Fillability != nil && *p.Fillability == order.FillabilityCancelled
	}), mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(3, nil)

	s.NoError(s.im.CancelByCounter(c, 1, maker, []order.Kind{order.KindSeaport, order.KindSeaportV14}, "5", nil))
	s.repo.AssertExpectations(s.T())
}

func (s *orderUseCaseSuite) TestExpireOrdersSweepsPastValidUntil() {
	c := ctx.Background()

	var opts order.FindAllOptions
	s.repo.On("UpdateAll", mock.Anything, mock.MatchedBy(func(p order.Patchable) bool {
		return p.Fillability != nil && *p.Fillability == order.FillabilityExpired && p.UpdatedAt != nil
	}), mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			for _, a := range args[2:] {
				s.Require().NoError(a.(order.FindAllOptionsFunc)(&opts))
			}
		}).
		Return(2, nil)

	cnt, err := s.im.ExpireOrders(c, 1)
	s.Require().NoError(err)
	s.Equal(2, cnt)

	s.Require().NotNil(opts.ChainId)
	s.Equal(domain.ChainId(1), *opts.ChainId)
	s.ElementsMatch([]order.FillabilityStatus{order.FillabilityFillable, order.FillabilityNoBalance}, opts.Fillability)
	s.Require().NotNil(opts.ValidUntilLT)
	s.WithinDuration(time.Now(), *opts.ValidUntilLT, time.Minute)
	s.repo.AssertExpectations(s.T())
}

func (s *orderUseCaseSuite) TestFillByHashExhaustsQuantity() {
	c := ctx.Background()
	hash := domain.OrderHash("0xabcd000000000000000000000000000000000000000000000000000000000001")
	id := order.Id{ChainId: 1, Hash: hash}
	taker := domain.Address("0x00000000000000000000000000000000000000bb")

	s.repo.On("FindOne", mock.Anything, id).Return(&order.Order{
		ChainId:           1,
		Hash:              hash,
		QuantityRemaining: "1",
	}, nil)
	s.repo.On("Update", mock.Anything, id, mock.MatchedBy(func(p order.Patchable) bool {
		return p.Fillability != nil && *p.Fillability == order.FillabilityFilled &&
			p.QuantityRemaining != nil && *p.QuantityRemaining == "0" &&
			p.Taker != nil && *p.Taker == taker
	})).Return(nil)

	s.NoError(s.im.FillByHash(c, 1, hash, "1", taker, nil))
	s.repo.AssertExpectations(s.T())
}

func (s *orderUseCaseSuite) TestFillByHashPartialKeepsFillable() {
	c := ctx.Background()
	hash := domain.OrderHash("0xabcd000000000000000000000000000000000000000000000000000000000001")
	id := order.Id{ChainId: 1, Hash: hash}

	s.repo.On("FindOne", mock.Anything, id).Return(&order.Order{
		ChainId:           1,
		Hash:              hash,
		QuantityRemaining: "5",
	}, nil)
	s.repo.On("Update", mock.Anything, id, mock.MatchedBy(func(p order.Patchable) bool {
		return p.Fillability == nil &&
			p.QuantityRemaining != nil && *p.QuantityRemaining == "3"
	})).Return(nil)

	s.NoError(s.im.FillByHash(c, 1, hash, "2", "0x00000000000000000000000000000000000000bb", nil))
	s.repo.AssertExpectations(s.T())
}

func (s *orderUseCaseSuite) TestFillByHashUnknownOrderIsNoop() {
	c := ctx.Background()
	hash := domain.OrderHash("0xabcd000000000000000000000000000000000000000000000000000000000001")

	s.repo.On("FindOne", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)

	s.NoError(s.im.FillByHash(c, 1, hash, "1", "0x00000000000000000000000000000000000000bb", nil))
	s.repo.AssertNotCalled(s.T(), "Update", mock.Anything, mock.Anything, mock.Anything)
}
