package seaport

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/x-xyz/aggregator/domain"
)

func TestDeriveConduit(t *testing.T) {
	req := require.New(t)

	controller := domain.Address("0x00000000f9490004c11cef243f5400493c00ad63")

	// the opensea conduit on mainnet
	conduit, err := DeriveConduit(controller, "0x0000007b02230091a7ed01230072f7006a004d60a8d4e71d599b8104250f0000", testExchange)
	req.NoError(err)
	req.Equal(domain.Address("0x1e0049783f008a0085193e00003d00cd54003c71"), conduit)

	// zero key routes through the exchange itself
	conduit, err = DeriveConduit(controller, HashZero, testExchange)
	req.NoError(err)
	req.Equal(domain.Address(testExchange), conduit)

	_, err = DeriveConduit(controller, "nonsense", testExchange)
	req.Error(err)
}
