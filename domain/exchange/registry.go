package exchange

import (
	"github.com/x-xyz/aggregator/domain"
	"github.com/x-xyz/aggregator/domain/order"
	"golang.org/x/xerrors"
)

// Addresses is the per chain deployment map every component resolves
// contracts through.
type Addresses struct {
	SeaportV11 domain.Address
	SeaportV14 domain.Address

	ConduitController domain.Address
	// conduit key orders are built with, the opensea conduit
	ConduitKey string

	PausableZone     domain.Address
	CancellationZone domain.Address

	Weth domain.Address
	Beth domain.Address

	// royalty registry engine, empty where never deployed
	RoyaltyEngine domain.Address

	Router        domain.Address
	ApprovalProxy domain.Address
	SeaportModule domain.Address
	SwapModule    domain.Address

	ZeroExV4  domain.Address
	LooksRare domain.Address
	X2Y2      domain.Address
	Blur      domain.Address
}

var deployments = map[domain.ChainId]*Addresses{
	1: {
		SeaportV11:        "0x00000000006c3852cbef3e08e8df289169ede581",
		SeaportV14:        "0x00000000000001ad428e4906ae43d8f9852d0dd6",
		ConduitController: "0x00000000f9490004c11cef243f5400493c00ad63",
		ConduitKey:        "0x0000007b02230091a7ed01230072f7006a004d60a8d4e71d599b8104250f0000",
		PausableZone:      "0x004c00500000ad104d7dbd00e3ae0a5c00560c00",
		CancellationZone:  "0xaa0e012d35cf7d6ecb6c2bf861e71248501d3226",
		Weth:              "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
		Beth:              "0x0000000000a39bb272e79075ade125fd351887ac",
		RoyaltyEngine:     "0x0385603ab55642cb4dd5de3ae9e306809991804f",
		Router:            "0xc2c862322e9c97d6244a3506655da95f05246fd8",
		ApprovalProxy:     "0x79ce8e4c25cf6b2c36ad05b5e1e6454010432b2d",
		SeaportModule:     "0x20794ef7693441799a3f38fcc22a12b3e04b9572",
		SwapModule:        "0xc1fccc82a52b4ec4e24f6d5beab18faf19fa4d26",
		ZeroExV4:          "0xdef1c0ded9bec7f1a1670819833240f027b25eff",
		LooksRare:         "0x59728544b08ab483533076417fbbb2fd0b17ce3a",
		X2Y2:              "0x74312363e45dcaba76c59ec49a7aa8a65a67eed3",
		Blur:              "0x000000000000ad05ccc4f10045630fb830b95127",
	},
	5: {
		SeaportV11:        "0x00000000006c3852cbef3e08e8df289169ede581",
		SeaportV14:        "0x00000000000001ad428e4906ae43d8f9852d0dd6",
		ConduitController: "0x00000000f9490004c11cef243f5400493c00ad63",
		ConduitKey:        "0x0000007b02230091a7ed01230072f7006a004d60a8d4e71d599b8104250f0000",
		PausableZone:      "0x004c00500000ad104d7dbd00e3ae0a5c00560c00",
		CancellationZone:  "0x49b91d1d7b9896d28d370b75b92c2c78c1ac984a",
		Weth:              "0xb4fbf271143f4fbf7b91a5ded31805e42b2208d6",
		Router:            "0xb35d22a4553ab9d2b85e2a606cbae55f844df50c",
		ApprovalProxy:     "0x224ecb4eae96d31372d1090c3b0233c8310dbbab",
		SeaportModule:     "0x04c3af2cad3d1c037930184161ec24ba3a631129",
		SwapModule:        "0x8923573016bb4e9a091ce9284073605a8a3d3f2e",
	},
}

func AddressesByChain(chainId domain.ChainId) (*Addresses, error) {
	addrs, ok := deployments[chainId]
	if !ok {
		return nil, domain.ErrInvalidChainId
	}
	return addrs, nil
}

func (a *Addresses) ExchangeByKind(kind order.Kind) (domain.Address, error) {
	switch kind {
	case order.KindSeaport:
		return a.SeaportV11, nil
	case order.KindSeaportV14:
		return a.SeaportV14, nil
	case order.KindZeroExV4:
		return a.ZeroExV4, nil
	case order.KindLooksRare:
		return a.LooksRare, nil
	case order.KindX2Y2:
		return a.X2Y2, nil
	case order.KindBlur:
		return a.Blur, nil
	}
	return "", xerrors.Errorf("no exchange for kind %s: %w", kind, domain.ErrInvalidOrderKind)
}

// KnownZone reports whether orders restricted to the zone can still be
// filled through public flows.
func (a *Addresses) KnownZone(zone domain.Address) bool {
	if zone.IsEmpty() {
		return true
	}
	return zone.Equals(a.PausableZone) || zone.Equals(a.CancellationZone)
}
