package contract

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	bCtx "github.com/x-xyz/aggregator/base/ctx"
	mChain "github.com/x-xyz/aggregator/service/chain/mocks"
)

func TestErc1271_IsValidSignature(t *testing.T) {
	req := require.New(t)
	ctx := bCtx.Background()
	hash := common.HexToHash("0x01f6f4c6639ea7f7d4df5425aaefe85113235810e9dd52ccf56297a16191c3ea")
	sig := []byte{0x01, 0x02}

	var magic [4]byte
	copy(magic[:], common.Hex2Bytes("1626ba7e"))
	var garbage [4]byte

	tests := []struct {
		name     string
		returned [4]byte
		want     bool
	}{
		{"magic value means valid", magic, true},
		{"anything else means invalid", garbage, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chainService := &mChain.Client{}
			chainService.On("Call", mock.Anything, int32(1), mock.Anything, mock.Anything, mock.Anything, "isValidSignature", hash, sig).
				Return([]interface{}{tt.returned}, nil)
			erc1271 := NewErc1271(chainService)
			got, err := erc1271.IsValidSignature(ctx, 1, "0xac461fdfc10c71861f37fe42589334e021baa1ee", hash, sig)
			req.NoError(err)
			req.Equal(tt.want, got)
		})
	}
}
