package seaport

import (
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/domain"
	mContract "github.com/x-xyz/aggregator/service/chain/contract/mocks"
)

const testExchange = "0x00000000000001ad428e4906ae43d8f9852d0dd6"

func makerOrder(t *testing.T) (*Order, *ecdsa.PrivateKey) {
	priv, err := crypto.GenerateKey()
	require.NoError(t, err)
	maker := domain.Address(crypto.PubkeyToAddress(priv.PublicKey).Hex()).ToLower()

	so, err := BuildSingleTokenBuy(&BuildParams{
		ChainId:      1,
		Version:      VersionV14,
		Offerer:      maker,
		Contract:     buildContract,
		TokenId:      "1",
		TokenKind:    domain.TokenType721,
		PaymentToken: buildWeth,
		Price:        big.NewInt(100),
		StartTime:    1000,
		EndTime:      2000,
	})
	require.NoError(t, err)
	return so, priv
}

func signDigest(t *testing.T, digest []byte, priv *ecdsa.PrivateKey) []byte {
	sig, err := crypto.Sign(digest, priv)
	require.NoError(t, err)
	return sig
}

func TestCheckSignatureRoundtrip(t *testing.T) {
	req := require.New(t)
	erc1271 := &mContract.Erc1271Contract{}

	so, priv := makerOrder(t)
	digest, err := so.Params.SignHash(so.ChainId, testExchange, so.Version)
	req.NoError(err)
	so.Params.Signature = hexutil.Encode(signDigest(t, digest, priv))

	req.NoError(so.CheckSignature(ctx.Background(), erc1271, testExchange))
	erc1271.AssertNotCalled(t, "IsValidSignature")
}

func TestCheckSignatureCompactForm(t *testing.T) {
	req := require.New(t)
	erc1271 := &mContract.Erc1271Contract{}

	so, priv := makerOrder(t)
	digest, err := so.Params.SignHash(so.ChainId, testExchange, so.Version)
	req.NoError(err)
	sig := signDigest(t, digest, priv)

	// eip2098, yParity folded into the top bit of s
	compact := make([]byte, 64)
	copy(compact[:32], sig[:32])
	copy(compact[32:], sig[32:64])
	if sig[64] == 1 {
		compact[32] |= 0x80
	}
	so.Params.Signature = hexutil.Encode(compact)

	req.NoError(so.CheckSignature(ctx.Background(), erc1271, testExchange))
}

func TestCheckSignatureRejectsWrongSigner(t *testing.T) {
	req := require.New(t)
	erc1271 := &mContract.Erc1271Contract{}
	erc1271.On("IsValidSignature", mock.Anything, int32(1), mock.Anything, mock.Anything, mock.Anything).Return(false, nil)

	so, _ := makerOrder(t)
	other, err := crypto.GenerateKey()
	req.NoError(err)
	digest, err := so.Params.SignHash(so.ChainId, testExchange, so.Version)
	req.NoError(err)
	so.Params.Signature = hexutil.Encode(signDigest(t, digest, other))

	req.ErrorIs(so.CheckSignature(ctx.Background(), erc1271, testExchange), ErrInvalidSignature)
}

func TestHashChangesWithSalt(t *testing.T) {
	req := require.New(t)

	so, _ := makerOrder(t)
	h1, err := so.HashHex()
	req.NoError(err)
	req.Len(string(h1), 66)
	h2, err := so.HashHex()
	req.NoError(err)
	req.Equal(h1, h2)

	so.Params.Salt = "1234"
	h3, err := so.HashHex()
	req.NoError(err)
	req.NotEqual(h1, h3)
}

func TestCheckValidityRejectsMalformedFields(t *testing.T) {
	req := require.New(t)

	so, _ := makerOrder(t)
	req.NoError(so.CheckValidity())

	bad := *so
	bad.Params.ConduitKey = "0x1234"
	req.ErrorIs(bad.CheckValidity(), ErrInvalidOrderFormat)

	bad = *so
	bad.Params.EndTime = bad.Params.StartTime
	req.ErrorIs(bad.CheckValidity(), ErrInvalidOrderFormat)

	bad = *so
	bad.Params.Salt = "not a number"
	req.ErrorIs(bad.CheckValidity(), ErrInvalidOrderFormat)
}
