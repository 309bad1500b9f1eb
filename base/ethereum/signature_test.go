package ethereum

import (
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestValidateHashSignature(t *testing.T) {
	req := require.New(t)
	hash := hexutil.MustDecode("0x7d4a470c1f919efbc629d12c57cf5dbc7eee958d0b6d787f842944c0be83c8c3")
	sig := "0xfae5218f6165f30bf7d8798d6f1990fde8fea58c336b36c8cd3078b4d8dc2a9d0448debd2b776fb0f6bdf91d1142474d4682057d290561814172bce4641108641c"
	signer := "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	valid, err := ValidateHashSignature(hash, sig, signer)
	req.NoError(err)
	req.True(valid)
}

func TestValidateHashSignatureGeneratedKey(t *testing.T) {
	req := require.New(t)
	key, err := crypto.GenerateKey()
	req.NoError(err)
	signer := crypto.PubkeyToAddress(key.PublicKey).Hex()
	hash := crypto.Keccak256([]byte("payload"))
	sig, err := crypto.Sign(hash, key)
	req.NoError(err)

	valid, err := ValidateHashSignature(hash, hexutil.Encode(sig), signer)
	req.NoError(err)
	req.True(valid)

	otherKey, err := crypto.GenerateKey()
	req.NoError(err)
	valid, err = ValidateHashSignature(hash, hexutil.Encode(sig), crypto.PubkeyToAddress(otherKey.PublicKey).Hex())
	req.NoError(err)
	req.False(valid)
}

func TestValidateHashSignatureBadLength(t *testing.T) {
	req := require.New(t)
	_, err := ValidateHashSignature([]byte{0x1}, "0x1234", "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	req.Error(err)
}
