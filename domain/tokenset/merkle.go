package tokenset

import (
	"bytes"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/xerrors"
)

// Merkle trees over token ids follow the openzeppelin convention, leaves
// are keccak256 of the abi encoded id and pairs hash in sorted order, so
// verification needs no position information.

func leafOf(tokenId string) ([]byte, error) {
	id, ok := new(big.Int).SetString(tokenId, 10)
	if !ok {
		return nil, xerrors.Errorf("invalid token id %s", tokenId)
	}
	return crypto.Keccak256(common.BigToHash(id).Bytes()), nil
}

func hashPair(a, b []byte) []byte {
	if bytes.Compare(a, b) > 0 {
		a, b = b, a
	}
	return crypto.Keccak256(a, b)
}

// MerkleRoot computes the root over the token ids. Duplicates collapse and
// ordering of the input does not matter.
func MerkleRoot(tokenIds []string) (string, error) {
	leaves, err := sortedLeaves(tokenIds)
	if err != nil {
		return "", err
	}
	for len(leaves) > 1 {
		var next [][]byte
		for i := 0; i < len(leaves); i += 2 {
			if i+1 == len(leaves) {
				next = append(next, leaves[i])
			} else {
				next = append(next, hashPair(leaves[i], leaves[i+1]))
			}
		}
		leaves = next
	}
	return hexutil.Encode(leaves[0]), nil
}

// MerkleProof returns the sibling path for the given token id.
func MerkleProof(tokenIds []string, tokenId string) ([]string, error) {
	leaves, err := sortedLeaves(tokenIds)
	if err != nil {
		return nil, err
	}
	target, err := leafOf(tokenId)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i, l := range leaves {
		if bytes.Equal(l, target) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, xerrors.Errorf("token id %s not in set", tokenId)
	}

	var proof []string
	for len(leaves) > 1 {
		var next [][]byte
		for i := 0; i < len(leaves); i += 2 {
			if i+1 == len(leaves) {
				next = append(next, leaves[i])
				continue
			}
			next = append(next, hashPair(leaves[i], leaves[i+1]))
		}
		sibling := idx ^ 1
		if sibling < len(leaves) {
			proof = append(proof, hexutil.Encode(leaves[sibling]))
		}
		idx /= 2
		leaves = next
	}
	return proof, nil
}

func sortedLeaves(tokenIds []string) ([][]byte, error) {
	if len(tokenIds) == 0 {
		return nil, xerrors.New("empty token list")
	}
	seen := map[string]bool{}
	leaves := make([][]byte, 0, len(tokenIds))
	for _, id := range tokenIds {
		if seen[id] {
			continue
		}
		seen[id] = true
		leaf, err := leafOf(id)
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, leaf)
	}
	sort.Slice(leaves, func(i, j int) bool {
		return bytes.Compare(leaves[i], leaves[j]) < 0
	})
	return leaves, nil
}
