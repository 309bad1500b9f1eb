package abi

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

var RoyaltyEngineABI abi.ABI

func init() {
	_abi, err := abi.JSON(strings.NewReader(royaltyEngineABIJson))
	if err != nil {
		panic("Failed to parse ABI")
	}
	RoyaltyEngineABI = _abi
}

var royaltyEngineABIJson = `
[
  {
    "inputs": [
      {
        "internalType": "address",
        "name": "tokenAddress",
        "type": "address"
      },
      {
        "internalType": "uint256",
        "name": "tokenId",
        "type": "uint256"
      },
      {
        "internalType": "uint256",
        "name": "value",
        "type": "uint256"
      }
    ],
    "name": "getRoyalty",
    "outputs": [
      {
        "internalType": "address payable[]",
        "name": "recipients",
        "type": "address[]"
      },
      {
        "internalType": "uint256[]",
        "name": "amounts",
        "type": "uint256[]"
      }
    ],
    "stateMutability": "nonpayable",
    "type": "function"
  }
]

`
