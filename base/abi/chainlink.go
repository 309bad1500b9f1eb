package abi

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

var ChainlinkFeedABI abi.ABI

var chainlinkFeedABIJson = `[
{"type":"function","name":"latestAnswer","constant":true,"stateMutability":"view","inputs":[],"outputs":[{"type":"int256"}]},
{"type":"function","name":"decimals","constant":true,"stateMutability":"view","inputs":[],"outputs":[{"type":"uint8"}]}]`

func init() {
	_abi, err := abi.JSON(strings.NewReader(chainlinkFeedABIJson))
	if err != nil {
		panic("Failed to parse chainlink feed abi")
	}
	ChainlinkFeedABI = _abi
}
