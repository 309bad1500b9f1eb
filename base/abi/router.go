package abi

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

var RouterABI abi.ABI
var SeaportModuleABI abi.ABI
var SwapModuleABI abi.ABI
var ApprovalProxyABI abi.ABI

const routerExecutionInfoComponents = `[
	{"type":"address","name":"module"},
	{"type":"bytes","name":"data"},
	{"type":"uint256","name":"value"}]`

var routerABIJson = `[
{"type":"function","name":"execute","stateMutability":"payable","inputs":[{"type":"tuple[]","name":"executionInfos","components":` + routerExecutionInfoComponents + `}],"outputs":[]}]`

const moduleFeeComponents = `[
	{"type":"address","name":"recipient"},
	{"type":"uint256","name":"amount"}]`

const moduleEthListingParamsComponents = `[
	{"type":"address","name":"fillTo"},
	{"type":"address","name":"refundTo"},
	{"type":"bool","name":"revertIfIncomplete"},
	{"type":"uint256","name":"amount"}]`

const moduleErc20ListingParamsComponents = `[
	{"type":"address","name":"fillTo"},
	{"type":"address","name":"refundTo"},
	{"type":"bool","name":"revertIfIncomplete"},
	{"type":"address","name":"token"},
	{"type":"uint256","name":"amount"}]`

const moduleOfferParamsComponents = `[
	{"type":"address","name":"fillTo"},
	{"type":"address","name":"refundTo"},
	{"type":"bool","name":"revertIfIncomplete"}]`

var seaportModuleABIJson = `[
{"type":"function","name":"acceptETHListings","stateMutability":"payable","inputs":[{"type":"tuple[]","name":"orders","components":` + seaportAdvancedOrderComponents + `},{"type":"tuple","name":"params","components":` + moduleEthListingParamsComponents + `},{"type":"tuple[]","name":"fees","components":` + moduleFeeComponents + `}],"outputs":[]},
{"type":"function","name":"acceptERC20Listings","stateMutability":"nonpayable","inputs":[{"type":"tuple[]","name":"orders","components":` + seaportAdvancedOrderComponents + `},{"type":"tuple","name":"params","components":` + moduleErc20ListingParamsComponents + `},{"type":"tuple[]","name":"fees","components":` + moduleFeeComponents + `}],"outputs":[]},
{"type":"function","name":"acceptOffers","stateMutability":"nonpayable","inputs":[{"type":"tuple[]","name":"orders","components":` + seaportAdvancedOrderComponents + `},{"type":"tuple[]","name":"criteriaResolvers","components":` + seaportCriteriaResolverComponents + `},{"type":"tuple","name":"params","components":` + moduleOfferParamsComponents + `},{"type":"tuple[]","name":"fees","components":` + moduleFeeComponents + `}],"outputs":[]}]`

const swapTransferDetailComponents = `[
	{"type":"address","name":"tokenOut"},
	{"type":"uint256","name":"amountOut"},
	{"type":"address","name":"recipient"}]`

var swapModuleABIJson = `[
{"type":"function","name":"ethToExactOutput","stateMutability":"payable","inputs":[{"type":"tuple[]","name":"swaps","components":` + swapTransferDetailComponents + `},{"type":"address","name":"refundTo"}],"outputs":[]},
{"type":"function","name":"erc20ToExactOutput","stateMutability":"nonpayable","inputs":[{"type":"address","name":"tokenIn"},{"type":"tuple[]","name":"swaps","components":` + swapTransferDetailComponents + `},{"type":"address","name":"refundTo"}],"outputs":[]}]`

const transferItemComponents = `[
	{"type":"uint8","name":"itemType"},
	{"type":"address","name":"token"},
	{"type":"uint256","name":"identifier"},
	{"type":"uint256","name":"amount"},
	{"type":"address","name":"recipient"}]`

var approvalProxyABIJson = `[
{"type":"function","name":"bulkTransferWithExecute","stateMutability":"nonpayable","inputs":[{"type":"tuple[]","name":"transferItems","components":` + transferItemComponents + `},{"type":"tuple[]","name":"executionInfos","components":` + routerExecutionInfoComponents + `},{"type":"bytes32","name":"conduitKey"}],"outputs":[]}]`

func init() {
	_abi, err := abi.JSON(strings.NewReader(routerABIJson))
	if err != nil {
		panic("Failed to parse router abi")
	}
	RouterABI = _abi
	_abi, err = abi.JSON(strings.NewReader(seaportModuleABIJson))
	if err != nil {
		panic("Failed to parse seaport module abi")
	}
	SeaportModuleABI = _abi
	_abi, err = abi.JSON(strings.NewReader(swapModuleABIJson))
	if err != nil {
		panic("Failed to parse swap module abi")
	}
	SwapModuleABI = _abi
	_abi, err = abi.JSON(strings.NewReader(approvalProxyABIJson))
	if err != nil {
		panic("Failed to parse approval proxy abi")
	}
	ApprovalProxyABI = _abi
}

type RouterExecutionInfo struct {
	Module common.Address
	Data   []byte
	Value  *big.Int
}

type ModuleFee struct {
	Recipient common.Address
	Amount    *big.Int
}

type ModuleEthListingParams struct {
	FillTo             common.Address
	RefundTo           common.Address
	RevertIfIncomplete bool
	Amount             *big.Int
}

type ModuleErc20ListingParams struct {
	FillTo             common.Address
	RefundTo           common.Address
	RevertIfIncomplete bool
	Token              common.Address
	Amount             *big.Int
}

type ModuleOfferParams struct {
	FillTo             common.Address
	RefundTo           common.Address
	RevertIfIncomplete bool
}

type SwapTransferDetail struct {
	TokenOut  common.Address
	AmountOut *big.Int
	Recipient common.Address
}

type TransferItem struct {
	ItemType   uint8
	Token      common.Address
	Identifier *big.Int
	Amount     *big.Int
	Recipient  common.Address
}
