package abi

import (
	"bytes"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"golang.org/x/xerrors"
)

var SeaportV11ABI abi.ABI
var SeaportV14ABI abi.ABI

const seaportOrderParametersComponents = `[
	{"type":"address","name":"offerer"},
	{"type":"address","name":"zone"},
	{"type":"tuple[]","name":"offer","components":[
		{"type":"uint8","name":"itemType"},
		{"type":"address","name":"token"},
		{"type":"uint256","name":"identifierOrCriteria"},
		{"type":"uint256","name":"startAmount"},
		{"type":"uint256","name":"endAmount"}]},
	{"type":"tuple[]","name":"consideration","components":[
		{"type":"uint8","name":"itemType"},
		{"type":"address","name":"token"},
		{"type":"uint256","name":"identifierOrCriteria"},
		{"type":"uint256","name":"startAmount"},
		{"type":"uint256","name":"endAmount"},
		{"type":"address","name":"recipient"}]},
	{"type":"uint8","name":"orderType"},
	{"type":"uint256","name":"startTime"},
	{"type":"uint256","name":"endTime"},
	{"type":"bytes32","name":"zoneHash"},
	{"type":"uint256","name":"salt"},
	{"type":"bytes32","name":"conduitKey"},
	{"type":"uint256","name":"totalOriginalConsiderationItems"}]`

const seaportAdvancedOrderComponents = `[
	{"type":"tuple","name":"parameters","components":` + seaportOrderParametersComponents + `},
	{"type":"uint120","name":"numerator"},
	{"type":"uint120","name":"denominator"},
	{"type":"bytes","name":"signature"},
	{"type":"bytes","name":"extraData"}]`

const seaportCriteriaResolverComponents = `[
	{"type":"uint256","name":"orderIndex"},
	{"type":"uint8","name":"side"},
	{"type":"uint256","name":"index"},
	{"type":"uint256","name":"identifier"},
	{"type":"bytes32[]","name":"criteriaProof"}]`

const seaportFulfillmentComponentComponents = `[
	{"type":"uint256","name":"orderIndex"},
	{"type":"uint256","name":"itemIndex"}]`

const seaportFulfillFunctions = `
{"type":"function","name":"fulfillAdvancedOrder","stateMutability":"payable","inputs":[{"type":"tuple","name":"advancedOrder","components":` + seaportAdvancedOrderComponents + `},{"type":"tuple[]","name":"criteriaResolvers","components":` + seaportCriteriaResolverComponents + `},{"type":"bytes32","name":"fulfillerConduitKey"},{"type":"address","name":"recipient"}],"outputs":[{"type":"bool","name":"fulfilled"}]},
{"type":"function","name":"fulfillAvailableAdvancedOrders","stateMutability":"payable","inputs":[{"type":"tuple[]","name":"advancedOrders","components":` + seaportAdvancedOrderComponents + `},{"type":"tuple[]","name":"criteriaResolvers","components":` + seaportCriteriaResolverComponents + `},{"type":"tuple[][]","name":"offerFulfillments","components":` + seaportFulfillmentComponentComponents + `},{"type":"tuple[][]","name":"considerationFulfillments","components":` + seaportFulfillmentComponentComponents + `},{"type":"bytes32","name":"fulfillerConduitKey"},{"type":"address","name":"recipient"},{"type":"uint256","name":"maximumFulfilled"}],"outputs":[{"type":"bool[]","name":"availableOrders"}]},`

var seaportV11ABIJson = `[` + seaportFulfillFunctions + `
{"type":"function","name":"getCounter","constant":true,"stateMutability":"view","inputs":[{"type":"address","name":"offerer"}],"outputs":[{"type":"uint256","name":"counter"}]},
{"type":"function","name":"validate","stateMutability":"nonpayable","inputs":[{"type":"tuple[]","name":"orders","components":[{"type":"tuple","name":"parameters","components":` + seaportOrderParametersComponents + `},{"type":"bytes","name":"signature"}]}],"outputs":[{"type":"bool","name":"validated"}]},
{"type":"event","anonymous":false,"name":"OrderCancelled","inputs":[{"type":"bytes32","name":"orderHash","indexed":false},{"type":"address","name":"offerer","indexed":true},{"type":"address","name":"zone","indexed":true}]},
{"type":"event","anonymous":false,"name":"CounterIncremented","inputs":[{"type":"uint256","name":"newCounter","indexed":false},{"type":"address","name":"offerer","indexed":true}]},
{"type":"event","anonymous":false,"name":"OrderFulfilled","inputs":[{"type":"bytes32","name":"orderHash","indexed":false},{"type":"address","name":"offerer","indexed":true},{"type":"address","name":"zone","indexed":true},{"type":"address","name":"recipient","indexed":false},{"type":"tuple[]","name":"offer","indexed":false,"components":[{"type":"uint8","name":"itemType"},{"type":"address","name":"token"},{"type":"uint256","name":"identifier"},{"type":"uint256","name":"amount"}]},{"type":"tuple[]","name":"consideration","indexed":false,"components":[{"type":"uint8","name":"itemType"},{"type":"address","name":"token"},{"type":"uint256","name":"identifier"},{"type":"uint256","name":"amount"},{"type":"address","name":"recipient"}]}]},
{"type":"event","anonymous":false,"name":"OrderValidated","inputs":[{"type":"bytes32","name":"orderHash","indexed":false},{"type":"address","name":"offerer","indexed":true},{"type":"address","name":"zone","indexed":true}]}]`

var seaportV14ABIJson = `[` + seaportFulfillFunctions + `
{"type":"function","name":"getCounter","constant":true,"stateMutability":"view","inputs":[{"type":"address","name":"offerer"}],"outputs":[{"type":"uint256","name":"counter"}]},
{"type":"event","anonymous":false,"name":"OrderCancelled","inputs":[{"type":"bytes32","name":"orderHash","indexed":false},{"type":"address","name":"offerer","indexed":true},{"type":"address","name":"zone","indexed":true}]},
{"type":"event","anonymous":false,"name":"CounterIncremented","inputs":[{"type":"uint256","name":"newCounter","indexed":false},{"type":"address","name":"offerer","indexed":true}]},
{"type":"event","anonymous":false,"name":"OrderFulfilled","inputs":[{"type":"bytes32","name":"orderHash","indexed":false},{"type":"address","name":"offerer","indexed":true},{"type":"address","name":"zone","indexed":true},{"type":"address","name":"recipient","indexed":false},{"type":"tuple[]","name":"offer","indexed":false,"components":[{"type":"uint8","name":"itemType"},{"type":"address","name":"token"},{"type":"uint256","name":"identifier"},{"type":"uint256","name":"amount"}]},{"type":"tuple[]","name":"consideration","indexed":false,"components":[{"type":"uint8","name":"itemType"},{"type":"address","name":"token"},{"type":"uint256","name":"identifier"},{"type":"uint256","name":"amount"},{"type":"address","name":"recipient"}]}]},
{"type":"event","anonymous":false,"name":"OrderValidated","inputs":[{"type":"bytes32","name":"orderHash","indexed":false},{"type":"tuple","name":"orderParameters","indexed":false,"components":` + seaportOrderParametersComponents + `}]}]`

func init() {
	_abi, err := abi.JSON(strings.NewReader(seaportV11ABIJson))
	if err != nil {
		panic("Failed to parse seaport v1.1 abi")
	}
	SeaportV11ABI = _abi
	_abi, err = abi.JSON(strings.NewReader(seaportV14ABIJson))
	if err != nil {
		panic("Failed to parse seaport v1.4 abi")
	}
	SeaportV14ABI = _abi
}

type SeaportSpentItem struct {
	ItemType   uint8
	Token      common.Address
	Identifier *big.Int
	Amount     *big.Int
}

type SeaportReceivedItem struct {
	ItemType   uint8
	Token      common.Address
	Identifier *big.Int
	Amount     *big.Int
	Recipient  common.Address
}

type SeaportOfferItem struct {
	ItemType             uint8
	Token                common.Address
	IdentifierOrCriteria *big.Int
	StartAmount          *big.Int
	EndAmount            *big.Int
}

type SeaportConsiderationItem struct {
	ItemType             uint8
	Token                common.Address
	IdentifierOrCriteria *big.Int
	StartAmount          *big.Int
	EndAmount            *big.Int
	Recipient            common.Address
}

type SeaportOrderParameters struct {
	Offerer                         common.Address
	Zone                            common.Address
	Offer                           []SeaportOfferItem
	Consideration                   []SeaportConsiderationItem
	OrderType                       uint8
	StartTime                       *big.Int
	EndTime                         *big.Int
	ZoneHash                        [32]byte
	Salt                            *big.Int
	ConduitKey                      [32]byte
	TotalOriginalConsiderationItems *big.Int
}

type SeaportOrderWithSignature struct {
	Parameters SeaportOrderParameters
	Signature  []byte
}

type SeaportAdvancedOrder struct {
	Parameters  SeaportOrderParameters
	Numerator   *big.Int
	Denominator *big.Int
	Signature   []byte
	ExtraData   []byte
}

type SeaportCriteriaResolver struct {
	OrderIndex    *big.Int
	Side          uint8
	Index         *big.Int
	Identifier    *big.Int
	CriteriaProof [][32]byte
}

type SeaportFulfillmentComponent struct {
	OrderIndex *big.Int
	ItemIndex  *big.Int
}

type SeaportOrderCancelledLog struct {
	OrderHash [32]byte
	Offerer   common.Address // indexed
	Zone      common.Address // indexed
}

type SeaportCounterIncrementedLog struct {
	NewCounter *big.Int
	Offerer    common.Address // indexed
}

type SeaportOrderFulfilledLog struct {
	OrderHash     [32]byte
	Offerer       common.Address // indexed
	Zone          common.Address // indexed
	Recipient     common.Address
	Offer         []SeaportSpentItem
	Consideration []SeaportReceivedItem
}

type SeaportOrderValidatedLog struct {
	OrderHash [32]byte
	Offerer   common.Address // indexed
	Zone      common.Address // indexed
}

type SeaportOrderValidatedV14Log struct {
	OrderHash       [32]byte
	OrderParameters SeaportOrderParameters
}

func ToSeaportOrderCancelledLog(log *types.Log) (*SeaportOrderCancelledLog, error) {
	var l SeaportOrderCancelledLog
	if err := SeaportV11ABI.UnpackIntoInterface(&l, "OrderCancelled", log.Data); err != nil {
		return nil, err
	}
	l.Offerer = common.BytesToAddress(log.Topics[1].Bytes())
	l.Zone = common.BytesToAddress(log.Topics[2].Bytes())
	return &l, nil
}

func ToSeaportCounterIncrementedLog(log *types.Log) (*SeaportCounterIncrementedLog, error) {
	var l SeaportCounterIncrementedLog
	if err := SeaportV11ABI.UnpackIntoInterface(&l, "CounterIncremented", log.Data); err != nil {
		return nil, err
	}
	l.Offerer = common.BytesToAddress(log.Topics[1].Bytes())
	return &l, nil
}

func ToSeaportOrderFulfilledLog(log *types.Log) (*SeaportOrderFulfilledLog, error) {
	var l SeaportOrderFulfilledLog
	if err := SeaportV11ABI.UnpackIntoInterface(&l, "OrderFulfilled", log.Data); err != nil {
		return nil, err
	}
	l.Offerer = common.BytesToAddress(log.Topics[1].Bytes())
	l.Zone = common.BytesToAddress(log.Topics[2].Bytes())
	return &l, nil
}

func ToSeaportOrderValidatedLog(log *types.Log) (*SeaportOrderValidatedLog, error) {
	var l SeaportOrderValidatedLog
	if err := SeaportV11ABI.UnpackIntoInterface(&l, "OrderValidated", log.Data); err != nil {
		return nil, err
	}
	l.Offerer = common.BytesToAddress(log.Topics[1].Bytes())
	l.Zone = common.BytesToAddress(log.Topics[2].Bytes())
	return &l, nil
}

func ToSeaportOrderValidatedV14Log(log *types.Log) (*SeaportOrderValidatedV14Log, error) {
	var l SeaportOrderValidatedV14Log
	if err := SeaportV14ABI.UnpackIntoInterface(&l, "OrderValidated", log.Data); err != nil {
		return nil, err
	}
	return &l, nil
}

// DecodeSeaportValidateCalldata unpacks a validate(...) call found in a
// transaction trace.
func DecodeSeaportValidateCalldata(data []byte) ([]SeaportOrderWithSignature, error) {
	method := SeaportV11ABI.Methods["validate"]
	if len(data) < 4 || !bytes.Equal(data[:4], method.ID) {
		return nil, xerrors.New("not a validate call")
	}
	unpacked, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, err
	}
	var out struct {
		Orders []SeaportOrderWithSignature
	}
	if err := method.Inputs.Copy(&out, unpacked); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// SeaportValidateSelector is the validate method id used to scan call traces.
func SeaportValidateSelector() []byte {
	return SeaportV11ABI.Methods["validate"].ID
}
