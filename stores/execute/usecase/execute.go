package usecase

import (
	"encoding/json"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/viney-shih/goroutines"
	"golang.org/x/xerrors"

	"github.com/x-xyz/aggregator/base/abi"
	"github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/base/log"
	"github.com/x-xyz/aggregator/domain"
	"github.com/x-xyz/aggregator/domain/collection"
	"github.com/x-xyz/aggregator/domain/exchange"
	"github.com/x-xyz/aggregator/domain/execute"
	"github.com/x-xyz/aggregator/domain/order"
	"github.com/x-xyz/aggregator/domain/tokenset"
	"github.com/x-xyz/aggregator/exchange/seaport"
	"github.com/x-xyz/aggregator/router"
	"github.com/x-xyz/aggregator/service/chain"
	"github.com/x-xyz/aggregator/service/chain/contract"
)

const (
	buildPoolSize = 10

	defaultBidDuration = 24 * time.Hour

	// opensea rejects orders paying them less than this
	openseaMinFeeBps = 50
)

var (
	ErrNoSignableOrders = xerrors.New("no orders can be signed")

	openseaFeeRecipient = domain.Address("0x0000a26b00c1f0df003000390027140000faa719")

	maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(domain.Big1, 256), domain.Big1)
)

type ExecuteUseCaseCfg struct {
	CollectionUC collection.UseCase
	TokenSetUC   tokenset.UseCase
	OrderUC      order.UseCase
	Seaport      contract.SeaportContract
	Erc20        contract.Erc20Contract
	Balance      chain.BalanceClient
	// fill router per supported chain
	Routers map[domain.ChainId]*router.Router
}

type impl struct {
	collectionUC collection.UseCase
	tokensetUC   tokenset.UseCase
	orderUC      order.UseCase
	seaport      contract.SeaportContract
	erc20        contract.Erc20Contract
	balance      chain.BalanceClient
	routers      map[domain.ChainId]*router.Router
}

func New(cfg *ExecuteUseCaseCfg) execute.UseCase {
	return &impl{
		collectionUC: cfg.CollectionUC,
		tokensetUC:   cfg.TokenSetUC,
		orderUC:      cfg.OrderUC,
		seaport:      cfg.Seaport,
		erc20:        cfg.Erc20,
		balance:      cfg.Balance,
		routers:      cfg.Routers,
	}
}

type builtBid struct {
	index    int
	so       *seaport.Order
	item     order.SubmitItem
	currency domain.Address
	price    *big.Int
	err      *execute.ItemError
}

func (im *impl) ExecuteBid(c ctx.Ctx, req *execute.BidRequest) (*execute.BidResponse, error) {
	if req.Maker.IsEmpty() {
		return nil, xerrors.New("maker is required")
	}
	if len(req.Params) == 0 {
		return nil, xerrors.New("params are required")
	}
	addrs, err := exchange.AddressesByChain(req.ChainId)
	if err != nil {
		return nil, err
	}

	builds := make([]*builtBid, len(req.Params))
	b := goroutines.NewBatch(buildPoolSize, goroutines.WithBatchSize(len(req.Params)))
	defer b.Close()
	for i := 0; i < len(req.Params); i++ {
		idx := i
		b.Queue(func() (interface{}, error) {
			builds[idx] = im.buildBid(c, req, addrs, idx)
			return nil, nil
		})
	}
	b.QueueComplete()
	for range req.Params {
		<-b.Results()
	}

	resp := &execute.BidResponse{}
	alive := []*builtBid{}
	for _, bb := range builds {
		if bb.err != nil {
			resp.Errors = append(resp.Errors, *bb.err)
			continue
		}
		alive = append(alive, bb)
	}

	wrapStep := execute.Step{
		Id:          execute.StepIdCurrencyWrapping,
		Action:      "Wrapping currency",
		Description: "We'll ask your approval to wrap the currency for bidding. Gas fee required.",
		Kind:        execute.StepKindTransaction,
	}
	approvalStep := execute.Step{
		Id:          execute.StepIdCurrencyApproval,
		Action:      "Approve currency",
		Description: "We'll ask your approval for the exchange to access your token. This is a one-time only operation per exchange.",
		Kind:        execute.StepKindTransaction,
	}
	signStep := execute.Step{
		Id:          execute.StepIdOrderSignature,
		Action:      "Authorize offer",
		Description: "A free off-chain signature to create the offer",
		Kind:        execute.StepKindSignature,
	}

	alive, fundErrs := im.fundBids(c, req, addrs, alive, &wrapStep, &approvalStep)
	resp.Errors = append(resp.Errors, fundErrs...)

	if err := im.signBids(c, req, addrs, alive, &signStep); err != nil {
		return nil, err
	}

	for _, step := range []execute.Step{wrapStep, approvalStep, signStep} {
		dedupStepItems(&step)
		if len(step.Items) > 0 {
			resp.Steps = append(resp.Steps, step)
		}
	}

	if len(signStep.Items) == 0 {
		return resp, ErrNoSignableOrders
	}
	return resp, nil
}

// dedupStepItems merges items whose payloads marshal to identical bytes,
// keeping first seen order and the union of their order indexes.
func dedupStepItems(step *execute.Step) {
	merged := []execute.StepItem{}
	seen := map[string]int{}
	for _, item := range step.Items {
		raw, err := json.Marshal(item.Data)
		if err != nil {
			merged = append(merged, item)
			continue
		}
		if at, ok := seen[string(raw)]; ok {
			merged[at].OrderIndexes = append(merged[at].OrderIndexes, item.OrderIndexes...)
			continue
		}
		seen[string(raw)] = len(merged)
		merged = append(merged, item)
	}
	step.Items = merged
}

func (im *impl) buildBid(c ctx.Ctx, req *execute.BidRequest, addrs *exchange.Addresses, idx int) *builtBid {
	p := &req.Params[idx]
	fail := func(msg string) *builtBid {
		return &builtBid{index: idx, err: &execute.ItemError{Message: msg, OrderIndex: idx}}
	}

	kind := p.OrderKind
	if kind == "" || kind == order.KindSeaport {
		// plain seaport deployments are frozen, build on the latest
		kind = order.KindSeaportV14
	}
	if kind != order.KindSeaportV14 {
		return fail("unsupported order kind")
	}

	price, ok := new(big.Int).SetString(p.WeiPrice, 10)
	if !ok || price.Sign() <= 0 {
		return fail("invalid weiPrice")
	}

	currency := p.Currency
	if currency.IsEmpty() {
		currency = addrs.Weth
	}

	scope, err := im.resolveBidScope(c, req.ChainId, p)
	if err != nil {
		return fail(err.Error())
	}

	coll, err := im.collectionUC.FindOne(c, collection.CollectionId{ChainId: req.ChainId, Address: scope.contract.ToLower()})
	if err == domain.ErrNotFound {
		return fail("unknown collection")
	} else if err != nil {
		c.WithFields(log.Fields{
			"err":      err,
			"contract": scope.contract,
		}).Error("failed to collectionUC.FindOne")
		return fail("failed to resolve collection")
	}

	fees, err := im.resolveBidFees(c, req.ChainId, p, coll, price)
	if err != nil {
		return fail(err.Error())
	}

	counter := p.Nonce
	if counter == "" {
		v, err := im.seaport.GetCounter(c, int32(req.ChainId), addrs.SeaportV14.ToLowerStr(), req.Maker.ToLowerStr())
		if err != nil {
			c.WithFields(log.Fields{
				"err":   err,
				"maker": req.Maker,
			}).Error("failed to seaport.GetCounter")
			return fail("failed to read maker counter")
		}
		counter = v.String()
	}

	start := p.ListingTime
	if start == 0 {
		start = time.Now().Unix()
	}
	end := p.ExpirationTime
	if end == 0 {
		end = start + int64(defaultBidDuration.Seconds())
	}

	var quantity *big.Int
	if p.Quantity > 1 {
		quantity = big.NewInt(p.Quantity)
	}

	bp := &seaport.BuildParams{
		ChainId:      req.ChainId,
		Version:      seaport.VersionV14,
		Offerer:      req.Maker,
		Contract:     scope.contract,
		TokenId:      scope.tokenId,
		TokenKind:    coll.TokenType,
		Quantity:     quantity,
		PaymentToken: currency,
		Price:        price,
		Fees:         fees,
		Counter:      counter,
		StartTime:    start,
		EndTime:      end,
		Source:       req.Source,
		ConduitKey:   addrs.ConduitKey,
		MerkleRoot:   scope.merkleRoot,
	}

	var so *seaport.Order
	switch scope.kind {
	case bidScopeToken:
		so, err = seaport.BuildSingleTokenBuy(bp)
	case bidScopeContract:
		so, err = seaport.BuildContractWideBuy(bp)
	case bidScopeTokenList:
		so, err = seaport.BuildTokenListBuy(bp)
	}
	if err != nil {
		return fail(err.Error())
	}

	raw, err := json.Marshal(so.Params)
	if err != nil {
		return fail("failed to build order")
	}

	orderbook := p.Orderbook
	if orderbook == "" {
		orderbook = order.OrderbookReservoir
	}
	item := order.SubmitItem{
		Order:      order.SubmitOrder{Kind: order.KindSeaportV14, Data: raw},
		Orderbook:  orderbook,
		TokenSetId: p.TokenSetId,
	}
	if scope.kind == bidScopeContract {
		item.Collection = scope.contract.ToLowerStr()
	}

	return &builtBid{
		index:    idx,
		so:       so,
		item:     item,
		currency: currency.ToLower(),
		price:    price,
	}
}

type bidScopeKind int

const (
	bidScopeToken bidScopeKind = iota
	bidScopeContract
	bidScopeTokenList
)

type bidScope struct {
	kind       bidScopeKind
	contract   domain.Address
	tokenId    string
	merkleRoot string
}

func (im *impl) resolveBidScope(c ctx.Ctx, chainId domain.ChainId, p *execute.BidParams) (*bidScope, error) {
	if p.AttributeKey != "" || p.AttributeValue != "" {
		return nil, xerrors.New("attribute bids are not supported")
	}

	switch {
	case p.Token != "":
		parts := strings.Split(p.Token, ":")
		if len(parts) != 2 {
			return nil, xerrors.New("token must be contract:tokenId")
		}
		return &bidScope{kind: bidScopeToken, contract: domain.Address(parts[0]), tokenId: parts[1]}, nil
	case p.Collection != "":
		return &bidScope{kind: bidScopeContract, contract: domain.Address(p.Collection)}, nil
	case p.TokenSetId != "":
		known, err := im.tokensetUC.Exists(c, chainId, p.TokenSetId)
		if err != nil {
			c.WithFields(log.Fields{
				"err":        err,
				"tokenSetId": p.TokenSetId,
			}).Error("failed to tokensetUC.Exists")
			return nil, xerrors.New("failed to resolve token set")
		}
		if !known {
			return nil, xerrors.New("unknown token set")
		}
		parts := strings.Split(p.TokenSetId, ":")
		switch parts[0] {
		case "token":
			if len(parts) == 3 {
				return &bidScope{kind: bidScopeToken, contract: domain.Address(parts[1]), tokenId: parts[2]}, nil
			}
		case "contract":
			if len(parts) == 2 {
				return &bidScope{kind: bidScopeContract, contract: domain.Address(parts[1])}, nil
			}
		case "list":
			if len(parts) == 3 {
				return &bidScope{kind: bidScopeTokenList, contract: domain.Address(parts[1]), merkleRoot: parts[2]}, nil
			}
		}
		return nil, xerrors.New("unknown token set")
	}
	return nil, xerrors.New("one of token, collection or tokenSetId is required")
}

func (im *impl) resolveBidFees(c ctx.Ctx, chainId domain.ChainId, p *execute.BidParams, coll *collection.Collection, price *big.Int) ([]seaport.BuildFee, error) {
	fees := []seaport.BuildFee{}
	totalBps := 0
	addBps := func(recipient domain.Address, bps int) {
		amount := new(big.Int).Mul(price, big.NewInt(int64(bps)))
		amount.Div(amount, domain.Big10000)
		fees = append(fees, seaport.BuildFee{Recipient: recipient.ToLower(), Amount: amount})
		totalBps += bps
	}

	for _, f := range p.Fees {
		parts := strings.Split(f, ":")
		if len(parts) != 2 {
			return nil, xerrors.New("fees must be recipient:bps")
		}
		bps, err := strconv.Atoi(parts[1])
		if err != nil || bps <= 0 {
			return nil, xerrors.New("fees must be recipient:bps")
		}
		addBps(domain.Address(parts[0]), bps)
	}

	if p.AutomatedRoyalties {
		maxBps := 10000
		if p.RoyaltyBps != nil {
			maxBps = *p.RoyaltyBps
		}
		royalties, err := im.collectionUC.GetRoyalties(c, coll.ToId(), maxBps)
		if err != nil {
			c.WithFields(log.Fields{
				"err":      err,
				"contract": coll.Contract,
			}).Warn("failed to collectionUC.GetRoyalties")
		}
		for _, r := range royalties {
			addBps(r.Recipient, r.Bps)
		}
	}

	if p.Orderbook == order.OrderbookOpensea {
		recipient := openseaFeeRecipient
		bps := openseaMinFeeBps
		for _, f := range coll.MarketplaceFees {
			if f.Marketplace == order.OrderbookOpensea {
				recipient = f.Recipient
				bps = f.Bps
				break
			}
		}
		addBps(recipient, bps)
	}

	if totalBps >= 10000 {
		return nil, xerrors.New("fees exceed the order price")
	}
	return fees, nil
}

// fundBids aggregates funding per currency, emitting wrap and approval
// transactions where needed and dropping orders the maker cannot cover.
func (im *impl) fundBids(c ctx.Ctx, req *execute.BidRequest, addrs *exchange.Addresses, builds []*builtBid, wrapStep, approvalStep *execute.Step) ([]*builtBid, []execute.ItemError) {
	type funding struct {
		total   *big.Int
		indexes []int
	}
	perCurrency := map[domain.Address]*funding{}
	currencies := []domain.Address{}
	for _, bb := range builds {
		f, ok := perCurrency[bb.currency]
		if !ok {
			f = &funding{total: new(big.Int)}
			perCurrency[bb.currency] = f
			currencies = append(currencies, bb.currency)
		}
		f.total.Add(f.total, bb.price)
		f.indexes = append(f.indexes, bb.index)
	}

	conduit, err := seaport.DeriveConduit(addrs.ConduitController, addrs.ConduitKey, addrs.SeaportV14)
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
		}).Error("failed to DeriveConduit")
		conduit = addrs.SeaportV14.ToLower()
	}

	errs := []execute.ItemError{}
	dead := map[int]bool{}
	for _, currency := range currencies {
		f := perCurrency[currency]

		balance, err := im.erc20.BalanceOf(c, int32(req.ChainId), currency.ToLowerStr(), req.Maker.ToLowerStr())
		if err != nil {
			c.WithFields(log.Fields{
				"err":      err,
				"currency": currency,
			}).Error("failed to erc20.BalanceOf")
			balance = new(big.Int)
		}

		if balance.Cmp(f.total) < 0 {
			shortfall := new(big.Int).Sub(f.total, balance)
			wrapped := false
			if currency.Equals(addrs.Weth) && im.balance != nil {
				native, err := im.balance.GetBalance(c, int32(req.ChainId), common.HexToAddress(req.Maker.ToLowerStr()))
				if err != nil {
					c.WithFields(log.Fields{
						"err":   err,
						"maker": req.Maker,
					}).Error("failed to balance.GetBalance")
					native = new(big.Int)
				}
				if native.Cmp(shortfall) >= 0 {
					data, err := abi.ERC20TokenABI.Pack("deposit")
					if err == nil {
						wrapStep.Items = append(wrapStep.Items, execute.StepItem{
							Status: execute.ItemStatusIncomplete,
							Data: execute.TransactionData{
								From:  req.Maker.ToLower(),
								To:    currency,
								Data:  hexutil.Encode(data),
								Value: shortfall.String(),
							},
							OrderIndexes: f.indexes,
						})
						wrapped = true
					}
				}
			}
			if !wrapped {
				for _, idx := range f.indexes {
					dead[idx] = true
					errs = append(errs, execute.ItemError{
						Message:    "Maker does not have sufficient balance",
						OrderIndex: idx,
					})
				}
				continue
			}
		}

		allowance, err := im.erc20.Allowance(c, int32(req.ChainId), currency.ToLowerStr(), req.Maker.ToLowerStr(), conduit.ToLowerStr())
		if err != nil {
			c.WithFields(log.Fields{
				"err":      err,
				"currency": currency,
			}).Error("failed to erc20.Allowance")
			allowance = new(big.Int)
		}
		if allowance.Cmp(f.total) < 0 {
			data, err := abi.ERC20TokenABI.Pack("approve", common.HexToAddress(conduit.ToLowerStr()), maxUint256)
			if err != nil {
				continue
			}
			approvalStep.Items = append(approvalStep.Items, execute.StepItem{
				Status: execute.ItemStatusIncomplete,
				Data: execute.TransactionData{
					From: req.Maker.ToLower(),
					To:   currency,
					Data: hexutil.Encode(data),
				},
				OrderIndexes: f.indexes,
			})
		}
	}

	kept := []*builtBid{}
	for _, bb := range builds {
		if !dead[bb.index] {
			kept = append(kept, bb)
		}
	}
	return kept, errs
}

func (im *impl) signBids(c ctx.Ctx, req *execute.BidRequest, addrs *exchange.Addresses, builds []*builtBid, signStep *execute.Step) error {
	if len(builds) == 0 {
		return nil
	}

	if len(builds) == 1 {
		bb := builds[0]
		td := bb.so.SignatureData(addrs.SeaportV14)
		signStep.Items = append(signStep.Items, execute.StepItem{
			Status: execute.ItemStatusIncomplete,
			Data: execute.SignaturePayload{
				Sign: execute.SignData{
					SignatureKind: "eip712",
					Domain:        td.Domain,
					Types:         td.Types,
					PrimaryType:   td.PrimaryType,
					Value:         td.Message,
				},
				Post: execute.Post{
					Endpoint: "/order/v3",
					Method:   "POST",
					Body: order.SubmitRequest{
						ChainId: req.ChainId,
						Items:   []order.SubmitItem{bb.item},
						Source:  req.Source,
					},
				},
			},
			OrderIndexes: []int{bb.index},
		})
		return nil
	}

	orders := make([]*seaport.Order, len(builds))
	for i, bb := range builds {
		orders[i] = bb.so
	}
	tree, err := seaport.NewBulkTree(orders)
	if err != nil {
		return err
	}
	td, err := tree.SignatureData(req.ChainId, seaport.VersionV14, addrs.SeaportV14)
	if err != nil {
		return err
	}

	items := make([]order.SubmitItem, len(builds))
	indexes := make([]int, len(builds))
	for i, bb := range builds {
		_, proof := tree.Proof(i)
		proofHex := make([]string, len(proof))
		for j, node := range proof {
			proofHex[j] = hexutil.Encode(node)
		}
		item := bb.item
		item.BulkData = &order.BulkData{
			Kind: order.KindSeaportV14,
			Data: order.BulkProof{OrderIndex: i, MerkleProof: proofHex},
		}
		items[i] = item
		indexes[i] = bb.index
	}

	signStep.Items = append(signStep.Items, execute.StepItem{
		Status: execute.ItemStatusIncomplete,
		Data: execute.SignaturePayload{
			Sign: execute.SignData{
				SignatureKind: "eip712",
				Domain:        td.Domain,
				Types:         td.Types,
				PrimaryType:   td.PrimaryType,
				Value:         td.Message,
			},
			Post: execute.Post{
				Endpoint: "/order/v4",
				Method:   "POST",
				Body: order.SubmitRequest{
					ChainId: req.ChainId,
					Items:   items,
					Source:  req.Source,
				},
			},
		},
		OrderIndexes: indexes,
	})
	return nil
}
