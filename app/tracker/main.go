package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	bCtx "github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/base/database/mongoclient"
	"github.com/x-xyz/aggregator/base/ethereum"
	"github.com/x-xyz/aggregator/base/log"
	"github.com/x-xyz/aggregator/base/tracker"
	"github.com/x-xyz/aggregator/domain"
	exchangeRegistry "github.com/x-xyz/aggregator/domain/exchange"
	"github.com/x-xyz/aggregator/domain/order"
	mmiddleware "github.com/x-xyz/aggregator/middleware"
	"github.com/x-xyz/aggregator/service/chain"
	serviceContract "github.com/x-xyz/aggregator/service/chain/contract"
	chainlinkService "github.com/x-xyz/aggregator/service/chainlink"
	"github.com/x-xyz/aggregator/service/orderfetcher"
	"github.com/x-xyz/aggregator/service/price"
	"github.com/x-xyz/aggregator/service/query"
	chainRepo "github.com/x-xyz/aggregator/stores/chain/repository"
	chainUseCase "github.com/x-xyz/aggregator/stores/chain/usecase"
	chainlinkUseCase "github.com/x-xyz/aggregator/stores/chainlink/usecase"
	collectionRepository "github.com/x-xyz/aggregator/stores/collection/repository"
	collectionUsecase "github.com/x-xyz/aggregator/stores/collection/usecase"
	exchangeUseCase "github.com/x-xyz/aggregator/stores/exchange/usecase"
	filleventRepository "github.com/x-xyz/aggregator/stores/fillevent/repository"
	orderRepository "github.com/x-xyz/aggregator/stores/order/repository"
	orderUsecase "github.com/x-xyz/aggregator/stores/order/usecase"
	paytokenRepository "github.com/x-xyz/aggregator/stores/paytoken/repository"
	tokensetRepository "github.com/x-xyz/aggregator/stores/tokenset/repository"
	tokensetUsecase "github.com/x-xyz/aggregator/stores/tokenset/usecase"
	trackerStateRepository "github.com/x-xyz/aggregator/stores/tracker_state/repository/mongo"
	trackerStateUsecase "github.com/x-xyz/aggregator/stores/tracker_state/usecase"
)

func init() {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(`infra/configs/tracker/config.yaml`)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}

	// overwrite active network in the config if the environment has been set
	viper.BindEnv("ACTIVENETWORK")
}

func main() {
	ctx, cancel := bCtx.WithCancel(bCtx.Background())

	// start server to pass cloud run health check
	startEchoServer()

	ctxTimeout := viper.GetDuration("context.timeout")
	followDistance := viper.GetUint64("tracker.followDistance")
	activeNetwork := viper.GetString("activeNetwork")
	networkInfo := viper.Sub(fmt.Sprintf("networks.%s", activeNetwork))
	chainId := networkInfo.GetInt64("chainId")
	blockTime := networkInfo.GetDuration("blockTime")
	wsUrl := networkInfo.GetString("wsUrl")
	rpcUrl := networkInfo.GetString("rpcUrl")
	archiveRpcUrl := networkInfo.GetString("archiveRpcUrl")

	addrs, err := exchangeRegistry.AddressesByChain(domain.ChainId(chainId))
	if err != nil {
		ctx.WithField("chainId", chainId).Panic("no known exchange deployments")
	}

	ctx.WithFields(log.Fields{
		"network":       activeNetwork,
		"chainId":       chainId,
		"blockTime":     blockTime,
		"wsUrl":         wsUrl,
		"rpcUrl":        rpcUrl,
		"acrhiveRpcUrl": archiveRpcUrl,
		"seaportV11":    addrs.SeaportV11,
		"seaportV14":    addrs.SeaportV14,
	}).Info("config")

	ctx.Info("init mongo")
	q := initMongo()
	ctx.Info("connecting eth clients")
	wsClient, rpcClient, archiveEthClient := initEthClient(ctx, wsUrl, rpcUrl, archiveRpcUrl)
	_clientProvider := newClientProvider(ctx, 15, wsUrl)
	throttledClient := ethereum.NewTrottledClient(rpcClient, 100)
	errCh := make(chan error, 10)
	chainService, err := chain.NewClient(ctx, &chain.ClientCfg{
		RpcUrls: map[int32]string{
			int32(chainId): rpcUrl,
		},
		ArchiveRpcUrls: map[int32]string{
			int32(chainId): archiveRpcUrl,
		},
	})
	if err != nil {
		ctx.WithField("err", err).Panic("chainService init failed")
	}
	traceClient, err := chain.NewTraceClient(ctx, &chain.TraceClientCfg{
		RpcUrls: map[int32]string{
			int32(chainId): archiveRpcUrl,
		},
	})
	if err != nil {
		ctx.WithField("err", err).Panic("traceClient init failed")
	}
	erc721Service := serviceContract.NewErc721(chainService)
	erc1155Service := serviceContract.NewErc1155(chainService)
	erc1271Service := serviceContract.NewErc1271(chainService)
	erc20Service := serviceContract.NewErc20(chainService)
	seaportService := serviceContract.NewSeaport(chainService)
	chainlinkSvc := chainlinkService.New(chainService)

	orderFetcher := orderfetcher.NewClient(&orderfetcher.ClientCfg{
		HttpClient: http.Client{},
		Timeout:    viper.GetDuration("orderFetcher.timeout"),
		BaseUrl:    viper.GetString("orderFetcher.baseUrl"),
		Apikey:     viper.GetString("orderFetcher.apikey"),
	})

	// repos
	paytokenRepo := paytokenRepository.NewPayTokenRepo(q)
	trackerStateRepo := trackerStateRepository.NewTrackerStateMongoRepo(q)
	blockRepo := chainRepo.NewBlockRepo(q)
	collectionRepo := collectionRepository.NewCollectionRepo(q)
	tokensetRepo := tokensetRepository.NewTokenSetRepo(q)
	orderRepo := orderRepository.NewOrderRepo(q)
	filleventRepo := filleventRepository.NewFillEventRepo(q)

	// usecases
	chainlinkUC := chainlinkUseCase.New(chainlinkSvc, paytokenRepo)
	priceService := price.New(chainlinkUC, paytokenRepo)
	blockUseCase := chainUseCase.NewBlockUseCase(blockRepo)
	collectionUC := collectionUsecase.New(&collectionUsecase.CollectionUseCaseCfg{
		CollectionRepo: collectionRepo,
	})
	tokensetUC := tokensetUsecase.New(&tokensetUsecase.TokenSetUseCaseCfg{
		TokenSetRepo: tokensetRepo,
	})
	orderUC := orderUsecase.New(&orderUsecase.OrderUseCaseCfg{
		OrderRepo:    orderRepo,
		TokenSetUC:   tokensetUC,
		CollectionUC: collectionUC,
		PaytokenRepo: paytokenRepo,
		PriceService: priceService,
		Erc1271:      erc1271Service,
		Erc721:       erc721Service,
		Erc1155:      erc1155Service,
		Erc20:        erc20Service,
		Seaport:      seaportService,
		OrderFetcher: orderFetcher,
	})
	exchangeUC := exchangeUseCase.NewExchangeUseCase(&exchangeUseCase.ExchangeUseCaseCfg{
		OrderUseCase: orderUC,
		Seaport:      seaportService,
		Trace:        traceClient,
		FillEvents:   filleventRepo,
		Price:        priceService,
	})
	tsUseCase := trackerStateUsecase.NewTrackerStateUseCase(trackerStateRepo, ctxTimeout)

	// handlers
	seaportHandler := tracker.NewSeaportEventHandler(&tracker.SeaportEventHandlerCfg{
		ChainId:         chainId,
		ExchangeUseCase: exchangeUC,
	})

	currentBlockGetter := tracker.NewCurrentBlockGetter(&tracker.CurrentBlockGetterCfg{
		Client: wsClient,
		ErrCh:  errCh,
	})

	// trackers, one per exchange deployment
	var trackers []*tracker.EventTracker
	exchanges := map[string]domain.Address{
		"seaport-v1.1": addrs.SeaportV11,
		"seaport-v1.4": addrs.SeaportV14,
	}
	for tag, addr := range exchanges {
		if addr.IsEmpty() {
			continue
		}
		t, err := tracker.NewEventTracker(&tracker.EventTrackerCfg{
			ChainId:             chainId,
			BlockTime:           blockTime,
			CurrentBlockGetter:  currentBlockGetter,
			Mongo:               q,
			WsClient:            _clientProvider.consume(ctx),
			RpcClient:           throttledClient,
			ClientWithArchive:   archiveEthClient,
			TrackerStateUseCase: tsUseCase,
			TrackerTag:          tag,
			ShouldDecodeSender:  false,
			FollowDistance:      followDistance,
			BlockUseCase:        blockUseCase,
			ContractAddress:     common.HexToAddress(addr.ToLowerStr()),
			EventHandl:          seaportHandler,
			ErrorCh:             errCh,
		})
		if err != nil {
			ctx.WithField("exchange", tag).WithField("err", err).Panic("new exchange tracker failed")
		}
		trackers = append(trackers, t)
	}

	ctx.Info("starting workers")
	err = currentBlockGetter.(*tracker.CurrentBlockGetter).Start(ctx)
	if err != nil {
		ctx.WithField("err", err).Panic("currentBlockGetter.Start failed")
	}
	for _, t := range trackers {
		t.Start(ctx)
	}
	go runExpirationSweep(ctx, orderUC, domain.ChainId(chainId))

	err = <-errCh
	ctx.WithField("err", err).Error("tracker error")

	go func() {
		for range errCh {
		}
	}()
	cancel()

	for _, t := range trackers {
		t.Wait()
	}
	currentBlockGetter.(*tracker.CurrentBlockGetter).Wait()
}

const expirationSweepInterval = time.Minute

// runExpirationSweep flips orders past validUntil to expired so reads never
// serve a dead order as live.
func runExpirationSweep(ctx bCtx.Ctx, orderUC order.UseCase, chainId domain.ChainId) {
	ticker := time.NewTicker(expirationSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := orderUC.ExpireOrders(ctx, chainId); err != nil {
				ctx.WithField("err", err).Error("failed to orderUC.ExpireOrders")
			}
		}
	}
}

func startEchoServer() {
	context := bCtx.Background()

	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())

	address := viper.GetString("server.address")
	context.WithField("address", address).Info("starting server")
	go func() {
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			context.Error("shutting down the server")
		}
	}()
}

func initMongo() query.Mongo {
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	return query.New(mongoClient, checkIndex)
}

func initEthClient(ctx bCtx.Ctx, rpcUrl, secondaryUrl, archiveRpcUrl string) (*ethclient.Client, *ethclient.Client, *ethclient.Client) {
	client, err := ethclient.DialContext(ctx, rpcUrl)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"url": rpcUrl,
		}).Panic("failed to connect rpc")
	}

	secondaryClient, err := ethclient.DialContext(ctx, secondaryUrl)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"url": secondaryUrl,
		}).Panic("failed to connect secondary rpc")
	}

	archiveClient, err := ethclient.DialContext(ctx, archiveRpcUrl)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"url": archiveRpcUrl,
		}).Panic("failed to connect archive rpc")
	}

	return client, secondaryClient, archiveClient
}
