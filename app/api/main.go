package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	"github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/base/database/mongoclient"
	"github.com/x-xyz/aggregator/base/database/redisclient"
	"github.com/x-xyz/aggregator/base/log"
	"github.com/x-xyz/aggregator/base/metrics"
	bValidator "github.com/x-xyz/aggregator/base/validator"
	"github.com/x-xyz/aggregator/domain"
	"github.com/x-xyz/aggregator/domain/exchange"
	mmiddleware "github.com/x-xyz/aggregator/middleware"
	"github.com/x-xyz/aggregator/router"
	"github.com/x-xyz/aggregator/service/chain"
	"github.com/x-xyz/aggregator/service/chain/contract"
	chainlink_service "github.com/x-xyz/aggregator/service/chainlink"
	"github.com/x-xyz/aggregator/service/orderfetcher"
	"github.com/x-xyz/aggregator/service/price"
	"github.com/x-xyz/aggregator/service/query"
	"github.com/x-xyz/aggregator/service/redis"
	chainlink_usecase "github.com/x-xyz/aggregator/stores/chainlink/usecase"
	collection_delivery "github.com/x-xyz/aggregator/stores/collection/delivery/http"
	collection_repository "github.com/x-xyz/aggregator/stores/collection/repository"
	collection_usecase "github.com/x-xyz/aggregator/stores/collection/usecase"
	execute_delivery "github.com/x-xyz/aggregator/stores/execute/delivery/http"
	execute_usecase "github.com/x-xyz/aggregator/stores/execute/usecase"
	hc_delivery "github.com/x-xyz/aggregator/stores/healthcheck/delivery/http"
	hc_repo "github.com/x-xyz/aggregator/stores/healthcheck/repository"
	hc_usecase "github.com/x-xyz/aggregator/stores/healthcheck/usecase"
	order_delivery "github.com/x-xyz/aggregator/stores/order/delivery/http"
	order_repository "github.com/x-xyz/aggregator/stores/order/repository"
	order_usecase "github.com/x-xyz/aggregator/stores/order/usecase"
	paytoken_repository "github.com/x-xyz/aggregator/stores/paytoken/repository"
	tokenset_repository "github.com/x-xyz/aggregator/stores/tokenset/repository"
	tokenset_usecase "github.com/x-xyz/aggregator/stores/tokenset/usecase"
)

func init() {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(`infra/configs/config.yaml`)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	// init mongo client
	context.Info("init mongo")
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	q := query.New(mongoClient, checkIndex)

	// init Redis service
	context.Info("init redis cache")
	redisCacheName := viper.GetString("redis_cache.name")
	redisCacheURI := viper.GetString("redis_cache.uri")
	redisCachePwd := viper.GetString("redis_cache.password")
	redisCachePoolMultiplier := viper.GetFloat64("redis_cache.poolMultiplier")
	redisCachePool := redisclient.MustConnectRedis(redisCacheURI, redisCachePwd, redisclient.RedisParam{
		PoolMultiplier: redisCachePoolMultiplier,
		Retry:          true,
	})
	redisCache := redis.New(redisCacheName, metrics.New(redisCacheName), &redis.Pools{
		Src: redisCachePool,
	})

	mmiddleware.SetupCache(redisCache)

	// init chain service
	networks := viper.Sub("networks")
	keys := networks.AllSettings()
	rpcs := make(map[int32]string)
	archiveRpcs := make(map[int32]string)
	for k := range keys {
		chainId := networks.GetInt32(fmt.Sprintf("%s.chainId", k))
		rpcUrl := networks.GetString(fmt.Sprintf("%s.rpcUrl", k))
		rpcs[chainId] = rpcUrl
		archiveRpcUrl := networks.GetString(fmt.Sprintf("%s.archiveRpcUrl", k))
		archiveRpcs[chainId] = archiveRpcUrl
	}
	chainService, err := chain.NewClient(context, &chain.ClientCfg{
		RpcUrls:        rpcs,
		ArchiveRpcUrls: archiveRpcs,
	})
	if err != nil {
		context.WithField("err", err).Warn("chainService started with error")
	}
	balanceClient, err := chain.NewBalanceClient(context, &chain.BalanceClientCfg{
		RpcUrls: rpcs,
	})
	if err != nil {
		context.WithField("err", err).Warn("balanceClient started with error")
	}
	erc721Service := contract.NewErc721(chainService)
	erc1155Service := contract.NewErc1155(chainService)
	erc1271Service := contract.NewErc1271(chainService)
	erc20Service := contract.NewErc20(chainService)
	seaportService := contract.NewSeaport(chainService)
	royaltyEngineService := contract.NewRoyaltyEngine(chainService)
	chainlinkService := chainlink_service.New(chainService)

	royaltyEngineAddrs := make(map[domain.ChainId]domain.Address)
	for id := range rpcs {
		chainId := domain.ChainId(id)
		addrs, err := exchange.AddressesByChain(chainId)
		if err != nil || addrs.RoyaltyEngine.IsEmpty() {
			continue
		}
		royaltyEngineAddrs[chainId] = addrs.RoyaltyEngine
	}

	orderFetcher := orderfetcher.NewClient(&orderfetcher.ClientCfg{
		HttpClient: http.Client{},
		Timeout:    viper.GetDuration("orderFetcher.timeout"),
		BaseUrl:    viper.GetString("orderFetcher.baseUrl"),
		Apikey:     viper.GetString("orderFetcher.apikey"),
	})

	// one fill router per chain with a known exchange deployment
	routers := make(map[domain.ChainId]*router.Router)
	for id := range rpcs {
		chainId := domain.ChainId(id)
		if _, err := exchange.AddressesByChain(chainId); err != nil {
			continue
		}
		r, err := router.NewRouter(&router.RouterCfg{
			ChainId:      chainId,
			OrderFetcher: orderFetcher,
		})
		if err != nil {
			context.WithField("chainId", chainId).WithField("err", err).Warn("failed to router.NewRouter")
			continue
		}
		routers[chainId] = r
	}

	// construct repository, usecase and delivery
	hcRepo := hc_repo.New(mongoClient, redisCache)
	collectionRepo := collection_repository.NewCollectionRepo(q)
	tokensetRepo := tokenset_repository.NewTokenSetRepo(q)
	paytokenRepo := paytoken_repository.NewPayTokenRepo(q)
	orderRepo := order_repository.NewOrderRepo(q)
	crossPostRepo := order_repository.NewCrossPostRepo(q)

	hc := hc_usecase.New(hcRepo)
	chainlink := chainlink_usecase.New(chainlinkService, paytokenRepo)
	priceService := price.New(chainlink, paytokenRepo)
	collectionUC := collection_usecase.New(&collection_usecase.CollectionUseCaseCfg{
		CollectionRepo:     collectionRepo,
		Redis:              redisCache,
		RoyaltyEngine:      royaltyEngineService,
		RoyaltyEngineAddrs: royaltyEngineAddrs,
	})
	tokensetUC := tokenset_usecase.New(&tokenset_usecase.TokenSetUseCaseCfg{
		TokenSetRepo: tokensetRepo,
		Redis:        redisCache,
	})
	orderUC := order_usecase.New(&order_usecase.OrderUseCaseCfg{
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
	executeUC := execute_usecase.New(&execute_usecase.ExecuteUseCaseCfg{
		CollectionUC: collectionUC,
		TokenSetUC:   tokensetUC,
		OrderUC:      orderUC,
		Seaport:      seaportService,
		Erc20:        erc20Service,
		Balance:      balanceClient,
		Routers:      routers,
	})

	hc_delivery.New(e, hc)
	collection_delivery.New(e, collectionUC)
	order_delivery.New(e, orderUC, crossPostRepo, redisCache)
	execute_delivery.New(e, executeUC)

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
