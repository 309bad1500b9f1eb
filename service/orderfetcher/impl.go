package orderfetcher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/x-xyz/aggregator/base/backoff"
	bCtx "github.com/x-xyz/aggregator/base/ctx"
	"github.com/x-xyz/aggregator/base/log"
	"github.com/x-xyz/aggregator/domain"
)

// maxAttempts bounds retries against the relayer, with exponential backoff
// between rounds.
const maxAttempts = 3

type ClientCfg struct {
	HttpClient http.Client
	Timeout    time.Duration
	BaseUrl    string
	Apikey     string
}

type client struct {
	client  http.Client
	timeout time.Duration
	baseUrl string
	apikey  string
}

func NewClient(cfg *ClientCfg) Client {
	return &client{
		client:  cfg.HttpClient,
		timeout: cfg.Timeout,
		baseUrl: cfg.BaseUrl,
		apikey:  cfg.Apikey,
	}
}

func (c *client) GenerateBlurListingFulfillment(ctx bCtx.Ctx, req *BlurListingRequest) (*BlurListingFulfillment, error) {
	url := fmt.Sprintf("%s/blur/listing", c.baseUrl)
	data, err := c.post(ctx, url, req)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Warn("blur listing fetch failed")
		// blur outages must not fail sibling fills
		return nil, ErrRecoverable
	}
	resp := &BlurListingFulfillment{}
	if err := json.Unmarshal(data, resp); err != nil {
		ctx.WithField("err", err).Error("json.Unmarshal failed")
		return nil, err
	}
	return resp, nil
}

func (c *client) ResolvePartialOrder(ctx bCtx.Ctx, req *PartialOrderRequest) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/orders/%d/%s", c.baseUrl, req.ChainId, req.OrderHash)
	data, err := c.post(ctx, url, req)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url":       url,
			"orderHash": req.OrderHash,
			"err":       err,
		}).Warn("partial order resolve failed")
		return nil, ErrRecoverable
	}
	var resp struct {
		Order json.RawMessage `json:"order"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		ctx.WithField("err", err).Error("json.Unmarshal failed")
		return nil, err
	}
	return resp.Order, nil
}

func (c *client) PostReplacement(ctx bCtx.Ctx, chainId domain.ChainId, newOrder json.RawMessage, replacedHashes []domain.OrderHash) error {
	url := fmt.Sprintf("%s/cancellations/%d/replacements", c.baseUrl, chainId)
	payload := map[string]interface{}{
		"newOrder":       newOrder,
		"replacedOrders": replacedHashes,
	}
	if _, err := c.post(ctx, url, payload); err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Warn("replacement post failed")
		return err
	}
	return nil
}

func (c *client) post(ctx bCtx.Ctx, url string, payload interface{}) ([]byte, error) {
	ctx, cancel := bCtx.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	bo := backoff.NewExponential(100*time.Millisecond, time.Second)
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			if err := bo.Backoff(ctx); err != nil {
				return nil, lastErr
			}
		}
		data, retryable, err := c.doOnce(ctx, url, body)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return nil, lastErr
}

func (c *client) doOnce(ctx bCtx.Ctx, url string, body []byte) (data []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("NewRequestWithContext failed")
		return nil, false, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apikey != "" {
		req.Header.Set("X-API-KEY", c.apikey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("client.Do failed")
		return nil, true, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		ctx.WithFields(log.Fields{
			"url":        url,
			"statusCode": resp.StatusCode,
		}).Error("resp.StatusCode != 200")
		// only server side failures are worth another round trip
		return nil, resp.StatusCode >= http.StatusInternalServerError, ErrStatusCodeNotOk
	}
	data, err = ioutil.ReadAll(resp.Body)
	return data, false, err
}
