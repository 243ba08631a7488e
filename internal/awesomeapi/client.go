package awesomeapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/STTM-NSU/currency-converter/internal/logger"
	"github.com/STTM-NSU/currency-converter/internal/model"
	"github.com/bytedance/sonic"
	"github.com/bytedance/sonic/ast"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

const (
	_availableURL = "/available/uniq"
	_lastURL      = "/last/{pair}"

	_jsonKey         = "json"
	_jsonContentType = "application/json"
)

var (
	// ErrRequest means no response was received.
	ErrRequest = errors.New("request failed")
	// ErrUnexpectedResponse means a response arrived but is not usable.
	ErrUnexpectedResponse = errors.New("unexpected api response")
)

type Config struct {
	Address            string
	RateLimitPerMinute int
	Timeout            time.Duration
}

type Client struct {
	c           *resty.Client
	rateLimiter ratelimit.Limiter

	logger logger.Logger
}

func NewClient(cfg Config, logger logger.Logger) *Client {
	client := resty.New().
		SetLogger(logger).
		SetBaseURL(cfg.Address).
		AddContentTypeDecoder(_jsonKey, decodeJSON)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	limiter := ratelimit.NewUnlimited()
	if cfg.RateLimitPerMinute > 0 {
		limiter = ratelimit.New(cfg.RateLimitPerMinute, ratelimit.Per(time.Minute))
	}

	return &Client{
		c:           client,
		rateLimiter: limiter,
		logger:      logger,
	}
}

func (c *Client) Close() error {
	return c.c.Close()
}

// Currencies returns the codes of /available/uniq in response order.
func (c *Client) Currencies(ctx context.Context) ([]model.Currency, error) {
	body, err := c.get(ctx, c.c.R().SetContext(ctx), _availableURL)
	if err != nil {
		return nil, err
	}

	root, err := sonic.Get(body)
	if err != nil {
		return nil, fmt.Errorf("%w: can't parse currencies: %s", ErrUnexpectedResponse, err)
	}
	if root.TypeSafe() != ast.V_OBJECT {
		return nil, fmt.Errorf("%w: currencies response is not an object", ErrUnexpectedResponse)
	}

	currencies := make([]model.Currency, 0)
	err = root.ForEach(func(path ast.Sequence, _ *ast.Node) bool {
		if path.Key != nil {
			currencies = append(currencies, model.Currency(*path.Key))
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("%w: can't iterate currencies: %s", ErrUnexpectedResponse, err)
	}

	c.logger.Debugf("loaded %d currencies", len(currencies))
	return currencies, nil
}

// curl -X GET "https://economia.awesomeapi.com.br/json/last/USD-BRL" -H "accept: application/json"
func (c *Client) LastQuote(ctx context.Context, from, to model.Currency) (model.Quote, error) {
	if err := c.wait(ctx); err != nil {
		return model.Quote{}, err
	}

	key := model.PairKey(from, to)
	req := c.c.R().
		SetContext(ctx).
		SetPathParam("pair", model.Pair(from, to)).
		SetForceResponseContentType(_jsonContentType).
		SetResult(&map[string]*model.Quote{}).
		SetError(&model.APIErrorResponse{})

	resp, err := req.Get(_lastURL)
	if err != nil {
		if resp != nil && resp.RawResponse != nil {
			return model.Quote{}, fmt.Errorf("%w: can't decode quote %s (%s): %s", ErrUnexpectedResponse, key, resp.Status(), err)
		}
		return model.Quote{}, fmt.Errorf("%w: can't send request for quote %s: %s", ErrRequest, key, err)
	}
	defer resp.Body.Close()

	c.logger.Debugf("got response %s status: %s, %s", resp.Request.URL, resp.Status(), resp.Duration())

	if resp.IsError() {
		response := resp.Error().(*model.APIErrorResponse)
		return model.Quote{}, fmt.Errorf("%w: %s: %s (%s)", ErrUnexpectedResponse, resp.Status(), response.Message, response.Code)
	}
	if !resp.IsSuccess() {
		return model.Quote{}, fmt.Errorf("%w: unexpected status %s", ErrUnexpectedResponse, resp.Status())
	}

	quote := (*resp.Result().(*map[string]*model.Quote))[key]
	if quote == nil {
		return model.Quote{}, fmt.Errorf("%w: no quote for %s", ErrUnexpectedResponse, key)
	}
	if quote.Bid == "" {
		return model.Quote{}, fmt.Errorf("%w: no bid for %s", ErrUnexpectedResponse, key)
	}

	return *quote, nil
}

// wait paces the request and gives up early if ctx is already done.
func (c *Client) wait(ctx context.Context) error {
	c.rateLimiter.Take()
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %s", ErrRequest, err)
	}
	return nil
}

// get returns the raw body, for responses whose key order matters.
func (c *Client) get(ctx context.Context, req *resty.Request, url string) ([]byte, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	resp, err := req.SetDoNotParseResponse(true).Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: can't send request to %s: %s", ErrRequest, url, err)
	}
	defer resp.Body.Close()

	c.logger.Debugf("got response %s status: %s, %s", resp.Request.URL, resp.Status(), resp.Duration())

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: can't read response body: %s", ErrRequest, err)
	}

	if resp.IsError() {
		var apiErr model.APIErrorResponse
		if err := sonic.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("%w: %s: %s (%s)", ErrUnexpectedResponse, resp.Status(), apiErr.Message, apiErr.Code)
		}
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedResponse, resp.Status())
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: unexpected status %s", ErrUnexpectedResponse, resp.Status())
	}

	return body, nil
}

func decodeJSON(r io.Reader, v any) error {
	return sonic.ConfigDefault.NewDecoder(r).Decode(v)
}
