package converter

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/STTM-NSU/currency-converter/internal/model"
	"github.com/shopspring/decimal"
)

const (
	_resultPlaces = 2
	// largest |exponent| accepted for amounts and rates
	_maxExponent = 400
)

var (
	ErrInvalidRate = errors.New("invalid bid rate")
	// ErrAmountOutOfRange is returned for amounts a float64 can't hold.
	ErrAmountOutOfRange = errors.New("amount out of range")
)

type QuoteFetcher interface {
	LastQuote(ctx context.Context, from, to model.Currency) (model.Quote, error)
}

// Service converts an amount with the latest bid rate of the pair.
type Service interface {
	Convert(ctx context.Context, req model.ConversionRequest) (model.Conversion, error)
}

type service struct {
	quotes QuoteFetcher
}

func NewService(quotes QuoteFetcher) Service {
	return &service{
		quotes: quotes,
	}
}

func (s *service) Convert(ctx context.Context, req model.ConversionRequest) (model.Conversion, error) {
	if err := CheckAmount(req.Amount); err != nil {
		return model.Conversion{}, err
	}

	quote, err := s.quotes.LastQuote(ctx, req.From, req.To)
	if err != nil {
		return model.Conversion{}, fmt.Errorf("%w: can't get quote %s", err, model.Pair(req.From, req.To))
	}

	rate, err := ParseRate(quote.Bid)
	if err != nil {
		return model.Conversion{}, err
	}

	return model.Conversion{
		Request: req,
		Rate:    rate,
		Result:  req.Amount.Mul(rate).Round(_resultPlaces),
	}, nil
}

func ParseRate(bid string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(bid))
	if err != nil || !finite(rate) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidRate, bid)
	}
	return rate, nil
}

// CheckAmount rejects amounts outside the float64 range.
func CheckAmount(amount decimal.Decimal) error {
	if !finite(amount) {
		return ErrAmountOutOfRange
	}
	return nil
}

func finite(d decimal.Decimal) bool {
	if e := d.Exponent(); e > _maxExponent || e < -_maxExponent {
		return false
	}
	f, _ := d.Float64()
	return !math.IsInf(f, 0)
}

// FormatResult renders the result with exactly two decimal places.
func FormatResult(c model.Conversion) string {
	return c.Result.StringFixed(_resultPlaces)
}
