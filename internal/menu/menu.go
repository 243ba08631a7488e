package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/STTM-NSU/currency-converter/internal/converter"
	"github.com/STTM-NSU/currency-converter/internal/logger"
	"github.com/STTM-NSU/currency-converter/internal/model"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
)

type Action string

const (
	ActionConvert Action = "Convert Currencies"
	ActionFilter  Action = "Filter Countries by Continent"
	ActionExit    Action = "Exit"
)

func Actions() []string {
	return []string{string(ActionConvert), string(ActionFilter), string(ActionExit)}
}

const (
	_actionLabel    = "What would you like to do?"
	_continentLabel = "Select the continent:"
	_fromLabel      = "Select the source currency:"
	_toLabel        = "Select the target currency:"
	_amountLabel    = "Enter the amount to convert:"

	_farewellMessage      = "Exiting the system..."
	_invalidAmountMessage = "Please enter a valid number!"
	_catalogFailedMessage = "Failed to fetch available currencies!"
	_convertFailedMessage = "Failed to perform the conversion!"
)

// ValidationError rejects a prompt answer, Message is shown next to it.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrInvalidAmount error = &ValidationError{Message: _invalidAmountMessage}

	// ErrAborted is returned by a Prompter when the user interrupts a prompt.
	ErrAborted = errors.New("prompt aborted")

	ErrCatalog    = errors.New("can't fetch available currencies")
	ErrConversion = errors.New("can't convert currencies")
)

type Prompter interface {
	Select(label string, items []string) (string, error)
	// Input asks until validate accepts the answer.
	Input(label string, validate func(string) error) (string, error)
}

type Catalog interface {
	Currencies(ctx context.Context) ([]model.Currency, error)
}

type Menu struct {
	prompter  Prompter
	catalog   Catalog
	converter converter.Service
	logger    logger.Logger

	out    io.Writer
	errOut io.Writer
}

func New(
	prompter Prompter,
	catalog Catalog,
	converter converter.Service,
	logger logger.Logger,
	out, errOut io.Writer,
) *Menu {
	return &Menu{
		prompter:  prompter,
		catalog:   catalog,
		converter: converter,
		logger:    logger,
		out:       out,
		errOut:    errOut,
	}
}

// Run shows the main menu until the user exits. A failed fetch or
// conversion ends the loop with an error, the user has already been told.
func (m *Menu) Run(ctx context.Context) error {
	for {
		action, err := m.prompter.Select(_actionLabel, Actions())
		if err != nil {
			return m.stop(err)
		}

		switch Action(action) {
		case ActionExit:
			m.farewell()
			return nil
		case ActionConvert:
			err = m.convertFlow(ctx)
		case ActionFilter:
			err = m.filterFlow(ctx)
		default:
			err = fmt.Errorf("unknown action %q", action)
		}
		if err != nil {
			return m.stop(err)
		}
	}
}

func (m *Menu) stop(err error) error {
	if errors.Is(err, ErrAborted) {
		m.farewell()
		return nil
	}
	return err
}

func (m *Menu) convertFlow(ctx context.Context) error {
	currencies, err := m.catalog.Currencies(ctx)
	if err == nil && len(currencies) == 0 {
		err = errors.New("empty currency list")
	}
	if err != nil {
		m.logger.Errorf("%s: can't fetch available currencies", err)
		m.fail(_catalogFailedMessage)
		return fmt.Errorf("%w: %w", ErrCatalog, err)
	}

	return m.convert(ctx, currencies)
}

func (m *Menu) filterFlow(ctx context.Context) error {
	name, err := m.prompter.Select(_continentLabel, model.ContinentNames())
	if err != nil {
		return err
	}

	continent, err := model.ParseContinent(name)
	if err != nil {
		return err
	}
	m.logger.Debugf("filtering currencies by %s", continent)

	return m.convert(ctx, model.CurrenciesOf(continent))
}

func (m *Menu) convert(ctx context.Context, currencies []model.Currency) error {
	req, err := m.askRequest(currencies)
	if err != nil {
		return err
	}

	c, err := m.converter.Convert(ctx, req)
	if err != nil {
		m.logger.Errorf("%s: can't convert %s", err, model.Pair(req.From, req.To))
		m.fail(_convertFailedMessage)
		return fmt.Errorf("%w: %w", ErrConversion, err)
	}

	color.New(color.FgGreen).Fprintf(m.out, "\n%s %s is equivalent to %s %s.\n\n",
		req.Amount, req.From, converter.FormatResult(c), req.To)
	return nil
}

func (m *Menu) askRequest(currencies []model.Currency) (model.ConversionRequest, error) {
	names := model.CurrencyNames(currencies)

	from, err := m.prompter.Select(_fromLabel, names)
	if err != nil {
		return model.ConversionRequest{}, err
	}
	to, err := m.prompter.Select(_toLabel, names)
	if err != nil {
		return model.ConversionRequest{}, err
	}
	input, err := m.prompter.Input(_amountLabel, ValidateAmount)
	if err != nil {
		return model.ConversionRequest{}, err
	}
	amount, err := ParseAmount(input)
	if err != nil {
		return model.ConversionRequest{}, err
	}

	return model.ConversionRequest{
		From:   model.Currency(from),
		To:     model.Currency(to),
		Amount: amount,
	}, nil
}

func (m *Menu) farewell() {
	color.New(color.FgBlue).Fprintln(m.out, _farewellMessage)
}

func (m *Menu) fail(msg string) {
	color.New(color.FgRed).Fprintln(m.errOut, msg)
}

// ParseAmount accepts any finite decimal, surrounding spaces ignored.
func ParseAmount(input string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(input))
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if err := converter.CheckAmount(amount); err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount, nil
}

func ValidateAmount(input string) error {
	_, err := ParseAmount(input)
	return err
}
