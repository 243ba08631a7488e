package menu

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/STTM-NSU/currency-converter/internal/converter"
	"github.com/STTM-NSU/currency-converter/internal/logger"
	"github.com/STTM-NSU/currency-converter/internal/model"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type call struct {
	label    string
	items    []string
	rejected []string
}

// scriptedPrompter answers prompts from a fixed script and records every
// prompt it was shown.
type scriptedPrompter struct {
	answers []string
	calls   []call
	abortAt int // 1-based prompt number to abort on, 0 never
}

func (p *scriptedPrompter) next() (string, error) {
	if p.abortAt == len(p.calls) {
		return "", ErrAborted
	}
	if len(p.answers) == 0 {
		return "", fmt.Errorf("unexpected prompt %q", p.calls[len(p.calls)-1].label)
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, nil
}

func (p *scriptedPrompter) Select(label string, items []string) (string, error) {
	p.calls = append(p.calls, call{label: label, items: items})
	return p.next()
}

func (p *scriptedPrompter) Input(label string, validate func(string) error) (string, error) {
	p.calls = append(p.calls, call{label: label})
	for {
		a, err := p.next()
		if err != nil {
			return "", err
		}
		if validate(a) == nil {
			return a, nil
		}
		last := &p.calls[len(p.calls)-1]
		last.rejected = append(last.rejected, a)
	}
}

type mockCatalog struct {
	currencies []model.Currency
	err        error
	calls      int
}

func (m *mockCatalog) Currencies(_ context.Context) ([]model.Currency, error) {
	m.calls++
	return m.currencies, m.err
}

type mockQuotes struct {
	bid string
	err error
}

func (m *mockQuotes) LastQuote(_ context.Context, from, to model.Currency) (model.Quote, error) {
	if m.err != nil {
		return model.Quote{}, m.err
	}
	return model.Quote{Code: from.String(), Codein: to.String(), Bid: m.bid}, nil
}

type fixture struct {
	prompter *scriptedPrompter
	catalog  *mockCatalog
	quotes   *mockQuotes
	out      *bytes.Buffer
	errOut   *bytes.Buffer
	menu     *Menu
}

func newFixture(answers ...string) *fixture {
	f := &fixture{
		prompter: &scriptedPrompter{answers: answers, abortAt: -1},
		catalog:  &mockCatalog{currencies: []model.Currency{"USD", "BRL", "EUR"}},
		quotes:   &mockQuotes{bid: "5.00"},
		out:      &bytes.Buffer{},
		errOut:   &bytes.Buffer{},
	}
	f.menu = New(f.prompter, f.catalog, converter.NewService(f.quotes), logger.NewNop(), f.out, f.errOut)
	return f
}

func TestMenu_Exit(t *testing.T) {
	f := newFixture("Exit")

	err := f.menu.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, f.prompter.calls, 1)
	assert.Equal(t, Actions(), f.prompter.calls[0].items)
	assert.Equal(t, "Exiting the system...\n", f.out.String())
	assert.Empty(t, f.errOut.String())
	assert.Zero(t, f.catalog.calls)
}

func TestMenu_Convert(t *testing.T) {
	f := newFixture("Convert Currencies", "USD", "BRL", "abc", "", "12x", "10", "Exit")

	err := f.menu.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, f.prompter.calls, 5)
	assert.Equal(t, []string{"USD", "BRL", "EUR"}, f.prompter.calls[1].items)
	assert.Equal(t, []string{"USD", "BRL", "EUR"}, f.prompter.calls[2].items)
	assert.Equal(t, []string{"abc", "", "12x"}, f.prompter.calls[3].rejected)
	assert.Contains(t, f.out.String(), "\n10 USD is equivalent to 50.00 BRL.\n")
	assert.Equal(t, 1, f.catalog.calls)
}

func TestMenu_FilterByContinent(t *testing.T) {
	f := newFixture("Filter Countries by Continent", "Europe", "EUR", "GBP", "2.5", "Exit")

	err := f.menu.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, f.prompter.calls, 6)
	assert.Equal(t, model.ContinentNames(), f.prompter.calls[1].items)
	assert.Equal(t, []string{"EUR", "GBP", "CHF"}, f.prompter.calls[2].items)
	assert.Equal(t, []string{"EUR", "GBP", "CHF"}, f.prompter.calls[3].items)
	assert.Contains(t, f.out.String(), "2.5 EUR is equivalent to 12.50 GBP.")
	assert.Zero(t, f.catalog.calls)
}

func TestMenu_LoopsUntilExit(t *testing.T) {
	f := newFixture(
		"Convert Currencies", "USD", "BRL", "1",
		"Filter Countries by Continent", "Oceania", "AUD", "NZD", "-3.5",
		"Exit",
	)

	err := f.menu.Run(context.Background())

	require.NoError(t, err)
	assert.Contains(t, f.out.String(), "1 USD is equivalent to 5.00 BRL.")
	assert.Contains(t, f.out.String(), "-3.5 AUD is equivalent to -17.50 NZD.")
	assert.Equal(t, []string{"AUD", "NZD"}, f.prompter.calls[6].items)
	assert.Empty(t, f.prompter.answers)
}

func TestMenu_CatalogFailure(t *testing.T) {
	f := newFixture("Convert Currencies", "USD")
	f.catalog.err = errors.New("connection refused")

	err := f.menu.Run(context.Background())

	assert.ErrorIs(t, err, ErrCatalog)
	assert.Len(t, f.prompter.calls, 1)
	assert.Equal(t, "Failed to fetch available currencies!\n", f.errOut.String())
	assert.Empty(t, f.out.String())
}

func TestMenu_EmptyCatalog(t *testing.T) {
	f := newFixture("Convert Currencies")
	f.catalog.currencies = nil

	err := f.menu.Run(context.Background())

	assert.ErrorIs(t, err, ErrCatalog)
	assert.Len(t, f.prompter.calls, 1)
}

func TestMenu_ConversionFailure(t *testing.T) {
	f := newFixture("Convert Currencies", "USD", "BRL", "10")
	f.quotes.err = errors.New("unexpected api response")

	err := f.menu.Run(context.Background())

	assert.ErrorIs(t, err, ErrConversion)
	assert.Equal(t, "Failed to perform the conversion!\n", f.errOut.String())
	assert.NotContains(t, f.out.String(), "equivalent")
	assert.Len(t, f.prompter.calls, 4)
}

func TestMenu_InvalidBidIsFatal(t *testing.T) {
	f := newFixture("Filter Countries by Continent", "Asia", "JPY", "INR", "10")
	f.quotes.bid = "n/a"

	err := f.menu.Run(context.Background())

	assert.ErrorIs(t, err, ErrConversion)
	assert.ErrorIs(t, err, converter.ErrInvalidRate)
	assert.NotContains(t, f.out.String(), "equivalent")
}

func TestMenu_AbortExits(t *testing.T) {
	for _, abortAt := range []int{1, 2, 3, 4} {
		t.Run(fmt.Sprintf("prompt %d", abortAt), func(t *testing.T) {
			f := newFixture("Convert Currencies", "USD", "BRL", "10")
			f.prompter.abortAt = abortAt

			err := f.menu.Run(context.Background())

			require.NoError(t, err)
			assert.Len(t, f.prompter.calls, abortAt)
			assert.Equal(t, "Exiting the system...\n", f.out.String())
		})
	}
}

func TestValidateAmount(t *testing.T) {
	for _, input := range []string{"abc", "", "12x", "1,5", "--1", "NaN", "1e200000000", "-1e400", "1e309"} {
		assert.ErrorIs(t, ValidateAmount(input), ErrInvalidAmount, input)
	}
	for _, input := range []string{"-3.5", "0", "100.25", " 42 ", "1e3"} {
		assert.NoError(t, ValidateAmount(input), input)
	}
	assert.EqualError(t, ValidateAmount("abc"), "Please enter a valid number!")

	var validationErr *ValidationError
	assert.ErrorAs(t, ValidateAmount("1e200000000"), &validationErr)
}

func TestMenu_ConvertRejectsHugeAmount(t *testing.T) {
	f := newFixture(string(ActionConvert), "USD", "BRL", "1e200000000", "2", string(ActionExit))

	require.NoError(t, f.menu.Run(context.Background()))

	assert.Equal(t, []string{"1e200000000"}, f.prompter.calls[3].rejected)
	assert.Contains(t, f.out.String(), "2 USD is equivalent to 10.00 BRL.")
}

func TestParseAmount(t *testing.T) {
	amount, err := ParseAmount("100.25")
	require.NoError(t, err)
	assert.Equal(t, "100.25", amount.String())
}
