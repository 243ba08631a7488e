package model

import (
	"fmt"
	"slices"
)

type Continent int

const (
	America Continent = iota + 1
	Europe
	Asia
	Africa
	Oceania
)

var _continentNames = map[Continent]string{
	America: "America",
	Europe:  "Europe",
	Asia:    "Asia",
	Africa:  "Africa",
	Oceania: "Oceania",
}

var _continentCurrencies = map[Continent][]Currency{
	America: {"USD", "BRL", "CAD", "ARS", "CLP"},
	Europe:  {"EUR", "GBP", "CHF"},
	Asia:    {"JPY", "CNY", "KRW", "INR"},
	Africa:  {"ZAR", "EGP", "NGN"},
	Oceania: {"AUD", "NZD"},
}

// Continents returns every continent in menu order.
func Continents() []Continent {
	return []Continent{America, Europe, Asia, Africa, Oceania}
}

func ContinentNames() []string {
	names := make([]string, 0, len(_continentNames))
	for _, c := range Continents() {
		names = append(names, c.String())
	}
	return names
}

func ParseContinent(name string) (Continent, error) {
	for c, n := range _continentNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown continent %q", name)
}

func (c Continent) String() string {
	if n, ok := _continentNames[c]; ok {
		return n
	}
	return fmt.Sprintf("Continent(%d)", int(c))
}

// CurrenciesOf returns a copy of the continent's currency list, nil for an
// unknown continent.
func CurrenciesOf(c Continent) []Currency {
	return slices.Clone(_continentCurrencies[c])
}
