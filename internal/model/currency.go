package model

type Currency string

func (c Currency) String() string {
	return string(c)
}

// Pair is the path segment of the last-quote endpoint, e.g. USD-BRL.
func Pair(from, to Currency) string {
	return string(from) + "-" + string(to)
}

// PairKey is the key the last-quote response is indexed by, e.g. USDBRL.
func PairKey(from, to Currency) string {
	return string(from) + string(to)
}

func CurrencyNames(cs []Currency) []string {
	names := make([]string, 0, len(cs))
	for _, c := range cs {
		names = append(names, string(c))
	}
	return names
}
