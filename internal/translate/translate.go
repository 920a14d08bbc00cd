package translate

import (
	"context"
	"strings"
)

// Localizer converts a source-language term into its localized form.
// Implementations must return the input unchanged when they cannot help.
type Localizer interface {
	Localize(ctx context.Context, text string) string
}

// LocalizerFunc is a function adapter for Localizer.
type LocalizerFunc func(context.Context, string) string

func (f LocalizerFunc) Localize(ctx context.Context, text string) string {
	return f(ctx, text)
}

// terms maps normalized macro indicator names to their zh-CN forms.
// Keys are lower-cased, reference periods already stripped.
var terms = map[string]string{
	"cpi m/m":                     "CPI月率",
	"cpi y/y":                     "CPI年率",
	"core cpi m/m":                "核心CPI月率",
	"ppi m/m":                     "PPI月率",
	"gdp q/q":                     "GDP季率",
	"nonfarm payrolls":            "非农就业人数",
	"unemployment rate":           "失业率",
	"initial jobless claims":      "初请失业金人数",
	"retail sales m/m":            "零售销售月率",
	"fomc rate decision":          "FOMC利率决议",
	"fed interest rate decision":  "美联储利率决议",
	"ism manufacturing pmi":       "ISM制造业PMI",
	"ism services pmi":            "ISM服务业PMI",
	"michigan consumer sentiment": "密歇根消费者信心指数",
	"durable goods orders m/m":    "耐用品订单月率",
	"trade balance":               "贸易帐",
	"crude oil inventories":       "原油库存",
}

// Table is the static term localizer.
type Table struct {
	fallback Localizer
}

// NewTable creates a Table. fallback handles terms missing from the static
// map and may be nil, in which case unmapped terms pass through unchanged.
func NewTable(fallback Localizer) *Table {
	return &Table{fallback: fallback}
}

// Localize implements Localizer.
func (t *Table) Localize(ctx context.Context, text string) string {
	if localized, ok := terms[strings.ToLower(strings.TrimSpace(text))]; ok {
		return localized
	}
	if t.fallback != nil {
		return t.fallback.Localize(ctx, text)
	}
	return text
}
