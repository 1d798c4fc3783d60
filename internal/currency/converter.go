// Package currency 提供基于静态汇率表的货币换算
package currency

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Pair 货币对，from/to 为小写三字母货币代码
type Pair struct {
	From string
	To   string
}

// Rate 单条汇率
type Rate struct {
	From  string
	To    string
	Value decimal.Decimal
}

// Converter 汇率换算器；表在启动时构建，运行期只读，可并发使用
type Converter struct {
	rates map[Pair]decimal.Decimal
}

// New 基于给定汇率表创建换算器
func New(rates []Rate) *Converter {
	table := make(map[Pair]decimal.Decimal, len(rates))
	for _, r := range rates {
		table[Pair{From: r.From, To: r.To}] = r.Value
	}
	return &Converter{rates: table}
}

// ParseRates 将 (from, to, rate) 字符串条目解析为汇率表
func ParseRates(entries [][3]string) ([]Rate, error) {
	rates := make([]Rate, 0, len(entries))
	for _, e := range entries {
		value, err := decimal.NewFromString(e[2])
		if err != nil {
			return nil, fmt.Errorf("invalid rate %q for pair %s->%s: %w", e[2], e[0], e[1], err)
		}
		rates = append(rates, Rate{From: e[0], To: e[1], Value: value})
	}
	return rates, nil
}

// Default 返回内置默认表的换算器
func Default() *Converter {
	return New([]Rate{
		{From: "usd", To: "eur", Value: decimal.NewFromFloat(0.98)},
	})
}

// Convert 按固定汇率换算金额。未知货币对返回 0，表示"无可用换算"，
// 不是错误；调用方需要把 0 与真实换算结果为零的情况区分开。
// 相同 from/to 不做恒等处理：表中没有该对时同样返回 0（表中可以显式
// 配置 usd->usd = 1 来获得恒等行为）。
func (c *Converter) Convert(amount float64, from, to string) float64 {
	rate, ok := c.rates[Pair{From: from, To: to}]
	if !ok {
		return 0
	}
	result, _ := decimal.NewFromFloat(amount).Mul(rate).Float64()
	return result
}

// Supports 报告是否存在该货币对的汇率
func (c *Converter) Supports(from, to string) bool {
	_, ok := c.rates[Pair{From: from, To: to}]
	return ok
}
