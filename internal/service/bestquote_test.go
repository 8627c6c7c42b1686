package service

import (
	"math"
	"testing"

	"qr-settlement-gateway/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestBestQuote_Empty(t *testing.T) {
	_, ok := BestQuote(nil)
	assert.False(t, ok)
}

func TestBestQuote_NumericMaximum(t *testing.T) {
	quotes := []domain.Quote{
		{Source: domain.SourceBuenbit, Price: 805},
		{Source: domain.SourceBinance, Price: 812},
	}

	best, ok := BestQuote(quotes)
	assert.True(t, ok)
	assert.Equal(t, domain.SourceBinance, best.Source)
	assert.Equal(t, 812.0, best.Price)
}

func TestBestQuote_SellRateBeatsOtherSources(t *testing.T) {
	quotes := []domain.Quote{
		{Source: domain.SourceCriptoYa, Price: 792, Buy: 792, Sell: 810},
		{Source: domain.SourceBuenbit, Price: 805},
	}

	best, ok := BestQuote(quotes)
	assert.True(t, ok)
	assert.Equal(t, domain.SourceCriptoYa, best.Source)
	assert.Equal(t, 810.0, best.Price)
}

func TestBestQuote_SellRateLosesToHigherSource(t *testing.T) {
	quotes := []domain.Quote{
		{Source: domain.SourceCriptoYa, Price: 795, Buy: 795, Sell: 800},
		{Source: domain.SourceBinance, Price: 812},
	}

	best, ok := BestQuote(quotes)
	assert.True(t, ok)
	assert.Equal(t, domain.SourceBinance, best.Source)
	assert.Equal(t, 812.0, best.Price)
}

func TestBestQuote_OrderIndependent(t *testing.T) {
	a := domain.Quote{Source: domain.SourceCriptoYa, Price: 792, Buy: 792, Sell: 810}
	b := domain.Quote{Source: domain.SourceBuenbit, Price: 805}
	c := domain.Quote{Source: domain.SourceBinance, Price: 801}

	first, ok1 := BestQuote([]domain.Quote{a, b, c})
	second, ok2 := BestQuote([]domain.Quote{c, b, a})

	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.Equal(t, first.Price, second.Price)
	assert.Equal(t, first.Source, second.Source)
}

func TestBestQuote_SkipsUnusable(t *testing.T) {
	quotes := []domain.Quote{
		{Source: domain.SourceBuenbit, Price: 0},
		{Source: domain.SourceBinance, Price: math.NaN()},
		{Source: domain.SourceCriptoYa, Price: -5},
	}

	_, ok := BestQuote(quotes)
	assert.False(t, ok)
}

func TestBestQuote_SingleUsable(t *testing.T) {
	quotes := []domain.Quote{
		{Source: domain.SourceBuenbit, Price: 0},
		{Source: domain.SourceBinance, Price: 803.5},
	}

	best, ok := BestQuote(quotes)
	assert.True(t, ok)
	assert.Equal(t, 803.5, best.Price)
}
