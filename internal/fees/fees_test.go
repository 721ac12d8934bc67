package fees

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testCalculator() *Calculator {
	return NewCalculator(map[string]ProviderRates{
		"stripe": {ProcessingRate: 0.025, ProcessingFixed: 0.30, UtilizationRate: 0.033},
		"square": {ProcessingRate: 0.016, ProcessingFixed: 0, UtilizationRate: 0.028},
	}, ProviderRates{ProcessingRate: 0.025, ProcessingFixed: 0.30, UtilizationRate: 0.033})
}

func TestProcessingFee(t *testing.T) {
	c := testCalculator()
	assert.Equal(t, 2.80, c.ProcessingFee(100, "stripe"))
	assert.Equal(t, 1.60, c.ProcessingFee(100, "square"))
	// unknown providers use the default entry
	assert.Equal(t, 2.80, c.ProcessingFee(100, "unknown"))
	// provider keys are case-insensitive
	assert.Equal(t, 2.80, c.ProcessingFee(100, "Stripe"))
}

func TestSoftwareUtilizationFee(t *testing.T) {
	c := testCalculator()
	assert.Equal(t, 3.30, c.SoftwareUtilizationFee(100, "stripe"))
	assert.Equal(t, 2.80, c.SoftwareUtilizationFee(100, "square"))
}

func TestForwardTotal(t *testing.T) {
	c := testCalculator()
	assert.Equal(t, 102.80, c.ForwardTotal(100, "stripe"))
	assert.Equal(t, 101.60, c.ForwardTotal(100, "square"))
}

func TestReverseSubtotal(t *testing.T) {
	c := testCalculator()
	assert.Equal(t, 97.27, c.ReverseSubtotal(100, "stripe"))
	assert.Equal(t, 98.43, c.ReverseSubtotal(100, "square"))
}

func TestFeeRoundTrip(t *testing.T) {
	c := testCalculator()
	subtotals := []float64{10, 25.50, 80, 99.99, 150, 1234.56, 10000}
	for _, provider := range []string{"stripe", "square"} {
		for _, s := range subtotals {
			t.Run(fmt.Sprintf("%s/%.2f", provider, s), func(t *testing.T) {
				total := c.ForwardTotal(s, provider)
				back := c.ReverseSubtotal(total, provider)
				assert.InDelta(t, s, back, 0.01)
			})
		}
	}
}

func TestGSTFromInclusive(t *testing.T) {
	c := testCalculator()
	assert.Equal(t, 9.09, c.GSTFromInclusive(100))
}
