package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarket_Recommendations(t *testing.T) {
	recs, err := NewMarketService(NoDelay{}).Recommendations(context.Background())
	require.NoError(t, err)
	require.Len(t, recs.Properties, 3)
	assert.Equal(t, "Modern Downtown Apartment", recs.Properties[0].Title)
	assert.Equal(t, "High ROI potential in the downtown district", recs.Insights.InvestmentPotential)
}

func TestMarket_RecommendationsHonourDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := NewMarketService(FixedDelay(time.Hour)).Recommendations(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMarket_Analysis(t *testing.T) {
	a := NewMarketService(nil).Analysis(" Downtown ", "condo")
	assert.Equal(t, "Downtown", a.Location)
	assert.Equal(t, "condo", a.PropertyType)
	assert.Equal(t, "5.2% annually", a.AppreciationRate)
}
