package plans_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avkudryashov/outreach-gateway/internal/plans"
)

func TestRankOf(t *testing.T) {
	tests := []struct {
		name    string
		planStr string
		want    int
	}{
		{name: "точное совпадение", planStr: "Business", want: 2},
		{name: "нижний регистр", planStr: "business", want: 2},
		{name: "название с суффиксом периода", planStr: "Starter (monthly)", want: 1},
		{name: "пробелы по краям", planStr: "  Enterprise  ", want: 3},
		{name: "пустая строка — free", planStr: "", want: 0},
		{name: "неизвестный тариф — free", planStr: "Platinum", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, plans.RankOf(tt.planStr))
		})
	}
}

func TestButtonFor(t *testing.T) {
	business, ok := plans.ByID("business")
	require.True(t, ok)
	starter, ok := plans.ByID("starter")
	require.True(t, ok)
	free, ok := plans.ByID("free")
	require.True(t, ok)

	tests := []struct {
		name        string
		plan        plans.Plan
		currentPlan string
		want        plans.ButtonState
	}{
		{name: "текущий тариф отключён", plan: *business, currentPlan: "Business", want: plans.ButtonCurrent},
		{name: "тариф ниже текущего заблокирован", plan: *starter, currentPlan: "Business", want: plans.ButtonLocked},
		{name: "free заблокирован для платного тарифа", plan: *free, currentPlan: "Starter", want: plans.ButtonLocked},
		{name: "тариф выше текущего доступен", plan: *business, currentPlan: "Free", want: plans.ButtonUpgrade},
		{name: "без тарифа доступен любой платный", plan: *starter, currentPlan: "", want: plans.ButtonUpgrade},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, plans.ButtonFor(tt.plan, tt.currentPlan))
		})
	}
}

func TestAmount(t *testing.T) {
	tests := []struct {
		name         string
		planID       string
		region       string
		wantAmount   int
		wantCurrency string
		wantErr      bool
	}{
		{name: "business в Индии", planID: "business", region: plans.RegionIndia, wantAmount: 1999, wantCurrency: "INR"},
		{name: "business по умолчанию", planID: "business", region: "US", wantAmount: 49, wantCurrency: "USD"},
		{name: "free бесплатен", planID: "free", region: plans.RegionIndia, wantAmount: 0, wantCurrency: "INR"},
		{name: "неизвестный тариф", planID: "platinum", region: plans.RegionIndia, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, currency, err := plans.Amount(tt.planID, tt.region)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAmount, amount)
			assert.Equal(t, tt.wantCurrency, currency)
		})
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	first := plans.All()
	first[0].Name = "mutated"
	assert.Equal(t, "Free", plans.All()[0].Name)
}

func TestAll_ReturnsDeepCopy(t *testing.T) {
	first := plans.All()
	first[1].Prices[plans.RegionIndia] = 1
	first[1].Currency[plans.RegionIndia] = "XXX"
	first[1].Features[0].Text = "mutated"

	fresh := plans.All()
	assert.Equal(t, 799, fresh[1].Prices[plans.RegionIndia])
	assert.Equal(t, "INR", fresh[1].Currency[plans.RegionIndia])
	assert.Equal(t, "2000 emails per day", fresh[1].Features[0].Text)
}
