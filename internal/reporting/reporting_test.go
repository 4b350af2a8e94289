package reporting

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-risk-lab/internal/domain"
	"credit-risk-lab/internal/storage"
	"credit-risk-lab/internal/storage/memory"
)

var fixedTime = time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

func sampleIVReport() *domain.IVReport {
	return &domain.IVReport{
		RunID:  "run-1",
		Target: "RiskResult",
		Features: []domain.FeatureIV{
			{
				Variable: "Amount",
				Bins: []domain.BinStat{
					{Bin: "[-inf,100)", All: 4, Good: 1, Bad: 3, DistrGood: 0.2, DistrBad: 0.6, WoE: -1.0986, IV: 0.4394},
					{Bin: "[100,inf)", All: 6, Good: 4, Bad: 2, DistrGood: 0.8, DistrBad: 0.4, WoE: 0.6931, IV: 0.2773},
				},
				IV: 0.7167,
			},
			{
				Variable: "ChannelId",
				Bins: []domain.BinStat{
					{Bin: "1", All: 5, Good: 3, Bad: 2, DistrGood: 0.6, DistrBad: 0.4, WoE: 0.4055, IV: 0.0811},
					{Bin: "", All: 5, Good: 2, Bad: 3, DistrGood: 0.4, DistrBad: 0.6, WoE: -0.4055, IV: 0.0811},
				},
				IV: 0.1622,
			},
			{Variable: "Empty", IV: 0},
		},
		Summary: []domain.IVSummaryRow{
			{Variable: "Amount", IV: 0.7167},
			{Variable: "ChannelId", IV: 0.1622},
			{Variable: "Empty", IV: 0},
		},
		Warnings:    []string{"feature Empty has no rows"},
		GeneratedAt: fixedTime,
	}
}

func TestClassifyIV(t *testing.T) {
	tests := []struct {
		iv   float64
		want Strength
	}{
		{0, StrengthUseless},
		{0.0199, StrengthUseless},
		{0.02, StrengthWeak},
		{0.1, StrengthMedium},
		{0.29, StrengthMedium},
		{0.3, StrengthStrong},
		{0.5, StrengthSuspicious},
		{2.4, StrengthSuspicious},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyIV(tt.iv), "iv=%v", tt.iv)
	}
}

func TestBuild_RanksByIVDesc(t *testing.T) {
	iv := sampleIVReport()
	iv.Summary = []domain.IVSummaryRow{
		{Variable: "b", IV: 0.1},
		{Variable: "c", IV: 0.3},
		{Variable: "a", IV: 0.1},
	}

	r := Build(iv, fixedTime)

	require.Len(t, r.Ranking, 3)
	assert.Equal(t, "c", r.Ranking[0].Variable)
	assert.Equal(t, "a", r.Ranking[1].Variable)
	assert.Equal(t, "b", r.Ranking[2].Variable)
	for i, row := range r.Ranking {
		assert.Equal(t, i+1, row.Rank)
	}
	// Input untouched
	assert.Equal(t, "b", iv.Summary[0].Variable)
}

func TestBuild_CopiesMetadata(t *testing.T) {
	r := Build(sampleIVReport(), fixedTime)

	assert.Equal(t, "run-1", r.RunID)
	assert.Equal(t, "RiskResult", r.Target)
	assert.Equal(t, 3, r.FeatureCount)
	assert.Equal(t, fixedTime, r.GeneratedAt)
	assert.Equal(t, 2, r.Ranking[0].Bins)
	assert.Equal(t, StrengthSuspicious, r.Ranking[0].Strength)
	assert.Equal(t, 0, r.Ranking[2].Bins)
	assert.Equal(t, []string{"feature Empty has no rows"}, r.Warnings)
}

func TestGenerator_Generate(t *testing.T) {
	ctx := context.Background()
	store := memory.NewIVResultStore()
	require.NoError(t, store.Insert(ctx, sampleIVReport()))

	g := NewGenerator(store).WithClock(func() time.Time { return fixedTime })

	r, err := g.Generate(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "Amount", r.Ranking[0].Variable)
	assert.Equal(t, fixedTime, r.GeneratedAt)

	_, err = g.Generate(ctx, "missing")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestRenderMarkdown(t *testing.T) {
	md := RenderMarkdown(Build(sampleIVReport(), fixedTime))

	assert.True(t, strings.HasPrefix(md, "# Information Value Report\n"))
	assert.Contains(t, md, "Generated: 2024-03-15T14:30:00Z")
	assert.Contains(t, md, "Run: run-1")
	assert.Contains(t, md, "Target: RiskResult | Features: 3")
	assert.Contains(t, md, "| 1 | Amount | 0.716700 | 2 | suspicious |")
	assert.Contains(t, md, "| 2 | ChannelId | 0.162200 | 2 | medium |")
	assert.Contains(t, md, "- feature Empty has no rows")
	assert.Contains(t, md, "### Empty (IV 0.000000)\n\nNo bins.")
	assert.Contains(t, md, "| (missing) | 5 | 2 | 3 |")
}

func TestRenderMarkdown_Empty(t *testing.T) {
	md := RenderMarkdown(Build(&domain.IVReport{Target: "RiskResult"}, fixedTime))

	assert.Contains(t, md, "No features evaluated.")
	assert.NotContains(t, md, "## Warnings")
	assert.NotContains(t, md, "Run:")
}

func TestRenderCSV(t *testing.T) {
	got := RenderCSV(Build(sampleIVReport(), fixedTime))

	want := "rank,variable,iv,bins,strength\n" +
		"1,Amount,0.716700,2,suspicious\n" +
		"2,ChannelId,0.162200,2,medium\n" +
		"3,Empty,0.000000,0,useless\n"
	assert.Equal(t, want, got)
}

func TestRenderBinsCSV(t *testing.T) {
	got := RenderBinsCSV(Build(sampleIVReport(), fixedTime))
	lines := strings.Split(strings.TrimSpace(got), "\n")

	require.Len(t, lines, 5)
	assert.Equal(t, "variable,bin,all,good,bad,distr_good,distr_bad,woe,iv", lines[0])
	assert.Equal(t, `Amount,"[-inf,100)",4,1,3,0.200000,0.600000,-1.098600,0.439400`, lines[1])
	assert.Equal(t, "ChannelId,,5,2,3,0.400000,0.600000,-0.405500,0.081100", lines[4])
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	RenderTable(&buf, Build(sampleIVReport(), fixedTime))

	out := buf.String()
	assert.Contains(t, out, "Variable")
	assert.Contains(t, out, "Amount")
	assert.Contains(t, out, "0.716700")
	assert.Contains(t, out, "suspicious")
}

func TestRenderChart(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderChart(&buf, Build(sampleIVReport(), fixedTime)))

	pngMagic := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	require.Greater(t, buf.Len(), len(pngMagic))
	assert.Equal(t, pngMagic, buf.Bytes()[:len(pngMagic)])
}

func TestRenderChart_FlatRange(t *testing.T) {
	tests := []struct {
		name    string
		summary []domain.IVSummaryRow
	}{
		{
			name:    "single positive feature",
			summary: []domain.IVSummaryRow{{Variable: "Channel", IV: 0.75}, {Variable: "Hour", IV: 0}},
		},
		{
			name:    "equal features",
			summary: []domain.IVSummaryRow{{Variable: "A", IV: 0.2}, {Variable: "B", IV: 0.2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv := &domain.IVReport{Target: "RiskResult", Summary: tt.summary}

			var buf bytes.Buffer
			require.NoError(t, RenderChart(&buf, Build(iv, fixedTime)))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
		})
	}
}

func TestRenderChart_NoData(t *testing.T) {
	iv := &domain.IVReport{
		Target:  "RiskResult",
		Summary: []domain.IVSummaryRow{{Variable: "flat", IV: 0}},
	}

	var buf bytes.Buffer
	err := RenderChart(&buf, Build(iv, fixedTime))
	assert.ErrorIs(t, err, ErrNoChartData)
	assert.Zero(t, buf.Len())
}
