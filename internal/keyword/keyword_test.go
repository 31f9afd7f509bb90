package keyword_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lattermill/paperdex/internal/keyword"
)

func TestExtractRanksByFrequencyThenFirstOccurrence(t *testing.T) {
	text := "The model uses attention based transformers. Transformers are powerful."
	got := keyword.Extract(text, 10)
	require.Equal(t, []string{"transformers", "model", "attention", "powerful"}, got)
}

func TestExtractCapsAtTopN(t *testing.T) {
	text := "alpha beta gamma delta epsilon"
	got := keyword.Extract(text, 3)
	require.Len(t, got, 3)
	require.Equal(t, []string{"alpha", "beta", "gamma"}, got)
}

func TestExtractLowercases(t *testing.T) {
	got := keyword.Extract("Neural NEURAL neural", 10)
	require.Equal(t, []string{"neural"}, got)
}

func TestExtractDropsShortTokens(t *testing.T) {
	got := keyword.Extract("ab cd efg", 10)
	require.Equal(t, []string{"efg"}, got)
}

func TestExtractDropsStopwords(t *testing.T) {
	got := keyword.Extract("the and with from during", 10)
	require.Nil(t, got)
}

func TestExtractEmptyText(t *testing.T) {
	require.Nil(t, keyword.Extract("", 10))
	require.Nil(t, keyword.Extract("   ", 10))
}

func TestExtractDeterministic(t *testing.T) {
	text := "graph neural networks learn graph structure from graph data"
	first := keyword.Extract(text, 5)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, keyword.Extract(text, 5))
	}
	require.Equal(t, "graph", first[0])
}

func TestExtractDefaultTopN(t *testing.T) {
	text := "one1 two2 three3 four4 five5 six6 seven7 eight8 nine9 ten10 eleven11 twelve12"
	got := keyword.Extract(text, 0)
	require.Len(t, got, keyword.DefaultTopN)
}

func TestIsStopword(t *testing.T) {
	require.True(t, keyword.IsStopword("the"))
	require.True(t, keyword.IsStopword("uses"))
	require.False(t, keyword.IsStopword("transformers"))
}
