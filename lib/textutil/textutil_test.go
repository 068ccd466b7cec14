package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "registeredusers", NormalizeName("  Registered\tUsers "))
	require.Equal(t, "affiliateprofit&loss", NormalizeName("Affiliate Profit & Loss"))
	require.Equal(t, "", NormalizeName(" \n\t"))
}

func TestCollapseWhitespace(t *testing.T) {
	require.Equal(t, "This Month", CollapseWhitespace("  This \n Month\t"))
	require.Equal(t, "", CollapseWhitespace("   "))
}
