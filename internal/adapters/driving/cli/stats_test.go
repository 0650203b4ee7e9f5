package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dossier-labs/dossier-cli/internal/core/domain"
)

func TestStatsCmd_Use(t *testing.T) {
	assert.Equal(t, "stats", statsCmd.Use)
}

func TestStatsCmd_Empty(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"stats"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No statistics available")
}

func TestStatsCmd_ShowsAggregates(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	statsService = &mockStatsService{
		categories: []domain.CategoryStat{
			{
				Category:        "immobilier",
				DocumentCount:   3,
				ChunkCount:      42,
				AvgCompleteness: 75,
				TotalAmount:     22000000,
			},
		},
		locations: []domain.LocationStat{
			{Commune: "Aigle", Canton: "Vaud", DocumentCount: 2, AvgAmount: 7425000},
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"stats"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "By category:")
	assert.Contains(t, buf.String(), "immobilier")
	assert.Contains(t, buf.String(), "total 22000000 CHF")
	assert.Contains(t, buf.String(), "By location:")
	assert.Contains(t, buf.String(), "Aigle (Vaud)")
	assert.Contains(t, buf.String(), "avg 7425000 CHF")
}

func TestStatsCmd_RefreshFlag(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := statsService.(*mockStatsService)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"stats", "--refresh"})
	defer func() {
		rootCmd.SetArgs(nil)
		statsRefresh = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.True(t, mock.refreshed)
}

func TestStatsCmd_ServiceNotConfigured(t *testing.T) {
	oldService := statsService
	statsService = nil
	defer func() {
		statsService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"stats"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "stats service not configured")
}
