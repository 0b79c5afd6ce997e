package pipeline

import (
	"context"
	"testing"

	"github.com/MeKo-Tech/idscan/internal/barcode"
	"github.com/MeKo-Tech/idscan/internal/recognition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessBatch(t *testing.T) {
	p := buildPipeline(t, barcode.Unavailable(), recognition.Unavailable())

	items := []BatchItem{
		{Filename: "a.png", Data: encodePNG(t, 100, 60)},
		{Filename: "b.png", Data: encodePNG(t, 80, 80)},
		{Filename: "c.png", Data: encodePNG(t, 60, 100)},
	}

	results, err := p.ProcessBatch(context.Background(), items, ParallelConfig{MaxWorkers: 2})
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Results come back in input order regardless of worker scheduling.
	for i, item := range items {
		assert.Equal(t, item.Filename, results[i].Filename)
		require.NoError(t, results[i].Err)
		require.NotNil(t, results[i].Result)
		assert.Equal(t, item.Filename, results[i].Result.Filename)
	}
	assert.Equal(t, 100, results[0].Result.Image.Width)
	assert.Equal(t, 60, results[2].Result.Image.Width)
}

func TestProcessBatchFailureIsolation(t *testing.T) {
	p := buildPipeline(t, barcode.Unavailable(), recognition.Unavailable())

	items := []BatchItem{
		{Filename: "good.png", Data: encodePNG(t, 50, 50)},
		{Filename: "bad.bin", Data: []byte("not an image")},
		{Filename: "also-good.png", Data: encodePNG(t, 50, 50)},
	}

	results, err := p.ProcessBatch(context.Background(), items, ParallelConfig{MaxWorkers: 3})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.NotNil(t, results[0].Result)
	assert.Error(t, results[1].Err)
	assert.Nil(t, results[1].Result)
	assert.NoError(t, results[2].Err)
	assert.NotNil(t, results[2].Result)
}

func TestProcessBatchProgress(t *testing.T) {
	p := buildPipeline(t, barcode.Unavailable(), recognition.Unavailable())

	items := []BatchItem{
		{Filename: "1.png", Data: encodePNG(t, 20, 20)},
		{Filename: "2.png", Data: encodePNG(t, 20, 20)},
	}

	var calls []int
	cfg := ParallelConfig{
		MaxWorkers:       1,
		ProgressCallback: func(done, total int) { calls = append(calls, done); assert.Equal(t, 2, total) },
	}
	_, err := p.ProcessBatch(context.Background(), items, cfg)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, calls)
}

func TestProcessBatchEmpty(t *testing.T) {
	p := buildPipeline(t, barcode.Unavailable(), recognition.Unavailable())
	results, err := p.ProcessBatch(context.Background(), nil, DefaultParallelConfig())
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestProcessBatchCancellation(t *testing.T) {
	p := buildPipeline(t, barcode.Unavailable(), recognition.Unavailable())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := []BatchItem{{Filename: "a.png", Data: encodePNG(t, 20, 20)}}
	_, err := p.ProcessBatch(ctx, items, DefaultParallelConfig())
	assert.ErrorIs(t, err, context.Canceled)
}
