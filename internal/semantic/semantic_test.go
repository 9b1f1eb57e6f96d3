package semantic

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/spboyer/introscore/internal/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"scaled", []float32{1, 1}, []float32{3, 3}, 1},
		{"45 degrees", []float32{1, 0}, []float32{1, 1}, 1 / math.Sqrt2},
		{"length mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"empty", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-6)
		})
	}
}

func TestFallback_Accepts(t *testing.T) {
	ctrl := gomock.NewController(t)
	embedder := mocks.NewMockEmbedder(ctrl)

	textVec := []float32{1, 0}
	embedder.EXPECT().Embed(gomock.Any(), "my Age").Return([]float32{1, 1}, nil)
	embedder.EXPECT().Embed(gomock.Any(), "my Family").Return([]float32{0, 1}, nil)

	f := NewFallback(embedder)
	require.Equal(t, DefaultThreshold, f.Threshold())

	sim, ok, err := f.Accepts(context.Background(), "my Age", textVec)
	require.NoError(t, err)
	require.True(t, ok)
	require.InDelta(t, 1/math.Sqrt2, sim, 1e-6)

	sim, ok, err = f.Accepts(context.Background(), "my Family", textVec)
	require.NoError(t, err)
	require.False(t, ok)
	require.Zero(t, sim)
}

func TestFallback_ThresholdIsExclusive(t *testing.T) {
	ctrl := gomock.NewController(t)
	embedder := mocks.NewMockEmbedder(ctrl)
	embedder.EXPECT().Embed(gomock.Any(), gomock.Any()).Return([]float32{1}, nil).Times(2)

	at := NewFallback(embedder, WithSimilarity(func(a, b []float32) float64 { return 0.35 }))
	_, ok, err := at.Accepts(context.Background(), "my Name", nil)
	require.NoError(t, err)
	require.False(t, ok)

	above := NewFallback(embedder, WithThreshold(0.34), WithSimilarity(func(a, b []float32) float64 { return 0.35 }))
	_, ok, err = above.Accepts(context.Background(), "my Name", nil)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestFallback_EmbedError(t *testing.T) {
	ctrl := gomock.NewController(t)
	embedder := mocks.NewMockEmbedder(ctrl)
	boom := errors.New("model unavailable")
	embedder.EXPECT().Embed(gomock.Any(), "my Hobbies").Return(nil, boom)

	_, ok, err := NewFallback(embedder).Accepts(context.Background(), "my Hobbies", []float32{1})
	require.ErrorIs(t, err, boom)
	require.False(t, ok)
}

func TestHashingEmbedder(t *testing.T) {
	h := NewHashingEmbedder(0)
	require.Equal(t, "hashing", h.Name())
	require.Equal(t, "fnv-bow-1024", h.Model())

	ctx := context.Background()
	a, err := h.Embed(ctx, "I love playing cricket")
	require.NoError(t, err)
	require.Len(t, a, DefaultHashingDimensions)

	b, err := h.Embed(ctx, "Playing CRICKET, I love!")
	require.NoError(t, err)
	require.InDelta(t, 1.0, CosineSimilarity(a, b), 1e-6)

	again, err := h.Embed(ctx, "I love playing cricket")
	require.NoError(t, err)
	require.Equal(t, a, again)

	empty, err := h.Embed(ctx, "")
	require.NoError(t, err)
	require.Zero(t, CosineSimilarity(a, empty))
}

func TestHashingEmbedder_IgnoresStopWords(t *testing.T) {
	h := NewHashingEmbedder(0)
	ctx := context.Background()

	onlyStop, err := h.Embed(ctx, "My, I am the")
	require.NoError(t, err)
	require.Equal(t, make([]float32, DefaultHashingDimensions), onlyStop)

	probe, err := h.Embed(ctx, "my Age")
	require.NoError(t, err)
	bare, err := h.Embed(ctx, "age")
	require.NoError(t, err)
	require.InDelta(t, 1.0, CosineSimilarity(probe, bare), 1e-6)

	// A shared pronoun alone is no evidence of the category.
	text, err := h.Embed(ctx, "Hello everyone. My name is Sam and my favourite colour is blue. Thank you.")
	require.NoError(t, err)
	require.Less(t, CosineSimilarity(text, probe), DefaultThreshold)
}

type memStore struct {
	data map[string][]float32
	puts int
}

func (m *memStore) Get(key string) ([]float32, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *memStore) Put(key string, vec []float32) error {
	m.data[key] = vec
	m.puts++
	return nil
}

func TestCachingEmbedder(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockEmbedder(ctrl)
	next.EXPECT().Embed(gomock.Any(), "my Name").Return([]float32{0.5, 0.5}, nil).Times(1)

	store := &memStore{data: map[string][]float32{}}
	c := NewCachingEmbedder(next, "test-model", store)

	for range 3 {
		vec, err := c.Embed(context.Background(), "my Name")
		require.NoError(t, err)
		require.Equal(t, []float32{0.5, 0.5}, vec)
	}
	require.Equal(t, 1, store.puts)

	// A fresh embedder over the same store never reaches the model.
	warm := NewCachingEmbedder(mocks.NewMockEmbedder(ctrl), "test-model", store)
	vec, err := warm.Embed(context.Background(), "my Name")
	require.NoError(t, err)
	require.Equal(t, []float32{0.5, 0.5}, vec)
}

func TestCachingEmbedder_ErrorsAreNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockEmbedder(ctrl)
	boom := errors.New("timeout")
	gomock.InOrder(
		next.EXPECT().Embed(gomock.Any(), "text").Return(nil, boom),
		next.EXPECT().Embed(gomock.Any(), "text").Return([]float32{1}, nil),
	)

	c := NewCachingEmbedder(next, "m", nil)
	_, err := c.Embed(context.Background(), "text")
	require.ErrorIs(t, err, boom)

	vec, err := c.Embed(context.Background(), "text")
	require.NoError(t, err)
	require.Equal(t, []float32{1}, vec)
}

func TestVectorKey(t *testing.T) {
	require.Len(t, VectorKey("m", "text"), 64)
	require.Equal(t, VectorKey("m", "text"), VectorKey("m", "text"))
	require.NotEqual(t, VectorKey("m1", "text"), VectorKey("m2", "text"))
	require.NotEqual(t, VectorKey("m", "a b"), VectorKey("m a", "b"))
}
