package spinner

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner_DrawsAndClears(t *testing.T) {
	var out syncBuffer
	s := Start(&out, "Scoring 1/3")

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Scoring 1/3")
	}, time.Second, 10*time.Millisecond)

	s.Update("Scoring 2/3")
	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Scoring 2/3")
	}, time.Second, 10*time.Millisecond)

	s.Stop()
	s.Stop()

	got := out.String()
	assert.True(t, strings.HasSuffix(got, "\r"), "line should be cleared on stop")
	assert.Contains(t, got, frames[0])
}
