package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducer_WriterBatchTimeout(t *testing.T) {
	p := NewProducer(ProducerConfig{Brokers: []string{"localhost:9092"}})
	t.Cleanup(func() { _ = p.Close() })

	w := p.getWriter(TopicAnalysisCompleted)
	assert.Equal(t, DefaultBatchTimeout, w.BatchTimeout)
	assert.Less(t, w.BatchTimeout, time.Second)
	assert.Same(t, w, p.getWriter(TopicAnalysisCompleted), "writers are reused per topic")

	custom := NewProducer(ProducerConfig{Brokers: []string{"localhost:9092"}, BatchTimeout: 50 * time.Millisecond})
	t.Cleanup(func() { _ = custom.Close() })
	require.NotNil(t, custom.getWriter(TopicPortfolioAlerts))
	assert.Equal(t, 50*time.Millisecond, custom.getWriter(TopicPortfolioAlerts).BatchTimeout)
}
