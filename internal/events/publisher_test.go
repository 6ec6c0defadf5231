package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaPublisher_Publish(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	sp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var env Envelope
		if err := json.Unmarshal(val, &env); err != nil {
			return err
		}
		if env.Type != TypeIntrospectionCompleted || env.Key != "caller-1" || env.TS != 1700000000000 {
			return errors.New("unexpected envelope")
		}
		if string(env.Data) != `{"score":5}` {
			return errors.New("unexpected data: " + string(env.Data))
		}
		return nil
	})

	p := NewKafkaPublisherWithProducer(sp, "introspection")
	p.now = func() time.Time { return time.UnixMilli(1700000000000) }

	err := p.Publish(context.Background(), TypeIntrospectionCompleted, "caller-1", map[string]int{"score": 5})
	assert.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestKafkaPublisher_PublishError(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewKafkaPublisherWithProducer(sp, "introspection")
	err := p.Publish(context.Background(), TypeIntrospectionCompleted, "k", struct{}{})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func TestKafkaPublisher_CanceledContext(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	p := NewKafkaPublisherWithProducer(sp, "introspection")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.Publish(ctx, TypeIntrospectionCompleted, "k", struct{}{})
	assert.ErrorIs(t, err, context.Canceled)
	require.NoError(t, p.Close())
}

func TestNewKafkaPublisher_Validation(t *testing.T) {
	_, err := NewKafkaPublisher("localhost:9092", "")
	assert.EqualError(t, err, "topic empty")

	_, err = NewKafkaPublisher(" , ", "topic")
	assert.EqualError(t, err, "no brokers")
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"a:1", "b:2"}, splitCSV(" a:1, ,b:2 "))
	assert.Empty(t, splitCSV(""))
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), "x", "y", nil))
	assert.NoError(t, p.Close())
}
