package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuongbtq/settlement-pipeline/internal/domain"
)

func TestStart_AcksEveryOutcome(t *testing.T) {
	store := newMemoryStore(&domain.Record{ID: 42, Status: domain.StatusWaiting})
	ack := &fakeAcknowledger{}

	deliveries := make(chan amqp.Delivery, 4)
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: jobBody(t, 42)}
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 2, Body: []byte("not json")}
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 3, Body: jobBody(t, 404)}
	close(deliveries)

	var prefetch int
	var tag string
	broker := &fakeBroker{
		SetPrefetchFunc: func(count int) error {
			prefetch = count
			return nil
		},
		ConsumeFunc: func(consumerTag string) (<-chan amqp.Delivery, error) {
			tag = consumerTag
			return deliveries, nil
		},
	}

	w := NewWorker(&Config{
		Logger:   testLogger(),
		Store:    store,
		Renderer: okRenderer(),
		Broker:   broker,
	})

	err := w.Start(context.Background())
	assert.ErrorIs(t, err, ErrDeliveriesClosed)

	assert.Equal(t, 1, prefetch)
	assert.Equal(t, w.ID(), tag)
	assert.Equal(t, []uint64{1, 2, 3}, ack.ackedTags())
	assert.Empty(t, ack.nacked)
	assert.Equal(t, domain.StatusCompleted, store.status(42))
}

func TestStart_SetupErrors(t *testing.T) {
	brokerErr := errors.New("channel closed")

	tests := []struct {
		name   string
		broker *fakeBroker
	}{
		{
			name: "prefetch",
			broker: &fakeBroker{SetPrefetchFunc: func(int) error {
				return brokerErr
			}},
		},
		{
			name: "consume",
			broker: &fakeBroker{ConsumeFunc: func(string) (<-chan amqp.Delivery, error) {
				return nil, brokerErr
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorker(&Config{Logger: testLogger(), Store: newMemoryStore(), Renderer: okRenderer(), Broker: tt.broker})
			assert.ErrorIs(t, w.Start(context.Background()), brokerErr)
		})
	}
}

func TestStart_ContextCancel(t *testing.T) {
	deliveries := make(chan amqp.Delivery)
	w := NewWorker(&Config{
		Logger:   testLogger(),
		Store:    newMemoryStore(),
		Renderer: okRenderer(),
		Broker: &fakeBroker{ConsumeFunc: func(string) (<-chan amqp.Delivery, error) {
			return deliveries, nil
		}},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

func TestStop_WaitsForInFlightMessage(t *testing.T) {
	store := newMemoryStore(&domain.Record{ID: 8, Status: domain.StatusWaiting})
	ack := &fakeAcknowledger{}
	started := make(chan struct{})
	release := make(chan struct{})

	renderer := &fakeRenderer{
		RenderFunc: func(ctx context.Context, _ *domain.Record) (string, error) {
			close(started)
			<-release
			if err := ctx.Err(); err != nil {
				return "", err
			}
			return "out.pdf", nil
		},
	}

	deliveries := make(chan amqp.Delivery, 1)
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 7, Body: jobBody(t, 8)}

	w := NewWorker(&Config{
		Logger:   testLogger(),
		Store:    store,
		Renderer: renderer,
		Broker: &fakeBroker{ConsumeFunc: func(string) (<-chan amqp.Delivery, error) {
			return deliveries, nil
		}},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	<-started
	// shutdown arrives while the document is being rendered
	cancel()

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned before the in-flight message finished")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	<-stopped
	require.NoError(t, <-done)

	assert.Equal(t, []uint64{7}, ack.ackedTags())
	assert.Equal(t, domain.StatusCompleted, store.status(8))
}

func TestStop_BeforeStart(t *testing.T) {
	consumed := false
	w := NewWorker(&Config{
		Logger:   testLogger(),
		Store:    newMemoryStore(),
		Renderer: okRenderer(),
		Broker: &fakeBroker{ConsumeFunc: func(string) (<-chan amqp.Delivery, error) {
			consumed = true
			return make(chan amqp.Delivery), nil
		}},
	})

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked although Start never ran")
	}

	done := make(chan error, 1)
	go func() { done <- w.Start(context.Background()) }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start consumed after Stop")
	}
	assert.False(t, consumed)
}

func TestStop_Idempotent(t *testing.T) {
	deliveries := make(chan amqp.Delivery)
	w := NewWorker(&Config{
		Logger:   testLogger(),
		Store:    newMemoryStore(),
		Renderer: okRenderer(),
		Broker: &fakeBroker{ConsumeFunc: func(string) (<-chan amqp.Delivery, error) {
			return deliveries, nil
		}},
	})

	done := make(chan error, 1)
	go func() { done <- w.Start(context.Background()) }()

	require.Eventually(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.done != nil
	}, 2*time.Second, 5*time.Millisecond)

	w.Stop()
	w.Stop()
	require.NoError(t, <-done)
}
