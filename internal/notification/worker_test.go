package notification

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"squarepg-backend/internal/model"
	"squarepg-backend/internal/store"
)

// mockSender is a mock implementation of the Sender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(&model.Complaint{}, &model.PushSubscription{}))
	return store.NewGormStore(gormDB, nil)
}

func TestWorkerPool_Dispatch(t *testing.T) {
	wp := NewWorkerPool(1, newTestStore(t), &webpush.Options{})

	wp.Dispatch(123)

	select {
	case job := <-wp.jobs:
		assert.Equal(t, uint(123), job)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_SendsComplaintAlert(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	complaint := model.Complaint{
		OwnerID: "owner-1", TenantID: 3, TenantName: "Asha",
		Title: "Leaky tap", Status: model.ComplaintOpen,
	}
	require.NoError(t, s.CreateComplaint(ctx, &complaint))
	require.NoError(t, s.UpsertPushSubscription(ctx, &model.PushSubscription{
		Endpoint: "https://example.com/push", OwnerID: "owner-1",
		P256DH: "test_p256dh", Auth: "test_auth",
	}))
	// Another owner's device must not be alerted.
	require.NoError(t, s.UpsertPushSubscription(ctx, &model.PushSubscription{
		Endpoint: "https://example.com/other", OwnerID: "owner-2",
		P256DH: "x", Auth: "y",
	}))

	wp := NewWorkerPool(1, s, &webpush.Options{})

	var wg sync.WaitGroup
	wg.Add(1)
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			defer wg.Done()
			assert.Equal(t, "https://example.com/push", sub.Endpoint)
			assert.Equal(t, "New complaint from Asha: Leaky tap", string(payload))
			return &http.Response{
				StatusCode: http.StatusCreated,
				Body:       io.NopCloser(bytes.NewBufferString("")),
			}, nil
		},
	}

	wp.Start(ctx)
	wp.Dispatch(complaint.ID)
	wg.Wait()
}

func TestWorkerPool_DeletesExpiredSubscription(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	complaint := model.Complaint{OwnerID: "owner-1", TenantName: "Ravi", Title: "No hot water"}
	require.NoError(t, s.CreateComplaint(ctx, &complaint))
	require.NoError(t, s.UpsertPushSubscription(ctx, &model.PushSubscription{
		Endpoint: "https://example.com/expired", OwnerID: "owner-1",
		P256DH: "p", Auth: "a",
	}))

	wp := NewWorkerPool(1, s, &webpush.Options{})

	var wg sync.WaitGroup
	wg.Add(1)
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			defer wg.Done()
			return &http.Response{
				StatusCode: http.StatusGone,
				Body:       io.NopCloser(bytes.NewBufferString("")),
			}, nil
		},
	}

	wp.Start(ctx)
	wp.Dispatch(complaint.ID)
	wg.Wait()

	// The 410 response prunes the dead endpoint. Poll briefly: the
	// delete happens after the sender returns.
	assert.Eventually(t, func() bool {
		subs, err := s.SubscriptionsForOwner(ctx, "owner-1")
		return err == nil && len(subs) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
