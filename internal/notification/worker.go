package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"squarepg-backend/internal/model"
	"squarepg-backend/internal/store"
)

// Sender sends one web push message. Split out so tests can substitute
// the transport.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender sends through the webpush library.
type WebPushSender struct{}

func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool fans new-complaint alerts out to the owner's push
// subscriptions without blocking the request that filed the complaint.
type WorkerPool struct {
	size    int
	jobs    chan uint
	store   store.Store
	webpush *webpush.Options
	sender  Sender
}

// NewWorkerPool creates a pool of the given size over the given store.
func NewWorkerPool(size int, st store.Store, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan uint, size),
		store:   st,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// SetSender replaces the push transport. For tests.
func (wp *WorkerPool) SetSender(s Sender) { wp.sender = s }

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("notification worker %d started", id)
	for {
		select {
		case complaintID := <-wp.jobs:
			wp.notifyComplaint(ctx, complaintID)
		case <-ctx.Done():
			log.Printf("notification worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues an alert for a newly filed complaint.
func (wp *WorkerPool) Dispatch(complaintID uint) {
	wp.jobs <- complaintID
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan uint {
	return wp.jobs
}

// notifyComplaint loads the complaint and pushes an alert to every
// subscription the owning account has registered.
func (wp *WorkerPool) notifyComplaint(ctx context.Context, complaintID uint) {
	if wp.webpush == nil {
		return
	}
	complaint, err := wp.store.ComplaintByID(ctx, complaintID)
	if err != nil {
		log.Printf("Error fetching complaint %d: %v", complaintID, err)
		return
	}

	subscriptions, err := wp.store.SubscriptionsForOwner(ctx, complaint.OwnerID)
	if err != nil {
		log.Printf("Error fetching subscriptions for owner %s: %v", complaint.OwnerID, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	log.Printf("Sending %d notifications for complaint %d", len(subscriptions), complaintID)

	message := fmt.Sprintf("New complaint from %s: %s", complaint.TenantName, complaint.Title)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, []byte(message))
	}
}

func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// 410 Gone means the browser dropped the subscription.
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if _, err := wp.store.DeletePushSubscription(ctx, sub.Endpoint); err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
