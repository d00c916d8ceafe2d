package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHub_PublishReachesSubscribers(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe("rooms")
	defer cancel()

	h.Publish("rooms")

	select {
	case <-ch:
	default:
		t.Fatal("expected a pending hint")
	}
}

func TestHub_PublishesCoalesce(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe("rooms")
	defer cancel()

	h.Publish("rooms")
	h.Publish("rooms")
	h.Publish("rooms")

	<-ch
	select {
	case <-ch:
		t.Fatal("hints for the same table should coalesce into one")
	default:
	}
}

func TestHub_TablesAreIndependent(t *testing.T) {
	h := NewHub()
	rooms, cancelRooms := h.Subscribe("rooms")
	defer cancelRooms()
	tenants, cancelTenants := h.Subscribe("tenants")
	defer cancelTenants()

	h.Publish("tenants")

	select {
	case <-rooms:
		t.Fatal("rooms subscriber should not see tenant changes")
	default:
	}
	select {
	case <-tenants:
	default:
		t.Fatal("tenants subscriber should see the hint")
	}
}

func TestHub_UnsubscribeStopsDelivery(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe("rooms")
	cancel()

	h.Publish("rooms")

	select {
	case <-ch:
		t.Fatal("unsubscribed channel should stay empty")
	default:
	}
	assert.NotPanics(t, func() { h.Publish("rooms") })
}
