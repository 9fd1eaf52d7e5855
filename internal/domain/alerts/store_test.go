package alerts

import (
	"testing"
	"time"
)

func notif(id, owner, title, msg string, created time.Time) Notification {
	return Notification{
		ID:          id,
		OwnerUserID: owner,
		Title:       title,
		Message:     msg,
		Kind:        KindWarning,
		Channel:     ChannelInApp,
		CreatedAt:   created,
	}
}

func TestStore_PublishFansOutToAllSubscribers(t *testing.T) {
	s := NewStore()

	calls1, calls2 := 0, 0
	unsub1 := s.Subscribe(func() { calls1++ })
	defer unsub1()
	unsub2 := s.Subscribe(func() { calls2++ })

	s.Publish(notif("n1", "owner-1", "t", "m", time.Now()))
	if calls1 != 1 || calls2 != 1 {
		t.Fatalf("expected both subscribers notified once, got %d/%d", calls1, calls2)
	}

	unsub2()
	unsub2() // doble desuscripción es no-op

	s.Publish(notif("n2", "owner-1", "t", "m2", time.Now()))
	if calls1 != 2 {
		t.Fatalf("expected subscriber 1 notified again, got %d", calls1)
	}
	if calls2 != 1 {
		t.Fatalf("unsubscribed callback must not fire, got %d", calls2)
	}
}

func TestStore_SubscriberCanReadDuringCallback(t *testing.T) {
	s := NewStore()

	var seen int
	unsub := s.Subscribe(func() {
		// leer desde el callback no debe deadlockear
		seen = s.UnreadCount("owner-1")
	})
	defer unsub()

	s.Publish(notif("n1", "owner-1", "t", "m", time.Now()))
	if seen != 1 {
		t.Fatalf("expected unread count 1 inside callback, got %d", seen)
	}
}

func TestStore_ListByOwnerNewestFirst(t *testing.T) {
	s := NewStore()
	now := time.Now()

	s.Publish(notif("n1", "owner-1", "a", "1", now))
	s.Publish(notif("n2", "owner-1", "b", "2", now))
	s.Publish(notif("x1", "owner-2", "c", "3", now))
	s.Publish(notif("n3", "owner-1", "d", "4", now))

	got := s.ListByOwner("owner-1")
	if len(got) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(got))
	}
	for i, want := range []string{"n3", "n2", "n1"} {
		if got[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, got[i].ID)
		}
	}
}

func TestStore_HasUnreadSameDay(t *testing.T) {
	s := NewStore()
	day := time.Date(2024, time.July, 20, 9, 30, 0, 0, time.UTC)

	s.Publish(notif("n1", "owner-1", "Tratamiento vencido", "msg", day))

	if !s.HasUnreadSameDay("owner-1", "Tratamiento vencido", "msg", day) {
		t.Fatal("expected match for same title+message+day")
	}
	// Misma clave pero más tarde el mismo día: sigue matcheando.
	later := day.Add(10 * time.Hour)
	if !s.HasUnreadSameDay("owner-1", "Tratamiento vencido", "msg", later) {
		t.Fatal("expected match later the same calendar day")
	}

	if s.HasUnreadSameDay("owner-1", "Tratamiento vencido", "otro msg", day) {
		t.Fatal("different message must not match")
	}
	if s.HasUnreadSameDay("owner-2", "Tratamiento vencido", "msg", day) {
		t.Fatal("different owner must not match")
	}
	if s.HasUnreadSameDay("owner-1", "Tratamiento vencido", "msg", day.AddDate(0, 0, 1)) {
		t.Fatal("next day must not match")
	}

	// Marcarla leída la saca del dedup: una nueva el mismo día es legítima.
	if err := s.MarkRead("n1", "owner-1"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if s.HasUnreadSameDay("owner-1", "Tratamiento vencido", "msg", day) {
		t.Fatal("read notification must not count for dedup")
	}
}

func TestStore_MarkReadAndUnreadCount(t *testing.T) {
	s := NewStore()
	now := time.Now()

	s.Publish(notif("n1", "owner-1", "a", "1", now))
	s.Publish(notif("n2", "owner-1", "b", "2", now))

	if got := s.UnreadCount("owner-1"); got != 2 {
		t.Fatalf("expected 2 unread, got %d", got)
	}
	if err := s.MarkRead("n1", "owner-1"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if got := s.UnreadCount("owner-1"); got != 1 {
		t.Fatalf("expected 1 unread, got %d", got)
	}

	if err := s.MarkRead("n2", "owner-2"); err != ErrNotificationNotFound {
		t.Fatalf("foreign owner: expected ErrNotificationNotFound, got %v", err)
	}
	if err := s.MarkRead("nope", "owner-1"); err != ErrNotificationNotFound {
		t.Fatalf("unknown id: expected ErrNotificationNotFound, got %v", err)
	}
}

func TestStore_DeleteAndClear(t *testing.T) {
	s := NewStore()
	now := time.Now()

	s.Publish(notif("n1", "owner-1", "a", "1", now))
	s.Publish(notif("n2", "owner-1", "b", "2", now))
	s.Publish(notif("x1", "owner-2", "c", "3", now))

	if err := s.Delete("n1", "owner-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := len(s.ListByOwner("owner-1")); got != 1 {
		t.Fatalf("expected 1 left, got %d", got)
	}

	s.Clear("owner-1")
	if got := len(s.ListByOwner("owner-1")); got != 0 {
		t.Fatalf("expected none after clear, got %d", got)
	}
	// El otro owner no se toca.
	if got := len(s.ListByOwner("owner-2")); got != 1 {
		t.Fatalf("expected owner-2 untouched, got %d", got)
	}
}
