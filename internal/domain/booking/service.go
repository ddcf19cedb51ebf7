package booking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"

	"livactiv/backend/internal/domain/event"
	"livactiv/backend/internal/domain/notifications"
)

type Service struct {
	repo      *Repo
	eventRepo *event.Repo
	fs        *firestore.Client
	notifySvc *notifications.Service
}

func NewService(repo *Repo, eventRepo *event.Repo, fs *firestore.Client) *Service {
	return &Service{repo: repo, eventRepo: eventRepo, fs: fs}
}

// SetNotificationsService wires booking-update notifications. Optional.
func (s *Service) SetNotificationsService(n *notifications.Service) {
	s.notifySvc = n
}

// Create books the user onto an event. The attendee counter moves inside
// a transaction so concurrent bookings cannot push an event past its
// capacity.
func (s *Service) Create(ctx context.Context, uid, userName string, in CreateBookingInput) (*Booking, error) {
	if in.EventID == "" {
		return nil, fmt.Errorf("%w: eventId is required", ErrBadRequest)
	}

	ev, err := s.eventRepo.Get(ctx, in.EventID)
	if err != nil {
		return nil, fmt.Errorf("%w: event not found", ErrNotFound)
	}
	if ev.Organizer == uid {
		return nil, fmt.Errorf("%w: organizers cannot book their own event", ErrBadRequest)
	}
	if ev.Status == event.StatusCancelled {
		return nil, fmt.Errorf("%w: event is cancelled", ErrBadRequest)
	}

	now := time.Now().UTC()
	eventRef := s.fs.Collection("events").Doc(in.EventID)
	bookingRef := s.fs.Collection("bookings").NewDoc()

	b := Booking{
		ID:              bookingRef.ID,
		EventID:         in.EventID,
		UserID:          uid,
		UserName:        userName,
		Status:          InitialStatus(ev.AutoApprove),
		CreatedAt:       now,
		Paid:            ev.IsPaid(),
		PaymentIntentID: in.PaymentIntentID,
	}

	err = s.fs.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// The duplicate lookup shares the transaction so two concurrent
		// creates for the same user/event cannot both pass it.
		dup := tx.Documents(s.fs.Collection("bookings").Query.
			Where("userId", "==", uid).
			Where("eventId", "==", in.EventID).
			Limit(1))
		if _, err := dup.Next(); err != iterator.Done {
			if err == nil {
				return fmt.Errorf("%w: a booking for this event already exists", ErrDuplicate)
			}
			return fmt.Errorf("failed to check existing booking: %w", err)
		}

		doc, err := tx.Get(eventRef)
		if err != nil {
			return fmt.Errorf("%w: event not found", ErrNotFound)
		}

		var cur event.Event
		if err := doc.DataTo(&cur); err != nil {
			return fmt.Errorf("failed to parse event: %w", err)
		}
		if cur.IsFull() {
			return fmt.Errorf("%w: event is at capacity", ErrEventFull)
		}

		if err := tx.Create(bookingRef, b); err != nil {
			return err
		}
		return tx.Update(eventRef, []firestore.Update{
			{Path: "currentAttendees", Value: cur.CurrentAttendees + 1},
			{Path: "updatedAt", Value: now},
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifyBooking(ctx, ev.Organizer, "New booking request",
		fmt.Sprintf("%s wants to join %s", userName, ev.Title), b)

	return &b, nil
}

// Approve confirms a pending booking. Organizer only.
func (s *Service) Approve(ctx context.Context, actorUID, bookingID string) (*Booking, error) {
	return s.setStatus(ctx, actorUID, bookingID, StatusConfirmed,
		"Booking confirmed", "Your booking for %s was approved")
}

// Reject denies a pending booking. Organizer only.
func (s *Service) Reject(ctx context.Context, actorUID, bookingID string) (*Booking, error) {
	return s.setStatus(ctx, actorUID, bookingID, StatusRejected,
		"Booking rejected", "Your booking for %s was declined")
}

func (s *Service) setStatus(ctx context.Context, actorUID, bookingID, status, title, bodyFmt string) (*Booking, error) {
	if bookingID == "" {
		return nil, fmt.Errorf("%w: booking id is required", ErrBadRequest)
	}

	b, err := s.repo.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	ev, err := s.eventRepo.Get(ctx, b.EventID)
	if err != nil {
		return nil, fmt.Errorf("%w: event not found", ErrNotFound)
	}
	if ev.Organizer != actorUID {
		return nil, fmt.Errorf("%w: only the organizer can manage bookings", ErrUnauthorized)
	}

	updated, err := s.repo.Update(ctx, bookingID, map[string]interface{}{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.notifyBooking(ctx, b.UserID, title, fmt.Sprintf(bodyFmt, ev.Title), *updated)

	return updated, nil
}

// ListForUser returns the user's bookings joined with their events and
// owner profiles. Referenced documents are fetched in one batch per
// collection rather than per booking.
func (s *Service) ListForUser(ctx context.Context, uid string) ([]BookingWithEvent, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrBadRequest)
	}

	bookings, err := s.repo.ListByUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	return s.join(ctx, bookings), nil
}

// Roster returns the attendee list for an event, confirmed first, with
// status counts. Organizer only.
func (s *Service) Roster(ctx context.Context, actorUID, eventID string) (*Roster, error) {
	if eventID == "" {
		return nil, fmt.Errorf("%w: event id is required", ErrBadRequest)
	}

	ev, err := s.eventRepo.Get(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("%w: event not found", ErrNotFound)
	}
	if ev.Organizer != actorUID {
		return nil, fmt.Errorf("%w: only the organizer can view the roster", ErrUnauthorized)
	}

	bookings, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	users := s.fetchUsers(ctx, distinct(bookings, func(b Booking) string { return b.UserID }))

	entries := make([]RosterEntry, 0, len(bookings))
	for _, b := range bookings {
		entries = append(entries, RosterEntry{Booking: b, UserProfile: snapshotFor(users, b.UserID)})
	}

	return BuildRoster(entries), nil
}

// BuildRoster sorts entries confirmed < pending < rejected and tallies
// the status counts.
func BuildRoster(entries []RosterEntry) *Roster {
	sort.SliceStable(entries, func(i, j int) bool {
		return statusRank(entries[i].Status) < statusRank(entries[j].Status)
	})

	counts := RosterCounts{}
	for _, e := range entries {
		switch e.Status {
		case StatusConfirmed:
			counts.Confirmed++
		case StatusPending:
			counts.Pending++
		case StatusRejected:
			counts.Rejected++
		}
	}

	return &Roster{Attendees: entries, Counts: counts}
}

// join resolves the referenced event and user documents for a batch of
// bookings. A missing or unreadable reference degrades that record (nil
// event, "Unknown User") without dropping it.
func (s *Service) join(ctx context.Context, bookings []Booking) []BookingWithEvent {
	events := s.fetchEvents(ctx, distinct(bookings, func(b Booking) string { return b.EventID }))
	users := s.fetchUsers(ctx, distinct(bookings, func(b Booking) string { return b.UserID }))
	return assemble(bookings, events, users)
}

func assemble(bookings []Booking, events map[string]*event.Event, users map[string]UserSnapshot) []BookingWithEvent {
	out := make([]BookingWithEvent, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, BookingWithEvent{
			Booking:     b,
			Event:       events[b.EventID],
			UserProfile: snapshotFor(users, b.UserID),
		})
	}
	return out
}

func snapshotFor(users map[string]UserSnapshot, uid string) UserSnapshot {
	if u, ok := users[uid]; ok {
		return u
	}
	return UserSnapshot{Name: "Unknown User"}
}

func (s *Service) fetchEvents(ctx context.Context, ids []string) map[string]*event.Event {
	out := make(map[string]*event.Event, len(ids))
	if len(ids) == 0 {
		return out
	}

	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, s.fs.Collection("events").Doc(id))
	}

	snaps, err := s.fs.GetAll(ctx, refs)
	if err != nil {
		log.Warn().Err(err).Int("count", len(ids)).Msg("booking join: event batch fetch failed")
		return out
	}

	for _, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		var e event.Event
		if err := snap.DataTo(&e); err != nil {
			continue
		}
		e.ID = snap.Ref.ID
		out[e.ID] = &e
	}
	return out
}

func (s *Service) fetchUsers(ctx context.Context, ids []string) map[string]UserSnapshot {
	out := make(map[string]UserSnapshot, len(ids))
	if len(ids) == 0 {
		return out
	}

	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, s.fs.Collection("users").Doc(id))
	}

	snaps, err := s.fs.GetAll(ctx, refs)
	if err != nil {
		log.Warn().Err(err).Int("count", len(ids)).Msg("booking join: user batch fetch failed")
		return out
	}

	for _, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		data := snap.Data()
		name, _ := data["name"].(string)
		if name == "" {
			name = "Unknown User"
		}
		avatar, _ := data["avatar"].(string)
		out[snap.Ref.ID] = UserSnapshot{Name: name, Avatar: avatar}
	}
	return out
}

func distinct(bookings []Booking, key func(Booking) string) []string {
	seen := make(map[string]bool, len(bookings))
	out := make([]string, 0, len(bookings))
	for _, b := range bookings {
		k := key(b)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

func (s *Service) notifyBooking(ctx context.Context, uid, title, body string, b Booking) {
	if s.notifySvc == nil {
		return
	}
	err := s.notifySvc.Notify(ctx, uid, title, body, notifications.TypeBookingUpdate, map[string]string{
		"bookingId": b.ID,
		"eventId":   b.EventID,
	})
	if err != nil {
		log.Warn().Err(err).Str("uid", uid).Msg("booking notification failed")
	}
}
