package usecase_test

import (
	"context"
	"sync"
	"time"

	"coachflow-backend/internal/domain"
)

// memStore backs BookingRepository and TestimonialRepository with maps so
// testimonial writes and the reviewed flag can be observed together.
type memStore struct {
	mu           sync.Mutex
	sessions     map[int64]domain.Session
	bookings     map[int64]*domain.Booking
	testimonials map[int64]*domain.Testimonial
	nextID       int64
}

func newMemStore() *memStore {
	return &memStore{
		sessions:     map[int64]domain.Session{},
		bookings:     map[int64]*domain.Booking{},
		testimonials: map[int64]*domain.Testimonial{},
		nextID:       100,
	}
}

func (s *memStore) addSession(sess domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
}

func (s *memStore) addBooking(b domain.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[b.ID] = &b
}

func (s *memStore) booking(id int64) domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.bookings[id]
}

func (s *memStore) testimonialCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.testimonials)
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) Create(_ context.Context, b *domain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(b)
}

// CreateWithinCapacity counts and inserts under one lock, like the row lock in postgres.
func (s *memStore) CreateWithinCapacity(_ context.Context, b *domain.Booking, capacity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeLocked(b.SessionID) >= capacity {
		return domain.ErrSessionFull
	}
	return s.insertLocked(b)
}

func (s *memStore) insertLocked(b *domain.Booking) error {
	if _, ok := s.sessions[b.SessionID]; !ok {
		return domain.ErrNotFound
	}
	b.ID = s.id()
	b.CreatedAt = time.Now()
	cp := *b
	s.bookings[b.ID] = &cp
	return nil
}

func (s *memStore) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *memStore) GetView(_ context.Context, id int64) (*domain.BookingView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.BookingView{Booking: *b, Session: s.sessions[b.SessionID]}, nil
}

func (s *memStore) GetByPaymentOrderID(_ context.Context, orderID string) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.PaymentOrderID != nil && *b.PaymentOrderID == orderID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *memStore) SetPaymentOrder(_ context.Context, id int64, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.PaymentOrderID = &orderID
	return nil
}

func (s *memStore) UpdateStatus(_ context.Context, id int64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.Status = status
	return nil
}

func (s *memStore) ListForClient(_ context.Context, clientID string) ([]domain.BookingView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.BookingView
	for _, b := range s.bookings {
		if b.ClientID == clientID {
			out = append(out, domain.BookingView{Booking: *b, Session: s.sessions[b.SessionID]})
		}
	}
	return out, nil
}

func (s *memStore) ListForCoach(_ context.Context, coachProfileID int64) ([]domain.BookingView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.BookingView
	for _, b := range s.bookings {
		if sess := s.sessions[b.SessionID]; sess.CoachProfileID == coachProfileID {
			out = append(out, domain.BookingView{Booking: *b, Session: sess})
		}
	}
	return out, nil
}

func (s *memStore) activeLocked(sessionID int64) int {
	n := 0
	for _, b := range s.bookings {
		if b.SessionID != sessionID {
			continue
		}
		switch b.Status {
		case domain.BookingStatusCancelled, domain.BookingStatusPaymentFailed:
		default:
			n++
		}
	}
	return n
}

func (s *memStore) ListReviewable(_ context.Context, clientID string, coachProfileID int64) ([]domain.ReviewableBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.ReviewableBooking
	for _, b := range s.bookings {
		sess := s.sessions[b.SessionID]
		if b.ClientID == clientID && sess.CoachProfileID == coachProfileID &&
			b.Status == domain.BookingStatusCompleted && !b.IsReviewed {
			out = append(out, domain.ReviewableBooking{
				BookingID:    b.ID,
				SessionTitle: sess.Title,
				SessionType:  sess.SessionType,
				ScheduledAt:  b.ScheduledAt,
				CreatedAt:    b.CreatedAt,
			})
		}
	}
	return out, nil
}

// testimonials exposes the TestimonialRepository half of the store.
func (s *memStore) testimonialRepo() *memTestimonials { return &memTestimonials{s} }

type memTestimonials struct{ s *memStore }

func (r *memTestimonials) CreateForBooking(_ context.Context, t *domain.Testimonial) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[t.BookingID]
	if !ok {
		return domain.ErrNotFound
	}
	if b.ClientID != t.ClientID || s.sessions[b.SessionID].CoachProfileID != t.CoachProfileID ||
		b.Status != domain.BookingStatusCompleted || b.IsReviewed {
		return domain.ErrBookingNotEligible
	}
	t.ID = s.id()
	t.CreatedAt = time.Now()
	cp := *t
	s.testimonials[t.ID] = &cp
	b.IsReviewed = true
	return nil
}

func (r *memTestimonials) GetByID(_ context.Context, id int64) (*domain.Testimonial, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.testimonials[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *memTestimonials) GetByBookingID(_ context.Context, bookingID int64) (*domain.Testimonial, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.testimonials {
		if t.BookingID == bookingID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memTestimonials) ListByCoachProfile(_ context.Context, coachProfileID int64) ([]domain.Testimonial, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Testimonial
	for _, t := range r.s.testimonials {
		if t.CoachProfileID == coachProfileID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *memTestimonials) Update(_ context.Context, t *domain.Testimonial) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.testimonials[t.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *t
	r.s.testimonials[t.ID] = &cp
	return nil
}

func (r *memTestimonials) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.testimonials[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.testimonials, id)
	return nil
}
