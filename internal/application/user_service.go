package application

import (
	"context"
	"errors"
	"time"

	"github.com/oksasatya/hello-birthday/internal/domain/birthday"
	repo "github.com/oksasatya/hello-birthday/internal/domain/repository"
	"github.com/oksasatya/hello-birthday/pkg/validation"
)

// Service validates requests, talks to the store and computes greetings.
type Service struct {
	Repo     repo.UserRepository
	Observer Observer
	Now      func() time.Time
}

func NewService(repo repo.UserRepository, observer Observer) *Service {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Service{
		Repo:     repo,
		Observer: observer,
		Now:      time.Now,
	}
}

func (s *Service) today() time.Time {
	return birthday.Today(s.Now())
}

// SaveBirthday validates username and the raw PUT body, then creates or
// updates the record. It reports whether the record was created.
func (s *Service) SaveBirthday(ctx context.Context, username string, payload []byte) (bool, error) {
	created, err := s.saveBirthday(ctx, username, payload)
	outcome := OutcomeUpdated
	if created {
		outcome = OutcomeCreated
	}
	s.observe(OpSave, username, outcome, nil, err)
	return created, err
}

func (s *Service) saveBirthday(ctx context.Context, username string, payload []byte) (bool, error) {
	if !validation.ValidateUsername(username) {
		return false, &Error{Reason: InvalidUsername, Message: MsgInvalidUsername}
	}
	dob, verr := validation.ValidatePutPayload(payload, s.today())
	if verr != nil {
		return false, &Error{Reason: Reason(verr.Kind), Message: verr.Message}
	}
	created, err := s.Repo.Upsert(ctx, username, dob)
	if err != nil {
		return false, &Error{Reason: StoreError, Message: MsgInternal, Err: err}
	}
	return created, nil
}

// Greet returns the birthday message for username.
func (s *Service) Greet(ctx context.Context, username string) (string, error) {
	if !validation.ValidateUsername(username) {
		err := &Error{Reason: InvalidUsername, Message: MsgInvalidUsername}
		s.observe(OpGreet, username, "", nil, err)
		return "", err
	}
	u, err := s.Repo.Get(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			err = &Error{Reason: NotFound, Message: MsgNotFound}
		} else {
			err = &Error{Reason: StoreError, Message: MsgInternal, Err: err}
		}
		s.observe(OpGreet, username, "", nil, err)
		return "", err
	}

	days := birthday.DaysUntil(u.DateOfBirth, s.today())
	s.observe(OpGreet, username, OutcomeOK, &days, nil)
	return birthday.Greeting(username, days), nil
}

func (s *Service) observe(op Operation, username, outcome string, days *int, err error) {
	if err != nil {
		outcome = string(ReasonOf(err))
	}
	s.Observer.Observe(Event{
		Operation: op,
		Outcome:   outcome,
		Username:  username,
		DaysUntil: days,
		At:        s.Now(),
	})
}
