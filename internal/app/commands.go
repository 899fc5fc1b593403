package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/cavanpasek/ouray-info/internal/adapters/observability"
	"github.com/cavanpasek/ouray-info/internal/domain"
)

// ValidationError is a user-facing submission failure. Handlers render
// Message on the originating form with the input echoed back.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Fixed validation messages, checked in order.
const (
	MsgRatingRange     = "Please choose a rating between 1 and 5."
	MsgCommentRequired = "Please write a comment."
	MsgCommentTooLong  = "Comments are limited to 1000 characters."
	MsgNameRequired    = "Please tell us your name."
	MsgMessageRequired = "Please write a message."
	MsgMailDisabled    = "The contact form is not configured. Please try again later."
)

type ReviewInput struct {
	Rating   string // raw form value; validated here
	Name     string
	Email    string
	Comment  string
	Token    string // CAPTCHA response token
	RemoteIP string
}

type ContactInput struct {
	Name     string
	Email    string
	Message  string
	Token    string
	RemoteIP string
}

type SubmissionService struct {
	repo      domain.BusinessRepository
	captcha   domain.CaptchaVerifier
	bookmarks domain.BookmarkStore
	mailer    domain.Mailer
}

func NewSubmissionService(r domain.BusinessRepository, c domain.CaptchaVerifier, b domain.BookmarkStore, m domain.Mailer) *SubmissionService {
	return &SubmissionService{repo: r, captcha: c, bookmarks: b, mailer: m}
}

// SubmitReview validates in a fixed order, short-circuiting on the
// first failure; nothing is persisted unless every check passes. A
// passing review is stored approved and shows immediately.
func (s *SubmissionService) SubmitReview(ctx context.Context, businessID int64, in ReviewInput) error {
	rating, err := strconv.Atoi(strings.TrimSpace(in.Rating))
	if err != nil || rating < 1 || rating > 5 {
		observability.ObserveReview("rejected")
		return &ValidationError{Field: "rating", Message: MsgRatingRange}
	}

	comment := strings.TrimSpace(in.Comment)
	if comment == "" {
		observability.ObserveReview("rejected")
		return &ValidationError{Field: "comment", Message: MsgCommentRequired}
	}
	if utf8.RuneCountInString(comment) > domain.MaxCommentLen {
		observability.ObserveReview("rejected")
		return &ValidationError{Field: "comment", Message: MsgCommentTooLong}
	}

	// Unconfigured CAPTCHA is itself a failure: submissions stay closed
	// rather than silently skipping the check.
	if err := s.captcha.Verify(ctx, in.Token, in.RemoteIP); err != nil {
		observability.ObserveReview("rejected")
		return &ValidationError{Field: "captcha", Message: err.Error()}
	}

	rv := &domain.Review{
		BusinessID: businessID,
		Rating:     rating,
		Name:       strings.TrimSpace(in.Name),
		Email:      strings.TrimSpace(in.Email),
		Comment:    comment,
		Approved:   true,
	}
	if err := s.repo.CreateReview(ctx, rv); err != nil {
		return err
	}
	observability.ObserveReview("accepted")
	log.Info().Int64("business_id", businessID).Int("rating", rating).Msg("review accepted")
	return nil
}

// ToggleBookmark flips membership for the visitor's session and
// reports whether the business is now bookmarked.
func (s *SubmissionService) ToggleBookmark(ctx context.Context, sid string, businessID int64) (bool, error) {
	return s.bookmarks.Toggle(ctx, sid, businessID)
}

// SubmitContact validates the contact form, checks the CAPTCHA, then
// mails the message to the configured recipients.
func (s *SubmissionService) SubmitContact(ctx context.Context, in ContactInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return &ValidationError{Field: "name", Message: MsgNameRequired}
	}
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return &ValidationError{Field: "message", Message: MsgMessageRequired}
	}
	if utf8.RuneCountInString(message) > domain.MaxCommentLen {
		return &ValidationError{Field: "message", Message: MsgCommentTooLong}
	}

	if err := s.captcha.Verify(ctx, in.Token, in.RemoteIP); err != nil {
		return &ValidationError{Field: "captcha", Message: err.Error()}
	}

	if !s.mailer.Configured() {
		return &ValidationError{Field: "mail", Message: MsgMailDisabled}
	}

	subject := fmt.Sprintf("Directory contact from %s", name)
	body := fmt.Sprintf("From: %s <%s>\n\n%s\n", name, strings.TrimSpace(in.Email), message)
	if err := s.mailer.Send(ctx, subject, body); err != nil {
		log.Error().Err(err).Msg("contact mail failed")
		return &ValidationError{Field: "mail", Message: MsgMailDisabled}
	}
	return nil
}
