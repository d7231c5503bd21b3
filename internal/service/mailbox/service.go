// Package mailbox serves read-only email and address queries.
package mailbox

import (
	"context"

	"mailhub/internal/model"
)

type EmailStore interface {
	ListForUser(ctx context.Context, userID int64, filter model.EmailFilter) ([]model.Email, error)
	FindForUser(ctx context.Context, messageID string, userID int64) (*model.Email, error)
	RepliesCount(ctx context.Context, messageID string) (int64, error)
}

type AddressStore interface {
	ListForUser(ctx context.Context, userID int64, search string, limit int) ([]model.EmailAddress, error)
	FindForUser(ctx context.Context, id, userID int64) (*model.EmailAddress, error)
	Usage(ctx context.Context, id int64) (*model.AddressUsage, error)
}

type Service struct {
	emails    EmailStore
	addresses AddressStore
}

func NewService(emails EmailStore, addresses AddressStore) *Service {
	return &Service{
		emails:    emails,
		addresses: addresses,
	}
}

// ListEmails returns the user's emails, filtered and ordered.
func (s *Service) ListEmails(ctx context.Context, userID int64, filter model.EmailFilter) ([]model.Email, error) {
	return s.emails.ListForUser(ctx, userID, filter)
}

// GetEmail looks up one owned email by protocol message id.
func (s *Service) GetEmail(ctx context.Context, messageID string, userID int64) (*model.Email, error) {
	return s.emails.FindForUser(ctx, messageID, userID)
}

// Thread returns the email with its one-hop reply summary. Only direct
// replies count; a reply's own replies do not.
func (s *Service) Thread(ctx context.Context, messageID string, userID int64) (*model.ThreadView, error) {
	e, err := s.emails.FindForUser(ctx, messageID, userID)
	if err != nil {
		return nil, err
	}

	count, err := s.emails.RepliesCount(ctx, messageID)
	if err != nil {
		return nil, err
	}
	return &model.ThreadView{
		Email:        *e,
		RepliesCount: count,
		HasReplies:   count > 0,
	}, nil
}

// ListAddresses returns addresses appearing in the user's mail.
func (s *Service) ListAddresses(ctx context.Context, userID int64, search string, limit int) ([]model.EmailAddress, error) {
	return s.addresses.ListForUser(ctx, userID, search, limit)
}

// AddressDetail is an address with its usage counts.
type AddressDetail struct {
	model.EmailAddress
	model.AddressUsage
}

// GetAddress returns one address with usage counts, scoped to
// addresses visible in the user's mail.
func (s *Service) GetAddress(ctx context.Context, id, userID int64) (*AddressDetail, error) {
	a, err := s.addresses.FindForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	usage, err := s.addresses.Usage(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	return &AddressDetail{EmailAddress: *a, AddressUsage: *usage}, nil
}
