package mailbox

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailhub/internal/model"
)

type fakeEmailStore struct {
	emails []model.Email
}

func (f *fakeEmailStore) ListForUser(_ context.Context, _ int64, _ model.EmailFilter) ([]model.Email, error) {
	return f.emails, nil
}

func (f *fakeEmailStore) FindForUser(_ context.Context, messageID string, _ int64) (*model.Email, error) {
	for _, e := range f.emails {
		if e.MessageID == messageID {
			row := e
			return &row, nil
		}
	}
	return nil, model.ErrNotFound
}

func (f *fakeEmailStore) RepliesCount(_ context.Context, messageID string) (int64, error) {
	var count int64
	for _, e := range f.emails {
		if e.InReplyTo != nil && *e.InReplyTo == messageID {
			count++
		}
	}
	return count, nil
}

type fakeAddressStore struct {
	addresses []model.EmailAddress
	usage     map[int64]model.AddressUsage
}

func (f *fakeAddressStore) ListForUser(_ context.Context, _ int64, _ string, _ int) ([]model.EmailAddress, error) {
	return f.addresses, nil
}

func (f *fakeAddressStore) FindForUser(_ context.Context, id, _ int64) (*model.EmailAddress, error) {
	for _, a := range f.addresses {
		if a.ID == id {
			row := a
			return &row, nil
		}
	}
	return nil, model.ErrNotFound
}

func (f *fakeAddressStore) Usage(_ context.Context, id int64) (*model.AddressUsage, error) {
	u, ok := f.usage[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &u, nil
}

func reply(to string) *string { return &to }

// root has two direct replies; the first reply has a reply of its own.
func threadFixture() *fakeEmailStore {
	return &fakeEmailStore{emails: []model.Email{
		{MessageID: "<root@x>", Subject: "Plan"},
		{MessageID: "<r1@x>", Subject: "Re: Plan", InReplyTo: reply("<root@x>")},
		{MessageID: "<r2@x>", Subject: "Re: Plan", InReplyTo: reply("<root@x>")},
		{MessageID: "<r1r1@x>", Subject: "Re: Re: Plan", InReplyTo: reply("<r1@x>")},
	}}
}

func TestThreadCountsDirectRepliesOnly(t *testing.T) {
	svc := NewService(threadFixture(), &fakeAddressStore{})

	view, err := svc.Thread(context.Background(), "<root@x>", 7)
	require.NoError(t, err)

	// The grandchild reply belongs to <r1@x>'s thread, not the root's.
	assert.Equal(t, int64(2), view.RepliesCount)
	assert.True(t, view.HasReplies)
	assert.Equal(t, "Plan", view.Subject)
}

func TestThreadOfIntermediateReply(t *testing.T) {
	svc := NewService(threadFixture(), &fakeAddressStore{})

	view, err := svc.Thread(context.Background(), "<r1@x>", 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), view.RepliesCount)
	assert.True(t, view.HasReplies)
}

func TestThreadOfLeaf(t *testing.T) {
	svc := NewService(threadFixture(), &fakeAddressStore{})

	view, err := svc.Thread(context.Background(), "<r2@x>", 7)
	require.NoError(t, err)
	assert.Zero(t, view.RepliesCount)
	assert.False(t, view.HasReplies)
}

func TestThreadUnknownEmail(t *testing.T) {
	svc := NewService(threadFixture(), &fakeAddressStore{})

	_, err := svc.Thread(context.Background(), "<missing@x>", 7)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGetAddressAttachesUsage(t *testing.T) {
	svc := NewService(threadFixture(), &fakeAddressStore{
		addresses: []model.EmailAddress{{ID: 3, Address: "alice@example.com"}},
		usage: map[int64]model.AddressUsage{
			3: {FromCount: 4, ToCount: 9, ReplyToCount: 1},
		},
	})

	detail, err := svc.GetAddress(context.Background(), 3, 7)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", detail.Address)
	assert.Equal(t, int64(4), detail.FromCount)
	assert.Equal(t, int64(9), detail.ToCount)
	assert.Equal(t, int64(1), detail.ReplyToCount)
}
