// Package sync pulls remote mailbox state into local storage. Jobs are
// queued from the API and executed by the worker; running the same job
// against unchanged remote state must leave the database unchanged.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mailhub/internal/connector"
	"mailhub/internal/crypto"
	"mailhub/internal/model"
	"mailhub/internal/mq"
	"mailhub/pkg/metrics"
)

type AccountStore interface {
	FindByID(ctx context.Context, id int64) (*model.EmailAccount, error)
}

type FolderStore interface {
	Upsert(ctx context.Context, accountID int64, baseName string) (*model.Folder, error)
	SetParent(ctx context.Context, folderID, parentID int64) error
}

type EmailStore interface {
	Upsert(ctx context.Context, e *model.Email) error
	SetRecipients(ctx context.Context, messageID string, addressIDs []int64) error
}

type AddressStore interface {
	GetOrCreate(ctx context.Context, address string) (*model.EmailAddress, error)
}

type Publisher interface {
	Publish(routingKey string, payload any) error
}

type Service struct {
	accounts  AccountStore
	folders   FolderStore
	emails    EmailStore
	addresses AddressStore
	registry  *connector.Registry
	box       *crypto.Box
	producer  Publisher // api side only
	dedupe    *Deduper  // worker side, optional
	logger    *zap.Logger
}

func NewService(
	accounts AccountStore,
	folders FolderStore,
	emails EmailStore,
	addresses AddressStore,
	registry *connector.Registry,
	box *crypto.Box,
	logger *zap.Logger,
) *Service {
	return &Service{
		accounts:  accounts,
		folders:   folders,
		emails:    emails,
		addresses: addresses,
		registry:  registry,
		box:       box,
		logger:    logger,
	}
}

func (s *Service) WithProducer(p Publisher) *Service {
	s.producer = p
	return s
}

func (s *Service) WithDeduper(d *Deduper) *Service {
	s.dedupe = d
	return s
}

// Enqueue publishes a sync job for the account and returns its id.
func (s *Service) Enqueue(account *model.EmailAccount) (string, error) {
	jobID := uuid.NewString()
	payload := mq.SyncRequestedPayload{
		JobID:       jobID,
		AccountID:   account.ID,
		UserID:      account.UserID,
		RequestedAt: time.Now().UTC(),
	}
	if err := s.producer.Publish(mq.SyncRequestedKey, payload); err != nil {
		return "", err
	}
	return jobID, nil
}

// HandleJob is the MQ consumer entrypoint.
func (s *Service) HandleJob(ctx context.Context, data json.RawMessage) error {
	var payload mq.SyncRequestedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		s.logger.Error("malformed sync job", zap.Error(err))
		return nil // poison message, do not requeue
	}

	if s.dedupe != nil && !s.dedupe.AcquireOnce(ctx, payload.JobID) {
		metrics.SyncRunCount.WithLabelValues("duplicate").Inc()
		return nil
	}

	return s.Run(ctx, payload.AccountID)
}

// Run syncs one account. A connection failure is logged and counted but
// not requeued: sync is re-attempted by a later request, never inline.
func (s *Service) Run(ctx context.Context, accountID int64) error {
	start := time.Now()

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return err
	}

	conn, err := s.registry.For(account, s.box)
	if err != nil {
		metrics.RecordSyncRun(account.Kind, "error", time.Since(start))
		return err
	}

	remoteFolders, err := conn.RetrieveFolders(ctx)
	if err != nil {
		if errors.Is(err, model.ErrConnectionFailed) {
			s.logger.Warn("mail server unreachable, sync postponed",
				zap.Int64("account_id", accountID),
				zap.Error(err),
			)
			metrics.RecordSyncRun(account.Kind, "connection_failed", time.Since(start))
			return nil
		}
		metrics.RecordSyncRun(account.Kind, "error", time.Since(start))
		return err
	}

	byName, err := s.reconcileFolders(ctx, accountID, remoteFolders)
	if err != nil {
		metrics.RecordSyncRun(account.Kind, "error", time.Since(start))
		return err
	}

	remoteEmails, err := conn.RetrieveEmails(ctx)
	if err != nil && !errors.Is(err, model.ErrConnectionFailed) {
		metrics.RecordSyncRun(account.Kind, "error", time.Since(start))
		return err
	}
	if err == nil {
		if err := s.storeEmails(ctx, remoteEmails, byName); err != nil {
			metrics.RecordSyncRun(account.Kind, "error", time.Since(start))
			return err
		}
	}

	s.logger.Info("sync completed",
		zap.Int64("account_id", accountID),
		zap.Int("folders", len(remoteFolders)),
		zap.Int("emails", len(remoteEmails)),
	)
	metrics.RecordSyncRun(account.Kind, "success", time.Since(start))
	return nil
}

// reconcileFolders runs the two-pass upsert. Pass one writes every
// folder keyed by (account, base name) with the parent cleared; pass
// two resolves parent links through the name map built in pass one.
// Matching by name is what makes a repeated run a no-op.
func (s *Service) reconcileFolders(ctx context.Context, accountID int64, remote []connector.RemoteFolder) (map[string]*model.Folder, error) {
	byName := make(map[string]*model.Folder, len(remote))

	for _, rf := range remote {
		f, err := s.folders.Upsert(ctx, accountID, rf.Name)
		if err != nil {
			return nil, err
		}
		byName[rf.Name] = f
	}

	for _, rf := range remote {
		if rf.ParentName == "" {
			continue
		}
		child, ok := byName[rf.Name]
		if !ok {
			continue
		}
		parent, ok := byName[rf.ParentName]
		if !ok || parent.ID == child.ID {
			// Unknown parent name or self-link: leave the folder at
			// the root rather than write a bad edge.
			continue
		}
		if err := s.folders.SetParent(ctx, child.ID, parent.ID); err != nil {
			return nil, err
		}
	}

	return byName, nil
}

// storeEmails writes messages and their lazily-created addresses.
// in_reply_to links are applied in a second pass so a reply can point
// at a parent seen later in the same run.
func (s *Service) storeEmails(ctx context.Context, remote []connector.RemoteEmail, folders map[string]*model.Folder) error {
	seen := make(map[string]bool, len(remote))
	for _, re := range remote {
		seen[re.MessageID] = true
	}

	var replies []model.Email

	for _, re := range remote {
		e := model.Email{
			MessageID:    re.MessageID,
			Subject:      re.Subject,
			DateSent:     re.DateSent,
			DateReceived: re.DateReceived,
			BodyText:     re.BodyText,
			BodyHTML:     re.BodyHTML,
			IsRead:       re.IsRead,
			Priority:     re.Priority,
			RawJSON:      re.RawJSON,
		}

		if f, ok := folders[re.FolderName]; ok {
			e.FolderID = &f.ID
		}

		if re.From != "" {
			addr, err := s.addresses.GetOrCreate(ctx, re.From)
			if err != nil {
				return err
			}
			e.FromAddressID = &addr.ID
		}
		if re.ReplyTo != "" {
			addr, err := s.addresses.GetOrCreate(ctx, re.ReplyTo)
			if err != nil {
				return err
			}
			e.ReplyToAddressID = &addr.ID
		}

		recipients := make([]int64, 0, len(re.To))
		for _, to := range re.To {
			addr, err := s.addresses.GetOrCreate(ctx, to)
			if err != nil {
				return err
			}
			recipients = append(recipients, addr.ID)
		}

		if err := s.emails.Upsert(ctx, &e); err != nil {
			return err
		}
		if err := s.emails.SetRecipients(ctx, e.MessageID, recipients); err != nil {
			return err
		}

		if re.InReplyTo != "" && seen[re.InReplyTo] {
			reply := e
			parent := re.InReplyTo
			reply.InReplyTo = &parent
			replies = append(replies, reply)
		}
	}

	for i := range replies {
		if err := s.emails.Upsert(ctx, &replies[i]); err != nil {
			return err
		}
	}
	return nil
}
