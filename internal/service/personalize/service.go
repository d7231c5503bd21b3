// Package personalize manages user-private metadata over synced data.
// Creation verifies the target email or folder is owned by the acting
// user; the owning reference is immutable afterwards.
package personalize

import (
	"context"

	"mailhub/internal/model"
	"mailhub/internal/repository"
)

type Service struct {
	pers    *repository.PersonalizationRepository
	tags    *repository.TagRepository
	emails  *repository.EmailRepository
	folders *repository.FolderRepository
}

func NewService(
	pers *repository.PersonalizationRepository,
	tags *repository.TagRepository,
	emails *repository.EmailRepository,
	folders *repository.FolderRepository,
) *Service {
	return &Service{
		pers:    pers,
		tags:    tags,
		emails:  emails,
		folders: folders,
	}
}

// EmailInput carries the writable fields of an email personalization.
type EmailInput struct {
	MessageID       string   `json:"email"`
	Notes           string   `json:"notes"`
	ImportanceLevel *int     `json:"importance_level"`
	Tags            []string `json:"tags"`
}

// CreateEmail attaches a personalization to one owned email.
func (s *Service) CreateEmail(ctx context.Context, userID int64, in EmailInput) (*model.EmailPersonalization, error) {
	// The email must exist and belong to the user; a miss is the same
	// "not found" as a foreign user's email.
	if _, err := s.emails.FindForUser(ctx, in.MessageID, userID); err != nil {
		return nil, err
	}

	p := &model.EmailPersonalization{
		MessageID:       in.MessageID,
		Notes:           in.Notes,
		ImportanceLevel: in.ImportanceLevel,
	}
	if err := s.pers.CreateEmail(ctx, p); err != nil {
		return nil, err
	}
	if err := s.tags.ReplaceEmailTags(ctx, p.ID, userID, in.Tags); err != nil {
		return nil, err
	}
	p.Tags = normalizeTags(in.Tags)
	return p, nil
}

// GetEmail returns one owned email personalization with its tags.
func (s *Service) GetEmail(ctx context.Context, id, userID int64) (*model.EmailPersonalization, error) {
	p, err := s.pers.FindEmailForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return s.withEmailTags(ctx, p)
}

// ListEmail lists the user's email personalizations with tags.
func (s *Service) ListEmail(ctx context.Context, userID int64, filter model.PersonalizationFilter) ([]model.EmailPersonalization, error) {
	items, err := s.pers.ListEmailForUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if _, err := s.withEmailTags(ctx, &items[i]); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// UpdateEmail rewrites notes, importance and tags in one call; the
// update is all-or-nothing and never re-points the owning email.
func (s *Service) UpdateEmail(ctx context.Context, id, userID int64, in EmailInput) (*model.EmailPersonalization, error) {
	if err := s.pers.UpdateEmail(ctx, id, userID, in.Notes, in.ImportanceLevel); err != nil {
		return nil, err
	}
	if err := s.tags.ReplaceEmailTags(ctx, id, userID, in.Tags); err != nil {
		return nil, err
	}
	return s.GetEmail(ctx, id, userID)
}

// DeleteEmail removes the personalization; the email survives.
func (s *Service) DeleteEmail(ctx context.Context, id, userID int64) error {
	return s.pers.DeleteEmail(ctx, id, userID)
}

// FolderInput carries the writable fields of a folder personalization.
// DisplayColor accepts any value colors.Parse accepts, "" included.
type FolderInput struct {
	FolderID     int64    `json:"folder"`
	DisplayName  string   `json:"display_name"`
	DisplayColor string   `json:"display_color"`
	Tags         []string `json:"tags"`
}

// CreateFolder attaches a personalization to one owned folder.
func (s *Service) CreateFolder(ctx context.Context, userID int64, in FolderInput) (*model.FolderPersonalization, error) {
	if _, err := s.folders.FindForUser(ctx, in.FolderID, userID); err != nil {
		return nil, err
	}

	p := &model.FolderPersonalization{
		FolderID:     in.FolderID,
		DisplayName:  in.DisplayName,
		DisplayColor: in.DisplayColor,
	}
	if err := s.pers.CreateFolder(ctx, p); err != nil {
		return nil, err
	}
	if err := s.tags.ReplaceFolderTags(ctx, p.ID, userID, in.Tags); err != nil {
		return nil, err
	}
	p.Tags = normalizeTags(in.Tags)
	return p, nil
}

// GetFolder returns one owned folder personalization with its tags.
func (s *Service) GetFolder(ctx context.Context, id, userID int64) (*model.FolderPersonalization, error) {
	p, err := s.pers.FindFolderForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return s.withFolderTags(ctx, p)
}

// ListFolder lists the user's folder personalizations with tags.
func (s *Service) ListFolder(ctx context.Context, userID int64, filter model.PersonalizationFilter) ([]model.FolderPersonalization, error) {
	items, err := s.pers.ListFolderForUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if _, err := s.withFolderTags(ctx, &items[i]); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// UpdateFolder rewrites display fields and tags; the owning folder
// stays fixed.
func (s *Service) UpdateFolder(ctx context.Context, id, userID int64, in FolderInput) (*model.FolderPersonalization, error) {
	if err := s.pers.UpdateFolder(ctx, id, userID, in.DisplayName, in.DisplayColor); err != nil {
		return nil, err
	}
	if err := s.tags.ReplaceFolderTags(ctx, id, userID, in.Tags); err != nil {
		return nil, err
	}
	return s.GetFolder(ctx, id, userID)
}

// DeleteFolder removes the personalization; the folder survives.
func (s *Service) DeleteFolder(ctx context.Context, id, userID int64) error {
	return s.pers.DeleteFolder(ctx, id, userID)
}

func (s *Service) withEmailTags(ctx context.Context, p *model.EmailPersonalization) (*model.EmailPersonalization, error) {
	tags, err := s.tags.EmailTags(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Tags = tags
	return p, nil
}

func (s *Service) withFolderTags(ctx context.Context, p *model.FolderPersonalization) (*model.FolderPersonalization, error) {
	tags, err := s.tags.FolderTags(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Tags = tags
	return p, nil
}

func normalizeTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
