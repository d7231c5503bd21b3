// Package folder answers hierarchy and statistics queries over folder
// snapshots. The tree itself is recomputed on every call; statistics
// may be served from a short-lived redis cache, which is best-effort
// only and never part of the correctness contract.
package folder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"mailhub/internal/foldertree"
	"mailhub/internal/model"
	"mailhub/internal/repository"
	"mailhub/pkg/metrics"
)

const statsCacheTTL = 30 * time.Second

type FolderStore interface {
	ListForUser(ctx context.Context, userID int64, filter repository.FolderFilter) ([]model.Folder, error)
	ListByAccount(ctx context.Context, accountID int64) ([]model.Folder, error)
	FindForUser(ctx context.Context, id, userID int64) (*model.Folder, error)
	Stats(ctx context.Context, folderID int64) (*model.FolderStats, error)
}

type AccountStore interface {
	ListForUser(ctx context.Context, userID int64) ([]model.EmailAccount, error)
	FindForUser(ctx context.Context, id, userID int64) (*model.EmailAccount, error)
	Stats(ctx context.Context, accountID int64) (*model.AccountStats, error)
}

type Service struct {
	folders  FolderStore
	accounts AccountStore
	cache    *redis.Client // optional
	logger   *zap.Logger
}

func NewService(folders FolderStore, accounts AccountStore, cache *redis.Client, logger *zap.Logger) *Service {
	return &Service{
		folders:  folders,
		accounts: accounts,
		cache:    cache,
		logger:   logger,
	}
}

// List returns the user's folders flat, filtered.
func (s *Service) List(ctx context.Context, userID int64, filter repository.FolderFilter) ([]model.Folder, error) {
	return s.folders.ListForUser(ctx, userID, filter)
}

// FolderDetail is a folder with its statistics.
type FolderDetail struct {
	model.Folder
	model.FolderStats
}

// Get returns one owned folder with statistics.
func (s *Service) Get(ctx context.Context, folderID, userID int64) (*FolderDetail, error) {
	f, err := s.folders.FindForUser(ctx, folderID, userID)
	if err != nil {
		return nil, err
	}

	stats, err := s.folderStats(ctx, folderID)
	if err != nil {
		return nil, err
	}
	return &FolderDetail{Folder: *f, FolderStats: *stats}, nil
}

// Tree returns the full hierarchy: every root folder with its nested
// subtree. With accountID set, only that account's folders; otherwise
// all of the user's accounts contribute roots.
func (s *Service) Tree(ctx context.Context, userID int64, accountID *int64) ([]foldertree.Node, error) {
	if accountID != nil {
		if _, err := s.accounts.FindForUser(ctx, *accountID, userID); err != nil {
			return nil, err
		}
	}
	folders, err := s.folders.ListForUser(ctx, userID, repository.FolderFilter{AccountID: accountID})
	if err != nil {
		return nil, err
	}
	return foldertree.FullTree(folders), nil
}

// Children returns the immediate children of one owned folder, each
// carrying its own nested subtree.
func (s *Service) Children(ctx context.Context, folderID, userID int64) ([]foldertree.Node, error) {
	f, err := s.folders.FindForUser(ctx, folderID, userID)
	if err != nil {
		return nil, err
	}
	folders, err := s.folders.ListByAccount(ctx, f.AccountID)
	if err != nil {
		return nil, err
	}
	return foldertree.DirectChildren(folderID, folders), nil
}

// AccountDetail is an account with its statistics. Credentials never
// leave the storage layer through this path.
type AccountDetail struct {
	model.EmailAccount
	model.AccountStats
}

// Accounts returns the user's accounts flat.
func (s *Service) Accounts(ctx context.Context, userID int64) ([]model.EmailAccount, error) {
	return s.accounts.ListForUser(ctx, userID)
}

// Account returns one owned account with statistics.
func (s *Service) Account(ctx context.Context, accountID, userID int64) (*AccountDetail, error) {
	a, err := s.accounts.FindForUser(ctx, accountID, userID)
	if err != nil {
		return nil, err
	}
	a.PasswordSealed = nil

	stats, err := s.accountStats(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &AccountDetail{EmailAccount: *a, AccountStats: *stats}, nil
}

func (s *Service) folderStats(ctx context.Context, folderID int64) (*model.FolderStats, error) {
	key := fmt.Sprintf("stats:folder:%d", folderID)
	var cached model.FolderStats
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	stats, err := s.folders.Stats(ctx, folderID)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, stats)
	return stats, nil
}

func (s *Service) accountStats(ctx context.Context, accountID int64) (*model.AccountStats, error) {
	key := fmt.Sprintf("stats:account:%d", accountID)
	var cached model.AccountStats
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	stats, err := s.accounts.Stats(ctx, accountID)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, stats)
	return stats, nil
}

func (s *Service) cacheGet(ctx context.Context, key string, out any) bool {
	if s.cache == nil {
		return false
	}
	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		metrics.StatsCacheHits.WithLabelValues("miss").Inc()
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false
	}
	metrics.StatsCacheHits.WithLabelValues("hit").Inc()
	return true
}

func (s *Service) cacheSet(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, statsCacheTTL).Err(); err != nil {
		s.logger.Debug("stats cache write failed", zap.String("key", key), zap.Error(err))
	}
}
