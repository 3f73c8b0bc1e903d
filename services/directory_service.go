//go:generate go run go.uber.org/mock/mockgen -source=directory_service.go -destination=../mocks/mock_directory_service.go -package=mocks
package services

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/code-wave07/ChatMeAPI/domain"
	"github.com/code-wave07/ChatMeAPI/projection"
	"github.com/code-wave07/ChatMeAPI/repositories"
)

// cursorSeparator joins the fields of the pagination cursor; it is a
// control character so it cannot collide with name or id content.
const cursorSeparator = "\x1f"

type SearchPage struct {
	Users      []projection.UserSearch
	NextCursor string
}

// IDirectoryService answers "who can I talk to" and "what am I part of".
type IDirectoryService interface {
	SearchUsers(ctx context.Context, requesterID, query, cursor string, limit int) (SearchPage, error)
	ListInbox(ctx context.Context, userID string) ([]projection.InboxEntry, error)
}

type DirectoryService struct {
	store     *repositories.Store
	users     repositories.IUserRepository
	pageLimit int
	log       *slog.Logger
}

// pageLimit caps one search page; requests asking for more are clamped.
func NewDirectoryService(store *repositories.Store, users repositories.IUserRepository,
	pageLimit int, log *slog.Logger) *DirectoryService {
	if pageLimit <= 0 {
		pageLimit = 20
	}
	return &DirectoryService{store: store, users: users, pageLimit: pageLimit, log: log}
}

// sortKey is the full ordering key of a user in search results. The
// cursor encodes all three fields, so pagination stays stable between
// users sharing a first or even a full name.
func sortKey(u domain.User) string {
	return strings.Join([]string{u.FirstName, u.LastName, u.ID}, cursorSeparator)
}

// SearchUsers returns users whose phone number, first or last name
// contains the query, ordered by (first name, last name, id). The
// requester is never part of their own results. An empty NextCursor means
// the last page was reached.
func (s *DirectoryService) SearchUsers(_ context.Context, requesterID, query, cursor string, limit int) (SearchPage, error) {
	if limit <= 0 || limit > s.pageLimit {
		limit = s.pageLimit
	}

	all, err := s.users.All()
	if err != nil {
		return SearchPage{}, err
	}

	matches := lo.Filter(all, func(u domain.User, _ int) bool {
		if u.ID == requesterID {
			return false
		}
		return strings.Contains(u.PhoneNumber, query) ||
			strings.Contains(u.FirstName, query) ||
			strings.Contains(u.LastName, query)
	})
	sort.Slice(matches, func(i, j int) bool {
		return sortKey(matches[i]) < sortKey(matches[j])
	})
	if cursor != "" {
		matches = lo.Filter(matches, func(u domain.User, _ int) bool {
			return sortKey(u) > cursor
		})
	}

	page := matches
	if len(page) > limit {
		page = page[:limit]
	}

	result := SearchPage{
		Users: lo.Map(page, func(u domain.User, _ int) projection.UserSearch {
			return projection.UserSearch{
				UserID:          u.ID,
				FirstName:       u.FirstName,
				LastName:        u.LastName,
				PhoneNumber:     u.PhoneNumber,
				ProfilePhotoURL: u.ProfilePhotoURL,
			}
		}),
	}
	if len(matches) > limit {
		result.NextCursor = sortKey(page[len(page)-1])
	}
	return result, nil
}

// ListInbox returns the user's active conversations, newest activity
// first. Group entries show the group name; private entries synthesize
// the other participant's name, or a placeholder when that account no
// longer resolves or the other side already left.
func (s *DirectoryService) ListInbox(_ context.Context, userID string) ([]projection.InboxEntry, error) {
	var entries []projection.InboxEntry
	err := s.store.View(func(uow *repositories.UnitOfWork) error {
		entries = nil
		rows, err := uow.Memberships.ByUser(userID)
		if err != nil {
			return err
		}
		for _, membership := range rows {
			if !membership.Active() {
				continue
			}
			conversation, err := uow.Conversations.Get(membership.ConversationID)
			if err != nil {
				return err
			}

			entry := projection.InboxEntry{
				ConversationID:  conversation.ID,
				IsGroup:         conversation.Type == domain.Group,
				LastMessageTime: conversation.LastActivity(),
			}
			if conversation.Type == domain.Group {
				if conversation.Name != nil {
					entry.Name = *conversation.Name
				}
			} else {
				entry.Name = projection.UnknownUser
				others, err := uow.Memberships.ActiveByConversation(conversation.ID)
				if err != nil {
					return err
				}
				for _, other := range others {
					if other.UserID == userID {
						continue
					}
					entry.OtherUserID = lo.ToPtr(other.UserID)
					if user, err := s.users.Get(other.UserID); err == nil {
						entry.Name = user.FullName()
					}
					break
				}
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LastMessageTime.After(entries[j].LastMessageTime)
	})
	return entries, nil
}
