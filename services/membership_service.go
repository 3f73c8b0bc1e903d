//go:generate go run go.uber.org/mock/mockgen -source=membership_service.go -destination=../mocks/mock_membership_service.go -package=mocks
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/code-wave07/ChatMeAPI/contract"
	"github.com/code-wave07/ChatMeAPI/domain"
	"github.com/code-wave07/ChatMeAPI/domain/event"
	"github.com/code-wave07/ChatMeAPI/errors"
	"github.com/code-wave07/ChatMeAPI/repositories"
)

// IMembershipService is the membership and permission engine. Every
// mutation runs as one atomic read-modify-write unit; events go out only
// after the commit and never roll it back.
type IMembershipService interface {
	CreatePrivate(ctx context.Context, requesterID, targetID string) (uuid.UUID, error)
	CreateGroup(ctx context.Context, requesterID, name string, memberIDs []string) (uuid.UUID, error)
	AddMember(ctx context.Context, requesterID string, conversationID uuid.UUID, targetID string) error
	RemoveMember(ctx context.Context, requesterID string, conversationID uuid.UUID, targetID string) error
	PromoteToAdmin(ctx context.Context, requesterID string, conversationID uuid.UUID, targetID string) error
	DemoteToMember(ctx context.Context, requesterID string, conversationID uuid.UUID, targetID string) error
	Leave(ctx context.Context, userID string, conversationID uuid.UUID) error
	Rename(ctx context.Context, requesterID string, conversationID uuid.UUID, newName string) error
}

type MembershipService struct {
	store   *repositories.Store
	users   repositories.IUserRepository
	gateway contract.IGateway
	log     *slog.Logger
}

func NewMembershipService(store *repositories.Store, users repositories.IUserRepository,
	gateway contract.IGateway, log *slog.Logger) *MembershipService {
	return &MembershipService{store: store, users: users, gateway: gateway, log: log}
}

// CreatePrivate starts (or finds) the one private conversation holding the
// unordered {requester, target} pair. Calling it twice returns the same id:
// the pair index is read and written in the same transaction, so a racing
// duplicate attempt hits a conflict instead of creating a second thread.
func (s *MembershipService) CreatePrivate(_ context.Context, requesterID, targetID string) (uuid.UUID, error) {
	if requesterID == targetID {
		return uuid.Nil, errors.Invariantf("you cannot chat with yourself")
	}
	if _, err := s.users.Get(targetID); err != nil {
		return uuid.Nil, err
	}

	var conversationID uuid.UUID
	err := s.store.Update(func(uow *repositories.UnitOfWork) error {
		existing, ok, err := uow.Memberships.PrivatePair(requesterID, targetID)
		if err != nil {
			return err
		}
		if ok {
			conversationID = existing
			return nil
		}

		now := time.Now().UTC()
		conversation := domain.Conversation{
			ID:        uuid.New(),
			Type:      domain.Private,
			CreatedAt: now,
		}
		if err = conversation.Validate(); err != nil {
			return err
		}
		if err = uow.Conversations.Create(conversation); err != nil {
			return err
		}

		pair := []domain.Membership{
			{ID: uuid.New(), ConversationID: conversation.ID, UserID: requesterID, Role: domain.RoleOwner, JoinedAt: now},
			{ID: uuid.New(), ConversationID: conversation.ID, UserID: targetID, Role: domain.RoleMember, JoinedAt: now},
		}
		for _, m := range pair {
			if err = uow.Memberships.Add(m); err != nil {
				return err
			}
		}
		if err = uow.Memberships.SavePrivatePair(requesterID, targetID, conversation.ID); err != nil {
			return err
		}
		conversationID = conversation.ID
		return nil
	})
	return conversationID, err
}

// CreateGroup creates the conversation and all initial memberships in one
// transaction, so a failure partway never leaves a group without members.
// The creator is stored with the Admin role.
func (s *MembershipService) CreateGroup(_ context.Context, requesterID, name string, memberIDs []string) (uuid.UUID, error) {
	if name == "" {
		return uuid.Nil, errors.Invariantf("a group requires a name")
	}

	members := lo.Uniq(memberIDs)
	members = lo.Filter(members, func(id string, _ int) bool { return id != requesterID })
	for _, id := range members {
		if _, err := s.users.Get(id); err != nil {
			return uuid.Nil, err
		}
	}

	var conversationID uuid.UUID
	err := s.store.Update(func(uow *repositories.UnitOfWork) error {
		now := time.Now().UTC()
		conversation := domain.Conversation{
			ID:        uuid.New(),
			Type:      domain.Group,
			Name:      &name,
			CreatedAt: now,
		}
		if err := conversation.Validate(); err != nil {
			return err
		}
		if err := uow.Conversations.Create(conversation); err != nil {
			return err
		}

		creator := domain.Membership{
			ID: uuid.New(), ConversationID: conversation.ID,
			UserID: requesterID, Role: domain.RoleAdmin, JoinedAt: now,
		}
		if err := uow.Memberships.Add(creator); err != nil {
			return err
		}
		for _, id := range members {
			m := domain.Membership{
				ID: uuid.New(), ConversationID: conversation.ID,
				UserID: id, Role: domain.RoleMember, JoinedAt: now,
			}
			if err := uow.Memberships.Add(m); err != nil {
				return err
			}
		}
		conversationID = conversation.ID
		return nil
	})
	return conversationID, err
}

// AddMember admits a user into a group. The new row's JoinedAt becomes the
// member's visibility floor: nothing sent before it will ever be readable
// through this membership.
func (s *MembershipService) AddMember(_ context.Context, requesterID string, conversationID uuid.UUID, targetID string) error {
	if _, err := s.users.Get(targetID); err != nil {
		return err
	}

	err := s.store.Update(func(uow *repositories.UnitOfWork) error {
		if _, err := s.requireGroupRole(uow, conversationID, requesterID, domain.RoleAdmin); err != nil {
			return err
		}
		if _, ok, err := uow.Memberships.Active(conversationID, targetID); err != nil {
			return err
		} else if ok {
			return errors.Invariantf("user is already in the group")
		}

		m := domain.Membership{
			ID: uuid.New(), ConversationID: conversationID,
			UserID: targetID, Role: domain.RoleMember, JoinedAt: time.Now().UTC(),
		}
		return uow.Memberships.Add(m)
	})
	if err != nil {
		return err
	}

	s.gateway.Broadcast(event.UserJoined{Conversation: conversationID, UserID: targetID})
	return nil
}

// RemoveMember soft-leaves the target. The role matrix: an Admin may
// remove Members only; the Owner may remove anyone but themselves.
func (s *MembershipService) RemoveMember(_ context.Context, requesterID string, conversationID uuid.UUID, targetID string) error {
	err := s.store.Update(func(uow *repositories.UnitOfWork) error {
		requester, err := s.requireGroupRole(uow, conversationID, requesterID, domain.RoleAdmin)
		if err != nil {
			return err
		}
		target, ok, err := uow.Memberships.Active(conversationID, targetID)
		if err != nil {
			return err
		}
		if !ok {
			return errors.NotFoundf("member not found or already left the group")
		}

		if targetID == requesterID {
			return errors.Invariantf("use leave to exit the group")
		}
		if target.Role == domain.RoleOwner {
			return errors.Deniedf("the group owner cannot be removed")
		}
		if requester.Role == domain.RoleAdmin && target.Role == domain.RoleAdmin {
			return errors.Deniedf("only the owner can remove an admin")
		}

		now := time.Now().UTC()
		target.LeftAt = &now
		return uow.Memberships.Update(target)
	})
	if err != nil {
		return err
	}

	s.gateway.Broadcast(event.UserLeft{Conversation: conversationID, UserID: targetID})
	return nil
}

func (s *MembershipService) PromoteToAdmin(_ context.Context, requesterID string, conversationID uuid.UUID, targetID string) error {
	return s.changeRole(conversationID, requesterID, targetID, domain.RoleMember, domain.RoleAdmin,
		"member is already an admin")
}

func (s *MembershipService) DemoteToMember(_ context.Context, requesterID string, conversationID uuid.UUID, targetID string) error {
	return s.changeRole(conversationID, requesterID, targetID, domain.RoleAdmin, domain.RoleMember,
		"member is not an admin")
}

// changeRole is the owner-only promote/demote path: the target must hold
// exactly the expected current role when the transaction commits, so two
// racing promotions cannot both report success.
func (s *MembershipService) changeRole(conversationID uuid.UUID, requesterID, targetID string,
	from, to domain.Role, mismatchReason string) error {
	return s.store.Update(func(uow *repositories.UnitOfWork) error {
		if _, err := s.requireGroupRole(uow, conversationID, requesterID, domain.RoleOwner); err != nil {
			return err
		}

		target, ok, err := uow.Memberships.Active(conversationID, targetID)
		if err != nil {
			return err
		}
		if !ok {
			return errors.NotFoundf("member not found or already left the group")
		}
		if target.Role != from {
			return errors.Invariantf("%s", mismatchReason)
		}

		target.Role = to
		return uow.Memberships.Update(target)
	})
}

// Leave soft-leaves the requester's own membership. A group Owner cannot
// leave: ownership transfer is not supported, so the group would be left
// without an owner. Private members may always leave.
func (s *MembershipService) Leave(_ context.Context, userID string, conversationID uuid.UUID) error {
	err := s.store.Update(func(uow *repositories.UnitOfWork) error {
		conversation, err := uow.Conversations.Get(conversationID)
		if err != nil {
			return err
		}
		membership, ok, err := uow.Memberships.Active(conversationID, userID)
		if err != nil {
			return err
		}
		if !ok {
			return errors.Deniedf("you are not a member of this conversation")
		}
		if conversation.Type == domain.Group && membership.Role == domain.RoleOwner {
			return errors.Invariantf("the owner cannot leave the group")
		}

		now := time.Now().UTC()
		membership.LeftAt = &now
		return uow.Memberships.Update(membership)
	})
	if err != nil {
		return err
	}

	s.gateway.Broadcast(event.UserLeft{Conversation: conversationID, UserID: userID})
	return nil
}

// Rename updates the group name and bumps the last-activity timestamp.
func (s *MembershipService) Rename(_ context.Context, requesterID string, conversationID uuid.UUID, newName string) error {
	if newName == "" {
		return errors.Invariantf("a group requires a name")
	}

	err := s.store.Update(func(uow *repositories.UnitOfWork) error {
		if _, err := s.requireGroupRole(uow, conversationID, requesterID, domain.RoleAdmin); err != nil {
			return err
		}
		conversation, err := uow.Conversations.Get(conversationID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		conversation.Name = &newName
		conversation.UpdatedAt = &now
		return uow.Conversations.Update(conversation)
	})
	if err != nil {
		return err
	}

	s.gateway.Broadcast(event.GroupInfoUpdated{Conversation: conversationID, NewName: newName})
	return nil
}

// requireGroupRole loads the conversation, rejects private chats for
// group-only mutations, and checks the requester holds at least the given
// role. Permission failures are detected before any write.
func (s *MembershipService) requireGroupRole(uow *repositories.UnitOfWork,
	conversationID uuid.UUID, requesterID string, minimum domain.Role) (domain.Membership, error) {
	conversation, err := uow.Conversations.Get(conversationID)
	if err != nil {
		return domain.Membership{}, err
	}
	if conversation.Type != domain.Group {
		return domain.Membership{}, errors.Invariantf("this action applies to group conversations only")
	}

	requester, ok, err := uow.Memberships.Active(conversationID, requesterID)
	if err != nil {
		return domain.Membership{}, err
	}
	if !ok {
		return domain.Membership{}, errors.Deniedf("you are not a member of this group")
	}
	if !requester.Role.AtLeast(minimum) {
		return domain.Membership{}, errors.Deniedf("this action requires the %s role", minimum)
	}
	return requester, nil
}
