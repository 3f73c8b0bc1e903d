package repositories

import (
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/code-wave07/ChatMeAPI/domain"
)

type MembershipRepository struct {
	txn *badger.Txn
}

// Membership rows live under two keys kept in sync inside the same
// transaction: one per conversation for permission checks, one per user
// for the inbox. History is preserved, a rejoin adds a new row.
func memberKey(conversationID uuid.UUID, userID string, id uuid.UUID) string {
	return fmt.Sprintf("member:%s:%s:%s", conversationID, userID, id)
}

func userMemberKey(userID string, conversationID, id uuid.UUID) string {
	return fmt.Sprintf("usermember:%s:%s:%s", userID, conversationID, id)
}

// pairKey indexes the unordered user pair of a private conversation; the
// pair is fixed at creation, so the index never needs an "active" filter.
func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("pair:%s:%s", a, b)
}

func (r MembershipRepository) Add(m domain.Membership) error {
	if err := save(r.txn, memberKey(m.ConversationID, m.UserID, m.ID), m); err != nil {
		return err
	}
	return save(r.txn, userMemberKey(m.UserID, m.ConversationID, m.ID), m)
}

// Update rewrites both keys of an existing row (role change, soft leave).
func (r MembershipRepository) Update(m domain.Membership) error {
	return r.Add(m)
}

// History returns every membership row a user ever held in a conversation.
func (r MembershipRepository) History(conversationID uuid.UUID, userID string) ([]domain.Membership, error) {
	return r.collect(fmt.Sprintf("member:%s:%s:", conversationID, userID))
}

// Active returns the user's current membership in the conversation, if any.
func (r MembershipRepository) Active(conversationID uuid.UUID, userID string) (domain.Membership, bool, error) {
	rows, err := r.History(conversationID, userID)
	if err != nil {
		return domain.Membership{}, false, err
	}
	for _, m := range rows {
		if m.Active() {
			return m, true, nil
		}
	}
	return domain.Membership{}, false, nil
}

// Current returns the row whose visibility floor applies to the user: the
// active row when one exists, otherwise the most recent historical one.
func (r MembershipRepository) Current(conversationID uuid.UUID, userID string) (domain.Membership, bool, error) {
	rows, err := r.History(conversationID, userID)
	if err != nil || len(rows) == 0 {
		return domain.Membership{}, false, err
	}
	latest := rows[0]
	for _, m := range rows {
		if m.Active() {
			return m, true, nil
		}
		if m.JoinedAt.After(latest.JoinedAt) {
			latest = m
		}
	}
	return latest, true, nil
}

// ActiveByConversation lists who is currently in the conversation.
func (r MembershipRepository) ActiveByConversation(conversationID uuid.UUID) ([]domain.Membership, error) {
	rows, err := r.collect(fmt.Sprintf("member:%s:", conversationID))
	if err != nil {
		return nil, err
	}
	active := rows[:0]
	for _, m := range rows {
		if m.Active() {
			active = append(active, m)
		}
	}
	return active, nil
}

// ByUser returns all membership rows of a user across conversations,
// historical ones included; callers filter on Active as needed.
func (r MembershipRepository) ByUser(userID string) ([]domain.Membership, error) {
	return r.collect(fmt.Sprintf("usermember:%s:", userID))
}

// PrivatePair resolves the private conversation already holding the
// unordered user pair, when one exists.
func (r MembershipRepository) PrivatePair(a, b string) (uuid.UUID, bool, error) {
	var id uuid.UUID
	err := load(r.txn, pairKey(a, b), &id)
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}
	return id, true, nil
}

func (r MembershipRepository) SavePrivatePair(a, b string, conversationID uuid.UUID) error {
	return save(r.txn, pairKey(a, b), conversationID)
}

func (r MembershipRepository) collect(prefix string) ([]domain.Membership, error) {
	var rows []domain.Membership
	err := scan(r.txn, prefix, func(val []byte) error {
		var m domain.Membership
		if err := json.Unmarshal(val, &m); err != nil {
			return err
		}
		rows = append(rows, m)
		return nil
	})
	return rows, err
}
