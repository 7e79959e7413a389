// internal/services/contact_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hadarhome/storefront/internal/models"
	"github.com/hadarhome/storefront/internal/utils"
)

func sampleContactRequest() ContactRequest {
	return ContactRequest{
		Name:    "Dana Levi",
		Email:   "dana@example.com",
		Phone:   "0521234567",
		Subject: "Question about delivery",
		Message: "When will my order arrive? I placed it last Sunday.",
	}
}

func TestContactCreateDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db)

	message, err := svc.Create(sampleContactRequest())
	require.NoError(t, err)

	assert.Equal(t, models.MessageStatusNew, message.Status)
	assert.Equal(t, models.PriorityMedium, message.Priority)
	assert.Equal(t, models.MessageCategoryGeneral, message.Category)
	assert.True(t, message.NeedsReply())
}

func TestContactComplaintsGetHighPriority(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db)

	req := sampleContactRequest()
	req.Category = "complaint"
	req.Subject = "Broken vase in my delivery"

	message, err := svc.Create(req)
	require.NoError(t, err)
	assert.Equal(t, models.PriorityHigh, message.Priority)
}

func TestContactViewingNewMessageMarksItRead(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db)

	created, err := svc.Create(sampleContactRequest())
	require.NoError(t, err)

	viewed, err := svc.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusRead, viewed.Status)

	// Idempotent on a second view.
	viewed, err = svc.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusRead, viewed.Status)
}

func TestContactReplyStampsResponder(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db)
	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin)

	created, err := svc.Create(sampleContactRequest())
	require.NoError(t, err)

	replied := "replied"
	updated, err := svc.Update(created.ID, admin.ID, UpdateMessageRequest{Status: &replied})
	require.NoError(t, err)

	assert.Equal(t, models.MessageStatusReplied, updated.Status)
	require.NotNil(t, updated.RepliedAt)
	require.NotNil(t, updated.RepliedBy)
	assert.Equal(t, admin.ID, *updated.RepliedBy)
	assert.False(t, updated.NeedsReply())
}

func TestContactUpdateRejectsUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db)
	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin)

	created, err := svc.Create(sampleContactRequest())
	require.NoError(t, err)

	bogus := "archived"
	_, err = svc.Update(created.ID, admin.ID, UpdateMessageRequest{Status: &bogus})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestContactListFiltersByStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db)

	first, err := svc.Create(sampleContactRequest())
	require.NoError(t, err)
	_, err = svc.Create(sampleContactRequest())
	require.NoError(t, err)

	// Viewing moves the first one to read.
	_, err = svc.GetByID(first.ID)
	require.NoError(t, err)

	params := utils.PaginationParams{Page: 1, PageSize: 10, SortBy: "created_at", SortDir: "desc"}

	messages, total, err := svc.List(MessageFilters{Status: "new"}, params)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, messages, 1)
}

func TestContactDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db)

	created, err := svc.Create(sampleContactRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(created.ID))
	assert.ErrorIs(t, svc.Delete(created.ID), ErrMessageNotFound)

	_, err = svc.GetByID(created.ID)
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestContactStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db)
	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin)

	first, err := svc.Create(sampleContactRequest())
	require.NoError(t, err)
	_, err = svc.Create(sampleContactRequest())
	require.NoError(t, err)

	replied := "replied"
	_, err = svc.Update(first.ID, admin.ID, UpdateMessageRequest{Status: &replied})
	require.NoError(t, err)

	stats, err := svc.Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalMessages)
	assert.EqualValues(t, 1, stats.ByStatus["new"])
	assert.EqualValues(t, 1, stats.ByStatus["replied"])
	assert.EqualValues(t, 1, stats.Unhandled)
}

func TestContactGetUnknownID(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db)

	_, err := svc.GetByID(uuid.New())
	assert.ErrorIs(t, err, ErrMessageNotFound)
}
