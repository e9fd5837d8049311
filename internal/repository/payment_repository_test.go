package repository

import (
	"testing"

	"github.com/jobconnect-ng/jobconnect/internal/model"
	"github.com/stretchr/testify/require"
)

func TestPaymentUpsertOverwritesReference(t *testing.T) {
	db := newTestDB(t)
	repo := NewPaymentRepository(db)

	require.NoError(t, repo.Upsert(&model.Payment{
		Identifier: "+23415500001",
		Status:     model.PaymentStatusPending,
		Reference:  "ref-one_+23415500001",
		Email:      "a@example.test",
	}))
	require.NoError(t, repo.Upsert(&model.Payment{
		Identifier: "+23415500001",
		Status:     model.PaymentStatusPending,
		Reference:  "ref-two_+23415500001",
		Email:      "a@example.test",
	}))

	p, err := repo.FindByIdentifier("+23415500001")
	require.NoError(t, err)
	require.Equal(t, "ref-two_+23415500001", p.Reference)

	var count int64
	require.NoError(t, db.Model(&model.Payment{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestMarkCompletedIsPerIdentifier(t *testing.T) {
	db := newTestDB(t)
	repo := NewPaymentRepository(db)

	require.NoError(t, repo.Upsert(&model.Payment{Identifier: "+23415500001", Status: model.PaymentStatusPending, Reference: "r1_+23415500001"}))
	require.NoError(t, repo.Upsert(&model.Payment{Identifier: "99887766", Status: model.PaymentStatusPending, Reference: "r2_99887766"}))

	require.NoError(t, repo.MarkCompleted("+23415500001"))

	paid, err := repo.FindByIdentifier("+23415500001")
	require.NoError(t, err)
	require.Equal(t, model.PaymentStatusCompleted, paid.Status)

	other, err := repo.FindByIdentifier("99887766")
	require.NoError(t, err)
	require.Equal(t, model.PaymentStatusPending, other.Status)
}
