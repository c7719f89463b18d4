package manufacturer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededService() *Service {
	return NewService(NewInMemoryRepository([]Manufacturer{
		{ID: 1, Name: "Acme Pharma", Email: "info@acme.com", Mobile: "0123456789", Address: "1 Main Street"},
		{ID: 2, Name: "Bayer Labs", Email: "hello@bayer.com", Mobile: "0987654321", Address: "2 Side Street"},
	}))
}

func TestCreate_RejectsDuplicates(t *testing.T) {
	s := seededService()
	ctx := context.Background()

	_, err := s.Create(ctx, Manufacturer{Name: "New Pharma", Email: "INFO@acme.com", Mobile: "1111111111", Address: "3 New Street"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = s.Create(ctx, Manufacturer{Name: "New Pharma", Email: "new@pharma.com", Mobile: "0987654321", Address: "3 New Street"})
	assert.ErrorIs(t, err, ErrMobileTaken)

	_, err = s.Create(ctx, Manufacturer{Name: "New Pharma", Email: "new@pharma.com", Mobile: "1111111111", Address: "2 Side Street"})
	assert.ErrorIs(t, err, ErrAddressTaken)

	created, err := s.Create(ctx, Manufacturer{Name: "New Pharma", Email: "new@pharma.com", Mobile: "1111111111", Address: "3 New Street"})
	require.NoError(t, err)
	assert.Equal(t, 3, created.ID)
}

func TestUpdate_AllowsOwnValues(t *testing.T) {
	s := seededService()
	ctx := context.Background()

	updated, err := s.Update(ctx, 1, Manufacturer{Name: "Acme Pharma Ltd", Email: "info@acme.com", Mobile: "0123456789", Address: "1 Main Street"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Pharma Ltd", updated.Name)

	_, err = s.Update(ctx, 1, Manufacturer{Name: "Acme Pharma Ltd", Email: "hello@bayer.com", Mobile: "0123456789", Address: "1 Main Street"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = s.Update(ctx, 42, Manufacturer{Name: "Ghost", Email: "g@g.com", Mobile: "5555555555", Address: "Nowhere"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	s := seededService()
	ctx := context.Background()

	removed, err := s.Delete(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Bayer Labs", removed.Name)

	_, err = s.GetByID(ctx, 2)
	assert.ErrorIs(t, err, ErrNotFound)
}
