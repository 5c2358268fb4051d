package context

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ubora-rdc/ubora-auth/internal/model"
)

func TestManager_Principal(t *testing.T) {
	m := NewManager()

	_, ok := m.GetPrincipalFromContext(context.Background())
	assert.False(t, ok)

	p := model.Principal{UserID: uuid.New(), Cuid: "cuid1", JTI: "jti", Token: "token"}
	ctx := m.SetPrincipalToContext(context.Background(), p)

	got, ok := m.GetPrincipalFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, p, got)
}
