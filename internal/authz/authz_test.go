package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/train-seat-reservation/internal/model"
)

func TestPolicyDecisions(t *testing.T) {
	ctx := context.Background()
	p, err := NewPolicy(ctx)
	require.NoError(t, err)

	cases := []struct {
		role   model.Role
		action string
		want   bool
	}{
		{model.RoleAdmin, ActionCreateTrain, true},
		{model.RoleUser, ActionCreateTrain, false},
		{model.RoleUser, ActionBookSeat, true},
		{model.RoleAdmin, ActionBookSeat, true},
		{model.RoleUser, ActionViewBookings, true},
		{model.Role(""), ActionBookSeat, false},
		{model.RoleAdmin, "drop_tables", false},
	}
	for _, tc := range cases {
		got, err := p.Allowed(ctx, tc.role, tc.action)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s/%s", tc.role, tc.action)
	}
}

func TestNewPolicyFromSourceRejectsBrokenRego(t *testing.T) {
	_, err := NewPolicyFromSource(context.Background(), "package trainbooking.authz\nallow {")
	assert.Error(t, err)
}
