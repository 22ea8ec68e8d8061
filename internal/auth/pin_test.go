package auth

import (
	"context"
	"testing"

	pkgerrors "github.com/angelmondragon/juniorgolf-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPinLifecycle(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{Email: "pin@example.com", Password: strongPassword})
	require.NoError(t, err)
	userID := resp.User.ID

	status, err := svc.PinStatus(ctx, userID)
	require.NoError(t, err)
	assert.False(t, status.HasPin)

	requireCode(t, svc.VerifyPin(ctx, userID, "1234"), pkgerrors.CodeValidation)
	requireCode(t, svc.ChangePin(ctx, userID, ChangePinRequest{CurrentPin: "1234", NewPin: "5678"}), pkgerrors.CodeValidation)
	requireCode(t, svc.SetPin(ctx, userID, "12a4"), pkgerrors.CodeValidation)

	require.NoError(t, svc.SetPin(ctx, userID, "1234"))
	requireCode(t, svc.SetPin(ctx, userID, "9999"), pkgerrors.CodePinAlreadySet)

	status, err = svc.PinStatus(ctx, userID)
	require.NoError(t, err)
	assert.True(t, status.HasPin)

	require.NoError(t, svc.VerifyPin(ctx, userID, "1234"))
	requireCode(t, svc.VerifyPin(ctx, userID, "4321"), pkgerrors.CodeInvalidPin)

	requireCode(t, svc.ChangePin(ctx, userID, ChangePinRequest{CurrentPin: "0000", NewPin: "5678"}), pkgerrors.CodeInvalidPin)
	require.NoError(t, svc.ChangePin(ctx, userID, ChangePinRequest{CurrentPin: "1234", NewPin: "5678"}))

	require.NoError(t, svc.VerifyPin(ctx, userID, "5678"))
	requireCode(t, svc.VerifyPin(ctx, userID, "1234"), pkgerrors.CodeInvalidPin)

	me, err := svc.Me(ctx, userID)
	require.NoError(t, err)
	assert.True(t, me.Parent.HasPin)
}
