package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/escrowkeeper/escrowkeeper/internal/gateway"
	"github.com/escrowkeeper/escrowkeeper/internal/gateway/mocks"
)

func TestDispatchDeliversEachNotice(t *testing.T) {
	ctrl := gomock.NewController(t)
	messenger := mocks.NewMockMessenger(ctrl)
	d := NewDispatcher(messenger, zerolog.Nop())
	ctx := context.Background()

	buttons := [][]gateway.Button{{{Label: "OK", Token: "buyer_ok:1"}}}
	messenger.EXPECT().Send(ctx, int64(100), "paid", gomock.Nil()).
		Return(gateway.MessageRef{ChatID: 100, MessageID: 1}, nil)
	messenger.EXPECT().Send(ctx, int64(200), "confirm please", buttons).
		Return(gateway.MessageRef{ChatID: 200, MessageID: 2}, nil)

	deliveries := d.Dispatch(ctx, []Notice{
		{RecipientID: 100, Text: "paid"},
		{RecipientID: 200, Text: "confirm please", Buttons: buttons},
	})
	require.Len(t, deliveries, 2)
	for _, dv := range deliveries {
		assert.NoError(t, dv.Err)
		assert.NotEqual(t, dv.NoticeID.String(), "00000000-0000-0000-0000-000000000000")
	}
	assert.Equal(t, 1, deliveries[0].Ref.MessageID)
	assert.Equal(t, 2, deliveries[1].Ref.MessageID)
}

func TestDispatchFailureDoesNotBlockRemaining(t *testing.T) {
	ctrl := gomock.NewController(t)
	messenger := mocks.NewMockMessenger(ctrl)
	d := NewDispatcher(messenger, zerolog.Nop())
	ctx := context.Background()

	sendErr := &gateway.DeliveryError{RecipientID: 100, Err: errors.New("blocked by recipient")}
	messenger.EXPECT().Send(ctx, int64(100), gomock.Any(), gomock.Any()).
		Return(gateway.MessageRef{}, sendErr)
	messenger.EXPECT().Send(ctx, int64(200), gomock.Any(), gomock.Any()).
		Return(gateway.MessageRef{ChatID: 200, MessageID: 9}, nil)

	deliveries := d.Dispatch(ctx, []Notice{
		{RecipientID: 100, Text: "first"},
		{RecipientID: 200, Text: "second"},
	})
	require.Len(t, deliveries, 2)
	assert.Error(t, deliveries[0].Err)
	assert.NoError(t, deliveries[1].Err, "later recipients still get their notice")
}

func TestDispatchEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	messenger := mocks.NewMockMessenger(ctrl)
	d := NewDispatcher(messenger, zerolog.Nop())

	assert.Empty(t, d.Dispatch(context.Background(), nil))
}
