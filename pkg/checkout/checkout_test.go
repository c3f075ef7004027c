package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/tweenshop/pkg/cart"
	"github.com/example/tweenshop/pkg/models"
	"github.com/example/tweenshop/pkg/session"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	orders []models.Order
	err    error
}

func (f *fakeSink) AppendOrder(_ context.Context, o models.Order) error {
	if f.err != nil {
		return f.err
	}
	f.orders = append(f.orders, o)
	return nil
}

var fixedNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func newFlow(t *testing.T) (*Flow, *cart.Store, *session.Session, *fakeSink) {
	t.Helper()
	sess := session.New("s1", fixedNow)
	c := cart.New()
	sink := &fakeSink{}
	f := NewFlow(sess, c, sink, WithClock(func() time.Time { return fixedNow }))
	return f, c, sess, sink
}

func toConfirm(t *testing.T, f *Flow) {
	t.Helper()
	require.True(t, f.Validate())
	require.True(t, f.SelectMethod(MethodWave))
	require.True(t, f.SubmitDetails(Details{PhoneNumber: "771234567", PIN: "1234"}))
	require.Equal(t, StepConfirm, f.Step())
}

func TestConfirmOrder_BuildsOrderAndClearsCart(t *testing.T) {
	f, c, _, sink := newFlow(t)
	c.Add(models.CartItem{ProductID: "p1", Title: "Robe", Price: decimal.NewFromInt(10), Quantity: 2})
	c.Add(models.CartItem{ProductID: "p2", Title: "Bonnet", Price: decimal.NewFromInt(5), Quantity: 1})
	toConfirm(t, f)

	order, err := f.ConfirmOrder(context.Background())
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, "25.00", order.Total.StringFixed(2))
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Len(t, order.Items, 2)
	assert.True(t, c.Empty())
	assert.Equal(t, StepClosed, f.Step())
	require.Len(t, sink.orders, 1)
	assert.Equal(t, order.ID, sink.orders[0].ID)
}

func TestConfirmOrder_EmptyCartIsNoop(t *testing.T) {
	f, c, _, sink := newFlow(t)
	toConfirm(t, f)

	order, err := f.ConfirmOrder(context.Background())
	require.NoError(t, err)
	assert.Nil(t, order)
	assert.Empty(t, sink.orders)
	assert.True(t, c.Empty())
	assert.Equal(t, StepConfirm, f.Step())
}

func TestConfirmOrder_SinkFailureKeepsCart(t *testing.T) {
	f, c, _, sink := newFlow(t)
	sink.err = errors.New("disk full")
	c.Add(models.CartItem{ProductID: "p1", Price: decimal.NewFromInt(3), Quantity: 1})
	toConfirm(t, f)

	order, err := f.ConfirmOrder(context.Background())
	require.Error(t, err)
	assert.Nil(t, order)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, StepConfirm, f.Step())
}

func TestValidate_OnlyFromClosed(t *testing.T) {
	f, c, _, _ := newFlow(t)
	c.Add(models.CartItem{ProductID: "p1", Price: decimal.NewFromInt(3), Quantity: 1})
	toConfirm(t, f)

	assert.False(t, f.Validate())
	assert.Equal(t, StepConfirm, f.Step())
	assert.Equal(t, MethodWave, f.Method())
	assert.Equal(t, "771234567", f.Details().PhoneNumber)

	f.Cancel()
	require.True(t, f.Validate())
	assert.Equal(t, StepPaymentMethod, f.Step())
	assert.Empty(t, f.Method())
	assert.Equal(t, Details{}, f.Details())
}

func TestConfirmOrder_WrongStep(t *testing.T) {
	f, c, _, sink := newFlow(t)
	c.Add(models.CartItem{ProductID: "p1", Price: decimal.NewFromInt(3), Quantity: 1})
	f.Validate()

	order, err := f.ConfirmOrder(context.Background())
	require.NoError(t, err)
	assert.Nil(t, order)
	assert.Empty(t, sink.orders)
}

func TestSelectMethod_CardRequiresLogin(t *testing.T) {
	f, _, sess, _ := newFlow(t)
	f.Validate()

	assert.False(t, f.SelectMethod(MethodCard))
	assert.Equal(t, StepLogin, f.Step())

	require.True(t, f.Login("awa@example.com", "secret"))
	assert.True(t, sess.LoggedIn)
	assert.Equal(t, StepPaymentMethod, f.Step())

	assert.True(t, f.SelectMethod(MethodCard))
	assert.Equal(t, StepPaymentDetails, f.Step())
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		ok       bool
	}{
		{"both set", "a@b.c", "pw", true},
		{"empty email", "", "pw", false},
		{"blank email", "   ", "pw", false},
		{"empty password", "a@b.c", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _, sess, _ := newFlow(t)
			f.Validate()
			f.Back()
			require.Equal(t, StepLogin, f.Step())

			assert.Equal(t, tt.ok, f.Login(tt.email, tt.password))
			assert.Equal(t, tt.ok, sess.LoggedIn)
		})
	}
}

func TestLogin_OnlyOnLoginStep(t *testing.T) {
	f, _, sess, _ := newFlow(t)
	assert.False(t, f.Login("a@b.c", "pw"))
	assert.False(t, f.LoginWithGoogle())
	assert.False(t, sess.LoggedIn)
}

func TestLoginWithGoogle(t *testing.T) {
	f, _, sess, _ := newFlow(t)
	f.Validate()
	f.SelectMethod(MethodCard)

	assert.True(t, f.LoginWithGoogle())
	assert.True(t, sess.LoggedIn)
	assert.Equal(t, session.RoleUser, sess.Role)
}

func TestSubmitDetails(t *testing.T) {
	tests := []struct {
		name    string
		method  Method
		details Details
		ok      bool
	}{
		{"wave complete", MethodWave, Details{PhoneNumber: "77", PIN: "1"}, true},
		{"orange missing pin", MethodOrange, Details{PhoneNumber: "77"}, false},
		{"card complete", MethodCard, Details{CardNumber: "4242", ExpiryDate: "12/30", CVV: "123"}, true},
		{"card missing cvv", MethodCard, Details{CardNumber: "4242", ExpiryDate: "12/30"}, false},
		{"other free text", Method("paypal"), Details{Other: "me@pp"}, true},
		{"other empty", Method("paypal"), Details{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _, sess, _ := newFlow(t)
			sess.MarkLoggedIn("a@b.c", fixedNow)
			f.Validate()
			require.True(t, f.SelectMethod(tt.method))

			assert.Equal(t, tt.ok, f.SubmitDetails(tt.details))
			if tt.ok {
				assert.Equal(t, StepConfirm, f.Step())
			} else {
				assert.Equal(t, StepPaymentDetails, f.Step())
			}
		})
	}
}

func TestBack(t *testing.T) {
	f, _, _, _ := newFlow(t)
	assert.False(t, f.Back())

	toConfirm(t, f)
	assert.True(t, f.Back())
	assert.Equal(t, StepPaymentDetails, f.Step())
	assert.True(t, f.Back())
	assert.Equal(t, StepPaymentMethod, f.Step())
	assert.True(t, f.Back())
	assert.Equal(t, StepLogin, f.Step())
	assert.False(t, f.Back())
}

func TestCancel_ResetsFromAnyStep(t *testing.T) {
	f, _, _, _ := newFlow(t)
	toConfirm(t, f)

	f.Cancel()
	assert.Equal(t, StepClosed, f.Step())
	assert.Equal(t, Method(""), f.Method())
	assert.Equal(t, Details{}, f.Details())
	assert.False(t, f.Open())
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "closed", StepClosed.String())
	assert.Equal(t, "confirm", StepConfirm.String())
	assert.Equal(t, "Orange Money", MethodOrange.Label())
}
