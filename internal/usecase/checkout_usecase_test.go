package usecase

import (
	"context"
	"errors"
	"testing"

	"gallery/internal/domain/model"
	repo "gallery/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// Mocks（衝突回避の命名）
// =====================

type CoUserRepoMock struct{ mock.Mock }

func (m *CoUserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

type CoGatewayMock struct{ mock.Mock }

func (m *CoGatewayMock) InitiatePush(ctx context.Context, phone string, amount int64, kind model.ItemKind, itemID string, reference string) (repo.PushReceipt, error) {
	args := m.Called(ctx, phone, amount, kind, itemID, reference)
	r, _ := args.Get(0).(repo.PushReceipt)
	return r, args.Error(1)
}

type CoPushRepoMock struct{ mock.Mock }

func (m *CoPushRepoMock) Create(ctx context.Context, p model.PushPayment) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CoPushRepoMock) ResolveByGatewayRequestID(ctx context.Context, gatewayRequestID string, status model.PushPaymentStatus, reason string) error {
	args := m.Called(ctx, gatewayRequestID, status, reason)
	return args.Error(0)
}

func (m *CoPushRepoMock) ListByCheckoutID(ctx context.Context, checkoutID string) ([]model.PushPayment, error) {
	args := m.Called(ctx, checkoutID)
	items, _ := args.Get(0).([]model.PushPayment)
	return items, args.Error(1)
}

type CoInvoiceRepoMock struct{ mock.Mock }

func (m *CoInvoiceRepoMock) Create(ctx context.Context, inv model.InvoiceRequest) (int64, error) {
	args := m.Called(ctx, inv)
	return args.Get(0).(int64), args.Error(1)
}

// =====================
// Fixture
// =====================

type checkoutFixture struct {
	uc      *CheckoutUsecase
	cart    *CartUsecase
	store   *fakeSnapshotStore
	catalog *CatalogRepoMock
	users   *CoUserRepoMock
	gateway *CoGatewayMock
	pushes  *CoPushRepoMock
	inv     *CoInvoiceRepoMock
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		store:   newFakeSnapshotStore(),
		catalog: new(CatalogRepoMock),
		users:   new(CoUserRepoMock),
		gateway: new(CoGatewayMock),
		pushes:  new(CoPushRepoMock),
		inv:     new(CoInvoiceRepoMock),
	}
	f.cart = NewCartUsecase(f.store, f.catalog, testLogger())
	f.uc = NewCheckoutUsecase(f.cart, f.users, f.gateway, f.pushes, f.inv, testLogger())
	return f
}

func validInput(mode model.PaymentMode) CheckoutInput {
	return CheckoutInput{
		Name:            "Wanjiku Kamau",
		Email:           "wanjiku@example.com",
		Phone:           "0712345678",
		DeliveryAddress: "Riverside Drive, Nairobi",
		PaymentMode:     mode,
	}
}

func individual(id int64) *model.User {
	return &model.User{ID: id, Name: "Wanjiku", Role: model.RoleIndividual, IsActive: true}
}

func corporate(id int64) *model.User {
	return &model.User{
		ID: id, Name: "Acme Ltd", Role: model.RoleCorporate,
		IsActive: true, AllowInvoicing: true,
	}
}

func (f *checkoutFixture) seedArtwork(t *testing.T, sessionID string, id string, price int64, qty int64) {
	t.Helper()
	f.catalog.On("FindArtworkByID", mock.Anything, id).Return(availableArtwork(id, price), nil)
	_, err := f.cart.AddItem(context.Background(), sessionID, AddItemInput{Kind: model.ItemKindArtwork, EntityID: id, Quantity: qty})
	require.NoError(t, err)
}

func (f *checkoutFixture) seedTicket(t *testing.T, sessionID string, id string, price int64, qty int64) {
	t.Helper()
	f.catalog.On("FindExhibitionByID", mock.Anything, id).Return(openExhibition(id, price, 100), nil)
	_, err := f.cart.AddItem(context.Background(), sessionID, AddItemInput{Kind: model.ItemKindExhibitionTicket, EntityID: id, Quantity: qty})
	require.NoError(t, err)
}

// =====================
// Validation
// =====================

func TestCheckout_Unauthenticated(t *testing.T) {
	f := newCheckoutFixture()

	_, err := f.uc.Checkout(context.Background(), "s1", 0, validInput(model.PaymentModeMobileMoney))
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, 401, he.Status)
	f.gateway.AssertNotCalled(t, "InitiatePush")
}

func TestCheckout_ArtistCannotPurchase(t *testing.T) {
	f := newCheckoutFixture()
	f.users.On("FindByID", mock.Anything, int64(7)).
		Return(&model.User{ID: 7, Role: model.RoleArtist, IsActive: true}, nil)

	_, err := f.uc.Checkout(context.Background(), "s1", 7, validInput(model.PaymentModeMobileMoney))
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, 403, he.Status)
}

func TestCheckout_MissingContactField(t *testing.T) {
	f := newCheckoutFixture()
	f.users.On("FindByID", mock.Anything, int64(1)).Return(individual(1), nil)

	in := validInput(model.PaymentModeMobileMoney)
	in.Email = ""

	_, err := f.uc.Checkout(context.Background(), "s1", 1, in)
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, 400, he.Status)
	f.gateway.AssertNotCalled(t, "InitiatePush")
}

func TestCheckout_EmptyCartRejectedBeforeSubmission(t *testing.T) {
	f := newCheckoutFixture()
	f.users.On("FindByID", mock.Anything, int64(1)).Return(individual(1), nil)

	_, err := f.uc.Checkout(context.Background(), "s1", 1, validInput(model.PaymentModeMobileMoney))
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, 400, he.Status)
	assert.Equal(t, "cart empty", he.Message)
	f.gateway.AssertNotCalled(t, "InitiatePush")
}

func TestCheckout_InvoiceModeGatedToCorporate(t *testing.T) {
	f := newCheckoutFixture()
	f.users.On("FindByID", mock.Anything, int64(1)).Return(individual(1), nil)
	f.seedArtwork(t, "s1", "a1", 10000, 1)

	_, err := f.uc.Checkout(context.Background(), "s1", 1, validInput(model.PaymentModeInvoice))
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, 400, he.Status)
	assert.Equal(t, "invoice not allowed", he.Message)

	// 外部には何も投げない
	f.gateway.AssertNotCalled(t, "InitiatePush")
	f.inv.AssertNotCalled(t, "Create")
}

// =====================
// Pricing
// =====================

func TestCheckout_CorporateDiscountApplied(t *testing.T) {
	f := newCheckoutFixture()
	f.users.On("FindByID", mock.Anything, int64(2)).Return(corporate(2), nil)
	f.seedArtwork(t, "s1", "a1", 10000, 1)

	// 割引後の金額でPushされる
	f.gateway.On("InitiatePush", mock.Anything, "0712345678", int64(9000), model.ItemKindArtwork, "a1", "artwork-a1").
		Return(repo.PushReceipt{CheckoutRequestID: "ws_1"}, nil)
	f.pushes.On("Create", mock.Anything, mock.Anything).Return(int64(1), nil)

	out, err := f.uc.Checkout(context.Background(), "s1", 2, validInput(model.PaymentModeMobileMoney))
	require.NoError(t, err)

	assert.Equal(t, int64(10000), out.TotalAmount)
	assert.Equal(t, int64(9000), out.FinalAmount)
	assert.True(t, out.DiscountApplied)
	assert.Equal(t, model.CheckoutStatusSucceeded, out.Status)
}

func TestCheckout_IndividualNoDiscount(t *testing.T) {
	f := newCheckoutFixture()
	f.users.On("FindByID", mock.Anything, int64(1)).Return(individual(1), nil)
	f.seedArtwork(t, "s1", "a1", 10000, 1)

	f.gateway.On("InitiatePush", mock.Anything, "0712345678", int64(10000), model.ItemKindArtwork, "a1", "artwork-a1").
		Return(repo.PushReceipt{CheckoutRequestID: "ws_1"}, nil)
	f.pushes.On("Create", mock.Anything, mock.Anything).Return(int64(1), nil)

	out, err := f.uc.Checkout(context.Background(), "s1", 1, validInput(model.PaymentModeMobileMoney))
	require.NoError(t, err)
	assert.Equal(t, int64(10000), out.FinalAmount)
	assert.False(t, out.DiscountApplied)
}

func TestCheckout_StoredDiscountRateOverridesDefault(t *testing.T) {
	f := newCheckoutFixture()
	u := corporate(2)
	u.DiscountBP = 1500 // アカウント個別の15%
	f.users.On("FindByID", mock.Anything, int64(2)).Return(u, nil)
	f.seedArtwork(t, "s1", "a1", 10000, 1)

	f.gateway.On("InitiatePush", mock.Anything, "0712345678", int64(8500), model.ItemKindArtwork, "a1", "artwork-a1").
		Return(repo.PushReceipt{CheckoutRequestID: "ws_1"}, nil)
	f.pushes.On("Create", mock.Anything, mock.Anything).Return(int64(1), nil)

	out, err := f.uc.Checkout(context.Background(), "s1", 2, validInput(model.PaymentModeMobileMoney))
	require.NoError(t, err)
	assert.Equal(t, int64(8500), out.FinalAmount)
	assert.Equal(t, int64(1500), out.DiscountBP)
}

// =====================
// Submission
// =====================

func TestCheckout_MobileMoneyFullSuccessClearsCart(t *testing.T) {
	f := newCheckoutFixture()
	f.users.On("FindByID", mock.Anything, int64(1)).Return(individual(1), nil)
	f.seedArtwork(t, "s1", "a1", 4500, 1)
	f.seedTicket(t, "s1", "e1", 800, 2)

	f.gateway.On("InitiatePush", mock.Anything, "0712345678", int64(4500), model.ItemKindArtwork, "a1", "artwork-a1").
		Return(repo.PushReceipt{CheckoutRequestID: "ws_a"}, nil)
	f.gateway.On("InitiatePush", mock.Anything, "0712345678", int64(1600), model.ItemKindExhibitionTicket, "e1", "exhibition_ticket-e1").
		Return(repo.PushReceipt{CheckoutRequestID: "ws_e"}, nil)
	f.pushes.On("Create", mock.Anything, mock.Anything).Return(int64(1), nil)

	out, err := f.uc.Checkout(context.Background(), "s1", 1, validInput(model.PaymentModeMobileMoney))
	require.NoError(t, err)
	assert.Equal(t, model.CheckoutStatusSucceeded, out.Status)
	require.Len(t, out.Lines, 2)

	cart, err := f.cart.GetCart(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	f.pushes.AssertNumberOfCalls(t, "Create", 2)
}

func TestCheckout_PartialFailureKeepsFailedLine(t *testing.T) {
	f := newCheckoutFixture()
	f.users.On("FindByID", mock.Anything, int64(1)).Return(individual(1), nil)
	f.seedArtwork(t, "s1", "a1", 4500, 1)
	f.seedTicket(t, "s1", "e1", 800, 2)

	f.gateway.On("InitiatePush", mock.Anything, "0712345678", int64(4500), model.ItemKindArtwork, "a1", "artwork-a1").
		Return(repo.PushReceipt{CheckoutRequestID: "ws_a"}, nil)
	f.gateway.On("InitiatePush", mock.Anything, "0712345678", int64(1600), model.ItemKindExhibitionTicket, "e1", "exhibition_ticket-e1").
		Return(repo.PushReceipt{}, errors.New("gateway timeout"))
	f.pushes.On("Create", mock.Anything, mock.Anything).Return(int64(1), nil)

	_, err := f.uc.Checkout(context.Background(), "s1", 1, validInput(model.PaymentModeMobileMoney))
	require.Error(t, err)

	var pe *PartialSubmissionError
	require.ErrorAs(t, err, &pe)
	require.Len(t, pe.Succeeded, 1)
	require.Len(t, pe.Failed, 1)
	assert.Equal(t, "a1", pe.Succeeded[0].ID)
	assert.Equal(t, "e1", pe.Failed[0].Line.ID)
	assert.Contains(t, pe.Failed[0].Reason, "gateway timeout")

	// 成功した明細は外れ、失敗した明細だけ残る
	cart, err := f.cart.GetCart(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "e1", cart.Lines[0].ID)
}

func TestCheckout_AllFailedLeavesCartUntouched(t *testing.T) {
	f := newCheckoutFixture()
	f.users.On("FindByID", mock.Anything, int64(1)).Return(individual(1), nil)
	f.seedArtwork(t, "s1", "a1", 4500, 1)

	f.gateway.On("InitiatePush", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(repo.PushReceipt{}, errors.New("gateway down"))

	_, err := f.uc.Checkout(context.Background(), "s1", 1, validInput(model.PaymentModeMobileMoney))
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, 502, he.Status)

	cart, err := f.cart.GetCart(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)

	f.pushes.AssertNotCalled(t, "Create")
}

func TestCheckout_InvoiceModeRecordsAndSucceeds(t *testing.T) {
	f := newCheckoutFixture()
	f.users.On("FindByID", mock.Anything, int64(2)).Return(corporate(2), nil)
	f.seedArtwork(t, "s1", "a1", 10000, 1)

	f.inv.On("Create", mock.Anything, mock.MatchedBy(func(inv model.InvoiceRequest) bool {
		return inv.UserID == 2 && inv.Amount == 9000 && inv.LinesJSON != ""
	})).Return(int64(1), nil)

	out, err := f.uc.Checkout(context.Background(), "s1", 2, validInput(model.PaymentModeInvoice))
	require.NoError(t, err)
	assert.Equal(t, model.CheckoutStatusSucceeded, out.Status)
	assert.Equal(t, int64(9000), out.FinalAmount)

	// 請求書払いはPushを1件も出さない
	f.gateway.AssertNotCalled(t, "InitiatePush")

	cart, err := f.cart.GetCart(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}
