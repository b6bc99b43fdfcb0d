package gateway

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paydesk/backend/internal/domain/billing"
	"github.com/paydesk/backend/internal/infrastructure/config"
)

func testConfig() config.GatewaysConfig {
	return config.GatewaysConfig{
		VNPay: config.VNPayConfig{
			MerchantID: "TESTMERCHANT",
			SecureHash: "hashvalue",
			BaseURL:    "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		},
		MoMo: config.MoMoConfig{
			PartnerCode: "MOMOTEST",
			AccessKey:   "accesskey",
			BaseURL:     "https://test-payment.momo.vn/v2/gateway/pay",
		},
		ZaloPay: config.ZaloPayConfig{
			AppID:   "554",
			Key1:    "key1value",
			BaseURL: "https://sandbox.zalopay.com.vn/v001/tpe/createorder",
		},
	}
}

func testRequest(t *testing.T) *billing.PaymentRequest {
	t.Helper()
	pr, err := billing.NewPaymentRequest(
		uuid.New(), uuid.New(), "PR-25-08-0001",
		billing.Client{Name: "ACME Corp"},
		"Consulting",
		[]billing.LineItem{{
			Description: "Consulting",
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   decimal.NewFromInt(150_000),
		}},
		"VND", decimal.Zero, time.Now().AddDate(0, 0, 7),
	)
	require.NoError(t, err)
	return pr
}

func TestURLBuilder_VNPay(t *testing.T) {
	b := NewURLBuilder(testConfig())
	pr := testRequest(t)

	raw, err := b.BuildPaymentURL(pr, billing.MethodVNPay, "https://app.example/return")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(raw, "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html?"))

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	// VNPay wants the amount in hundredths of a dong
	assert.Equal(t, "15000000", q.Get("vnp_Amount"))
	assert.Equal(t, "TESTMERCHANT", q.Get("vnp_TmnCode"))
	assert.Equal(t, "PR-25-08-0001", q.Get("vnp_TxnRef"))
	assert.Equal(t, "https://app.example/return", q.Get("vnp_ReturnUrl"))
	assert.Equal(t, "VND", q.Get("vnp_CurrCode"))
}

func TestURLBuilder_MoMo(t *testing.T) {
	b := NewURLBuilder(testConfig())
	pr := testRequest(t)

	raw, err := b.BuildPaymentURL(pr, billing.MethodMoMo, "https://app.example/return")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "150000", q.Get("amount"))
	assert.Equal(t, "MOMOTEST", q.Get("partnerCode"))
	assert.Equal(t, "PR-25-08-0001", q.Get("orderId"))
}

func TestURLBuilder_ZaloPay(t *testing.T) {
	b := NewURLBuilder(testConfig())
	pr := testRequest(t)

	raw, err := b.BuildPaymentURL(pr, billing.MethodZaloPay, "https://app.example/return")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "150000", q.Get("amount"))
	assert.Equal(t, "554", q.Get("appid"))
	assert.Contains(t, q.Get("embeddata"), "https://app.example/return")
}

func TestURLBuilder_UnsupportedMethods(t *testing.T) {
	b := NewURLBuilder(testConfig())
	pr := testRequest(t)

	for _, method := range []billing.PaymentMethod{billing.MethodBankTransfer, billing.MethodCash} {
		_, err := b.BuildPaymentURL(pr, method, "https://app.example/return")
		assert.ErrorIs(t, err, ErrUnsupportedMethod, string(method))
	}
}
