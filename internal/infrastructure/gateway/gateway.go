package gateway

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paydesk/backend/internal/domain/billing"
	"github.com/paydesk/backend/internal/domain/shared"
	"github.com/paydesk/backend/internal/infrastructure/config"
)

var decimalHundred = decimal.NewFromInt(100)

// URLBuilder builds sandbox checkout URLs for the supported Vietnamese
// payment gateways
type URLBuilder struct {
	cfg config.GatewaysConfig
}

var _ billing.PaymentURLBuilder = (*URLBuilder)(nil)

// NewURLBuilder creates a URL builder
func NewURLBuilder(cfg config.GatewaysConfig) *URLBuilder {
	return &URLBuilder{cfg: cfg}
}

// ErrUnsupportedMethod is returned for methods without hosted checkout
var ErrUnsupportedMethod = shared.NewDomainError("VALIDATION_ERROR", "Payment method has no hosted checkout")

// BuildPaymentURL builds the checkout URL for the given method
func (b *URLBuilder) BuildPaymentURL(pr *billing.PaymentRequest, method billing.PaymentMethod, returnURL string) (string, error) {
	switch method {
	case billing.MethodVNPay:
		return b.vnpayURL(pr, returnURL), nil
	case billing.MethodMoMo:
		return b.momoURL(pr, returnURL), nil
	case billing.MethodZaloPay:
		return b.zalopayURL(pr, returnURL), nil
	default:
		return "", ErrUnsupportedMethod
	}
}

// VNPay expects the amount multiplied by 100
func (b *URLBuilder) vnpayURL(pr *billing.PaymentRequest, returnURL string) string {
	q := url.Values{}
	q.Set("vnp_Version", "2.1.0")
	q.Set("vnp_Command", "pay")
	q.Set("vnp_TmnCode", b.cfg.VNPay.MerchantID)
	q.Set("vnp_Amount", pr.TotalAmount.Mul(decimalHundred).StringFixed(0))
	q.Set("vnp_CreateDate", strconv.FormatInt(time.Now().UnixMilli(), 10))
	q.Set("vnp_CurrCode", pr.Currency)
	q.Set("vnp_Locale", "vn")
	q.Set("vnp_OrderInfo", pr.RequestNumber)
	q.Set("vnp_OrderType", "billpayment")
	q.Set("vnp_ReturnUrl", returnURL)
	q.Set("vnp_TxnRef", pr.RequestNumber)
	q.Set("vnp_SecureHash", b.cfg.VNPay.SecureHash)
	return b.cfg.VNPay.BaseURL + "?" + q.Encode()
}

func (b *URLBuilder) momoURL(pr *billing.PaymentRequest, returnURL string) string {
	q := url.Values{}
	q.Set("partnerCode", b.cfg.MoMo.PartnerCode)
	q.Set("accessKey", b.cfg.MoMo.AccessKey)
	q.Set("amount", pr.TotalAmount.StringFixed(0))
	q.Set("orderId", pr.RequestNumber)
	q.Set("orderInfo", fmt.Sprintf("Payment for %s", pr.RequestNumber))
	q.Set("returnUrl", returnURL)
	q.Set("notifyUrl", returnURL)
	q.Set("extraData", "")
	return b.cfg.MoMo.BaseURL + "?" + q.Encode()
}

func (b *URLBuilder) zalopayURL(pr *billing.PaymentRequest, returnURL string) string {
	q := url.Values{}
	q.Set("appid", b.cfg.ZaloPay.AppID)
	q.Set("apptime", strconv.FormatInt(time.Now().UnixMilli(), 10))
	q.Set("amount", pr.TotalAmount.StringFixed(0))
	q.Set("apptransid", pr.RequestNumber)
	q.Set("embeddata", fmt.Sprintf(`{"redirecturl":%q}`, returnURL))
	q.Set("item", "[]")
	q.Set("description", fmt.Sprintf("Payment for %s", pr.RequestNumber))
	q.Set("mac", b.cfg.ZaloPay.Key1)
	return b.cfg.ZaloPay.BaseURL + "?" + q.Encode()
}
