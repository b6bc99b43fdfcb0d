package billing

// PaymentURLBuilder builds hosted checkout URLs for online payment
// methods. Bank transfer and cash have no hosted checkout.
type PaymentURLBuilder interface {
	BuildPaymentURL(pr *PaymentRequest, method PaymentMethod, returnURL string) (string, error)
}
