package domain

type PaymentMethod string

const (
	PaymentDebit     PaymentMethod = "Debit"
	PaymentCredit    PaymentMethod = "Credit"
	PaymentOnArrival PaymentMethod = "OnArrival"
	PaymentCoupon    PaymentMethod = "Coupon"
)

// paymentLabels is the one table every notification renders from.
var paymentLabels = map[PaymentMethod]string{
	PaymentDebit:     "Banka Kartı",
	PaymentCredit:    "Kredi Kartı",
	PaymentOnArrival: "Kapıda Ödeme",
	PaymentCoupon:    "Kupon",
}

const unknownPaymentLabel = "Belirtilmemiş"

func (m PaymentMethod) Valid() bool {
	_, ok := paymentLabels[m]
	return ok
}

// Label returns the customer-facing name of the payment method.
func (m PaymentMethod) Label() string {
	if l, ok := paymentLabels[m]; ok {
		return l
	}
	return unknownPaymentLabel
}
