package services

type CreateOrderCommand struct {
	Amount string
}

type VerifyPaymentCommand struct {
	OrderID   string
	PaymentID string
	Signature string
	Email     string
}
