package order

type CreateOrderInput struct {
	UserID     int64
	TariffCode string
	Provider   string
}
