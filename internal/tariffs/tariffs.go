package tariffs

import (
	"time"

	"github.com/nevskyi/chat-access-service/internal/domain"
)

func days(n int) *time.Duration {
	d := time.Duration(n) * 24 * time.Hour
	return &d
}

func hours(n int) *time.Duration {
	d := time.Duration(n) * time.Hour
	return &d
}

// Default - статичный каталог тарифов. Меняется только деплоем:
// по живым заказам тарифы считаются неизменяемыми.
func Default() map[string]domain.Tariff {
	return map[string]domain.Tariff{
		"forever": {Code: "forever", Title: "НАВСЕГДА", PriceRub: 990, Duration: nil},
		"month":   {Code: "month", Title: "МЕСЯЦ", PriceRub: 450, Duration: days(30)},
		"week":    {Code: "week", Title: "НЕДЕЛЯ", PriceRub: 250, Duration: days(7)},
		"trial":   {Code: "trial", Title: "ПРОБНИК", PriceRub: 200, Duration: hours(24)},
	}
}
