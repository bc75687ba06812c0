package domain

import "time"

// Tariff - позиция каталога. Duration == nil означает безлимитный доступ.
type Tariff struct {
	Code     string
	Title    string
	PriceRub int64
	Duration *time.Duration
}
