package domain

import "errors"

var (
	MessageSuccessAddToCart      = "recipe added to shopping cart"
	MessageSuccessRemoveFromCart = "recipe removed from shopping cart"

	MessageFailedAddToCart         = "failed to add recipe to shopping cart"
	MessageFailedRemoveFromCart    = "failed to remove recipe from shopping cart"
	MessageFailedDownloadCart      = "failed to download shopping cart"
	MessageFailedUnsupportedFormat = "unsupported document format"

	ErrUnsupportedFormat = errors.New("unsupported document format")
)

const (
	ShoppingListTitle = "My shopping list"

	FormatPDF  = "pdf"
	FormatText = "txt"
)

type (
	// LedgerLine is one recipe ingredient row reachable from a user's cart.
	LedgerLine struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	// AggregateLine is one summed entry of a shopping list.
	AggregateLine struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		TotalAmount     int64  `json:"total_amount"`
	}

	Document struct {
		Filename    string
		ContentType string
		Body        []byte
	}
)
