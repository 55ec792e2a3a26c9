package payments

import (
	"fmt"
	"strconv"
	"strings"
)

// CardFields carries the raw card data entered for an inline-card
// initiation. It lives only for the duration of the request and is
// never persisted.
type CardFields struct {
	HolderName   string `json:"card_holder_name"`
	Number       string `json:"card_number"`
	ExpireMonth  string `json:"expire_month"`
	ExpireYear   string `json:"expire_year"`
	CVC          string `json:"cvc"`
	Installments int    `json:"installments"`
}

// Normalize strips spacing from the PAN and trims the rest.
func (c CardFields) Normalize() CardFields {
	c.HolderName = strings.TrimSpace(c.HolderName)
	c.Number = strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(c.Number))
	c.ExpireMonth = strings.TrimSpace(c.ExpireMonth)
	c.ExpireYear = strings.TrimSpace(c.ExpireYear)
	c.CVC = strings.TrimSpace(c.CVC)
	if c.Installments == 0 {
		c.Installments = 1
	}
	return c
}

// Validate checks the card fields locally so obviously malformed input
// never reaches a gateway.
func (c CardFields) Validate() error {
	if c.HolderName == "" {
		return fmt.Errorf("card holder name is required")
	}
	if !isDigits(c.Number) || len(c.Number) < 12 || len(c.Number) > 19 {
		return fmt.Errorf("card number must be 12 to 19 digits")
	}
	if !luhnValid(c.Number) {
		return fmt.Errorf("card number failed checksum")
	}
	month, err := strconv.Atoi(c.ExpireMonth)
	if err != nil || month < 1 || month > 12 || len(c.ExpireMonth) != 2 {
		return fmt.Errorf("expiry month must be between 01 and 12")
	}
	if len(c.ExpireYear) != 2 || !isDigits(c.ExpireYear) {
		return fmt.Errorf("expiry year must be two digits")
	}
	if !isDigits(c.CVC) || len(c.CVC) < 3 || len(c.CVC) > 4 {
		return fmt.Errorf("cvc must be 3 or 4 digits")
	}
	if c.Installments < 1 {
		return fmt.Errorf("installments must be at least 1")
	}
	return nil
}

// luhnValid runs the Luhn checksum over an all-digit PAN.
func luhnValid(number string) bool {
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		digit := int(number[i] - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}
	return sum%10 == 0
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
