package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatMoney keeps consistent decimal formatting for currency fields.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// FormatRand renders an amount with the currency prefix and thousand separators.
func FormatRand(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	whole := int64(amount)
	cents := int64(math.Round((amount - float64(whole)) * 100))
	if cents >= 100 {
		whole++
		cents -= 100
	}
	return fmt.Sprintf("%sR%s.%02d", sign, formatThousand(whole), cents)
}

// Round2 rounds to two decimal places for display-layer consumers.
// Stored values keep full precision.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func formatThousand(n int64) string {
	if n == 0 {
		return "0"
	}
	str := strconv.FormatInt(n, 10)
	var out strings.Builder
	for i, c := range str {
		if i != 0 && (len(str)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}
	return out.String()
}
