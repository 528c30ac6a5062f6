package charts

import "strings"

// NeutralColor marks values without a known category
const NeutralColor = "#bdbdbd"

// Palette is the shared categorical palette. Series and slices take colors
// in order and wrap around.
var Palette = []string{
	"#2e7d32", "#1565c0", "#f9a825", "#c62828", "#6a1b9a",
	"#00838f", "#ef6c00", "#4e342e", "#ad1457", "#558b2f",
}

// ColorAt returns the palette color for position i
func ColorAt(i int) string {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}

var paymentColors = map[string]string{
	"paid":      "#2e7d32",
	"completed": "#2e7d32",
	"partial":   "#f9a825",
	"pending":   "#ef6c00",
	"unpaid":    "#c62828",
	"overdue":   "#b71c1c",
	"cancelled": "#616161",
}

// PaymentStatusColor returns the fixed color of a known payment status and
// the neutral color otherwise.
func PaymentStatusColor(status string) string {
	if c, ok := paymentColors[strings.ToLower(strings.TrimSpace(status))]; ok {
		return c
	}
	return NeutralColor
}
