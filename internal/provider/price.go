package provider

// PriceFromID derives the display price for a product from its id.
//
// The hash is a rolling character-code hash kept in 32-bit signed
// arithmetic with wraparound: h = c + (h<<5 - h) for each byte, then
// abs(h % 90) + 10. Same id, same price, always, across processes; tests
// pin literal vectors so the overflow behavior cannot drift.
func PriceFromID(id string) int64 {
	var h int32
	for i := 0; i < len(id); i++ {
		h = int32(id[i]) + (h<<5 - h)
	}

	m := h % 90
	if m < 0 {
		m = -m
	}
	return int64(m) + 10
}
