package invoice

import (
	"fmt"
	"strconv"
	"strings"
)

// order numbers start at this sequence value
const orderSeqBase = 1001

// NumberFor derives the invoice number for an order. Order numbers carry a
// trailing sequence ("ORD-1001", "ORD-1002", ...); the invoice sequence runs
// in lockstep from the configured starting number, so re-rendering an invoice
// always yields the same number.
func NumberFor(prefix string, start int, orderNo string) string {
	if start < 1 {
		start = orderSeqBase
	}
	seq, ok := trailingNumber(orderNo)
	if !ok {
		return fmt.Sprintf("%s%d", prefix, start)
	}
	return fmt.Sprintf("%s%d", prefix, start+(seq-orderSeqBase))
}

func trailingNumber(s string) (int, bool) {
	i := strings.LastIndexFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	digits := s[i+1:]
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}
