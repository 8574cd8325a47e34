package receipt

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mesa-pos/api/internal/service"
	"github.com/shopspring/decimal"
)

func testSale() service.Sale {
	return service.Sale{
		ID:      uuid.New(),
		TableID: 3,
		Items: []service.LineItem{
			{Name: "Burger", UnitPrice: decimal.RequireFromString("10"), Quantity: 2},
			{Name: "Soda", UnitPrice: decimal.RequireFromString("2"), Quantity: 3},
		},
		Subtotal:        decimal.RequireFromString("26"),
		DiscountPercent: decimal.RequireFromString("10"),
		Total:           decimal.RequireFromString("23.4"),
		CreatedAt:       time.Date(2026, 4, 10, 19, 30, 0, 0, time.UTC),
	}
}

func TestText(t *testing.T) {
	lines := FromSale(testSale()).Text()

	want := []string{
		"Receipt",
		"Table 3",
		"2026-04-10 19:30",
		"Burger x2 @ 10.00 = 20.00",
		"Soda x3 @ 2.00 = 6.00",
		"Subtotal: 26.00",
		"Discount: 10.00%",
		"Total: 23.40",
	}
	if len(lines) != len(want) {
		t.Fatalf("lines: got %d, want %d\n%s", len(lines), len(want), strings.Join(lines, "\n"))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	if err := FromSale(testSale()).Render(&buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("output is not a PDF: %q", buf.Bytes()[:min(16, buf.Len())])
	}
}
