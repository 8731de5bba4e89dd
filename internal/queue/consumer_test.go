package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iliyamo/bus-ticket-booking/internal/model"
)

func TestHandleMessageAppendsLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "booking.log")

	b := model.Booking{ID: 9, BusID: 1, PassengerName: "Ann", Email: "ann@example.com", Seats: []string{"A1", "A2"}, TotalAmount: 50, Status: model.BookingConfirmed}
	for _, typ := range []string{BookingConfirmedQueue, BookingCancelledQueue} {
		body, err := json.Marshal(NewBookingEvent(typ, b))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if err := HandleMessage(path, body); err != nil {
			t.Fatalf("handle %s: %v", typ, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 ledger lines, got %d: %q", len(lines), data)
	}
	if !strings.Contains(lines[0], "Booking confirmed") || !strings.Contains(lines[0], "seats=[A1,A2]") {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if !strings.Contains(lines[1], "Booking cancelled") || !strings.Contains(lines[1], "booking_id=9") {
		t.Fatalf("unexpected second line %q", lines[1])
	}
}

func TestHandleMessageRejectsBadPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "booking.log")
	for _, body := range []string{"{", `{"type":"booking.confirmed"}`, `{"booking_id":3}`} {
		if err := HandleMessage(path, []byte(body)); err == nil {
			t.Fatalf("expected error for %s", body)
		}
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("ledger must not be created for rejected messages")
	}
}
