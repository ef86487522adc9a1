package integration

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/clinicbill/console/internal/api"
	"github.com/clinicbill/console/internal/domain/profile"
	"github.com/clinicbill/console/internal/domain/transaction"
)

func startStub(t *testing.T) (*stubServer, *api.Client) {
	t.Helper()
	stub := newStubServer()
	srv := httptest.NewServer(stub.handler())
	t.Cleanup(srv.Close)
	return stub, api.New(srv.URL, api.WithLogger(zerolog.Nop()))
}

func TestPaymentEditEndToEnd(t *testing.T) {
	ctx := context.Background()
	stub, client := startStub(t)
	stub.payments["pay-1"] = map[string]interface{}{
		"id":          "pay-1",
		"billId":      "bill-42",
		"amount":      1500,
		"mode":        "Cheque",
		"paymentDate": "2024-01-15",
		"chequeDate":  "2024-01-16",
		"bankName":    "HDFC",
	}

	sess := transaction.NewEditSession(client, transaction.KindPayment, "pay-1", zerolog.Nop())
	if err := sess.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if sess.Fields().ChequeNumber != "" {
		t.Errorf("missing cheque number must normalize to empty, got %q", sess.Fields().ChequeNumber)
	}

	if err := sess.SetMode(transaction.ModeUPI); err != nil {
		t.Fatal(err)
	}
	if err := sess.SetField("upiName", "alice"); err != nil {
		t.Fatal(err)
	}
	if err := sess.SetField("upiId", "alice@upi"); err != nil {
		t.Fatal(err)
	}

	nav, err := sess.Submit(ctx)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if nav.Path != "/bills/bill-42" {
		t.Errorf("expected navigation to /bills/bill-42, got %q", nav.Path)
	}
	if !nav.Refresh {
		t.Error("expected refresh signal")
	}

	sent := stub.lastUpdate["/api/payments/pay-1"]
	if sent == nil {
		t.Fatal("expected an update to reach the server")
	}
	if sent["mode"] != "UPI" {
		t.Errorf("expected UPI mode, got %v", sent["mode"])
	}
	if sent["upiId"] != "alice@upi" {
		t.Errorf("expected upiId, got %v", sent["upiId"])
	}
	for _, key := range []string{"chequeDate", "chequeNumber", "bankName"} {
		if _, ok := sent[key]; ok {
			t.Errorf("stale cheque key %q leaked to the server", key)
		}
	}
	if _, ok := sent["billId"]; ok {
		t.Error("billId must never be resubmitted")
	}
	if sent["amount"] != float64(1500) {
		t.Errorf("expected numeric amount, got %v", sent["amount"])
	}
}

func TestRefundEditUsesRefundPathsAndFiltering(t *testing.T) {
	ctx := context.Background()
	stub, client := startStub(t)
	stub.refunds["ref-1"] = map[string]interface{}{
		"id":         "ref-1",
		"billId":     "bill-7",
		"amount":     300,
		"mode":       "BankTransfer",
		"refundDate": "2024-02-01",
		"upiName":    "stale",
	}

	sess := transaction.NewEditSession(client, transaction.KindRefund, "ref-1", zerolog.Nop())
	if err := sess.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := sess.SetField("transferType", "NEFT"); err != nil {
		t.Fatal(err)
	}

	if _, err := sess.Submit(ctx); err != nil {
		t.Fatalf("submit: %v", err)
	}

	sent := stub.lastUpdate["/api/refunds/ref-1"]
	if sent == nil {
		t.Fatal("expected the refund update to reach the server")
	}
	if sent["refundDate"] != "2024-02-01" {
		t.Errorf("expected refundDate, got %v", sent["refundDate"])
	}
	if _, ok := sent["paymentDate"]; ok {
		t.Error("refund update must not carry paymentDate")
	}
	if _, ok := sent["upiName"]; ok {
		t.Error("refund updates must be mode-filtered")
	}
	if sent["transferType"] != "NEFT" {
		t.Errorf("expected transferType NEFT, got %v", sent["transferType"])
	}
}

func TestLoadFailureCarriesServerMessage(t *testing.T) {
	_, client := startStub(t)

	sess := transaction.NewEditSession(client, transaction.KindPayment, "missing", zerolog.Nop())
	err := sess.Load(context.Background())
	if err == nil {
		t.Fatal("expected load failure")
	}
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *api.APIError in chain, got %v", err)
	}
	if apiErr.StatusCode != 404 {
		t.Errorf("expected 404, got %d", apiErr.StatusCode)
	}
	if apiErr.Message != "Record not found" {
		t.Errorf("expected the server's error field, got %q", apiErr.Message)
	}
	if sess.State() != transaction.StateFailed {
		t.Errorf("expected failed session, got %s", sess.State())
	}
}

func TestProfileCreateThenEditEndToEnd(t *testing.T) {
	ctx := context.Background()
	stub, client := startStub(t)

	sess := profile.NewSession(client, zerolog.Nop())
	if err := sess.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if sess.Mode() != profile.ModeCreating {
		t.Fatalf("expected creating against an empty server, got %s", sess.Mode())
	}

	if err := sess.SetField("clinicName", "City Clinic"); err != nil {
		t.Fatal(err)
	}
	if err := sess.SetField("address", "12 Main St"); err != nil {
		t.Fatal(err)
	}
	if err := sess.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	if sess.Mode() != profile.ModeViewing {
		t.Fatalf("expected viewing after save, got %s", sess.Mode())
	}
	if sess.Fields().UpdatedAt == "" {
		t.Error("expected the reloaded profile to carry the server timestamp")
	}

	// Second session sees the stored profile regardless of response shape.
	stub.mu.Lock()
	stub.shape = shapeBareObject
	stub.mu.Unlock()

	sess2 := profile.NewSession(client, zerolog.Nop())
	if err := sess2.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if sess2.Mode() != profile.ModeViewing {
		t.Fatalf("a bare profile object must count as existing, got %s", sess2.Mode())
	}
	if sess2.Fields().ClinicName != "City Clinic" {
		t.Errorf("expected stored clinic name, got %q", sess2.Fields().ClinicName)
	}

	if err := sess2.StartEdit(); err != nil {
		t.Fatal(err)
	}
	if err := sess2.SetField("phone", "555-0100"); err != nil {
		t.Fatal(err)
	}
	if err := sess2.Save(ctx); err != nil {
		t.Fatalf("save edit: %v", err)
	}
	if sess2.Fields().Phone != "555-0100" {
		t.Errorf("expected phone persisted, got %q", sess2.Fields().Phone)
	}
}

func TestUpdatedRecordReflectsModeSwitch(t *testing.T) {
	ctx := context.Background()
	stub, client := startStub(t)
	stub.payments["pay-2"] = map[string]interface{}{
		"id":          "pay-2",
		"billId":      "bill-9",
		"amount":      json.Number("200"),
		"mode":        "Cash",
		"paymentDate": "2024-03-01",
	}

	sess := transaction.NewEditSession(client, transaction.KindPayment, "pay-2", zerolog.Nop())
	if err := sess.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := sess.SetMode(transaction.ModeCheque); err != nil {
		t.Fatal(err)
	}
	if err := sess.SetField("chequeNumber", "000777"); err != nil {
		t.Fatal(err)
	}
	if _, err := sess.Submit(ctx); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// A fresh session loads the committed state.
	sess2 := transaction.NewEditSession(client, transaction.KindPayment, "pay-2", zerolog.Nop())
	if err := sess2.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if sess2.Fields().Mode != transaction.ModeCheque {
		t.Errorf("expected committed Cheque mode, got %q", sess2.Fields().Mode)
	}
	if sess2.Fields().ChequeNumber != "000777" {
		t.Errorf("expected committed cheque number, got %q", sess2.Fields().ChequeNumber)
	}
}
