package transaction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// State tracks where an edit session is in its lifecycle.
type State string

const (
	// StateNew is the state before Load has been attempted.
	StateNew State = "new"
	// StateReady means the record loaded and the fields are editable.
	StateReady State = "ready"
	// StateSubmitting means an update is in flight; no second submit may start.
	StateSubmitting State = "submitting"
	// StateDone means the update succeeded; the session is finished.
	StateDone State = "done"
	// StateFailed means the record could not be loaded; the form is never shown.
	StateFailed State = "failed"
)

var (
	ErrNotLoaded      = fmt.Errorf("record not loaded")
	ErrSubmitInFlight = fmt.Errorf("an update is already in flight")
	ErrSessionDone    = fmt.Errorf("session already submitted")
	ErrAmountRequired = fmt.Errorf("amount is required")
)

// Client is the slice of the API client the session needs.
type Client interface {
	Get(ctx context.Context, path string, out interface{}) error
	Put(ctx context.Context, path string, body, out interface{}) error
}

// Navigation is the post-save destination: the owning bill's view, carrying
// a transient refresh signal so it reloads instead of using cached data.
type Navigation struct {
	Path      string
	Refresh   bool
	Timestamp time.Time
}

// EditSession owns one record edit from load to submit. State is exclusively
// owned by the session and discarded with it; nothing survives across
// sessions. The update call can never be issued before the load call has
// completed successfully.
type EditSession struct {
	client Client
	kind   Kind
	id     string
	log    zerolog.Logger

	mu     sync.Mutex
	state  State
	fields Fields
	billID string
}

// NewEditSession creates a session for one payment or refund record.
func NewEditSession(client Client, kind Kind, id string, log zerolog.Logger) *EditSession {
	return &EditSession{
		client: client,
		kind:   kind,
		id:     id,
		log:    log.With().Str("kind", string(kind)).Str("record_id", id).Logger(),
		state:  StateNew,
	}
}

// State returns the session's current lifecycle state.
func (s *EditSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// BillID returns the owning bill reference. It is fetched with the record,
// never editable, and only used for post-save navigation.
func (s *EditSession) BillID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.billID
}

// Fields returns a copy of the editable field state.
func (s *EditSession) Fields() Fields {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fields
}

// Load fetches the record and normalizes it into editable state. On failure
// the session becomes failed and stays that way: the form must not be
// rendered against partial state.
func (s *EditSession) Load(ctx context.Context) error {
	var rec Record
	if err := s.client.Get(ctx, s.kind.Path(s.id), &rec); err != nil {
		s.mu.Lock()
		s.state = StateFailed
		s.mu.Unlock()
		s.log.Error().Err(err).Msg("failed to load record")
		return fmt.Errorf("failed to load %s: %w", s.kind, err)
	}

	s.mu.Lock()
	s.fields = Normalize(&rec, s.kind)
	s.billID = rec.BillID
	s.state = StateReady
	s.mu.Unlock()

	s.log.Debug().Str("bill_id", rec.BillID).Str("mode", string(rec.Mode)).Msg("record loaded")
	return nil
}

// SetMode switches the mode selector. Values bound to other modes are kept;
// they just stop appearing in the payload.
func (s *EditSession) SetMode(m Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	s.fields.Mode = m
	return nil
}

// SetField sets one editable field by its wire name. The date field answers
// to the kind's canonical key. Unknown names are an error so CLI typos
// surface instead of silently dropping input.
func (s *EditSession) SetField(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}

	switch name {
	case "amount":
		s.fields.Amount = json.Number(value)
	case "mode":
		s.fields.Mode = Mode(value)
	case s.kind.DateKey():
		s.fields.Date = value
	case "referenceNo":
		s.fields.ReferenceNo = value
	case "drawnOn":
		s.fields.DrawnOn = value
	case "drawnAs":
		s.fields.DrawnAs = value
	case "chequeDate":
		s.fields.ChequeDate = value
	case "chequeNumber":
		s.fields.ChequeNumber = value
	case "bankName":
		s.fields.BankName = value
	case "transferType":
		s.fields.TransferType = value
	case "transferDate":
		s.fields.TransferDate = value
	case "upiName":
		s.fields.UPIName = value
	case "upiId":
		s.fields.UPIID = value
	case "upiDate":
		s.fields.UPIDate = value
	default:
		return fmt.Errorf("unknown field %q", name)
	}
	return nil
}

func (s *EditSession) editableLocked() error {
	switch s.state {
	case StateReady:
		return nil
	case StateSubmitting:
		return ErrSubmitInFlight
	case StateDone:
		return ErrSessionDone
	default:
		return ErrNotLoaded
	}
}

// Submit builds the mode-filtered payload and PUTs it. Only one submit may
// be in flight; a submit before a successful load is refused. On failure the
// session returns to ready with its state untouched, so nothing is lost and
// the user may resubmit. On success it returns where to navigate.
func (s *EditSession) Submit(ctx context.Context) (*Navigation, error) {
	s.mu.Lock()
	switch s.state {
	case StateSubmitting:
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	case StateDone:
		s.mu.Unlock()
		return nil, ErrSessionDone
	case StateReady:
		// proceed
	default:
		s.mu.Unlock()
		return nil, ErrNotLoaded
	}
	if strings.TrimSpace(s.fields.Amount.String()) == "" {
		s.mu.Unlock()
		return nil, ErrAmountRequired
	}
	payload := s.fields.Payload(s.kind)
	billID := s.billID
	s.state = StateSubmitting
	s.mu.Unlock()

	if err := s.client.Put(ctx, s.kind.Path(s.id), payload, nil); err != nil {
		s.mu.Lock()
		s.state = StateReady
		s.mu.Unlock()
		s.log.Error().Err(err).Msg("failed to update record")
		return nil, fmt.Errorf("failed to update %s: %w", s.kind, err)
	}

	s.mu.Lock()
	s.state = StateDone
	s.mu.Unlock()

	s.log.Info().Str("bill_id", billID).Msg("record updated")
	return &Navigation{
		Path:      "/bills/" + billID,
		Refresh:   true,
		Timestamp: time.Now(),
	}, nil
}
