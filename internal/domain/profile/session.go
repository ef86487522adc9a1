package profile

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// ViewMode is the explicit three-state mode of the profile view. It replaces
// the ambiguous exists/isEditing flag pair with defined transitions:
// Creating stays Creating on cancel, Viewing and Editing toggle via
// StartEdit and Cancel, and a successful save always lands in Viewing.
type ViewMode string

const (
	// ModeCreating means no profile exists yet; the form starts empty.
	ModeCreating ViewMode = "creating"
	// ModeViewing shows the stored profile read-only.
	ModeViewing ViewMode = "viewing"
	// ModeEditing has uncommitted changes on top of a snapshot.
	ModeEditing ViewMode = "editing"
)

// WelcomeMessage is shown when no profile exists yet. It is informational,
// not an error.
const WelcomeMessage = "Welcome! Set up your clinic profile to get started."

var (
	ErrNotLoaded      = fmt.Errorf("profile not loaded")
	ErrNotEditable    = fmt.Errorf("profile is not being edited")
	ErrSaveInFlight   = fmt.Errorf("a save is already in flight")
	ErrClinicRequired = fmt.Errorf("clinic name is required")
	ErrAddressNeeded  = fmt.Errorf("address is required")
)

const apiPath = "/api/profile"

// Client is the slice of the API client the session needs.
type Client interface {
	Get(ctx context.Context, path string, out interface{}) error
	Put(ctx context.Context, path string, body, out interface{}) error
}

// Session owns the profile view state: the current mode, the editable
// fields, and the snapshot that Cancel reverts to.
type Session struct {
	client Client
	log    zerolog.Logger

	mu       sync.Mutex
	loaded   bool
	saving   bool
	mode     ViewMode
	fields   Profile
	snapshot Profile
	notice   string
}

// NewSession creates a profile session backed by the given client.
func NewSession(client Client, log zerolog.Logger) *Session {
	return &Session{client: client, log: log.With().Str("domain", "profile").Logger()}
}

// Mode returns the current view mode.
func (s *Session) Mode() ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Notice returns the informational message for the current mode, if any.
func (s *Session) Notice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notice
}

// Fields returns a copy of the current field state.
func (s *Session) Fields() Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fields
}

// Load fetches the profile and settles the initial mode: Viewing when the
// profile exists, Creating with a welcome notice when it does not.
func (s *Session) Load(ctx context.Context) error {
	var resp Response
	if err := s.client.Get(ctx, apiPath, &resp); err != nil {
		s.log.Error().Err(err).Msg("failed to load profile")
		return fmt.Errorf("failed to load profile: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	if resp.Exists {
		s.mode = ModeViewing
		s.fields = resp.Profile
		s.snapshot = resp.Profile
		s.notice = ""
	} else {
		s.mode = ModeCreating
		s.fields = Profile{}
		s.snapshot = Profile{}
		s.notice = WelcomeMessage
	}
	s.log.Debug().Bool("exists", resp.Exists).Msg("profile loaded")
	return nil
}

// StartEdit moves Viewing to Editing, snapshotting the fields so Cancel can
// revert. In Creating the form is already editable.
func (s *Session) StartEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}
	if s.mode != ModeViewing {
		return fmt.Errorf("cannot edit in %s mode", s.mode)
	}
	s.snapshot = s.fields
	s.mode = ModeEditing
	return nil
}

// Cancel discards uncommitted changes. Editing reverts to the snapshot and
// returns to Viewing; Creating clears the form and stays Creating.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}
	switch s.mode {
	case ModeEditing:
		s.fields = s.snapshot
		s.mode = ModeViewing
	case ModeCreating:
		s.fields = Profile{}
	default:
		return fmt.Errorf("nothing to cancel in %s mode", s.mode)
	}
	return nil
}

// SetField sets one profile field by its wire name while the form is
// editable.
func (s *Session) SetField(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}
	if s.mode == ModeViewing {
		return ErrNotEditable
	}

	switch name {
	case "clinicName":
		s.fields.ClinicName = value
	case "address":
		s.fields.Address = value
	case "pan":
		s.fields.PAN = value
	case "regNo":
		s.fields.RegNo = value
	case "doctor1Name":
		s.fields.Doctor1Name = value
	case "doctor1RegNo":
		s.fields.Doctor1RegNo = value
	case "doctor2Name":
		s.fields.Doctor2Name = value
	case "doctor2RegNo":
		s.fields.Doctor2RegNo = value
	case "patientRepresentative":
		s.fields.PatientRepresentative = value
	case "clinicRepresentative":
		s.fields.ClinicRepresentative = value
	case "phone":
		s.fields.Phone = value
	case "email":
		s.fields.Email = value
	case "website":
		s.fields.Website = value
	default:
		return fmt.Errorf("unknown field %q", name)
	}
	return nil
}

// Save validates the required fields, PUTs the full field set, re-fetches
// the canonical profile, and lands in Viewing. Validation failures never
// reach the network. A failed save leaves mode and fields untouched so the
// user may fix and retry.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	if s.saving {
		s.mu.Unlock()
		return ErrSaveInFlight
	}
	if s.mode == ModeViewing {
		s.mu.Unlock()
		return ErrNotEditable
	}
	if strings.TrimSpace(s.fields.ClinicName) == "" {
		s.mu.Unlock()
		return ErrClinicRequired
	}
	if strings.TrimSpace(s.fields.Address) == "" {
		s.mu.Unlock()
		return ErrAddressNeeded
	}
	body := s.fields
	body.UpdatedAt = ""
	s.saving = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.saving = false
		s.mu.Unlock()
	}()

	var ack saveResponse
	if err := s.client.Put(ctx, apiPath, body, &ack); err != nil {
		s.log.Error().Err(err).Msg("failed to save profile")
		return fmt.Errorf("failed to save profile: %w", err)
	}

	// The save acknowledgment echoes the profile, but the stored record is
	// re-fetched so the view always shows canonical server state.
	var resp Response
	if err := s.client.Get(ctx, apiPath, &resp); err != nil {
		s.log.Warn().Err(err).Msg("saved but failed to reload profile")
		resp = Response{Exists: true, Profile: ack.Profile}
	}

	s.mu.Lock()
	s.mode = ModeViewing
	s.fields = resp.Profile
	s.snapshot = resp.Profile
	s.notice = ""
	s.mu.Unlock()

	s.log.Info().Msg("profile saved")
	return nil
}
