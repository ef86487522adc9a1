// Package profile manages the clinic profile: a singleton record holding
// clinic identity, registration, doctor sub-records, and the display labels
// printed on generated documents.
package profile

import "encoding/json"

// Profile is the clinic profile as the API exchanges it. Every field is a
// plain string; missing values are empty strings so form inputs always have
// something renderable.
type Profile struct {
	ClinicName            string `json:"clinicName"`
	Address               string `json:"address"`
	PAN                   string `json:"pan"`
	RegNo                 string `json:"regNo"`
	Doctor1Name           string `json:"doctor1Name"`
	Doctor1RegNo          string `json:"doctor1RegNo"`
	Doctor2Name           string `json:"doctor2Name"`
	Doctor2RegNo          string `json:"doctor2RegNo"`
	PatientRepresentative string `json:"patientRepresentative"`
	ClinicRepresentative  string `json:"clinicRepresentative"`
	Phone                 string `json:"phone"`
	Email                 string `json:"email"`
	Website               string `json:"website"`
	UpdatedAt             string `json:"updatedAt,omitempty"`
}

// Response is the decoded result of a profile fetch. The server answers in
// one of three shapes: {"exists": false}, {"exists": true, ...fields}, or a
// bare profile object with no exists marker. Decoding settles the shape once
// so callers only ever see Exists plus a Profile.
type Response struct {
	Exists  bool
	Profile Profile
}

// UnmarshalJSON accepts all three wire shapes. A bare object without an
// exists marker counts as an existing profile.
func (r *Response) UnmarshalJSON(data []byte) error {
	var probe struct {
		Exists *bool `json:"exists"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Exists != nil && !*probe.Exists {
		*r = Response{}
		return nil
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Response{Exists: true, Profile: p}
	return nil
}

// saveResponse is the update endpoint's acknowledgment.
type saveResponse struct {
	Success bool    `json:"success"`
	Profile Profile `json:"profile"`
}
