// Package domain holds DTOs for drawings http and service contracts
package domain

import "time"

// CreateDrawingInput is the payload for a new drawing
type CreateDrawingInput struct {
	Name     string  `json:"name" validate:"required,min=1,max=120" example:"Office party 2026"`
	MaxValue float64 `json:"max_value" validate:"required,gt=0" example:"25"`
}

// UpdateDrawingInput changes name and budget, absent fields are kept
type UpdateDrawingInput struct {
	Name     *string  `json:"name,omitempty" validate:"omitempty,min=1,max=120" example:"Office party"`
	MaxValue *float64 `json:"max_value,omitempty" validate:"omitempty,gt=0" example:"30"`
}

// ParticipantInput adds a participant
type ParticipantInput struct {
	Name  string `json:"name" validate:"required,min=1,max=80" example:"Maria"`
	Phone string `json:"phone" validate:"required,phone" example:"912345678"`
}

// UpdateParticipantInput changes a participant, absent fields are kept
type UpdateParticipantInput struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=80" example:"Maria João"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,phone" example:"+351912345678"`
}

// RestrictionInput forbids from drawing to, and to drawing from unless OneWay
type RestrictionInput struct {
	From   string `json:"from" validate:"required" example:"2b1d0a6e-4c55-4a53-9d0b-5a8a6a4f0a11"`
	To     string `json:"to" validate:"required" example:"9f7c1e2a-0b7e-4f43-8f0f-3c2e1d4b5a66"`
	OneWay bool   `json:"one_way,omitempty" example:"false"`
}

// FixationInput forces from to draw to
type FixationInput struct {
	From string `json:"from" validate:"required" example:"2b1d0a6e-4c55-4a53-9d0b-5a8a6a4f0a11"`
	To   string `json:"to" validate:"required" example:"9f7c1e2a-0b7e-4f43-8f0f-3c2e1d4b5a66"`
}

// Participant is a person in a drawing
type Participant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Restriction is one forbidden giver to receiver edge
// mutual restrictions are two rows sharing PairID
type Restriction struct {
	ID     string `json:"id"`
	From   string `json:"from"`
	To     string `json:"to"`
	PairID string `json:"pair_id"`
}

// Fixation is a forced giver to receiver edge
type Fixation struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
}

// DrawInfo describes the stored draw
type DrawInfo struct {
	DrawnAt  time.Time `json:"drawn_at"`
	Attempts int       `json:"attempts"`
	Strategy string    `json:"strategy"`
	Pairs    int       `json:"pairs"`
}

// Drawing is the organizer view of a drawing
type Drawing struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	MaxValue       float64       `json:"max_value"`
	OrganizerToken string        `json:"organizer_token"`
	ResultsURL     string        `json:"results_url,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	Participants   []Participant `json:"participants"`
	Restrictions   []Restriction `json:"restrictions"`
	Fixations      []Fixation    `json:"fixations"`
	Draw           *DrawInfo     `json:"draw,omitempty"`
}

// Created is returned once, the edit token is never shown again
type Created struct {
	Drawing
	EditToken string `json:"edit_token"`
}

// ResultPair is one giver and who they drew
// organizer views carry contact and links, participant views do not
type ResultPair struct {
	Giver      string `json:"giver"`
	GiverPhone string `json:"giver_phone,omitempty"`
	Receiver   string `json:"receiver"`
	ResultURL  string `json:"result_url,omitempty"`
	WhatsApp   string `json:"whatsapp,omitempty"`
}

// Results is the result view for a token holder
type Results struct {
	DrawingName string       `json:"drawing_name"`
	MaxValue    float64      `json:"max_value"`
	DrawnAt     time.Time    `json:"drawn_at"`
	IsOrganizer bool         `json:"is_organizer"`
	Results     []ResultPair `json:"results,omitempty"`
	YourResult  *ResultPair  `json:"your_result,omitempty"`
}

// NotifyReport lists one outcome per giver
type NotifyReport struct {
	Sent       int        `json:"sent"`
	Failed     int        `json:"failed"`
	Deliveries []Delivery `json:"deliveries"`
}

// Delivery is the notify outcome for one giver
type Delivery struct {
	Name  string `json:"name"`
	Sent  bool   `json:"sent"`
	Link  string `json:"link,omitempty"`
	Error string `json:"error,omitempty"`
}
