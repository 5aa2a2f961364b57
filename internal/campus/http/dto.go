package http

import (
	"time"

	"github.com/campushub/campushub/internal/campus/domain"
)

type accountResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Phone      string    `json:"phone,omitempty"`
	Department string    `json:"department,omitempty"`
	Year       int       `json:"year,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func newAccountResponse(a domain.Account) accountResponse {
	return accountResponse{
		ID:         a.ID,
		Name:       a.Name,
		Email:      a.Email,
		Role:       string(a.Role),
		Phone:      a.Phone,
		Department: a.Department,
		Year:       a.Year,
		CreatedAt:  a.CreatedAt,
	}
}

type tokenResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int64           `json:"expires_in"`
	Account     accountResponse `json:"account"`
}

type societyResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	HeadID       string    `json:"head_id"`
	ContactEmail string    `json:"contact_email"`
	Description  string    `json:"description,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

func newSocietyResponse(s domain.Society) societyResponse {
	return societyResponse{
		ID:           s.ID,
		Name:         s.Name,
		HeadID:       s.HeadID,
		ContactEmail: s.ContactEmail,
		Description:  s.Description,
		Active:       s.Active,
		CreatedAt:    s.CreatedAt,
	}
}

type fieldResponse struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Kind     string   `json:"kind"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

type eventResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	Venue       string `json:"venue,omitempty"`
	SocietyID   string `json:"society_id,omitempty"`
	OrganizerID string `json:"organizer_id"`
	Status      string `json:"status"`

	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`

	RegistrationOpen    bool      `json:"registration_open"`
	RegistrationStartAt time.Time `json:"registration_start_at"`
	RegistrationEndAt   time.Time `json:"registration_end_at"`

	TeamEvent   bool `json:"team_event"`
	MinTeamSize int  `json:"min_team_size,omitempty"`
	MaxTeamSize int  `json:"max_team_size,omitempty"`
	MaxTeams    int  `json:"max_teams,omitempty"`

	Fields []fieldResponse `json:"fields"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newEventResponse(e domain.Event) eventResponse {
	fields := make([]fieldResponse, 0, len(e.Fields))
	for _, f := range e.Fields {
		fields = append(fields, fieldResponse{
			ID:       f.ID,
			Label:    f.Label,
			Kind:     string(f.Kind),
			Required: f.Required,
			Options:  f.Options,
		})
	}
	return eventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Category:    e.Category,
		Venue:       e.Venue,
		SocietyID:   e.SocietyID,
		OrganizerID: e.OrganizerID,
		Status:      string(e.Status),

		StartAt: e.StartAt,
		EndAt:   e.EndAt,

		RegistrationOpen:    e.RegistrationOpen,
		RegistrationStartAt: e.RegistrationStartAt,
		RegistrationEndAt:   e.RegistrationEndAt,

		TeamEvent:   e.TeamEvent,
		MinTeamSize: e.MinTeamSize,
		MaxTeamSize: e.MaxTeamSize,
		MaxTeams:    e.MaxTeams,

		Fields: fields,

		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func newEventListResponse(events []domain.Event) []eventResponse {
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, newEventResponse(e))
	}
	return out
}

type memberResponse struct {
	ID           string     `json:"id"`
	AccountID    string     `json:"account_id,omitempty"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Role         string     `json:"role"`
	InviteStatus string     `json:"invite_status"`
	Position     int        `json:"position"`
	InvitedAt    time.Time  `json:"invited_at"`
	RespondedAt  *time.Time `json:"responded_at,omitempty"`
}

type answerResponse struct {
	FieldID string     `json:"field_id"`
	Label   string     `json:"label"`
	Kind    string     `json:"kind"`
	Text    string     `json:"text,omitempty"`
	Number  *float64   `json:"number,omitempty"`
	Date    *time.Time `json:"date,omitempty"`
}

type registrationResponse struct {
	ID        string           `json:"id"`
	EventID   string           `json:"event_id"`
	LeaderID  string           `json:"leader_id"`
	TeamEvent bool             `json:"team_event"`
	TeamName  string           `json:"team_name,omitempty"`
	Status    string           `json:"status"`
	Members   []memberResponse `json:"members"`
	Answers   []answerResponse `json:"answers"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func newRegistrationResponse(r domain.Registration) registrationResponse {
	members := make([]memberResponse, 0, len(r.Members))
	for _, m := range r.Members {
		members = append(members, memberResponse{
			ID:           m.ID,
			AccountID:    m.Ref.AccountID,
			Email:        m.Ref.Email,
			Name:         m.Ref.Name,
			Role:         string(m.Role),
			InviteStatus: string(m.InviteStatus),
			Position:     m.Position,
			InvitedAt:    m.InvitedAt,
			RespondedAt:  m.RespondedAt,
		})
	}
	answers := make([]answerResponse, 0, len(r.Answers))
	for _, a := range r.Answers {
		answers = append(answers, answerResponse{
			FieldID: a.FieldID,
			Label:   a.Label,
			Kind:    string(a.Kind),
			Text:    a.Text,
			Number:  a.Number,
			Date:    a.Date,
		})
	}
	return registrationResponse{
		ID:        r.ID,
		EventID:   r.EventID,
		LeaderID:  r.LeaderID,
		TeamEvent: r.TeamEvent,
		TeamName:  r.TeamName,
		Status:    string(r.Status),
		Members:   members,
		Answers:   answers,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func newRegistrationListResponse(regs []domain.Registration) []registrationResponse {
	out := make([]registrationResponse, 0, len(regs))
	for _, r := range regs {
		out = append(out, newRegistrationResponse(r))
	}
	return out
}
