package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"custodia/internal/custodia/scan"
	"custodia/internal/custodia/store"
	"custodia/internal/custodia/types"
)

// Directory is the administrative edit surface for people. Deactivation
// flips status; nothing here ever deletes a row, so closed transactions
// keep valid references.
type Directory struct {
	people store.PersonStore
	now    func() time.Time
}

type DirectoryOption func(*Directory)

func WithDirectoryClock(now func() time.Time) DirectoryOption {
	return func(d *Directory) { d.now = now }
}

func NewDirectory(people store.PersonStore, opts ...DirectoryOption) *Directory {
	d := &Directory{people: people, now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// PersonInput carries the editable fields of a person. On Update an empty
// field keeps the current value; text fields cannot be cleared, only
// replaced.
type PersonInput struct {
	BadgeToken  string
	PIN         string
	DisplayName string
	Role        string
	Department  string
}

func (d *Directory) Create(ctx context.Context, in PersonInput) (types.Person, error) {
	token := scan.Normalize(in.BadgeToken)
	if token == "" {
		return types.Person{}, ErrTokenRequired
	}
	name := strings.TrimSpace(in.DisplayName)
	if name == "" {
		return types.Person{}, ErrNameRequired
	}
	if !validPIN(in.PIN) {
		return types.Person{}, ErrInvalidPIN
	}
	role, err := types.ParseRole(in.Role)
	if err != nil {
		return types.Person{}, fmt.Errorf("create person: %w: %v", ErrInvalidArgument, err)
	}

	now := d.now().UTC()
	p := types.Person{
		ID:          uuid.NewString(),
		BadgeToken:  token,
		PIN:         in.PIN,
		DisplayName: name,
		Role:        role,
		Department:  strings.TrimSpace(in.Department),
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := d.people.Create(ctx, p); err != nil {
		return types.Person{}, err
	}
	return p, nil
}

// Update rewrites a person's editable fields. An empty field keeps the
// current value.
func (d *Directory) Update(ctx context.Context, id string, in PersonInput) (types.Person, error) {
	p, err := d.people.GetByID(ctx, id)
	if err != nil {
		return types.Person{}, err
	}

	if token := scan.Normalize(in.BadgeToken); token != "" {
		p.BadgeToken = token
	}
	if name := strings.TrimSpace(in.DisplayName); name != "" {
		p.DisplayName = name
	}
	if in.Role != "" {
		role, err := types.ParseRole(in.Role)
		if err != nil {
			return types.Person{}, fmt.Errorf("update person: %w: %v", ErrInvalidArgument, err)
		}
		p.Role = role
	}
	if in.Department != "" {
		p.Department = strings.TrimSpace(in.Department)
	}
	if in.PIN != "" {
		if !validPIN(in.PIN) {
			return types.Person{}, ErrInvalidPIN
		}
		p.PIN = in.PIN
	}
	p.UpdatedAt = d.now().UTC()

	if err := d.people.Update(ctx, p); err != nil {
		return types.Person{}, err
	}
	return p, nil
}

func (d *Directory) Deactivate(ctx context.Context, id string) error {
	return d.people.SetActive(ctx, id, false, d.now().UTC())
}

func (d *Directory) Reactivate(ctx context.Context, id string) error {
	return d.people.SetActive(ctx, id, true, d.now().UTC())
}

func (d *Directory) List(ctx context.Context) ([]types.Person, error) {
	return d.people.List(ctx)
}

// Search finds active people whose display name contains the query
// (case-insensitive) or whose badge token matches it after normalization,
// so a raw scan string works as a query. An empty query returns all
// active people.
func (d *Directory) Search(ctx context.Context, q string) ([]types.Person, error) {
	people, err := d.people.List(ctx)
	if err != nil {
		return nil, err
	}

	token := scan.Normalize(q)
	needle := strings.ToLower(strings.TrimSpace(q))

	out := make([]types.Person, 0, len(people))
	for _, p := range people {
		if !p.Active {
			continue
		}
		if needle == "" ||
			(token != "" && p.BadgeToken == token) ||
			strings.Contains(strings.ToLower(p.DisplayName), needle) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (d *Directory) Get(ctx context.Context, id string) (types.Person, error) {
	return d.people.GetByID(ctx, id)
}
