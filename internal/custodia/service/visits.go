package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"custodia/internal/custodia/store"
	"custodia/internal/custodia/types"
)

// VisitService tracks visitor and staff-vehicle presence. Unlike the
// custody ledger there is no ownership invariant: the same person may
// have several records on premises at once.
type VisitService struct {
	visits store.VisitStore
	people store.PersonStore
	now    func() time.Time
}

type VisitOption func(*VisitService)

func WithVisitClock(now func() time.Time) VisitOption {
	return func(s *VisitService) { s.now = now }
}

func NewVisitService(visits store.VisitStore, people store.PersonStore, opts ...VisitOption) *VisitService {
	s := &VisitService{visits: visits, people: people, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type ArriveRequest struct {
	Kind types.VisitKind

	// Either a registered person (by id) or a free-text visitor name.
	PersonID    string
	VisitorName string

	HostID     string // optional person being visited
	VehicleReg string
	Purpose    string
}

func (s *VisitService) Arrive(ctx context.Context, req ArriveRequest) (types.Visit, error) {
	if _, err := types.ParseVisitKind(string(req.Kind)); err != nil {
		return types.Visit{}, fmt.Errorf("arrive: %w: %v", ErrInvalidArgument, err)
	}

	v := types.Visit{
		ID:          uuid.NewString(),
		Kind:        req.Kind,
		VisitorName: strings.TrimSpace(req.VisitorName),
		VehicleReg:  strings.ToUpper(strings.TrimSpace(req.VehicleReg)),
		Purpose:     strings.TrimSpace(req.Purpose),
		EnteredAt:   s.now().UTC(),
		Status:      types.VisitOnPremises,
	}

	if req.PersonID != "" {
		p, err := s.people.GetByID(ctx, req.PersonID)
		if err != nil {
			return types.Visit{}, fmt.Errorf("arrive person: %w", err)
		}
		v.PersonID = p.ID
		if v.VisitorName == "" {
			v.VisitorName = p.DisplayName
		}
	}
	if v.PersonID == "" && v.VisitorName == "" {
		return types.Visit{}, ErrVisitorRequired
	}

	// Vehicle kinds need a registration to match at the gate on exit.
	if req.Kind != types.VisitWalkIn && v.VehicleReg == "" {
		return types.Visit{}, ErrVehicleRegRequired
	}

	if req.HostID != "" {
		if _, err := s.people.GetByID(ctx, req.HostID); err != nil {
			return types.Visit{}, fmt.Errorf("arrive host: %w", err)
		}
		v.HostID = req.HostID
	}

	if err := s.visits.Create(ctx, v); err != nil {
		return types.Visit{}, err
	}
	return v, nil
}

// Depart closes an on-premises record. Conflict if already departed.
func (s *VisitService) Depart(ctx context.Context, visitID string) (types.Visit, error) {
	return s.visits.Depart(ctx, visitID, s.now().UTC())
}

func (s *VisitService) OnPremises(ctx context.Context) ([]types.Visit, error) {
	return s.visits.ListOnPremises(ctx)
}

func (s *VisitService) History(ctx context.Context, limit int) ([]types.Visit, error) {
	return s.visits.History(ctx, limit)
}
