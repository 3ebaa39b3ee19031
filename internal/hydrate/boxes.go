// Package hydrate shapes relational store results into the nested view
// models ("boxes") the crew and run pages consume.
package hydrate

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gofast-app/gofast/internal/store"
)

// upcomingRunLimit caps how many runs a crew box carries.
const upcomingRunLimit = 10

// Reader is the slice of the store the hydrator needs. *store.Store
// satisfies it; tests substitute a fake.
type Reader interface {
	GetCrewByID(ctx context.Context, id uuid.UUID) (*store.RunCrew, error)
	ListMembers(ctx context.Context, crewID uuid.UUID) ([]store.Membership, error)
	ListUpcomingCrewRuns(ctx context.Context, crewID uuid.UUID, limit int) ([]store.CrewRun, error)
	GetCrewRunByID(ctx context.Context, id uuid.UUID) (*store.CrewRun, error)
	ListRSVPs(ctx context.Context, runID uuid.UUID) ([]store.RSVP, error)
	GetRSVPCounts(ctx context.Context, runID uuid.UUID) (*store.RSVPCounts, error)
	GetRSVP(ctx context.Context, runID, athleteID uuid.UUID) (*store.RSVP, error)
}

// RunBox is a run with its attendance shaped in.
type RunBox struct {
	Run        store.CrewRun    `json:"run"`
	Counts     store.RSVPCounts `json:"counts"`
	ViewerRSVP *store.RSVP      `json:"viewerRsvp,omitempty"`
	RSVPs      []store.RSVP     `json:"rsvps,omitempty"`
}

// CrewBox is a crew with its roster and upcoming run boxes.
type CrewBox struct {
	Crew        store.RunCrew      `json:"crew"`
	Members     []store.Membership `json:"members"`
	MemberCount int                `json:"memberCount"`
	Upcoming    []RunBox           `json:"upcoming"`
}

// Hydrator assembles boxes from a Reader.
type Hydrator struct {
	reader Reader
}

// New creates a Hydrator over the given reader.
func New(reader Reader) *Hydrator {
	return &Hydrator{reader: reader}
}

// CrewBox assembles the crew view model. The roster and the upcoming run
// list are fetched concurrently, then each run's attendance is filled in,
// also concurrently. viewerID may be uuid.Nil for anonymous viewers.
// Returns nil when the crew does not exist.
func (h *Hydrator) CrewBox(ctx context.Context, crewID, viewerID uuid.UUID) (*CrewBox, error) {
	crew, err := h.reader.GetCrewByID(ctx, crewID)
	if err != nil {
		return nil, err
	}
	if crew == nil {
		return nil, nil
	}

	box := &CrewBox{Crew: *crew}

	var runs []store.CrewRun
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		members, err := h.reader.ListMembers(gctx, crewID)
		if err != nil {
			return fmt.Errorf("hydrate members: %w", err)
		}
		box.Members = members
		return nil
	})
	g.Go(func() error {
		var err error
		runs, err = h.reader.ListUpcomingCrewRuns(gctx, crewID, upcomingRunLimit)
		if err != nil {
			return fmt.Errorf("hydrate upcoming runs: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	box.MemberCount = len(box.Members)

	box.Upcoming = make([]RunBox, len(runs))
	g, gctx = errgroup.WithContext(ctx)
	for i, run := range runs {
		g.Go(func() error {
			runBox, err := h.attendance(gctx, run, viewerID, false)
			if err != nil {
				return err
			}
			box.Upcoming[i] = *runBox
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return box, nil
}

// RunBox assembles a single run's view model including the full RSVP list.
// Returns nil when the run does not exist.
func (h *Hydrator) RunBox(ctx context.Context, runID, viewerID uuid.UUID) (*RunBox, error) {
	run, err := h.reader.GetCrewRunByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, nil
	}
	return h.attendance(ctx, *run, viewerID, true)
}

func (h *Hydrator) attendance(ctx context.Context, run store.CrewRun, viewerID uuid.UUID, withList bool) (*RunBox, error) {
	box := &RunBox{Run: run}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		counts, err := h.reader.GetRSVPCounts(gctx, run.ID)
		if err != nil {
			return fmt.Errorf("hydrate rsvp counts: %w", err)
		}
		box.Counts = *counts
		return nil
	})
	if viewerID != uuid.Nil {
		g.Go(func() error {
			rsvp, err := h.reader.GetRSVP(gctx, run.ID, viewerID)
			if err != nil {
				return fmt.Errorf("hydrate viewer rsvp: %w", err)
			}
			box.ViewerRSVP = rsvp
			return nil
		})
	}
	if withList {
		g.Go(func() error {
			rsvps, err := h.reader.ListRSVPs(gctx, run.ID)
			if err != nil {
				return fmt.Errorf("hydrate rsvp list: %w", err)
			}
			box.RSVPs = rsvps
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return box, nil
}
