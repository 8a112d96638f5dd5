package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"cleanbook/pkg/model"
)

func seedCell(repo *MemoryAvailabilityRepository, date, slot string, team int) model.SlotRef {
	repo.Put(model.AvailabilitySlot{Date: date, TimeSlot: slot, TeamNumber: team, IsAvailable: true})
	return model.SlotRef{Date: date, TimeSlot: slot, TeamNumber: team}
}

func TestMemoryClaim_ConcurrentClaimsHaveSingleWinner(t *testing.T) {
	repo := NewMemoryAvailabilityRepository()
	ref := seedCell(repo, "2026-11-03", "09:00-11:00", 1)

	const callers = 50
	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := repo.Claim(context.Background(), ref, fmt.Sprintf("booking-%d", i))
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if ok {
				atomic.AddInt32(&wins, 1)
			}
		}(i)
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly one winning claim, got %d", wins)
	}
	cell := repo.Get(ref)
	if cell.IsAvailable || cell.BookingID == "" {
		t.Errorf("expected cell held after claim, got %+v", cell)
	}
}

func TestMemoryRelease_Idempotent(t *testing.T) {
	repo := NewMemoryAvailabilityRepository()
	ref := seedCell(repo, "2026-11-03", "07:00-09:00", 2)
	ctx := context.Background()

	if ok, _ := repo.Claim(ctx, ref, "b-1"); !ok {
		t.Fatal("expected claim to succeed")
	}
	if ok, _ := repo.Release(ctx, "b-1"); !ok {
		t.Error("expected first release to report true")
	}
	if ok, _ := repo.Release(ctx, "b-1"); ok {
		t.Error("expected second release to report false")
	}

	cell := repo.Get(ref)
	if !cell.IsAvailable || cell.BookingID != "" {
		t.Errorf("expected cell open after release, got %+v", cell)
	}
}

func TestMemoryClaim_ReleaseRoundTrip(t *testing.T) {
	repo := NewMemoryAvailabilityRepository()
	ref := seedCell(repo, "2026-11-04", "13:00-15:00", 1)
	ctx := context.Background()

	before := *repo.Get(ref)
	if ok, _ := repo.Claim(ctx, ref, "b-2"); !ok {
		t.Fatal("expected claim to succeed")
	}
	if ok, _ := repo.Claim(ctx, ref, "b-3"); ok {
		t.Fatal("expected second claim on held cell to fail")
	}
	if ok, _ := repo.Release(ctx, "b-2"); !ok {
		t.Fatal("expected release to succeed")
	}
	if after := *repo.Get(ref); after != before {
		t.Errorf("cell not restored: before %+v after %+v", before, after)
	}
}

func TestMemoryClaim_UnknownCell(t *testing.T) {
	repo := NewMemoryAvailabilityRepository()
	ok, err := repo.Claim(context.Background(), model.SlotRef{Date: "2026-11-04", TimeSlot: "07:00-09:00", TeamNumber: 9}, "b")
	if err != nil || ok {
		t.Errorf("expected (false, nil) for missing cell, got (%v, %v)", ok, err)
	}
}

func TestMemoryBlock(t *testing.T) {
	repo := NewMemoryAvailabilityRepository()
	ref := seedCell(repo, "2026-11-05", "11:00-13:00", 1)
	ctx := context.Background()

	if ok, _ := repo.Block(ctx, ref, "holiday"); !ok {
		t.Fatal("expected block to succeed")
	}
	if ok, _ := repo.Claim(ctx, ref, "b"); ok {
		t.Error("expected claim on blocked cell to fail")
	}
	if ok, _ := repo.Release(ctx, ""); ok {
		t.Error("release must not reopen a blocked cell")
	}
	if ok, _ := repo.Unblock(ctx, ref); !ok {
		t.Fatal("expected unblock to succeed")
	}
	if ok, _ := repo.Claim(ctx, ref, "b"); !ok {
		t.Error("expected claim after unblock to succeed")
	}
}

func TestMemoryFindFirstOpen(t *testing.T) {
	repo := NewMemoryAvailabilityRepository()
	seedCell(repo, "2026-11-03", "07:00-09:00", 1)
	seedCell(repo, "2026-11-03", "15:00-17:00", 2)
	seedCell(repo, "2026-11-03", "15:00-17:00", 1)
	seedCell(repo, "2026-11-04", "07:00-09:00", 1)

	tests := []struct {
		name     string
		from     string
		firstDay []string
		want     *model.SlotRef
	}{
		{
			name:     "earliest slot then lowest team",
			from:     "2026-11-03",
			firstDay: []string{"09:00-11:00", "15:00-17:00"},
			want:     &model.SlotRef{Date: "2026-11-03", TimeSlot: "15:00-17:00", TeamNumber: 1},
		},
		{
			name:     "no slots left today",
			from:     "2026-11-03",
			firstDay: nil,
			want:     &model.SlotRef{Date: "2026-11-04", TimeSlot: "07:00-09:00", TeamNumber: 1},
		},
		{
			name:     "nothing in range",
			from:     "2026-11-05",
			firstDay: []string{"07:00-09:00"},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindFirstOpen(context.Background(), tt.from, "2026-11-30", tt.firstDay)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.want == nil {
				if got != nil {
					t.Errorf("expected nil, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected %+v, got nil", tt.want)
			}
			ref := model.SlotRef{Date: got.Date, TimeSlot: got.TimeSlot, TeamNumber: got.TeamNumber}
			if ref != *tt.want {
				t.Errorf("expected %+v, got %+v", *tt.want, ref)
			}
		})
	}
}

func TestMemoryEnsureCells_KeepsExisting(t *testing.T) {
	repo := NewMemoryAvailabilityRepository()
	ref := seedCell(repo, "2026-11-03", "07:00-09:00", 1)
	ctx := context.Background()
	if ok, _ := repo.Claim(ctx, ref, "b-1"); !ok {
		t.Fatal("expected claim to succeed")
	}

	inserted, err := repo.EnsureCells(ctx, []*model.AvailabilitySlot{
		{Date: "2026-11-03", TimeSlot: "07:00-09:00", TeamNumber: 1, IsAvailable: true},
		{Date: "2026-11-03", TimeSlot: "07:00-09:00", TeamNumber: 2, IsAvailable: true},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inserted != 1 {
		t.Errorf("expected 1 inserted cell, got %d", inserted)
	}
	if cell := repo.Get(ref); cell.IsAvailable || cell.BookingID != "b-1" {
		t.Errorf("existing cell was overwritten: %+v", cell)
	}
}
