package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestProjectJSONRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := Project{
		SchemaVersion: CurrentSchemaVersion,
		Name:          "RoundTrip",
		CreatedAt:     now,
		UpdatedAt:     now,
		Screenplays: []ScreenplayRef{
			{ID: "a1b2", Title: "Pilot", File: "pilot.fountain", AddedAt: now},
		},
		Export: ExportSettings{Preset: "all"},
	}
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Project
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Name != p.Name || got.SchemaVersion != p.SchemaVersion {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}
	if len(got.Screenplays) != 1 || got.Screenplays[0].ID != "a1b2" {
		t.Fatalf("screenplays not preserved: %+v", got.Screenplays)
	}
	if !got.Screenplays[0].AddedAt.Equal(now) {
		t.Fatalf("addedAt not preserved: %v", got.Screenplays[0].AddedAt)
	}
}

func TestFindScreenplay(t *testing.T) {
	p := Project{Screenplays: []ScreenplayRef{
		{ID: "id-1", Title: "Pilot", File: "pilot.fountain"},
		{ID: "id-2", Title: "Finale", File: "finale.txt"},
	}}
	if sp, ok := p.FindScreenplay("id-2"); !ok || sp.Title != "Finale" {
		t.Fatalf("lookup by id failed: %+v ok=%v", sp, ok)
	}
	if sp, ok := p.FindScreenplay("pilot"); !ok || sp.ID != "id-1" {
		t.Fatalf("case-insensitive title lookup failed: %+v ok=%v", sp, ok)
	}
	if sp, ok := p.FindScreenplay("finale.txt"); !ok || sp.ID != "id-2" {
		t.Fatalf("file lookup failed: %+v ok=%v", sp, ok)
	}
	if _, ok := p.FindScreenplay("missing"); ok {
		t.Fatalf("expected miss for unknown key")
	}
}
