package config

import "testing"

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("dense")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Stars.Spread != 18 {
		t.Errorf("expected spread 18, got %v", cfg.Stars.Spread)
	}
	if def := GetPreset("default"); def.Stars.Spread != DefaultStarSpread {
		t.Errorf("default preset changed spread to %v", def.Stars.Spread)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestPresetsKeepCounts(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		if cfg.Stars.Count != DefaultStarCount || cfg.Solids.Count != DefaultSolidCount {
			t.Errorf("preset %s: %d stars, %d solids", name, cfg.Stars.Count, cfg.Solids.Count)
		}
	}
}

func TestPresetsIndependent(t *testing.T) {
	a := GetPreset("calm")
	a.Stars.Spread = 1
	if b := GetPreset("calm"); b.Stars.Spread == 1 {
		t.Error("presets share state")
	}
}

func TestListPresets(t *testing.T) {
	want := []string{"calm", "default", "dense", "minimal"}
	got := ListPresets()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
		}
	}
}
