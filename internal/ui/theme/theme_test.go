package theme

import "testing"

func TestUse(t *testing.T) {
	t.Cleanup(func() { Use("dark") })

	Use("light")
	if Name() != "light" {
		t.Errorf("Name = %q, want light", Name())
	}
	if Text != Light.Text || BgCard != Light.BgCard {
		t.Error("light palette not applied")
	}

	Use("neon")
	if Name() != "dark" {
		t.Errorf("unknown theme should select dark, got %q", Name())
	}
	if Text != Dark.Text {
		t.Error("dark palette not applied")
	}
}
