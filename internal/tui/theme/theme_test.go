package theme

import "testing"

func TestByName(t *testing.T) {
	for _, th := range All {
		if got := ByName(th.Name); got.Name != th.Name {
			t.Errorf("ByName(%q) = %q", th.Name, got.Name)
		}
	}
	if got := ByName("solarized"); got.Name != FlexokiDark.Name {
		t.Errorf("unknown theme fell back to %q, want %q", got.Name, FlexokiDark.Name)
	}
}

func TestSetActive(t *testing.T) {
	t.Cleanup(func() { Active = FlexokiDark })

	SetActive("tokyo-night")
	if Active.Name != "tokyo-night" {
		t.Errorf("Active = %q, want tokyo-night", Active.Name)
	}
	if got := Names(); len(got) != len(All) || got[0] != "flexoki-dark" {
		t.Errorf("Names = %v", got)
	}
}
