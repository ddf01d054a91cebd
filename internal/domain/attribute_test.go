package domain

import "testing"

func TestStyleAttribute_Normalize(t *testing.T) {
	a := StyleAttribute{ItemType: "  blazer ", Color: " beige", Style: "minimalist  "}
	n := a.Normalize()
	if n.ItemType != "blazer" || n.Color != "beige" || n.Style != "minimalist" {
		t.Errorf("unexpected normalized attribute: %+v", n)
	}
}

func TestStyleAttribute_Valid(t *testing.T) {
	tests := []struct {
		name string
		attr StyleAttribute
		want bool
	}{
		{"complete", StyleAttribute{ItemType: "dress", Color: "black", Style: "evening"}, true},
		{"missing item type", StyleAttribute{Color: "black", Style: "evening"}, false},
		{"missing color", StyleAttribute{ItemType: "dress", Style: "evening"}, false},
		{"missing style", StyleAttribute{ItemType: "dress", Color: "black"}, false},
		{"empty", StyleAttribute{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.attr.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStyleAttribute_QueryText(t *testing.T) {
	a := StyleAttribute{ItemType: "blazer", Color: "beige", Style: "minimalist"}
	if got := a.QueryText(); got != "beige blazer minimalist" {
		t.Errorf("QueryText() = %q", got)
	}
}

func TestStyleAttribute_Keywords(t *testing.T) {
	a := StyleAttribute{ItemType: "blazer", Color: "beige", Style: "minimalist"}
	kw := a.Keywords()
	if len(kw) != 2 || kw[0] != "blazer" || kw[1] != "minimalist" {
		t.Errorf("Keywords() = %v", kw)
	}
}
