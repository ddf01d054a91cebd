package interpret

import (
	"strings"

	"github.com/fittingroom/fitsearch/internal/domain"
)

// aestheticEntry pairs a well-known aesthetic name with representative
// attributes. Ordered: the first name contained in the input wins.
type aestheticEntry struct {
	name       string
	attributes []domain.StyleAttribute
}

var aestheticTable = []aestheticEntry{
	{"clean girl", []domain.StyleAttribute{
		{ItemType: "blazer", Color: "beige", Style: "minimalist"},
		{ItemType: "slip dress", Color: "white", Style: "sleek"},
		{ItemType: "trousers", Color: "cream", Style: "tailored"},
	}},
	{"cottagecore", []domain.StyleAttribute{
		{ItemType: "midi dress", Color: "floral", Style: "romantic"},
		{ItemType: "blouse", Color: "white", Style: "vintage"},
		{ItemType: "cardigan", Color: "sage green", Style: "cozy"},
	}},
	{"dark academia", []domain.StyleAttribute{
		{ItemType: "blazer", Color: "brown", Style: "tweed"},
		{ItemType: "turtleneck", Color: "black", Style: "scholarly"},
		{ItemType: "pleated skirt", Color: "dark grey", Style: "preppy"},
	}},
	{"streetwear", []domain.StyleAttribute{
		{ItemType: "hoodie", Color: "black", Style: "oversized"},
		{ItemType: "cargo pants", Color: "olive", Style: "urban"},
		{ItemType: "sneakers", Color: "white", Style: "chunky"},
	}},
	{"minimalist", []domain.StyleAttribute{
		{ItemType: "t-shirt", Color: "white", Style: "clean"},
		{ItemType: "trousers", Color: "black", Style: "straight-leg"},
		{ItemType: "coat", Color: "grey", Style: "structured"},
	}},
	{"boho", []domain.StyleAttribute{
		{ItemType: "maxi dress", Color: "earthy", Style: "flowy"},
		{ItemType: "kimono", Color: "patterned", Style: "bohemian"},
		{ItemType: "wide-leg pants", Color: "rust", Style: "relaxed"},
	}},
	{"preppy", []domain.StyleAttribute{
		{ItemType: "polo shirt", Color: "navy", Style: "classic"},
		{ItemType: "chinos", Color: "khaki", Style: "tailored"},
		{ItemType: "sweater", Color: "striped", Style: "collegiate"},
	}},
	{"grunge", []domain.StyleAttribute{
		{ItemType: "flannel shirt", Color: "red plaid", Style: "oversized"},
		{ItemType: "jeans", Color: "black", Style: "ripped"},
		{ItemType: "boots", Color: "black", Style: "combat"},
	}},
	{"romantic", []domain.StyleAttribute{
		{ItemType: "dress", Color: "blush pink", Style: "ruffled"},
		{ItemType: "blouse", Color: "ivory", Style: "lace"},
		{ItemType: "skirt", Color: "pastel", Style: "flowy"},
	}},
	{"sporty", []domain.StyleAttribute{
		{ItemType: "leggings", Color: "black", Style: "athletic"},
		{ItemType: "jacket", Color: "grey", Style: "track"},
		{ItemType: "tank top", Color: "white", Style: "performance"},
	}},
	{"elegant", []domain.StyleAttribute{
		{ItemType: "dress", Color: "black", Style: "evening"},
		{ItemType: "blouse", Color: "silk champagne", Style: "refined"},
		{ItemType: "heels", Color: "nude", Style: "classic"},
	}},
	{"casual", []domain.StyleAttribute{
		{ItemType: "t-shirt", Color: "white", Style: "relaxed"},
		{ItemType: "jeans", Color: "blue", Style: "straight"},
		{ItemType: "sneakers", Color: "white", Style: "everyday"},
	}},
	{"vintage", []domain.StyleAttribute{
		{ItemType: "dress", Color: "polka dot", Style: "retro"},
		{ItemType: "high-waisted jeans", Color: "light blue", Style: "70s"},
		{ItemType: "jacket", Color: "brown", Style: "suede"},
	}},
	{"modern", []domain.StyleAttribute{
		{ItemType: "blazer", Color: "black", Style: "sharp"},
		{ItemType: "top", Color: "white", Style: "asymmetric"},
		{ItemType: "trousers", Color: "charcoal", Style: "cropped"},
	}},
	{"edgy", []domain.StyleAttribute{
		{ItemType: "leather jacket", Color: "black", Style: "moto"},
		{ItemType: "jeans", Color: "black", Style: "skinny"},
		{ItemType: "boots", Color: "black", Style: "studded"},
	}},
}

// fallbackAttributes maps the input to the first matching aesthetic entry.
// Unknown inputs still yield a usable generic pair so retrieval has
// something to work with.
func fallbackAttributes(text string) []domain.StyleAttribute {
	lowered := strings.ToLower(text)
	for _, entry := range aestheticTable {
		if strings.Contains(lowered, entry.name) {
			return entry.attributes
		}
	}
	return []domain.StyleAttribute{
		{ItemType: "top", Color: "neutral", Style: text},
		{ItemType: "bottom", Color: "neutral", Style: text},
	}
}
