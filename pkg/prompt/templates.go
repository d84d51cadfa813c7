package prompt

const Prefix = "Photorealistic architectural visualization of sustainable construction. " +
	"Natural building materials: hempcrete walls, rammed earth, cob, adobe, living green roofs, timber frame structure. " +
	"Permaculture landscaping. The building should look real, lived-in, and beautiful, not futuristic or sci-fi."

var StyleModifiers = map[string]string{
	"photorealistic": "DSLR architectural photography, golden hour warm lighting, 85mm lens, shallow depth of field, professional real estate photo",
	"sketch":         "Architectural concept sketch, pencil and watercolor on warm textured paper, hand-drawn feel, loose confident lines",
	"blueprint":      "Technical architectural blueprint, white lines on dark blue background, annotated dimensions, cross-section view",
}

var ClimateContext = map[string]string{
	"high-desert": "Red rock desert landscape, sage and juniper, wide open sky, arid terrain, warm earth tones",
	"prairie":     "Open grassland, big sky, windbreak trees, gentle rolling terrain, golden light",
	"forest":      "Dense conifer forest, dappled sunlight, moss and fern undergrowth, rich greens",
	"coastal":     "Ocean coastal setting, salt-tolerant native plants, sandy soil, weathered natural wood",
	"mountain":    "Alpine meadow, mountain backdrop, stone foundation, steep pitched roof for snow",
	"tropical":    "Lush tropical vegetation, palm shade, open-air design, cross-ventilation, bright light",
}

var StructureContext = map[string]string{
	"single-home":   "Single family residence, one story",
	"duplex":        "Duplex two-unit dwelling, shared wall",
	"community-hub": "Community gathering building, large open interior, welcoming entrance",
	"workshop":      "Workshop and maker space, high ceilings, large doors, functional layout",
	"full-village":  "Small village or co-housing community, multiple structures, shared courtyard, pathways",
}
