package phrases

var themeDescriptions = map[string]string{
	ThemeContextual: "Contextual text that enhances the scene and feels part of the story",
	ThemeCTA:        "Call-to-action (<= 5 words) that motivates action",
}

var styleDescriptions = map[string]string{
	StyleProfessional:  "Professional and business-focused",
	StyleCasual:        "Relaxed and conversational",
	StyleFunny:         "Humorous and light-hearted",
	StyleInspirational: "Motivational and uplifting",
	StyleTechnical:     "Technical and precise",
}

var sceneDescriptions = map[string]string{
	SceneProductDemo: "Product demonstration or showcase",
	SceneLifestyle:   "Lifestyle or aspirational content",
	SceneTutorial:    "Educational or how-to content",
	SceneTestimonial: "Customer testimonial or review",
}

var (
	themeOrder = []string{ThemeContextual, ThemeCTA}
	styleOrder = []string{StyleProfessional, StyleCasual, StyleFunny, StyleInspirational, StyleTechnical}
	sceneOrder = []string{SceneProductDemo, SceneLifestyle, SceneTutorial, SceneTestimonial}
)

type Entry struct {
	Name        string
	Description string
}

type Catalog struct {
	Themes []Entry
	Styles []Entry
	Scenes []Entry
}

// Describe lists every theme, style and scene name with its description, in
// display order.
func Describe() Catalog {
	return Catalog{
		Themes: entries(themeOrder, themeDescriptions),
		Styles: entries(styleOrder, styleDescriptions),
		Scenes: entries(sceneOrder, sceneDescriptions),
	}
}

func entries(order []string, desc map[string]string) []Entry {
	out := make([]Entry, 0, len(order))
	for _, name := range order {
		out = append(out, Entry{Name: name, Description: desc[name]})
	}
	return out
}
