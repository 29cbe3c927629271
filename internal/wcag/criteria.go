package wcag

// Criterion describes one WCAG 2.1 success criterion relevant to images.
type Criterion struct {
	Name        string   `json:"name"`
	Level       string   `json:"level"`
	Description string   `json:"description"`
	Checks      []string `json:"checks"`
}

// Criteria is the fixed table of criterion identifiers used to group issues.
// The string keys are part of the report contract and must not change.
var Criteria = map[string]Criterion{
	"1.1.1": {
		Name:        "Non-text Content",
		Level:       "A",
		Description: "All non-text content has a text alternative that serves the equivalent purpose.",
		Checks:      []string{"has_alt", "alt_not_empty", "alt_not_filename", "alt_not_generic"},
	},
	"1.4.5": {
		Name:        "Images of Text",
		Level:       "AA",
		Description: "If the same visual presentation can be made using text alone, an image is not used.",
		Checks:      []string{"not_text_image"},
	},
	"1.4.9": {
		Name:        "Images of Text (No Exception)",
		Level:       "AAA",
		Description: "Images of text are only used for pure decoration or where a particular presentation is essential.",
		Checks:      []string{"not_text_image_strict"},
	},
	"1.4.6": {
		Name:        "Contrast (Enhanced)",
		Level:       "AAA",
		Description: "Text and images of text have a contrast ratio of at least 7:1.",
		Checks:      []string{"contrast_enhanced"},
	},
	"1.3.1": {
		Name:        "Info and Relationships",
		Level:       "A",
		Description: "Information conveyed through presentation can be programmatically determined.",
		Checks:      []string{"semantic_structure"},
	},
	"4.1.2": {
		Name:        "Name, Role, Value",
		Level:       "A",
		Description: "For all UI components, the name and role can be programmatically determined.",
		Checks:      []string{"role_attribute", "aria_labels"},
	},
}

// Page-level checks attribute to criteria outside the image table.
const (
	criterionSkipLink = "2.4.1"
	criterionPageLang = "3.1.1"
	criterionViewport = "1.4.4"
)
