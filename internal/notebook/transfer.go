package notebook

import (
	"encoding/json"
	"fmt"
)

// Export encodes subjects in the JSON export format.
func Export(subjects []Subject) ([]byte, error) {
	data, err := json.MarshalIndent(subjects, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json.MarshalIndent > %w", err)
	}
	return data, nil
}

// legacyProbe is enough of an exported element to tell the two formats apart.
type legacyProbe struct {
	Definitions json.RawMessage `json:"definitions"`
	Chapters    json.RawMessage `json:"chapters"`
}

// Import decodes an export. It accepts the current format, an array of
// subjects, and the older one, an array of chapters, which ends up in a
// single "General" subject.
func Import(data []byte) ([]Subject, error) {
	var probes []legacyProbe
	if err := json.Unmarshal(data, &probes); err != nil {
		return nil, fmt.Errorf("invalid export file: %w", err)
	}

	if len(probes) > 0 && probes[0].Definitions != nil && probes[0].Chapters == nil {
		var chapters []Chapter
		if err := json.Unmarshal(data, &chapters); err != nil {
			return nil, fmt.Errorf("invalid chapter export: %w", err)
		}
		subjects := []Subject{WrapChapters(chapters)}
		Normalize(subjects)
		return subjects, nil
	}

	var subjects []Subject
	if err := json.Unmarshal(data, &subjects); err != nil {
		return nil, fmt.Errorf("invalid subject export: %w", err)
	}
	if subjects == nil {
		subjects = []Subject{}
	}
	Normalize(subjects)
	return subjects, nil
}

// WrapChapters puts chapters from the flat, subject-less layout into a "General" subject.
func WrapChapters(chapters []Chapter) Subject {
	if chapters == nil {
		chapters = []Chapter{}
	}
	return Subject{
		ID:       newID(),
		Name:     "General",
		Color:    DefaultSubjectColor,
		Chapters: chapters,
	}
}
