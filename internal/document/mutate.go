package document

import (
	"fmt"

	"careerstealth/internal/errors"
)

// Mutation helpers. All item-addressed operations key on the stable item
// identifier, never on slice position, so concurrent edits and reorders
// cannot redirect an update to the wrong item.

func notFound(section Section, id string) error {
	return errors.NewValidationError(errors.ErrCodeInvalidDocument,
		fmt.Sprintf("no item %q in section %s", id, section), nil)
}

// AddExperience appends a new entry to the given experience-shaped section
// and returns its identifier.
func (d *Document) AddExperience(section Section, item ExperienceItem) (string, error) {
	if item.ID == "" {
		item.ID = NewItemID()
	}
	if item.Points == nil {
		item.Points = []string{}
	}
	switch section {
	case SectionExperience:
		d.Experience = append(d.Experience, item)
	case SectionActivities:
		d.Activities = append(d.Activities, item)
	default:
		return "", errors.NewValidationError(errors.ErrCodeInvalidDocument,
			fmt.Sprintf("section %s does not hold experience items", section), nil)
	}
	return item.ID, nil
}

// UpdateExperience replaces the fields of an existing entry, keeping its
// identifier.
func (d *Document) UpdateExperience(section Section, id string, update ExperienceItem) error {
	items := d.experienceSlice(section)
	if items == nil {
		return notFound(section, id)
	}
	for i := range items {
		if items[i].ID == id {
			update.ID = id
			if update.Points == nil {
				update.Points = []string{}
			}
			items[i] = update
			return nil
		}
	}
	return notFound(section, id)
}

// SetPoint replaces one bullet point of an experience-shaped item.
func (d *Document) SetPoint(section Section, id string, index int, text string) error {
	items := d.experienceSlice(section)
	for i := range items {
		if items[i].ID == id {
			if index < 0 || index >= len(items[i].Points) {
				return errors.NewValidationError(errors.ErrCodeInvalidDocument,
					fmt.Sprintf("point index %d out of range for item %q", index, id), nil)
			}
			items[i].Points[index] = text
			return nil
		}
	}
	return notFound(section, id)
}

// PointText returns one bullet point of an experience-shaped item.
func (d *Document) PointText(section Section, id string, index int) (string, error) {
	items := d.experienceSlice(section)
	for i := range items {
		if items[i].ID == id {
			if index < 0 || index >= len(items[i].Points) {
				return "", errors.NewValidationError(errors.ErrCodeInvalidDocument,
					fmt.Sprintf("point index %d out of range for item %q", index, id), nil)
			}
			return items[i].Points[index], nil
		}
	}
	return "", notFound(section, id)
}

func (d *Document) experienceSlice(section Section) []ExperienceItem {
	switch section {
	case SectionExperience:
		return d.Experience
	case SectionActivities:
		return d.Activities
	}
	return nil
}

// RemoveItem deletes the identified item from its section. Remaining items
// keep their identifiers and relative order.
func (d *Document) RemoveItem(section Section, id string) error {
	switch section {
	case SectionSocialLinks:
		for i, it := range d.SocialLinks {
			if it.ID == id {
				d.SocialLinks = append(d.SocialLinks[:i], d.SocialLinks[i+1:]...)
				return nil
			}
		}
	case SectionExperience:
		for i, it := range d.Experience {
			if it.ID == id {
				d.Experience = append(d.Experience[:i], d.Experience[i+1:]...)
				return nil
			}
		}
	case SectionEducation:
		for i, it := range d.Education {
			if it.ID == id {
				d.Education = append(d.Education[:i], d.Education[i+1:]...)
				return nil
			}
		}
	case SectionProjects:
		for i, it := range d.Projects {
			if it.ID == id {
				d.Projects = append(d.Projects[:i], d.Projects[i+1:]...)
				return nil
			}
		}
	case SectionCertifications:
		for i, it := range d.Certifications {
			if it.ID == id {
				d.Certifications = append(d.Certifications[:i], d.Certifications[i+1:]...)
				return nil
			}
		}
	case SectionActivities:
		for i, it := range d.Activities {
			if it.ID == id {
				d.Activities = append(d.Activities[:i], d.Activities[i+1:]...)
				return nil
			}
		}
	}
	return notFound(section, id)
}

// MoveItem shifts the identified item by delta positions within its
// section (-1 up, +1 down). Moves past either end are clamped to no-ops.
func (d *Document) MoveItem(section Section, id string, delta int) error {
	ids := d.itemIDs(section)
	from := -1
	for i, existing := range ids {
		if existing == id {
			from = i
			break
		}
	}
	if from == -1 {
		return notFound(section, id)
	}
	to := from + delta
	if to < 0 || to >= len(ids) {
		return nil
	}
	switch section {
	case SectionSocialLinks:
		d.SocialLinks[from], d.SocialLinks[to] = d.SocialLinks[to], d.SocialLinks[from]
	case SectionExperience:
		d.Experience[from], d.Experience[to] = d.Experience[to], d.Experience[from]
	case SectionEducation:
		d.Education[from], d.Education[to] = d.Education[to], d.Education[from]
	case SectionProjects:
		d.Projects[from], d.Projects[to] = d.Projects[to], d.Projects[from]
	case SectionCertifications:
		d.Certifications[from], d.Certifications[to] = d.Certifications[to], d.Certifications[from]
	case SectionActivities:
		d.Activities[from], d.Activities[to] = d.Activities[to], d.Activities[from]
	}
	return nil
}
