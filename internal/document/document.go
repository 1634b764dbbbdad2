// Package document defines the normalized resume document model and the
// mutation operations the editing surfaces are built on. The model is
// presentation-free; layout and styling live elsewhere.
package document

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"careerstealth/internal/errors"
)

// Document is the normalized resume content model. Field names mirror the
// wire schema used by the AI contracts, so a Document round-trips through
// JSON without loss.
type Document struct {
	FullName       string              `json:"fullName"`
	Title          string              `json:"title"`
	ContactInfo    string              `json:"contactInfo"`
	SocialLinks    []SocialLink        `json:"socialLinks"`
	Summary        string              `json:"summary"`
	Skills         []string            `json:"skills"`
	SoftSkills     []string            `json:"softSkills"`
	Experience     []ExperienceItem    `json:"experience"`
	Education      []EducationItem     `json:"education"`
	Projects       []ProjectItem       `json:"projects"`
	Certifications []CertificationItem `json:"certifications"`
	Activities     []ExperienceItem    `json:"activities"`
}

// SocialLink is a labeled hyperlink shown in the document header.
type SocialLink struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// ExperienceItem covers both work experience and leadership/activity
// entries; they share a shape.
type ExperienceItem struct {
	ID       string   `json:"id"`
	Role     string   `json:"role"`
	Company  string   `json:"company"`
	Duration string   `json:"duration"`
	Points   []string `json:"points"`
}

type EducationItem struct {
	ID         string `json:"id"`
	Degree     string `json:"degree"`
	School     string `json:"school"`
	Year       string `json:"year"`
	GPA        string `json:"gpa,omitempty"`
	Coursework string `json:"coursework,omitempty"`
	Honors     string `json:"honors,omitempty"`
}

type ProjectItem struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Link   string   `json:"link,omitempty"`
	Points []string `json:"points"`
}

type CertificationItem struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
	URL    string `json:"url,omitempty"`
}

// Section identifies one of the item-bearing lists of a Document.
type Section string

const (
	SectionSocialLinks    Section = "socialLinks"
	SectionExperience     Section = "experience"
	SectionEducation      Section = "education"
	SectionProjects       Section = "projects"
	SectionCertifications Section = "certifications"
	SectionActivities     Section = "activities"
)

// NewItemID returns a fresh identifier for a user-added item. Identifiers
// never change for the lifetime of an item.
func NewItemID() string {
	return uuid.NewString()
}

// Parse decodes a JSON document and normalizes it.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidDocument, "failed to parse document JSON", err)
	}
	doc.Normalize()
	return &doc, nil
}

// Normalize replaces nil collections with empty ones so every loaded
// document satisfies the model invariant.
func (d *Document) Normalize() {
	if d.SocialLinks == nil {
		d.SocialLinks = []SocialLink{}
	}
	if d.Skills == nil {
		d.Skills = []string{}
	}
	if d.SoftSkills == nil {
		d.SoftSkills = []string{}
	}
	if d.Experience == nil {
		d.Experience = []ExperienceItem{}
	}
	if d.Education == nil {
		d.Education = []EducationItem{}
	}
	if d.Projects == nil {
		d.Projects = []ProjectItem{}
	}
	if d.Certifications == nil {
		d.Certifications = []CertificationItem{}
	}
	if d.Activities == nil {
		d.Activities = []ExperienceItem{}
	}
	for i := range d.Experience {
		if d.Experience[i].Points == nil {
			d.Experience[i].Points = []string{}
		}
	}
	for i := range d.Activities {
		if d.Activities[i].Points == nil {
			d.Activities[i].Points = []string{}
		}
	}
	for i := range d.Projects {
		if d.Projects[i].Points == nil {
			d.Projects[i].Points = []string{}
		}
	}
}

// EnsureItemIDs assigns fresh identifiers to items missing one. AI
// extraction returns items without IDs; everything downstream assumes
// every item has a stable one.
func (d *Document) EnsureItemIDs() {
	for i := range d.SocialLinks {
		if d.SocialLinks[i].ID == "" {
			d.SocialLinks[i].ID = NewItemID()
		}
	}
	for i := range d.Experience {
		if d.Experience[i].ID == "" {
			d.Experience[i].ID = NewItemID()
		}
	}
	for i := range d.Education {
		if d.Education[i].ID == "" {
			d.Education[i].ID = NewItemID()
		}
	}
	for i := range d.Projects {
		if d.Projects[i].ID == "" {
			d.Projects[i].ID = NewItemID()
		}
	}
	for i := range d.Certifications {
		if d.Certifications[i].ID == "" {
			d.Certifications[i].ID = NewItemID()
		}
	}
	for i := range d.Activities {
		if d.Activities[i].ID == "" {
			d.Activities[i].ID = NewItemID()
		}
	}
}

// Validate checks structural invariants: item identifiers must be present
// and unique within their section.
func (d *Document) Validate() error {
	for _, section := range []Section{
		SectionSocialLinks, SectionExperience, SectionEducation,
		SectionProjects, SectionCertifications, SectionActivities,
	} {
		seen := make(map[string]bool)
		for _, id := range d.itemIDs(section) {
			if id == "" {
				return errors.NewValidationError(errors.ErrCodeInvalidDocument,
					fmt.Sprintf("empty item id in section %s", section), nil)
			}
			if seen[id] {
				return errors.NewValidationError(errors.ErrCodeInvalidDocument,
					fmt.Sprintf("duplicate item id %q in section %s", id, section), nil)
			}
			seen[id] = true
		}
	}
	return nil
}

// HasItem reports whether the identified item still exists. Used to
// discard responses for fields deleted while a request was in flight.
func (d *Document) HasItem(section Section, id string) bool {
	for _, existing := range d.itemIDs(section) {
		if existing == id {
			return true
		}
	}
	return false
}

func (d *Document) itemIDs(section Section) []string {
	var ids []string
	switch section {
	case SectionSocialLinks:
		for _, it := range d.SocialLinks {
			ids = append(ids, it.ID)
		}
	case SectionExperience:
		for _, it := range d.Experience {
			ids = append(ids, it.ID)
		}
	case SectionEducation:
		for _, it := range d.Education {
			ids = append(ids, it.ID)
		}
	case SectionProjects:
		for _, it := range d.Projects {
			ids = append(ids, it.ID)
		}
	case SectionCertifications:
		for _, it := range d.Certifications {
			ids = append(ids, it.ID)
		}
	case SectionActivities:
		for _, it := range d.Activities {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

// Clone returns a deep copy via the JSON round trip. The model is plain
// data, so this is both correct and cheap at resume sizes.
func (d *Document) Clone() *Document {
	data, err := json.Marshal(d)
	if err != nil {
		// Document contains only marshalable types.
		panic(fmt.Sprintf("document: clone marshal failed: %v", err))
	}
	var out Document
	if err := json.Unmarshal(data, &out); err != nil {
		panic(fmt.Sprintf("document: clone unmarshal failed: %v", err))
	}
	out.Normalize()
	return &out
}
