package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() *Document {
	doc := &Document{
		FullName:    "Jane Q. Public",
		Title:       "Platform Engineer",
		ContactInfo: "jane@example.com | (555) 010-0199",
		SocialLinks: []SocialLink{
			{ID: "sl-1", Platform: "GitHub", URL: "https://github.com/janeq"},
		},
		Summary:    "Engineer with eight years building data platforms.",
		Skills:     []string{"Go", "AWS", "Terraform"},
		SoftSkills: []string{"Mentoring"},
		Experience: []ExperienceItem{
			{ID: "exp-1", Role: "Senior Engineer", Company: "Acme", Duration: "2020-2024",
				Points: []string{"Led migration to AWS.", "Cut build times 40%."}},
			{ID: "exp-2", Role: "Engineer", Company: "Initech", Duration: "2016-2020",
				Points: []string{"Built reporting pipeline."}},
		},
		Education: []EducationItem{
			{ID: "edu-1", Degree: "BS Computer Science", School: "State University", Year: "2016"},
		},
	}
	doc.Normalize()
	return doc
}

func TestParseNormalizesNilCollections(t *testing.T) {
	doc, err := Parse([]byte(`{"fullName":"Jane Q. Public"}`))
	require.NoError(t, err)

	assert.NotNil(t, doc.Skills)
	assert.NotNil(t, doc.Experience)
	assert.NotNil(t, doc.SocialLinks)
	assert.Empty(t, doc.Experience)
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{"fullName":`))
	assert.Error(t, err)
}

func TestJSONRoundTrip(t *testing.T) {
	doc := sampleDocument()

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, doc, parsed)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Document)
		wantErr bool
	}{
		{
			name:   "valid document",
			mutate: func(d *Document) {},
		},
		{
			name: "duplicate id in section",
			mutate: func(d *Document) {
				d.Experience = append(d.Experience, ExperienceItem{ID: "exp-1", Role: "Dup"})
			},
			wantErr: true,
		},
		{
			name: "empty id",
			mutate: func(d *Document) {
				d.Education = append(d.Education, EducationItem{Degree: "MS"})
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := sampleDocument()
			tt.mutate(doc)
			err := doc.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRemoveItemKeepsRemainingIDs(t *testing.T) {
	doc := sampleDocument()

	require.NoError(t, doc.RemoveItem(SectionExperience, "exp-1"))

	require.Len(t, doc.Experience, 1)
	assert.Equal(t, "exp-2", doc.Experience[0].ID)
	assert.False(t, doc.HasItem(SectionExperience, "exp-1"))
	assert.True(t, doc.HasItem(SectionExperience, "exp-2"))
}

func TestMoveItemIsIdentifierStable(t *testing.T) {
	doc := sampleDocument()

	require.NoError(t, doc.MoveItem(SectionExperience, "exp-2", -1))
	assert.Equal(t, "exp-2", doc.Experience[0].ID)
	assert.Equal(t, "exp-1", doc.Experience[1].ID)

	// Moving past the top is a no-op.
	require.NoError(t, doc.MoveItem(SectionExperience, "exp-2", -1))
	assert.Equal(t, "exp-2", doc.Experience[0].ID)
}

func TestSetPoint(t *testing.T) {
	doc := sampleDocument()

	require.NoError(t, doc.SetPoint(SectionExperience, "exp-1", 1, "Cut build times 60%."))
	assert.Equal(t, "Cut build times 60%.", doc.Experience[0].Points[1])

	assert.Error(t, doc.SetPoint(SectionExperience, "exp-1", 5, "out of range"))
	assert.Error(t, doc.SetPoint(SectionExperience, "gone", 0, "missing item"))
}

func TestPointText(t *testing.T) {
	doc := sampleDocument()

	text, err := doc.PointText(SectionExperience, "exp-1", 0)
	require.NoError(t, err)
	assert.Equal(t, doc.Experience[0].Points[0], text)

	_, err = doc.PointText(SectionExperience, "exp-1", 9)
	assert.Error(t, err)
	_, err = doc.PointText(SectionExperience, "gone", 0)
	assert.Error(t, err)
}

func TestAddExperienceAssignsID(t *testing.T) {
	doc := sampleDocument()

	id, err := doc.AddExperience(SectionActivities, ExperienceItem{Role: "Volunteer"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.True(t, doc.HasItem(SectionActivities, id))

	_, err = doc.AddExperience(SectionEducation, ExperienceItem{Role: "nope"})
	assert.Error(t, err)
}

func TestCloneIsDeep(t *testing.T) {
	doc := sampleDocument()
	clone := doc.Clone()

	clone.Experience[0].Points[0] = "changed"
	assert.Equal(t, "Led migration to AWS.", doc.Experience[0].Points[0])
}
