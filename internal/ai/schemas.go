package ai

import "google.golang.org/genai"

// generationConfig builds the base GenerateContentConfig with the
// operation's temperature and a JSON response schema.
func (g *GeminiProvider) generationConfig(schema *genai.Schema) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(*g.config.Temperature)),
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}
}

// documentSchema describes the structured resume object the model fills
// in during extraction. Item IDs are assigned client-side after parsing,
// so they are deliberately absent here.
func documentSchema() *genai.Schema {
	pointsSchema := &genai.Schema{
		Type:  genai.TypeArray,
		Items: &genai.Schema{Type: genai.TypeString},
	}

	experienceItem := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"role":     {Type: genai.TypeString},
			"company":  {Type: genai.TypeString},
			"duration": {Type: genai.TypeString},
			"points":   pointsSchema,
		},
		Required: []string{"role", "company", "duration", "points"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"fullName":    {Type: genai.TypeString},
			"title":       {Type: genai.TypeString},
			"contactInfo": {Type: genai.TypeString},
			"socialLinks": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"platform": {Type: genai.TypeString},
						"url":      {Type: genai.TypeString},
					},
					Required: []string{"platform", "url"},
				},
			},
			"summary":    {Type: genai.TypeString},
			"skills":     {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"softSkills": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"experience": {Type: genai.TypeArray, Items: experienceItem},
			"education": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"degree":     {Type: genai.TypeString},
						"school":     {Type: genai.TypeString},
						"year":       {Type: genai.TypeString},
						"gpa":        {Type: genai.TypeString},
						"coursework": {Type: genai.TypeString},
						"honors":     {Type: genai.TypeString},
					},
					Required: []string{"degree", "school", "year"},
				},
			},
			"projects": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"title":  {Type: genai.TypeString},
						"link":   {Type: genai.TypeString},
						"points": pointsSchema,
					},
					Required: []string{"title", "points"},
				},
			},
			"certifications": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":   {Type: genai.TypeString},
						"issuer": {Type: genai.TypeString},
						"date":   {Type: genai.TypeString},
						"url":    {Type: genai.TypeString},
					},
					Required: []string{"name", "issuer", "date"},
				},
			},
			"activities": {Type: genai.TypeArray, Items: experienceItem},
		},
		Required: []string{"fullName", "title", "contactInfo", "summary", "skills", "experience", "education"},
	}
}

// buildAnalyzeSchema builds the response schema for the full analysis.
func (g *GeminiProvider) buildAnalyzeSchema() *genai.GenerateContentConfig {
	return g.generationConfig(&genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"score": {
				Type:        genai.TypeInteger,
				Description: "Match score between 0 and 100",
			},
			"missingKeywords": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "Skills and terms from the job description absent from the resume",
			},
			"managerRoast": {
				Type:        genai.TypeString,
				Description: "Blunt hiring manager reaction",
			},
			"fixStrategy": {
				Type:        genai.TypeString,
				Description: "Prioritized list of the highest-impact changes",
			},
			"structuredResume": documentSchema(),
			"interviewPrep": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"question":    {Type: genai.TypeString},
						"context":     {Type: genai.TypeString},
						"idealAnswer": {Type: genai.TypeString},
					},
					Required: []string{"question", "context", "idealAnswer"},
				},
			},
		},
		Required: []string{"score", "missingKeywords", "managerRoast", "fixStrategy", "structuredResume", "interviewPrep"},
	})
}

// buildRescoreSchema builds the response schema for the quick score check.
func (g *GeminiProvider) buildRescoreSchema() *genai.GenerateContentConfig {
	return g.generationConfig(&genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"score": {
				Type:        genai.TypeInteger,
				Description: "Match score between 0 and 100",
			},
			"feedback": {
				Type:        genai.TypeString,
				Description: "One paragraph on what moved the score",
			},
		},
		Required: []string{"score", "feedback"},
	})
}

// buildTextSchema builds the single-text-field schema shared by the
// improve, cover letter and headshot critique operations.
func (g *GeminiProvider) buildTextSchema() *genai.GenerateContentConfig {
	return g.generationConfig(&genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"text": {Type: genai.TypeString},
		},
		Required: []string{"text"},
	})
}

// buildLinkedInSchema builds the response schema for profile import.
// The model returns the same envelope as analysis with a neutral score
// so the result can flow straight into the editor.
func (g *GeminiProvider) buildLinkedInSchema() *genai.GenerateContentConfig {
	return g.buildAnalyzeSchema()
}

// buildLearningPlanSchema builds the response schema for learning plans.
func (g *GeminiProvider) buildLearningPlanSchema() *genai.GenerateContentConfig {
	return g.generationConfig(&genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"resources": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"skill":    {Type: genai.TypeString},
						"priority": {Type: genai.TypeString, Description: "high, medium or low"},
						"plan":     {Type: genai.TypeString},
					},
					Required: []string{"skill", "priority", "plan"},
				},
			},
		},
		Required: []string{"resources"},
	})
}
