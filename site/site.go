// Package site shapes stored rows into the documents the public pages render.
package site

import (
	"sort"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-site-backend/contact"
	"github.com/rpupo63/portfolio-site-backend/models"
)

type Profile struct {
	Name      string  `json:"name"`
	Headline  string  `json:"headline"`
	Bio       string  `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
	ResumeURL *string `json:"resume_url"`
}

type Media struct {
	ID      uuid.UUID        `json:"id"`
	URL     string           `json:"url"`
	Type    models.MediaKind `json:"type"`
	Caption *string          `json:"caption"`
}

type Project struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	LiveURL     string    `json:"live_url,omitempty"`
	GithubURL   string    `json:"github_url,omitempty"`
	Featured    bool      `json:"featured"`
	Thumbnail   *Media    `json:"thumbnail"`
	Media       []Media   `json:"media"`
}

type Skill struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Proficiency int       `json:"proficiency"`
}

type SkillGroup struct {
	Category string  `json:"category"`
	Skills   []Skill `json:"skills"`
}

type ExperienceItem struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Organization string    `json:"organization"`
	DateRange    string    `json:"date_range"`
	Description  *string   `json:"description"`
}

type ExperienceGroup struct {
	Type  models.ExperienceType `json:"type"`
	Items []ExperienceItem      `json:"items"`
}

type Certificate struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Issuer   string    `json:"issuer"`
	Date     *string   `json:"date"`
	ProofURL *string   `json:"proof_url"`
	HasProof bool      `json:"has_proof"`
}

type ContactMethod struct {
	ID       uuid.UUID    `json:"id"`
	Platform string       `json:"platform"`
	URL      string       `json:"url"`
	Icon     contact.Icon `json:"icon"`
}

// Document is every public section in one response.
type Document struct {
	Profile        *Profile          `json:"profile"`
	Projects       []Project         `json:"projects"`
	Skills         []SkillGroup      `json:"skills"`
	Experience     []ExperienceGroup `json:"experience"`
	Certificates   []Certificate     `json:"certificates"`
	ContactMethods []ContactMethod   `json:"contact_methods"`
}

// BuildProfile returns nil when no profile has been saved yet.
func BuildProfile(p *models.Profile) *Profile {
	if p == nil {
		return nil
	}
	return &Profile{Name: p.Name, Headline: p.Headline, Bio: p.Bio, AvatarURL: p.AvatarURL, ResumeURL: p.ResumeURL}
}

// BuildProjects lists featured projects first, keeping the incoming order
// within each group. Each project's first media item is its thumbnail.
func BuildProjects(rows []models.Project) []Project {
	out := make([]Project, 0, len(rows))
	for _, p := range rows {
		out = append(out, BuildProject(p))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Featured && !out[j].Featured })
	return out
}

func BuildProject(p models.Project) Project {
	v := Project{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Tags:        append([]string{}, p.Tags...),
		Featured:    p.Featured,
		Media:       BuildMedia(p.Media),
	}
	if p.LiveURL != nil {
		v.LiveURL = contact.NormalizeWebURL(*p.LiveURL)
	}
	if p.GithubURL != nil {
		v.GithubURL = contact.NormalizeWebURL(*p.GithubURL)
	}
	if len(v.Media) > 0 {
		thumb := v.Media[0]
		v.Thumbnail = &thumb
	}
	return v
}

// BuildMedia orders media by sort order. Equal sort orders keep their
// incoming order.
func BuildMedia(rows []models.ProjectMedia) []Media {
	sorted := append([]models.ProjectMedia{}, rows...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].SortOrder < sorted[j].SortOrder })

	out := make([]Media, 0, len(sorted))
	for _, m := range sorted {
		out = append(out, Media{ID: m.ID, URL: m.URL, Type: m.Type, Caption: m.Caption})
	}
	return out
}

// GroupSkills groups skills by category. Categories appear in the order of
// their first skill; rows are expected in sort order.
func GroupSkills(rows []models.Skill) []SkillGroup {
	groups := []SkillGroup{}
	index := map[string]int{}
	for _, s := range rows {
		i, ok := index[s.Category]
		if !ok {
			i = len(groups)
			index[s.Category] = i
			groups = append(groups, SkillGroup{Category: s.Category})
		}
		groups[i].Skills = append(groups[i].Skills, Skill{
			ID:          s.ID,
			Name:        s.Name,
			Proficiency: models.ClampProficiency(s.Proficiency),
		})
	}
	return groups
}

// GroupExperience returns education, work, then awards. Empty groups are
// omitted.
func GroupExperience(rows []models.Experience) []ExperienceGroup {
	byType := map[models.ExperienceType][]ExperienceItem{}
	for _, e := range rows {
		byType[e.Type] = append(byType[e.Type], ExperienceItem{
			ID:           e.ID,
			Title:        e.Title,
			Organization: e.Organization,
			DateRange:    e.DateRange,
			Description:  e.Description,
		})
	}

	groups := []ExperienceGroup{}
	for _, t := range models.ExperienceTypes {
		if items := byType[t]; len(items) > 0 {
			groups = append(groups, ExperienceGroup{Type: t, Items: items})
		}
	}
	return groups
}

func BuildCertificates(rows []models.Certificate) []Certificate {
	out := make([]Certificate, 0, len(rows))
	for _, c := range rows {
		out = append(out, Certificate{
			ID:       c.ID,
			Name:     c.Name,
			Issuer:   c.Issuer,
			Date:     c.Date,
			ProofURL: c.ProofURL,
			HasProof: c.ProofURL != nil && *c.ProofURL != "",
		})
	}
	return out
}

// BuildContactMethods normalizes every link and resolves its icon, so rows
// stored before normalization still render as usable links.
func BuildContactMethods(rows []models.ContactMethod) []ContactMethod {
	out := make([]ContactMethod, 0, len(rows))
	for _, c := range rows {
		icon := ""
		if c.Icon != nil {
			icon = *c.Icon
		}
		out = append(out, ContactMethod{
			ID:       c.ID,
			Platform: c.Platform,
			URL:      contact.NormalizeURL(c.URL, c.Platform),
			Icon:     contact.ResolveIcon(icon, c.Platform),
		})
	}
	return out
}
