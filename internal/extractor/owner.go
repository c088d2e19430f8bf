package extractor

var (
	ownerBlockKeys  = []string{"portfolio_owner", "owner", "talent", "profile", "person", "author", "creator"}
	ownerNameKeys   = []string{"name", "full_name", "talent_name", "owner_name", "author_name"}
	ownerJobKeys    = []string{"job_title", "title", "profession", "role", "position", "occupation"}
	ownerIntroKeys  = []string{"introduction", "about", "bio", "description", "about_me", "summary"}
	ownerExpertKeys = []string{"expertise", "areas_of_expertise", "specializations", "specialties", "areas", "focus_areas"}
	ownerSkillKeys  = []string{"skills", "proficiency", "technical_skills", "abilities", "experience", "software", "tools"}
	ownerSocialKeys = []string{"social_media_urls", "social_urls", "social_links", "social_media", "links", "urls"}
)

// OwnerProfile describes the person behind a portfolio.
type OwnerProfile struct {
	Name         *string  `json:"name"`
	JobTitle     *string  `json:"job_title"`
	Introduction *string  `json:"introduction"`
	Expertise    []string `json:"expertise"`
	Skills       []string `json:"skills"`
	SocialURLs   []string `json:"social_urls"`
}

// NormalizeOwner maps a raw payload onto an OwnerProfile. The owner block is
// looked up first; a flat payload is used as the owner when there is none.
func NormalizeOwner(raw Value) OwnerProfile {
	owner, ok := ResolveObject(raw, ownerBlockKeys...)
	if !ok {
		owner = raw
	}

	profile := OwnerProfile{
		Name:         mapText(Resolve(owner, ownerNameKeys...), titleCase),
		JobTitle:     mapText(Resolve(owner, ownerJobKeys...), titleCase),
		Introduction: mapText(Resolve(owner, ownerIntroKeys...), upperFirst),
		Expertise:    []string{},
		Skills:       []string{},
		SocialURLs:   socialURLs(owner),
	}

	if expertise, ok := ResolveArrayOrString(owner, ownerExpertKeys...); ok {
		profile.Expertise = splitList(expertise)
	}
	if skills, ok := ResolveArrayOrString(owner, ownerSkillKeys...); ok {
		profile.Skills = splitList(skills)
	}

	return profile
}

// socialURLs unions every social key. Array entries are kept when non-empty;
// a single string is kept only when it parses as a URL.
func socialURLs(owner Value) []string {
	urls := []string{}
	seen := make(map[string]struct{})
	add := func(value string) {
		if _, dup := seen[value]; dup {
			return
		}
		seen[value] = struct{}{}
		urls = append(urls, value)
	}

	for _, key := range ownerSocialKeys {
		field, ok := owner.Field(key)
		if !ok {
			continue
		}
		switch field.Kind() {
		case KindArray:
			for _, item := range field.Items() {
				if item.Kind() != KindString {
					continue
				}
				if text, ok := item.Text(); ok {
					add(text)
				}
			}
		case KindString:
			if text, ok := field.Text(); ok && ValidURL(text) {
				add(text)
			}
		}
	}
	return urls
}
