package extractor

var (
	clientsCollectionKeys = []string{"clients", "reviews", "feedback", "customers", "collaborations"}
	clientNameKeys        = []string{"name", "client_name", "customer_name", "author", "reviewer"}
	clientFeedbackKeys    = []string{"feedback", "testimonial", "review", "quote", "text", "content", "description"}
	clientJobKeys         = []string{"job_title", "title", "position", "company", "role", "organization"}
	clientIntroKeys       = []string{"introduction", "about"}
	clientPhotoKeys       = []string{"photo_url", "image", "image_url", "photo", "avatar", "picture", "logo"}
)

// ClientTestimonial is feedback left by a client of the portfolio owner.
type ClientTestimonial struct {
	Name         string  `json:"name"`
	Feedback     string  `json:"feedback"`
	JobTitle     *string `json:"job_title"`
	Introduction *string `json:"introduction"`
	PhotoURL     *string `json:"photo_url"`
}

// NormalizeClients maps the client collection onto testimonials. Entries
// without both a name and feedback are dropped.
func NormalizeClients(raw Value) []ClientTestimonial {
	collection := ResolveCollection(raw, clientsCollectionKeys...)
	clients := make([]ClientTestimonial, 0, len(collection))
	for _, element := range collection {
		name := Resolve(element, clientNameKeys...)
		feedback := Resolve(element, clientFeedbackKeys...)
		if name == nil || feedback == nil {
			continue
		}
		clients = append(clients, ClientTestimonial{
			Name:         *name,
			Feedback:     *feedback,
			JobTitle:     Resolve(element, clientJobKeys...),
			Introduction: Resolve(element, clientIntroKeys...),
			PhotoURL:     Resolve(element, clientPhotoKeys...),
		})
	}
	return clients
}
