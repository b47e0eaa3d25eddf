package paywall

// Plan is one upgrade option shown when the free tier is used up
type Plan struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Period   string `json:"period"`
	Note     string `json:"note,omitempty"`
	Featured bool   `json:"featured,omitempty"`
}

// Payload is the static display payload for the upgrade prompt
type Payload struct {
	Title       string `json:"title"`
	Message     string `json:"message"`
	Plans       []Plan `json:"plans"`
	CheckoutURL string `json:"checkout_url"`
}

// DefaultPlans lists the plans offered in the upgrade prompt
func DefaultPlans() []Plan {
	return []Plan{
		{
			ID:     "monthly",
			Name:   "Monthly",
			Price:  "50.000đ",
			Period: "month",
		},
		{
			ID:       "yearly",
			Name:     "Yearly",
			Price:    "550.000đ",
			Period:   "year",
			Note:     "save 50.000đ",
			Featured: true,
		},
	}
}

// NewPayload builds the paywall payload for the given checkout link
func NewPayload(checkoutURL string) Payload {
	return Payload{
		Title:       "Upgrade to keep going",
		Message:     "You have used all free lookups. Choose a plan to continue.",
		Plans:       DefaultPlans(),
		CheckoutURL: checkoutURL,
	}
}
