package subscription

import "server/internal/domain"

// Plan names referenced across the service.
const (
	PlanStarter  = "Starter Plan"
	PlanPro      = "Pro Plan"
	PlanSuperPro = "Super Pro Plan"
	PlanMegaPro  = "Mega Pro Plan"
)

// Catalog is the static plan lineup. New users start on the Starter Plan.
var Catalog = []domain.Plan{
	{
		Name:         PlanStarter,
		Price:        "Rs.0",
		PriceDetails: "forever",
		Features: []string{
			"10 image generations",
			"3 video generations",
			"Standard processing speed",
			"Community support",
		},
		ImageLimit: 10,
		VideoLimit: 3,
	},
	{
		Name:         PlanPro,
		Price:        "Rs.999",
		PriceDetails: "/ month",
		Features: []string{
			"50 image generations",
			"10 video generations",
			"Fast processing speed",
			"Email support",
		},
		ImageLimit:    50,
		VideoLimit:    10,
		Highlight:     true,
		HighlightText: "Most Popular",
	},
	{
		Name:         PlanSuperPro,
		Price:        "Rs.2,999",
		PriceDetails: "/ month",
		Features: []string{
			"120 image generations",
			"30 video generations",
			"Priority processing speed",
			"Priority email support",
		},
		ImageLimit: 120,
		VideoLimit: 30,
	},
	{
		Name:         PlanMegaPro,
		Price:        "Rs.4,999",
		PriceDetails: "/ month",
		Features: []string{
			"300 image generations",
			"75 video generations",
			"Fastest processing speed",
			"Dedicated support",
		},
		ImageLimit: 300,
		VideoLimit: 75,
	},
}

// PlanByName resolves a catalog entry; ok is false for unknown names.
func PlanByName(name string) (domain.Plan, bool) {
	for _, plan := range Catalog {
		if plan.Name == name {
			return plan, true
		}
	}
	return domain.Plan{}, false
}

// StarterPlan returns the plan assigned on first sign-in.
func StarterPlan() domain.Plan {
	plan, _ := PlanByName(PlanStarter)
	return plan
}
