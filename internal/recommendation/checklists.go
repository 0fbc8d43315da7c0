package recommendation

import "slices"

var nextSteps = map[Outcome][]string{
	OutcomeProceed: {
		"Start the formation intake",
		"Gather the names and addresses of your founding members",
		"Draft your mission statement for the governing documents",
		"Choose an organizer and a witness to sign the documents",
	},
	OutcomeExplore: {
		"Talk with your founding members about shared goals and decision-making",
		"Write down your mission and the activities you plan in the first year",
		"Compare a nonprofit association with incorporating or fiscal sponsorship",
		"Return to the exploration questions when your plans are clearer",
	},
	OutcomeAlternative: {
		"Review whether a nonprofit corporation, cooperative or fiscal sponsorship fits better",
		"Consult a local attorney about the structures available where you operate",
		"Revisit the association route if your jurisdiction or plans change",
	},
}

// NextSteps returns a copy of the static checklist for an outcome.
func NextSteps(o Outcome) []string {
	return slices.Clone(nextSteps[o])
}
